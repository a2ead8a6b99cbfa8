// Package editor reads and writes record fields through selection masks,
// creates records from schema templates and deletes masked records.
//
// Every mutating call validates its inputs against the mask and schema
// before touching the store: a failing call leaves the store unmodified.
package editor

import (
	"fmt"
	"strings"

	"github.com/buildsim/idfkit/resolver"
	"github.com/buildsim/idfkit/selector"
	"github.com/buildsim/idfkit/store"
)

// ErrMixedTypes indicates identifier-based field access through a mask
// spanning more than one record type. Field positions differ across types,
// so a name identifier cannot be resolved; use a positional accessor or
// narrow the mask.
type ErrMixedTypes struct {
	Types []string
}

func (e *ErrMixedTypes) Error() string {
	return fmt.Sprintf("mask spans multiple record types: %s", strings.Join(e.Types, ", "))
}

// ErrLengthMismatch indicates a value sequence whose length differs from
// the number of selected records.
type ErrLengthMismatch struct {
	Selected int
	Values   int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("value count %d does not match selected record count %d", e.Values, e.Selected)
}

// ErrIncompleteObject indicates a created record with fewer populated
// fields than its template's minimum.
type ErrIncompleteObject struct {
	Type      string
	MinFields int
	Populated int
}

func (e *ErrIncompleteObject) Error() string {
	return fmt.Sprintf("%s requires at least %d fields, got %d", e.Type, e.MinFields, e.Populated)
}

// ErrEmptyMask indicates an edit through a mask selecting no records.
type ErrEmptyMask struct{}

func (e *ErrEmptyMask) Error() string { return "mask selects no records" }

// Editor mutates a record store through selection masks.
type Editor struct {
	store    *store.Store
	resolver *resolver.Resolver
}

// New creates an Editor over the given store.
func New(s *store.Store, r *resolver.Resolver) *Editor {
	if r == nil {
		r = resolver.New()
	}
	return &Editor{store: s, resolver: r}
}

// GetField returns the value of the named field for every selected record,
// in store order. The identifier is resolved against the type of the first
// selected record; a mask spanning several types fails with ErrMixedTypes.
func (e *Editor) GetField(m *selector.Mask, identifier string) ([]string, error) {
	fieldIndex, indices, err := e.resolveMasked(m, identifier)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(indices))
	for _, i := range indices {
		v, err := e.store.ValueAt(i, fieldIndex)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// GetFieldAt is the positional variant of GetField. It reads the same
// field index from every selected record and works across mixed types.
func (e *Editor) GetFieldAt(m *selector.Mask, fieldIndex int) ([]string, error) {
	if err := m.Validate(e.store); err != nil {
		return nil, err
	}

	indices := m.Indices()
	values := make([]string, 0, len(indices))
	for _, i := range indices {
		v, err := e.store.ValueAt(i, fieldIndex)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// SetField writes the same value to the named field of every selected
// record.
func (e *Editor) SetField(m *selector.Mask, identifier, value string) error {
	fieldIndex, indices, err := e.resolveMasked(m, identifier)
	if err != nil {
		return err
	}
	if len(indices) == 0 {
		return &ErrEmptyMask{}
	}

	for _, i := range indices {
		if err := e.store.SetValueAt(i, fieldIndex, value); err != nil {
			return err
		}
	}
	return nil
}

// SetFieldSlice writes one value per selected record, positionally in
// store order. The slice length must equal the selected record count;
// a mismatch fails with ErrLengthMismatch before any record is touched.
func (e *Editor) SetFieldSlice(m *selector.Mask, identifier string, values []string) error {
	fieldIndex, indices, err := e.resolveMasked(m, identifier)
	if err != nil {
		return err
	}
	if len(values) != len(indices) {
		return &ErrLengthMismatch{Selected: len(indices), Values: len(values)}
	}

	for n, i := range indices {
		if err := e.store.SetValueAt(i, fieldIndex, values[n]); err != nil {
			return err
		}
	}
	return nil
}

// CreateObject builds a record of the given type, pre-filled with every
// field's template default, overwrites the fields supplied by resolved
// identifier, validates the result and appends it to the store.
//
// Any previously built mask becomes stale once the record is appended;
// that is the documented contract, not repaired here.
func (e *Editor) CreateObject(typeName string, fields map[string]string) (*store.Record, error) {
	rt, err := e.store.Schema().TemplateFor(typeName)
	if err != nil {
		return nil, err
	}

	values := make([]string, len(rt.Fields))
	for i := range rt.Fields {
		if rt.Fields[i].HasDefault {
			values[i] = rt.Fields[i].Default
		}
	}

	for identifier, value := range fields {
		fi, err := e.resolver.Resolve(rt, identifier)
		if err != nil {
			return nil, err
		}
		values[fi] = value
	}

	// Validate before mutating anything: constraint checks first, then the
	// minimum populated-field count.
	for i := range rt.Fields {
		if err := rt.Fields[i].Validate(rt.Name, values[i]); err != nil {
			return nil, err
		}
	}

	populated := 0
	for _, v := range values {
		if v != "" {
			populated++
		}
	}
	if populated < rt.MinFields {
		return nil, &ErrIncompleteObject{
			Type:      rt.Name,
			MinFields: rt.MinFields,
			Populated: populated,
		}
	}

	rec := store.NewRecord(rt.Name, values...)
	e.store.Append(rec)
	return rec, nil
}

// DeleteMasked removes every selected record in a single pass, preserving
// the relative order of the remainder, and returns the removed records.
// All previously built masks become stale.
func (e *Editor) DeleteMasked(m *selector.Mask) ([]*store.Record, error) {
	if err := m.Validate(e.store); err != nil {
		return nil, err
	}
	return e.store.RemovePositions(m.Positions()), nil
}

// resolveMasked validates the mask, checks that all selected records share
// one type and resolves the identifier against that type's template.
func (e *Editor) resolveMasked(m *selector.Mask, identifier string) (fieldIndex int, indices []int, err error) {
	if err := m.Validate(e.store); err != nil {
		return 0, nil, err
	}

	indices = m.Indices()
	if len(indices) == 0 {
		return 0, nil, &ErrEmptyMask{}
	}

	var types []string
	seen := make(map[string]struct{})
	for _, i := range indices {
		r, err := e.store.Record(i)
		if err != nil {
			return 0, nil, err
		}
		if _, ok := seen[r.Type()]; !ok {
			seen[r.Type()] = struct{}{}
			types = append(types, r.Type())
		}
	}
	if len(types) > 1 {
		return 0, nil, &ErrMixedTypes{Types: types}
	}

	rt, err := e.store.Schema().TemplateFor(types[0])
	if err != nil {
		return 0, nil, err
	}
	fieldIndex, err = e.resolver.Resolve(rt, identifier)
	if err != nil {
		return 0, nil, err
	}
	return fieldIndex, indices, nil
}
