// Package schema loads and indexes IDD object definitions.
//
// An IDD source declares record types in blocks: a type name followed by
// field markers (\field, \type, \key, \minimum, \maximum, \default, ...).
// Parse builds one RecordTemplate per type, preserving field declaration
// order verbatim - editors rely on positional alignment between templates
// and raw records.
package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldType defines the declared data type of a field.
type FieldType uint8

const (
	FieldTypeText FieldType = iota
	FieldTypeReal
	FieldTypeInteger
	FieldTypeChoice
	FieldTypeObjectRef
	FieldTypeNode
)

// String returns the string representation of the FieldType.
func (t FieldType) String() string {
	switch t {
	case FieldTypeText:
		return "Text"
	case FieldTypeReal:
		return "Real"
	case FieldTypeInteger:
		return "Integer"
	case FieldTypeChoice:
		return "Choice"
	case FieldTypeObjectRef:
		return "ObjectRef"
	case FieldTypeNode:
		return "Node"
	default:
		return "Unknown"
	}
}

// FieldTemplate is a single field definition. Immutable once loaded.
type FieldTemplate struct {
	// Name is the canonical field name from the \field marker. It may
	// contain spaces and punctuation.
	Name string

	Type FieldType

	// Default is the \default value. HasDefault distinguishes an explicit
	// empty default from no default at all.
	Default    string
	HasDefault bool

	// Keys holds the allowed values of a choice field, in declaration order.
	Keys []string

	// Numeric bounds. Exclusive* marks \minimum> / \maximum< variants.
	Min          float64
	HasMin       bool
	ExclusiveMin bool
	Max          float64
	HasMax       bool
	ExclusiveMax bool

	Required    bool
	Autosizable bool
	Units       string
	Note        string
}

// ErrValidation is returned when a value violates a field's declared
// constraints (choice keys or numeric bounds).
type ErrValidation struct {
	Type   string
	Field  string
	Value  string
	Reason string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("invalid value %q for field %q of %s: %s", e.Value, e.Field, e.Type, e.Reason)
}

// Validate checks a value against the field's constraints. Empty values are
// always accepted; required/minimum-field enforcement happens at object
// creation, not per field.
func (f *FieldTemplate) Validate(objType, value string) error {
	if value == "" {
		return nil
	}

	switch f.Type {
	case FieldTypeChoice:
		for _, k := range f.Keys {
			if strings.EqualFold(k, value) {
				return nil
			}
		}
		return &ErrValidation{
			Type:   objType,
			Field:  f.Name,
			Value:  value,
			Reason: fmt.Sprintf("not one of %v", f.Keys),
		}

	case FieldTypeReal, FieldTypeInteger:
		if f.Autosizable && (strings.EqualFold(value, "autosize") || strings.EqualFold(value, "autocalculate")) {
			return nil
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &ErrValidation{
				Type:   objType,
				Field:  f.Name,
				Value:  value,
				Reason: "not numeric",
			}
		}
		if f.Type == FieldTypeInteger && v != float64(int64(v)) {
			return &ErrValidation{
				Type:   objType,
				Field:  f.Name,
				Value:  value,
				Reason: "not an integer",
			}
		}
		if f.HasMin && (v < f.Min || (f.ExclusiveMin && v == f.Min)) {
			return &ErrValidation{
				Type:   objType,
				Field:  f.Name,
				Value:  value,
				Reason: fmt.Sprintf("below minimum %v", f.Min),
			}
		}
		if f.HasMax && (v > f.Max || (f.ExclusiveMax && v == f.Max)) {
			return &ErrValidation{
				Type:   objType,
				Field:  f.Name,
				Value:  value,
				Reason: fmt.Sprintf("above maximum %v", f.Max),
			}
		}
	}

	return nil
}

// RecordTemplate is a record type's ordered field definitions.
// Owned by Index; immutable after load.
type RecordTemplate struct {
	// Name is the exact type name, e.g. "Zone" or "Schedule:Compact".
	Name string

	// Group is the \group the type was declared under.
	Group string

	Memo string

	// MinFields is the minimum number of populated fields (\min-fields).
	MinFields int

	// Fields in declaration order.
	Fields []FieldTemplate
}

// NumFields returns the number of declared fields.
func (rt *RecordTemplate) NumFields() int { return len(rt.Fields) }

// FieldNames returns the canonical field names in declaration order.
func (rt *RecordTemplate) FieldNames() []string {
	names := make([]string, len(rt.Fields))
	for i := range rt.Fields {
		names[i] = rt.Fields[i].Name
	}
	return names
}

// ErrTypeNotFound indicates an object type missing from the schema.
type ErrTypeNotFound struct {
	Type string
}

func (e *ErrTypeNotFound) Error() string {
	return fmt.Sprintf("unknown object type: %q", e.Type)
}

// Index maps record-type names to their templates.
// Lookup is case-sensitive on the exact type name; fuzzy resolution is the
// resolver's job and applies to field names only.
type Index struct {
	byName map[string]*RecordTemplate
	names  []string // declaration order
}

// TemplateFor returns the template for the exact type name.
func (ix *Index) TemplateFor(typeName string) (*RecordTemplate, error) {
	rt, ok := ix.byName[typeName]
	if !ok {
		return nil, &ErrTypeNotFound{Type: typeName}
	}
	return rt, nil
}

// Has reports whether the exact type name is declared.
func (ix *Index) Has(typeName string) bool {
	_, ok := ix.byName[typeName]
	return ok
}

// Types returns all declared type names in declaration order.
func (ix *Index) Types() []string {
	out := make([]string, len(ix.names))
	copy(out, ix.names)
	return out
}

// Len returns the number of declared types.
func (ix *Index) Len() int { return len(ix.names) }
