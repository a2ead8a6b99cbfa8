// Package store holds a loaded model as an ordered record collection.
//
// Record identity is positional: structural mutations (append, remove)
// shift indices and bump the store epoch, which consumers use to detect
// stale selection masks.
package store

import (
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/buildsim/idfkit/schema"
)

// Record is one model entry: a type name plus an ordered sequence of field
// values, positionally aligned to the type's RecordTemplate. A record may
// carry fewer values than its template declares (trailing fields omitted),
// never reordered ones.
type Record struct {
	typeName string
	values   []string
}

// NewRecord creates a record of the given type with the given field values.
func NewRecord(typeName string, values ...string) *Record {
	return &Record{typeName: typeName, values: values}
}

// Type returns the record's type name.
func (r *Record) Type() string { return r.typeName }

// Len returns the number of populated fields.
func (r *Record) Len() int { return len(r.values) }

// Value returns the field value at the given index, or the empty string for
// omitted trailing fields.
func (r *Record) Value(fieldIndex int) string {
	if fieldIndex < 0 || fieldIndex >= len(r.values) {
		return ""
	}
	return r.values[fieldIndex]
}

// SetValue writes the field value at the given index, growing the record
// with empty values if the index lies beyond the populated range.
func (r *Record) SetValue(fieldIndex int, value string) {
	for len(r.values) <= fieldIndex {
		r.values = append(r.values, "")
	}
	r.values[fieldIndex] = value
}

// Values returns a copy of the populated field values.
func (r *Record) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	return &Record{typeName: r.typeName, values: r.Values()}
}

// ErrIndexOutOfRange indicates a record index outside the store.
type ErrIndexOutOfRange struct {
	Index int
	Len   int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("record index %d out of range (store holds %d records)", e.Index, e.Len)
}

// Store is the ordered, mutable record collection of one loaded model.
// Single-writer, single-reader; not safe for concurrent use.
type Store struct {
	schema  *schema.Index
	records []*Record

	// byType maps a type name to the positions of its records. Rebuilt on
	// structural deletions, extended in place on append.
	byType map[string]*roaring.Bitmap

	epoch uint64
}

// New creates an empty store bound to the given schema.
func New(ix *schema.Index) *Store {
	return &Store{
		schema: ix,
		byType: make(map[string]*roaring.Bitmap),
	}
}

// FromRecords builds a store from already-parsed records. Records of types
// unknown to the schema are retained verbatim; they serialize back out but
// are excluded from type-scoped queries.
func FromRecords(ix *schema.Index, records []*Record) *Store {
	s := New(ix)
	for _, r := range records {
		s.Append(r)
	}
	return s
}

// Schema returns the schema index the store was loaded against.
func (s *Store) Schema() *schema.Index { return s.schema }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Epoch returns the structural-mutation counter. It increments on every
// append or removal, never on in-place field updates.
func (s *Store) Epoch() uint64 { return s.epoch }

// Record returns the record at the given position.
func (s *Store) Record(index int) (*Record, error) {
	if index < 0 || index >= len(s.records) {
		return nil, &ErrIndexOutOfRange{Index: index, Len: len(s.records)}
	}
	return s.records[index], nil
}

// All iterates over every record in store order.
func (s *Store) All() iter.Seq2[int, *Record] {
	return func(yield func(int, *Record) bool) {
		for i, r := range s.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// RecordsOfType iterates over the records of the exact type name, in store
// order.
func (s *Store) RecordsOfType(typeName string) iter.Seq2[int, *Record] {
	return func(yield func(int, *Record) bool) {
		bm, ok := s.byType[typeName]
		if !ok {
			return
		}
		it := bm.Iterator()
		for it.HasNext() {
			i := int(it.Next())
			if !yield(i, s.records[i]) {
				return
			}
		}
	}
}

// TypePositions returns a copy of the position bitmap for the given type.
// The copy stays valid across store mutations but no longer reflects them.
func (s *Store) TypePositions(typeName string) *roaring.Bitmap {
	bm, ok := s.byType[typeName]
	if !ok {
		return roaring.New()
	}
	return bm.Clone()
}

// CountOfType returns the number of records of the exact type name.
func (s *Store) CountOfType(typeName string) int {
	bm, ok := s.byType[typeName]
	if !ok {
		return 0
	}
	return int(bm.GetCardinality())
}

// ValueAt returns the field value at (record, field).
func (s *Store) ValueAt(index, fieldIndex int) (string, error) {
	r, err := s.Record(index)
	if err != nil {
		return "", err
	}
	return r.Value(fieldIndex), nil
}

// SetValueAt writes the field value at (record, field) in place.
// Non-structural: the epoch is unchanged and existing masks stay valid.
func (s *Store) SetValueAt(index, fieldIndex int, value string) error {
	r, err := s.Record(index)
	if err != nil {
		return err
	}
	r.SetValue(fieldIndex, value)
	return nil
}

// Append adds a record to the end of the store.
func (s *Store) Append(r *Record) {
	pos := uint32(len(s.records))
	s.records = append(s.records, r)

	bm, ok := s.byType[r.typeName]
	if !ok {
		bm = roaring.New()
		s.byType[r.typeName] = bm
	}
	bm.Add(pos)
	s.epoch++
}

// RemoveAt removes and returns the record at the given position. All
// following records shift down by one.
func (s *Store) RemoveAt(index int) (*Record, error) {
	r, err := s.Record(index)
	if err != nil {
		return nil, err
	}
	s.records = append(s.records[:index], s.records[index+1:]...)
	s.rebuildIndex()
	s.epoch++
	return r, nil
}

// RemovePositions removes every record whose position is set in the bitmap,
// in a single pass, preserving the relative order of the remainder. It
// returns the removed records in store order.
func (s *Store) RemovePositions(positions *roaring.Bitmap) []*Record {
	if positions.IsEmpty() {
		return nil
	}

	removed := make([]*Record, 0, positions.GetCardinality())
	kept := s.records[:0]
	for i, r := range s.records {
		if positions.Contains(uint32(i)) {
			removed = append(removed, r)
		} else {
			kept = append(kept, r)
		}
	}
	// Release trailing slots so removed records can be collected.
	for i := len(kept); i < len(s.records); i++ {
		s.records[i] = nil
	}
	s.records = kept
	s.rebuildIndex()
	s.epoch++
	return removed
}

// Reset replaces the store's entire contents, invalidating every mask taken
// against the previous contents.
func (s *Store) Reset(records []*Record) {
	s.records = append([]*Record(nil), records...)
	s.rebuildIndex()
	s.epoch++
}

func (s *Store) rebuildIndex() {
	s.byType = make(map[string]*roaring.Bitmap)
	for i, r := range s.records {
		bm, ok := s.byType[r.typeName]
		if !ok {
			bm = roaring.New()
			s.byType[r.typeName] = bm
		}
		bm.Add(uint32(i))
	}
}
