// Package selector builds boolean selection masks over a record store.
//
// A Mask is stamped with the store length and epoch it was built against;
// consumers re-check the stamp and fail fast instead of silently operating
// on shifted indices after a structural mutation.
package selector

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/buildsim/idfkit/store"
)

// ErrStaleMask indicates a mask built before a structural store mutation.
type ErrStaleMask struct {
	MaskLen    int
	StoreLen   int
	MaskEpoch  uint64
	StoreEpoch uint64
}

func (e *ErrStaleMask) Error() string {
	return fmt.Sprintf("stale mask: built for %d records at epoch %d, store has %d records at epoch %d",
		e.MaskLen, e.MaskEpoch, e.StoreLen, e.StoreEpoch)
}

// ErrMaskMismatch indicates a boolean composition of masks built against
// different store states.
type ErrMaskMismatch struct {
	AEpoch, BEpoch uint64
	ALen, BLen     int
}

func (e *ErrMaskMismatch) Error() string {
	return fmt.Sprintf("mask mismatch: %d records at epoch %d vs %d records at epoch %d",
		e.ALen, e.AEpoch, e.BLen, e.BEpoch)
}

// Mask is a positional selection over a record store. Immutable; the
// composition methods return new masks.
type Mask struct {
	bits   *roaring.Bitmap
	length int
	epoch  uint64
}

// NewMask builds a mask over the store's current state selecting the given
// record positions.
func NewMask(s *store.Store, indices ...int) *Mask {
	bits := roaring.New()
	for _, i := range indices {
		if i >= 0 && i < s.Len() {
			bits.Add(uint32(i))
		}
	}
	return &Mask{bits: bits, length: s.Len(), epoch: s.Epoch()}
}

func newMask(bits *roaring.Bitmap, length int, epoch uint64) *Mask {
	return &Mask{bits: bits, length: length, epoch: epoch}
}

// Len returns the store length the mask was built against.
func (m *Mask) Len() int { return m.length }

// Count returns the number of selected records.
func (m *Mask) Count() int { return int(m.bits.GetCardinality()) }

// Epoch returns the store epoch the mask was built against.
func (m *Mask) Epoch() uint64 { return m.epoch }

// Test reports whether the record at the given position is selected.
func (m *Mask) Test(index int) bool {
	return index >= 0 && index < m.length && m.bits.Contains(uint32(index))
}

// Indices returns the selected record positions in ascending order.
func (m *Mask) Indices() []int {
	out := make([]int, 0, m.bits.GetCardinality())
	it := m.bits.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Bools renders the mask as one boolean per record, aligned by position.
func (m *Mask) Bools() []bool {
	out := make([]bool, m.length)
	it := m.bits.Iterator()
	for it.HasNext() {
		out[it.Next()] = true
	}
	return out
}

// Positions returns a copy of the selected positions as a bitmap.
func (m *Mask) Positions() *roaring.Bitmap { return m.bits.Clone() }

// Validate checks the mask against the store's current state.
func (m *Mask) Validate(s *store.Store) error {
	if m.length != s.Len() || m.epoch != s.Epoch() {
		return &ErrStaleMask{
			MaskLen:    m.length,
			StoreLen:   s.Len(),
			MaskEpoch:  m.epoch,
			StoreEpoch: s.Epoch(),
		}
	}
	return nil
}

// And intersects two masks built against the same store state.
func (m *Mask) And(other *Mask) (*Mask, error) {
	if err := m.compatible(other); err != nil {
		return nil, err
	}
	bits := m.bits.Clone()
	bits.And(other.bits)
	return newMask(bits, m.length, m.epoch), nil
}

// Or unions two masks built against the same store state.
func (m *Mask) Or(other *Mask) (*Mask, error) {
	if err := m.compatible(other); err != nil {
		return nil, err
	}
	bits := m.bits.Clone()
	bits.Or(other.bits)
	return newMask(bits, m.length, m.epoch), nil
}

// Not complements the mask within its record range.
func (m *Mask) Not() *Mask {
	bits := roaring.Flip(m.bits, 0, uint64(m.length))
	return newMask(bits, m.length, m.epoch)
}

func (m *Mask) compatible(other *Mask) error {
	if m.length != other.length || m.epoch != other.epoch {
		return &ErrMaskMismatch{
			AEpoch: m.epoch, BEpoch: other.epoch,
			ALen: m.length, BLen: other.length,
		}
	}
	return nil
}
