package store

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/require"
)

func testStore() *Store {
	s := New(nil)
	s.Append(NewRecord("Zone", "Z1", "0", "0"))
	s.Append(NewRecord("Material", "Concrete"))
	s.Append(NewRecord("Zone", "Z2"))
	s.Append(NewRecord("Zone", "Z3", "90"))
	return s
}

func TestStore_TypeIndex(t *testing.T) {
	s := testStore()

	require.Equal(t, 4, s.Len())
	require.Equal(t, 3, s.CountOfType("Zone"))
	require.Equal(t, 1, s.CountOfType("Material"))
	require.Equal(t, 0, s.CountOfType("Building"))

	var names []string
	for _, r := range s.RecordsOfType("Zone") {
		names = append(names, r.Value(0))
	}
	require.Equal(t, []string{"Z1", "Z2", "Z3"}, names)
}

func TestStore_ValueAccess(t *testing.T) {
	s := testStore()

	v, err := s.ValueAt(0, 1)
	require.NoError(t, err)
	require.Equal(t, "0", v)

	// Omitted trailing fields read as empty.
	v, err = s.ValueAt(2, 5)
	require.NoError(t, err)
	require.Equal(t, "", v)

	// Writing past the populated range grows the record.
	require.NoError(t, s.SetValueAt(2, 3, "1.5"))
	r, err := s.Record(2)
	require.NoError(t, err)
	require.Equal(t, 4, r.Len())
	require.Equal(t, "1.5", r.Value(3))
	require.Equal(t, "", r.Value(2))

	_, err = s.ValueAt(99, 0)
	var oob *ErrIndexOutOfRange
	require.ErrorAs(t, err, &oob)
	require.Equal(t, 99, oob.Index)
}

func TestStore_EpochSemantics(t *testing.T) {
	s := testStore()
	e := s.Epoch()

	// In-place updates are non-structural.
	require.NoError(t, s.SetValueAt(0, 0, "Z1-renamed"))
	require.Equal(t, e, s.Epoch())

	s.Append(NewRecord("Zone", "Z4"))
	require.Equal(t, e+1, s.Epoch())

	_, err := s.RemoveAt(0)
	require.NoError(t, err)
	require.Equal(t, e+2, s.Epoch())
}

func TestStore_RemoveAtShiftsIndices(t *testing.T) {
	s := testStore()

	r, err := s.RemoveAt(0)
	require.NoError(t, err)
	require.Equal(t, "Z1", r.Value(0))
	require.Equal(t, 3, s.Len())

	// Type index follows the shifted positions.
	var idx []int
	for i := range s.RecordsOfType("Zone") {
		idx = append(idx, i)
	}
	require.Equal(t, []int{1, 2}, idx)
}

func TestStore_RemovePositions(t *testing.T) {
	s := testStore()

	positions := roaring.New()
	positions.Add(0)
	positions.Add(3)

	removed := s.RemovePositions(positions)
	require.Len(t, removed, 2)
	require.Equal(t, "Z1", removed[0].Value(0))
	require.Equal(t, "Z3", removed[1].Value(0))

	require.Equal(t, 2, s.Len())
	first, err := s.Record(0)
	require.NoError(t, err)
	require.Equal(t, "Material", first.Type())

	// Removing nothing is a no-op, including the epoch.
	e := s.Epoch()
	require.Nil(t, s.RemovePositions(roaring.New()))
	require.Equal(t, e, s.Epoch())
}

func TestStore_Reset(t *testing.T) {
	s := testStore()
	e := s.Epoch()

	s.Reset([]*Record{
		NewRecord("Zone", "Z1", "0", "0"),
		NewRecord("Material", "Concrete"),
		NewRecord("Zone", "Z2"),
		NewRecord("Zone", "Z3", "90"),
	})

	// Identical contents, but the epoch still advances so stale masks
	// cannot silently survive a restore.
	require.Equal(t, 4, s.Len())
	require.Equal(t, 3, s.CountOfType("Zone"))
	require.Equal(t, e+1, s.Epoch())

	s.Reset(nil)
	require.Equal(t, 0, s.Len())
	require.Equal(t, 0, s.CountOfType("Zone"))
}

func TestFromRecords_RetainsUnknownTypes(t *testing.T) {
	records := []*Record{
		NewRecord("Zone", "Z1"),
		NewRecord("Vendor:Custom", "X"),
	}
	s := FromRecords(nil, records)

	require.Equal(t, 2, s.Len())
	require.Equal(t, 1, s.CountOfType("Vendor:Custom"))
}
