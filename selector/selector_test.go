package selector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/buildsim/idfkit/match"
	"github.com/buildsim/idfkit/resolver"
	"github.com/buildsim/idfkit/schema"
	"github.com/buildsim/idfkit/store"
)

const testIDD = `
\group Thermal Zones and Surfaces

Zone,
      \min-fields 1
  A1 , \field Name
      \required-field
  N1 , \field X Origin
      \type real
      \default 0
  N2 , \field Y Origin
      \type real
      \default 0
  N3 ; \field Z Origin
      \type real
      \default 0

Material,
  A1 ; \field Name
`

func testStore(t *testing.T) *store.Store {
	t.Helper()
	ix, err := schema.Parse(strings.NewReader(testIDD))
	require.NoError(t, err)

	return store.FromRecords(ix, []*store.Record{
		store.NewRecord("Zone", "Basement", "0", "0", "0"),
		store.NewRecord("Material", "Concrete"),
		store.NewRecord("Zone", "Basement Storage", "10", "0", "0"),
		store.NewRecord("Zone", "Attic", "0", "0", "3"),
	})
}

func TestMask_AllOfType(t *testing.T) {
	s := testStore(t)
	sel := New(s, nil)

	m, err := sel.AllOfType("Zone")
	require.NoError(t, err)
	require.Equal(t, 3, m.Count())
	require.Equal(t, []int{0, 2, 3}, m.Indices())
	require.Equal(t, s.Len(), m.Len())

	// No criteria behaves identically regardless of method.
	m2, err := sel.Mask("Zone", match.Exact, nil)
	require.NoError(t, err)
	require.Equal(t, m.Indices(), m2.Indices())
}

func TestMask_ExactIsCaseSensitive(t *testing.T) {
	sel := New(testStore(t), nil)

	m, err := sel.Mask("Zone", match.Exact, map[string]string{"Name": "Basement"})
	require.NoError(t, err)
	require.Equal(t, []int{0}, m.Indices())

	m, err = sel.Mask("Zone", match.Exact, map[string]string{"Name": "basement"})
	require.NoError(t, err)
	require.Equal(t, 0, m.Count())
}

func TestMask_WordsSubstring(t *testing.T) {
	sel := New(testStore(t), nil)

	m, err := sel.Mask("Zone", match.Words, map[string]string{"Name": "Basement"})
	require.NoError(t, err)
	require.Equal(t, []int{0, 2}, m.Indices())

	// Multiple criteria AND together.
	m, err = sel.Mask("Zone", match.Words, map[string]string{
		"Name":     "Basement",
		"x_origin": "10",
	})
	require.NoError(t, err)
	require.Equal(t, []int{2}, m.Indices())
}

func TestMask_DirtyIdentifiers(t *testing.T) {
	sel := New(testStore(t), nil)

	m, err := sel.Mask("Zone", match.Exact, map[string]string{"z_origin": "3"})
	require.NoError(t, err)
	require.Equal(t, []int{3}, m.Indices())
}

func TestMask_Errors(t *testing.T) {
	sel := New(testStore(t), nil)

	_, err := sel.Mask("zone", match.All, nil)
	var tnf *schema.ErrTypeNotFound
	require.ErrorAs(t, err, &tnf)

	_, err = sel.Mask("Zone", match.Exact, map[string]string{"Floor_Area": "1"})
	var fnf *resolver.ErrFieldNotFound
	require.ErrorAs(t, err, &fnf)

	_, err = sel.Mask("Zone", "fulltext", nil)
	var um *match.ErrUnknownMethod
	require.ErrorAs(t, err, &um)
}

func TestMask_Composition(t *testing.T) {
	s := testStore(t)
	sel := New(s, nil)

	zones, err := sel.AllOfType("Zone")
	require.NoError(t, err)
	basement, err := sel.Mask("Zone", match.Words, map[string]string{"Name": "Basement"})
	require.NoError(t, err)

	and, err := zones.And(basement)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2}, and.Indices())

	or, err := basement.Or(basement.Not())
	require.NoError(t, err)
	require.Equal(t, s.Len(), or.Count())

	not := basement.Not()
	require.Equal(t, []int{1, 3}, not.Indices())
	require.Equal(t, []bool{false, true, false, true}, not.Bools())
}

func TestMask_CompositionMismatch(t *testing.T) {
	s := testStore(t)
	sel := New(s, nil)

	before, err := sel.AllOfType("Zone")
	require.NoError(t, err)

	s.Append(store.NewRecord("Zone", "New"))

	after, err := sel.AllOfType("Zone")
	require.NoError(t, err)

	_, err = before.And(after)
	var mm *ErrMaskMismatch
	require.ErrorAs(t, err, &mm)
}

func TestMask_Staleness(t *testing.T) {
	s := testStore(t)
	sel := New(s, nil)

	m, err := sel.AllOfType("Zone")
	require.NoError(t, err)
	require.NoError(t, m.Validate(s))

	s.Append(store.NewRecord("Zone", "New"))

	var stale *ErrStaleMask
	require.ErrorAs(t, m.Validate(s), &stale)
	require.Equal(t, 4, stale.MaskLen)
	require.Equal(t, 5, stale.StoreLen)

	// Equal-length drift is caught by the epoch stamp.
	fresh, err := sel.AllOfType("Zone")
	require.NoError(t, err)
	_, err = s.RemoveAt(4)
	require.NoError(t, err)
	s.Append(store.NewRecord("Zone", "Other"))
	require.ErrorAs(t, fresh.Validate(s), &stale)
}
