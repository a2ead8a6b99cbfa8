package idf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/buildsim/idfkit/schema"
	"github.com/buildsim/idfkit/store"
)

const testModel = `
! Test model
Version, 9.4;

Zone,
    Basement,       !- Name
    0,              !- Direction of Relative North
    0, 0, 0;        ! origins

Vendor:Custom, a, b;
`

func TestParseString(t *testing.T) {
	records, err := ParseString(testModel)
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, "Version", records[0].Type())
	require.Equal(t, []string{"9.4"}, records[0].Values())

	zone := records[1]
	require.Equal(t, "Zone", zone.Type())
	require.Equal(t, []string{"Basement", "0", "0", "0", "0"}, zone.Values())

	require.Equal(t, "Vendor:Custom", records[2].Type())
}

func TestParseString_EmptyTypeName(t *testing.T) {
	_, err := ParseString(", a, b;")
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty type name")
}

func TestParseString_CommentsStripped(t *testing.T) {
	records, err := ParseString("Zone, A ! trailing ; comment with , separators\n, B;")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, []string{"A", "B"}, records[0].Values())
}

const roundTripIDD = `
\group Thermal Zones and Surfaces

Zone,
  A1 , \field Name
  N1 , \field X Origin
  N2 ; \field Y Origin
`

func TestWriteRoundTrip(t *testing.T) {
	ix, err := schema.Parse(strings.NewReader(roundTripIDD))
	require.NoError(t, err)

	original := []*store.Record{
		store.NewRecord("Zone", "Basement", "0", "10"),
		store.NewRecord("Vendor:Custom", "a", "b"),
		store.NewRecord("Zone", "Attic"),
	}
	s := store.FromRecords(ix, original)

	text, err := WriteString(s)
	require.NoError(t, err)

	// Known types carry field-name annotations; unknown ones do not.
	require.Contains(t, text, "!- Name")
	require.Contains(t, text, "!- X Origin")
	require.NotContains(t, text, "Vendor:Custom,\n    a,                                           !-")

	reparsed, err := ParseString(text)
	require.NoError(t, err)
	require.Len(t, reparsed, len(original))
	for i := range original {
		require.Equal(t, original[i].Type(), reparsed[i].Type(), "record %d", i)
		require.Equal(t, original[i].Values(), reparsed[i].Values(), "record %d", i)
	}
}

func TestWrite_FieldlessRecord(t *testing.T) {
	s := store.FromRecords(nil, []*store.Record{store.NewRecord("Output:Diagnostics")})

	text, err := WriteString(s)
	require.NoError(t, err)
	require.Equal(t, "Output:Diagnostics;\n", text)

	reparsed, err := ParseString(text)
	require.NoError(t, err)
	require.Len(t, reparsed, 1)
	require.Equal(t, 0, reparsed[0].Len())
}
