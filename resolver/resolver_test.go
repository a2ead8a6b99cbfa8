package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/buildsim/idfkit/schema"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Name", want: "name"},
		{in: "Design_Flow_Rate", want: "design flow rate"},
		{in: "Design  Flow   Rate", want: "design flow rate"},
		{in: "Output:Variable Index Key Name", want: "output variable index key name"},
		{in: "  X Origin  ", want: "x origin"},
		{in: "Thickness {m}", want: "thickness m"},
		{in: "___", want: ""},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func zoneTemplate() *schema.RecordTemplate {
	return &schema.RecordTemplate{
		Name: "Zone",
		Fields: []schema.FieldTemplate{
			{Name: "Name"},
			{Name: "Direction of Relative North"},
			{Name: "X Origin"},
			{Name: "Y Origin"},
			{Name: "Z Origin"},
			{Name: "Ceiling Height"},
		},
	}
}

func TestResolve_ExactNormalized(t *testing.T) {
	r := New()
	rt := zoneTemplate()

	tests := []struct {
		identifier string
		want       int
	}{
		{identifier: "Name", want: 0},
		{identifier: "name", want: 0},
		{identifier: "Direction_of_Relative_North", want: 1},
		{identifier: "direction of relative north", want: 1},
		{identifier: "X_Origin", want: 2},
		{identifier: "z origin", want: 4},
		{identifier: "Ceiling-Height", want: 5},
	}
	for _, tt := range tests {
		got, err := r.Resolve(rt, tt.identifier)
		require.NoError(t, err, "Resolve(%q)", tt.identifier)
		require.Equal(t, tt.want, got, "Resolve(%q)", tt.identifier)
	}
}

func TestResolve_FuzzyFallback(t *testing.T) {
	r := New()
	rt := zoneTemplate()

	// One edit away from "ceiling height".
	got, err := r.Resolve(rt, "Ceilling_Height")
	require.NoError(t, err)
	require.Equal(t, 5, got)

	// Not even close.
	_, err = r.Resolve(rt, "Floor_Area")
	var nf *ErrFieldNotFound
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "Floor_Area", nf.Identifier)
	require.Equal(t, "Zone", nf.Type)
	require.Less(t, nf.BestScore, DefaultThreshold)
}

func TestResolve_AmbiguityIsNeverGuessed(t *testing.T) {
	r := New()
	rt := &schema.RecordTemplate{
		Name: "Site:Location",
		Fields: []schema.FieldTemplate{
			{Name: "Name"},
			// Both one edit away from the identifier below.
			{Name: "Setpoint A"},
			{Name: "Setpoint B"},
		},
	}

	_, err := r.Resolve(rt, "Setpoint_C")
	var amb *ErrAmbiguousField
	require.ErrorAs(t, err, &amb)
	require.Len(t, amb.Candidates, 2)
}

func TestResolve_DuplicateNormalizedNames(t *testing.T) {
	r := New()
	rt := &schema.RecordTemplate{
		Name: "Weird",
		Fields: []schema.FieldTemplate{
			{Name: "Flow Rate"},
			{Name: "Flow_Rate"},
		},
	}

	_, err := r.Resolve(rt, "flow rate")
	var amb *ErrAmbiguousField
	require.ErrorAs(t, err, &amb)
	require.Equal(t, []string{"Flow Rate", "Flow_Rate"}, amb.Candidates)
}

func TestResolve_ThresholdConfigurable(t *testing.T) {
	rt := zoneTemplate()

	strict := New(func(o *Options) { o.Threshold = 0.99 })
	_, err := strict.Resolve(rt, "Ceilling_Height")
	var nf *ErrFieldNotFound
	require.ErrorAs(t, err, &nf)

	lax := New(func(o *Options) { o.Threshold = 0.5 })
	got, err := lax.Resolve(rt, "Ceil_Height")
	require.NoError(t, err)
	require.Equal(t, 5, got)
}

func TestSimilarity(t *testing.T) {
	require.Equal(t, 1.0, Similarity("name", "name"))
	require.Equal(t, 1.0, Similarity("", ""))
	require.Equal(t, 0.0, Similarity("", "abcd"))
	require.InDelta(t, 0.75, Similarity("abcd", "abcx"), 1e-9)
}
