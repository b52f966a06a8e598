package intent

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageJSON_Decode(t *testing.T) {
	in := `{
		"action": "com.google.android.radar.SHOW_RADAR",
		"extras": {
			"latitude":  {"float32": 28.0527222},
			"longitude": {"float64": -82.4331001},
			"altitude":  {"float64": "NaN"},
			"source":    {"string": "BenchMap"},
			"count":     {"int32": 4},
			"sim":       {"bool": true}
		}
	}`

	var m Message
	require.NoError(t, json.Unmarshal([]byte(in), &m))
	assert.True(t, IsShowRadar(&m))

	lat, _ := m.Extras[KeyLatitude].Float64()
	assert.Equal(t, float64(float32(28.0527222)), lat)
	assert.Equal(t, KindFloat64, m.Extras[KeyLongitude].Kind())
	alt, _ := m.Extras[KeyAltitude].Float64()
	assert.True(t, math.IsNaN(alt))

	loc, err := DecodeLocation(m)
	require.NoError(t, err)
	assert.False(t, loc.HasAltitude())
	assert.InDelta(t, -82.4331001, loc.Longitude, delta)
}

func TestMessageJSON_RoundTrip(t *testing.T) {
	m := NewMessage(ActionShowRadar).
		PutFloat32(KeyLatitude, 28.0527222).
		PutFloat64(KeyLongitude, -82.4331001).
		PutFloat32(KeyAltitude, float32(math.Inf(-1))).
		Put("n", Int64(1<<40)).
		Put("s", String("x"))

	b, err := json.Marshal(m)
	require.NoError(t, err)

	var back Message
	require.NoError(t, json.Unmarshal(b, &back))
	if diff := cmp.Diff(*m, back, extraComparer); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExtraJSON_Encoding(t *testing.T) {
	cases := []struct {
		extra Extra
		want  string
	}{
		{Float32(20.3), `{"float32":20.3}`},
		{Float64(20.3), `{"float64":20.3}`},
		{Float64(math.NaN()), `{"float64":"NaN"}`},
		{Float32(float32(math.Inf(1))), `{"float32":"+Inf"}`},
		{String("a"), `{"string":"a"}`},
		{Int32(-1), `{"int32":-1}`},
		{Bool(false), `{"bool":false}`},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			b, err := json.Marshal(tc.extra)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(b))
		})
	}

	_, err := json.Marshal(Extra{})
	assert.Error(t, err)
}

func TestExtraJSON_DecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"NoKind", `{}`, "want exactly one kind key, got 0"},
		{"TwoKinds", `{"float32":1,"float64":2}`, "want exactly one kind key, got 2"},
		{"UnknownKind", `{"decimal":1}`, `unknown kind "decimal"`},
		{"FloatAsBool", `{"float64":true}`, `float64: strconv.ParseFloat: parsing "true": invalid syntax`},
		{"StringAsNumber", `{"string":1}`, "cannot unmarshal number"},
		{"IntOverflow", `{"int32":4294967296}`, `int32: strconv.ParseInt: parsing "4294967296": value out of range`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var e Extra
			err := json.Unmarshal([]byte(tc.in), &e)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestMessageJSON_ExtraErrorNamesKey(t *testing.T) {
	var m Message
	err := json.Unmarshal([]byte(`{"action":"a","extras":{"latitude":{"nope":1}}}`), &m)
	assert.EqualError(t, err, `extra latitude: unknown kind "nope"`)
}
