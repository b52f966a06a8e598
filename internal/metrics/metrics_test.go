package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveMessage(ResultRadar)
	m.ObserveMessage(ResultRadar)
	m.ObserveMessage(ResultIgnored)
	m.ObserveDecodeError(ReasonMissingExtra)
	m.ObserveLocation(true)
	m.ObserveLocation(false)
	m.ObserveLocation(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Messages.WithLabelValues(ResultRadar)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Messages.WithLabelValues(ResultIgnored)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Messages.WithLabelValues(ResultInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrors.WithLabelValues(ReasonMissingExtra)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Locations.WithLabelValues("present")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Locations.WithLabelValues("absent")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveMessage(ResultInvalid)
	m.ObserveDecodeError(ReasonParse)

	path := filepath.Join(t.TempDir(), "radarfix.prom")
	require.NoError(t, m.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `radarfix_messages_total{result="invalid"} 1`)
	assert.Contains(t, string(b), `radarfix_decode_errors_total{reason="parse"} 1`)
	assert.Contains(t, string(b), "# HELP radarfix_messages_total")
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveMessage(ResultRadar)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Messages.WithLabelValues(ResultRadar)))

	n, err := testutil.GatherAndCount(a.Registry(), "radarfix_messages_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
