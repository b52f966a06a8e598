package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Message results.
const (
	ResultRadar   = "radar"
	ResultIgnored = "ignored"
	ResultInvalid = "invalid"
)

// Decode error reasons.
const (
	ReasonParse           = "parse"
	ReasonMissingExtra    = "missing_extra"
	ReasonUnsupportedKind = "unsupported_kind"
	ReasonEncode          = "encode"
)

type Metrics struct {
	reg *prometheus.Registry

	Messages     *prometheus.CounterVec
	DecodeErrors *prometheus.CounterVec
	Locations    *prometheus.CounterVec
}

// New registers the counters in a private registry so tests and multiple
// processors do not collide on the default one.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radarfix_messages_total",
			Help: "Broadcasts read, by classification result",
		}, []string{"result"}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radarfix_decode_errors_total",
			Help: "Broadcasts that could not be turned into a location, by reason",
		}, []string{"reason"}),
		Locations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radarfix_locations_total",
			Help: "Locations decoded, by altitude presence",
		}, []string{"altitude"}),
	}
	m.reg.MustRegister(m.Messages, m.DecodeErrors, m.Locations)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) ObserveMessage(result string) {
	m.Messages.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveDecodeError(reason string) {
	m.DecodeErrors.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveLocation(hasAltitude bool) {
	label := "absent"
	if hasAltitude {
		label = "present"
	}
	m.Locations.WithLabelValues(label).Inc()
}

// WriteTextfile writes all counters in the Prometheus text format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
