package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	DirectionRead  = "read"
	DirectionWrite = "write"

	ResultOK         = "ok"
	ResultIncomplete = "incomplete"
	ResultInvalid    = "invalid"
	ResultTooLarge   = "too_large"
	ResultUnknown    = "unknown"
)

var (
	registerOnce sync.Once

	packets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pktvar",
			Subsystem: "packet",
			Name:      "packets_total",
			Help:      "Framed packets read or written, by outcome.",
		},
		[]string{"direction", "result"},
	)
	packetBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pktvar",
			Subsystem: "packet",
			Name:      "bytes_total",
			Help:      "Bytes of successfully framed packets, header included.",
		},
		[]string{"direction"},
	)
	schemaDecodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pktvar",
			Subsystem: "schema",
			Name:      "decodes_total",
			Help:      "Payload decodes through the layout registry.",
		},
		[]string{"message", "result"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(packets, packetBytes, schemaDecodes)
	})
}

// Collectors exposes the package collectors for callers that serve or
// gather metrics from their own registry.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{packets, packetBytes, schemaDecodes}
}

func RecordPacket(direction, result string, size int) {
	RegisterMetrics()
	packets.WithLabelValues(direction, result).Inc()
	if result == ResultOK && size > 0 {
		packetBytes.WithLabelValues(direction).Add(float64(size))
	}
}

func RecordSchemaDecode(message, result string) {
	RegisterMetrics()
	schemaDecodes.WithLabelValues(message, result).Inc()
}
