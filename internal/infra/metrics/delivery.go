package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	sendFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_send_failures_total",
			Help: "Outbound message delivery failures by platform.",
		},
		[]string{"platform"},
	)

	sinkFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_sink_failures_total",
			Help: "Registration sink append failures by sink name.",
		},
		[]string{"sink"},
	)
)

func init() { register(sendFailures, sinkFailures) }

func IncSendFailure(platform string) {
	sendFailures.WithLabelValues(norm(platform)).Inc()
}

func IncSinkFailure(sink string) {
	sinkFailures.WithLabelValues(norm(sink)).Inc()
}
