package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	inboundMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_inbound_messages_total",
			Help: "Inbound webhook messages by platform.",
		},
		[]string{"platform"},
	)

	dialogSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_dialog_steps_total",
			Help: "Dialog transitions by resulting step (confirmed/cancelled are terminal).",
		},
		[]string{"step"},
	)

	registrations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_registrations_total",
			Help: "Finalized registration records produced.",
		},
	)
)

func init() { register(inboundMessages, dialogSteps, registrations) }

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncInbound(platform string) {
	inboundMessages.WithLabelValues(norm(platform)).Inc()
}

func IncStep(step string) {
	dialogSteps.WithLabelValues(norm(step)).Inc()
}

func IncRegistration() { registrations.Inc() }
