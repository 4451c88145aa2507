package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Invocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsbridge_invocations_total",
			Help: "Invocations by route and response status",
		},
		[]string{"route", "status"}, // inbound|outbound , http status code
	)

	ProviderErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsbridge_provider_errors_total",
			Help: "Failed outbound sends by failure kind",
		},
		[]string{"kind"}, // provider|transport
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		Invocations,
		ProviderErrors,
	)
}
