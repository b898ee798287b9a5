package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the waitlist collectors on their own registry so tests can
// build as many as they like.
type Metrics struct {
	registry        *prometheus.Registry
	Signups         *prometheus.CounterVec
	Referrals       *prometheus.CounterVec
	FeedSubscribers prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "waitlist",
			Name:      "signups_total",
			Help:      "Signup attempts by outcome.",
		}, []string{"outcome"}),
		Referrals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "waitlist",
			Name:      "referrals_total",
			Help:      "Referral attempts by outcome.",
		}, []string{"outcome"}),
		FeedSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "waitlist",
			Name:      "feed_subscribers",
			Help:      "Connected ranking feed subscribers.",
		}),
	}
	reg.MustRegister(
		m.Signups,
		m.Referrals,
		m.FeedSubscribers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// SetSubscribers matches hub.WithSubscriberGauge.
func (m *Metrics) SetSubscribers(n int) {
	m.FeedSubscribers.Set(float64(n))
}
