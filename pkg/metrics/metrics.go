package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters exported on /metrics. A nil *Metrics is valid
// and records nothing, so services can run without a registry in tests.
type Metrics struct {
	Requests      *prometheus.CounterVec
	Engagement    *prometheus.CounterVec
	Relationships *prometheus.CounterVec
	Tokens        *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"path", "status"},
		),
		Engagement: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "post_engagement_total",
				Help: "Post reactions, claps, views and schedules by outcome",
			},
			[]string{"action", "outcome"},
		),
		Relationships: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_relationship_total",
				Help: "Follow, block and profile view changes by outcome",
			},
			[]string{"action", "outcome"},
		),
		Tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "security_token_total",
				Help: "Security token issue, redeem and clear events",
			},
			[]string{"purpose", "stage"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.Requests, m.Engagement, m.Relationships, m.Tokens)
	}
	return m
}

func (m *Metrics) ObserveRequest(path string, status int) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(path, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveEngagement(action string, err error) {
	if m == nil {
		return
	}
	m.Engagement.WithLabelValues(action, outcome(err)).Inc()
}

func (m *Metrics) ObserveRelationship(action string, err error) {
	if m == nil {
		return
	}
	m.Relationships.WithLabelValues(action, outcome(err)).Inc()
}

func (m *Metrics) ObserveToken(purpose, stage string) {
	if m == nil {
		return
	}
	m.Tokens.WithLabelValues(purpose, stage).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
