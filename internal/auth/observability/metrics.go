// Package observability отдает метрики Prometheus и пробы здоровья на отдельном порту.
package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Решения шлюза аутентификации.
const (
	GateAllowed         = "allowed"
	GateUnauthenticated = "unauthenticated"
	GateRevoked         = "revoked"
	GateInvalidToken    = "invalid_token"
	GateError           = "error"
)

// Metrics - счетчики сервиса. Нулевой указатель допустим и ничего не записывает.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	GateDecisions   *prometheus.CounterVec
}

// NewMetrics создает и регистрирует метрики в reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authgate_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authgate_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		GateDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authgate_gate_decisions_total",
				Help: "Total number of auth gate decisions",
			},
			[]string{"decision"},
		),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.GateDecisions)
	return m
}

// ObserveRequest учитывает завершенный запрос.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveGate учитывает решение шлюза.
func (m *Metrics) ObserveGate(decision string) {
	if m == nil {
		return
	}
	m.GateDecisions.WithLabelValues(decision).Inc()
}

// RevokedCounter - источник размера черного списка.
type RevokedCounter interface {
	RevokedCount(ctx context.Context) (int64, error)
}

// RegisterRevokedGauge публикует размер черного списка. Множество не очищается,
// поэтому рост этого значения показывает расход памяти.
func RegisterRevokedGauge(reg prometheus.Registerer, src RevokedCounter) {
	reg.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "authgate_revoked_tokens",
			Help: "Number of revoked access tokens held in session state",
		},
		func() float64 {
			n, err := src.RevokedCount(context.Background())
			if err != nil {
				return -1
			}
			return float64(n)
		},
	))
}
