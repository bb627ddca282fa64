// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsStarted counts checkout dialogs opened.
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_started_total",
		Help: "Number of checkout sessions opened.",
	})

	// ActiveSessions tracks checkout dialogs currently open.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "checkout_sessions_active",
		Help: "Number of checkout sessions currently open.",
	})

	// PaymentsSettled counts individual settlements (single payer or one
	// split customer) by payment method.
	PaymentsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_payments_settled_total",
		Help: "Number of settled payments by method.",
	}, []string{"method"})

	// CheckoutsCompleted counts checkouts that reached the completion
	// callback, by the method reported to it.
	CheckoutsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_completed_total",
		Help: "Number of completed checkouts by final payment method.",
	}, []string{"method"})
)
