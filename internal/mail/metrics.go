package mail

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Delivery outcomes
const (
	resultSent   = "sent"
	resultRetry  = "retry"
	resultBuried = "buried"
)

var deliveries = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "prm",
		Subsystem: "mail",
		Name:      "deliveries_total",
		Help:      "Outbox delivery attempts by outcome",
	},
	[]string{"result"},
)
