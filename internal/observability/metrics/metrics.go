package metrics

import "github.com/prometheus/client_golang/prometheus"

// DispatchMetrics exposes counters/histograms for booking action dispatch.
type DispatchMetrics struct {
	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	crmCallsTotal    *prometheus.CounterVec
}

func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	m := &DispatchMetrics{
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bluepeak",
			Subsystem: "actions",
			Name:      "dispatch_total",
			Help:      "Total dispatched booking actions",
		}, []string{"action", "status"}),
		dispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bluepeak",
			Subsystem: "actions",
			Name:      "dispatch_duration_seconds",
			Help:      "Latency of booking action handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		crmCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bluepeak",
			Subsystem: "actions",
			Name:      "crm_calls_total",
			Help:      "Total outbound calls to the scheduling/CRM system",
		}, []string{"operation", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.dispatchTotal, m.dispatchDuration, m.crmCallsTotal)
	return m
}

func (m *DispatchMetrics) ObserveDispatch(action, status string, seconds float64) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(action, status).Inc()
	m.dispatchDuration.WithLabelValues(action).Observe(seconds)
}

func (m *DispatchMetrics) ObserveCRMCall(operation, status string) {
	if m == nil {
		return
	}
	m.crmCallsTotal.WithLabelValues(operation, status).Inc()
}
