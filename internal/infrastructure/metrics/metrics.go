package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Licencia-api/internal/application/ports"
)

const namespace = "licencia"

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus contadores de negocio sobre un registry propio.
type Prometheus struct {
	registry        *prometheus.Registry
	licenceChecks   *prometheus.CounterVec
	packagesApplied *prometheus.CounterVec
	paymentsStarted *prometheus.CounterVec
	callbacks       *prometheus.CounterVec
}

// New crea el registry con los contadores y los collectors de proceso y runtime.
func New() *Prometheus {
	reg := prometheus.NewRegistry()
	m := &Prometheus{
		registry: reg,
		licenceChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "licence",
			Name:      "checks_total",
			Help:      "Verificaciones de licencia por resultado",
		}, []string{"status"}),
		packagesApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "packages_applied_total",
			Help:      "Paquetes aplicados por origen y si extendieron una licencia vigente",
		}, []string{"source", "extended"}),
		paymentsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "initiated_total",
			Help:      "Intentos de pago iniciados por resultado",
		}, []string{"result"}),
		callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "callbacks_total",
			Help:      "Callbacks del proveedor por resultado",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.licenceChecks, m.packagesApplied, m.paymentsStarted, m.callbacks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler expone el registry en formato de texto de Prometheus.
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Prometheus) LicenceChecked(status string) {
	m.licenceChecks.WithLabelValues(status).Inc()
}

func (m *Prometheus) PackageApplied(source string, extended bool) {
	label := "false"
	if extended {
		label = "true"
	}
	m.packagesApplied.WithLabelValues(source, label).Inc()
}

func (m *Prometheus) PaymentInitiated(result string) {
	m.paymentsStarted.WithLabelValues(result).Inc()
}

func (m *Prometheus) CallbackHandled(result string) {
	m.callbacks.WithLabelValues(result).Inc()
}
