package ports

// Metrics puerto de observabilidad de negocio (implementado con Prometheus en infrastructure).
type Metrics interface {
	LicenceChecked(status string)
	PackageApplied(source string, extended bool)
	PaymentInitiated(result string)
	CallbackHandled(result string)
}

// NopMetrics descarta todas las métricas.
type NopMetrics struct{}

func (NopMetrics) LicenceChecked(string)       {}
func (NopMetrics) PackageApplied(string, bool) {}
func (NopMetrics) PaymentInitiated(string)     {}
func (NopMetrics) CallbackHandled(string)      {}
