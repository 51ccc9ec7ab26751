// Package licence contiene las reglas puras de validez de licencia y de
// extensión de vencimiento al aplicar un paquete (servicio de dominio).
//
// Regla de calendario: sumar N meses conserva el día del mes y la hora; si el
// día no existe en el mes destino se usa el último día de ese mes
// (31/01 + 1 mes = 29/02 en 2024, 28/02 en 2023). Los días se suman como días
// de calendario en la zona del valor.
package licence

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Licencia-api/internal/domain/entity"
)

// Status estado de validez de una licencia.
type Status string

const (
	StatusNoPackage Status = "no_package"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
)

// Classify clasifica la licencia. expiresAt == now cuenta como activa.
func Classify(expiresAt *time.Time, now time.Time) Status {
	if expiresAt == nil {
		return StatusNoPackage
	}
	if expiresAt.Before(now) {
		return StatusExpired
	}
	return StatusActive
}

// Duration duración de un paquete.
type Duration struct {
	Months    int
	ExtraDays int
}

// DurationOf extrae la duración de un paquete.
func DurationOf(p *entity.Package) Duration {
	return Duration{Months: p.DurationMonths, ExtraDays: p.ExtraDays()}
}

// IsZero un paquete sin meses ni días no extiende nada.
func (d Duration) IsZero() bool { return d.Months <= 0 && d.ExtraDays <= 0 }

// String representación legible: "1 mes + 15 días", "3 meses", "10 días".
func (d Duration) String() string {
	var parts []string
	switch {
	case d.Months == 1:
		parts = append(parts, "1 mes")
	case d.Months > 1:
		parts = append(parts, fmt.Sprintf("%d meses", d.Months))
	}
	switch {
	case d.ExtraDays == 1:
		parts = append(parts, "1 día")
	case d.ExtraDays > 1:
		parts = append(parts, fmt.Sprintf("%d días", d.ExtraDays))
	}
	if len(parts) == 0 {
		return "0 días"
	}
	return strings.Join(parts, " + ")
}

// IsExtension informa si aplicar un paquete ahora se apila sobre el período vigente.
func IsExtension(current *time.Time, now time.Time) bool {
	return current != nil && current.After(now)
}

// ApplyPackage calcula el nuevo vencimiento. Si la licencia sigue vigente el
// período nuevo se suma a partir del vencimiento actual; si no, desde now.
func ApplyPackage(current *time.Time, d Duration, now time.Time) time.Time {
	base := now
	if IsExtension(current, now) {
		base = current.In(now.Location())
	}
	return AddDays(AddMonths(base, d.Months), d.ExtraDays)
}

// AddMonths suma n meses con recorte a fin de mes.
func AddMonths(t time.Time, n int) time.Time {
	if n == 0 {
		return t
	}
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	first := time.Date(y, m+time.Month(n), 1, hh, mm, ss, t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// AddDays suma n días de calendario.
func AddDays(t time.Time, n int) time.Time {
	if n == 0 {
		return t
	}
	return t.AddDate(0, 0, n)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Evaluator aplica las reglas en la zona horaria del negocio. Lo usan por igual
// la asignación manual y el callback de pago.
type Evaluator struct {
	Location *time.Location
}

// NewEvaluator construye el evaluador; loc nil = UTC.
func NewEvaluator(loc *time.Location) Evaluator {
	if loc == nil {
		loc = time.UTC
	}
	return Evaluator{Location: loc}
}

// Apply calcula el nuevo vencimiento con now expresado en la zona del negocio.
func (e Evaluator) Apply(current *time.Time, d Duration, now time.Time) time.Time {
	return ApplyPackage(current, d, now.In(e.Location))
}
