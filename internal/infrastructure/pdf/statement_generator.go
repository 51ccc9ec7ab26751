// Package pdf genera el comprobante de licencia de una empresa con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + N° público  │  Estado + Fecha de emisión │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Contacto / Tel / Vencimiento                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Paquete | Duración | Tipo | Estado | Importe │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + URL                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorOK      = &props.Color{Red: 20, Green: 120, Blue: 60}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

const dateLayout = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// StatementGenerator implementa ports.StatementRenderer usando Maroto v2.
type StatementGenerator struct {
	// Location zona en la que se imprimen las fechas; nil = UTC.
	Location *time.Location
}

// NewStatementGenerator construye el generador.
func NewStatementGenerator(loc *time.Location) *StatementGenerator {
	return &StatementGenerator{Location: loc}
}

// RenderStatement genera el PDF y devuelve sus bytes.
func (g *StatementGenerator) RenderStatement(_ context.Context, st *ports.LicenceStatement) ([]byte, error) {
	if st == nil {
		return nil, fmt.Errorf("pdf: comprobante vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de licencia", true).
		WithAuthor(st.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(st))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.companyRow(st.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(st.History) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("La empresa todavía no tiene paquetes asignados.", props.Text{
				Size: 8, Align: align.Center, Top: 2, Color: colorGray,
			}),
		)))
	}
	m.AddRows(g.tableDetailRows(st.History)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(st.CheckURL)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre + N° público (izq) y estado + fecha de emisión (der).
func (g *StatementGenerator) headerRow(st *ports.LicenceStatement) core.Row {
	label, color := statusLabel(st.Company.LicenceStatus)
	return row.New(18).Add(
		col.New(7).Add(
			text.New(st.Company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("N° de licencia: "+strconv.Itoa(st.Company.PublicID), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE LICENCIA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7, Color: color,
			}),
			text.New("Emitido: "+g.date(st.GeneratedAt), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// companyRow: contacto y vencimiento.
func (g *StatementGenerator) companyRow(c dto.CompanyResponse) core.Row {
	expires := "-"
	if c.ExpiresAt != nil {
		expires = g.date(*c.ExpiresAt)
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DE LA EMPRESA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Contacto: %s   |   Tel: %s   |   Vence: %s",
				nonEmpty(c.ContactName, "-"),
				nonEmpty(c.Phone, "-"),
				expires,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla del historial.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	bg := &props.Cell{BackgroundColor: colorPrimary}
	return row.New(8).WithStyle(bg).Add(
		h("Fecha", 2, align.Left),
		h("Paquete", 3, align.Left),
		h("Duración", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Estado", 1, align.Center),
		h("Importe", 2, align.Right),
	)
}

// tableDetailRows: una fila por entrada del historial.
func (g *StatementGenerator) tableDetailRows(items []dto.PurchaseHistoryItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		result = append(result, row.New(7).Add(
			cell(g.date(it.CreatedAt), 2, align.Left),
			cell(it.PackageCaption, 3, align.Left),
			cell(it.DurationText, 2, align.Left),
			cell(it.AssignmentType, 2, align.Left),
			cell(entryLabel(it.Status), 1, align.Center),
			cell(formatMoney(it.Amount), 2, align.Right),
		))
	}
	return result
}

// footerRows: QR de la URL de verificación + leyenda.
func footerRows(checkURL string) []core.Row {
	if checkURL == "" {
		return nil
	}
	return []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr(checkURL, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(9).Add(
				text.New("Escanee el código QR para verificar el estado\nactual de esta licencia.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New(checkURL, props.Text{
					Style: fontstyle.Bold, Size: 9, Top: 18, Left: 3, Color: colorPrimary,
				}),
			),
		),
		row.New(8).Add(col.New(12).Add(
			text.New("El estado impreso corresponde a la fecha de emisión; la verificación en línea es la única fuente vigente.",
				props.Text{Size: 6.5, Color: colorGray, Top: 2},
			),
		)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (g *StatementGenerator) date(t time.Time) string {
	loc := g.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dateLayout)
}

func statusLabel(status string) (string, *props.Color) {
	switch status {
	case "active":
		return "VIGENTE", colorOK
	case "expired":
		return "VENCIDA", colorAlert
	default:
		return "SIN PAQUETE", colorGray
	}
}

func entryLabel(status string) string {
	switch status {
	case "success":
		return "Exitoso"
	case "failure":
		return "Fallido"
	default:
		return "Pendiente"
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney separa miles con punto y decimales con coma.
// Ej: 25000 → "25.000,00", 1234.5 → "1.234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
