// Package pdf implementa la guía de traslado entre sedes.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: GUÍA DE TRASLADO      │  N° Traslado + Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN / DESTINO + Motivo                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | Seriales | P.Dist | P.Lista        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Unidades / Valor distribuidor                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR del número + firmas Entrega / Recibe             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// serialsPerRow seriales que caben en una fila de la tabla.
const serialsPerRow = 4

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.TransferSlipGenerator = (*MarotoSlipGenerator)(nil)

// MarotoSlipGenerator implementa inventory.TransferSlipGenerator usando Maroto v2.
type MarotoSlipGenerator struct {
	author string
}

// NewMarotoSlipGenerator construye el generador; author va en los metadatos del PDF.
func NewMarotoSlipGenerator(author string) *MarotoSlipGenerator {
	return &MarotoSlipGenerator{author: author}
}

// GenerateTransferSlip genera el PDF y devuelve sus bytes.
func (g *MarotoSlipGenerator) GenerateTransferSlip(_ context.Context, slip inventory.TransferSlip) ([]byte, error) {
	if slip.Transfer == nil {
		return nil, fmt.Errorf("pdf: traslado nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Guía de traslado "+slip.Transfer.TransferNumber, true).
		WithAuthor(nonEmpty(g.author, "stock-ledger"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(locationsRow(slip))
	m.AddRows(reasonRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(slip.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(slip.Lines))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(slip))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar guía: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(slip inventory.TransferSlip) core.Row {
	t := slip.Transfer
	return row.New(18).Add(
		col.New(7).Add(
			text.New("GUÍA DE TRASLADO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Movimiento interno de inventario", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("N° TRASLADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(t.TransferNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+t.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func locationsRow(slip inventory.TransferSlip) core.Row {
	block := func(title, name, id string) core.Col {
		return col.New(6).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(name, id), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New("Código: "+id, props.Text{Size: 8, Top: 12, Color: colorGray}),
		)
	}
	t := slip.Transfer
	return row.New(18).Add(
		block("ORIGEN", slip.From.DisplayName(), t.FromLocation),
		block("DESTINO", slip.To.DisplayName(), t.ToLocation),
	)
}

func reasonRow(slip inventory.TransferSlip) core.Row {
	t := slip.Transfer
	detail := "Motivo: " + nonEmpty(t.Reason, "-")
	if t.Note != "" {
		detail += "   |   Nota: " + t.Note
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(detail, props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 4, align.Left),
		h("Seriales", 3, align.Left),
		h("P. Distribuidor", 2, align.Right),
		h("P. Lista", 2, align.Right),
	)
}

// tableDetailRows una fila por línea; los seriales que no caben siguen en filas adicionales.
func tableDetailRows(lines []inventory.SlipLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, l := range lines {
		chunks := chunkSerials(l.Serials, serialsPerRow)
		first := ""
		if len(chunks) > 0 {
			first = chunks[0]
		}
		result = append(result, row.New(7).Add(
			cell(formatQuantity(l.Quantity), 1, align.Center),
			cell(nonEmpty(l.ProductName, l.ProductID), 4, align.Left),
			cell(first, 3, align.Left),
			cell("$"+formatMoney(l.DealerPrice.StringFixed(0)), 2, align.Right),
			cell("$"+formatMoney(l.ListPrice.StringFixed(0)), 2, align.Right),
		))
		for _, c := range chunks[min(1, len(chunks)):] {
			result = append(result, row.New(5).Add(
				col.New(5),
				col.New(3).Add(text.New(c, props.Text{Size: 7, Color: colorGray, Left: 1})),
				col.New(4),
			))
		}
	}
	return result
}

func totalsRow(lines []inventory.SlipLine) core.Row {
	units, value := slipTotals(lines)
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(label("Unidades:"), label("Valor distribuidor:")),
		col.New(3).Add(grand(formatQuantity(units)), grand("$"+formatMoney(value.StringFixed(0)))),
	)
}

func footerRow(slip inventory.TransferSlip) core.Row {
	signature := func(label string) core.Component {
		return text.New("______________________\n"+label, props.Text{Size: 8, Align: align.Center, Top: 24, Color: colorGray})
	}
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(slip.Transfer.TransferNumber, props.Rect{Percent: 80, Center: true})),
		col.New(4).Add(signature("Entrega - " + slip.From.DisplayName())),
		col.New(4).Add(signature("Recibe - " + slip.To.DisplayName())),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// slipTotals suma unidades y valor a precio distribuidor.
func slipTotals(lines []inventory.SlipLine) (units, value decimal.Decimal) {
	for _, l := range lines {
		units = units.Add(l.Quantity)
		value = value.Add(l.DealerPrice.Mul(l.Quantity))
	}
	return units, value
}

func chunkSerials(serials []string, n int) []string {
	var out []string
	for len(serials) > n {
		out = append(out, strings.Join(serials[:n], ", "))
		serials = serials[n:]
	}
	if len(serials) > 0 {
		out = append(out, strings.Join(serials, ", "))
	}
	return out
}

// formatQuantity muestra enteros sin decimales y fracciones con dos.
func formatQuantity(q decimal.Decimal) string {
	if q.Equal(q.Truncate(0)) {
		return q.StringFixed(0)
	}
	return q.StringFixed(2)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	n := len(s)
	if n > 3 {
		buf := make([]byte, 0, n+n/3)
		for i, c := range []byte(s) {
			if i > 0 && (n-i)%3 == 0 {
				buf = append(buf, '.')
			}
			buf = append(buf, c)
		}
		s = string(buf)
	}
	if neg {
		return "-" + s
	}
	return s
}
