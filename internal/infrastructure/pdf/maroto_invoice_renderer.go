// Package pdf implementa la representación gráfica de respaldo de la factura
// ("factură fără plată") cuando ANAF no devuelve su propio PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Furnizor + CUI      │  Tipo + Nr. factură + Dată    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FURNIZOR: dirección / Reg. Com.                             │
//	│  CLIENT: nombre + CUI + dirección                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Denumire | Preț unitar | TVA | Valoare        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total fără TVA / TVA / TOTAL DE PLATĂ              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: índice ANAF + leyenda                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 43, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoInvoiceRenderer genera el PDF de respaldo con Maroto v2.
type MarotoInvoiceRenderer struct{}

// NewMarotoInvoiceRenderer construye el generador.
func NewMarotoInvoiceRenderer() *MarotoInvoiceRenderer { return &MarotoInvoiceRenderer{} }

// RenderInvoice genera el PDF de la factura (con compañía, socio y líneas cargados).
func (g *MarotoInvoiceRenderer) RenderInvoice(_ context.Context, inv *entity.Invoice) ([]byte, error) {
	if inv == nil || inv.Company == nil || inv.Partner == nil {
		return nil, fmt.Errorf("pdf: faltan invoice, company o partner")
	}
	supplier := inv.Company.Partner
	if supplier == nil {
		supplier = &entity.Partner{Name: inv.Company.Name}
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+inv.Name, true).
		WithAuthor(inv.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, supplier))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partyRow("FURNIZOR", supplier))
	m.AddRows(partyRow("CLIENT", inv.Partner))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(inv)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(inv)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: furnizor + CUI (izq) y tipo, número y fecha (der).
func headerRow(inv *entity.Invoice, supplier *entity.Partner) core.Row {
	kind := "FACTURĂ"
	if inv.IsRefund() {
		kind = "FACTURĂ STORNO"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(supplier.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CUI: "+nonEmpty(supplier.VAT, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(kind, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.Name, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Data: "+inv.InvoiceDate.Format("02.01.2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func partyRow(title string, p *entity.Partner) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New(fmt.Sprintf("CUI: %s   |   Reg. Com.: %s   |   %s",
				nonEmpty(p.VAT, "—"),
				nonEmpty(p.CompanyRegistry, "—"),
				formatAddress(p),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cant.", 1, align.Center),
		h("Denumire produs/serviciu", 5, align.Left),
		h("Preț unitar", 2, align.Right),
		h("TVA", 1, align.Center),
		h("Valoare", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea de factura.
func tableDetailRows(inv *entity.Invoice) []core.Row {
	result := make([]core.Row, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(l.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(l.Name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(l.PriceUnit, inv.CurrencyDP), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(taxLabel(l), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(formatMoney(l.Subtotal(), inv.CurrencyDP), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(inv *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	cur := " " + inv.CurrencyCode

	return row.New(20).Add(
		col.New(3),
		col.New(3).Add(
			label("Total fără TVA:"),
			text.New("TVA:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
			text.New("TOTAL DE PLATĂ:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 10,
			}),
		),
		col.New(3).Add(
			value(formatMoney(inv.AmountUntaxed, inv.CurrencyDP)+cur, 0),
			value(formatMoney(inv.AmountTax, inv.CurrencyDP)+cur, 5),
			text.New(formatMoney(inv.AmountTotal, inv.CurrencyDP)+cur, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 10,
			}),
		),
		col.New(3),
	)
}

func footerRows(inv *entity.Invoice) []core.Row {
	var rows []core.Row
	if inv.EDITransaction != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Index încărcare ANAF: "+inv.EDITransaction, props.Text{Size: 7, Color: colorGray, Top: 1}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Reprezentare generată local; documentul fiscal este fișierul XML transmis prin RO e-Factura.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatAddress(p *entity.Partner) string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.Street, p.City, p.StateCode, p.CountryCode} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}

func taxLabel(l *entity.InvoiceLine) string {
	if len(l.Taxes) == 0 {
		return "—"
	}
	if t := l.Taxes[0]; t.IsPercent() {
		return t.Amount.String() + "%"
	}
	return l.Taxes[0].Name
}

// formatMoney formato rumano: punto de miles y coma decimal.
// Ej: 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal, dp int32) string {
	if dp <= 0 {
		dp = 2
	}
	s := d.StringFixed(dp)
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
