// Package pdf implementa la representación gráfica de los documentos
// (facture, bon de livraison, facture d'avoir) con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + NCC       │  Título + Código + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email                            │
//	│  CLIENTE: Nombre + NCC + contacto                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Désignation | Qté | P.U. HT | TVA | Montant HT      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total HT / TVA por tasa / Total TTC + en letras   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER FNE: NIM + QR, o mención PRO FORMA                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	appbilling "github.com/jhoicas/facturation-ci/internal/application/billing"
	"github.com/jhoicas/facturation-ci/pkg/money"
)

var _ appbilling.PDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 51} // vert
	colorAccent  = &props.Color{Red: 230, Green: 120, Blue: 0}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// Generate renderiza el documento y devuelve los bytes del PDF.
func (g *MarotoPDFGenerator) Generate(ctx context.Context, doc *appbilling.PDFDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(doc.Title+" "+doc.Code, true).
		WithAuthor(doc.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(issuerRow(doc))
	if doc.Client != nil {
		m.AddRows(clientRow(doc))
	}
	if doc.Reference != "" {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New(doc.Reference, props.Text{Size: 8, Style: fontstyle.Italic, Top: 1}),
		)))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(doc)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(doc)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(fneFooterRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc *appbilling.PDFDocument) core.Row {
	title := doc.Title
	if !doc.FNE.IsCertified() {
		title = "PRO FORMA - " + title
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(doc.Company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NCC : "+nonEmpty(doc.Company.NCC, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Code, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date : "+doc.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func issuerRow(doc *appbilling.PDFDocument) core.Row {
	c := doc.Company
	return row.New(12).Add(
		col.New(12).Add(
			text.New("ÉMETTEUR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Adresse : %s   |   Tél : %s   |   Email : %s",
				nonEmpty(c.Address, "—"), nonEmpty(c.Phone, "—"), nonEmpty(c.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func clientRow(doc *appbilling.PDFDocument) core.Row {
	cl := doc.Client
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENT", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(cl.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("NCC : %s   |   Email : %s   |   Tél : %s",
				nonEmpty(cl.NCC, "—"), nonEmpty(cl.Email, "—"), nonEmpty(cl.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Désignation", 5, align.Left),
		h("Qté", 1, align.Center),
		h("P.U. HT", 2, align.Right),
		h("TVA", 1, align.Center),
		h("Montant HT", 3, align.Right),
	)
}

func tableRows(doc *appbilling.PDFDocument) []core.Row {
	rows := make([]core.Row, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		rows = append(rows, row.New(7).Add(
			col.New(5).Add(text.New(l.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(l.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(money.Format(l.UnitPrice, ""), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(l.TaxRate.String()+" %", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(money.Format(l.Quantity.Mul(l.UnitPrice), ""), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalsRows(doc *appbilling.PDFDocument) []core.Row {
	pair := func(label, value string, grand bool) core.Row {
		p := props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1}
		if grand {
			p.Style = fontstyle.Bold
			p.Size = 10
			p.Color = colorPrimary
		}
		lp := p
		lp.Style = fontstyle.Bold
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, lp)),
			col.New(3).Add(text.New(value, p)),
		)
	}

	t := doc.Totals
	rows := []core.Row{pair("Total HT :", money.Format(t.Subtotal, doc.Currency), false)}
	for _, b := range t.Taxes {
		rows = append(rows, pair(fmt.Sprintf("TVA %s %% :", b.Rate.String()), money.Format(b.Amount, doc.Currency), false))
	}
	rows = append(rows,
		pair("Total TVA :", money.Format(t.TotalTax, doc.Currency), false),
		pair("Total TTC :", money.Format(t.GrandTotal, doc.Currency), true),
		row.New(10).Add(col.New(12).Add(text.New(
			"Arrêté le présent document à la somme de : "+doc.AmountInWords,
			props.Text{Size: 8, Style: fontstyle.Italic, Top: 3},
		))),
	)
	return rows
}

// fneFooterRows: NIM + QR si está certificado; si no, mención PRO FORMA.
func fneFooterRows(doc *appbilling.PDFDocument) []core.Row {
	if !doc.FNE.IsCertified() {
		return []core.Row{
			row.New(12).Add(col.New(12).Add(
				text.New("PRO FORMA - document non certifié par la FNE", props.Text{
					Style: fontstyle.Bold, Size: 11, Align: align.Center, Color: colorAccent, Top: 3,
				}),
			)),
		}
	}

	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("CERTIFICATION FNE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}
	info := []core.Component{
		text.New("NIM : "+doc.FNE.NIM, props.Text{Style: fontstyle.Bold, Size: 9, Top: 4, Left: 3}),
	}
	if doc.FNE.CertifiedAt != nil {
		info = append(info, text.New("Certifié le "+doc.FNE.CertifiedAt.Format("02/01/2006 15:04"), props.Text{
			Size: 8, Top: 10, Left: 3, Color: colorGray,
		}))
	}
	info = append(info, text.New("Scannez le QR code pour vérifier\nce document auprès de la DGI.", props.Text{
		Size: 8, Top: 16, Left: 3, Color: colorGray,
	}))

	if doc.FNE.QRCode != "" {
		rows = append(rows, row.New(45).Add(
			col.New(4).Add(code.NewQr(doc.FNE.QRCode, props.Rect{Percent: 95, Center: true})),
			col.New(8).Add(info...),
		))
	} else {
		rows = append(rows, row.New(25).Add(col.New(12).Add(info...)))
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
