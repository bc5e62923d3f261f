// Package pdf implementa la generación del acta de entrega de una solicitud
// de salida de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Almacén TI  │  N° Solicitud + Fecha de entrega     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Solicitante / Departamento / Bodega / Propósito      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Artículo | Solicitado | Entregado           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: Entrega / Recibe                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

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

	"github.com/tu-usuario/almacen-ti/internal/application/issue"
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ issue.NotePDFGenerator = (*MarotoNoteGenerator)(nil)

// MarotoNoteGenerator implementa issue.NotePDFGenerator usando Maroto v2.
type MarotoNoteGenerator struct {
	appName string
}

// NewMarotoNoteGenerator construye el generador. appName aparece en el header.
func NewMarotoNoteGenerator(appName string) *MarotoNoteGenerator {
	return &MarotoNoteGenerator{appName: appName}
}

// IssueNotePDF genera el acta de entrega y devuelve sus bytes.
func (g *MarotoNoteGenerator) IssueNotePDF(req *entity.StockIssueRequest, lines []issue.NoteLine) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de entrega "+req.RequestNo, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.appName, req))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRows(req)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, l := range lines {
		m.AddRows(tableLineRow(l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(signatureRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar acta: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre de la app (izq) y número + fecha de entrega (der).
func headerRow(appName string, req *entity.StockIssueRequest) core.Row {
	fecha := ""
	if req.IssuedAt != nil {
		fecha = req.IssuedAt.Format("02/01/2006 15:04")
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(appName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Acta de entrega de materiales", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(req.RequestNo, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New(fecha, props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func infoRows(req *entity.StockIssueRequest) []core.Row {
	rows := []core.Row{
		labelValueRow("Solicitante", req.RequesterID),
		labelValueRow("Departamento", req.DepartmentID),
		labelValueRow("Bodega", req.LocationID),
		labelValueRow("Propósito", req.Purpose),
	}
	if req.Remarks != "" {
		rows = append(rows, labelValueRow("Observaciones", req.Remarks))
	}
	return rows
}

func labelValueRow(label, value string) core.Row {
	return row.New(6).Add(
		col.New(3).Add(text.New(label+":", props.Text{Style: fontstyle.Bold, Size: 9})),
		col.New(9).Add(text.New(value, props.Text{Size: 9})),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary}
	right := header
	right.Align = align.Right
	return row.New(8).Add(
		col.New(2).Add(text.New("Código", header)),
		col.New(6).Add(text.New("Artículo", header)),
		col.New(2).Add(text.New("Solicitado", right)),
		col.New(2).Add(text.New("Entregado", right)),
	)
}

func tableLineRow(l issue.NoteLine) core.Row {
	cell := props.Text{Size: 9}
	right := props.Text{Size: 9, Align: align.Right}
	return row.New(6).Add(
		col.New(2).Add(text.New(l.ItemCode, cell)),
		col.New(6).Add(text.New(l.ItemName, cell)),
		col.New(2).Add(text.New(l.Requested.String(), right)),
		col.New(2).Add(text.New(l.Issued.String(), right)),
	)
}

func signatureRow() core.Row {
	sig := props.Text{Size: 9, Align: align.Center, Top: 14, Color: colorGray}
	return row.New(22).Add(
		col.New(6).Add(text.New("_______________________\nEntrega (almacén)", sig)),
		col.New(6).Add(text.New("_______________________\nRecibe (solicitante)", sig)),
	)
}
