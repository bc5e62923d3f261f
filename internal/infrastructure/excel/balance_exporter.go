// Package excel genera el reporte XLSX de existencias.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tu-usuario/almacen-ti/internal/application/stock"
)

var _ stock.BalanceExporter = (*BalanceExporter)(nil)

// BalanceExporter implementa stock.BalanceExporter usando excelize.
type BalanceExporter struct{}

// NewBalanceExporter construye el exportador.
func NewBalanceExporter() *BalanceExporter { return &BalanceExporter{} }

const sheetName = "Existencias"

// BalancesXLSX genera un libro con una hoja: fila de encabezado + una fila
// por balance.
func (e *BalanceExporter) BalancesXLSX(rows []stock.BalanceExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("excel: crear hoja: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("excel: limpiar hoja por defecto: %w", err)
	}

	headers := []string{"Código", "Artículo", "Bodega", "Cantidad", "Actualizado"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("excel: encabezado: %w", err)
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(sheetName, "A1", "E1", headerStyle)
	}

	for i, r := range rows {
		values := []any{r.ItemCode, r.ItemName, r.LocationCode, r.Quantity.InexactFloat64(), r.UpdatedAt.Format("2006-01-02 15:04")}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("excel: fila %d: %w", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: serializar: %w", err)
	}
	return buf.Bytes(), nil
}
