// Package excel implementa la exportación de ventas a XLSX con excelize.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bizio/bizio-api/internal/application/dto"
	"github.com/bizio/bizio-api/internal/application/ports"
)

var _ ports.DealExporter = (*DealExporter)(nil)

// DealExporter genera el XLSX de ventas.
type DealExporter struct{}

// NewDealExporter construye el exportador.
func NewDealExporter() *DealExporter { return &DealExporter{} }

const sheetName = "Ventas"

// ExportDealsXLSX arma una hoja con una fila por venta.
func (e *DealExporter) ExportDealsXLSX(deals []dto.DealResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Título", "Cliente", "Estado", "Origen", "Moneda", "Total", "Costo", "Margen", "Creado", "Cerrado"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("xlsx: celda header: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx: header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for i, d := range deals {
		rowNum := i + 2
		closed := ""
		if d.ClosedAt != nil {
			closed = d.ClosedAt.Format("2006-01-02")
		}
		values := []any{
			d.ID,
			d.Title,
			d.ClientID,
			d.Status,
			d.Source,
			d.Currency,
			d.TotalPrice.StringFixed(2),
			d.TotalCost.StringFixed(2),
			d.Margin.StringFixed(2),
			d.CreatedAt.Format("2006-01-02"),
			closed,
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return nil, fmt.Errorf("xlsx: celda: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("xlsx: valor: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: serializar: %w", err)
	}
	return buf.Bytes(), nil
}
