package ports

import "github.com/bizio/bizio-api/internal/application/dto"

// FinanceReportGenerator puerto de salida para el reporte financiero en PDF.
type FinanceReportGenerator interface {
	GenerateSummaryPDF(tenantName string, summary dto.FinanceSummaryResponse) ([]byte, error)
}

// DealExporter puerto de salida para la exportación de ventas a XLSX.
type DealExporter interface {
	ExportDealsXLSX(deals []dto.DealResponse) ([]byte, error)
}
