// Package export genera hojas de cálculo XLSX de los ledgers con excelize.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

var _ ports.SpreadsheetExporter = (*ExcelExporter)(nil)

const (
	movementsSheet = "Movimientos"
	expensesSheet  = "Gastos"
)

// ExcelExporter implementa ports.SpreadsheetExporter.
type ExcelExporter struct{}

// NewExcelExporter construye el exportador.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// WriteMovements escribe el ledger de stock, una fila por movimiento.
func (e *ExcelExporter) WriteMovements(w io.Writer, movements []*entity.StockMovement) error {
	rows := make([][]any, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, []any{
			m.Date.Format(entity.DateLayout), m.ProductID, string(m.Type), m.QuantityDelta,
			m.Reason, m.SourceType, m.SourceID, m.CreatedBy,
		})
	}
	headers := []any{"Fecha", "Producto", "Tipo", "Cantidad", "Motivo", "Origen", "Documento", "Usuario"}
	return writeSheet(w, movementsSheet, headers, rows)
}

// WriteExpenses escribe los gastos; los montos van como número con 2 decimales.
func (e *ExcelExporter) WriteExpenses(w io.Writer, expenses []*entity.Expense) error {
	rows := make([][]any, 0, len(expenses))
	for _, x := range expenses {
		amount, _ := x.Amount.Round(2).Float64()
		rows = append(rows, []any{
			x.Date.Format(entity.DateLayout), x.Category, x.Label, amount, string(x.PaymentMethod), x.Notes,
		})
	}
	headers := []any{"Fecha", "Categoría", "Concepto", "Monto", "Medio de pago", "Notas"}
	return writeSheet(w, expensesSheet, headers, rows)
}

func writeSheet(w io.Writer, sheet string, headers []any, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("xlsx: hoja: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("xlsx: encabezados: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: estilo: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("xlsx: estilo: %w", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: escribir: %w", err)
	}
	return nil
}
