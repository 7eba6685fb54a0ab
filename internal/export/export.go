package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nandozscx/acopiapp/internal/domain/models"
)

var csvHeader = []string{"Proveedor", "Fecha", "Cantidad"}

// DeliveriesCSV writes one row per delivery. Every field is double-quote
// wrapped with internal quotes doubled, which is stricter than encoding/csv's
// minimal quoting.
func DeliveriesCSV(w io.Writer, deliveries []models.Delivery) error {
	if err := writeCSVRow(w, csvHeader); err != nil {
		return err
	}
	for _, d := range deliveries {
		row := []string{d.Provider, d.Date, formatQuantity(d.Quantity)}
		if err := writeCSVRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVRow(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\n")
	return err
}

// DeliveriesXLSX builds a single-sheet workbook with a header row and one row
// per delivery.
func DeliveriesXLSX(deliveries []models.Delivery) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"Proveedor", "Fecha", "Cantidad"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, d := range deliveries {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		values := []interface{}{d.Provider, d.Date, d.Quantity}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}
	return f, nil
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
