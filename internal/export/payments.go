// Package export renders report data as spreadsheet downloads.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"clinic/internal/models"
)

// PaymentsSheet is the worksheet name of the payments workbook.
const PaymentsSheet = "Payments"

// PaymentsHeader lists the payments workbook columns in order.
var PaymentsHeader = []string{
	"Invoice ID", "Client", "Email", "Location", "Amount", "Status", "Date Issued", "Date Paid",
}

var paymentsColumnWidths = []float64{38, 24, 30, 20, 12, 10, 14, 14}

const dateLayout = "2006-01-02"

// PaymentsWorkbook writes one row per invoice followed by a totals row and
// returns the encoded .xlsx file.
func PaymentsWorkbook(invoices []models.InvoiceView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(PaymentsSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	header := make([]interface{}, len(PaymentsHeader))
	for i, h := range PaymentsHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(PaymentsSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(PaymentsHeader))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(PaymentsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	for i, width := range paymentsColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(PaymentsSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	var total float64
	for i, inv := range invoices {
		row := paymentRow(inv)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(PaymentsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write invoice %s: %w", inv.ID, err)
		}
		total += inv.Amount
	}

	totalRow := len(invoices) + 2
	totals := []interface{}{"Total", "", "", "", total}
	cell, err := excelize.CoordinatesToCellName(1, totalRow)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(PaymentsSheet, cell, &totals); err != nil {
		return nil, fmt.Errorf("write totals: %w", err)
	}

	if err := f.SetPanes(PaymentsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func paymentRow(inv models.InvoiceView) []interface{} {
	var clientName, clientEmail string
	if inv.Client != nil {
		clientName, clientEmail = inv.Client.Name, inv.Client.Email
	}
	datePaid := ""
	if inv.DatePaid != nil {
		datePaid = inv.DatePaid.Format(dateLayout)
	}
	return []interface{}{
		inv.ID,
		clientName,
		clientEmail,
		inv.Location,
		inv.Amount,
		string(inv.Status),
		inv.DateIssued.Format(dateLayout),
		datePaid,
	}
}
