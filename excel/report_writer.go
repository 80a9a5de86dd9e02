package excel

import (
	"bytes"
	"fmt"

	"github.com/HSouheill/shop_backend/models"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	productSheet = "Top Products"
	expenseSheet = "Expenses"
	dateLayout   = "2006-01-02"
)

// SalesReportXLSX renders a sales report as a two sheet workbook
func SalesReportXLSX(report *models.SalesReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	period := "All time"
	if report.Start != "" && report.End != "" {
		period = report.Start + " to " + report.End
	}
	rows := [][]interface{}{
		{"Period", period},
		{"Total Sales", report.TotalSales},
		{"Cash Sales", report.CashSales},
		{"Credit Sales", report.CreditSales},
		{"Sale Count", report.SaleCount},
		{"Cash Count", report.CashCount},
		{"Credit Count", report.CreditCount},
		{"Recovered Amount", report.RecoveredAmount},
		{"Profit", report.Profit},
		{"Permanent Remaining", report.PermanentRemaining},
		{"Temporary Remaining", report.TemporaryRemaining},
	}
	if err := writeRows(file, summarySheet, rows); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(productSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	products := [][]interface{}{{"Product", "Qty", "Revenue"}}
	for _, p := range report.TopProducts {
		products = append(products, []interface{}{p.Name, p.Qty, p.Revenue})
	}
	if err := writeRows(file, productSheet, products); err != nil {
		return nil, err
	}

	return toBytes(file)
}

// ExpensesXLSX renders expenses one per row followed by a per-type summary
func ExpensesXLSX(expenses []models.Expense, summary *models.ExpenseSummary) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), expenseSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]interface{}{{"Date", "Type", "Category", "Description", "Amount", "Payment Method", "Employee", "Notes"}}
	for _, e := range expenses {
		rows = append(rows, []interface{}{
			e.Date.Format(dateLayout), e.Type, e.Category, e.Description,
			e.Amount, e.PaymentMethod, e.Employee, e.Notes,
		})
	}
	if err := writeRows(file, expenseSheet, rows); err != nil {
		return nil, err
	}

	if summary != nil {
		if _, err := file.NewSheet(summarySheet); err != nil {
			return nil, fmt.Errorf("create sheet: %w", err)
		}
		totals := [][]interface{}{{"Type", "Count", "Total"}}
		for _, t := range summary.ByType {
			totals = append(totals, []interface{}{t.Type, t.Count, t.Total})
		}
		totals = append(totals, []interface{}{"All", "", summary.TotalExpenses})
		if err := writeRows(file, summarySheet, totals); err != nil {
			return nil, err
		}
	}

	return toBytes(file)
}

func writeRows(file *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toBytes(file *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
