package bom

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"Category", "Name", "Type", "Description", "Quantity", "Unit Price", "Line Cost", "Status", "Vendor", "PO Number", "Order Date", "Expected Arrival", "Actual Arrival"}

// WriteExcel renders the BOM as a spreadsheet, one row per item plus a
// grand-total row.
func WriteExcel(w io.Writer, categories []Category) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "BOM"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	row := 2
	for _, cat := range categories {
		for _, item := range cat.Items {
			vendor := ""
			if item.FinalizedVendor != nil {
				vendor = item.FinalizedVendor.Name
			}
			price := ""
			if item.Price != nil {
				price = item.Price.StringFixed(2)
			}
			values := []any{
				cat.Name,
				item.Name,
				string(item.ItemType),
				item.Description,
				item.Quantity,
				price,
				ItemCost(item).StringFixed(2),
				string(item.Status),
				vendor,
				deref(item.PONumber),
				deref(item.OrderDate),
				deref(item.ExpectedArrival),
				deref(item.ActualArrival),
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}

	if err := f.SetCellValue(sheet, fmt.Sprintf("F%d", row), "Total"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("G%d", row), TotalCost(categories).StringFixed(2)); err != nil {
		return err
	}

	return f.Write(w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
