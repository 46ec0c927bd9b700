package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"supplymatch/internal"
)

// ExportResultToXLSX writes one reconciliation run as a review sheet,
// one row per invoice line, matched or not.
func ExportResultToXLSX(res Result, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"line_no", "invoice_name", "unit", "quantity", "price_with_tax",
		"source_code", "match_status", "product_id", "product_name",
		"product_code", "score", "runner_up_name", "runner_up_score",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, line := range res.Lines {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		qty, _ := line.Line.Quantity.Float64()
		price, _ := line.Line.UnitPriceWithTax.Float64()

		set(1, i+1)
		set(2, line.Line.Name)
		set(3, string(line.Line.Unit))
		set(4, qty)
		set(5, price)
		set(6, line.Line.SourceCode)
		set(7, matchStatus(line))
		if line.Match != nil {
			set(8, line.Match.ID)
			set(9, line.Match.Name)
			set(10, line.Match.Code)
			set(11, line.Match.Score)
		}
		if line.Runner != nil {
			set(12, line.Runner.Name)
			set(13, line.Runner.Score)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func matchStatus(line internal.ReconciledLine) string {
	switch {
	case line.Match == nil:
		return "unmatched"
	case line.Learned:
		return "learned"
	default:
		return "fuzzy"
	}
}
