package extract

import (
	"bytes"
	"errors"

	xls "github.com/extrame/xls"
)

// Legacy .xls workbooks (1C exports) are usually cp1251 but not always,
// so opening tries a charset chain. Cell width is probed instead of
// trusting Row.LastCol, which under-reports on sparse rows.
func parseXLS(content []byte) ([]Table, string, error) {
	var wb *xls.WorkBook
	var lastErr error
	for _, charset := range []string{"windows-1251", "utf-8", "koi8-r"} {
		opened, err := xls.OpenReader(bytes.NewReader(content), charset)
		if err == nil && opened != nil {
			wb = opened
			lastErr = nil
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return nil, "", lastErr
	}

	tables := []Table{}
	for s := 0; s < wb.NumSheets(); s++ {
		sheet := wb.GetSheet(s)
		if sheet == nil {
			continue
		}
		maxCols := probeMaxCols(sheet)
		table := make(Table, 0, int(sheet.MaxRow)+1)
		for i := 0; i <= int(sheet.MaxRow); i++ {
			row := sheet.Row(i)
			cols := make([]string, maxCols)
			if row != nil {
				for j := 0; j < maxCols; j++ {
					cols[j] = row.Col(j)
				}
			}
			table = append(table, cols)
		}
		if len(table) > 0 {
			tables = append(tables, table)
		}
	}
	return tables, supplierFromTables(tables, 15), nil
}

func probeMaxCols(sheet *xls.WorkSheet) int {
	const probeMax = 64
	maxCols := 1
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		for j := 0; j < probeMax; j++ {
			if row.Col(j) != "" && j+1 > maxCols {
				maxCols = j + 1
			}
		}
	}
	return maxCols
}
