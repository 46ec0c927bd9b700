package extract

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

func parseXLSX(content []byte) ([]Table, string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	tables := []Table{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		tables = append(tables, Table(rows))
	}
	return tables, supplierFromTables(tables, 15), nil
}
