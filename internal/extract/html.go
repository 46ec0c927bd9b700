package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseHTML collects every <table> in the document; invoices forwarded
// from web back offices arrive this way.
func parseHTML(content []byte) ([]Table, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, "", err
	}

	tables := []Table{}
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		table := Table{}
		sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			row := []string{}
			tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				row = append(row, strings.TrimSpace(cell.Text()))
			})
			if len(row) > 0 {
				table = append(table, row)
			}
		})
		if len(table) > 0 {
			tables = append(tables, table)
		}
	})

	return tables, SupplierFromText(doc.Text()), nil
}
