package extract

import (
	"bytes"
	"sort"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// columnGap is the horizontal distance (in PDF points) between text
// fragments that separates two table cells. Invoice tables keep their
// columns far enough apart for this to hold.
const columnGap = 8.0

// parsePDF renders each page as one table: text fragments grouped into
// rows by the reader, then into cells by X-gap. The supplier name is
// looked up in the plain text of the leading pages.
func parsePDF(content []byte) ([]Table, string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, "", err
	}

	tables := []Table{}
	supplier := ""
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		if supplier == "" {
			if text, err := p.GetPlainText(nil); err == nil {
				supplier = SupplierFromText(text)
			}
		}

		rows, err := p.GetTextByRow()
		if err != nil {
			continue
		}
		sort.Slice(rows, func(a, b int) bool { return rows[a].Position > rows[b].Position })

		table := make(Table, 0, len(rows))
		for _, row := range rows {
			table = append(table, cellsFromFragments(row.Content))
		}
		if len(table) > 0 {
			tables = append(tables, table)
		}
	}
	return tables, supplier, nil
}

// cellsFromFragments merges X-sorted text fragments of one visual row
// into cell strings, breaking a cell whenever the horizontal gap to the
// previous fragment exceeds columnGap.
func cellsFromFragments(fragments []pdf.Text) []string {
	if len(fragments) == 0 {
		return nil
	}
	sorted := make([]pdf.Text, len(fragments))
	copy(sorted, fragments)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].X < sorted[b].X })

	cells := []string{}
	var cur strings.Builder
	prevEnd := sorted[0].X
	for i, f := range sorted {
		if i > 0 && f.X-prevEnd > columnGap {
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
		cur.WriteString(f.S)
		end := f.X + f.W
		if end > prevEnd {
			prevEnd = end
		}
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}
