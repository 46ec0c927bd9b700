package extract

import (
	"strings"

	"github.com/shopspring/decimal"

	"supplymatch/internal"
	"supplymatch/internal/util"
)

// Table is one extracted grid of cell strings. Adapters produce these;
// the extractor below turns them into line items.
type Table [][]string

// ColumnMap holds the 0-based index of each recognized column role.
type ColumnMap struct {
	RowNum       int
	Name         int
	Code         int
	Unit         int
	Quantity     int
	Price        int
	TotalWithTax int
}

// headerMarker is one (pattern, role) entry of the ordered marker
// table. A header cell assigns the role when it contains every token in
// contains and none in excludes. shortCell restricts the match to cells
// of at most three runes (the "№" column header).
type headerMarker struct {
	assign    func(*ColumnMap, int)
	contains  []string
	excludes  []string
	shortCell bool
}

var headerMarkers = []headerMarker{
	{assign: func(c *ColumnMap, i int) { c.RowNum = i }, contains: []string{"№"}, shortCell: true},
	{assign: func(c *ColumnMap, i int) { c.Name = i }, contains: []string{"наименование"}},
	{assign: func(c *ColumnMap, i int) { c.Unit = i }, contains: []string{"ед"}},
	{assign: func(c *ColumnMap, i int) { c.Unit = i }, contains: []string{"измер"}},
	{assign: func(c *ColumnMap, i int) { c.Quantity = i }, contains: []string{"кол"}},
	{assign: func(c *ColumnMap, i int) { c.Price = i }, contains: []string{"цена"}, excludes: []string{"ндс"}},
	{assign: func(c *ColumnMap, i int) { c.TotalWithTax = i }, contains: []string{"ндс", "учетом"}},
	{assign: func(c *ColumnMap, i int) { c.TotalWithTax = i }, contains: []string{"ндс", "учётом"}},
	{assign: func(c *ColumnMap, i int) { c.TotalWithTax = i }, contains: []string{"стоимость", "ндс"}},
	{assign: func(c *ColumnMap, i int) { c.Code = i }, contains: []string{"идентификацион"}},
	{assign: func(c *ColumnMap, i int) { c.Code = i }, contains: []string{"код"}, excludes: []string{"штрих"}},
}

var skipWords = []string{"итого", "всего", "total", "сумма", "купля-продажа"}

// headerLookahead bounds the header scan: anything table-like past the
// first 30 rows is not an invoice header.
const headerLookahead = 30

// Extractor turns raw tables into line items. Defaults is the column
// layout assumed for a typical invoice of the source format; detected
// header markers overwrite it role by role.
type Extractor struct {
	Defaults ColumnMap
}

// NewExtractor returns an extractor with the canonical счёт-фактура
// layout. totalWithTax varies between formats, so it is a parameter.
func NewExtractor(totalWithTaxCol int) *Extractor {
	return &Extractor{Defaults: ColumnMap{
		RowNum:       0,
		Name:         1,
		Code:         2,
		Unit:         3,
		Quantity:     4,
		Price:        5,
		TotalWithTax: totalWithTaxCol,
	}}
}

// Extract walks every table, locates a header row by heuristic and
// collects the data rows below it. Tables without a header contribute
// nothing.
func (e *Extractor) Extract(tables []Table) []internal.LineItem {
	out := []internal.LineItem{}
	for _, table := range tables {
		var cols *ColumnMap
		for rowIdx, row := range table {
			if m, ok := e.headerColumns(row); ok && rowIdx < headerLookahead {
				cols = m
				continue
			}
			if cols == nil {
				continue
			}
			if item, ok := lineFromRow(row, *cols); ok {
				out = append(out, item)
			}
		}
	}
	return out
}

// headerColumns decides whether row is a header (≥3 non-empty cells, a
// name marker and a quantity marker) and, if so, derives the column map
// by re-scanning the cells against the marker table.
func (e *Extractor) headerColumns(row []string) (*ColumnMap, bool) {
	nonEmpty := 0
	joined := strings.Builder{}
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			nonEmpty++
		}
		joined.WriteString(strings.ToLower(c))
		joined.WriteString(" ")
	}
	rowText := joined.String()
	hasName := strings.Contains(rowText, "наименование")
	hasQty := strings.Contains(rowText, "количество") || strings.Contains(rowText, "кол-во") || strings.Contains(rowText, "кол")
	if nonEmpty < 3 || !hasName || !hasQty {
		return nil, false
	}

	cols := e.Defaults
	for i, cell := range row {
		lc := strings.ToLower(strings.TrimSpace(cell))
		if lc == "" {
			continue
		}
		for _, m := range headerMarkers {
			if m.shortCell && len([]rune(lc)) > 3 {
				continue
			}
			if !containsAll(lc, m.contains) || containsAny(lc, m.excludes) {
				continue
			}
			m.assign(&cols, i)
		}
	}
	return &cols, true
}

// lineFromRow accepts a data row only when the row-number column holds
// a positive integer; footers like "Итого" fail that gate.
func lineFromRow(row []string, cols ColumnMap) (internal.LineItem, bool) {
	if _, ok := util.ParsePositiveInt(cell(row, cols.RowNum)); !ok {
		return internal.LineItem{}, false
	}

	name := util.StripArticleCode(cell(row, cols.Name))
	if name == "" || isSkipWord(name) || isAllDigits(name) {
		return internal.LineItem{}, false
	}

	qty, ok := util.ParseDecimal(cell(row, cols.Quantity))
	if !ok || !qty.IsPositive() {
		return internal.LineItem{}, false
	}

	price := decimal.Zero
	if total, ok := util.ParseDecimal(cell(row, cols.TotalWithTax)); ok && total.IsPositive() {
		price = total.Div(qty).Round(2)
	} else if raw, ok := util.ParseDecimal(cell(row, cols.Price)); ok {
		price = raw.Round(2)
	}

	code := cell(row, cols.Code)
	if len([]rune(code)) > 80 {
		code = string([]rune(code)[:80])
	}

	return internal.LineItem{
		Name:             name,
		Unit:             util.NormalizeUnit(cell(row, cols.Unit)),
		Quantity:         qty,
		UnitPriceWithTax: price,
		SourceCode:       code,
	}, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isSkipWord(name string) bool {
	lower := strings.ToLower(name)
	for _, w := range skipWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func isAllDigits(name string) bool {
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return name != ""
}

func containsAll(s string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(s, t) {
			return false
		}
	}
	return true
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
