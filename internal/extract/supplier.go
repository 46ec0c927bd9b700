package extract

import (
	"regexp"
	"strings"
)

// Supplier (seller) name extraction from the free text around the
// invoice table. Markers cover счёт-фактура and contract headers.
var supplierMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)продавец\s*[:\s]+([^\n]+)`),
	regexp.MustCompile(`(?i)seller\s*[:\s]+([^\n]+)`),
	regexp.MustCompile(`(?i)поставщик\s*[:\s]+([^\n]+)`),
	regexp.MustCompile(`(?i)продавец\s*\n\s*([^\n]+)`),
	regexp.MustCompile(`(?i)["«]([^"»]+)["»]\s*[^\n]*именуемое[^\n]*исполнитель`),
	regexp.MustCompile(`(?i)исполнитель[^\n]*[«"]([^»"]+)[»"]`),
}

var (
	reBuyerTail    = regexp.MustCompile(`(?i)\s*[;,]?\s*покупатель\s*:.*$`)
	reBuyerTailEn  = regexp.MustCompile(`(?i)\s*[;,]?\s*buyer\s*:.*$`)
	reInnTail      = regexp.MustCompile(`(?i)\s*[,;]\s*и[\sн]+\.?\s*\d+.*`)
	reKppTail      = regexp.MustCompile(`(?i)\s*[,;]\s*к[\sп]+п\.?\s*\d+.*`)
	reAddressTail  = regexp.MustCompile(`\s*,\s*[\d\s\-]+.*`)
	reOnlyDigits   = regexp.MustCompile(`^[\d\s\-.]+$`)
)

// SupplierFromText scans plain document text for a seller marker and
// returns a cleaned-up company name, or "".
func SupplierFromText(text string) string {
	if len(text) < 5 {
		return ""
	}
	for _, re := range supplierMarkers {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		name = reBuyerTail.ReplaceAllString(name, "")
		name = reBuyerTailEn.ReplaceAllString(name, "")
		name = reInnTail.ReplaceAllString(name, "")
		name = reKppTail.ReplaceAllString(name, "")
		name = reAddressTail.ReplaceAllString(name, "")
		name = strings.TrimSpace(strings.ReplaceAll(name, `"`, ""))
		if len([]rune(name)) >= 3 && !reOnlyDigits.MatchString(name) {
			if r := []rune(name); len(r) > 120 {
				name = string(r[:120])
			}
			return name
		}
	}
	return ""
}

// supplierFromTables runs the text markers over the leading rows of a
// spreadsheet-like document, where the seller usually sits above the
// item table.
func supplierFromTables(tables []Table, maxRows int) string {
	for _, t := range tables {
		for i, row := range t {
			if i >= maxRows {
				break
			}
			for _, c := range row {
				if name := SupplierFromText(c); name != "" {
					return name
				}
			}
		}
	}
	return ""
}
