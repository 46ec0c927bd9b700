package extract

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// parseCSV reads the whole file as a single table, auto-detecting the
// encoding. UTF-8 and Windows-1251 are supported out of the box.
func parseCSV(content []byte) ([]Table, string, error) {
	br := bufio.NewReader(bytes.NewReader(content))

	peek, _ := br.Peek(2048)
	cs := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	var dec io.Reader = br
	switch cs {
	case "windows-1251", "cp1251":
		dec = transform.NewReader(br, charmap.Windows1251.NewDecoder())
	default:
		// assume UTF-8
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	if sep := sniffSeparator(peek); sep != 0 {
		cr.Comma = sep
	}

	var table Table
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", err
		}
		table = append(table, rec)
	}
	if len(table) == 0 {
		return nil, "", nil
	}
	tables := []Table{table}
	return tables, supplierFromTables(tables, 15), nil
}

// Russian exports often use ";" as the field separator.
func sniffSeparator(peek []byte) rune {
	line := string(peek)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return 0
}
