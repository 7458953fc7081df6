package importer

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// Row is one tokenized CSV record keyed by header field name.
type Row map[string]string

// tokenize splits a raw upload into a header and named rows using the
// detected delimiter. Cells are trimmed and fully empty lines are
// skipped. Rows shorter than the header simply lack those keys.
func tokenize(data []byte) ([]string, []Row, error) {
	text := strings.TrimPrefix(string(data), "\ufeff") // Windows exports carry a UTF-8 BOM

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = DetectDelimiter(text)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptyFile
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	var rows []Row
	for _, rec := range records[1:] {
		if isEmptyRecord(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func isEmptyRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
