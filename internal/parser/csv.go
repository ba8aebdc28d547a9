package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/seojindev/minwon/internal/document"
)

// CSVParser handles CSV files (e.g. exported payment schedules). Each
// record becomes one logical line, cells joined with their headers.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) ([]document.PageText, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := records[0]
	lines := []string{strings.Join(headers, " ")}

	for _, row := range records[1:] {
		var cells []string
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if j < len(headers) && strings.TrimSpace(headers[j]) != "" {
				cells = append(cells, headers[j]+": "+cell)
			} else {
				cells = append(cells, cell)
			}
		}
		lines = append(lines, strings.Join(cells, ", "))
	}

	return paginate(lines), nil
}
