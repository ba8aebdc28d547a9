package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/seojindev/minwon/internal/document"
)

// PDFParser extracts positioned text per page. It tries the Go library
// first (which yields real layout coordinates), then falls back to
// pdftotext with synthetic positions if available.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) ([]document.PageText, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "minwon-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractPositionedText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		pages, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	return pages, nil
}

func extractPositionedText(path string) ([]document.PageText, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []document.PageText
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}

		var items []document.TextItem
		for _, row := range rows {
			items = append(items, mergeRow(row.Content, i)...)
		}
		pages = append(pages, document.PageText{
			PageNumber: i,
			Items:      items,
			FullText:   document.JoinItems(items),
		})
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages extracted")
	}
	return pages, nil
}

// mergeRow joins a row's glyph runs into word-level items. The library
// reports one Text per show operation, frequently a single character, so
// consecutive runs are merged until a space or a horizontal gap wider
// than a third of the font size.
func mergeRow(runs []pdflib.Text, pageNumber int) []document.TextItem {
	var items []document.TextItem

	var buf strings.Builder
	var startX, endX, y, height float64

	flush := func() {
		text := strings.TrimSpace(buf.String())
		if text != "" {
			items = append(items, document.TextItem{
				Text:       text,
				X:          startX,
				Y:          y,
				Width:      endX - startX,
				Height:     height,
				PageNumber: pageNumber,
			})
		}
		buf.Reset()
	}

	for _, run := range runs {
		gapBreak := buf.Len() > 0 && run.X-endX > run.FontSize/3
		if strings.TrimSpace(run.S) == "" || gapBreak {
			flush()
			if strings.TrimSpace(run.S) == "" {
				endX = run.X + run.W
				continue
			}
		}
		if buf.Len() == 0 {
			startX = run.X
			y = run.Y
			height = run.FontSize
		}
		buf.WriteString(run.S)
		endX = run.X + run.W
		if run.FontSize > height {
			height = run.FontSize
		}
	}
	flush()

	return items
}

// extractPdftotext shells out to pdftotext and lays the result out with
// synthetic positions, form feeds delimiting pages.
func extractPdftotext(path string) ([]document.PageText, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}

	var pages []document.PageText
	for i, pageText := range strings.Split(string(out), "\f") {
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		pages = append(pages, layoutPage(splitLines(pageText), i+1))
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no text extracted")
	}
	return pages, nil
}
