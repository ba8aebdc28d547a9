package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/seojindev/minwon/internal/document"
)

// Synthetic A4-ish layout for formats that carry no coordinates. Word
// positions are estimated from rune counts; they only need to be stable
// and page-local, not typographically accurate.
const (
	pageHeight   = 842.0
	marginLeft   = 50.0
	marginTop    = 50.0
	lineHeight   = 16.0
	glyphWidth   = 7.0
	itemHeight   = 12.0
	linesPerPage = 46
)

// layoutPage lays logical lines onto one synthetic page, one word per
// text item. Blank lines consume vertical space but emit no items.
func layoutPage(lines []string, pageNumber int) document.PageText {
	var items []document.TextItem
	for lineIdx, line := range lines {
		y := pageHeight - marginTop - float64(lineIdx)*lineHeight
		x := marginLeft
		for _, word := range strings.Fields(line) {
			w := float64(utf8.RuneCountInString(word)) * glyphWidth
			items = append(items, document.TextItem{
				Text:       word,
				X:          x,
				Y:          y,
				Width:      w,
				Height:     itemHeight,
				PageNumber: pageNumber,
			})
			x += w + glyphWidth
		}
	}
	return document.PageText{
		PageNumber: pageNumber,
		Items:      items,
		FullText:   document.JoinItems(items),
	}
}

// paginate breaks logical lines into synthetic pages of linesPerPage
// lines each. A document with no words at all yields no pages.
func paginate(lines []string) []document.PageText {
	var pages []document.PageText
	hasItems := false
	for start := 0; start < len(lines); start += linesPerPage {
		end := start + linesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		page := layoutPage(lines[start:end], len(pages)+1)
		if len(page.Items) > 0 {
			hasItems = true
		}
		pages = append(pages, page)
	}
	if !hasItems {
		return nil
	}
	return pages
}

// splitLines breaks text on newlines, trimming trailing carriage returns.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
