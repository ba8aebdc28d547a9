package document

import "strings"

// TextItem is one positioned text fragment on a page. Coordinates are
// page-local, in the producer's coordinate system.
type TextItem struct {
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	PageNumber int     `json:"page_number"` // 1-based, matches the containing page
}

// PageText is the positioned text of a single page. FullText is the
// space-joined concatenation of the item texts in extraction order.
type PageText struct {
	PageNumber int        `json:"page_number"`
	Items      []TextItem `json:"items"`
	FullText   string     `json:"full_text"`
}

// JoinItems builds the FullText for a slice of items.
func JoinItems(items []TextItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.Text)
	}
	return strings.Join(parts, " ")
}

// FullText concatenates all page texts with newlines, producing the
// document-level source text that extraction runs against.
func FullText(pages []PageText) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, p.FullText)
	}
	return strings.Join(parts, "\n")
}
