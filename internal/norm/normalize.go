// Package norm holds the string canonicalization, date parsing, and
// similarity scoring that the extraction and grounding layers share.
package norm

import "strings"

// Kind selects the normalization rules for a comparison.
type Kind string

const (
	KindDate    Kind = "date"
	KindText    Kind = "text"
	KindNumeric Kind = "numeric"
)

var dateMarkers = strings.NewReplacer("년", "", "월", "", "일", "", ".", "", "-", "", "/", "")

var textMarkers = strings.NewReplacer("년", "", "월", "", "일", "", ",", "", ".", "", "-", "")

// Normalize canonicalizes a value for comparison. It never fails; empty
// input yields the empty string.
func Normalize(value string, kind Kind) string {
	switch kind {
	case KindDate:
		value = dateMarkers.Replace(value)
		return stripSpace(value)
	case KindNumeric:
		var b strings.Builder
		for _, r := range value {
			if r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		return b.String()
	default:
		value = textMarkers.Replace(value)
		return strings.ToLower(stripSpace(value))
	}
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
