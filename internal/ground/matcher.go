// Package ground re-locates extracted entity values inside the original
// paginated document layout, so callers can highlight exactly where a
// value came from.
package ground

import (
	"fmt"
	"sort"
	"strings"

	"github.com/seojindev/minwon/internal/document"
	"github.com/seojindev/minwon/internal/entity"
	"github.com/seojindev/minwon/internal/norm"
)

// MatchResult is one candidate grounding of an entity value onto a page
// position.
type MatchResult struct {
	Item        document.TextItem `json:"item"`
	Confidence  float64           `json:"confidence"`
	MatchedText string            `json:"matched_text"`
}

// Thresholds tunes the fuzzy-match cutoffs. These are empirical knobs,
// not calibrated truths; callers can retune them per corpus.
type Thresholds struct {
	Name float64 // person/place/organization names
	Text float64 // generic phrases
}

// DefaultThresholds returns the stock cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{Name: 0.8, Text: 0.6}
}

// MatchDate finds page items that carry the given date. Per item, three
// checks run in order and the first success wins: exact match after date
// normalization (1.0), structural equality of the parsed dates (0.95),
// then normalized similarity above 0.7 (scored by the similarity itself).
func MatchDate(dateStr string, pages []document.PageText) []MatchResult {
	wantNorm := norm.Normalize(dateStr, norm.KindDate)
	wantDate, wantParsed := norm.ParseDate(dateStr)

	var results []MatchResult
	forEachItem(pages, func(item document.TextItem) {
		itemNorm := norm.Normalize(item.Text, norm.KindDate)

		if wantNorm != "" && wantNorm == itemNorm {
			results = append(results, MatchResult{Item: item, Confidence: 1.0, MatchedText: item.Text})
			return
		}
		if wantParsed {
			if itemDate, ok := norm.ParseDate(item.Text); ok && wantDate.Equal(itemDate) {
				results = append(results, MatchResult{Item: item, Confidence: 0.95, MatchedText: item.Text})
				return
			}
		}
		if sim := norm.Similarity(wantNorm, itemNorm); sim > 0.7 {
			results = append(results, MatchResult{Item: item, Confidence: sim, MatchedText: item.Text})
		}
	})
	return sortByConfidence(results)
}

// MatchText finds page items matching an arbitrary search string. Per
// item: exact match after text normalization (1.0), substring containment
// either way (0.9), then similarity at or above the caller's threshold.
func MatchText(searchStr string, pages []document.PageText, threshold float64) []MatchResult {
	want := norm.Normalize(searchStr, norm.KindText)
	if want == "" {
		return nil
	}

	var results []MatchResult
	forEachItem(pages, func(item document.TextItem) {
		got := norm.Normalize(item.Text, norm.KindText)
		if got == "" {
			return
		}
		if want == got {
			results = append(results, MatchResult{Item: item, Confidence: 1.0, MatchedText: item.Text})
			return
		}
		if strings.Contains(got, want) || strings.Contains(want, got) {
			results = append(results, MatchResult{Item: item, Confidence: 0.9, MatchedText: item.Text})
			return
		}
		if sim := norm.Similarity(want, got); sim >= threshold {
			results = append(results, MatchResult{Item: item, Confidence: sim, MatchedText: item.Text})
		}
	})
	return sortByConfidence(results)
}

// MatchAmount finds page items carrying a monetary amount or account
// number. Per item: equal non-empty digit sequences (0.95), else raw
// substring containment either way (0.9).
func MatchAmount(amountStr string, pages []document.PageText) []MatchResult {
	wantDigits := norm.Normalize(amountStr, norm.KindNumeric)

	var results []MatchResult
	forEachItem(pages, func(item document.TextItem) {
		gotDigits := norm.Normalize(item.Text, norm.KindNumeric)
		if wantDigits != "" && wantDigits == gotDigits {
			results = append(results, MatchResult{Item: item, Confidence: 0.95, MatchedText: item.Text})
			return
		}
		if strings.Contains(item.Text, amountStr) || strings.Contains(amountStr, item.Text) {
			results = append(results, MatchResult{Item: item, Confidence: 0.9, MatchedText: item.Text})
		}
	})
	return sortByConfidence(results)
}

// GroundEntities grounds a batch of mixed-type entities against the page
// index. Keys are "<kind>:<value>" where kind reflects the matching
// strategy used (date, amount, account, name, text). Absence of a match
// is an empty list, never an error; empty pages ground nothing.
func GroundEntities(entities []entity.Entity, pages []document.PageText, th Thresholds) map[string][]MatchResult {
	matches := make(map[string][]MatchResult, len(entities))
	for _, e := range entities {
		kind, results := groundOne(e, pages, th)
		key := fmt.Sprintf("%s:%s", kind, e.Text)
		if _, seen := matches[key]; seen {
			continue
		}
		if results == nil {
			results = []MatchResult{}
		}
		matches[key] = results
	}
	return matches
}

func groundOne(e entity.Entity, pages []document.PageText, th Thresholds) (string, []MatchResult) {
	switch e.Label {
	case entity.Date, entity.Deadline:
		return "date", MatchDate(e.Text, pages)
	case entity.Money:
		return "amount", MatchAmount(e.Text, pages)
	case entity.AccountNumber:
		return "account", MatchAmount(e.Text, pages)
	case entity.Person, entity.Organization, entity.Location:
		return "name", MatchText(e.Text, pages, th.Name)
	default:
		return "text", MatchText(e.Text, pages, th.Text)
	}
}

func forEachItem(pages []document.PageText, fn func(document.TextItem)) {
	for _, page := range pages {
		for _, item := range page.Items {
			fn(item)
		}
	}
}

func sortByConfidence(results []MatchResult) []MatchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results
}
