package ground

import (
	"testing"

	"github.com/seojindev/minwon/internal/document"
	"github.com/seojindev/minwon/internal/entity"
)

func testPages() []document.PageText {
	items := []document.TextItem{
		{Text: "납부", X: 50, Y: 700, Width: 30, Height: 12, PageNumber: 1},
		{Text: "기한", X: 85, Y: 700, Width: 30, Height: 12, PageNumber: 1},
		{Text: "2025.05.31", X: 130, Y: 700, Width: 70, Height: 12, PageNumber: 1},
		{Text: "강남구청", X: 50, Y: 680, Width: 60, Height: 12, PageNumber: 1},
		{Text: "450,000원", X: 130, Y: 680, Width: 65, Height: 12, PageNumber: 1},
		{Text: "123-456-789012", X: 50, Y: 660, Width: 100, Height: 12, PageNumber: 1},
	}
	return []document.PageText{
		{PageNumber: 1, Items: items, FullText: document.JoinItems(items)},
	}
}

func TestMatchDate_ExactAfterNormalization(t *testing.T) {
	results := MatchDate("2025-05-31", testPages())
	if len(results) == 0 {
		t.Fatal("expected a match for 2025-05-31")
	}
	if results[0].Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0 (normalized exact)", results[0].Confidence)
	}
	if results[0].Item.Text != "2025.05.31" {
		t.Errorf("matched item %q", results[0].Item.Text)
	}
}

func TestMatchDate_StructuralEquality(t *testing.T) {
	// The Korean worded form normalizes differently ("2025531" vs
	// "20250531"), so this exercises the parsed-equality tier.
	results := MatchDate("2025년 5월 31일", testPages())
	if len(results) == 0 {
		t.Fatal("expected a match for 2025년 5월 31일")
	}
	if results[0].Confidence < 0.95 {
		t.Errorf("confidence = %v, want >= 0.95", results[0].Confidence)
	}
	if results[0].Item.Text != "2025.05.31" {
		t.Errorf("matched item %q", results[0].Item.Text)
	}
}

func TestMatchDate_FuzzyTier(t *testing.T) {
	items := []document.TextItem{
		// OCR misread: one digit dropped.
		{Text: "2025.5.31", X: 0, Y: 0, Width: 50, Height: 10, PageNumber: 1},
	}
	pages := []document.PageText{{PageNumber: 1, Items: items, FullText: document.JoinItems(items)}}

	results := MatchDate("2025-05-31", pages)
	if len(results) == 0 {
		t.Fatal("expected a fuzzy or parsed match")
	}
	if results[0].Confidence < 0.7 {
		t.Errorf("confidence = %v, want > 0.7", results[0].Confidence)
	}
}

func TestMatchDate_NoMatchIsEmpty(t *testing.T) {
	if results := MatchDate("1999-01-01", testPages()); len(results) != 0 {
		t.Errorf("expected no matches, got %+v", results)
	}
}

func TestMatchText_Tiers(t *testing.T) {
	results := MatchText("강남구청", testPages(), 0.7)
	if len(results) == 0 {
		t.Fatal("expected exact match")
	}
	if results[0].Confidence != 1.0 {
		t.Errorf("exact tier confidence = %v", results[0].Confidence)
	}

	// Substring containment: query is broader than the item.
	results = MatchText("서울 강남구청 민원실", testPages(), 0.95)
	if len(results) == 0 {
		t.Fatal("expected containment match")
	}
	if results[0].Confidence != 0.9 {
		t.Errorf("containment tier confidence = %v, want 0.9", results[0].Confidence)
	}
}

func TestMatchText_ThresholdRespected(t *testing.T) {
	// 강남구청 vs 강남구창: 3 of 4 runes agree -> similarity 0.75.
	items := []document.TextItem{{Text: "강남구창", PageNumber: 1}}
	pages := []document.PageText{{PageNumber: 1, Items: items, FullText: "강남구창"}}

	if got := MatchText("강남구청", pages, 0.7); len(got) != 1 {
		t.Errorf("threshold 0.7 should admit similarity 0.75, got %+v", got)
	}
	if got := MatchText("강남구청", pages, 0.8); len(got) != 0 {
		t.Errorf("threshold 0.8 should reject similarity 0.75, got %+v", got)
	}
}

func TestMatchAmount(t *testing.T) {
	results := MatchAmount("450000원", testPages())
	if len(results) == 0 {
		t.Fatal("expected digit-equality match")
	}
	if results[0].Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", results[0].Confidence)
	}
	if results[0].Item.Text != "450,000원" {
		t.Errorf("matched item %q", results[0].Item.Text)
	}
}

func TestMatchAmount_AccountNumber(t *testing.T) {
	results := MatchAmount("123-456-789012", testPages())
	if len(results) == 0 {
		t.Fatal("expected account number match")
	}
	if results[0].Confidence < 0.9 {
		t.Errorf("confidence = %v", results[0].Confidence)
	}
}

func TestMatch_EmptyPages(t *testing.T) {
	if got := MatchDate("2025-05-31", nil); len(got) != 0 {
		t.Errorf("MatchDate on nil pages: %+v", got)
	}
	if got := MatchText("강남구청", []document.PageText{}, 0.5); len(got) != 0 {
		t.Errorf("MatchText on empty pages: %+v", got)
	}
	if got := MatchAmount("450,000원", nil); len(got) != 0 {
		t.Errorf("MatchAmount on nil pages: %+v", got)
	}
}

func TestMatchResults_SortedByConfidence(t *testing.T) {
	items := []document.TextItem{
		{Text: "2025.5.31", PageNumber: 1},  // parsed-equality tier, 0.95
		{Text: "2025.05.31", PageNumber: 1}, // exact tier, 1.0
	}
	pages := []document.PageText{{PageNumber: 1, Items: items, FullText: document.JoinItems(items)}}

	results := MatchDate("2025-05-31", pages)
	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Confidence > results[i-1].Confidence {
			t.Errorf("results not sorted by confidence: %+v", results)
		}
	}
	if results[0].Item.Text != "2025.05.31" {
		t.Errorf("best match is %q, want the exact item", results[0].Item.Text)
	}
}

func TestGroundEntities_KeysAndRouting(t *testing.T) {
	entities := []entity.Entity{
		{Text: "2025-05-31", Label: entity.Date, Start: 0, End: 10, Confidence: 0.8},
		{Text: "450,000원", Label: entity.Money, Start: 11, End: 23, Confidence: 0.85},
		{Text: "123-456-789012", Label: entity.AccountNumber, Start: 24, End: 38, Confidence: 0.7},
		{Text: "강남구청", Label: entity.Organization, Start: 39, End: 51, Confidence: 0.7},
		{Text: "납부하세요", Label: entity.Action, Start: 52, End: 67, Confidence: 0.75},
		{Text: "즉시 이의신청", Label: entity.LawTerm, Start: 68, End: 88, Confidence: 0.75},
	}

	matches := GroundEntities(entities, testPages(), DefaultThresholds())

	wantKeys := []string{
		"date:2025-05-31",
		"amount:450,000원",
		"account:123-456-789012",
		"name:강남구청",
		"text:납부하세요",
		"text:즉시 이의신청",
	}
	for _, key := range wantKeys {
		if _, ok := matches[key]; !ok {
			t.Errorf("missing key %q in %v", key, keys(matches))
		}
	}

	if len(matches["date:2025-05-31"]) == 0 {
		t.Error("date entity did not ground")
	}
	if len(matches["amount:450,000원"]) == 0 {
		t.Error("money entity did not ground")
	}
	// Absence of a match is an empty list, not a missing key or an error.
	if got := matches["text:즉시 이의신청"]; got == nil || len(got) != 0 {
		t.Errorf("unmatched entity should map to an empty slice, got %+v", got)
	}
}

func TestGroundEntities_EmptyInputs(t *testing.T) {
	if got := GroundEntities(nil, testPages(), DefaultThresholds()); len(got) != 0 {
		t.Errorf("expected empty map for no entities, got %v", got)
	}
	got := GroundEntities([]entity.Entity{
		{Text: "2025-05-31", Label: entity.Date, Start: 0, End: 10, Confidence: 0.8},
	}, nil, DefaultThresholds())
	if len(got["date:2025-05-31"]) != 0 {
		t.Errorf("expected empty results for empty pages, got %v", got)
	}
}

func keys(m map[string][]MatchResult) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
