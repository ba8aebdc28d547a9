package extract

import (
	"testing"

	"github.com/seojindev/minwon/internal/entity"
)

func TestSanitizeEntities_DropsEmptyText(t *testing.T) {
	out := SanitizeEntities("some text", []entity.Entity{
		{Text: "   ", Label: entity.Date, Start: 0, End: 3, Confidence: 0.5},
	})
	if len(out) != 0 {
		t.Errorf("expected empty-text entity to be dropped, got %+v", out)
	}
}

func TestSanitizeEntities_DropsUnknownLabel(t *testing.T) {
	out := SanitizeEntities("hello", []entity.Entity{
		{Text: "hello", Label: "GIBBERISH", Start: 0, End: 5, Confidence: 0.5},
	})
	if len(out) != 0 {
		t.Errorf("expected unknown label to be dropped, got %+v", out)
	}
}

func TestSanitizeEntities_NormalizesAliasLabel(t *testing.T) {
	out := SanitizeEntities("hello", []entity.Entity{
		{Text: "hello", Label: "B-ORG", Start: 0, End: 5, Confidence: 0.5},
	})
	if len(out) != 1 || out[0].Label != entity.Organization {
		t.Errorf("expected B-ORG to normalize to ORGANIZATION, got %+v", out)
	}
}

func TestSanitizeEntities_ClampsConfidence(t *testing.T) {
	out := SanitizeEntities("hello world", []entity.Entity{
		{Text: "hello", Label: entity.Action, Start: 0, End: 5, Confidence: 1.7},
		{Text: "world", Label: entity.Action, Start: 6, End: 11, Confidence: -0.2},
	})
	if len(out) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(out))
	}
	if out[0].Confidence != 1.0 || out[1].Confidence != 0.0 {
		t.Errorf("confidences not clamped: %v, %v", out[0].Confidence, out[1].Confidence)
	}
}

func TestSanitizeEntities_RepairsRuneOffsets(t *testing.T) {
	// Backends counting runes report 5 for the position of 강남구청 in
	// this text; the byte offset is 11.
	source := "안내문: 강남구청"
	out := SanitizeEntities(source, []entity.Entity{
		{Text: "강남구청", Label: entity.Organization, Start: 5, End: 9, Confidence: 0.9},
	})
	if len(out) != 1 {
		t.Fatalf("expected entity to be repaired, got %d", len(out))
	}
	e := out[0]
	if source[e.Start:e.End] != "강남구청" {
		t.Errorf("repaired offsets [%d,%d) bracket %q", e.Start, e.End, source[e.Start:e.End])
	}
}

func TestSanitizeEntities_DropsTextNotInSource(t *testing.T) {
	out := SanitizeEntities("납부 안내", []entity.Entity{
		{Text: "등기부등본", Label: entity.LawTerm, Start: 0, End: 5, Confidence: 0.9},
	})
	if len(out) != 0 {
		t.Errorf("expected hallucinated entity to be dropped, got %+v", out)
	}
}

func TestSanitizeEntities_KeepsAgreeingOffsets(t *testing.T) {
	source := "과태료는 450,000원 입니다."
	in := ExtractByRegex(source)
	out := SanitizeEntities(source, in)
	if len(out) != len(in) {
		t.Errorf("sanitize dropped valid extractor output: %d -> %d", len(in), len(out))
	}
}
