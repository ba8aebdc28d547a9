// Package extract pulls typed entities out of OCR-derived Korean
// administrative text. Regex extraction is the always-available source;
// remote NER backends are layered on top by the Orchestrator.
package extract

import (
	"regexp"

	"github.com/seojindev/minwon/internal/entity"
)

// pattern is one row of the extraction table: a compiled expression for a
// label with a fixed confidence reflecting how precise the pattern is.
type pattern struct {
	label      entity.Label
	re         *regexp.Regexp
	confidence float64
}

// patternTable drives ExtractByRegex. Several rows per label are fine:
// overlapping hits for the same label are resolved later by Dedupe, not
// here. Confidences are heuristic ranking weights, not probabilities.
var patternTable = []pattern{
	// Dates: numeric-separated and Korean-worded forms.
	{entity.Date, regexp.MustCompile(`\d{4}[.\-/]\s?\d{1,2}[.\-/]\s?\d{1,2}`), 0.8},
	{entity.Date, regexp.MustCompile(`\d{4}년\s*\d{1,2}월\s*\d{1,2}일`), 0.85},

	// Monetary amounts. The comma-grouped form is the most reliable.
	{entity.Money, regexp.MustCompile(`\d{1,3}(?:,\d{3})+원`), 0.85},
	{entity.Money, regexp.MustCompile(`(?:금\s*)?\d[\d,]*\s*(?:만\s*)?원`), 0.8},

	// Bank account numbers: 2-4 dash-separated digit groups.
	{entity.AccountNumber, regexp.MustCompile(`\d{2,6}-\d{2,6}-\d{2,8}(?:-\d{2,6})?`), 0.7},

	// Obligatory actions: verb stem plus an imperative or obligation ending.
	{entity.Action, regexp.MustCompile(`(?:납부|제출|신청|접수|등록|완료|확인|신고)\s*(?:하세요|하십시오|하시기\s*바랍니다|해야\s*합니다|하여야\s*합니다|바랍니다)`), 0.75},
	{entity.Action, regexp.MustCompile(`(?:납부|제출|신청|접수|등록|신고)하지\s*않으면`), 0.7},

	// Deadlines: a labelled date phrase, or a date followed by 까지.
	{entity.Deadline, regexp.MustCompile(`(?:신청|납부|제출|접수)?\s*(?:기한|기간|마감)\s*[:：]?\s*\d{4}년\s*\d{1,2}월\s*\d{1,2}일\s*(?:까지)?`), 0.8},
	{entity.Deadline, regexp.MustCompile(`\d{4}년\s*\d{1,2}월\s*\d{1,2}일\s*까지`), 0.8},
	{entity.Deadline, regexp.MustCompile(`\d{4}[.\-/]\d{1,2}[.\-/]\d{1,2}\.?\s*까지`), 0.8},

	// Organizations: administrative unit plus an office-type suffix.
	{entity.Organization, regexp.MustCompile(`[가-힣]{1,10}(?:시청|구청|군청|도청|세무서|주민센터|행정복지센터|동사무소|읍사무소|면사무소|경찰서|소방서|지방법원|법원|검찰청|국세청|관세청|공단|공사|위원회)`), 0.7},

	// Tax and penalty kinds.
	{entity.TaxType, regexp.MustCompile(`취득세|등록면허세|재산세|자동차세|주민세|지방소득세|종합소득세|양도소득세|종합부동산세|부가가치세|과태료|범칙금|가산금`), 0.8},

	// Statute references such as "도로교통법 제160조 제2항".
	{entity.LawTerm, regexp.MustCompile(`[가-힣]+법(?:\s*시행령|\s*시행규칙)?\s*제\s*\d+\s*조(?:\s*제\s*\d+\s*항)?`), 0.75},

	// Locations: metropolitan-level district names and road addresses.
	{entity.Location, regexp.MustCompile(`[가-힣]{2,8}(?:특별시|광역시|특별자치시|특별자치도)(?:\s*[가-힣]{1,8}(?:시|군|구))?`), 0.65},
	{entity.Location, regexp.MustCompile(`[가-힣]{2,10}(?:대로|로|길)\s*\d+(?:번길\s*\d+)?`), 0.6},

	// PERSON intentionally has no row: Korean person names cannot be
	// told apart from ordinary nouns by shape alone, so that label only
	// ever comes from the remote backends.
}

// ExtractByRegex scans text with the pattern table and returns every hit
// with exact byte offsets into text. Same-label overlaps are preserved;
// resolving them is Dedupe's job. Pure function of its input.
func ExtractByRegex(text string) []entity.Entity {
	if text == "" {
		return nil
	}
	var out []entity.Entity
	for _, p := range patternTable {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			out = append(out, entity.Entity{
				Text:       text[loc[0]:loc[1]],
				Label:      p.label,
				Start:      loc[0],
				End:        loc[1],
				Confidence: p.confidence,
			})
		}
	}
	return out
}
