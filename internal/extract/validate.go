package extract

import (
	"strings"

	"github.com/seojindev/minwon/internal/entity"
)

// SanitizeEntities filters untrusted backend output against the source
// text. Entities survive only when their label is in the closed set, their
// offsets index real bytes of source, and their text is non-empty after
// trimming. Offsets that disagree with the quoted text are repaired when
// the text can be found near the claimed position, otherwise the entity is
// dropped. Confidence is clamped into [0,1].
func SanitizeEntities(source string, entities []entity.Entity) []entity.Entity {
	out := make([]entity.Entity, 0, len(entities))
	for _, e := range entities {
		if strings.TrimSpace(e.Text) == "" {
			continue
		}
		if !e.Label.Valid() {
			label, ok := entity.ParseLabel(string(e.Label))
			if !ok {
				continue
			}
			e.Label = label
		}
		if e.Confidence < 0 {
			e.Confidence = 0
		}
		if e.Confidence > 1 {
			e.Confidence = 1
		}
		if !offsetsAgree(source, e) {
			repaired, ok := repairOffsets(source, e)
			if !ok {
				continue
			}
			e = repaired
		}
		out = append(out, e)
	}
	return out
}

func offsetsAgree(source string, e entity.Entity) bool {
	return e.Start >= 0 && e.End > e.Start && e.End <= len(source) &&
		source[e.Start:e.End] == e.Text
}

// repairOffsets relocates an entity whose reported offsets don't line up
// with its text. Backends that tokenize on runes instead of bytes report
// shifted positions for Hangul; searching from the claimed start, then the
// whole text, recovers those.
func repairOffsets(source string, e entity.Entity) (entity.Entity, bool) {
	from := e.Start
	if from < 0 || from > len(source) {
		from = 0
	}
	idx := strings.Index(source[from:], e.Text)
	if idx >= 0 {
		e.Start = from + idx
	} else {
		idx = strings.Index(source, e.Text)
		if idx < 0 {
			return e, false
		}
		e.Start = idx
	}
	e.End = e.Start + len(e.Text)
	return e, true
}
