package extract

import (
	"sort"

	"github.com/seojindev/minwon/internal/entity"
)

// Dedupe resolves same-label overlaps in a mixed candidate list, which may
// combine regex and backend output. Candidates are taken in descending
// confidence (stable, so earlier candidates win ties) and accepted unless
// an already-accepted entity of the same label overlaps their [start,end)
// range. Different labels never conflict: two labels legitimately claiming
// the same span both survive. Accepted entities come back in start order.
func Dedupe(entities []entity.Entity) []entity.Entity {
	if len(entities) <= 1 {
		return entities
	}

	ranked := make([]entity.Entity, len(entities))
	copy(ranked, entities)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})

	accepted := make([]entity.Entity, 0, len(ranked))
	for _, cand := range ranked {
		conflict := false
		for _, acc := range accepted {
			if acc.Label == cand.Label && acc.Overlaps(cand) {
				conflict = true
				break
			}
		}
		if !conflict {
			accepted = append(accepted, cand)
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Start < accepted[j].Start
	})
	return accepted
}
