package entity

import "strings"

// Label classifies an extracted entity. The set is closed: backends that
// report anything else are normalized through ParseLabel or dropped.
type Label string

const (
	Date          Label = "DATE"
	Money         Label = "MONEY"
	Location      Label = "LOCATION"
	Organization  Label = "ORGANIZATION"
	LawTerm       Label = "LAW_TERM"
	Action        Label = "ACTION"
	Deadline      Label = "DEADLINE"
	Person        Label = "PERSON"
	AccountNumber Label = "ACCOUNT_NUMBER"
	TaxType       Label = "TAX_TYPE"
)

var allLabels = map[Label]bool{
	Date:          true,
	Money:         true,
	Location:      true,
	Organization:  true,
	LawTerm:       true,
	Action:        true,
	Deadline:      true,
	Person:        true,
	AccountNumber: true,
	TaxType:       true,
}

// labelAliases maps common NER tag-set names (CoNLL-style groups, KLUE tags)
// onto our labels, so remote backend output lands in the closed set.
var labelAliases = map[string]Label{
	"PER": Person,
	"PS":  Person,
	"ORG": Organization,
	"OG":  Organization,
	"LOC": Location,
	"LC":  Location,
	"DAT": Date,
	"DT":  Date,
	"TIM": Date,
	"MNY": Money,
	"QT":  Money,
	"CVL": LawTerm,
}

// Valid reports whether l is a member of the closed label set.
func (l Label) Valid() bool {
	return allLabels[l]
}

// ParseLabel resolves a backend-reported label name. The second return is
// false when the name maps to nothing we recognize.
func ParseLabel(name string) (Label, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}
	if allLabels[Label(name)] {
		return Label(name), true
	}
	// Strip BIO prefixes like "B-ORG" / "I-PER".
	if len(name) > 2 && (name[0] == 'B' || name[0] == 'I') && name[1] == '-' {
		name = name[2:]
	}
	if allLabels[Label(name)] {
		return Label(name), true
	}
	if l, ok := labelAliases[name]; ok {
		return l, true
	}
	return "", false
}

// Entity is one extracted span. Start and End are byte offsets into the
// source text the entity came from, never into a page. The invariant
// source[Start:End] == Text holds for everything the extractor produces.
type Entity struct {
	Text       string  `json:"text"`
	Label      Label   `json:"label"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Overlaps reports whether two half-open [Start,End) ranges intersect.
func (e Entity) Overlaps(other Entity) bool {
	return e.Start < other.End && other.Start < e.End
}

// ExtractionResult is the orchestrator's output. Model records which
// extraction source produced the entities ("none", "regex-fallback", a
// backend model id, or a hybrid label) and exists for observability only.
type ExtractionResult struct {
	Entities []Entity `json:"entities"`
	Text     string   `json:"text"`
	Model    string   `json:"model"`
}
