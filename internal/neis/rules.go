package neis

import "strings"

// CoreValue is one of the 8 personality traits a 행동특성 sentence must be
// tagged with. ID is the internal identifier observation data may supply in
// place of the display label.
type CoreValue struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Rules is the NEIS formatting rule set. It is constructed once and passed by
// value; nothing mutates it after DefaultRules.
type Rules struct {
	// MaxLength is the record length bound in Unicode code points.
	MaxLength int

	// Endings are the noun-terminal suffixes every sentence segment must end
	// with after trimming.
	Endings []string

	CoreValues []CoreValue
}

func DefaultRules() Rules {
	return Rules{
		MaxLength: 500,
		Endings: []string{
			"함", "임", "됨", "함.", "임.", "됨.",
			"있음", "있음.", "없음", "없음.",
		},
		CoreValues: []CoreValue{
			{ID: "care", Label: "배려"},
			{ID: "sharing", Label: "나눔"},
			{ID: "cooperation", Label: "협력"},
			{ID: "respect", Label: "타인존중"},
			{ID: "conflict", Label: "갈등관리"},
			{ID: "relationship", Label: "관계지향성"},
			{ID: "rules", Label: "규칙준수"},
			{ID: "learning", Label: "자기주도학습"},
		},
	}
}

// CoreValueLabel resolves an internal identifier to its display label. The
// input may already be a label, in which case it is returned unchanged.
func (r Rules) CoreValueLabel(idOrLabel string) (string, bool) {
	v := strings.TrimSpace(idOrLabel)
	for _, cv := range r.CoreValues {
		if cv.ID == v || cv.Label == v {
			return cv.Label, true
		}
	}
	return "", false
}

func (r Rules) IsCoreValue(idOrLabel string) bool {
	_, ok := r.CoreValueLabel(idOrLabel)
	return ok
}

// HasValidEnding reports whether a trimmed sentence segment ends with one of
// the allowed noun-terminal suffixes.
func (r Rules) HasValidEnding(segment string) bool {
	s := strings.TrimSpace(segment)
	if s == "" {
		return true
	}
	for _, suffix := range r.Endings {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
