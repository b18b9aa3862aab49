// Package compliance decides pass/fail for one candidate record text under
// the NEIS rule set. A failed check is a first-class result value, not an
// error: callers must surface the itemized violations, never discard the
// candidate silently.
package compliance

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/haneulclass/saengibu-backend/internal/neis"
)

type ViolationKind string

const (
	ViolationNameIncluded     ViolationKind = "name_included"
	ViolationLengthExceeded   ViolationKind = "length_exceeded"
	ViolationEndingGrammar    ViolationKind = "ending_grammar"
	ViolationMissingCoreValue ViolationKind = "missing_core_value"
)

type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Message string        `json:"message"`
}

// Result is produced fresh for every candidate text and never mutated.
type Result struct {
	IsValid        bool        `json:"isValid"`
	CharacterCount int         `json:"characterCount"`
	Violations     []Violation `json:"violations,omitempty"`
}

// Issues flattens the violations to human-readable strings for the API
// response envelope.
func (r Result) Issues() []string {
	out := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		out = append(out, v.Message)
	}
	return out
}

type Validator struct {
	rules neis.Rules
}

func NewValidator(rules neis.Rules) *Validator {
	return &Validator{rules: rules}
}

// Check applies every rule in fixed order without short-circuiting, so a
// candidate surfaces all of its violations at once.
func (v *Validator) Check(text, studentName string, recordType neis.RecordType) Result {
	res := Result{
		CharacterCount: utf8.RuneCountInString(text),
	}

	if name := strings.TrimSpace(studentName); name != "" && strings.Contains(text, name) {
		res.Violations = append(res.Violations, Violation{
			Kind:    ViolationNameIncluded,
			Message: "학생 이름이 기록에 포함되어 있음",
		})
	}

	if res.CharacterCount > v.rules.MaxLength {
		res.Violations = append(res.Violations, Violation{
			Kind: ViolationLengthExceeded,
			Message: fmt.Sprintf("기록 길이가 %d자로 제한(%d자)을 초과함",
				res.CharacterCount, v.rules.MaxLength),
		})
	}

	if bad := v.badSegments(text); len(bad) > 0 {
		res.Violations = append(res.Violations, Violation{
			Kind: ViolationEndingGrammar,
			Message: fmt.Sprintf("명사형 어미로 끝나지 않는 문장이 있음: %s",
				strings.Join(bad, " / ")),
		})
	}

	if recordType == neis.BehaviorSummary && !v.hasCoreValueTag(text) {
		res.Violations = append(res.Violations, Violation{
			Kind:    ViolationMissingCoreValue,
			Message: "괄호로 표기된 핵심 인성 요소가 하나도 없음",
		})
	}

	res.IsValid = len(res.Violations) == 0
	return res
}

// badSegments splits on '.' / ';' and returns the trimmed segments that do
// not end in an allowed noun-terminal suffix, so the violation message can
// show the teacher what to fix.
func (v *Validator) badSegments(text string) []string {
	segments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == ';'
	})
	var bad []string
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if !v.rules.HasValidEnding(seg) {
			bad = append(bad, seg)
		}
	}
	return bad
}

func (v *Validator) hasCoreValueTag(text string) bool {
	for _, cv := range v.rules.CoreValues {
		if strings.Contains(text, "("+cv.Label+")") {
			return true
		}
	}
	return false
}
