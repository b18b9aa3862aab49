// Package prompt renders a normalized GenerationRequest into the single
// instruction string sent to the generative model. Composition is a pure
// function of its input: the same request always yields byte-identical text.
package prompt

import (
	"fmt"
	"strings"

	"github.com/haneulclass/saengibu-backend/internal/assemble"
	"github.com/haneulclass/saengibu-backend/internal/neis"
)

const subjectBody = `{{.Preamble}}
{{- if .Header}}

[기록 정보]
{{.Header}}
{{- end}}
{{- if .Standards}}

[성취기준]
{{.Standards}}
{{- end}}
{{- if .Criteria}}

[평가 기준]
{{.Criteria}}
{{- end}}
{{- if .EvaluationResults}}

[평가 결과]
{{.EvaluationResults}}
{{- end}}
{{- if .Survey}}

[학생 자기평가]
{{.Survey}}
{{- end}}
{{- if .Observations}}

[교사 관찰 기록]
{{.Observations}}
{{- end}}
{{- if .Notes}}

[교사 메모]
{{.Notes}}
{{- end}}
{{- if .Context}}

[추가 참고 사항]
{{.Context}}
{{- end}}

[작성 예시]
{{.Example}}`

const behaviorBody = `{{.Preamble}}

{{.CoreValues}}
{{- if .Header}}

[기록 정보]
{{.Header}}
{{- end}}
{{- if .BehaviorContext}}

[관찰 맥락]
{{.BehaviorContext}}
{{- end}}
{{- if .Observations}}

[교사 관찰 기록]
{{.Observations}}
{{- end}}
{{- if .Notes}}

[교사 메모]
{{.Notes}}
{{- end}}
{{- if .Context}}

[추가 참고 사항]
{{.Context}}
{{- end}}

[작성 예시]
{{.Example}}`

const (
	exampleSubjectProgress = `분수의 덧셈과 뺄셈 단원에서 통분의 원리를 정확히 이해하고 다양한 문제 상황에 적용함. 학습한 내용을 친구에게 설명하며 개념을 확실히 다짐.`
	exampleCreative        = `자율활동 시간에 학급 역할을 책임감 있게 수행함. 환경 정리 활동에서 주도적으로 참여하여 모범이 됨.`
	exampleBehavior        = `(배려) 몸이 불편한 친구의 학습 준비를 자주 도와주는 따뜻한 마음씨를 지님. (자기주도학습) 스스로 학습 계획을 세우고 꾸준히 실천하는 습관이 형성되어 있음.`
)

type Composer struct {
	rules neis.Rules
	specs map[neis.RecordType]compiledSpec
}

func NewComposer(rules neis.Rules) (*Composer, error) {
	specs := []Spec{
		{Type: neis.SubjectProgress, Body: subjectBody},
		{Type: neis.CreativeActivity, Body: subjectBody},
		{Type: neis.BehaviorSummary, Body: behaviorBody},
	}
	compiled := make(map[neis.RecordType]compiledSpec, len(specs))
	for _, s := range specs {
		cs, err := compileSpec(s)
		if err != nil {
			return nil, err
		}
		compiled[s.Type] = cs
	}
	return &Composer{rules: rules, specs: compiled}, nil
}

// Compose renders the instruction string for one request. The student's name
// is never interpolated; it only travels alongside for compliance checking.
func (c *Composer) Compose(req *assemble.GenerationRequest) (string, error) {
	spec, ok := c.specs[req.RecordType]
	if !ok {
		return "", fmt.Errorf("no prompt template for record type %q", req.RecordType.Label())
	}
	return spec.render(c.buildInput(req)), nil
}

func (c *Composer) buildInput(req *assemble.GenerationRequest) Input {
	in := Input{
		Preamble:          c.preamble(req.RecordType),
		Header:            c.header(req),
		Survey:            formatSurvey(req.Survey),
		Observations:      formatList(req.ObservationClauses),
		Notes:             req.TeacherNotes,
		Context:           req.AdditionalContext,
		EvaluationResults: req.EvaluationResults,
	}

	switch req.RecordType {
	case neis.SubjectProgress:
		in.Standards = formatStandards(req.Standards)
		in.Criteria = formatCriteria(req.Criteria)
		in.Example = exampleSubjectProgress
	case neis.CreativeActivity:
		in.Standards = formatStandards(req.Standards)
		in.Criteria = formatCriteria(req.Criteria)
		in.Example = exampleCreative
	case neis.BehaviorSummary:
		in.CoreValues = c.coreValuesLine()
		in.BehaviorContext = formatBehaviorContext(req.Behavior)
		in.Example = exampleBehavior
	}
	return in
}

// preamble reproduces the fixed NEIS rule constants. Values come from the
// injected rule set, not literals scattered in template text.
func (c *Composer) preamble(t neis.RecordType) string {
	var b strings.Builder
	b.WriteString("당신은 한국 초등학교 담임 교사를 돕는 생활기록부 작성 보조자입니다.\n")
	fmt.Fprintf(&b, "아래 자료를 바탕으로 '%s' 기록을 작성하세요.\n\n", t.Label())
	b.WriteString("다음 NEIS 작성 규칙을 반드시 지키세요.\n")
	fmt.Fprintf(&b, "1. 전체 길이는 %d자 이내로 작성할 것\n", c.rules.MaxLength)
	b.WriteString("2. 학생의 이름은 절대 포함하지 말 것\n")
	fmt.Fprintf(&b, "3. 모든 문장은 %s 형태의 명사형 어미로 끝낼 것", endingsForDisplay(c.rules))
	if t == neis.BehaviorSummary {
		b.WriteString("\n4. 각 문장이 나타내는 핵심 인성 요소를 괄호로 표기할 것 (예: (배려))")
	}
	return b.String()
}

func (c *Composer) coreValuesLine() string {
	labels := make([]string, 0, len(c.rules.CoreValues))
	for _, cv := range c.rules.CoreValues {
		labels = append(labels, cv.Label)
	}
	return "허용되는 핵심 인성 요소: " + strings.Join(labels, ", ")
}

func (c *Composer) header(req *assemble.GenerationRequest) string {
	var lines []string
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", label, value))
		}
	}
	if req.RecordType != neis.BehaviorSummary {
		add("교과", req.Subject)
	}
	add("학년", req.Grade)
	add("학기", req.Semester)
	add("단원", req.Unit)
	if req.RecordType == neis.BehaviorSummary && len(req.CoreValueIDs) > 0 {
		labels := make([]string, 0, len(req.CoreValueIDs))
		seen := make(map[string]bool)
		for _, id := range req.CoreValueIDs {
			label, ok := c.rules.CoreValueLabel(id)
			if !ok || seen[label] {
				continue
			}
			seen[label] = true
			labels = append(labels, label)
		}
		if len(labels) > 0 {
			lines = append(lines, "- 관찰된 핵심 인성 요소: "+strings.Join(labels, ", "))
		}
	}
	return strings.Join(lines, "\n")
}

func formatStandards(standards []assemble.AchievementStandard) string {
	var lines []string
	for i, s := range standards {
		content := strings.TrimSpace(s.Content)
		if content == "" {
			continue
		}
		if code := strings.TrimSpace(s.Code); code != "" {
			lines = append(lines, fmt.Sprintf("%d. [%s] %s", i+1, code, content))
		} else {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, content))
		}
	}
	return strings.Join(lines, "\n")
}

func formatCriteria(c assemble.EvaluationCriteria) string {
	if c.Empty() {
		return ""
	}
	var lines []string
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", label, value))
		}
	}
	add("매우잘함", c.Excellent)
	add("잘함", c.Good)
	add("보통", c.Satisfactory)
	add("노력요함", c.NeedsImprovement)
	return strings.Join(lines, "\n")
}

func formatSurvey(s assemble.SurveyAnswerSet) string {
	if s.Empty() {
		return ""
	}
	var lines []string
	if len(s.Choice) > 0 {
		lines = append(lines, "※ 선택형")
		for i, qa := range s.Choice {
			lines = append(lines, fmt.Sprintf("%d. %s → %s", i+1, qa.Question, qa.Answer))
		}
	}
	if len(s.ShortAnswer) > 0 {
		lines = append(lines, "※ 서술형")
		for i, qa := range s.ShortAnswer {
			lines = append(lines, fmt.Sprintf("%d. %s → %s", i+1, qa.Question, qa.Answer))
		}
	}
	return strings.Join(lines, "\n")
}

func formatBehaviorContext(b assemble.BehaviorContext) string {
	if b.Empty() {
		return ""
	}
	var lines []string
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", label, value))
		}
	}
	add("관찰 상황", b.ObservationContext)
	add("학급 활동", b.ClassActivities)
	add("특별한 일", b.SpecialEvents)
	return strings.Join(lines, "\n")
}

func formatList(items []string) string {
	var lines []string
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

// endingsForDisplay renders the suffix set without the duplicated
// trailing-dot variants, e.g. '함', '임', '됨', '있음', '없음'.
func endingsForDisplay(r neis.Rules) string {
	var parts []string
	seen := make(map[string]bool)
	for _, e := range r.Endings {
		base := strings.TrimSuffix(e, ".")
		if seen[base] {
			continue
		}
		seen[base] = true
		parts = append(parts, "'"+base+"'")
	}
	return strings.Join(parts, ", ")
}
