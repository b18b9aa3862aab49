// Package assemble merges evaluation plans, survey answers, teacher notes and
// observation-derived clauses into one normalized GenerationRequest.
package assemble

import (
	"fmt"
	"strings"

	"github.com/haneulclass/saengibu-backend/internal/neis"
	"github.com/haneulclass/saengibu-backend/internal/observation"
)

// FallbackSubject is used when no subject can be resolved for a
// 교과학습발달상황 record.
const FallbackSubject = "전과목"

// InsufficientInputError reports a violated minimum-input precondition. It is
// raised before any network call and is never retried.
type InsufficientInputError struct {
	Reason string
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("insufficient input: %s", e.Reason)
}

// Params is everything a caller can hand to Assemble. All fields except
// RecordType and StudentName are optional.
type Params struct {
	RecordType  neis.RecordType
	StudentName string
	ClassName   string

	// Subject is the manually selected subject, lowest-precedence source.
	Subject string

	TeacherNotes      string
	AdditionalContext string
	EvaluationResults string
	Behavior          BehaviorContext

	Evaluation *EvaluationContext
	Survey     *SurveyAnswerSet

	Sessions        []observation.Session
	UseObservations bool
}

type Assembler struct {
	aggregator *observation.Aggregator
	rules      neis.Rules
}

func NewAssembler(aggregator *observation.Aggregator, rules neis.Rules) *Assembler {
	return &Assembler{aggregator: aggregator, rules: rules}
}

// Assemble builds a GenerationRequest. Missing optional inputs never fail;
// only the minimum-input invariant does: teacher notes or at least one
// observation selection must be present, and 행동특성 records additionally
// need at least one core-value selection.
func (a *Assembler) Assemble(p Params) (*GenerationRequest, error) {
	if !p.RecordType.Valid() {
		return nil, fmt.Errorf("invalid record type")
	}
	if strings.TrimSpace(p.StudentName) == "" {
		return nil, &InsufficientInputError{Reason: "학생 이름이 없음"}
	}

	req := &GenerationRequest{
		RecordType:        p.RecordType,
		StudentName:       strings.TrimSpace(p.StudentName),
		ClassName:         strings.TrimSpace(p.ClassName),
		TeacherNotes:      strings.TrimSpace(p.TeacherNotes),
		AdditionalContext: strings.TrimSpace(p.AdditionalContext),
		EvaluationResults: strings.TrimSpace(p.EvaluationResults),
		Behavior:          p.Behavior,
	}

	if p.Evaluation != nil {
		req.Grade = strings.TrimSpace(p.Evaluation.Grade)
		req.Semester = strings.TrimSpace(p.Evaluation.Semester)
		req.Unit = strings.TrimSpace(p.Evaluation.Unit)
		req.Standards = p.Evaluation.Standards
		req.Criteria = p.Evaluation.Criteria
	}
	if p.Survey != nil {
		req.Survey = *p.Survey
	}

	req.Subject = a.resolveSubject(p)

	selections := 0
	if p.UseObservations {
		for _, session := range p.Sessions {
			obs, ok := session.StudentByName(req.StudentName)
			if !ok {
				continue
			}
			selections += len(obs.SelectedKeywords)
			res := a.aggregator.Clauses(obs)
			req.ObservationClauses = append(req.ObservationClauses, res.Clauses...)
			req.Warnings = append(req.Warnings, res.Warnings...)
			for _, sel := range obs.SelectedKeywords {
				if a.rules.IsCoreValue(sel.KeywordID) {
					req.CoreValueIDs = append(req.CoreValueIDs, sel.KeywordID)
				}
			}
		}
	}

	if req.TeacherNotes == "" && selections == 0 {
		return nil, &InsufficientInputError{
			Reason: "교사 메모 또는 관찰 기록 중 하나는 반드시 있어야 함",
		}
	}
	if p.RecordType == neis.BehaviorSummary && len(req.CoreValueIDs) == 0 {
		return nil, &InsufficientInputError{
			Reason: "행동특성 기록에는 핵심 인성 요소 선택이 1개 이상 필요함",
		}
	}

	return req, nil
}

// resolveSubject applies the fixed precedence for 교과학습발달상황:
// evaluation-plan subject, then survey subject, then the manually selected
// subject, then the 전과목 fallback. Other record types take the first
// non-empty source without a fallback.
func (a *Assembler) resolveSubject(p Params) string {
	var evalSubject, surveySubject string
	if p.Evaluation != nil {
		evalSubject = strings.TrimSpace(p.Evaluation.Subject)
	}
	if p.Survey != nil {
		surveySubject = strings.TrimSpace(p.Survey.Subject)
	}
	manual := strings.TrimSpace(p.Subject)

	for _, candidate := range []string{evalSubject, surveySubject, manual} {
		if candidate != "" {
			return candidate
		}
	}
	if p.RecordType == neis.SubjectProgress {
		return FallbackSubject
	}
	return ""
}
