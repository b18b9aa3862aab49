package assemble

import (
	"github.com/haneulclass/saengibu-backend/internal/neis"
)

type AchievementStandard struct {
	Code    string `json:"code,omitempty"`
	Content string `json:"content"`
}

// EvaluationCriteria holds the 4-level rubric descriptions from the
// evaluation plan.
type EvaluationCriteria struct {
	Excellent        string `json:"excellent,omitempty"`
	Good             string `json:"good,omitempty"`
	Satisfactory     string `json:"satisfactory,omitempty"`
	NeedsImprovement string `json:"needsImprovement,omitempty"`
}

func (c EvaluationCriteria) Empty() bool {
	return c.Excellent == "" && c.Good == "" && c.Satisfactory == "" && c.NeedsImprovement == ""
}

// EvaluationContext is the evaluation-plan excerpt supplied by the surrounding
// system. Read-only to the pipeline.
type EvaluationContext struct {
	Subject   string                `json:"subject,omitempty"`
	Grade     string                `json:"grade,omitempty"`
	Semester  string                `json:"semester,omitempty"`
	Unit      string                `json:"unit,omitempty"`
	Standards []AchievementStandard `json:"achievementStandards,omitempty"`
	Criteria  EvaluationCriteria    `json:"evaluationCriteria,omitempty"`
}

type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SurveyAnswerSet is a student's self-assessment survey. Optional; generation
// must succeed with an empty set.
type SurveyAnswerSet struct {
	Subject     string `json:"subject,omitempty"`
	Choice      []QA   `json:"multipleChoice,omitempty"`
	ShortAnswer []QA   `json:"shortAnswer,omitempty"`
}

func (s SurveyAnswerSet) Empty() bool {
	return len(s.Choice) == 0 && len(s.ShortAnswer) == 0
}

// BehaviorContext carries the extra observation fields used only for
// 행동특성 및 종합의견 records.
type BehaviorContext struct {
	ObservationContext string `json:"observationContext,omitempty"`
	ClassActivities    string `json:"classActivities,omitempty"`
	SpecialEvents      string `json:"specialEvents,omitempty"`
}

func (b BehaviorContext) Empty() bool {
	return b.ObservationContext == "" && b.ClassActivities == "" && b.SpecialEvents == ""
}

// GenerationRequest is the normalized input to prompt composition. The student
// name is carried for exclusion-checking only and is never interpolated into
// the rendered prompt.
type GenerationRequest struct {
	RecordType  neis.RecordType
	StudentName string
	ClassName   string

	Subject  string
	Grade    string
	Semester string
	Unit     string

	Standards []AchievementStandard
	Criteria  EvaluationCriteria

	Survey            SurveyAnswerSet
	TeacherNotes      string
	AdditionalContext string
	EvaluationResults string
	Behavior          BehaviorContext

	// ObservationClauses are the aggregator-derived sentences, in order.
	ObservationClauses []string

	// CoreValueIDs are the selected core-value keyword identifiers (internal
	// ids or labels), used for 행동특성 records.
	CoreValueIDs []string

	// Warnings are non-fatal data-quality notes collected while assembling.
	Warnings []string
}
