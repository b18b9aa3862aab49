package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/haneulclass/saengibu-backend/internal/assemble"
	"github.com/haneulclass/saengibu-backend/internal/batch"
	"github.com/haneulclass/saengibu-backend/internal/generation"
	"github.com/haneulclass/saengibu-backend/internal/logger"
	"github.com/haneulclass/saengibu-backend/internal/neis"
	"github.com/haneulclass/saengibu-backend/internal/observation"
	"github.com/haneulclass/saengibu-backend/internal/progress"
	"github.com/haneulclass/saengibu-backend/internal/repos"
	"github.com/haneulclass/saengibu-backend/internal/services"
	"github.com/haneulclass/saengibu-backend/internal/types"
)

// GenerateRecordRequest is the single-student generation body.
type GenerateRecordRequest struct {
	StudentName           string                        `json:"studentName"`
	ClassName             string                        `json:"className"`
	RecordType            neis.RecordType               `json:"recordType"`
	Subject               string                        `json:"subject,omitempty"`
	TeacherNotes          string                        `json:"teacherNotes,omitempty"`
	AdditionalContext     string                        `json:"additionalContext,omitempty"`
	ObservationContext    string                        `json:"observationContext,omitempty"`
	ClassActivities       string                        `json:"classActivities,omitempty"`
	SpecialEvents         string                        `json:"specialEvents,omitempty"`
	EvaluationPlans       []assemble.EvaluationContext  `json:"evaluationPlans,omitempty"`
	EvaluationResults     string                        `json:"evaluationResults,omitempty"`
	StudentResponse       *assemble.SurveyAnswerSet     `json:"studentResponse,omitempty"`
	ObservationRecords    []observation.Session         `json:"observationRecords,omitempty"`
	UseObservationRecords bool                          `json:"useObservationRecords"`
}

type validationPayload struct {
	IsValid        bool     `json:"isValid"`
	CharacterCount int      `json:"characterCount"`
	Issues         []string `json:"issues"`
}

type GenerateRecordResponse struct {
	Success    bool              `json:"success"`
	Content    string            `json:"content"`
	Validation validationPayload `json:"validation"`
}

// GenerateBatchRequest shares the generation inputs across a roster; teacher
// notes are shared, observation data is resolved per student.
type GenerateBatchRequest struct {
	GenerateRecordRequest
	Students []string `json:"students"`
}

type RecordHandler struct {
	record       *services.RecordService
	orchestrator *batch.Orchestrator
	runRepo      repos.BatchRunRepo
	bus          progress.Bus
	log          *logger.Logger
}

func NewRecordHandler(
	record *services.RecordService,
	orchestrator *batch.Orchestrator,
	runRepo repos.BatchRunRepo,
	bus progress.Bus,
	baseLog *logger.Logger,
) *RecordHandler {
	return &RecordHandler{
		record:       record,
		orchestrator: orchestrator,
		runRepo:      runRepo,
		bus:          bus,
		log:          baseLog.With("handler", "RecordHandler"),
	}
}

func (in *GenerateRecordRequest) params() assemble.Params {
	var evaluation *assemble.EvaluationContext
	if len(in.EvaluationPlans) > 0 {
		evaluation = pickEvaluationPlan(in.EvaluationPlans, in.Subject)
	}
	return assemble.Params{
		RecordType:        in.RecordType,
		StudentName:       in.StudentName,
		ClassName:         in.ClassName,
		Subject:           in.Subject,
		TeacherNotes:      in.TeacherNotes,
		AdditionalContext: in.AdditionalContext,
		EvaluationResults: in.EvaluationResults,
		Behavior: assemble.BehaviorContext{
			ObservationContext: in.ObservationContext,
			ClassActivities:    in.ClassActivities,
			SpecialEvents:      in.SpecialEvents,
		},
		Evaluation:      evaluation,
		Survey:          in.StudentResponse,
		Sessions:        in.ObservationRecords,
		UseObservations: in.UseObservationRecords,
	}
}

// pickEvaluationPlan prefers the plan whose subject matches the manually
// selected one; otherwise the first plan wins.
func pickEvaluationPlan(plans []assemble.EvaluationContext, subject string) *assemble.EvaluationContext {
	want := strings.TrimSpace(subject)
	if want != "" {
		for i := range plans {
			if strings.TrimSpace(plans[i].Subject) == want {
				return &plans[i]
			}
		}
	}
	return &plans[0]
}

// POST /api/records/generate
func (h *RecordHandler) Generate(c *gin.Context) {
	var in GenerateRecordRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondGenerationError(c, http.StatusBadRequest, err, "")
		return
	}

	outcome, err := h.record.Generate(c.Request.Context(), in.params())
	if err != nil {
		status, details := classifyGenerationError(err)
		RespondGenerationError(c, status, err, details)
		return
	}

	c.JSON(http.StatusOK, GenerateRecordResponse{
		Success: true,
		Content: outcome.Content,
		Validation: validationPayload{
			IsValid:        outcome.Validation.IsValid,
			CharacterCount: outcome.Validation.CharacterCount,
			Issues:         outcome.Validation.Issues(),
		},
	})
}

func classifyGenerationError(err error) (int, string) {
	var insufficient *assemble.InsufficientInputError
	if errors.As(err, &insufficient) {
		return http.StatusBadRequest, "입력 자료가 부족합니다"
	}
	var upstream *generation.UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusBadGateway, "생성 모델 호출에 실패했습니다"
	}
	if errors.Is(err, generation.ErrMalformedResponse) {
		return http.StatusBadGateway, "생성 모델 응답이 올바르지 않습니다"
	}
	return http.StatusInternalServerError, ""
}

// POST /api/records/generate-batch
func (h *RecordHandler) GenerateBatch(c *gin.Context) {
	var in GenerateBatchRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondGenerationError(c, http.StatusBadRequest, err, "")
		return
	}
	if len(in.Students) == 0 {
		RespondGenerationError(c, http.StatusBadRequest, errors.New("students is required"), "")
		return
	}

	var onProgress batch.ProgressFunc
	if h.bus != nil {
		onProgress = func(run *batch.Run, last batch.StudentResult) {
			_ = h.bus.Publish(c.Request.Context(), progress.Event{
				RunID:     run.ID.String(),
				Student:   last.Student,
				Status:    last.Status,
				Completed: run.Completed,
				Failed:    run.Failed,
				Total:     run.Total,
			})
		}
	}

	run, err := h.orchestrator.Run(c.Request.Context(), in.params(), in.Students, onProgress)
	if err != nil && !errors.Is(err, context.Canceled) {
		RespondGenerationError(c, http.StatusInternalServerError, err, "")
		return
	}

	h.persistRun(c.Request.Context(), run)

	c.JSON(http.StatusOK, gin.H{"success": true, "run": run})
}

func (h *RecordHandler) persistRun(ctx context.Context, run *batch.Run) {
	if h.runRepo == nil {
		return
	}
	results, err := json.Marshal(run.Results)
	if err != nil {
		h.log.Warn("marshal batch results failed", "run_id", run.ID.String(), "error", err)
		return
	}
	row := &types.BatchRun{
		ID:         run.ID,
		ClassName:  run.ClassName,
		RecordType: run.RecordType.Label(),
		Total:      run.Total,
		Completed:  run.Completed,
		Failed:     run.Failed,
		Results:    datatypes.JSON(results),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
	if _, err := h.runRepo.Create(ctx, nil, row); err != nil {
		h.log.Warn("persist batch run failed", "run_id", run.ID.String(), "error", err)
	}
}

// GET /api/records/batch-runs/:id
func (h *RecordHandler) GetBatchRun(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid run id"))
		return
	}
	row, err := h.runRepo.GetByID(c.Request.Context(), nil, runID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}
	if row == nil {
		RespondError(c, http.StatusNotFound, "not_found", errors.New("batch run not found"))
		return
	}
	RespondOK(c, gin.H{"run": row})
}

// GET /api/records/batch-runs/:id/export
func (h *RecordHandler) ExportBatchRun(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid run id"))
		return
	}
	row, err := h.runRepo.GetByID(c.Request.Context(), nil, runID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}
	if row == nil {
		RespondError(c, http.StatusNotFound, "not_found", errors.New("batch run not found"))
		return
	}

	run, err := runFromRow(row)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s.txt"`, run.ID.String()))
	c.Status(http.StatusOK)
	if err := batch.WriteExport(c.Writer, run); err != nil {
		h.log.Warn("batch export write failed", "run_id", run.ID.String(), "error", err)
	}
}

func runFromRow(row *types.BatchRun) (*batch.Run, error) {
	recordType, err := neis.ParseRecordType(row.RecordType)
	if err != nil {
		return nil, err
	}
	var results []batch.StudentResult
	if len(row.Results) > 0 {
		if err := json.Unmarshal(row.Results, &results); err != nil {
			return nil, err
		}
	}
	return &batch.Run{
		ID:         row.ID,
		ClassName:  row.ClassName,
		RecordType: recordType,
		Total:      row.Total,
		Completed:  row.Completed,
		Failed:     row.Failed,
		Results:    results,
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
	}, nil
}
