// Package batch drives record generation across a class roster, one student
// at a time with a fixed delay between requests. The upstream model is rate
// limited, and no two students' requests may interleave.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/haneulclass/saengibu-backend/internal/assemble"
	"github.com/haneulclass/saengibu-backend/internal/compliance"
	"github.com/haneulclass/saengibu-backend/internal/logger"
	"github.com/haneulclass/saengibu-backend/internal/neis"
	"github.com/haneulclass/saengibu-backend/internal/prompt"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Generator is the narrow upstream contract the orchestrator depends on.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type StudentResult struct {
	Student    string             `json:"student"`
	Status     string             `json:"status"`
	Content    string             `json:"content,omitempty"`
	Validation *compliance.Result `json:"validation,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Run is the bookkeeping for one batch. Results are append-only and preserve
// input order; the struct is immutable once Finish has run.
type Run struct {
	ID         uuid.UUID       `json:"id"`
	ClassName  string          `json:"className"`
	RecordType neis.RecordType `json:"recordType"`
	Total      int             `json:"total"`
	Completed  int             `json:"completed"`
	Failed     int             `json:"failed"`
	Results    []StudentResult `json:"results"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
}

// ProgressFunc receives the run totals after each student completes.
type ProgressFunc func(run *Run, last StudentResult)

type Orchestrator struct {
	assembler *assemble.Assembler
	composer  *prompt.Composer
	generator Generator
	validator *compliance.Validator
	throttle  *Throttle
	log       *logger.Logger
}

func NewOrchestrator(
	assembler *assemble.Assembler,
	composer *prompt.Composer,
	generator Generator,
	validator *compliance.Validator,
	throttle *Throttle,
	baseLog *logger.Logger,
) *Orchestrator {
	var log *logger.Logger
	if baseLog != nil {
		log = baseLog.With("component", "BatchOrchestrator")
	}
	return &Orchestrator{
		assembler: assembler,
		composer:  composer,
		generator: generator,
		validator: validator,
		throttle:  throttle,
		log:       log,
	}
}

// Run processes students strictly in the supplied order. A failed student is
// recorded and never aborts the batch; cancellation stops before the next
// student but lets an in-flight upstream call finish. A non-compliant
// generation still counts as a completed student — the validation result
// travels with the content so a human can decide what to do.
func (o *Orchestrator) Run(ctx context.Context, shared assemble.Params, students []string, onProgress ProgressFunc) (*Run, error) {
	run := &Run{
		ID:         uuid.New(),
		ClassName:  shared.ClassName,
		RecordType: shared.RecordType,
		Total:      len(students),
		StartedAt:  time.Now().UTC(),
	}

	for i, student := range students {
		if err := ctx.Err(); err != nil {
			run.FinishedAt = time.Now().UTC()
			return run, err
		}

		result := o.generateOne(ctx, shared, student)
		run.Results = append(run.Results, result)
		if result.Status == StatusSuccess {
			run.Completed++
		} else {
			run.Failed++
		}
		if o.log != nil {
			o.log.Info("batch student finished",
				"run_id", run.ID.String(),
				"student_index", i,
				"status", result.Status,
			)
		}
		if onProgress != nil {
			onProgress(run, result)
		}

		if i < len(students)-1 {
			if err := o.throttle.Wait(ctx); err != nil {
				run.FinishedAt = time.Now().UTC()
				return run, err
			}
		}
	}

	run.FinishedAt = time.Now().UTC()
	return run, nil
}

func (o *Orchestrator) generateOne(ctx context.Context, shared assemble.Params, student string) StudentResult {
	params := shared
	params.StudentName = student

	req, err := o.assembler.Assemble(params)
	if err != nil {
		return StudentResult{Student: student, Status: StatusError, Error: err.Error()}
	}

	text, err := o.composer.Compose(req)
	if err != nil {
		return StudentResult{Student: student, Status: StatusError, Error: err.Error()}
	}

	content, err := o.generator.Generate(ctx, text)
	if err != nil {
		return StudentResult{Student: student, Status: StatusError, Error: err.Error()}
	}

	validation := o.validator.Check(content, student, req.RecordType)
	return StudentResult{
		Student:    student,
		Status:     StatusSuccess,
		Content:    content,
		Validation: &validation,
	}
}
