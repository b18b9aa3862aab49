// Package services wires the generation pipeline components into the
// operations the HTTP layer calls.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/haneulclass/saengibu-backend/internal/assemble"
	"github.com/haneulclass/saengibu-backend/internal/batch"
	"github.com/haneulclass/saengibu-backend/internal/compliance"
	"github.com/haneulclass/saengibu-backend/internal/logger"
	"github.com/haneulclass/saengibu-backend/internal/prompt"
	"github.com/haneulclass/saengibu-backend/internal/repos"
	"github.com/haneulclass/saengibu-backend/internal/types"
)

// RecordService runs the single-student pipeline: assemble, compose, call the
// model, validate. A compliance failure is not an error; the result travels
// back with its violations attached.
type RecordService struct {
	assembler *assemble.Assembler
	composer  *prompt.Composer
	generator batch.Generator
	validator *compliance.Validator
	logRepo   repos.GenerationLogRepo
	model     string
	log       *logger.Logger
}

func NewRecordService(
	assembler *assemble.Assembler,
	composer *prompt.Composer,
	generator batch.Generator,
	validator *compliance.Validator,
	logRepo repos.GenerationLogRepo,
	model string,
	baseLog *logger.Logger,
) *RecordService {
	return &RecordService{
		assembler: assembler,
		composer:  composer,
		generator: generator,
		validator: validator,
		logRepo:   logRepo,
		model:     model,
		log:       baseLog.With("service", "RecordService"),
	}
}

type GenerateOutcome struct {
	Content    string
	Validation compliance.Result
}

func (s *RecordService) Generate(ctx context.Context, params assemble.Params) (*GenerateOutcome, error) {
	req, err := s.assembler.Assemble(params)
	if err != nil {
		return nil, err
	}

	text, err := s.composer.Compose(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	content, err := s.generator.Generate(ctx, text)
	s.audit(ctx, nil, req.RecordType.Label(), text, content, err, time.Since(start))
	if err != nil {
		return nil, err
	}

	validation := s.validator.Check(content, req.StudentName, req.RecordType)
	if !validation.IsValid {
		s.log.Warn("generated record failed compliance",
			"record_type", req.RecordType.Label(),
			"violations", len(validation.Violations),
		)
	}

	return &GenerateOutcome{Content: content, Validation: validation}, nil
}

// audit writes the generation log row. Best effort: an audit failure never
// fails the request.
func (s *RecordService) audit(ctx context.Context, runID *uuid.UUID, recordType, promptText, content string, genErr error, elapsed time.Duration) {
	if s.logRepo == nil {
		return
	}
	row := &types.GenerationLog{
		RunID:       runID,
		RecordType:  recordType,
		Model:       s.model,
		PromptChars: len([]rune(promptText)),
		OutputChars: len([]rune(content)),
		Status:      "success",
		DurationMS:  elapsed.Milliseconds(),
	}
	if genErr != nil {
		row.Status = "error"
		row.Error = genErr.Error()
	}
	if _, err := s.logRepo.Create(ctx, nil, []*types.GenerationLog{row}); err != nil {
		s.log.Warn("generation audit log write failed", "error", err)
	}
}
