package types

import (
	"time"

	"github.com/google/uuid"
)

// GenerationLog is a per-call audit row for upstream model invocations. The
// prompt itself is not stored, only its size, so no student data lands in the
// log table.
type GenerationLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RunID       *uuid.UUID `gorm:"type:uuid;column:run_id;index" json:"run_id,omitempty"`
	RecordType  string     `gorm:"column:record_type;not null" json:"record_type"`
	Model       string     `gorm:"column:model;not null" json:"model"`
	PromptChars int        `gorm:"column:prompt_chars;not null" json:"prompt_chars"`
	OutputChars int        `gorm:"column:output_chars;not null" json:"output_chars"`
	Status      string     `gorm:"column:status;not null;index" json:"status"` // success|error
	Error       string     `gorm:"column:error" json:"error,omitempty"`
	DurationMS  int64      `gorm:"column:duration_ms;not null" json:"duration_ms"`
	CreatedAt   time.Time  `gorm:"not null;default:now();index" json:"created_at"`
}

func (GenerationLog) TableName() string { return "generation_log" }
