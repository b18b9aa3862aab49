package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BatchRun is the persisted outcome of one batch generation run. Per-student
// results are stored as JSON in input order.
type BatchRun struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClassName  string         `gorm:"column:class_name;not null;index" json:"class_name"`
	RecordType string         `gorm:"column:record_type;not null" json:"record_type"`
	Total      int            `gorm:"column:total;not null" json:"total"`
	Completed  int            `gorm:"column:completed;not null" json:"completed"`
	Failed     int            `gorm:"column:failed;not null" json:"failed"`
	Results    datatypes.JSON `gorm:"type:jsonb;column:results" json:"results"`
	StartedAt  time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt time.Time      `gorm:"column:finished_at;not null" json:"finished_at"`
	CreatedAt  time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (BatchRun) TableName() string { return "batch_run" }
