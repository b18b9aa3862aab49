package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ObservationSession is the persisted form of one keyword-observation session.
// The per-student observations are stored as the session's JSON payload;
// sessions are immutable once saved — an edit creates a new row.
type ObservationSession struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClassID     string         `gorm:"column:class_id;not null;index" json:"class_id"`
	SessionDate time.Time      `gorm:"column:session_date;not null;index" json:"session_date"`
	Subject     string         `gorm:"column:subject" json:"subject,omitempty"`
	LessonTopic string         `gorm:"column:lesson_topic" json:"lesson_topic,omitempty"`
	Students    datatypes.JSON `gorm:"type:jsonb;column:students" json:"students_observations"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ObservationSession) TableName() string { return "observation_session" }
