package observation

import "time"

// SelectedKeyword is one checkbox a teacher ticked for a student during an
// observation session. Many selections reference one catalog entry.
type SelectedKeyword struct {
	KeywordID  string    `json:"keyword_id"`
	CategoryID string    `json:"category_id"`
	Intensity  int       `json:"intensity"` // 1 | 2 | 3
	Context    string    `json:"context,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type StudentObservation struct {
	StudentName      string            `json:"student_name"`
	StudentNumber    int               `json:"student_number,omitempty"`
	SelectedKeywords []SelectedKeyword `json:"selected_keywords"`
	AdditionalNotes  string            `json:"additional_notes,omitempty"`
	OverallRating    int               `json:"overall_rating,omitempty"` // 1..5
}

// Session is one teacher's batch of keyword-based notes for a class on a given
// date and lesson. Sessions are immutable once saved; edits create a new one.
type Session struct {
	ID          string               `json:"id"`
	ClassID     string               `json:"class_id"`
	Date        time.Time            `json:"session_date"`
	Subject     string               `json:"subject,omitempty"`
	LessonTopic string               `json:"lesson_topic,omitempty"`
	Students    []StudentObservation `json:"students_observations"`
}

// StudentByName returns the observation for one student in the session, if
// present.
func (s Session) StudentByName(name string) (StudentObservation, bool) {
	for _, obs := range s.Students {
		if obs.StudentName == name {
			return obs, true
		}
	}
	return StudentObservation{}, false
}
