package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/haneulclass/saengibu-backend/internal/logger"
	"github.com/haneulclass/saengibu-backend/internal/observation"
	"github.com/haneulclass/saengibu-backend/internal/repos"
	"github.com/haneulclass/saengibu-backend/internal/types"
)

// CreateSessionRequest is the observation session persistence payload. The
// pipeline consumes sessions; it does not own them.
type CreateSessionRequest struct {
	ClassID     string                           `json:"class_id"`
	SessionDate string                           `json:"session_date"` // YYYY-MM-DD
	Subject     string                           `json:"subject,omitempty"`
	LessonTopic string                           `json:"lesson_topic,omitempty"`
	Students    []observation.StudentObservation `json:"students_observations"`
}

type ObservationHandler struct {
	repo repos.ObservationSessionRepo
	log  *logger.Logger
}

func NewObservationHandler(repo repos.ObservationSessionRepo, baseLog *logger.Logger) *ObservationHandler {
	return &ObservationHandler{
		repo: repo,
		log:  baseLog.With("handler", "ObservationHandler"),
	}
}

// POST /api/observations/sessions
func (h *ObservationHandler) CreateSession(c *gin.Context) {
	var in CreateSessionRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if in.ClassID == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("class_id is required"))
		return
	}
	sessionDate, err := time.Parse("2006-01-02", in.SessionDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("session_date must be YYYY-MM-DD"))
		return
	}

	students, err := json.Marshal(in.Students)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	session := &types.ObservationSession{
		ClassID:     in.ClassID,
		SessionDate: sessionDate,
		Subject:     in.Subject,
		LessonTopic: in.LessonTopic,
		Students:    datatypes.JSON(students),
	}
	created, err := h.repo.Create(c.Request.Context(), nil, session)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": created})
}

// GET /api/observations/sessions/:id
func (h *ObservationHandler) GetSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid session id"))
		return
	}
	session, err := h.repo.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}
	if session == nil {
		RespondError(c, http.StatusNotFound, "not_found", errors.New("session not found"))
		return
	}
	RespondOK(c, gin.H{"session": session})
}

// GET /api/observations/classes/:classId/sessions
func (h *ObservationHandler) ListClassSessions(c *gin.Context) {
	classID := c.Param("classId")
	if classID == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("classId is required"))
		return
	}
	sessions, err := h.repo.ListByClassID(c.Request.Context(), nil, classID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}
	RespondOK(c, gin.H{"sessions": sessions})
}
