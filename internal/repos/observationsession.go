package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haneulclass/saengibu-backend/internal/logger"
	"github.com/haneulclass/saengibu-backend/internal/types"
)

type ObservationSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *types.ObservationSession) (*types.ObservationSession, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ObservationSession, error)
	ListByClassID(ctx context.Context, tx *gorm.DB, classID string) ([]*types.ObservationSession, error)
}

type observationSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewObservationSessionRepo(db *gorm.DB, baseLog *logger.Logger) ObservationSessionRepo {
	repoLog := baseLog.With("repo", "ObservationSessionRepo")
	return &observationSessionRepo{db: db, log: repoLog}
}

func (r *observationSessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.ObservationSession) (*types.ObservationSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if session == nil {
		return nil, errors.New("session is nil")
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (r *observationSessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ObservationSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var session types.ObservationSession
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *observationSessionRepo) ListByClassID(ctx context.Context, tx *gorm.DB, classID string) ([]*types.ObservationSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var sessions []*types.ObservationSession
	if err := transaction.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("session_date DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
