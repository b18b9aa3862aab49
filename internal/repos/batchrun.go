package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haneulclass/saengibu-backend/internal/logger"
	"github.com/haneulclass/saengibu-backend/internal/types"
)

type BatchRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.BatchRun) (*types.BatchRun, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.BatchRun, error)
}

type batchRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBatchRunRepo(db *gorm.DB, baseLog *logger.Logger) BatchRunRepo {
	repoLog := baseLog.With("repo", "BatchRunRepo")
	return &batchRunRepo{db: db, log: repoLog}
}

func (r *batchRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.BatchRun) (*types.BatchRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if run == nil {
		return nil, errors.New("run is nil")
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *batchRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.BatchRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var run types.BatchRun
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}
