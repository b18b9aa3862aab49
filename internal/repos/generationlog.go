package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haneulclass/saengibu-backend/internal/logger"
	"github.com/haneulclass/saengibu-backend/internal/types"
)

type GenerationLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logs []*types.GenerationLog) ([]*types.GenerationLog, error)
}

type generationLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationLogRepo(db *gorm.DB, baseLog *logger.Logger) GenerationLogRepo {
	repoLog := baseLog.With("repo", "GenerationLogRepo")
	return &generationLogRepo{db: db, log: repoLog}
}

func (r *generationLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.GenerationLog) ([]*types.GenerationLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(logs) == 0 {
		return []*types.GenerationLog{}, nil
	}
	for _, l := range logs {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
