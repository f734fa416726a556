package repository

import (
	"context"

	"LineSync/internal/model"

	"gorm.io/gorm"
)

// SnapshotRepository 赔率快照仓储（只追加）
type SnapshotRepository interface {
	Append(ctx context.Context, s *model.OddsSnapshot) error
	ListByGame(ctx context.Context, gameID string, limit int) ([]*model.OddsSnapshot, error)
}

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Append(ctx context.Context, s *model.OddsSnapshot) error {
	s.ID = 0
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *snapshotRepository) ListByGame(ctx context.Context, gameID string, limit int) ([]*model.OddsSnapshot, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var list []*model.OddsSnapshot
	if err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("snapshot_time DESC, id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
