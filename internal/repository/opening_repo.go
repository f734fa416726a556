package repository

import (
	"context"
	"errors"

	"LineSync/internal/model"

	"gorm.io/gorm"
)

// OpeningLineRepository 开盘账本
type OpeningLineRepository interface {
	Append(ctx context.Context, line *model.OpeningLine) error
	// ReadFirst 返回最早捕获的记录；并发写入产生重复时以它为准。不存在时返回 nil, nil
	ReadFirst(ctx context.Context, gameID string) (*model.OpeningLine, error)
}

type openingLineRepository struct {
	db *gorm.DB
}

func NewOpeningLineRepository(db *gorm.DB) OpeningLineRepository {
	return &openingLineRepository{db: db}
}

func (r *openingLineRepository) Append(ctx context.Context, line *model.OpeningLine) error {
	line.ID = 0
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *openingLineRepository) ReadFirst(ctx context.Context, gameID string) (*model.OpeningLine, error) {
	var line model.OpeningLine
	err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("first_seen_at ASC, id ASC").
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}
