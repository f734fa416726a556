package repository

import (
	"context"
	"errors"
	"time"

	"LineSync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameRepository 比赛行仓储。只追加不更新，读取时按 game_id 取最新版本
type GameRepository interface {
	AppendVersion(ctx context.Context, g *model.Game) error
	// ReadLatest 不存在时返回 nil, nil
	ReadLatest(ctx context.Context, gameID string) (*model.Game, error)
	// ListCurrent 在各比赛的最新版本上筛选
	ListCurrent(ctx context.Context, filter GameFilter, page, pageSize int) ([]*model.Game, int64, error)
}

// GameFilter 比赛筛选（均作用于最新版本）
type GameFilter struct {
	Sport         string
	Statuses      []string
	StartAfter    *time.Time // game_time >
	StartNotAfter *time.Time // game_time <=
	StartBefore   *time.Time // game_time <
}

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) AppendVersion(ctx context.Context, g *model.Game) error {
	g.ID = 0
	g.VersionID = uuid.NewString()
	if g.UpdatedAt.IsZero() {
		g.UpdatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gameRepository) ReadLatest(ctx context.Context, gameID string) (*model.Game, error) {
	var g model.Game
	err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("updated_at DESC, id DESC").
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gameRepository) ListCurrent(ctx context.Context, filter GameFilter, page, pageSize int) ([]*model.Game, int64, error) {
	if page <= 0 {
		page = 1
	}
	db := r.current(ctx)
	if filter.Sport != "" {
		db = db.Where("sport = ?", filter.Sport)
	}
	if len(filter.Statuses) > 0 {
		db = db.Where("status IN ?", filter.Statuses)
	}
	if filter.StartAfter != nil {
		db = db.Where("game_time > ?", *filter.StartAfter)
	}
	if filter.StartNotAfter != nil {
		db = db.Where("game_time <= ?", *filter.StartNotAfter)
	}
	if filter.StartBefore != nil {
		db = db.Where("game_time < ?", *filter.StartBefore)
	}
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []*model.Game
	q := db.Order("game_time ASC, game_id ASC")
	if pageSize > 0 {
		q = q.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// current 每个 game_id 的最新版本
func (r *gameRepository) current(ctx context.Context) *gorm.DB {
	latest := r.db.WithContext(ctx).Model(&model.Game{}).
		Select("DISTINCT ON (game_id) *").
		Order("game_id, updated_at DESC, id DESC")
	return r.db.WithContext(ctx).Table("(?) AS cur", latest)
}
