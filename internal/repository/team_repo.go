package repository

import (
	"context"
	"errors"
	"strings"

	"LineSync/internal/model"

	"gorm.io/gorm"
)

// TeamRepository 球队仓储
type TeamRepository interface {
	// FindByName 运动内精确匹配，不存在返回 nil, nil
	FindByName(ctx context.Context, sport, name string) (*model.Team, error)
	// FindByWord 运动内按单词前缀/词边界子串匹配（大小写不敏感）
	FindByWord(ctx context.Context, sport, word string) (*model.Team, error)
	// MaxTeamID 返回 [floor, ceiling) 区间内最大 team_id，无记录时 ok=false
	MaxTeamID(ctx context.Context, sport string, floor, ceiling int64) (maxID int64, ok bool, err error)
	Create(ctx context.Context, team *model.Team) error
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) FindByName(ctx context.Context, sport, name string) (*model.Team, error) {
	var t model.Team
	err := r.db.WithContext(ctx).
		Where("sport = ? AND name = ?", sport, name).
		Order("id ASC").
		First(&t).Error
	return teamOrNil(&t, err)
}

func (r *teamRepository) FindByWord(ctx context.Context, sport, word string) (*model.Team, error) {
	w := escapeLike(strings.ToLower(strings.TrimSpace(word)))
	if w == "" {
		return nil, nil
	}
	var t model.Team
	err := r.db.WithContext(ctx).
		Where("sport = ? AND (LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(name) LIKE ? ESCAPE '\\')", sport, w+"%", "% "+w+"%").
		Order("id ASC").
		First(&t).Error
	return teamOrNil(&t, err)
}

func (r *teamRepository) MaxTeamID(ctx context.Context, sport string, floor, ceiling int64) (int64, bool, error) {
	var maxID *int64
	err := r.db.WithContext(ctx).Model(&model.Team{}).
		Where("sport = ? AND team_id >= ? AND team_id < ?", sport, floor, ceiling).
		Select("MAX(team_id)").
		Scan(&maxID).Error
	if err != nil {
		return 0, false, err
	}
	if maxID == nil {
		return 0, false, nil
	}
	return *maxID, true, nil
}

func (r *teamRepository) Create(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func teamOrNil(t *model.Team, err error) (*model.Team, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义 LIKE 通配符，名称里的 % 和 _ 按字面匹配
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
