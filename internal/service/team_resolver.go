package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"LineSync/internal/config"
	"LineSync/internal/model"
	"LineSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// ErrTeamIDRangeExhausted 运动的球队ID区间已用完
var ErrTeamIDRangeExhausted = errors.New("team id range exhausted")

// TeamResolver 球队名称 -> 球队ID。精确匹配、（大学体育）首词模糊匹配、自动建档
type TeamResolver struct {
	repo   repository.TeamRepository
	logger *logrus.Logger

	mu    sync.Mutex
	cache map[string]*model.Team // sport|name
}

func NewTeamResolver(repo repository.TeamRepository, logger *logrus.Logger) *TeamResolver {
	return &TeamResolver{
		repo:   repo,
		logger: logger,
		cache:  make(map[string]*model.Team),
	}
}

// Reset 清空本轮缓存
func (r *TeamResolver) Reset() {
	r.mu.Lock()
	r.cache = make(map[string]*model.Team)
	r.mu.Unlock()
}

// Resolve 返回球队，必要时在该运动的ID区间内新建
func (r *TeamResolver) Resolve(ctx context.Context, sport *config.SportConfig, name string) (*model.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s球队名称为空", sport.Sport)
	}
	key := sport.Sport + "|" + name

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.cache[key]; ok {
		return t, nil
	}

	team, err := r.repo.FindByName(ctx, sport.Sport, name)
	if err != nil {
		return nil, fmt.Errorf("查询球队%s失败: %w", name, err)
	}
	if team == nil && sport.FuzzyTeamNames {
		team, err = r.repo.FindByWord(ctx, sport.Sport, firstWord(name))
		if err != nil {
			return nil, fmt.Errorf("模糊查询球队%s失败: %w", name, err)
		}
		if team != nil {
			r.logger.WithFields(logrus.Fields{
				"sport":   sport.Sport,
				"name":    name,
				"matched": team.Name,
			}).Info("球队名称模糊匹配")
		}
	}
	if team == nil {
		team, err = r.provision(ctx, sport, name)
		if err != nil {
			return nil, err
		}
	}
	r.cache[key] = team
	return team, nil
}

// provision 新ID = max(区间内已有ID ∪ {floor}) + 1
func (r *TeamResolver) provision(ctx context.Context, sport *config.SportConfig, name string) (*model.Team, error) {
	floor, ceiling := sport.TeamIDFloor, sport.TeamIDCeiling()
	maxID, ok, err := r.repo.MaxTeamID(ctx, sport.Sport, floor, ceiling)
	if err != nil {
		return nil, fmt.Errorf("查询%s球队ID上界失败: %w", sport.Sport, err)
	}
	if !ok || maxID < floor {
		maxID = floor
	}
	next := maxID + 1
	if next >= ceiling {
		return nil, fmt.Errorf("%s: %w", sport.Sport, ErrTeamIDRangeExhausted)
	}
	team := &model.Team{
		TeamID:       next,
		Sport:        sport.Sport,
		Name:         name,
		Abbreviation: GenerateAbbreviation(name),
	}
	if err := r.repo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("新建球队%s失败: %w", name, err)
	}
	r.logger.WithFields(logrus.Fields{
		"sport":   sport.Sport,
		"team_id": team.TeamID,
		"name":    name,
		"abbr":    team.Abbreviation,
	}).Info("自动新建球队")
	return team, nil
}

// GenerateAbbreviation 取最后一个词的前三个字母大写
func GenerateAbbreviation(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}
	last := []rune(words[len(words)-1])
	if len(last) > 3 {
		last = last[:3]
	}
	return strings.ToUpper(string(last))
}

func firstWord(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}
