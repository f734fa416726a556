package service

import (
	"context"
	"time"

	"LineSync/internal/config"
	"LineSync/internal/model"
	"LineSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// LifecycleService 按开赛时间推进比赛状态，与运动无关
type LifecycleService struct {
	games  repository.GameRepository
	cfg    config.LifecycleConfig
	logger *logrus.Logger
	now    func() time.Time
}

func NewLifecycleService(games repository.GameRepository, cfg config.LifecycleConfig, logger *logrus.Logger) *LifecycleService {
	if cfg.ClosingSoonWindow <= 0 {
		cfg.ClosingSoonWindow = 30 * time.Minute
	}
	if cfg.CompletedAfter <= 0 {
		cfg.CompletedAfter = 4 * time.Hour
	}
	if cfg.ArchivedAfter <= 0 {
		cfg.ArchivedAfter = 7 * 24 * time.Hour
	}
	return &LifecycleService{games: games, cfg: cfg, logger: logger, now: time.Now}
}

type transition struct {
	to     string
	filter repository.GameFilter
}

// Run 依次执行 closing_soon、completed、archived 三条规则。单场失败计数后继续
func (s *LifecycleService) Run(ctx context.Context) model.LifecycleSummary {
	var summary model.LifecycleSummary
	now := s.now().UTC()
	soon := now.Add(s.cfg.ClosingSoonWindow)
	completedBefore := now.Add(-s.cfg.CompletedAfter)
	archivedBefore := now.Add(-s.cfg.ArchivedAfter)

	rules := []transition{
		{
			to: model.GameStatusClosingSoon,
			filter: repository.GameFilter{
				Statuses:      []string{model.GameStatusUpcoming},
				StartAfter:    &now,
				StartNotAfter: &soon,
			},
		},
		{
			to: model.GameStatusCompleted,
			filter: repository.GameFilter{
				Statuses:    []string{model.GameStatusUpcoming, model.GameStatusClosingSoon, model.GameStatusInProgress},
				StartBefore: &completedBefore,
			},
		},
		{
			to: model.GameStatusArchived,
			filter: repository.GameFilter{
				Statuses:    []string{model.GameStatusCompleted},
				StartBefore: &archivedBefore,
			},
		},
	}

	for _, rule := range rules {
		moved, failed := s.apply(ctx, rule, now)
		summary.Errors += failed
		switch rule.to {
		case model.GameStatusClosingSoon:
			summary.ClosingSoon = moved
		case model.GameStatusCompleted:
			summary.Completed = moved
		case model.GameStatusArchived:
			summary.Archived = moved
		}
	}

	if summary.ClosingSoon+summary.Completed+summary.Archived+summary.Errors > 0 {
		s.logger.WithFields(logrus.Fields{
			"closing_soon": summary.ClosingSoon,
			"completed":    summary.Completed,
			"archived":     summary.Archived,
			"errors":       summary.Errors,
		}).Info("生命周期推进完成")
	}
	return summary
}

// apply 整行复制后只改 status 与刷新时间，作为新版本追加
func (s *LifecycleService) apply(ctx context.Context, rule transition, now time.Time) (moved, failed int) {
	games, _, err := s.games.ListCurrent(ctx, rule.filter, 0, 0)
	if err != nil {
		s.logger.WithError(err).WithField("to", rule.to).Warn("查询待推进比赛失败")
		return 0, 1
	}
	for _, g := range games {
		if model.GameStatusRank(rule.to) <= model.GameStatusRank(g.Status) {
			continue
		}
		next := *g
		next.Status = rule.to
		next.UpdatedAt = now
		if err := s.games.AppendVersion(ctx, &next); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"game_id": g.GameID,
				"from":    g.Status,
				"to":      rule.to,
			}).Warn("推进比赛状态失败")
			failed++
			continue
		}
		moved++
	}
	return moved, failed
}
