package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"LineSync/internal/cache"
	"LineSync/internal/config"
	"LineSync/internal/interfaces"
	"LineSync/internal/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// 赛程里已结束或取消的比赛不再查询投注分布
var finishedScheduleStatus = map[string]bool{
	"final":     true,
	"f/ot":      true,
	"f/so":      true,
	"canceled":  true,
	"cancelled": true,
	"postponed": true,
	"forfeit":   true,
}

// MatchStats 一次构建查找表的统计
type MatchStats struct {
	Scheduled int
	Lookups   int
	Fetched   int
	Failed    int
}

// PublicBettingMatcher 拉取投注分布并构建只读查找表。单场失败互不影响
type PublicBettingMatcher struct {
	provider    interfaces.SplitsProvider
	cache       cache.SplitsCache
	maxLookups  int
	concurrency int
	logger      *logrus.Logger
	now         func() time.Time
}

func NewPublicBettingMatcher(provider interfaces.SplitsProvider, splitsCache cache.SplitsCache, syncCfg config.SyncConfig, logger *logrus.Logger) *PublicBettingMatcher {
	if splitsCache == nil {
		splitsCache = cache.NopSplitsCache{}
	}
	concurrency := syncCfg.SplitsConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return &PublicBettingMatcher{
		provider:    provider,
		cache:       splitsCache,
		maxLookups:  syncCfg.SplitsMaxLookups,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

// BuildTable 构建某运动的查找表。拿不到赛程时返回空表和错误，调用方按中性分布继续
func (m *PublicBettingMatcher) BuildTable(ctx context.Context, sport *config.SportConfig) (*MatchTable, MatchStats, error) {
	var stats MatchStats
	if m.provider == nil || sport.SplitsPath == "" {
		return EmptyMatchTable(sport.Sport), stats, nil
	}

	now := m.now().UTC()
	days := sport.SplitsWindowDays
	if days <= 0 {
		days = 1
	}
	schedule, err := m.provider.FetchSchedule(ctx, sport, now, now.AddDate(0, 0, days-1))
	if err != nil {
		return EmptyMatchTable(sport.Sport), stats, err
	}

	builder := NewMatchTableBuilder(sport.Sport)
	games := make([]model.SplitsScheduleGame, 0, len(schedule))
	for _, sg := range schedule {
		builder.LearnTeam(sg.HomeTeamName, sg.HomeTeam)
		builder.LearnTeam(sg.AwayTeamName, sg.AwayTeam)
		if finishedScheduleStatus[strings.ToLower(sg.Status)] || splitsLookupID(sport, &sg) == 0 {
			continue
		}
		games = append(games, sg)
	}
	stats.Scheduled = len(games)
	sort.SliceStable(games, func(i, j int) bool { return games[i].DateTime < games[j].DateTime })
	if m.maxLookups > 0 && len(games) > m.maxLookups {
		games = games[:m.maxLookups]
	}
	stats.Lookups = len(games)

	results := make([]*model.SplitsGame, len(games))
	var failed int64
	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for i := range games {
		i := i
		id := splitsLookupID(sport, &games[i])
		g.Go(func() error {
			splits, err := m.fetchOne(ctx, sport, id)
			if err != nil {
				if !errors.Is(err, interfaces.ErrNoData) {
					atomic.AddInt64(&failed, 1)
					m.logger.WithError(err).WithFields(logrus.Fields{
						"sport":     sport.Sport,
						"splits_id": id,
					}).Warn("拉取投注分布失败")
				}
				return nil
			}
			results[i] = splits
			return nil
		})
	}
	_ = g.Wait()
	stats.Failed = int(failed)

	for i, splits := range results {
		if splits == nil {
			continue
		}
		stats.Fetched++
		entry := EntryFromSplits(splits, splitsLookupID(sport, &games[i]))
		if entry.HomeAbbr == "" {
			entry.HomeAbbr = games[i].HomeTeam
		}
		if entry.AwayAbbr == "" {
			entry.AwayAbbr = games[i].AwayTeam
		}
		builder.Add(entry, games[i].HomeTeamName, games[i].AwayTeamName)
	}

	m.logger.WithFields(logrus.Fields{
		"sport":     sport.Sport,
		"scheduled": stats.Scheduled,
		"lookups":   stats.Lookups,
		"fetched":   stats.Fetched,
		"failed":    stats.Failed,
	}).Info("投注分布查找表构建完成")
	return builder.Build(), stats, nil
}

func (m *PublicBettingMatcher) fetchOne(ctx context.Context, sport *config.SportConfig, id int64) (*model.SplitsGame, error) {
	if cached, ok := m.cache.Get(ctx, sport.Sport, id); ok {
		return cached, nil
	}
	splits, err := m.provider.FetchSplits(ctx, sport, id)
	if err != nil {
		return nil, err
	}
	m.cache.Set(ctx, sport.Sport, id, splits)
	return splits, nil
}

// splitsLookupID NFL 接口按 ScoreID 查询，其余按 GameID
func splitsLookupID(sport *config.SportConfig, g *model.SplitsScheduleGame) int64 {
	if strings.Contains(strings.ToLower(sport.SplitsEndpoint), "scoreid") {
		if g.ScoreID != 0 {
			return g.ScoreID
		}
	}
	if g.GameID != 0 {
		return g.GameID
	}
	return g.ScoreID
}
