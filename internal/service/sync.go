package service

import (
	"context"
	"encoding/json"
	"time"

	"LineSync/internal/config"
	"LineSync/internal/interfaces"
	"LineSync/internal/model"
	"LineSync/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// SyncService 定时同步入口：逐个运动拉赔率、算共识、落开盘、匹配公众分布、写比赛行，最后推进生命周期
type SyncService struct {
	cfg       *config.Config
	odds      interfaces.OddsProvider
	matcher   *PublicBettingMatcher
	games     repository.GameRepository
	snapshots repository.SnapshotRepository
	detector  *OpeningDetector
	teams     *TeamResolver
	rows      *GameMaterializer
	lifecycle *LifecycleService
	logger    *logrus.Logger
	now       func() time.Time
}

func NewSyncService(
	cfg *config.Config,
	odds interfaces.OddsProvider,
	matcher *PublicBettingMatcher,
	repos *repository.Repositories,
	signals interfaces.SignalCalculator,
	logger *logrus.Logger,
) *SyncService {
	return &SyncService{
		cfg:       cfg,
		odds:      odds,
		matcher:   matcher,
		games:     repos.Games,
		snapshots: repos.Snapshots,
		detector:  NewOpeningDetector(repos.Openings, logger),
		teams:     NewTeamResolver(repos.Teams, logger),
		rows:      NewGameMaterializer(signals),
		lifecycle: NewLifecycleService(repos.Games, cfg.Lifecycle, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// gameOutcome 单场处理结果
type gameOutcome struct {
	processed bool
	isNew     bool
	captured  bool
	matched   bool
	errors    int
}

// Run 执行一轮同步。单个运动或单场失败只记入汇总，不影响整体成功
func (s *SyncService) Run(ctx context.Context) *model.RunSummary {
	start := s.now()
	summary := &model.RunSummary{
		Success:      true,
		RunID:        uuid.NewString(),
		SnapshotTime: start.UTC(),
		Results:      []model.SportRunResult{},
	}
	s.teams.Reset()

	sports := s.cfg.ActiveSports()
	for i := range sports {
		if ctx.Err() != nil {
			s.logger.WithError(ctx.Err()).Warn("同步被取消，跳过剩余运动")
			break
		}
		res := s.syncSport(ctx, summary.RunID, &sports[i], summary.SnapshotTime)
		summary.TotalGamesProcessed += res.GamesProcessed
		summary.Results = append(summary.Results, res)
	}

	summary.Lifecycle = s.lifecycle.Run(ctx)
	summary.Duration = s.now().Sub(start).Round(time.Millisecond).String()

	s.logger.WithFields(logrus.Fields{
		"run_id":    summary.RunID,
		"processed": summary.TotalGamesProcessed,
		"duration":  summary.Duration,
	}).Info("本轮同步完成")
	return summary
}

func (s *SyncService) syncSport(ctx context.Context, runID string, sport *config.SportConfig, snapshotTime time.Time) model.SportRunResult {
	res := model.SportRunResult{Sport: sport.Sport, Status: model.SportStatusSuccess}
	log := s.logger.WithFields(logrus.Fields{"sport": sport.Sport, "run_id": runID})

	games, err := s.odds.FetchOdds(ctx, sport)
	if err != nil {
		log.WithError(err).Error("拉取赔率失败")
		res.Status = model.SportStatusError
		res.Error = err.Error()
		return res
	}
	if len(games) == 0 {
		log.Info("当前没有可同步的比赛")
		res.Status = model.SportStatusNoGames
		return res
	}

	table := EmptyMatchTable(sport.Sport)
	if s.matcher != nil {
		t, stats, err := s.matcher.BuildTable(ctx, sport)
		if err != nil {
			log.WithError(err).Warn("投注分布不可用，按中性分布继续")
		}
		if t != nil {
			table = t
		}
		log.WithFields(logrus.Fields{
			"scheduled": stats.Scheduled,
			"fetched":   stats.Fetched,
			"failed":    stats.Failed,
			"keys":      table.Len(),
		}).Debug("投注分布查找表就绪")
	}

	for i := range games {
		out := s.processGame(ctx, runID, sport, &games[i], table, snapshotTime)
		if out.processed {
			res.GamesProcessed++
		}
		if out.isNew {
			res.NewGames++
		}
		if out.captured {
			res.OpeningsCaptured++
		}
		if out.matched {
			res.GamesMatched++
		}
		res.Errors += out.errors
	}

	log.WithFields(logrus.Fields{
		"processed": res.GamesProcessed,
		"new":       res.NewGames,
		"openings":  res.OpeningsCaptured,
		"matched":   res.GamesMatched,
		"errors":    res.Errors,
	}).Info("运动同步完成")
	return res
}

// processGame 共识 -> 球队 -> 开盘 -> 快照 -> 比赛行。快照与比赛行相互独立
func (s *SyncService) processGame(ctx context.Context, runID string, sport *config.SportConfig, game *model.OddsAPIGame, table *MatchTable, now time.Time) gameOutcome {
	var out gameOutcome
	log := s.logger.WithFields(logrus.Fields{
		"sport":   sport.Sport,
		"game_id": game.ID,
		"matchup": game.AwayTeam + " @ " + game.HomeTeam,
	})

	consensus, ok := BuildConsensus(game)
	if !ok {
		log.Debug("没有书商报价，跳过")
		return out
	}

	key := GameKey(sport.Sport, game.ID)
	prev, err := s.games.ReadLatest(ctx, key)
	if err != nil {
		log.WithError(err).Warn("读取比赛当前版本失败")
		out.errors++
		return out
	}
	if prev != nil && (prev.Status == model.GameStatusCompleted || prev.Status == model.GameStatusArchived) {
		return out
	}
	out.processed = true

	home, homeErr := s.teams.Resolve(ctx, sport, game.HomeTeam)
	away, awayErr := s.teams.Resolve(ctx, sport, game.AwayTeam)

	decision, openErr := s.detector.Detect(ctx, sport.Sport, game.ID, consensus, now)
	if openErr != nil {
		log.WithError(openErr).Warn("开盘检测失败")
		out.errors++
	} else {
		out.captured = decision.Captured
	}

	public := table.Resolve(game.HomeTeam, game.AwayTeam)
	out.matched = public.Matched

	if err := s.snapshots.Append(ctx, buildSnapshot(runID, sport.Sport, game, consensus, public, out.captured, now)); err != nil {
		log.WithError(err).Warn("写入赔率快照失败")
		out.errors++
	}

	if homeErr != nil || awayErr != nil {
		log.WithFields(logrus.Fields{"home_err": homeErr, "away_err": awayErr}).Warn("球队解析失败，本轮不写比赛行")
		out.errors++
		return out
	}
	if openErr != nil {
		// 账本状态未知时不写比赛行，下一轮重新判断
		return out
	}

	row, err := s.rows.Build(&GameRowInput{
		Sport:     sport.Sport,
		Game:      game,
		Consensus: consensus,
		Opening:   decision,
		Previous:  prev,
		HomeTeam:  home,
		AwayTeam:  away,
		Public:    public,
		Now:       now,
	})
	if err != nil {
		log.WithError(err).Warn("组装比赛行失败")
		out.errors++
		return out
	}
	if err := s.games.AppendVersion(ctx, row); err != nil {
		log.WithError(err).Warn("写入比赛行失败")
		out.errors++
		return out
	}
	out.isNew = prev == nil
	return out
}

func buildSnapshot(runID, sport string, game *model.OddsAPIGame, c *model.ConsensusQuote, public model.PublicBetting, isOpening bool, now time.Time) *model.OddsSnapshot {
	return &model.OddsSnapshot{
		RunID:           runID,
		GameID:          game.ID,
		Sport:           sport,
		SnapshotTime:    now,
		HomeTeam:        game.HomeTeam,
		AwayTeam:        game.AwayTeam,
		GameTime:        game.CommenceTime.UTC(),
		Spread:          c.Spread,
		HomeSpreadJuice: c.HomeSpreadJuice,
		AwaySpreadJuice: c.AwaySpreadJuice,
		Total:           c.Total,
		OverJuice:       c.OverJuice,
		UnderJuice:      c.UnderJuice,
		HomeML:          c.HomeML,
		AwayML:          c.AwayML,
		PublicMatched:   public.Matched,
		SplitsGameID:    public.SplitsGameID,
		SpreadBetPct:    public.Spread.BetPct,
		SpreadMoneyPct:  public.Spread.MoneyPct,
		MLBetPct:        public.Moneyline.BetPct,
		MLMoneyPct:      public.Moneyline.MoneyPct,
		TotalBetPct:     public.Total.BetPct,
		TotalMoneyPct:   public.Total.MoneyPct,
		IsOpening:       isOpening,
		BookmakerCount:  c.BookmakerCount,
		AllBooksSpreads: jsonOf(c.AllBooksSpreads),
		AllBooksTotals:  jsonOf(c.AllBooksTotals),
		AllBooksML:      jsonOf(c.AllBooksML),
	}
}

func jsonOf(v any) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
