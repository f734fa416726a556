package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"LineSync/internal/model"
	"LineSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// ErrGameNotFound 比赛不存在
var ErrGameNotFound = errors.New("game not found")

// GameQueryService 面向展示层的比赛查询服务，只读各比赛的最新版本
type GameQueryService struct {
	games     repository.GameRepository
	openings  repository.OpeningLineRepository
	snapshots repository.SnapshotRepository
	logger    *logrus.Logger
}

func NewGameQueryService(repos *repository.Repositories, logger *logrus.Logger) *GameQueryService {
	return &GameQueryService{
		games:     repos.Games,
		openings:  repos.Openings,
		snapshots: repos.Snapshots,
		logger:    logger,
	}
}

// LineView 一组盘口（当前或开盘）
type LineView struct {
	Spread          float64 `json:"spread"`
	Total           float64 `json:"total"`
	HomeML          int     `json:"home_ml"`
	AwayML          int     `json:"away_ml"`
	HomeSpreadJuice *int    `json:"home_spread_juice"`
	AwaySpreadJuice *int    `json:"away_spread_juice"`
	OverJuice       *int    `json:"over_juice"`
	UnderJuice      *int    `json:"under_juice"`
}

// PublicView 公众投注分布（主队/大分视角）
type PublicView struct {
	SpreadHomeBetPct   float64 `json:"spread_home_bet_pct"`
	SpreadHomeMoneyPct float64 `json:"spread_home_money_pct"`
	MLHomeBetPct       float64 `json:"ml_home_bet_pct"`
	MLHomeMoneyPct     float64 `json:"ml_home_money_pct"`
	TotalOverBetPct    float64 `json:"total_over_bet_pct"`
	TotalOverMoneyPct  float64 `json:"total_over_money_pct"`
}

// GameSummary 列表页单场比赛
type GameSummary struct {
	GameID         string          `json:"game_id"`
	Sport          string          `json:"sport"`
	Status         string          `json:"status"`
	GameTime       int64           `json:"game_time"` // 开赛时间戳（毫秒）
	HomeTeam       string          `json:"home_team"`
	AwayTeam       string          `json:"away_team"`
	HomeTeamID     int64           `json:"home_team_id"`
	AwayTeamID     int64           `json:"away_team_id"`
	Current        LineView        `json:"current"`
	Opening        LineView        `json:"opening"`
	OpeningSource  string          `json:"opening_source"`
	Public         PublicView      `json:"public"`
	Signals        json.RawMessage `json:"signals,omitempty"`
	BookmakerCount int             `json:"bookmaker_count"`
	UpdatedAt      int64           `json:"updated_at"`
}

// GameListResult 列表返回
type GameListResult struct {
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int64         `json:"total"`
	Items    []GameSummary `json:"items"`
}

// GameListFilter 列表筛选，status 为空时不过滤
type GameListFilter struct {
	Sport  string
	Status string
}

// GameDetail 单场详情：当前行、开盘账本与最近快照
type GameDetail struct {
	Game      GameSummary           `json:"game"`
	Ledger    *model.OpeningLine    `json:"opening_ledger,omitempty"`
	Snapshots []*model.OddsSnapshot `json:"snapshots"`
}

// ListGames 按条件分页返回比赛列表（按开赛时间升序）
func (s *GameQueryService) ListGames(ctx context.Context, filter GameListFilter, page, pageSize int) (*GameListResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 20
	}
	gf := repository.GameFilter{Sport: filter.Sport}
	if filter.Status != "" {
		gf.Statuses = []string{filter.Status}
	}
	games, total, err := s.games.ListCurrent(ctx, gf, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("查询比赛列表失败: %w", err)
	}
	items := make([]GameSummary, 0, len(games))
	for _, g := range games {
		items = append(items, toSummary(g))
	}
	return &GameListResult{Page: page, PageSize: pageSize, Total: total, Items: items}, nil
}

// GetGameDetail gameID 为 sport_赔率源ID
func (s *GameQueryService) GetGameDetail(ctx context.Context, gameID string, snapshotLimit int) (*GameDetail, error) {
	g, err := s.games.ReadLatest(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("查询比赛失败: %w", err)
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	detail := &GameDetail{Game: toSummary(g), Snapshots: []*model.OddsSnapshot{}}

	ledger, err := s.openings.ReadFirst(ctx, g.ExternalID)
	if err != nil {
		s.logger.WithError(err).WithField("game_id", gameID).Warn("读取开盘账本失败")
	} else {
		detail.Ledger = ledger
	}

	snaps, err := s.snapshots.ListByGame(ctx, g.ExternalID, snapshotLimit)
	if err != nil {
		s.logger.WithError(err).WithField("game_id", gameID).Warn("读取赔率快照失败")
	} else if snaps != nil {
		detail.Snapshots = snaps
	}
	return detail, nil
}

func toSummary(g *model.Game) GameSummary {
	sum := GameSummary{
		GameID:     g.GameID,
		Sport:      g.Sport,
		Status:     g.Status,
		GameTime:   g.GameTime.UnixMilli(),
		HomeTeam:   g.HomeTeam,
		AwayTeam:   g.AwayTeam,
		HomeTeamID: g.HomeTeamID,
		AwayTeamID: g.AwayTeamID,
		Current: LineView{
			Spread:          g.Spread,
			Total:           g.Total,
			HomeML:          g.HomeML,
			AwayML:          g.AwayML,
			HomeSpreadJuice: intPtr(g.HomeSpreadJuice),
			AwaySpreadJuice: intPtr(g.AwaySpreadJuice),
			OverJuice:       intPtr(g.OverJuice),
			UnderJuice:      intPtr(g.UnderJuice),
		},
		Opening: LineView{
			Spread:          g.OpeningSpread,
			Total:           g.OpeningTotal,
			HomeML:          g.OpeningHomeML,
			AwayML:          g.OpeningAwayML,
			HomeSpreadJuice: g.OpeningHomeSpreadJuice,
			AwaySpreadJuice: g.OpeningAwaySpreadJuice,
			OverJuice:       g.OpeningOverJuice,
			UnderJuice:      g.OpeningUnderJuice,
		},
		OpeningSource: g.OpeningSource,
		Public: PublicView{
			SpreadHomeBetPct:   g.PublicSpreadHomeBetPct,
			SpreadHomeMoneyPct: g.PublicSpreadHomeMoneyPct,
			MLHomeBetPct:       g.PublicMLHomeBetPct,
			MLHomeMoneyPct:     g.PublicMLHomeMoneyPct,
			TotalOverBetPct:    g.PublicTotalOverBetPct,
			TotalOverMoneyPct:  g.PublicTotalOverMoneyPct,
		},
		BookmakerCount: g.BookmakerCount,
		UpdatedAt:      g.UpdatedAt.UnixMilli(),
	}
	if len(g.Signals) > 0 {
		sum.Signals = json.RawMessage(g.Signals)
	}
	return sum
}
