package service

import (
	"encoding/json"
	"fmt"
	"time"

	"LineSync/internal/interfaces"
	"LineSync/internal/model"

	"gorm.io/datatypes"
)

// GameRowInput 组装一版比赛行所需的全部输入
type GameRowInput struct {
	Sport     string
	Game      *model.OddsAPIGame
	Consensus *model.ConsensusQuote
	Opening   *OpeningDecision
	Previous  *model.Game // 该比赛当前最新版本，首次出现为 nil
	HomeTeam  *model.Team
	AwayTeam  *model.Team
	Public    model.PublicBetting
	Now       time.Time
}

// GameMaterializer 合并共识、开盘、公众分布并调用信号计算器
type GameMaterializer struct {
	signals interfaces.SignalCalculator
}

func NewGameMaterializer(signals interfaces.SignalCalculator) *GameMaterializer {
	return &GameMaterializer{signals: signals}
}

// Build 返回新版本比赛行（未落库）
func (m *GameMaterializer) Build(in *GameRowInput) (*model.Game, error) {
	c := in.Consensus
	row := &model.Game{
		GameID:          GameKey(in.Sport, in.Game.ID),
		Sport:           in.Sport,
		ExternalID:      in.Game.ID,
		GameTime:        in.Game.CommenceTime.UTC(),
		HomeTeamID:      in.HomeTeam.TeamID,
		AwayTeamID:      in.AwayTeam.TeamID,
		HomeTeam:        in.Game.HomeTeam,
		AwayTeam:        in.Game.AwayTeam,
		Spread:          c.Spread,
		Total:           c.Total,
		HomeML:          c.HomeML,
		AwayML:          c.AwayML,
		HomeSpreadJuice: c.HomeSpreadJuice,
		AwaySpreadJuice: c.AwaySpreadJuice,
		OverJuice:       c.OverJuice,
		UnderJuice:      c.UnderJuice,
		BookmakerCount:  c.BookmakerCount,
		Status:          model.GameStatusUpcoming,
		UpdatedAt:       in.Now,
	}
	if in.Previous != nil {
		row.Status = in.Previous.Status
		row.SplitsGameID = in.Previous.SplitsGameID
		row.CreatedAt = in.Previous.CreatedAt
	}

	applyOpeningLines(row, in)
	applyOpeningJuices(row, in)

	p := in.Public
	if p.Matched && p.SplitsGameID != 0 {
		row.SplitsGameID = p.SplitsGameID
	}
	row.PublicSpreadHomeBetPct = p.Spread.BetPct
	row.PublicSpreadHomeMoneyPct = p.Spread.MoneyPct
	row.PublicMLHomeBetPct = p.Moneyline.BetPct
	row.PublicMLHomeMoneyPct = p.Moneyline.MoneyPct
	row.PublicTotalOverBetPct = p.Total.BetPct
	row.PublicTotalOverMoneyPct = p.Total.MoneyPct

	if m.signals != nil {
		set := m.signals.Calculate(SignalInputFor(row))
		data, err := json.Marshal(set)
		if err != nil {
			return nil, fmt.Errorf("序列化信号失败: %w", err)
		}
		row.Signals = datatypes.JSON(data)
	}
	return row, nil
}

// applyOpeningLines 本轮捕获 > 开盘账本 > 上一版本 > 当前共识（标记为 consensus_fallback）
func applyOpeningLines(row *model.Game, in *GameRowInput) {
	c := in.Consensus
	switch {
	case in.Opening != nil && in.Opening.Captured:
		row.OpeningSpread, row.OpeningTotal = c.Spread, c.Total
		row.OpeningHomeML, row.OpeningAwayML = c.HomeML, c.AwayML
		row.OpeningSource = model.OpeningSourceCaptured
	case in.Opening != nil && in.Opening.Record != nil:
		r := in.Opening.Record
		row.OpeningSpread, row.OpeningTotal = r.OpeningSpread, r.OpeningTotal
		row.OpeningHomeML, row.OpeningAwayML = r.OpeningMLHome, r.OpeningMLAway
		row.OpeningSource = model.OpeningSourceLedger
	case in.Previous.HasOpening():
		prev := in.Previous
		row.OpeningSpread, row.OpeningTotal = prev.OpeningSpread, prev.OpeningTotal
		row.OpeningHomeML, row.OpeningAwayML = prev.OpeningHomeML, prev.OpeningAwayML
		row.OpeningSource = prev.OpeningSource
		if row.OpeningSource == "" {
			row.OpeningSource = model.OpeningSourceGameRow
		}
	default:
		row.OpeningSpread, row.OpeningTotal = c.Spread, c.Total
		row.OpeningHomeML, row.OpeningAwayML = c.HomeML, c.AwayML
		row.OpeningSource = model.OpeningSourceConsensusFallback
	}
}

// applyOpeningJuices 水位沿用同一优先级，但 -110 视为未记录，之后出现的非默认水位可以补上
func applyOpeningJuices(row *model.Game, in *GameRowInput) {
	captured := in.Opening != nil && in.Opening.Captured
	c := in.Consensus
	var prev *model.Game
	if in.Previous != nil {
		prev = in.Previous
	} else {
		prev = &model.Game{}
	}
	row.OpeningHomeSpreadJuice = pickJuice(captured, c.HomeSpreadJuice, prev.OpeningHomeSpreadJuice)
	row.OpeningAwaySpreadJuice = pickJuice(captured, c.AwaySpreadJuice, prev.OpeningAwaySpreadJuice)
	row.OpeningOverJuice = pickJuice(captured, c.OverJuice, prev.OpeningOverJuice)
	row.OpeningUnderJuice = pickJuice(captured, c.UnderJuice, prev.OpeningUnderJuice)
}

func pickJuice(captured bool, current int, recorded *int) *int {
	recordable := current != model.DefaultJuice && current != 0
	switch {
	case captured && recordable:
		return intPtr(current)
	case recorded != nil && *recorded != model.DefaultJuice:
		return intPtr(*recorded)
	case recordable:
		return intPtr(current)
	default:
		return nil
	}
}

// SignalInputFor 由比赛行生成信号计算入参，未记录的开盘水位按 -110 处理
func SignalInputFor(row *model.Game) *model.SignalInput {
	return &model.SignalInput{
		Sport: row.Sport,
		Spread: model.MarketLines{
			OpenLine:      row.OpeningSpread,
			CurrentLine:   row.Spread,
			OpenOddsSideA: juiceOrSentinel(row.OpeningHomeSpreadJuice),
			CurrentSideA:  row.HomeSpreadJuice,
			OpenOddsSideB: juiceOrSentinel(row.OpeningAwaySpreadJuice),
			CurrentSideB:  row.AwaySpreadJuice,
			BetPctSideA:   row.PublicSpreadHomeBetPct,
			MoneyPctSideA: row.PublicSpreadHomeMoneyPct,
		},
		Total: model.MarketLines{
			OpenLine:      row.OpeningTotal,
			CurrentLine:   row.Total,
			OpenOddsSideA: juiceOrSentinel(row.OpeningOverJuice),
			CurrentSideA:  row.OverJuice,
			OpenOddsSideB: juiceOrSentinel(row.OpeningUnderJuice),
			CurrentSideB:  row.UnderJuice,
			BetPctSideA:   row.PublicTotalOverBetPct,
			MoneyPctSideA: row.PublicTotalOverMoneyPct,
		},
		Moneyline: model.MarketLines{
			OpenOddsSideA: row.OpeningHomeML,
			CurrentSideA:  row.HomeML,
			OpenOddsSideB: row.OpeningAwayML,
			CurrentSideB:  row.AwayML,
			BetPctSideA:   row.PublicMLHomeBetPct,
			MoneyPctSideA: row.PublicMLHomeMoneyPct,
		},
	}
}

// GameKey 比赛行主键：sport_赔率源ID
func GameKey(sport, externalID string) string {
	return sport + "_" + externalID
}

func juiceOrSentinel(v *int) int {
	if v == nil {
		return model.DefaultJuice
	}
	return *v
}

func intPtr(v int) *int {
	return &v
}
