package model

// DefaultJuice 未报价时的默认水位
const DefaultJuice = -110

// NeutralPct 未匹配到投注分布时的中性百分比
const NeutralPct = 50.0

// BookQuote 单个书商对一场比赛的报价，缺失盘口按默认值填充
type BookQuote struct {
	Bookmaker       string  `json:"bookmaker"`
	HasSpread       bool    `json:"has_spread"`
	Spread          float64 `json:"spread"` // 主队让分
	HomeSpreadJuice int     `json:"home_spread_juice"`
	AwaySpreadJuice int     `json:"away_spread_juice"`
	HasTotal        bool    `json:"has_total"`
	Total           float64 `json:"total"`
	OverJuice       int     `json:"over_juice"`
	UnderJuice      int     `json:"under_juice"`
	HasMoneyline    bool    `json:"has_moneyline"`
	HomeML          int     `json:"home_ml"`
	AwayML          int     `json:"away_ml"`
}

// NewBookQuote 返回默认值填充的报价
func NewBookQuote(bookmaker string) BookQuote {
	return BookQuote{
		Bookmaker:       bookmaker,
		HomeSpreadJuice: DefaultJuice,
		AwaySpreadJuice: DefaultJuice,
		OverJuice:       DefaultJuice,
		UnderJuice:      DefaultJuice,
	}
}

// MLPair 独赢两边
type MLPair struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// ConsensusQuote 多书商中位数共识
type ConsensusQuote struct {
	Spread          float64 `json:"spread"`
	HomeSpreadJuice int     `json:"home_spread_juice"`
	AwaySpreadJuice int     `json:"away_spread_juice"`
	Total           float64 `json:"total"`
	OverJuice       int     `json:"over_juice"`
	UnderJuice      int     `json:"under_juice"`
	HomeML          int     `json:"home_ml"`
	AwayML          int     `json:"away_ml"`
	BookmakerCount  int     `json:"bookmaker_count"`

	// 各书商明细
	AllBooksSpreads map[string]float64 `json:"all_books_spreads"`
	AllBooksTotals  map[string]float64 `json:"all_books_totals"`
	AllBooksML      map[string]MLPair  `json:"all_books_ml"`
}

// IsValidOpening 至少一项盘口非默认值才可作为开盘
func (c *ConsensusQuote) IsValidOpening() bool {
	if c == nil {
		return false
	}
	return c.Spread != 0 || c.Total != 0 || (c.HomeML != 0 && c.AwayML != 0)
}

// MarketSplit 单个盘口的投注/资金占比（主队或大分视角）
type MarketSplit struct {
	BetPct   float64 `json:"bet_pct"`
	MoneyPct float64 `json:"money_pct"`
}

// PublicBettingEntry 一场比赛的公众投注分布，缺失的盘口为 nil
type PublicBettingEntry struct {
	SplitsGameID int64        `json:"splits_game_id"`
	HomeAbbr     string       `json:"home_abbr"`
	AwayAbbr     string       `json:"away_abbr"`
	Spread       *MarketSplit `json:"spread,omitempty"`
	Moneyline    *MarketSplit `json:"moneyline,omitempty"`
	Total        *MarketSplit `json:"total,omitempty"`
}

// PublicBetting 已套用中性默认值的结果
type PublicBetting struct {
	Matched      bool        `json:"matched"`
	MatchTier    string      `json:"match_tier,omitempty"`
	SplitsGameID int64       `json:"splits_game_id"`
	Spread       MarketSplit `json:"spread"`
	Moneyline    MarketSplit `json:"moneyline"`
	Total        MarketSplit `json:"total"`
}

// NeutralPublicBetting 全部盘口 50/50
func NeutralPublicBetting() PublicBetting {
	neutral := MarketSplit{BetPct: NeutralPct, MoneyPct: NeutralPct}
	return PublicBetting{Spread: neutral, Moneyline: neutral, Total: neutral}
}

// Resolve 逐盘口套用默认值
func (e *PublicBettingEntry) Resolve(tier string) PublicBetting {
	out := NeutralPublicBetting()
	if e == nil {
		return out
	}
	out.Matched = true
	out.MatchTier = tier
	out.SplitsGameID = e.SplitsGameID
	if e.Spread != nil {
		out.Spread = *e.Spread
	}
	if e.Moneyline != nil {
		out.Moneyline = *e.Moneyline
	}
	if e.Total != nil {
		out.Total = *e.Total
	}
	return out
}
