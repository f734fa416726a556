package model

// MarketLines 某一盘口的开盘/当前值
type MarketLines struct {
	OpenLine      float64 `json:"open_line"`
	CurrentLine   float64 `json:"current_line"`
	OpenOddsSideA int     `json:"open_odds_side_a"` // 主队/大分
	CurrentSideA  int     `json:"current_side_a"`
	OpenOddsSideB int     `json:"open_odds_side_b"` // 客队/小分
	CurrentSideB  int     `json:"current_side_b"`
	BetPctSideA   float64 `json:"bet_pct_side_a"`
	MoneyPctSideA float64 `json:"money_pct_side_a"`
}

// SignalInput 信号计算入参（已完成开盘/当前/公众分布的合并）
type SignalInput struct {
	Sport     string      `json:"sport"`
	Spread    MarketLines `json:"spread"`
	Total     MarketLines `json:"total"`
	Moneyline MarketLines `json:"moneyline"`
}

// SignalSet 每个盘口每一边的三类信号强度（0-100）
type SignalSet struct {
	SpreadHomePublicRespect int `json:"spread_home_public_respect"`
	SpreadHomeVegasBacked   int `json:"spread_home_vegas_backed"`
	SpreadHomeWhaleRespect  int `json:"spread_home_whale_respect"`
	SpreadAwayPublicRespect int `json:"spread_away_public_respect"`
	SpreadAwayVegasBacked   int `json:"spread_away_vegas_backed"`
	SpreadAwayWhaleRespect  int `json:"spread_away_whale_respect"`

	TotalOverPublicRespect  int `json:"total_over_public_respect"`
	TotalOverVegasBacked    int `json:"total_over_vegas_backed"`
	TotalOverWhaleRespect   int `json:"total_over_whale_respect"`
	TotalUnderPublicRespect int `json:"total_under_public_respect"`
	TotalUnderVegasBacked   int `json:"total_under_vegas_backed"`
	TotalUnderWhaleRespect  int `json:"total_under_whale_respect"`

	MLHomePublicRespect int `json:"ml_home_public_respect"`
	MLHomeVegasBacked   int `json:"ml_home_vegas_backed"`
	MLHomeWhaleRespect  int `json:"ml_home_whale_respect"`
	MLAwayPublicRespect int `json:"ml_away_public_respect"`
	MLAwayVegasBacked   int `json:"ml_away_vegas_backed"`
	MLAwayWhaleRespect  int `json:"ml_away_whale_respect"`
}
