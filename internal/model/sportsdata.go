package model

// SplitsScheduleGame sportsdata.io 赛程中的一场比赛（ScoresByDate / GamesByDate）
type SplitsScheduleGame struct {
	GameID       int64  `json:"GameID"`
	ScoreID      int64  `json:"ScoreID"`
	GlobalGameID int64  `json:"GlobalGameID"`
	Season       int    `json:"Season"`
	Status       string `json:"Status"`
	DateTime     string `json:"DateTime"`
	Day          string `json:"Day"`
	HomeTeam     string `json:"HomeTeam"`
	AwayTeam     string `json:"AwayTeam"`
	HomeTeamName string `json:"HomeTeamName"`
	AwayTeamName string `json:"AwayTeamName"`
}

// SplitsGame BettingSplitsByScoreId / BettingSplitsByGameId 返回体
type SplitsGame struct {
	ScoreID             int64                `json:"ScoreId"`
	GameID              int64                `json:"GameId"`
	HomeTeam            string               `json:"HomeTeam"`
	AwayTeam            string               `json:"AwayTeam"`
	Date                string               `json:"Date"`
	BettingMarketSplits []BettingMarketSplit `json:"BettingMarketSplits"`
}

// BettingMarketSplit 单个盘口类型的分布
type BettingMarketSplit struct {
	BettingMarketID int64          `json:"BettingMarketID"`
	BettingBetType  string         `json:"BettingBetType"`
	BettingPeriod   string         `json:"BettingPeriodType"`
	BettingSplits   []BettingSplit `json:"BettingSplits"`
}

// BettingSplit 某一边的投注/资金占比，来源可能显式返回 null
type BettingSplit struct {
	BettingOutcomeType string   `json:"BettingOutcomeType"`
	BetPercentage      *float64 `json:"BetPercentage"`
	MoneyPercentage    *float64 `json:"MoneyPercentage"`
}
