package model

import "time"

// OddsAPIGame the-odds-api /v4/sports/{sport}/odds 返回的单场比赛
type OddsAPIGame struct {
	ID           string             `json:"id"`
	SportKey     string             `json:"sport_key"`
	SportTitle   string             `json:"sport_title"`
	CommenceTime time.Time          `json:"commence_time"`
	HomeTeam     string             `json:"home_team"`
	AwayTeam     string             `json:"away_team"`
	Bookmakers   []OddsAPIBookmaker `json:"bookmakers"`
}

// OddsAPIBookmaker 书商
type OddsAPIBookmaker struct {
	Key        string          `json:"key"`
	Title      string          `json:"title"`
	LastUpdate time.Time       `json:"last_update"`
	Markets    []OddsAPIMarket `json:"markets"`
}

// OddsAPIMarket 盘口：spreads/totals/h2h
type OddsAPIMarket struct {
	Key      string           `json:"key"`
	Outcomes []OddsAPIOutcome `json:"outcomes"`
}

// OddsAPIOutcome 选项，h2h 没有 point
type OddsAPIOutcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}
