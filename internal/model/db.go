package model

import (
	"time"

	"gorm.io/datatypes"
)

// 比赛生命周期状态
const (
	GameStatusUpcoming    = "upcoming"
	GameStatusClosingSoon = "closing_soon"
	GameStatusInProgress  = "in_progress"
	GameStatusCompleted   = "completed"
	GameStatusArchived    = "archived"
)

// 开盘值来源
const (
	OpeningSourceCaptured          = "captured"           // 本轮首次捕获
	OpeningSourceLedger            = "ledger"             // 开盘账本
	OpeningSourceGameRow           = "game_row"           // 沿用上一版本比赛行
	OpeningSourceConsensusFallback = "consensus_fallback" // 无任何开盘记录，临时使用当前共识
)

// GameStatusRank 状态推进顺序，只允许向更大的值推进
func GameStatusRank(status string) int {
	switch status {
	case GameStatusUpcoming:
		return 1
	case GameStatusClosingSoon:
		return 2
	case GameStatusInProgress:
		return 3
	case GameStatusCompleted:
		return 4
	case GameStatusArchived:
		return 5
	default:
		return 0
	}
}

// Game 比赛行。追加写：每次刷新插入新版本，读取时按 game_id 取 updated_at 最新的一条
type Game struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	VersionID    string    `gorm:"column:version_id;type:varchar(64);not null;comment:版本UUID" json:"version_id"`
	GameID       string    `gorm:"column:game_id;type:varchar(128);not null;index:idx_games_game_id_updated,priority:1;comment:比赛键 sport_赔率源ID" json:"game_id"`
	Sport        string    `gorm:"column:sport;type:varchar(16);not null;index;comment:运动代码" json:"sport"`
	ExternalID   string    `gorm:"column:external_id;type:varchar(64);not null;comment:赔率源比赛ID" json:"external_id"`
	SplitsGameID int64     `gorm:"column:splits_game_id;type:bigint;default:0;comment:投注分布源比赛ID" json:"splits_game_id"`
	GameTime     time.Time `gorm:"column:game_time;type:timestamp;not null;comment:开赛时间" json:"game_time"`
	HomeTeamID   int64     `gorm:"column:home_team_id;type:bigint;not null;comment:主队ID" json:"home_team_id"`
	AwayTeamID   int64     `gorm:"column:away_team_id;type:bigint;not null;comment:客队ID" json:"away_team_id"`
	HomeTeam     string    `gorm:"column:home_team;type:varchar(128);comment:主队名称" json:"home_team"`
	AwayTeam     string    `gorm:"column:away_team;type:varchar(128);comment:客队名称" json:"away_team"`

	// 当前共识
	Spread          float64 `gorm:"column:spread;type:numeric(6,2);default:0;comment:主队让分" json:"spread"`
	Total           float64 `gorm:"column:total;type:numeric(6,2);default:0;comment:大小分" json:"total"`
	HomeML          int     `gorm:"column:home_ml;type:int;default:0;comment:主队独赢" json:"home_ml"`
	AwayML          int     `gorm:"column:away_ml;type:int;default:0;comment:客队独赢" json:"away_ml"`
	HomeSpreadJuice int     `gorm:"column:home_spread_juice;type:int;default:-110" json:"home_spread_juice"`
	AwaySpreadJuice int     `gorm:"column:away_spread_juice;type:int;default:-110" json:"away_spread_juice"`
	OverJuice       int     `gorm:"column:over_juice;type:int;default:-110" json:"over_juice"`
	UnderJuice      int     `gorm:"column:under_juice;type:int;default:-110" json:"under_juice"`

	// 开盘值，一旦落定不再被当前共识覆盖
	OpeningSpread float64 `gorm:"column:opening_spread;type:numeric(6,2);default:0" json:"opening_spread"`
	OpeningTotal  float64 `gorm:"column:opening_total;type:numeric(6,2);default:0" json:"opening_total"`
	OpeningHomeML int     `gorm:"column:opening_home_ml;type:int;default:0" json:"opening_home_ml"`
	OpeningAwayML int     `gorm:"column:opening_away_ml;type:int;default:0" json:"opening_away_ml"`
	// 开盘水位为空表示尚未记录
	OpeningHomeSpreadJuice *int   `gorm:"column:opening_home_spread_juice;type:int" json:"opening_home_spread_juice"`
	OpeningAwaySpreadJuice *int   `gorm:"column:opening_away_spread_juice;type:int" json:"opening_away_spread_juice"`
	OpeningOverJuice       *int   `gorm:"column:opening_over_juice;type:int" json:"opening_over_juice"`
	OpeningUnderJuice      *int   `gorm:"column:opening_under_juice;type:int" json:"opening_under_juice"`
	OpeningSource          string `gorm:"column:opening_source;type:varchar(32);comment:开盘值来源" json:"opening_source"`

	// 公众投注分布（主队/大分视角，百分比）
	PublicSpreadHomeBetPct   float64 `gorm:"column:public_spread_home_bet_pct;type:numeric(5,2);default:50" json:"public_spread_home_bet_pct"`
	PublicSpreadHomeMoneyPct float64 `gorm:"column:public_spread_home_money_pct;type:numeric(5,2);default:50" json:"public_spread_home_money_pct"`
	PublicMLHomeBetPct       float64 `gorm:"column:public_ml_home_bet_pct;type:numeric(5,2);default:50" json:"public_ml_home_bet_pct"`
	PublicMLHomeMoneyPct     float64 `gorm:"column:public_ml_home_money_pct;type:numeric(5,2);default:50" json:"public_ml_home_money_pct"`
	PublicTotalOverBetPct    float64 `gorm:"column:public_total_over_bet_pct;type:numeric(5,2);default:50" json:"public_total_over_bet_pct"`
	PublicTotalOverMoneyPct  float64 `gorm:"column:public_total_over_money_pct;type:numeric(5,2);default:50" json:"public_total_over_money_pct"`

	Signals        datatypes.JSON `gorm:"column:signals;type:jsonb;comment:信号" json:"signals"`
	Status         string         `gorm:"column:status;type:varchar(16);not null;default:upcoming;index;comment:生命周期状态" json:"status"`
	BookmakerCount int            `gorm:"column:bookmaker_count;type:int;default:0" json:"bookmaker_count"`
	CreatedAt      time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;type:timestamp;not null;index:idx_games_game_id_updated,priority:2;comment:刷新时间" json:"updated_at"`
}

func (Game) TableName() string { return "games" }

// HasOpening 该版本是否已带开盘值
func (g *Game) HasOpening() bool {
	if g == nil {
		return false
	}
	return g.OpeningSource != "" || g.OpeningSpread != 0 || g.OpeningTotal != 0 || g.OpeningHomeML != 0 || g.OpeningAwayML != 0
}

// OpeningLine 开盘账本：每场比赛逻辑上至多一条
type OpeningLine struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	GameID         string    `gorm:"column:game_id;type:varchar(64);not null;index;comment:赔率源比赛ID" json:"game_id"`
	Sport          string    `gorm:"column:sport;type:varchar(16);not null;index" json:"sport"`
	FirstSeenAt    time.Time `gorm:"column:first_seen_at;type:timestamp;not null;comment:首次捕获时间" json:"first_seen_at"`
	OpeningSpread  float64   `gorm:"column:opening_spread;type:numeric(6,2);default:0" json:"opening_spread"`
	OpeningTotal   float64   `gorm:"column:opening_total;type:numeric(6,2);default:0" json:"opening_total"`
	OpeningMLHome  int       `gorm:"column:opening_ml_home;type:int;default:0" json:"opening_ml_home"`
	OpeningMLAway  int       `gorm:"column:opening_ml_away;type:int;default:0" json:"opening_ml_away"`
	BookmakerCount int       `gorm:"column:bookmaker_count;type:int;default:0" json:"bookmaker_count"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamp;default:now()" json:"created_at"`
}

func (OpeningLine) TableName() string { return "opening_lines" }

// OddsSnapshot 每轮每场的共识快照（含各书商明细）
type OddsSnapshot struct {
	ID               uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RunID            string         `gorm:"column:run_id;type:varchar(64);index" json:"run_id"`
	GameID           string         `gorm:"column:game_id;type:varchar(64);not null;index" json:"game_id"`
	Sport            string         `gorm:"column:sport;type:varchar(16);not null" json:"sport"`
	SnapshotTime     time.Time      `gorm:"column:snapshot_time;type:timestamp;not null;index" json:"snapshot_time"`
	HomeTeam         string         `gorm:"column:home_team;type:varchar(128)" json:"home_team"`
	AwayTeam         string         `gorm:"column:away_team;type:varchar(128)" json:"away_team"`
	GameTime         time.Time      `gorm:"column:game_time;type:timestamp" json:"game_time"`
	Spread           float64        `gorm:"column:spread;type:numeric(6,2)" json:"spread"`
	HomeSpreadJuice  int            `gorm:"column:home_spread_juice;type:int" json:"home_spread_juice"`
	AwaySpreadJuice  int            `gorm:"column:away_spread_juice;type:int" json:"away_spread_juice"`
	Total            float64        `gorm:"column:total;type:numeric(6,2)" json:"total"`
	OverJuice        int            `gorm:"column:over_juice;type:int" json:"over_juice"`
	UnderJuice       int            `gorm:"column:under_juice;type:int" json:"under_juice"`
	HomeML           int            `gorm:"column:home_ml;type:int" json:"home_ml"`
	AwayML           int            `gorm:"column:away_ml;type:int" json:"away_ml"`
	PublicMatched    bool           `gorm:"column:public_matched;type:boolean;default:false" json:"public_matched"`
	SplitsGameID     int64          `gorm:"column:splits_game_id;type:bigint;default:0" json:"splits_game_id"`
	SpreadBetPct     float64        `gorm:"column:spread_bet_pct;type:numeric(5,2)" json:"spread_bet_pct"`
	SpreadMoneyPct   float64        `gorm:"column:spread_money_pct;type:numeric(5,2)" json:"spread_money_pct"`
	MLBetPct         float64        `gorm:"column:ml_bet_pct;type:numeric(5,2)" json:"ml_bet_pct"`
	MLMoneyPct       float64        `gorm:"column:ml_money_pct;type:numeric(5,2)" json:"ml_money_pct"`
	TotalBetPct      float64        `gorm:"column:total_bet_pct;type:numeric(5,2)" json:"total_bet_pct"`
	TotalMoneyPct    float64        `gorm:"column:total_money_pct;type:numeric(5,2)" json:"total_money_pct"`
	IsOpening        bool           `gorm:"column:is_opening;type:boolean;default:false" json:"is_opening"`
	BookmakerCount   int            `gorm:"column:bookmaker_count;type:int" json:"bookmaker_count"`
	AllBooksSpreads  datatypes.JSON `gorm:"column:all_books_spreads;type:jsonb" json:"all_books_spreads"`
	AllBooksTotals   datatypes.JSON `gorm:"column:all_books_totals;type:jsonb" json:"all_books_totals"`
	AllBooksML       datatypes.JSON `gorm:"column:all_books_ml;type:jsonb" json:"all_books_ml"`
	CreatedAt        time.Time      `gorm:"column:created_at;type:timestamp;default:now()" json:"created_at"`
}

func (OddsSnapshot) TableName() string { return "odds_snapshots" }

// Team 球队。team_id 按运动划分互不重叠的数字区间
type Team struct {
	ID           uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TeamID       int64          `gorm:"column:team_id;type:bigint;not null;index;comment:业务球队ID" json:"team_id"`
	Sport        string         `gorm:"column:sport;type:varchar(16);not null;index:idx_teams_sport_name,priority:1" json:"sport"`
	Name         string         `gorm:"column:name;type:varchar(128);not null;index:idx_teams_sport_name,priority:2" json:"name"`
	Abbreviation string         `gorm:"column:abbreviation;type:varchar(16)" json:"abbreviation"`
	City         string         `gorm:"column:city;type:varchar(64)" json:"city"`
	LogoURL      string         `gorm:"column:logo_url;type:varchar(256)" json:"logo_url"`
	Metadata     datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt    time.Time      `gorm:"column:created_at;type:timestamp;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;type:timestamp;default:now()" json:"updated_at"`
}

func (Team) TableName() string { return "teams" }
