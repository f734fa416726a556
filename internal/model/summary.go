package model

import "time"

// 单个运动的同步结果
const (
	SportStatusSuccess = "success"
	SportStatusNoGames = "no_games"
	SportStatusError   = "error"
)

// SportRunResult 单个运动本轮统计
type SportRunResult struct {
	Sport            string `json:"sport"`
	Status           string `json:"status"`
	GamesProcessed   int    `json:"games_processed"`
	NewGames         int    `json:"new_games"`
	OpeningsCaptured int    `json:"openings_captured"`
	GamesMatched     int    `json:"games_matched"`
	Errors           int    `json:"errors"`
	Error            string `json:"error,omitempty"`
}

// LifecycleSummary 生命周期推进统计
type LifecycleSummary struct {
	ClosingSoon int `json:"closing_soon"`
	Completed   int `json:"completed"`
	Archived    int `json:"archived"`
	Errors      int `json:"errors"`
}

// RunSummary 一轮同步的汇总，总是以 success 包裹返回
type RunSummary struct {
	Success             bool             `json:"success"`
	RunID               string           `json:"run_id"`
	SnapshotTime        time.Time        `json:"snapshot_time"`
	Duration            string           `json:"duration"`
	TotalGamesProcessed int              `json:"total_games_processed"`
	Results             []SportRunResult `json:"results"`
	Lifecycle           LifecycleSummary `json:"lifecycle"`
}
