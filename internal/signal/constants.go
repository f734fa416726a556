package signal

// sensitivity 每个运动认为"有意义"的变动幅度
type sensitivity struct {
	Spread float64
	Total  float64
	ML     float64
}

// 盘口线变动敏感度（分）
var lineSensitivity = map[string]sensitivity{
	"nfl":   {Spread: 1.5, Total: 2.0},
	"nba":   {Spread: 2.0, Total: 4.0},
	"nhl":   {Spread: 0.5, Total: 0.5},
	"mlb":   {Spread: 0.5, Total: 0.75},
	"cfb":   {Spread: 2.0, Total: 3.0},
	"cbb":   {Spread: 2.5, Total: 4.0},
	"ncaab": {Spread: 2.5, Total: 4.0},
	"ncaaf": {Spread: 2.0, Total: 3.0},
}

// 隐含概率变动敏感度
var oddsSensitivity = map[string]sensitivity{
	"nfl":   {Spread: 0.04, Total: 0.04, ML: 0.05},
	"nba":   {Spread: 0.03, Total: 0.03, ML: 0.04},
	"nhl":   {Spread: 0.03, Total: 0.025, ML: 0.04},
	"mlb":   {Spread: 0.03, Total: 0.025, ML: 0.04},
	"cfb":   {Spread: 0.04, Total: 0.04, ML: 0.05},
	"cbb":   {Spread: 0.035, Total: 0.035, ML: 0.045},
	"ncaab": {Spread: 0.035, Total: 0.035, ML: 0.045},
	"ncaaf": {Spread: 0.04, Total: 0.04, ML: 0.05},
}

type pressureWeights struct {
	Line float64
	Odds float64
}

var marketPressureWeights = map[string]pressureWeights{
	"nhl": {Line: 0.35, Odds: 0.65},
	"mlb": {Line: 0.45, Odds: 0.55},
}

var defaultPressureWeights = pressureWeights{Line: 0.55, Odds: 0.45}

const (
	// 线不动时仅靠水位变动的压力上限
	oddsOnlyPressureCap = 70

	publicMinBetPct   = 55.0
	publicMinMoneyPct = 55.0
	publicSplitWeight = 0.40
	publicPressWeight = 0.60
	publicNormDivisor = 60.0

	vegasMaxAvgPct   = 50.0
	vegasSplitWeight = 0.35
	vegasPressWeight = 0.65
	vegasNormDivisor = 60.0

	whaleS1MaxBetPct   = 50.0
	whaleS1MinMoneyPct = 50.0
	whaleS1MinGap      = 20.0
	whaleS2MinBetPct   = 50.0
	whaleS2MaxBetPct   = 65.0
	whaleS2MinMoneyPct = 50.0
	whaleS2MinGap      = 30.0
	whaleGapWeight     = 0.30
	whalePressWeight   = 0.70
	whaleMaxGap        = 50.0
)
