// Package signal 默认信号计算器：根据开盘到当前的盘口/水位变动与公众投注分布，
// 给每个盘口每一边打出 public respect、vegas backed、whale respect 三个分数
package signal

import (
	"math"
	"strings"

	"LineSync/internal/interfaces"
	"LineSync/internal/model"
)

type market int

const (
	marketSpread market = iota
	marketTotal
	marketML
)

// Calculator 无状态，可并发使用
type Calculator struct{}

func NewCalculator() interfaces.SignalCalculator {
	return Calculator{}
}

func (Calculator) Calculate(in *model.SignalInput) model.SignalSet {
	var out model.SignalSet
	if in == nil {
		return out
	}
	sport := strings.ToLower(in.Sport)

	// 让分
	sp := in.Spread
	lineScore := lineMoveScore(sp.OpenLine, sp.CurrentLine, sport, marketSpread)
	pressHome := marketPressure(lineScore, oddsMoveScore(sp.OpenOddsSideA, sp.CurrentSideA, sport, marketSpread), sport, marketSpread)
	pressAway := marketPressure(lineScore, oddsMoveScore(sp.OpenOddsSideB, sp.CurrentSideB, sport, marketSpread), sport, marketSpread)
	home := sideSignals(sp.BetPctSideA, sp.MoneyPctSideA, pressHome,
		isFavorable(sp.OpenLine, sp.CurrentLine, sp.OpenOddsSideA, sp.CurrentSideA, true, marketSpread))
	away := sideSignals(100-sp.BetPctSideA, 100-sp.MoneyPctSideA, pressAway,
		isFavorable(sp.OpenLine, sp.CurrentLine, sp.OpenOddsSideB, sp.CurrentSideB, false, marketSpread))
	out.SpreadHomePublicRespect, out.SpreadHomeVegasBacked, out.SpreadHomeWhaleRespect = home.public, home.vegas, home.whale
	out.SpreadAwayPublicRespect, out.SpreadAwayVegasBacked, out.SpreadAwayWhaleRespect = away.public, away.vegas, away.whale

	// 大小分
	tt := in.Total
	lineScore = lineMoveScore(tt.OpenLine, tt.CurrentLine, sport, marketTotal)
	pressOver := marketPressure(lineScore, oddsMoveScore(tt.OpenOddsSideA, tt.CurrentSideA, sport, marketTotal), sport, marketTotal)
	pressUnder := marketPressure(lineScore, oddsMoveScore(tt.OpenOddsSideB, tt.CurrentSideB, sport, marketTotal), sport, marketTotal)
	over := sideSignals(tt.BetPctSideA, tt.MoneyPctSideA, pressOver,
		isFavorable(tt.OpenLine, tt.CurrentLine, tt.OpenOddsSideA, tt.CurrentSideA, true, marketTotal))
	under := sideSignals(100-tt.BetPctSideA, 100-tt.MoneyPctSideA, pressUnder,
		isFavorable(tt.OpenLine, tt.CurrentLine, tt.OpenOddsSideB, tt.CurrentSideB, false, marketTotal))
	out.TotalOverPublicRespect, out.TotalOverVegasBacked, out.TotalOverWhaleRespect = over.public, over.vegas, over.whale
	out.TotalUnderPublicRespect, out.TotalUnderVegasBacked, out.TotalUnderWhaleRespect = under.public, under.vegas, under.whale

	// 独赢，没有盘口线
	ml := in.Moneyline
	pressHome = marketPressure(0, oddsMoveScore(ml.OpenOddsSideA, ml.CurrentSideA, sport, marketML), sport, marketML)
	pressAway = marketPressure(0, oddsMoveScore(ml.OpenOddsSideB, ml.CurrentSideB, sport, marketML), sport, marketML)
	home = sideSignals(ml.BetPctSideA, ml.MoneyPctSideA, pressHome,
		isFavorable(0, 0, ml.OpenOddsSideA, ml.CurrentSideA, true, marketML))
	away = sideSignals(100-ml.BetPctSideA, 100-ml.MoneyPctSideA, pressAway,
		isFavorable(0, 0, ml.OpenOddsSideB, ml.CurrentSideB, false, marketML))
	out.MLHomePublicRespect, out.MLHomeVegasBacked, out.MLHomeWhaleRespect = home.public, home.vegas, home.whale
	out.MLAwayPublicRespect, out.MLAwayVegasBacked, out.MLAwayWhaleRespect = away.public, away.vegas, away.whale

	return out
}

// ImpliedProbability 美式赔率转隐含概率，0 视为五五开
func ImpliedProbability(odds int) float64 {
	switch {
	case odds == 0:
		return 0.5
	case odds < 0:
		a := math.Abs(float64(odds))
		return a / (a + 100)
	default:
		return 100 / (float64(odds) + 100)
	}
}

func lineMoveScore(open, current float64, sport string, m market) int {
	if m == marketML {
		return 0
	}
	els := lineSens(sport, m)
	move := math.Abs(current - open)
	if move == 0 {
		return 0
	}
	return roundHalfUp(math.Min(move/els, 1) * 100)
}

func oddsMoveScore(open, current int, sport string, m market) int {
	delta := math.Abs(ImpliedProbability(current) - ImpliedProbability(open))
	if delta == 0 {
		return 0
	}
	return roundHalfUp(math.Min(delta/oddsSens(sport, m), 1) * 100)
}

func marketPressure(lineScore, oddsScore int, sport string, m market) int {
	if m == marketML {
		return oddsScore
	}
	w, ok := marketPressureWeights[sport]
	if !ok {
		w = defaultPressureWeights
	}
	pressure := float64(lineScore)*w.Line + float64(oddsScore)*w.Odds
	if lineScore == 0 {
		pressure = math.Min(pressure, oddsOnlyPressureCap)
	}
	return roundHalfUp(pressure)
}

// isFavorable sideA 为主队/大分。线动了看线方向，否则看该边隐含概率是否上升
func isFavorable(openLine, currentLine float64, openOdds, currentOdds int, sideA bool, m market) bool {
	lineMoved := math.Abs(currentLine-openLine) >= 0.5
	oddsMoved := math.Abs(ImpliedProbability(currentOdds)-ImpliedProbability(openOdds)) >= 0.01
	if !lineMoved && !oddsMoved {
		return false
	}
	oddsImproved := ImpliedProbability(currentOdds) > ImpliedProbability(openOdds)
	switch m {
	case marketSpread:
		// 主队让分越多（越负）越被看好
		if lineMoved {
			if sideA {
				return currentLine < openLine
			}
			return currentLine > openLine
		}
	case marketTotal:
		if lineMoved {
			if sideA {
				return currentLine > openLine
			}
			return currentLine < openLine
		}
	}
	// 传入的是该边自己的水位
	return oddsImproved
}

type sideScores struct {
	public int
	vegas  int
	whale  int
}

func sideSignals(betPct, moneyPct float64, pressure int, favorable bool) sideScores {
	if !favorable {
		pressure = 0
	}
	return sideScores{
		public: publicRespectScore(betPct, moneyPct, pressure),
		vegas:  vegasBackedScore(betPct, moneyPct, pressure),
		whale:  whaleRespectScore(betPct, moneyPct, pressure),
	}
}

func publicRespectScore(betPct, moneyPct float64, pressure int) int {
	if betPct < publicMinBetPct || moneyPct < publicMinMoneyPct || pressure <= 0 {
		return 0
	}
	factor := math.Min(((betPct-50)+(moneyPct-50))/publicNormDivisor, 1)
	raw := factor*publicSplitWeight*100 + float64(pressure)/100*publicPressWeight*100
	return minInt(roundHalfUp(raw), 100)
}

func vegasBackedScore(betPct, moneyPct float64, pressure int) int {
	if (betPct+moneyPct)/2 >= vegasMaxAvgPct || pressure <= 0 {
		return 0
	}
	factor := math.Min(((50-betPct)+(50-moneyPct))/vegasNormDivisor, 1)
	raw := factor*vegasSplitWeight*100 + float64(pressure)/100*vegasPressWeight*100
	return minInt(roundHalfUp(raw), 100)
}

func whaleRespectScore(betPct, moneyPct float64, pressure int) int {
	gap := moneyPct - betPct
	s1 := betPct <= whaleS1MaxBetPct && moneyPct >= whaleS1MinMoneyPct && gap >= whaleS1MinGap
	s2 := betPct >= whaleS2MinBetPct && betPct <= whaleS2MaxBetPct && moneyPct >= whaleS2MinMoneyPct && gap >= whaleS2MinGap
	if (!s1 && !s2) || pressure <= 0 {
		return 0
	}
	minGap := whaleS2MinGap
	if s1 {
		minGap = whaleS1MinGap
	}
	factor := math.Min((gap-minGap)/(whaleMaxGap-minGap), 1)
	raw := factor*whaleGapWeight*100 + float64(pressure)/100*whalePressWeight*100
	return minInt(roundHalfUp(raw), 100)
}

func lineSens(sport string, m market) float64 {
	s, ok := lineSensitivity[sport]
	if !ok {
		s = lineSensitivity["nfl"]
	}
	if m == marketTotal {
		return s.Total
	}
	return s.Spread
}

func oddsSens(sport string, m market) float64 {
	s, ok := oddsSensitivity[sport]
	if !ok {
		s = oddsSensitivity["nfl"]
	}
	switch m {
	case marketTotal:
		return s.Total
	case marketML:
		return s.ML
	default:
		return s.Spread
	}
}

// roundHalfUp .5 向正无穷取整
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
