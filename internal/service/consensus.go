package service

import (
	"sort"

	"LineSync/internal/model"

	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// ExtractBookQuote 从单个书商的盘口里取出主队让分、大分线和两边独赢，缺失盘口保持默认值
func ExtractBookQuote(game *model.OddsAPIGame, book *model.OddsAPIBookmaker) model.BookQuote {
	q := model.NewBookQuote(book.Key)
	for _, m := range book.Markets {
		if len(m.Outcomes) == 0 {
			continue
		}
		switch m.Key {
		case "spreads":
			q.HasSpread = true
			for _, o := range m.Outcomes {
				if o.Name == game.HomeTeam {
					if o.Point != nil {
						q.Spread = *o.Point
					}
					q.HomeSpreadJuice = priceToInt(o.Price)
				} else {
					q.AwaySpreadJuice = priceToInt(o.Price)
				}
			}
		case "totals":
			q.HasTotal = true
			for _, o := range m.Outcomes {
				if o.Name == "Over" {
					if o.Point != nil {
						q.Total = *o.Point
					}
					q.OverJuice = priceToInt(o.Price)
				} else {
					q.UnderJuice = priceToInt(o.Price)
				}
			}
		case "h2h":
			q.HasMoneyline = true
			for _, o := range m.Outcomes {
				if o.Name == game.HomeTeam {
					q.HomeML = priceToInt(o.Price)
				} else {
					q.AwayML = priceToInt(o.Price)
				}
			}
		}
	}
	return q
}

// BuildConsensus 逐字段取所有报价书商的中位数。没有任何书商给出三类盘口之一时返回 false，调用方跳过该场
func BuildConsensus(game *model.OddsAPIGame) (*model.ConsensusQuote, bool) {
	if game == nil || len(game.Bookmakers) == 0 {
		return nil, false
	}

	var (
		spreads, totals                  []float64
		homeSpreadJuice, awaySpreadJuice []float64
		overJuice, underJuice            []float64
		homeML, awayML                   []float64
	)
	c := &model.ConsensusQuote{
		AllBooksSpreads: make(map[string]float64),
		AllBooksTotals:  make(map[string]float64),
		AllBooksML:      make(map[string]model.MLPair),
	}
	for i := range game.Bookmakers {
		q := ExtractBookQuote(game, &game.Bookmakers[i])
		if !q.HasSpread && !q.HasTotal && !q.HasMoneyline {
			continue
		}
		c.BookmakerCount++
		if q.HasSpread {
			if q.Spread != 0 {
				spreads = append(spreads, q.Spread)
			}
			homeSpreadJuice = append(homeSpreadJuice, float64(q.HomeSpreadJuice))
			awaySpreadJuice = append(awaySpreadJuice, float64(q.AwaySpreadJuice))
			c.AllBooksSpreads[q.Bookmaker] = q.Spread
		}
		if q.HasTotal {
			if q.Total != 0 {
				totals = append(totals, q.Total)
			}
			overJuice = append(overJuice, float64(q.OverJuice))
			underJuice = append(underJuice, float64(q.UnderJuice))
			c.AllBooksTotals[q.Bookmaker] = q.Total
		}
		if q.HasMoneyline {
			if q.HomeML != 0 {
				homeML = append(homeML, float64(q.HomeML))
			}
			if q.AwayML != 0 {
				awayML = append(awayML, float64(q.AwayML))
			}
			c.AllBooksML[q.Bookmaker] = model.MLPair{Home: q.HomeML, Away: q.AwayML}
		}
	}

	if c.BookmakerCount == 0 {
		return nil, false
	}

	c.Spread = Median(spreads).InexactFloat64()
	c.Total = Median(totals).InexactFloat64()
	c.HomeML = roundPrice(Median(homeML))
	c.AwayML = roundPrice(Median(awayML))
	c.HomeSpreadJuice = juiceOrDefault(Median(homeSpreadJuice))
	c.AwaySpreadJuice = juiceOrDefault(Median(awaySpreadJuice))
	c.OverJuice = juiceOrDefault(Median(overJuice))
	c.UnderJuice = juiceOrDefault(Median(underJuice))
	return c, true
}

// Median 排序后取中间值，偶数个取中间两个的平均；空切片为 0
func Median(values []float64) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	ds := make([]decimal.Decimal, len(values))
	for i, v := range values {
		ds[i] = decimal.NewFromFloat(v)
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i].LessThan(ds[j]) })
	mid := len(ds) / 2
	if len(ds)%2 == 1 {
		return ds[mid]
	}
	return ds[mid-1].Add(ds[mid]).Div(decimal.NewFromInt(2))
}

// roundPrice 四舍五入，.5 向正无穷
func roundPrice(d decimal.Decimal) int {
	return int(d.Add(half).Floor().IntPart())
}

func juiceOrDefault(d decimal.Decimal) int {
	if v := roundPrice(d); v != 0 {
		return v
	}
	return model.DefaultJuice
}

func priceToInt(p float64) int {
	return roundPrice(decimal.NewFromFloat(p))
}
