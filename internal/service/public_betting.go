package service

import (
	"regexp"
	"strings"

	"LineSync/internal/model"
)

// 匹配层级，按此顺序探测
const (
	MatchTierAbbreviation = "abbreviation"
	MatchTierFullName     = "full_name"
	MatchTierMascot       = "mascot"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeName 小写并去掉所有非字母数字
func normalizeName(name string) string {
	return nonAlphaNum.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "")
}

// mascotOf 最后一个词
func mascotOf(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}
	return normalizeName(words[len(words)-1])
}

func pairKey(a, b string) string {
	if a == "" || b == "" {
		return ""
	}
	return a + "_" + b
}

// MatchTable 只读的投注分布查找表，构建完成后可被多个 goroutine 同时读取
type MatchTable struct {
	sport      string
	byAbbr     map[string]*model.PublicBettingEntry
	byName     map[string]*model.PublicBettingEntry
	byMascot   map[string]*model.PublicBettingEntry
	nameToAbbr map[string]string // 规范化全称 -> 缩写，从投注分布源赛程学到
	entries    int
}

// EmptyMatchTable 任何查询都返回中性分布
func EmptyMatchTable(sport string) *MatchTable {
	return NewMatchTableBuilder(sport).Build()
}

// Len 表中比赛数量
func (t *MatchTable) Len() int {
	return t.entries
}

// Lookup 依次尝试 缩写键 -> 规范化全称键 -> 吉祥物键，每层先正序再反序，第一个命中即返回
func (t *MatchTable) Lookup(homeTeam, awayTeam string) (*model.PublicBettingEntry, string) {
	if homeAbbr, awayAbbr := t.abbrFor(homeTeam), t.abbrFor(awayTeam); homeAbbr != "" && awayAbbr != "" {
		if e := probe(t.byAbbr, homeAbbr, awayAbbr); e != nil {
			return e, MatchTierAbbreviation
		}
	}
	if e := probe(t.byName, normalizeName(homeTeam), normalizeName(awayTeam)); e != nil {
		return e, MatchTierFullName
	}
	if e := probe(t.byMascot, mascotOf(homeTeam), mascotOf(awayTeam)); e != nil {
		return e, MatchTierMascot
	}
	return nil, ""
}

// Resolve 查找并逐盘口套用中性默认值
func (t *MatchTable) Resolve(homeTeam, awayTeam string) model.PublicBetting {
	e, tier := t.Lookup(homeTeam, awayTeam)
	return e.Resolve(tier)
}

func (t *MatchTable) abbrFor(fullName string) string {
	if abbr, ok := LookupAbbreviation(t.sport, fullName); ok {
		return NormalizeAbbreviation(t.sport, abbr)
	}
	if abbr, ok := t.nameToAbbr[normalizeName(fullName)]; ok {
		return abbr
	}
	return ""
}

func probe(m map[string]*model.PublicBettingEntry, home, away string) *model.PublicBettingEntry {
	if k := pairKey(home, away); k != "" {
		if e, ok := m[k]; ok && e != nil {
			return e
		}
	}
	if k := pairKey(away, home); k != "" {
		if e, ok := m[k]; ok && e != nil {
			return e
		}
	}
	return nil
}

// MatchTableBuilder 构建阶段独占使用，Build 之后不可再写
type MatchTableBuilder struct {
	table *MatchTable
}

func NewMatchTableBuilder(sport string) *MatchTableBuilder {
	return &MatchTableBuilder{table: &MatchTable{
		sport:      sport,
		byAbbr:     make(map[string]*model.PublicBettingEntry),
		byName:     make(map[string]*model.PublicBettingEntry),
		byMascot:   make(map[string]*model.PublicBettingEntry),
		nameToAbbr: make(map[string]string),
	}}
}

// LearnTeam 记录投注分布源的 全称 -> 缩写 对应
func (b *MatchTableBuilder) LearnTeam(fullName, abbr string) {
	if b.table == nil || strings.TrimSpace(fullName) == "" || strings.TrimSpace(abbr) == "" {
		return
	}
	b.table.nameToAbbr[normalizeName(fullName)] = NormalizeAbbreviation(b.table.sport, abbr)
}

// Add 以所有可能的键同时登记一场比赛。全称/吉祥物键被两场不同比赛占用时作废，避免错配
func (b *MatchTableBuilder) Add(entry *model.PublicBettingEntry, homeName, awayName string) {
	if b.table == nil || entry == nil {
		return
	}
	t := b.table
	sport := t.sport
	homeAbbr := NormalizeAbbreviation(sport, entry.HomeAbbr)
	awayAbbr := NormalizeAbbreviation(sport, entry.AwayAbbr)
	if homeName == "" {
		homeName, _ = LookupFullName(sport, homeAbbr)
	}
	if awayName == "" {
		awayName, _ = LookupFullName(sport, awayAbbr)
	}

	putBoth(t.byAbbr, homeAbbr, awayAbbr, entry, false)
	putBoth(t.byName, normalizeName(homeName), normalizeName(awayName), entry, true)
	putBoth(t.byMascot, mascotOf(homeName), mascotOf(awayName), entry, true)
	t.entries++
}

func putBoth(m map[string]*model.PublicBettingEntry, home, away string, entry *model.PublicBettingEntry, dropOnConflict bool) {
	for _, k := range []string{pairKey(home, away), pairKey(away, home)} {
		if k == "" {
			continue
		}
		existing, ok := m[k]
		switch {
		case !ok:
			m[k] = entry
		case existing == entry:
		case dropOnConflict:
			m[k] = nil
		default:
			// 缩写键冲突：保留先登记的（赛程按开赛时间排序，先登记的更近）
		}
	}
}

// Build 返回只读表
func (b *MatchTableBuilder) Build() *MatchTable {
	t := b.table
	b.table = nil
	return t
}

// EntryFromSplits 将投注分布响应转为查找表条目。每个盘口独立解析，显式 null 视为缺失
func EntryFromSplits(splits *model.SplitsGame, splitsGameID int64) *model.PublicBettingEntry {
	if splits == nil {
		return nil
	}
	entry := &model.PublicBettingEntry{
		SplitsGameID: splitsGameID,
		HomeAbbr:     splits.HomeTeam,
		AwayAbbr:     splits.AwayTeam,
	}
	for _, m := range splits.BettingMarketSplits {
		if !isFullGame(m.BettingPeriod) {
			continue
		}
		switch classifyBetType(m.BettingBetType) {
		case "spread":
			if entry.Spread == nil {
				entry.Spread = sideSplit(m.BettingSplits, "Home", "Away")
			}
		case "moneyline":
			if entry.Moneyline == nil {
				entry.Moneyline = sideSplit(m.BettingSplits, "Home", "Away")
			}
		case "total":
			if entry.Total == nil {
				entry.Total = sideSplit(m.BettingSplits, "Over", "Under")
			}
		}
	}
	return entry
}

func classifyBetType(t string) string {
	l := strings.ToLower(t)
	switch {
	case strings.Contains(l, "moneyline"):
		return "moneyline"
	case strings.Contains(l, "spread"), strings.Contains(l, "puck line"), strings.Contains(l, "run line"):
		return "spread"
	case strings.Contains(l, "total"):
		return "total"
	default:
		return ""
	}
}

func isFullGame(period string) bool {
	p := strings.ToLower(strings.TrimSpace(period))
	return p == "" || strings.Contains(p, "full")
}

// sideSplit 取 side 一边的占比；该边投注占比为 null 时尝试用对边补，仍没有则视为缺失
func sideSplit(splits []model.BettingSplit, side, opposite string) *model.MarketSplit {
	var own, other *model.BettingSplit
	for i := range splits {
		switch splits[i].BettingOutcomeType {
		case side:
			if own == nil {
				own = &splits[i]
			}
		case opposite:
			if other == nil {
				other = &splits[i]
			}
		}
	}
	if own != nil && own.BetPercentage != nil {
		return &model.MarketSplit{
			BetPct:   *own.BetPercentage,
			MoneyPct: pctOr(own.MoneyPercentage, other, false),
		}
	}
	if other != nil && other.BetPercentage != nil {
		return &model.MarketSplit{
			BetPct:   100 - *other.BetPercentage,
			MoneyPct: pctOr(other.MoneyPercentage, nil, true),
		}
	}
	return nil
}

func pctOr(money *float64, other *model.BettingSplit, complement bool) float64 {
	switch {
	case money != nil && complement:
		return 100 - *money
	case money != nil:
		return *money
	case other != nil && other.MoneyPercentage != nil:
		return 100 - *other.MoneyPercentage
	default:
		return model.NeutralPct
	}
}
