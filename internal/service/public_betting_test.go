package service

import (
	"testing"

	"LineSync/internal/model"
)

func split(outcome string, bet, money *float64) model.BettingSplit {
	return model.BettingSplit{BettingOutcomeType: outcome, BetPercentage: bet, MoneyPercentage: money}
}

func marketSplit(betType, period string, splits ...model.BettingSplit) model.BettingMarketSplit {
	return model.BettingMarketSplit{BettingBetType: betType, BettingPeriod: period, BettingSplits: splits}
}

func TestMatchTable_AbbreviationTierBothOrders(t *testing.T) {
	b := NewMatchTableBuilder("nfl")
	b.Add(&model.PublicBettingEntry{SplitsGameID: 18001, HomeAbbr: "KC", AwayAbbr: "BUF",
		Spread: &model.MarketSplit{BetPct: 62, MoneyPct: 71}}, "", "")
	// 分布源把主客写反的比赛
	b.Add(&model.PublicBettingEntry{SplitsGameID: 18002, HomeAbbr: "JAC", AwayAbbr: "DAL"}, "", "")
	table := b.Build()

	if table.Len() != 2 {
		t.Fatalf("len=%d want 2", table.Len())
	}
	e, tier := table.Lookup(testHome, testAway)
	if e == nil || e.SplitsGameID != 18001 || tier != MatchTierAbbreviation {
		t.Fatalf("entry=%+v tier=%q", e, tier)
	}
	e, tier = table.Lookup("Dallas Cowboys", "Jacksonville Jaguars")
	if e == nil || e.SplitsGameID != 18002 || tier != MatchTierAbbreviation {
		t.Fatalf("reverse lookup entry=%+v tier=%q", e, tier)
	}
}

func TestMatchTable_FullNameTier(t *testing.T) {
	b := NewMatchTableBuilder("cfb")
	b.Add(&model.PublicBettingEntry{SplitsGameID: 7, HomeAbbr: "ALA", AwayAbbr: "UGA"}, "Alabama Crimson Tide", "Georgia Bulldogs")
	table := b.Build()

	_, tier := table.Lookup("Alabama Crimson-Tide", "Georgia Bulldogs")
	if tier != MatchTierFullName {
		t.Fatalf("tier=%q want %q", tier, MatchTierFullName)
	}
}

func TestMatchTable_LearnedAbbreviation(t *testing.T) {
	b := NewMatchTableBuilder("cfb")
	b.LearnTeam("Alabama Crimson Tide", "ala")
	b.LearnTeam("Georgia Bulldogs", "UGA")
	b.Add(&model.PublicBettingEntry{SplitsGameID: 8, HomeAbbr: "ALA", AwayAbbr: "UGA"}, "", "")
	table := b.Build()

	e, tier := table.Lookup("Georgia Bulldogs", "Alabama Crimson Tide")
	if e == nil || e.SplitsGameID != 8 || tier != MatchTierAbbreviation {
		t.Fatalf("entry=%+v tier=%q", e, tier)
	}
}

func TestMatchTable_MascotTier(t *testing.T) {
	b := NewMatchTableBuilder("cfb")
	b.Add(&model.PublicBettingEntry{SplitsGameID: 9, HomeAbbr: "ALA", AwayAbbr: "UGA"}, "Alabama Tide", "UGA Bulldogs")
	table := b.Build()

	e, tier := table.Lookup("Alabama Crimson Tide", "Georgia Bulldogs")
	if e == nil || tier != MatchTierMascot {
		t.Fatalf("entry=%+v tier=%q want mascot", e, tier)
	}
}

func TestMatchTable_AmbiguousMascotDropped(t *testing.T) {
	b := NewMatchTableBuilder("cfb")
	b.Add(&model.PublicBettingEntry{SplitsGameID: 1, HomeAbbr: "AUB", AwayAbbr: "UGA"}, "Auburn Tigers", "Georgia Bulldogs")
	b.Add(&model.PublicBettingEntry{SplitsGameID: 2, HomeAbbr: "LSU", AwayAbbr: "MSST"}, "LSU Tigers", "Mississippi State Bulldogs")
	table := b.Build()

	if e, tier := table.Lookup("Memphis Tigers", "Fresno State Bulldogs"); e != nil {
		t.Fatalf("ambiguous mascot key must not match, got %+v tier=%q", e, tier)
	}
	// 全称仍然唯一
	if e, _ := table.Lookup("LSU Tigers", "Mississippi State Bulldogs"); e == nil || e.SplitsGameID != 2 {
		t.Fatalf("full name lookup=%+v", e)
	}
}

func TestMatchTable_ResolveDefaultsPerMarket(t *testing.T) {
	b := NewMatchTableBuilder("nfl")
	b.Add(&model.PublicBettingEntry{SplitsGameID: 3, HomeAbbr: "KC", AwayAbbr: "BUF",
		Spread: &model.MarketSplit{BetPct: 30, MoneyPct: 45}}, "", "")
	table := b.Build()

	got := table.Resolve(testHome, testAway)
	if !got.Matched || got.SplitsGameID != 3 {
		t.Fatalf("resolve=%+v", got)
	}
	if got.Spread != (model.MarketSplit{BetPct: 30, MoneyPct: 45}) {
		t.Fatalf("spread=%+v", got.Spread)
	}
	neutral := model.MarketSplit{BetPct: 50, MoneyPct: 50}
	if got.Moneyline != neutral || got.Total != neutral {
		t.Fatalf("missing markets must be neutral: ml=%+v total=%+v", got.Moneyline, got.Total)
	}

	miss := table.Resolve("Miami Dolphins", "New York Jets")
	if miss.Matched || miss.Spread != neutral {
		t.Fatalf("unmatched=%+v", miss)
	}
}

func TestEmptyMatchTable(t *testing.T) {
	table := EmptyMatchTable("nba")
	if table.Len() != 0 {
		t.Fatalf("len=%d", table.Len())
	}
	if got := table.Resolve("Boston Celtics", "Miami Heat"); got != model.NeutralPublicBetting() {
		t.Fatalf("resolve=%+v", got)
	}
}

func TestEntryFromSplits(t *testing.T) {
	splits := &model.SplitsGame{
		HomeTeam: "KC",
		AwayTeam: "BUF",
		BettingMarketSplits: []model.BettingMarketSplit{
			marketSplit("Spread", "1st Half", split("Home", floatPtr(90), floatPtr(90))),
			marketSplit("Spread", "Full Game", split("Home", floatPtr(58), nil), split("Away", floatPtr(42), floatPtr(35))),
			marketSplit("Moneyline", "Full Game", split("Home", nil, nil), split("Away", floatPtr(40), floatPtr(30))),
			marketSplit("Total Points", "Full Game", split("Over", nil, nil), split("Under", nil, nil)),
		},
	}
	e := EntryFromSplits(splits, 77)
	if e.SplitsGameID != 77 || e.HomeAbbr != "KC" {
		t.Fatalf("entry=%+v", e)
	}
	if e.Spread == nil || *e.Spread != (model.MarketSplit{BetPct: 58, MoneyPct: 65}) {
		t.Fatalf("spread=%+v", e.Spread)
	}
	if e.Moneyline == nil || *e.Moneyline != (model.MarketSplit{BetPct: 60, MoneyPct: 70}) {
		t.Fatalf("moneyline=%+v", e.Moneyline)
	}
	if e.Total != nil {
		t.Fatalf("all-null total must be absent, got %+v", e.Total)
	}
	if EntryFromSplits(nil, 1) != nil {
		t.Fatalf("nil splits must give nil entry")
	}
}

func TestClassifyBetType(t *testing.T) {
	cases := map[string]string{
		"Spread":       "spread",
		"Puck Line":    "spread",
		"Run Line":     "spread",
		"Moneyline":    "moneyline",
		"Total Points": "total",
		"Team Total":   "total",
		"Player Prop":  "",
	}
	for in, want := range cases {
		if got := classifyBetType(in); got != want {
			t.Fatalf("classifyBetType(%q)=%q want %q", in, got, want)
		}
	}
}

func TestNormalizeAbbreviation(t *testing.T) {
	cases := []struct {
		sport, in, want string
	}{
		{"nfl", "jac", "JAX"},
		{"nfl", "KC", "KC"},
		{"nba", "GSW", "GS"},
		{"nhl", " vgk ", "VEG"},
		{"cfb", "ala", "ALA"},
	}
	for _, tc := range cases {
		if got := NormalizeAbbreviation(tc.sport, tc.in); got != tc.want {
			t.Fatalf("NormalizeAbbreviation(%q,%q)=%q want %q", tc.sport, tc.in, got, tc.want)
		}
	}
}

func TestMatchTable_HigherTierWins(t *testing.T) {
	b := NewMatchTableBuilder("nfl")
	// 分布源只给城市名，全称/吉祥物键对不上
	b.Add(&model.PublicBettingEntry{SplitsGameID: 100, HomeAbbr: "KC", AwayAbbr: "BUF"}, "Kansas City", "Buffalo")
	// 缩写对不上，但全称与吉祥物键都指向同一对球队
	b.Add(&model.PublicBettingEntry{SplitsGameID: 200, HomeAbbr: "XKC", AwayAbbr: "XBUF"}, testHome, testAway)
	table := b.Build()
	if e := table.byName[pairKey(normalizeName(testHome), normalizeName(testAway))]; e == nil || e.SplitsGameID != 200 {
		t.Fatalf("full name key should hold entry 200, got %+v", e)
	}
	if e := table.byMascot[pairKey(mascotOf(testHome), mascotOf(testAway))]; e == nil || e.SplitsGameID != 200 {
		t.Fatalf("mascot key should hold entry 200, got %+v", e)
	}

	for _, order := range [][2]string{{testHome, testAway}, {testAway, testHome}} {
		e, tier := table.Lookup(order[0], order[1])
		if e == nil || e.SplitsGameID != 100 || tier != MatchTierAbbreviation {
			t.Fatalf("lookup(%s, %s) entry=%+v tier=%q want abbreviation entry 100", order[0], order[1], e, tier)
		}
	}

	// 去掉缩写层后落到全称层，而不是吉祥物层
	b = NewMatchTableBuilder("nfl")
	b.Add(&model.PublicBettingEntry{SplitsGameID: 200, HomeAbbr: "XKC", AwayAbbr: "XBUF"}, testHome, testAway)
	e, tier := b.Build().Lookup(testHome, testAway)
	if e == nil || e.SplitsGameID != 200 || tier != MatchTierFullName {
		t.Fatalf("entry=%+v tier=%q want full name entry 200", e, tier)
	}
}
