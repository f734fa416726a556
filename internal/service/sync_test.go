package service

import (
	"context"
	"testing"
	"time"

	"LineSync/internal/config"
	"LineSync/internal/model"
	"LineSync/internal/repository"
)

type syncFixture struct {
	svc       *SyncService
	odds      *stubOdds
	games     *memGameRepo
	openings  *memOpeningRepo
	snapshots *memSnapshotRepo
	teams     *memTeamRepo
	signals   *recordingSignals
	now       time.Time
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	cfg := &config.Config{
		Sports: []config.SportConfig{
			{Sport: "nfl", Active: true, SplitsPath: "nfl", SplitsEndpoint: "BettingSplitsByScoreId", SplitsWindowDays: 7, TeamIDFloor: 100000},
			{Sport: "nba", Active: true, TeamIDFloor: 200000},
			{Sport: "mlb", Active: false, TeamIDFloor: 500000},
		},
	}
	f := &syncFixture{
		odds:      &stubOdds{games: map[string][]model.OddsAPIGame{}, errs: map[string]error{}},
		games:     &memGameRepo{},
		openings:  &memOpeningRepo{},
		snapshots: &memSnapshotRepo{},
		teams:     &memTeamRepo{},
		signals:   &recordingSignals{},
		now:       time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC),
	}
	splits := &stubSplits{
		schedule: []model.SplitsScheduleGame{{ScoreID: 501, GameID: 9001, Status: "Scheduled", HomeTeam: "KC", AwayTeam: "BUF"}},
		splits: map[int64]*model.SplitsGame{501: {HomeTeam: "KC", AwayTeam: "BUF", BettingMarketSplits: []model.BettingMarketSplit{
			marketSplit("Spread", "Full Game", split("Home", floatPtr(68), floatPtr(41)), split("Away", floatPtr(32), floatPtr(59))),
		}}},
	}
	repos := &repository.Repositories{Games: f.games, Openings: f.openings, Snapshots: f.snapshots, Teams: f.teams}
	matcher := NewPublicBettingMatcher(splits, nil, cfg.Sync, testLogger())
	f.svc = NewSyncService(cfg, f.odds, matcher, repos, f.signals, testLogger())
	f.setNow(f.now)
	return f
}

func (f *syncFixture) setNow(now time.Time) {
	f.now = now
	f.svc.now = fixedClock(now)
	f.svc.lifecycle.now = fixedClock(now)
	f.svc.matcher.now = fixedClock(now)
}

func fullBook(key string, spread float64, homeML, awayML float64) model.OddsAPIBookmaker {
	return bookOf(key, spreadsMarket(spread, -110, -110), totalsMarket(47.5, -112, -108), h2hMarket(homeML, awayML))
}

func resultFor(t *testing.T, s *model.RunSummary, sport string) model.SportRunResult {
	t.Helper()
	for _, r := range s.Results {
		if r.Sport == sport {
			return r
		}
	}
	t.Fatalf("no result for %s in %+v", sport, s.Results)
	return model.SportRunResult{}
}

func TestSyncService_FirstRun(t *testing.T) {
	f := newSyncFixture(t)
	start := f.now.Add(72 * time.Hour)
	f.odds.games["nfl"] = []model.OddsAPIGame{testGame("evt1", start, fullBook("dk", -3, -150, 130), fullBook("fd", -3, -155, 135))}
	f.odds.errs["nba"] = errStub

	summary := f.svc.Run(context.Background())
	if !summary.Success || summary.RunID == "" {
		t.Fatalf("summary=%+v", summary)
	}
	if len(summary.Results) != 2 {
		t.Fatalf("inactive sports must be skipped, results=%+v", summary.Results)
	}
	nfl := resultFor(t, summary, "nfl")
	if nfl.Status != model.SportStatusSuccess || nfl.GamesProcessed != 1 || nfl.NewGames != 1 || nfl.OpeningsCaptured != 1 || nfl.GamesMatched != 1 || nfl.Errors != 0 {
		t.Fatalf("nfl=%+v", nfl)
	}
	if nba := resultFor(t, summary, "nba"); nba.Status != model.SportStatusError || nba.Error == "" {
		t.Fatalf("nba=%+v", nba)
	}

	row, _ := f.games.ReadLatest(context.Background(), "nfl_evt1")
	if row == nil {
		t.Fatalf("game row not written")
	}
	if row.OpeningSource != model.OpeningSourceCaptured || row.OpeningSpread != -3 || row.Status != model.GameStatusUpcoming {
		t.Fatalf("row=%+v", row)
	}
	if row.HomeTeamID != 100001 || row.AwayTeamID != 100002 {
		t.Fatalf("team ids=%d/%d", row.HomeTeamID, row.AwayTeamID)
	}
	if row.PublicSpreadHomeBetPct != 68 || row.PublicSpreadHomeMoneyPct != 41 || row.SplitsGameID != 501 {
		t.Fatalf("public=%v/%v splits_id=%d", row.PublicSpreadHomeBetPct, row.PublicSpreadHomeMoneyPct, row.SplitsGameID)
	}
	if row.PublicMLHomeBetPct != 50 {
		t.Fatalf("unmatched market must be neutral, got %v", row.PublicMLHomeBetPct)
	}
	if len(f.snapshots.rows) != 1 || !f.snapshots.rows[0].IsOpening || f.snapshots.rows[0].RunID != summary.RunID {
		t.Fatalf("snapshots=%+v", f.snapshots.rows)
	}
	if len(f.signals.inputs) != 1 {
		t.Fatalf("signal calls=%d", len(f.signals.inputs))
	}
}

func TestSyncService_OpeningNeverOverwritten(t *testing.T) {
	f := newSyncFixture(t)
	start := f.now.Add(72 * time.Hour)
	f.odds.games["nfl"] = []model.OddsAPIGame{testGame("evt1", start, fullBook("dk", -3, -150, 130))}
	f.svc.Run(context.Background())

	f.setNow(f.now.Add(time.Hour))
	f.odds.games["nfl"] = []model.OddsAPIGame{testGame("evt1", start, fullBook("dk", -7, -300, 240))}
	summary := f.svc.Run(context.Background())

	nfl := resultFor(t, summary, "nfl")
	if nfl.NewGames != 0 || nfl.OpeningsCaptured != 0 || nfl.GamesProcessed != 1 {
		t.Fatalf("nfl=%+v", nfl)
	}
	row, _ := f.games.ReadLatest(context.Background(), "nfl_evt1")
	if row.OpeningSpread != -3 || row.OpeningHomeML != -150 || row.OpeningSource != model.OpeningSourceLedger {
		t.Fatalf("opening overwritten: %+v", row)
	}
	if row.Spread != -7 || row.HomeML != -300 {
		t.Fatalf("current lines not refreshed: %+v", row)
	}
	if n := len(f.games.versions("nfl_evt1")); n != 2 {
		t.Fatalf("versions=%d want 2", n)
	}
	if len(f.openings.rows) != 1 {
		t.Fatalf("ledger rows=%d want 1", len(f.openings.rows))
	}
}

func TestSyncService_DegenerateLinesFallBackUntilRealLines(t *testing.T) {
	f := newSyncFixture(t)
	start := f.now.Add(24 * time.Hour)
	f.odds.games["nfl"] = []model.OddsAPIGame{testGame("evt2", start, bookOf("dk", spreadsMarket(0, -110, -110)))}
	f.svc.Run(context.Background())

	row, _ := f.games.ReadLatest(context.Background(), "nfl_evt2")
	if row == nil || row.OpeningSource != model.OpeningSourceConsensusFallback {
		t.Fatalf("row=%+v", row)
	}
	if len(f.openings.rows) != 0 {
		t.Fatalf("degenerate quote must not reach the ledger")
	}

	f.setNow(f.now.Add(time.Hour))
	f.odds.games["nfl"] = []model.OddsAPIGame{testGame("evt2", start, fullBook("dk", -1.5, -120, 100))}
	summary := f.svc.Run(context.Background())
	if resultFor(t, summary, "nfl").OpeningsCaptured != 1 {
		t.Fatalf("expected capture once real lines appear")
	}
	row, _ = f.games.ReadLatest(context.Background(), "nfl_evt2")
	if row.OpeningSource != model.OpeningSourceCaptured || row.OpeningSpread != -1.5 {
		t.Fatalf("row=%+v", row)
	}
}

func TestSyncService_SkipsFinishedGames(t *testing.T) {
	f := newSyncFixture(t)
	start := f.now.Add(-5 * time.Hour)
	_ = f.games.AppendVersion(context.Background(), &model.Game{GameID: "nfl_evt3", Sport: "nfl", GameTime: start, Status: model.GameStatusCompleted, UpdatedAt: f.now.Add(-time.Hour)})
	f.odds.games["nfl"] = []model.OddsAPIGame{testGame("evt3", start, fullBook("dk", -3, -150, 130))}

	summary := f.svc.Run(context.Background())
	if nfl := resultFor(t, summary, "nfl"); nfl.GamesProcessed != 0 {
		t.Fatalf("nfl=%+v", nfl)
	}
	if n := len(f.games.versions("nfl_evt3")); n != 1 {
		t.Fatalf("versions=%d want 1", n)
	}
	if len(f.snapshots.rows) != 0 {
		t.Fatalf("finished game must not be snapshotted")
	}
}

func TestSyncService_TeamFailureStillSnapshots(t *testing.T) {
	f := newSyncFixture(t)
	f.teams.createErr = errStub
	f.odds.games["nfl"] = []model.OddsAPIGame{testGame("evt4", f.now.Add(48*time.Hour), fullBook("dk", -3, -150, 130))}

	summary := f.svc.Run(context.Background())
	nfl := resultFor(t, summary, "nfl")
	if nfl.Errors != 1 || nfl.NewGames != 0 || nfl.OpeningsCaptured != 1 {
		t.Fatalf("nfl=%+v", nfl)
	}
	if row, _ := f.games.ReadLatest(context.Background(), "nfl_evt4"); row != nil {
		t.Fatalf("row must not be written without teams")
	}
	if len(f.snapshots.rows) != 1 {
		t.Fatalf("snapshot must still be written")
	}
}

func TestSyncService_SnapshotFailureDoesNotBlockRow(t *testing.T) {
	f := newSyncFixture(t)
	f.snapshots.appendErr = errStub
	f.odds.games["nfl"] = []model.OddsAPIGame{
		testGame("evt5", f.now.Add(48*time.Hour), fullBook("dk", -3, -150, 130)),
		testGame("evt6", f.now.Add(50*time.Hour)),
	}

	summary := f.svc.Run(context.Background())
	nfl := resultFor(t, summary, "nfl")
	if nfl.Errors != 1 || nfl.NewGames != 1 || nfl.GamesProcessed != 1 {
		t.Fatalf("nfl=%+v", nfl)
	}
	if !summary.Success {
		t.Fatalf("partial failure must still report success")
	}
}

func TestSyncService_NoGamesAndLifecycle(t *testing.T) {
	f := newSyncFixture(t)
	_ = f.games.AppendVersion(context.Background(), &model.Game{GameID: "nba_old", Sport: "nba", GameTime: f.now.Add(-6 * time.Hour), Status: model.GameStatusUpcoming, UpdatedAt: f.now.Add(-7 * time.Hour)})

	summary := f.svc.Run(context.Background())
	if nfl := resultFor(t, summary, "nfl"); nfl.Status != model.SportStatusNoGames {
		t.Fatalf("nfl=%+v", nfl)
	}
	if summary.Lifecycle.Completed != 1 {
		t.Fatalf("lifecycle=%+v", summary.Lifecycle)
	}
	if summary.Duration == "" {
		t.Fatalf("duration missing")
	}
}
