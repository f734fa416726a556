package sportsdata

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"LineSync/internal/config"
	"LineSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func nflConfig() *config.SportConfig {
	return &config.SportConfig{Sport: "nfl", SplitsPath: "nfl", ScheduleEndpoint: "ScoresByDate", SplitsEndpoint: "BettingSplitsByScoreId"}
}

func TestFetchSchedule_AggregatesDays(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "sk" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "2026-10-19"):
			_, _ = w.Write([]byte(`[{"ScoreID": 501, "GameID": 9001, "HomeTeam": "KC", "AwayTeam": "BUF", "Status": "Scheduled"}]`))
		case strings.HasSuffix(r.URL.Path, "2026-10-20"):
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write([]byte(`[{"ScoreID": 502, "GameID": 9002, "HomeTeam": "DAL", "AwayTeam": "NYG"}]`))
		}
	}))
	defer srv.Close()

	a := NewSportsDataAdapter(&config.ProviderConfig{BaseURL: srv.URL, AuthKey: "sk"}, testLogger())
	from := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	games, err := a.FetchSchedule(context.Background(), nflConfig(), from, from.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("FetchSchedule err=%v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("requests=%d want 3 (%v)", len(paths), paths)
	}
	if paths[0] != "/v3/nfl/scores/json/ScoresByDate/2026-10-19" {
		t.Fatalf("path=%s", paths[0])
	}
	if len(games) != 2 || games[0].ScoreID != 501 || games[1].HomeTeam != "DAL" {
		t.Fatalf("games=%+v", games)
	}
}

func TestFetchSchedule_AllDaysFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	a := NewSportsDataAdapter(&config.ProviderConfig{BaseURL: srv.URL, AuthKey: "sk"}, testLogger())
	from := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	if _, err := a.FetchSchedule(context.Background(), nflConfig(), from, from.AddDate(0, 0, 1)); err == nil {
		t.Fatalf("expected error when every day fails")
	}
}

func TestFetchSplits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/nfl/odds/json/BettingSplitsByScoreId/501":
			_, _ = w.Write([]byte(`{"ScoreId": 501, "HomeTeam": "KC", "AwayTeam": "BUF", "BettingMarketSplits": [
			  {"BettingBetType": "Spread", "BettingPeriodType": "Full Game", "BettingSplits": [
			    {"BettingOutcomeType": "Home", "BetPercentage": 64, "MoneyPercentage": null},
			    {"BettingOutcomeType": "Away", "BetPercentage": 36, "MoneyPercentage": 48}
			  ]}]}`))
		case "/v3/nfl/odds/json/BettingSplitsByScoreId/502":
			_, _ = w.Write([]byte(`{"ScoreId": 502, "BettingMarketSplits": []}`))
		case "/v3/nfl/odds/json/BettingSplitsByScoreId/503":
			_, _ = w.Write([]byte(`null`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a := NewSportsDataAdapter(&config.ProviderConfig{BaseURL: srv.URL, AuthKey: "sk"}, testLogger())
	ctx := context.Background()

	got, err := a.FetchSplits(ctx, nflConfig(), 501)
	if err != nil {
		t.Fatalf("FetchSplits err=%v", err)
	}
	home := got.BettingMarketSplits[0].BettingSplits[0]
	if home.BetPercentage == nil || *home.BetPercentage != 64 || home.MoneyPercentage != nil {
		t.Fatalf("home split=%+v", home)
	}
	if got.BettingMarketSplits[0].BettingPeriod != "Full Game" {
		t.Fatalf("period=%q", got.BettingMarketSplits[0].BettingPeriod)
	}

	for _, id := range []int64{502, 503, 504} {
		if _, err := a.FetchSplits(ctx, nflConfig(), id); !errors.Is(err, interfaces.ErrNoData) {
			t.Fatalf("id=%d err=%v want ErrNoData", id, err)
		}
	}
}

func TestFetchSplits_MissingKey(t *testing.T) {
	a := NewSportsDataAdapter(&config.ProviderConfig{BaseURL: "http://127.0.0.1:1"}, testLogger())
	_, err := a.FetchSplits(context.Background(), nflConfig(), 1)
	if err == nil || errors.Is(err, interfaces.ErrNoData) {
		t.Fatalf("err=%v want configuration error", err)
	}
}
