package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"LineSync/internal/config"
	"LineSync/internal/model"
	"LineSync/internal/repository"

	"github.com/sirupsen/logrus"
)

var errStub = errors.New("stub failure")

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// memGameRepo is a test-only append-only store. Every AppendVersion adds a row;
// reads pick the newest version per game_id the same way the SQL repository does.
type memGameRepo struct {
	mu      sync.Mutex
	rows    []model.Game
	nextID  uint64
	failFor map[string]bool
	listErr error
}

func (r *memGameRepo) AppendVersion(ctx context.Context, g *model.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor[g.GameID] {
		return errStub
	}
	r.nextID++
	g.ID = r.nextID
	g.VersionID = fmt.Sprintf("v%d", r.nextID)
	if g.UpdatedAt.IsZero() {
		g.UpdatedAt = time.Now().UTC()
	}
	r.rows = append(r.rows, *g)
	return nil
}

func (r *memGameRepo) ReadLatest(ctx context.Context, gameID string) (*model.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	latest := r.latestLocked()
	if g, ok := latest[gameID]; ok {
		return &g, nil
	}
	return nil, nil
}

func (r *memGameRepo) ListCurrent(ctx context.Context, filter repository.GameFilter, page, pageSize int) ([]*model.Game, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var out []*model.Game
	for _, g := range r.latestLocked() {
		g := g
		if filter.Sport != "" && g.Sport != filter.Sport {
			continue
		}
		if len(filter.Statuses) > 0 && !containsString(filter.Statuses, g.Status) {
			continue
		}
		if filter.StartAfter != nil && !g.GameTime.After(*filter.StartAfter) {
			continue
		}
		if filter.StartNotAfter != nil && g.GameTime.After(*filter.StartNotAfter) {
			continue
		}
		if filter.StartBefore != nil && !g.GameTime.Before(*filter.StartBefore) {
			continue
		}
		out = append(out, &g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].GameTime.Equal(out[j].GameTime) {
			return out[i].GameTime.Before(out[j].GameTime)
		}
		return out[i].GameID < out[j].GameID
	})
	total := int64(len(out))
	if pageSize > 0 {
		if page <= 0 {
			page = 1
		}
		start := (page - 1) * pageSize
		if start > len(out) {
			start = len(out)
		}
		end := start + pageSize
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (r *memGameRepo) latestLocked() map[string]model.Game {
	latest := make(map[string]model.Game)
	for _, g := range r.rows {
		cur, ok := latest[g.GameID]
		if !ok || g.UpdatedAt.After(cur.UpdatedAt) || (g.UpdatedAt.Equal(cur.UpdatedAt) && g.ID > cur.ID) {
			latest[g.GameID] = g
		}
	}
	return latest
}

func (r *memGameRepo) versions(gameID string) []model.Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Game
	for _, g := range r.rows {
		if g.GameID == gameID {
			out = append(out, g)
		}
	}
	return out
}

type memOpeningRepo struct {
	mu      sync.Mutex
	rows    []model.OpeningLine
	nextID  uint64
	readErr error
	appends int
}

func (r *memOpeningRepo) Append(ctx context.Context, line *model.OpeningLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	line.ID = r.nextID
	r.rows = append(r.rows, *line)
	r.appends++
	return nil
}

func (r *memOpeningRepo) ReadFirst(ctx context.Context, gameID string) (*model.OpeningLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readErr != nil {
		return nil, r.readErr
	}
	var first *model.OpeningLine
	for i := range r.rows {
		l := r.rows[i]
		if l.GameID != gameID {
			continue
		}
		if first == nil || l.FirstSeenAt.Before(first.FirstSeenAt) || (l.FirstSeenAt.Equal(first.FirstSeenAt) && l.ID < first.ID) {
			first = &l
		}
	}
	return first, nil
}

type memSnapshotRepo struct {
	mu        sync.Mutex
	rows      []model.OddsSnapshot
	appendErr error
}

func (r *memSnapshotRepo) Append(ctx context.Context, s *model.OddsSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.rows = append(r.rows, *s)
	return nil
}

func (r *memSnapshotRepo) ListByGame(ctx context.Context, gameID string, limit int) ([]*model.OddsSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.OddsSnapshot
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].GameID == gameID {
			s := r.rows[i]
			out = append(out, &s)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type memTeamRepo struct {
	mu        sync.Mutex
	teams     []model.Team
	calls     int
	createErr error
}

func (r *memTeamRepo) FindByName(ctx context.Context, sport, name string) (*model.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for i := range r.teams {
		if r.teams[i].Sport == sport && r.teams[i].Name == name {
			t := r.teams[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (r *memTeamRepo) FindByWord(ctx context.Context, sport, word string) (*model.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return nil, nil
	}
	for i := range r.teams {
		name := strings.ToLower(r.teams[i].Name)
		if r.teams[i].Sport == sport && (strings.HasPrefix(name, w) || strings.Contains(name, " "+w)) {
			t := r.teams[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (r *memTeamRepo) MaxTeamID(ctx context.Context, sport string, floor, ceiling int64) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var maxID int64
	found := false
	for _, t := range r.teams {
		if t.Sport == sport && t.TeamID >= floor && t.TeamID < ceiling && (!found || t.TeamID > maxID) {
			maxID, found = t.TeamID, true
		}
	}
	return maxID, found, nil
}

func (r *memTeamRepo) Create(ctx context.Context, team *model.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	team.ID = uint64(len(r.teams) + 1)
	r.teams = append(r.teams, *team)
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// stubOdds returns canned games per sport code.
type stubOdds struct {
	games map[string][]model.OddsAPIGame
	errs  map[string]error
}

func (s *stubOdds) GetName() string { return "stub-odds" }

func (s *stubOdds) FetchOdds(ctx context.Context, sport *config.SportConfig) ([]model.OddsAPIGame, error) {
	if err := s.errs[sport.Sport]; err != nil {
		return nil, err
	}
	return s.games[sport.Sport], nil
}

// stubSplits serves a fixed schedule and per-id splits.
type stubSplits struct {
	mu          sync.Mutex
	schedule    []model.SplitsScheduleGame
	scheduleErr error
	splits      map[int64]*model.SplitsGame
	errs        map[int64]error
	fetched     []int64
	inFlight    int
	maxInFlight int
	delay       time.Duration
}

func (s *stubSplits) GetName() string { return "stub-splits" }

func (s *stubSplits) FetchSchedule(ctx context.Context, sport *config.SportConfig, from, to time.Time) ([]model.SplitsScheduleGame, error) {
	if s.scheduleErr != nil {
		return nil, s.scheduleErr
	}
	return s.schedule, nil
}

func (s *stubSplits) FetchSplits(ctx context.Context, sport *config.SportConfig, gameID int64) (*model.SplitsGame, error) {
	s.mu.Lock()
	s.fetched = append(s.fetched, gameID)
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	if err := s.errs[gameID]; err != nil {
		return nil, err
	}
	return s.splits[gameID], nil
}

// memSplitsCache counts hits and stores everything in a map.
type memSplitsCache struct {
	mu    sync.Mutex
	items map[string]*model.SplitsGame
	hits  int
}

func (c *memSplitsCache) Get(ctx context.Context, sport string, gameID int64) (*model.SplitsGame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[fmt.Sprintf("%s:%d", sport, gameID)]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *memSplitsCache) Set(ctx context.Context, sport string, gameID int64, splits *model.SplitsGame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string]*model.SplitsGame)
	}
	c.items[fmt.Sprintf("%s:%d", sport, gameID)] = splits
}

// recordingSignals captures every input and returns a fixed set.
type recordingSignals struct {
	mu     sync.Mutex
	inputs []model.SignalInput
	out    model.SignalSet
}

func (s *recordingSignals) Calculate(in *model.SignalInput) model.SignalSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, *in)
	return s.out
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func floatPtr(v float64) *float64 {
	return &v
}
