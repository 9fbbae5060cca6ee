package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fplmate/fpl-live/internal/infrastructure/repository/memory"
	"github.com/fplmate/fpl-live/internal/platform/logging"
)

const testLeagueID = int64(321)

// stubProvider serves canned upstream payloads and counts every call so
// tests can assert caching behavior.
type stubProvider struct {
	mu sync.Mutex

	bootstrap    ExternalBootstrap
	bootstrapErr error

	standings    ExternalLeagueStandings
	standingsErr error

	picksByKey       map[string]ExternalEntryPicks
	picksErrByID     map[int64]error
	transfersByID    map[int64][]ExternalTransfer
	transferErrsByID map[int64]error
	liveByGameweek   map[int][]ExternalLiveElement
	liveErr          error

	bootstrapCalls int
	standingsCalls int
	picksCalls     map[string]int
	transferCalls  map[int64]int
	liveCalls      map[int]int
}

func (s *stubProvider) FetchBootstrap(_ context.Context) (ExternalBootstrap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bootstrapCalls++
	if s.bootstrapErr != nil {
		return ExternalBootstrap{}, s.bootstrapErr
	}
	return s.bootstrap, nil
}

func (s *stubProvider) FetchLeagueStandings(_ context.Context, _ int64) (ExternalLeagueStandings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.standingsCalls++
	if s.standingsErr != nil {
		return ExternalLeagueStandings{}, s.standingsErr
	}
	return s.standings, nil
}

func (s *stubProvider) FetchEntryPicks(_ context.Context, entryID int64, gameweek int) (ExternalEntryPicks, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := picksKey(entryID, gameweek)
	s.picksCalls[key]++
	if err := s.picksErrByID[entryID]; err != nil {
		return ExternalEntryPicks{}, err
	}
	dto, ok := s.picksByKey[key]
	if !ok {
		return ExternalEntryPicks{}, fmt.Errorf("no stub picks for %s", key)
	}
	return dto, nil
}

func (s *stubProvider) FetchEntryTransfers(_ context.Context, entryID int64) ([]ExternalTransfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transferCalls[entryID]++
	if err := s.transferErrsByID[entryID]; err != nil {
		return nil, err
	}
	return s.transfersByID[entryID], nil
}

func (s *stubProvider) FetchLiveEvent(_ context.Context, gameweek int) ([]ExternalLiveElement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveCalls[gameweek]++
	if s.liveErr != nil {
		return nil, s.liveErr
	}
	return s.liveByGameweek[gameweek], nil
}

func (s *stubProvider) setBootstrapErr(err error) {
	s.mu.Lock()
	s.bootstrapErr = err
	s.mu.Unlock()
}

func (s *stubProvider) setStandingsErr(err error) {
	s.mu.Lock()
	s.standingsErr = err
	s.mu.Unlock()
}

func (s *stubProvider) setPicksErr(entryID int64, err error) {
	s.mu.Lock()
	s.picksErrByID[entryID] = err
	s.mu.Unlock()
}

func (s *stubProvider) setTransferErr(entryID int64, err error) {
	s.mu.Lock()
	s.transferErrsByID[entryID] = err
	s.mu.Unlock()
}

func (s *stubProvider) setLiveErr(err error) {
	s.mu.Lock()
	s.liveErr = err
	s.mu.Unlock()
}

func (s *stubProvider) callCounts() (bootstrap, standings int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bootstrapCalls, s.standingsCalls
}

func (s *stubProvider) picksCallCount(entryID int64, gameweek int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.picksCalls[picksKey(entryID, gameweek)]
}

func (s *stubProvider) liveCallCount(gameweek int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveCalls[gameweek]
}

func picksKey(entryID int64, gameweek int) string {
	return fmt.Sprintf("%d:%d", entryID, gameweek)
}

func intPtr(v int) *int { return &v }

// newStubProvider builds a three-team league in gameweek 2 with known live
// numbers:
//
//	Alpha FC   (11, rank 1, total 100): live 51, original 48 -> live total 103
//	Beta Utd   (22, rank 2, total  90): live 29, original 40 -> live total  79
//	Gamma Town (33, rank 3, total  80): live 29, original  2 -> live total 107
//
// so the live season order becomes Gamma, Alpha, Beta.
func newStubProvider() *stubProvider {
	return &stubProvider{
		bootstrap: ExternalBootstrap{
			Players: []ExternalPlayer{
				{ID: 101, FirstName: "David", SecondName: "Raya", WebName: "Raya", ElementType: 1, ClubID: 1, NowCost: 55, TotalPoints: 60},
				{ID: 102, FirstName: "Gabriel", SecondName: "Magalhaes", WebName: "Gabriel", ElementType: 2, ClubID: 1, NowCost: 60, TotalPoints: 55},
				{ID: 103, FirstName: "Bukayo", SecondName: "Saka", WebName: "Saka", ElementType: 3, ClubID: 1, NowCost: 100, TotalPoints: 88},
				{ID: 104, FirstName: "Erling", SecondName: "Haaland", WebName: "Haaland", ElementType: 4, ClubID: 2, NowCost: 151, TotalPoints: 97},
				{ID: 105, FirstName: "Cole", SecondName: "Palmer", WebName: "Palmer", ElementType: 3, ClubID: 3, NowCost: 105, TotalPoints: 80},
				{ID: 106, FirstName: "Josko", SecondName: "Gvardiol", WebName: "Gvardiol", ElementType: 2, ClubID: 2, NowCost: 64, TotalPoints: 51},
				{ID: 107, FirstName: "Ederson", SecondName: "Moraes", WebName: "Ederson", ElementType: 1, ClubID: 2, NowCost: 54, TotalPoints: 48},
			},
			Clubs: []ExternalClub{
				{ID: 1, Name: "Arsenal", ShortName: "ARS"},
				{ID: 2, Name: "Man City", ShortName: "MCI"},
				{ID: 3, Name: "Chelsea", ShortName: "CHE"},
			},
			Gameweeks: []ExternalGameweek{
				{ID: 1, Name: "Gameweek 1", Finished: true},
				{ID: 2, Name: "Gameweek 2", IsCurrent: true},
				{ID: 3, Name: "Gameweek 3", IsNext: true},
				{ID: 4, Name: "Gameweek 4"},
				{ID: 5, Name: "Gameweek 5"},
			},
		},
		standings: ExternalLeagueStandings{
			LeagueID:   testLeagueID,
			LeagueName: "Office Rivals",
			Entries: []ExternalLeagueEntry{
				{EntryID: 11, TeamName: "Alpha FC", PlayerName: "Alice Agu", Rank: 1, LastRank: 2, RankSort: 1, TotalPoints: 100, EventTotal: 48},
				{EntryID: 22, TeamName: "Beta United", PlayerName: "Bob Braga", Rank: 2, LastRank: 1, RankSort: 2, TotalPoints: 90, EventTotal: 40},
				{EntryID: 33, TeamName: "Gamma Town", PlayerName: "Carol Cruz", Rank: 3, LastRank: 3, RankSort: 3, TotalPoints: 80, EventTotal: 2},
			},
			Pending: []ExternalPendingEntry{
				{EntryID: 44, TeamName: "Delta Dreams", PlayerName: "Dan Down"},
			},
		},
		picksByKey: map[string]ExternalEntryPicks{
			picksKey(11, 2): {
				EntryID:  11,
				Gameweek: 2,
				Picks: []ExternalPick{
					{ElementID: 101, SlotPosition: 1, Multiplier: 1},
					{ElementID: 102, SlotPosition: 2, Multiplier: 1},
					{ElementID: 103, SlotPosition: 3, Multiplier: 2, IsCaptain: true},
					{ElementID: 104, SlotPosition: 4, Multiplier: 1, IsViceCaptain: true},
					{ElementID: 106, SlotPosition: 12, Multiplier: 0},
				},
				History: ExternalEntryHistory{
					Points: 48, TotalPoints: 100, OverallRank: 120000,
					Bank: 25, Value: 1003, Transfers: 1, TransferCost: 0,
				},
			},
			picksKey(22, 2): {
				EntryID:  22,
				Gameweek: 2,
				Picks: []ExternalPick{
					{ElementID: 107, SlotPosition: 1, Multiplier: 1},
					{ElementID: 106, SlotPosition: 2, Multiplier: 1},
					{ElementID: 105, SlotPosition: 3, Multiplier: 1, IsViceCaptain: true},
					{ElementID: 104, SlotPosition: 4, Multiplier: 2, IsCaptain: true},
					{ElementID: 103, SlotPosition: 12, Multiplier: 0},
				},
				History: ExternalEntryHistory{
					Points: 40, TotalPoints: 90, OverallRank: 250000,
					Bank: 7, Value: 995, Transfers: 2, TransferCost: 4,
				},
			},
			picksKey(33, 2): {
				EntryID:  33,
				Gameweek: 2,
				Picks: []ExternalPick{
					{ElementID: 101, SlotPosition: 1, Multiplier: 1},
					{ElementID: 102, SlotPosition: 2, Multiplier: 1},
					{ElementID: 103, SlotPosition: 3, Multiplier: 1, IsViceCaptain: true},
					{ElementID: 105, SlotPosition: 4, Multiplier: 2, IsCaptain: true},
					{ElementID: 104, SlotPosition: 12, Multiplier: 0},
				},
				History: ExternalEntryHistory{
					Points: 2, TotalPoints: 80, OverallRank: 480000,
					Bank: 103, Value: 980, Transfers: 0, TransferCost: 0,
				},
			},
		},
		picksErrByID:     map[int64]error{},
		transferErrsByID: map[int64]error{},
		transfersByID: map[int64][]ExternalTransfer{
			11: {
				{EntryID: 11, ElementIn: 104, ElementOut: 105, InCost: 151, OutCost: 105, Gameweek: 2},
			},
			22: {
				{EntryID: 22, ElementIn: 105, ElementOut: 106, InCost: 105, OutCost: 64, Gameweek: 2},
				{EntryID: 22, ElementIn: 107, ElementOut: 101, InCost: 54, OutCost: 55, Gameweek: 2},
				{EntryID: 22, ElementIn: 103, ElementOut: 102, InCost: 100, OutCost: 60, Gameweek: 1},
			},
			33: {},
		},
		liveByGameweek: map[int][]ExternalLiveElement{
			2: {
				// Keeper: 90 min, clean sheet, 6 saves -> 2 + 4 + 2 = 8.
				{ElementID: 101, Stats: ExternalLiveStats{Minutes: 90, CleanSheets: 1, Saves: 6}},
				// Defender: 90 min, clean sheet -> 6.
				{ElementID: 102, Stats: ExternalLiveStats{Minutes: 90, CleanSheets: 1}},
				// Midfielder: 90 min, goal, assist, clean sheet, 2 bonus -> 13.
				{ElementID: 103, Stats: ExternalLiveStats{Minutes: 90, GoalsScored: 1, Assists: 1, CleanSheets: 1, Bonus: 2}},
				// Forward: derivation says 10, upstream figure 11 wins.
				{ElementID: 104, Stats: ExternalLiveStats{Minutes: 90, GoalsScored: 2}, TotalPoints: intPtr(11)},
				// Midfielder: 30 min only -> 1.
				{ElementID: 105, Stats: ExternalLiveStats{Minutes: 30}},
				// Defender: no minutes, red card, own goal -> floored at 0.
				{ElementID: 106, Stats: ExternalLiveStats{RedCards: 1, OwnGoals: 1}},
				// Keeper: 90 min, clean sheet, 2 saves -> 6.
				{ElementID: 107, Stats: ExternalLiveStats{Minutes: 90, CleanSheets: 1, Saves: 2}},
			},
		},
		picksCalls:    map[string]int{},
		transferCalls: map[int64]int{},
		liveCalls:     map[int]int{},
	}
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{t: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// testStack wires the full service graph over in-memory repositories.
type testStack struct {
	provider  *stubProvider
	clock     *fakeClock
	catalog   *CatalogService
	league    *LeagueService
	scoring   *ScoringService
	table     *TableService
	analytics *AnalyticsService
	tracker   *TrackerService
}

func newTestStack(t *testing.T, provider *stubProvider) *testStack {
	t.Helper()

	clock := newFakeClock(time.Date(2026, time.January, 10, 15, 0, 0, 0, time.UTC))
	logger := logging.NewNop()

	catalogService := NewCatalogService(provider, memory.NewCatalogRepository(), logger)
	catalogService.now = clock.Now

	leagueService := NewLeagueService(
		provider,
		catalogService,
		memory.NewEntryRepository(),
		memory.NewPicksRepository(),
		memory.NewTransferRepository(),
		testLeagueID,
		logger,
	)
	leagueService.now = clock.Now

	liveRepo := memory.NewLiveStatsRepositoryWithClock(5*time.Minute, clock.Now)
	scoringService := NewScoringService(provider, catalogService, leagueService, liveRepo, 4, logger)
	scoringService.now = clock.Now

	tableService := NewTableService(catalogService, leagueService, scoringService, logger)
	tableService.now = clock.Now

	analyticsService := NewAnalyticsService(catalogService, leagueService, scoringService, 2, logger)

	trackerService := NewTrackerService(tableService, scoringService, time.Minute, 10, logger)
	trackerService.now = clock.Now

	return &testStack{
		provider:  provider,
		clock:     clock,
		catalog:   catalogService,
		league:    leagueService,
		scoring:   scoringService,
		table:     tableService,
		analytics: analyticsService,
		tracker:   trackerService,
	}
}
