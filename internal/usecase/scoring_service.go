package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fplmate/fpl-live/internal/domain/catalog"
	"github.com/fplmate/fpl-live/internal/domain/entry"
	"github.com/fplmate/fpl-live/internal/domain/livestats"
	"github.com/fplmate/fpl-live/internal/domain/picks"
	"github.com/fplmate/fpl-live/internal/platform/logging"
)

const defaultPicksWorkerCount = 8

// ScoringService turns raw live counters into fantasy points and computes
// each team's in-play score for a gameweek. Official figures stay untouched;
// live numbers are layered on top of them.
type ScoringService struct {
	provider    FantasyProvider
	catalog     *CatalogService
	league      *LeagueService
	liveRepo    livestats.Repository
	workerCount int
	logger      *logging.Logger
	now         func() time.Time
}

func NewScoringService(
	provider FantasyProvider,
	catalogService *CatalogService,
	leagueService *LeagueService,
	liveRepo livestats.Repository,
	workerCount int,
	logger *logging.Logger,
) *ScoringService {
	if workerCount <= 0 {
		workerCount = defaultPicksWorkerCount
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		provider:    provider,
		catalog:     catalogService,
		league:      leagueService,
		liveRepo:    liveRepo,
		workerCount: workerCount,
		logger:      logger,
		now:         time.Now,
	}
}

// EntryLiveScore is one team's live line for a gameweek. PreviousRank is
// the tie-stable order published with the last upstream standings.
type EntryLiveScore struct {
	EntryID          int64
	TeamName         string
	ManagerName      string
	Gameweek         int
	LivePoints       int
	OriginalPoints   int
	PointsDifference int
	IsLive           bool
	TransferCost     int
	NetPoints        int
	Transfers        int
	TotalPoints      int
	LiveTotalPoints  int
	OverallRank      int
	PreviousRank     int
	CaptainName      string
	ActiveChip       string
	TeamValue        float64
	Bank             float64
}

// PickLivePoints is one squad slot with its resolved live points.
type PickLivePoints struct {
	ElementID     int64
	PlayerName    string
	ClubName      string
	Position      catalog.Position
	SlotPosition  int
	Multiplier    int
	IsCaptain     bool
	IsViceCaptain bool
	IsStarter     bool
	Minutes       int
	BasePoints    int
	CountedPoints int
}

// EntryLiveBreakdown pairs a team's live score with its pick-by-pick detail.
// CaptainPoints is the captain's multiplied contribution; ViceCaptainPoints
// is the vice captain's own line without the multiplier.
type EntryLiveBreakdown struct {
	Score             EntryLiveScore
	Picks             []PickLivePoints
	CaptainPoints     int
	ViceCaptainPoints int
}

// PlayerLine is one player's resolved live line with identity attached.
// Points is the effective figure; DerivedPoints is always recomputed from
// the raw counters so the two can be compared.
type PlayerLine struct {
	ElementID     int64
	PlayerName    string
	ClubName      string
	Position      catalog.Position
	Stats         livestats.Stats
	Points        int
	DerivedPoints int
}

// LiveSheet returns the live counters for a gameweek, served from a short
// cache so bursts of reads hit upstream once.
func (s *ScoringService) LiveSheet(ctx context.Context, gameweek int) (livestats.Sheet, error) {
	if err := s.league.validateGameweek(ctx, gameweek); err != nil {
		return livestats.Sheet{}, err
	}

	return s.liveRepo.GetOrLoad(ctx, gameweek, func(ctx context.Context) (livestats.Sheet, error) {
		elements, err := s.provider.FetchLiveEvent(ctx, gameweek)
		if err != nil {
			return livestats.Sheet{}, fmt.Errorf("fetch live event gameweek=%d: %w", gameweek, err)
		}

		sheet := livestats.Sheet{
			Gameweek: gameweek,
			Elements: make(map[int64]livestats.PlayerLive, len(elements)),
		}
		for _, item := range elements {
			sheet.Elements[item.ElementID] = livestats.PlayerLive{
				ElementID:   item.ElementID,
				Stats:       mapLiveStats(item.Stats),
				TotalPoints: item.TotalPoints,
			}
		}
		return sheet, nil
	})
}

// InvalidateLive drops the cached sheet for a gameweek so the next read
// fetches fresh counters.
func (s *ScoringService) InvalidateLive(ctx context.Context, gameweek int) {
	s.liveRepo.Invalidate(ctx, gameweek)
}

// EntryScore computes one team's live score for a gameweek.
func (s *ScoringService) EntryScore(ctx context.Context, entryID int64, gameweek int) (EntryLiveScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.EntryScore")
	defer span.End()

	e, err := s.league.Entry(ctx, entryID)
	if err != nil {
		return EntryLiveScore{}, err
	}
	eg, err := s.league.EntryGameweek(ctx, entryID, gameweek)
	if err != nil {
		return EntryLiveScore{}, err
	}
	sheet, err := s.LiveSheet(ctx, gameweek)
	if err != nil {
		return EntryLiveScore{}, err
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return EntryLiveScore{}, err
	}

	return buildEntryScore(e, eg, sheet, snap), nil
}

// EntryBreakdown computes one team's live score together with every pick's
// own line. Bench picks appear with zero counted points.
func (s *ScoringService) EntryBreakdown(ctx context.Context, entryID int64, gameweek int) (EntryLiveBreakdown, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.EntryBreakdown")
	defer span.End()

	e, err := s.league.Entry(ctx, entryID)
	if err != nil {
		return EntryLiveBreakdown{}, err
	}
	eg, err := s.league.EntryGameweek(ctx, entryID, gameweek)
	if err != nil {
		return EntryLiveBreakdown{}, err
	}
	sheet, err := s.LiveSheet(ctx, gameweek)
	if err != nil {
		return EntryLiveBreakdown{}, err
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return EntryLiveBreakdown{}, err
	}

	rows := make([]PickLivePoints, 0, len(eg.Picks))
	captainPoints := 0
	vicePoints := 0
	for _, p := range eg.Picks {
		base, minutes := resolvePickPoints(p.ElementID, sheet, snap)
		counted := 0
		if p.Started() {
			counted = base * p.Multiplier
			if p.IsCaptain {
				captainPoints = counted
			} else if p.IsViceCaptain {
				vicePoints = base
			}
		}
		rows = append(rows, PickLivePoints{
			ElementID:     p.ElementID,
			PlayerName:    playerName(snap, p.ElementID),
			ClubName:      pickClubName(snap, p.ElementID),
			Position:      playerPosition(snap, p.ElementID),
			SlotPosition:  p.SlotPosition,
			Multiplier:    p.Multiplier,
			IsCaptain:     p.IsCaptain,
			IsViceCaptain: p.IsViceCaptain,
			IsStarter:     p.Started(),
			Minutes:       minutes,
			BasePoints:    base,
			CountedPoints: counted,
		})
	}

	return EntryLiveBreakdown{
		Score:             buildEntryScore(e, eg, sheet, snap),
		Picks:             rows,
		CaptainPoints:     captainPoints,
		ViceCaptainPoints: vicePoints,
	}, nil
}

// GameweekScores computes every team's live score for a gameweek in
// parallel. Teams whose data cannot be fetched are logged and left out
// rather than reported with made-up zeros.
func (s *ScoringService) GameweekScores(ctx context.Context, gameweek int) ([]EntryLiveScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GameweekScores")
	defer span.End()

	roster, err := s.league.Roster(ctx)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return []EntryLiveScore{}, nil
	}
	sheet, err := s.LiveSheet(ctx, gameweek)
	if err != nil {
		return nil, err
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	workerCount := s.workerCount
	if workerCount > len(roster) {
		workerCount = len(roster)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan EntryLiveScore, len(roster))
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, item := range roster {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			eg, err := s.league.EntryGameweek(ctx, item.ID, gameweek)
			if err != nil {
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "skipping entry in live scores",
					"entry_id", item.ID,
					"team_name", item.TeamName,
					"gameweek", gameweek,
					"error", err.Error(),
				)
				return
			}
			results <- buildEntryScore(item, eg, sheet, snap)
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit entry to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := make([]EntryLiveScore, 0, len(roster))
	for row := range results {
		out = append(out, row)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: all %d entries failed for gameweek %d", ErrUpstreamUnavailable, len(roster), gameweek)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OverallRank < out[j].OverallRank
	})

	if failed := int(failedCount.Load()); failed > 0 {
		s.logger.WarnContext(ctx, "live scores computed with gaps",
			"gameweek", gameweek,
			"entries", len(out),
			"failed", failed,
		)
	}
	return out, nil
}

// GameweekPlayers lists every player's resolved live line for a gameweek,
// highest points first.
func (s *ScoringService) GameweekPlayers(ctx context.Context, gameweek int) ([]PlayerLine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GameweekPlayers")
	defer span.End()

	sheet, err := s.LiveSheet(ctx, gameweek)
	if err != nil {
		return nil, err
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PlayerLine, 0, len(sheet.Elements))
	for _, pl := range sheet.Elements {
		position := playerPosition(snap, pl.ElementID)
		out = append(out, PlayerLine{
			ElementID:     pl.ElementID,
			PlayerName:    playerName(snap, pl.ElementID),
			ClubName:      pickClubName(snap, pl.ElementID),
			Position:      position,
			Stats:         pl.Stats,
			Points:        playerLivePoints(position, pl),
			DerivedPoints: derivePlayerPoints(position, pl.Stats),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].ElementID < out[j].ElementID
	})
	return out, nil
}

// buildEntryScore lays live points over the recorded figures. An empty live
// sheet means no in-play data exists yet, so the recorded points stand and
// the row is marked not live.
func buildEntryScore(e entry.Entry, eg picks.EntryGameweek, sheet livestats.Sheet, snap catalog.Snapshot) EntryLiveScore {
	live := len(sheet.Elements) > 0
	livePoints := eg.History.Points
	if live {
		livePoints = 0
		for _, p := range eg.Picks {
			if !p.Started() {
				continue
			}
			base, _ := resolvePickPoints(p.ElementID, sheet, snap)
			livePoints += base * p.Multiplier
		}
	}

	captainName := ""
	if captain, ok := eg.Captain(); ok {
		captainName = playerName(snap, captain.ElementID)
	}

	return EntryLiveScore{
		EntryID:          e.ID,
		TeamName:         e.TeamName,
		ManagerName:      e.ManagerName,
		Gameweek:         eg.Gameweek,
		LivePoints:       livePoints,
		OriginalPoints:   eg.History.Points,
		PointsDifference: livePoints - eg.History.Points,
		IsLive:           live,
		TransferCost:     eg.History.TransferCost,
		NetPoints:        livePoints - eg.History.TransferCost,
		Transfers:        eg.History.Transfers,
		TotalPoints:      e.TotalPoints,
		LiveTotalPoints:  e.TotalPoints - eg.History.Points + livePoints,
		OverallRank:      e.Rank,
		PreviousRank:     e.RankSort,
		CaptainName:      captainName,
		ActiveChip:       eg.ActiveChip,
		TeamValue:        float64(eg.History.Value) / 10,
		Bank:             float64(eg.History.Bank) / 10,
	}
}

// resolvePickPoints looks one element up in the live sheet and returns its
// points and minutes. A player absent from the sheet scores zero.
func resolvePickPoints(elementID int64, sheet livestats.Sheet, snap catalog.Snapshot) (int, int) {
	pl, ok := sheet.Lookup(elementID)
	if !ok {
		return 0, 0
	}
	return playerLivePoints(playerPosition(snap, elementID), pl), pl.Stats.Minutes
}

// playerLivePoints prefers the upstream points figure when the feed carries
// one and derives from raw counters otherwise.
func playerLivePoints(position catalog.Position, pl livestats.PlayerLive) int {
	if pl.TotalPoints != nil {
		return *pl.TotalPoints
	}
	return derivePlayerPoints(position, pl.Stats)
}

// derivePlayerPoints applies the game's scoring rules to raw counters.
// The result never goes below zero.
func derivePlayerPoints(position catalog.Position, st livestats.Stats) int {
	points := 0

	if st.Minutes > 0 {
		points++
		if st.Minutes >= 60 {
			points++
		}
	}

	switch position {
	case catalog.PositionGoalkeeper:
		points += st.GoalsScored * 6
		if st.CleanSheets > 0 {
			points += 4
		}
		points -= st.GoalsConceded / 2
		points += st.Saves / 3
	case catalog.PositionDefender:
		points += st.GoalsScored * 6
		if st.CleanSheets > 0 {
			points += 4
		}
		points -= st.GoalsConceded / 2
	case catalog.PositionMidfielder:
		points += st.GoalsScored * 5
		if st.CleanSheets > 0 {
			points++
		}
	case catalog.PositionForward:
		points += st.GoalsScored * 4
	}

	points += st.Assists * 3
	points += st.PenaltiesSaved * 5
	points -= st.PenaltiesMissed * 2
	points -= st.YellowCards
	points -= st.RedCards * 3
	points -= st.OwnGoals * 2
	points += st.Bonus

	if points < 0 {
		points = 0
	}
	return points
}

// pickClubName resolves the club name for an element via the catalog.
func pickClubName(snap catalog.Snapshot, elementID int64) string {
	if p, ok := snap.Player(elementID); ok {
		return clubName(snap, p.ClubID)
	}
	return "Unknown"
}

func mapLiveStats(st ExternalLiveStats) livestats.Stats {
	return livestats.Stats{
		Minutes:         st.Minutes,
		GoalsScored:     st.GoalsScored,
		Assists:         st.Assists,
		CleanSheets:     st.CleanSheets,
		GoalsConceded:   st.GoalsConceded,
		OwnGoals:        st.OwnGoals,
		PenaltiesSaved:  st.PenaltiesSaved,
		PenaltiesMissed: st.PenaltiesMissed,
		YellowCards:     st.YellowCards,
		RedCards:        st.RedCards,
		Saves:           st.Saves,
		Bonus:           st.Bonus,
		BPS:             st.BPS,
	}
}
