package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/fplmate/fpl-live/internal/domain/catalog"
	"github.com/fplmate/fpl-live/internal/domain/entry"
	"github.com/fplmate/fpl-live/internal/domain/picks"
	"github.com/fplmate/fpl-live/internal/platform/logging"
)

const defaultTransferWorkerCount = 4

// Stat kinds served by the analytics views.
const (
	StatKindOwnership     = "ownership"
	StatKindCaptains      = "captains"
	StatKindTransfers     = "transfers"
	StatKindRankings      = "rankings"
	StatKindUniquePlayers = "unique-players"
	StatKindClubs         = "clubs"
)

// AnalyticsService computes league-wide views across every team's picks:
// who owns whom, who captained whom, transfer churn and club spread.
type AnalyticsService struct {
	catalog         *CatalogService
	league          *LeagueService
	scoring         *ScoringService
	transferWorkers int
	logger          *logging.Logger
}

func NewAnalyticsService(
	catalogService *CatalogService,
	leagueService *LeagueService,
	scoringService *ScoringService,
	transferWorkers int,
	logger *logging.Logger,
) *AnalyticsService {
	if transferWorkers <= 0 {
		transferWorkers = defaultTransferWorkerCount
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AnalyticsService{
		catalog:         catalogService,
		league:          leagueService,
		scoring:         scoringService,
		transferWorkers: transferWorkers,
		logger:          logger,
	}
}

// StatKinds lists the analytics views in a fixed order.
func (s *AnalyticsService) StatKinds() []string {
	return []string{
		StatKindOwnership,
		StatKindCaptains,
		StatKindTransfers,
		StatKindRankings,
		StatKindUniquePlayers,
		StatKindClubs,
	}
}

// PlayerOwnership is one player's spread across the league's squads.
type PlayerOwnership struct {
	ElementID          int64
	PlayerName         string
	ClubName           string
	Position           catalog.Position
	Owners             int
	Starters           int
	Captains           int
	OwnershipPct       float64
	EffectiveOwnership float64
}

// CaptainChoice is one player's captaincy share across the league.
type CaptainChoice struct {
	ElementID  int64
	PlayerName string
	ClubName   string
	Count      int
	Pct        float64
	Managers   []string
}

// PlayerTransferCount is transfer churn on one player in one gameweek.
type PlayerTransferCount struct {
	ElementID  int64
	PlayerName string
	In         int
	Out        int
}

// TransferActivity is the league's transfer churn for one gameweek.
type TransferActivity struct {
	Gameweek      int
	Entries       int
	FailedEntries int
	TotalMoves    int
	Players       []PlayerTransferCount
}

// ManagerRanking is one team ranked by net gameweek points.
type ManagerRanking struct {
	Rank         int
	EntryID      int64
	TeamName     string
	ManagerName  string
	LivePoints   int
	TransferCost int
	NetPoints    int
}

// UniqueHolding lists the players only one squad in the league owns.
type UniqueHolding struct {
	EntryID     int64
	TeamName    string
	ManagerName string
	Players     []string
}

// ClubPickShare is how many picks one real club attracts league-wide.
type ClubPickShare struct {
	ClubID    int64
	ClubName  string
	ShortName string
	Picks     int
	Pct       float64
}

// EffectiveOwnership reports each owned player's plain and
// multiplier-weighted ownership for a gameweek. Percentages are against
// the number of teams whose picks could be fetched.
func (s *AnalyticsService) EffectiveOwnership(ctx context.Context, gameweek int) ([]PlayerOwnership, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.EffectiveOwnership")
	defer span.End()

	selections, err := s.gatherSelections(ctx, gameweek)
	if err != nil {
		return nil, err
	}
	if len(selections) == 0 {
		return nil, fmt.Errorf("%w: no selections for gameweek %d", ErrInsufficientData, gameweek)
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	type tally struct {
		owners     int
		starters   int
		captains   int
		multiplier int
	}
	byElement := make(map[int64]*tally)
	for _, sel := range selections {
		for _, p := range sel.picks.Picks {
			t := byElement[p.ElementID]
			if t == nil {
				t = &tally{}
				byElement[p.ElementID] = t
			}
			t.owners++
			t.multiplier += p.Multiplier
			if p.Started() {
				t.starters++
			}
			if p.Multiplier > 1 {
				t.captains++
			}
		}
	}

	teams := float64(len(selections))
	out := make([]PlayerOwnership, 0, len(byElement))
	for elementID, t := range byElement {
		out = append(out, PlayerOwnership{
			ElementID:          elementID,
			PlayerName:         playerName(snap, elementID),
			ClubName:           pickClubName(snap, elementID),
			Position:           playerPosition(snap, elementID),
			Owners:             t.owners,
			Starters:           t.starters,
			Captains:           t.captains,
			OwnershipPct:       round2(float64(t.owners) / teams * 100),
			EffectiveOwnership: round2(float64(t.multiplier) / teams * 100),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EffectiveOwnership != out[j].EffectiveOwnership {
			return out[i].EffectiveOwnership > out[j].EffectiveOwnership
		}
		return out[i].ElementID < out[j].ElementID
	})
	return out, nil
}

// CaptaincyStats groups the league's captain picks per player.
func (s *AnalyticsService) CaptaincyStats(ctx context.Context, gameweek int) ([]CaptainChoice, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.CaptaincyStats")
	defer span.End()

	selections, err := s.gatherSelections(ctx, gameweek)
	if err != nil {
		return nil, err
	}
	if len(selections) == 0 {
		return nil, fmt.Errorf("%w: no selections for gameweek %d", ErrInsufficientData, gameweek)
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	managersByElement := make(map[int64][]string)
	for _, sel := range selections {
		if captain, ok := sel.picks.Captain(); ok {
			managersByElement[captain.ElementID] = append(managersByElement[captain.ElementID], sel.entry.ManagerName)
		}
	}

	teams := float64(len(selections))
	out := make([]CaptainChoice, 0, len(managersByElement))
	for elementID, managers := range managersByElement {
		sort.Strings(managers)
		out = append(out, CaptainChoice{
			ElementID:  elementID,
			PlayerName: playerName(snap, elementID),
			ClubName:   pickClubName(snap, elementID),
			Count:      len(managers),
			Pct:        round1(float64(len(managers)) / teams * 100),
			Managers:   managers,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ElementID < out[j].ElementID
	})
	return out, nil
}

// TransferActivity aggregates the league's transfers for one gameweek.
// Each team's history is fetched through a bounded pool; teams whose
// fetch fails are counted and skipped.
func (s *AnalyticsService) TransferActivity(ctx context.Context, gameweek int) (TransferActivity, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.TransferActivity")
	defer span.End()

	if err := s.league.validateGameweek(ctx, gameweek); err != nil {
		return TransferActivity{}, err
	}
	roster, err := s.league.Roster(ctx)
	if err != nil {
		return TransferActivity{}, err
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return TransferActivity{}, err
	}

	results := make(chan []picks.Transfer, len(roster))
	failed := make(chan int64, len(roster))

	workers := pool.New().WithMaxGoroutines(s.transferWorkers)
	for _, item := range roster {
		item := item
		workers.Go(func() {
			history, err := s.league.EntryTransfers(ctx, item.ID)
			if err != nil {
				s.logger.WarnContext(ctx, "skipping entry in transfer activity",
					"entry_id", item.ID,
					"team_name", item.TeamName,
					"error", err.Error(),
				)
				failed <- item.ID
				return
			}
			results <- history
		})
	}
	workers.Wait()
	close(results)
	close(failed)

	failedCount := 0
	for range failed {
		failedCount++
	}

	inByElement := make(map[int64]int)
	outByElement := make(map[int64]int)
	totalMoves := 0
	for history := range results {
		for _, t := range history {
			if t.Gameweek != gameweek {
				continue
			}
			inByElement[t.ElementIn]++
			outByElement[t.ElementOut]++
			totalMoves++
		}
	}

	seen := make(map[int64]struct{}, len(inByElement)+len(outByElement))
	players := make([]PlayerTransferCount, 0, len(inByElement)+len(outByElement))
	appendElement := func(elementID int64) {
		if _, ok := seen[elementID]; ok {
			return
		}
		seen[elementID] = struct{}{}
		players = append(players, PlayerTransferCount{
			ElementID:  elementID,
			PlayerName: playerName(snap, elementID),
			In:         inByElement[elementID],
			Out:        outByElement[elementID],
		})
	}
	for elementID := range inByElement {
		appendElement(elementID)
	}
	for elementID := range outByElement {
		appendElement(elementID)
	}

	sort.SliceStable(players, func(i, j int) bool {
		left := players[i].In + players[i].Out
		right := players[j].In + players[j].Out
		if left != right {
			return left > right
		}
		return players[i].ElementID < players[j].ElementID
	})

	return TransferActivity{
		Gameweek:      gameweek,
		Entries:       len(roster) - failedCount,
		FailedEntries: failedCount,
		TotalMoves:    totalMoves,
		Players:       players,
	}, nil
}

// ManagerRankings orders the league by net gameweek points.
func (s *AnalyticsService) ManagerRankings(ctx context.Context, gameweek int) ([]ManagerRanking, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.ManagerRankings")
	defer span.End()

	scores, err := s.scoring.GameweekScores(ctx, gameweek)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].NetPoints > scores[j].NetPoints
	})

	out := make([]ManagerRanking, 0, len(scores))
	for idx, score := range scores {
		out = append(out, ManagerRanking{
			Rank:         idx + 1,
			EntryID:      score.EntryID,
			TeamName:     score.TeamName,
			ManagerName:  score.ManagerName,
			LivePoints:   score.LivePoints,
			TransferCost: score.TransferCost,
			NetPoints:    score.NetPoints,
		})
	}
	return out, nil
}

// UniquePlayers lists, per team, the players no other squad owns.
func (s *AnalyticsService) UniquePlayers(ctx context.Context, gameweek int) ([]UniqueHolding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.UniquePlayers")
	defer span.End()

	selections, err := s.gatherSelections(ctx, gameweek)
	if err != nil {
		return nil, err
	}
	if len(selections) == 0 {
		return nil, fmt.Errorf("%w: no selections for gameweek %d", ErrInsufficientData, gameweek)
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	owners := make(map[int64]int)
	for _, sel := range selections {
		for _, p := range sel.picks.Picks {
			owners[p.ElementID]++
		}
	}

	out := make([]UniqueHolding, 0, len(selections))
	for _, sel := range selections {
		unique := make([]string, 0)
		for _, p := range sel.picks.Picks {
			if owners[p.ElementID] == 1 {
				unique = append(unique, playerName(snap, p.ElementID))
			}
		}
		if len(unique) == 0 {
			continue
		}
		sort.Strings(unique)
		out = append(out, UniqueHolding{
			EntryID:     sel.entry.ID,
			TeamName:    sel.entry.TeamName,
			ManagerName: sel.entry.ManagerName,
			Players:     unique,
		})
	}
	return out, nil
}

// ClubRepresentation counts how many picks each real club attracts.
func (s *AnalyticsService) ClubRepresentation(ctx context.Context, gameweek int) ([]ClubPickShare, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.ClubRepresentation")
	defer span.End()

	selections, err := s.gatherSelections(ctx, gameweek)
	if err != nil {
		return nil, err
	}
	if len(selections) == 0 {
		return nil, fmt.Errorf("%w: no selections for gameweek %d", ErrInsufficientData, gameweek)
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	picksByClub := make(map[int64]int)
	totalPicks := 0
	for _, sel := range selections {
		for _, p := range sel.picks.Picks {
			player, ok := snap.Player(p.ElementID)
			if !ok {
				continue
			}
			picksByClub[player.ClubID]++
			totalPicks++
		}
	}
	if totalPicks == 0 {
		return nil, fmt.Errorf("%w: no picks resolved for gameweek %d", ErrInsufficientData, gameweek)
	}

	out := make([]ClubPickShare, 0, len(picksByClub))
	for clubID, count := range picksByClub {
		share := ClubPickShare{
			ClubID:   clubID,
			ClubName: clubName(snap, clubID),
			Picks:    count,
			Pct:      round2(float64(count) / float64(totalPicks) * 100),
		}
		if club, ok := snap.Club(clubID); ok {
			share.ShortName = club.ShortName
		}
		out = append(out, share)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Picks != out[j].Picks {
			return out[i].Picks > out[j].Picks
		}
		return out[i].ClubID < out[j].ClubID
	})
	return out, nil
}

type entrySelection struct {
	entry entry.Entry
	picks picks.EntryGameweek
}

// gatherSelections fetches every team's picks for a gameweek through a
// bounded pool, skipping teams whose fetch fails.
func (s *AnalyticsService) gatherSelections(ctx context.Context, gameweek int) ([]entrySelection, error) {
	if err := s.league.validateGameweek(ctx, gameweek); err != nil {
		return nil, err
	}
	roster, err := s.league.Roster(ctx)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return []entrySelection{}, nil
	}

	results := make(chan entrySelection, len(roster))
	workers := pool.New().WithMaxGoroutines(s.transferWorkers)
	for _, item := range roster {
		item := item
		workers.Go(func() {
			eg, err := s.league.EntryGameweek(ctx, item.ID, gameweek)
			if err != nil {
				s.logger.WarnContext(ctx, "skipping entry in analytics",
					"entry_id", item.ID,
					"team_name", item.TeamName,
					"gameweek", gameweek,
					"error", err.Error(),
				)
				return
			}
			results <- entrySelection{entry: item, picks: eg}
		})
	}
	workers.Wait()
	close(results)

	out := make([]entrySelection, 0, len(roster))
	for sel := range results {
		out = append(out, sel)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].entry.Rank < out[j].entry.Rank
	})
	return out, nil
}
