package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/fplmate/fpl-live/internal/platform/logging"
)

const (
	defaultTopPerformersLimit = 10
	topMoversLimit            = 5
)

// TableService ranks the league from live scores: the running season table,
// the single-gameweek table and the digest numbers around them.
type TableService struct {
	catalog *CatalogService
	league  *LeagueService
	scoring *ScoringService
	logger  *logging.Logger
	now     func() time.Time
}

func NewTableService(
	catalogService *CatalogService,
	leagueService *LeagueService,
	scoringService *ScoringService,
	logger *logging.Logger,
) *TableService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TableService{
		catalog: catalogService,
		league:  leagueService,
		scoring: scoringService,
		logger:  logger,
		now:     time.Now,
	}
}

// SeasonTableRow is one team's line in the live season table. PreviousRank
// is the tie-stable rank from the last published standings; RankChange is
// PreviousRank minus Rank.
type SeasonTableRow struct {
	Rank             int
	PreviousRank     int
	RankChange       int
	EntryID          int64
	TeamName         string
	ManagerName      string
	TotalPoints      int
	LiveTotalPoints  int
	GameweekPoints   int
	IsLive           bool
	PointsDifference int
	CaptainName      string
	TeamValue        float64
	Bank             float64
}

// SeasonTable is the live season standing for the tracked league.
type SeasonTable struct {
	LeagueID    int64
	LeagueName  string
	Gameweek    int
	GeneratedAt time.Time
	Rows        []SeasonTableRow
}

// GameweekTableRow is one team's line in a single-gameweek table, ranked
// by points net of transfer cost.
type GameweekTableRow struct {
	GameweekRank int
	RankMovement int
	EntryID      int64
	TeamName     string
	ManagerName  string
	LivePoints   int
	TransferCost int
	NetPoints    int
	Transfers    int
	OverallRank  int
	CaptainName  string
	ActiveChip   string
	IsLive       bool
}

// GameweekTable ranks the league for one gameweek only.
type GameweekTable struct {
	LeagueID    int64
	LeagueName  string
	Gameweek    int
	GeneratedAt time.Time
	Rows        []GameweekTableRow
}

// TeamPointsLine names a team together with a points figure.
type TeamPointsLine struct {
	EntryID     int64
	TeamName    string
	ManagerName string
	Points      int
}

// TeamTransfersLine names a team together with a transfer count.
type TeamTransfersLine struct {
	EntryID     int64
	TeamName    string
	ManagerName string
	Transfers   int
}

// GameweekSummary is the digest of one gameweek across the league.
type GameweekSummary struct {
	Gameweek              int
	Teams                 int
	AveragePoints         float64
	AverageNetPoints      float64
	AverageTransfers      float64
	HighestScore          TeamPointsLine
	LowestScore           TeamPointsLine
	MostTransfers         TeamTransfersLine
	TeamsWithTransfers    int
	TeamsWithTransfersPct float64
	TotalTransferCost     int
	PointsRange           int
}

// SeasonTable computes the live season standing for the current gameweek.
// Teams are ordered by live season total; RankChange compares against the
// tie-stable rank of the last published standings, positive meaning the
// team climbed.
func (s *TableService) SeasonTable(ctx context.Context) (SeasonTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TableService.SeasonTable")
	defer span.End()

	if err := s.requireSeasonStarted(ctx); err != nil {
		return SeasonTable{}, err
	}
	gameweek, err := s.catalog.CurrentGameweek(ctx)
	if err != nil {
		return SeasonTable{}, err
	}
	info, err := s.league.Info(ctx)
	if err != nil {
		return SeasonTable{}, err
	}
	scores, err := s.scoring.GameweekScores(ctx, gameweek)
	if err != nil {
		return SeasonTable{}, err
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].LiveTotalPoints > scores[j].LiveTotalPoints
	})

	rows := make([]SeasonTableRow, 0, len(scores))
	for idx, score := range scores {
		rank := idx + 1
		rows = append(rows, SeasonTableRow{
			Rank:             rank,
			PreviousRank:     score.PreviousRank,
			RankChange:       score.PreviousRank - rank,
			EntryID:          score.EntryID,
			TeamName:         score.TeamName,
			ManagerName:      score.ManagerName,
			TotalPoints:      score.TotalPoints,
			LiveTotalPoints:  score.LiveTotalPoints,
			GameweekPoints:   score.LivePoints,
			IsLive:           score.IsLive,
			PointsDifference: score.PointsDifference,
			CaptainName:      score.CaptainName,
			TeamValue:        score.TeamValue,
			Bank:             score.Bank,
		})
	}

	return SeasonTable{
		LeagueID:    info.ID,
		LeagueName:  info.Name,
		Gameweek:    gameweek,
		GeneratedAt: s.now().UTC(),
		Rows:        rows,
	}, nil
}

// GameweekTable ranks the league for one gameweek by points net of
// transfer cost. RankMovement compares each team's gameweek rank against
// its overall standing, positive meaning a better week than usual.
func (s *TableService) GameweekTable(ctx context.Context, gameweek int) (GameweekTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TableService.GameweekTable")
	defer span.End()

	if err := s.requireSeasonStarted(ctx); err != nil {
		return GameweekTable{}, err
	}
	info, err := s.league.Info(ctx)
	if err != nil {
		return GameweekTable{}, err
	}
	scores, err := s.scoring.GameweekScores(ctx, gameweek)
	if err != nil {
		return GameweekTable{}, err
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].NetPoints > scores[j].NetPoints
	})

	rows := make([]GameweekTableRow, 0, len(scores))
	for idx, score := range scores {
		rank := idx + 1
		rows = append(rows, GameweekTableRow{
			GameweekRank: rank,
			RankMovement: score.OverallRank - rank,
			EntryID:      score.EntryID,
			TeamName:     score.TeamName,
			ManagerName:  score.ManagerName,
			LivePoints:   score.LivePoints,
			TransferCost: score.TransferCost,
			NetPoints:    score.NetPoints,
			Transfers:    score.Transfers,
			OverallRank:  score.OverallRank,
			CaptainName:  score.CaptainName,
			ActiveChip:   score.ActiveChip,
			IsLive:       score.IsLive,
		})
	}

	return GameweekTable{
		LeagueID:    info.ID,
		LeagueName:  info.Name,
		Gameweek:    gameweek,
		GeneratedAt: s.now().UTC(),
		Rows:        rows,
	}, nil
}

// Summary digests one gameweek across the league: averages, extremes and
// transfer activity.
func (s *TableService) Summary(ctx context.Context, gameweek int) (GameweekSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TableService.Summary")
	defer span.End()

	scores, err := s.scoring.GameweekScores(ctx, gameweek)
	if err != nil {
		return GameweekSummary{}, err
	}
	if len(scores) == 0 {
		return GameweekSummary{}, fmt.Errorf("%w: no scored teams for gameweek %d", ErrInsufficientData, gameweek)
	}

	totalPoints := 0
	totalNet := 0
	totalTransfers := 0
	totalTransferCost := 0
	teamsWithTransfers := 0
	highest := scores[0]
	lowest := scores[0]
	mostTransfers := scores[0]
	for _, score := range scores {
		totalPoints += score.LivePoints
		totalNet += score.NetPoints
		totalTransfers += score.Transfers
		totalTransferCost += score.TransferCost
		if score.Transfers > 0 {
			teamsWithTransfers++
		}
		if score.LivePoints > highest.LivePoints {
			highest = score
		}
		if score.LivePoints < lowest.LivePoints {
			lowest = score
		}
		if score.Transfers > mostTransfers.Transfers {
			mostTransfers = score
		}
	}

	teams := len(scores)
	return GameweekSummary{
		Gameweek:         gameweek,
		Teams:            teams,
		AveragePoints:    round1(float64(totalPoints) / float64(teams)),
		AverageNetPoints: round1(float64(totalNet) / float64(teams)),
		AverageTransfers: round1(float64(totalTransfers) / float64(teams)),
		HighestScore: TeamPointsLine{
			EntryID:     highest.EntryID,
			TeamName:    highest.TeamName,
			ManagerName: highest.ManagerName,
			Points:      highest.LivePoints,
		},
		LowestScore: TeamPointsLine{
			EntryID:     lowest.EntryID,
			TeamName:    lowest.TeamName,
			ManagerName: lowest.ManagerName,
			Points:      lowest.LivePoints,
		},
		MostTransfers: TeamTransfersLine{
			EntryID:     mostTransfers.EntryID,
			TeamName:    mostTransfers.TeamName,
			ManagerName: mostTransfers.ManagerName,
			Transfers:   mostTransfers.Transfers,
		},
		TeamsWithTransfers:    teamsWithTransfers,
		TeamsWithTransfersPct: round1(float64(teamsWithTransfers) / float64(teams) * 100),
		TotalTransferCost:     totalTransferCost,
		PointsRange:           highest.LivePoints - lowest.LivePoints,
	}, nil
}

// TopPerformers collects the standouts of one gameweek: the best teams by
// net points, the highest-scoring players, and the sharpest movers against
// their overall standing.
type TopPerformers struct {
	Gameweek        int
	TopTeams        []GameweekTableRow
	TopPlayers      []PlayerLine
	BiggestClimbers []GameweekTableRow
	BiggestFallers  []GameweekTableRow
	TotalTeams      int
}

// TopPerformers gathers the gameweek's standouts. Teams and players are
// capped at limit, movers at five each; a limit at or below zero falls
// back to the default.
func (s *TableService) TopPerformers(ctx context.Context, gameweek, limit int) (TopPerformers, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TableService.TopPerformers")
	defer span.End()

	if limit <= 0 {
		limit = defaultTopPerformersLimit
	}

	table, err := s.GameweekTable(ctx, gameweek)
	if err != nil {
		return TopPerformers{}, err
	}
	players, err := s.scoring.GameweekPlayers(ctx, gameweek)
	if err != nil {
		return TopPerformers{}, err
	}

	topTeams := table.Rows
	if len(topTeams) > limit {
		topTeams = topTeams[:limit]
	}
	if len(players) > limit {
		players = players[:limit]
	}

	climbers := make([]GameweekTableRow, 0, topMoversLimit)
	fallers := make([]GameweekTableRow, 0, topMoversLimit)
	for _, row := range table.Rows {
		switch {
		case row.RankMovement > 0:
			climbers = append(climbers, row)
		case row.RankMovement < 0:
			fallers = append(fallers, row)
		}
	}
	sort.SliceStable(climbers, func(i, j int) bool {
		return climbers[i].RankMovement > climbers[j].RankMovement
	})
	sort.SliceStable(fallers, func(i, j int) bool {
		return fallers[i].RankMovement < fallers[j].RankMovement
	})
	if len(climbers) > topMoversLimit {
		climbers = climbers[:topMoversLimit]
	}
	if len(fallers) > topMoversLimit {
		fallers = fallers[:topMoversLimit]
	}

	return TopPerformers{
		Gameweek:        gameweek,
		TopTeams:        topTeams,
		TopPlayers:      players,
		BiggestClimbers: climbers,
		BiggestFallers:  fallers,
		TotalTeams:      len(table.Rows),
	}, nil
}

// requireSeasonStarted blocks table generation until competitive play has
// begun; there is nothing meaningful to rank before then.
func (s *TableService) requireSeasonStarted(ctx context.Context) error {
	started, err := s.league.SeasonStarted(ctx)
	if err != nil {
		return err
	}
	if !started {
		return fmt.Errorf("%w: season has not started yet", ErrInsufficientData)
	}
	return nil
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
