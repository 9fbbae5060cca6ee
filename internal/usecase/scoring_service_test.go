package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/fplmate/fpl-live/internal/domain/catalog"
	"github.com/fplmate/fpl-live/internal/domain/livestats"
)

func TestDerivePlayerPoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		position catalog.Position
		stats    livestats.Stats
		want     int
	}{
		{
			name:     "midfielder goal assist clean sheet and bonus",
			position: catalog.PositionMidfielder,
			stats:    livestats.Stats{Minutes: 90, GoalsScored: 1, Assists: 1, CleanSheets: 1, Bonus: 2},
			want:     13,
		},
		{
			name:     "defender negatives floor at zero",
			position: catalog.PositionDefender,
			stats:    livestats.Stats{YellowCards: 1, RedCards: 1, OwnGoals: 1},
			want:     0,
		},
		{
			name:     "keeper clean sheet and six saves",
			position: catalog.PositionGoalkeeper,
			stats:    livestats.Stats{Minutes: 90, CleanSheets: 1, Saves: 6},
			want:     8,
		},
		{
			name:     "keeper concedes two",
			position: catalog.PositionGoalkeeper,
			stats:    livestats.Stats{Minutes: 90, GoalsConceded: 2, Saves: 3},
			want:     2,
		},
		{
			name:     "keeper penalty save",
			position: catalog.PositionGoalkeeper,
			stats:    livestats.Stats{Minutes: 90, PenaltiesSaved: 1, GoalsConceded: 1},
			want:     7,
		},
		{
			name:     "defender goal with clean sheet",
			position: catalog.PositionDefender,
			stats:    livestats.Stats{Minutes: 90, GoalsScored: 1, CleanSheets: 1},
			want:     12,
		},
		{
			name:     "defender concedes four",
			position: catalog.PositionDefender,
			stats:    livestats.Stats{Minutes: 90, GoalsConceded: 4},
			want:     0,
		},
		{
			name:     "midfielder clean sheet point",
			position: catalog.PositionMidfielder,
			stats:    livestats.Stats{Minutes: 90, CleanSheets: 1},
			want:     3,
		},
		{
			name:     "forward brace",
			position: catalog.PositionForward,
			stats:    livestats.Stats{Minutes: 90, GoalsScored: 2},
			want:     10,
		},
		{
			name:     "short appearance only",
			position: catalog.PositionForward,
			stats:    livestats.Stats{Minutes: 30},
			want:     1,
		},
		{
			name:     "forward misses a penalty",
			position: catalog.PositionForward,
			stats:    livestats.Stats{Minutes: 90, PenaltiesMissed: 1},
			want:     0,
		},
		{
			name:     "midfielder booked",
			position: catalog.PositionMidfielder,
			stats:    livestats.Stats{Minutes: 90, YellowCards: 1},
			want:     1,
		},
		{
			name:     "unknown position still earns flat scores",
			position: catalog.PositionUnknown,
			stats:    livestats.Stats{Minutes: 90, Assists: 1, Bonus: 1},
			want:     6,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := derivePlayerPoints(tc.position, tc.stats); got != tc.want {
				t.Fatalf("derivePlayerPoints: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestPlayerLivePoints_PrefersAuthoritativeFigure(t *testing.T) {
	t.Parallel()

	stats := livestats.Stats{Minutes: 90, GoalsScored: 2}

	withFigure := livestats.PlayerLive{ElementID: 104, Stats: stats, TotalPoints: intPtr(11)}
	if got := playerLivePoints(catalog.PositionForward, withFigure); got != 11 {
		t.Fatalf("authoritative figure: got=%d want=11", got)
	}

	withoutFigure := livestats.PlayerLive{ElementID: 104, Stats: stats}
	if got := playerLivePoints(catalog.PositionForward, withoutFigure); got != 10 {
		t.Fatalf("derived figure: got=%d want=10", got)
	}
}

func TestScoringService_EntryScore(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t, newStubProvider())

	score, err := stack.scoring.EntryScore(context.Background(), 11, 2)
	if err != nil {
		t.Fatalf("EntryScore error: %v", err)
	}

	if score.LivePoints != 51 {
		t.Fatalf("live points: got=%d want=51", score.LivePoints)
	}
	if score.OriginalPoints != 48 || score.PointsDifference != 3 || !score.IsLive {
		t.Fatalf("unexpected live delta: %+v", score)
	}
	if score.LiveTotalPoints != 103 {
		t.Fatalf("live total: got=%d want=103", score.LiveTotalPoints)
	}
	if score.NetPoints != 51 || score.Transfers != 1 {
		t.Fatalf("unexpected net line: %+v", score)
	}
	if score.CaptainName != "Saka" {
		t.Fatalf("captain: got=%q want=%q", score.CaptainName, "Saka")
	}
	if score.TeamValue != 100.3 || score.Bank != 2.5 {
		t.Fatalf("value/bank: got=%v/%v want=100.3/2.5", score.TeamValue, score.Bank)
	}
}

func TestScoringService_EntryScore_NoLiveData(t *testing.T) {
	t.Parallel()

	// Between gameweeks the live feed carries no elements. The recorded
	// figures stand as they are and nothing is marked live.
	provider := newStubProvider()
	provider.liveByGameweek = map[int][]ExternalLiveElement{}
	stack := newTestStack(t, provider)

	score, err := stack.scoring.EntryScore(context.Background(), 11, 2)
	if err != nil {
		t.Fatalf("EntryScore error: %v", err)
	}

	if score.IsLive {
		t.Fatalf("empty sheet must not be live: %+v", score)
	}
	if score.LivePoints != 48 || score.PointsDifference != 0 {
		t.Fatalf("recorded points must stand: %+v", score)
	}
	if score.LiveTotalPoints != 100 {
		t.Fatalf("live total must equal season total: got=%d want=100", score.LiveTotalPoints)
	}
}

func TestScoringService_BenchAndCaptainMultipliers(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t, newStubProvider())

	// Beta United benches a 13-point midfielder (counts 0) and captains
	// the forward whose upstream figure is 11 (counts 22).
	score, err := stack.scoring.EntryScore(context.Background(), 22, 2)
	if err != nil {
		t.Fatalf("EntryScore error: %v", err)
	}
	if score.LivePoints != 29 {
		t.Fatalf("live points: got=%d want=29", score.LivePoints)
	}
	if score.NetPoints != 25 {
		t.Fatalf("net points: got=%d want=25", score.NetPoints)
	}
}

func TestScoringService_GameweekScores(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t, newStubProvider())

	scores, err := stack.scoring.GameweekScores(context.Background(), 2)
	if err != nil {
		t.Fatalf("GameweekScores error: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("scores: got=%d want=3", len(scores))
	}

	gotIDs := []int64{scores[0].EntryID, scores[1].EntryID, scores[2].EntryID}
	wantIDs := []int64{11, 22, 33}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Fatalf("order by standings rank: got=%v want=%v", gotIDs, wantIDs)
	}

	gotLive := []int{scores[0].LivePoints, scores[1].LivePoints, scores[2].LivePoints}
	if !reflect.DeepEqual(gotLive, []int{51, 29, 29}) {
		t.Fatalf("live points: got=%v want=[51 29 29]", gotLive)
	}
	gotTotals := []int{scores[0].LiveTotalPoints, scores[1].LiveTotalPoints, scores[2].LiveTotalPoints}
	if !reflect.DeepEqual(gotTotals, []int{103, 79, 107}) {
		t.Fatalf("live totals: got=%v want=[103 79 107]", gotTotals)
	}
}

func TestScoringService_GameweekScores_OmitsFailedEntries(t *testing.T) {
	t.Parallel()

	provider := newStubProvider()
	provider.setPicksErr(22, errors.New("entry fetch failed"))
	stack := newTestStack(t, provider)

	scores, err := stack.scoring.GameweekScores(context.Background(), 2)
	if err != nil {
		t.Fatalf("GameweekScores error: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("scores with one failure: got=%d want=2", len(scores))
	}
	for _, score := range scores {
		if score.EntryID == 22 {
			t.Fatalf("failed entry must be omitted, got %+v", score)
		}
	}
}

func TestScoringService_GameweekScores_AllFailed(t *testing.T) {
	t.Parallel()

	provider := newStubProvider()
	for _, entryID := range []int64{11, 22, 33} {
		provider.setPicksErr(entryID, errors.New("entry fetch failed"))
	}
	stack := newTestStack(t, provider)

	_, err := stack.scoring.GameweekScores(context.Background(), 2)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("all entries failed: got=%v want ErrUpstreamUnavailable", err)
	}
}

func TestScoringService_LiveSheet_CacheWindow(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t, newStubProvider())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := stack.scoring.LiveSheet(ctx, 2); err != nil {
			t.Fatalf("LiveSheet error: %v", err)
		}
	}
	if got := stack.provider.liveCallCount(2); got != 1 {
		t.Fatalf("live calls within window: got=%d want=1", got)
	}

	stack.clock.Advance(4 * time.Minute)
	if _, err := stack.scoring.LiveSheet(ctx, 2); err != nil {
		t.Fatalf("LiveSheet error: %v", err)
	}
	if got := stack.provider.liveCallCount(2); got != 1 {
		t.Fatalf("live calls at four minutes: got=%d want=1", got)
	}

	stack.clock.Advance(2 * time.Minute)
	if _, err := stack.scoring.LiveSheet(ctx, 2); err != nil {
		t.Fatalf("LiveSheet error: %v", err)
	}
	if _, err := stack.scoring.LiveSheet(ctx, 2); err != nil {
		t.Fatalf("LiveSheet error: %v", err)
	}
	if got := stack.provider.liveCallCount(2); got != 2 {
		t.Fatalf("expired entry must trigger exactly one re-fetch: got=%d want=2", got)
	}
}

func TestScoringService_EntryBreakdown(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t, newStubProvider())

	breakdown, err := stack.scoring.EntryBreakdown(context.Background(), 11, 2)
	if err != nil {
		t.Fatalf("EntryBreakdown error: %v", err)
	}
	if breakdown.Score.LivePoints != 51 {
		t.Fatalf("breakdown score: got=%d want=51", breakdown.Score.LivePoints)
	}
	if len(breakdown.Picks) != 5 {
		t.Fatalf("breakdown picks: got=%d want=5", len(breakdown.Picks))
	}

	byElement := make(map[int64]PickLivePoints, len(breakdown.Picks))
	for _, row := range breakdown.Picks {
		byElement[row.ElementID] = row
	}

	captain := byElement[103]
	if captain.BasePoints != 13 || captain.Multiplier != 2 || captain.CountedPoints != 26 {
		t.Fatalf("captain row: %+v", captain)
	}
	if !captain.IsCaptain || !captain.IsStarter || captain.Minutes != 90 {
		t.Fatalf("captain flags: %+v", captain)
	}
	if captain.PlayerName != "Saka" || captain.ClubName != "Arsenal" || captain.Position != catalog.PositionMidfielder {
		t.Fatalf("captain identity: %+v", captain)
	}

	bench := byElement[106]
	if bench.IsStarter || bench.CountedPoints != 0 {
		t.Fatalf("bench row must count zero: %+v", bench)
	}

	if breakdown.CaptainPoints != 26 {
		t.Fatalf("captain points: got=%d want=26", breakdown.CaptainPoints)
	}
	// The vice captain's own line, without the multiplier.
	if breakdown.ViceCaptainPoints != 11 {
		t.Fatalf("vice captain points: got=%d want=11", breakdown.ViceCaptainPoints)
	}
}

func TestScoringService_GameweekPlayers_Ordering(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t, newStubProvider())

	players, err := stack.scoring.GameweekPlayers(context.Background(), 2)
	if err != nil {
		t.Fatalf("GameweekPlayers error: %v", err)
	}

	gotIDs := make([]int64, 0, len(players))
	for _, line := range players {
		gotIDs = append(gotIDs, line.ElementID)
	}
	wantIDs := []int64{103, 104, 101, 102, 107, 105, 106}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Fatalf("player order: got=%v want=%v", gotIDs, wantIDs)
	}

	if players[1].Points != 11 || players[1].DerivedPoints != 10 {
		t.Fatalf("authoritative figure must sit alongside the derived one: %+v", players[1])
	}
	if players[0].Points != 13 || players[0].DerivedPoints != 13 {
		t.Fatalf("derived figure without an upstream one: %+v", players[0])
	}
	if players[0].PlayerName != "Saka" || players[0].ClubName != "Arsenal" {
		t.Fatalf("unexpected top player: %+v", players[0])
	}
}

func TestScoringService_GameweekScores_Idempotent(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t, newStubProvider())
	ctx := context.Background()

	first, err := stack.scoring.GameweekScores(ctx, 2)
	if err != nil {
		t.Fatalf("GameweekScores error: %v", err)
	}
	second, err := stack.scoring.GameweekScores(ctx, 2)
	if err != nil {
		t.Fatalf("GameweekScores error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeat computation differs:\nfirst=%+v\nsecond=%+v", first, second)
	}
	if got := stack.provider.picksCallCount(11, 2); got != 1 {
		t.Fatalf("picks refetched on repeat: got=%d want=1", got)
	}
}
