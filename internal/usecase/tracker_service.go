package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/fplmate/fpl-live/internal/platform/logging"
)

const (
	defaultTrackerInterval     = time.Minute
	defaultTrackerHistoryLimit = 10
)

// TrackerSnapshot is one timestamped capture of the live table and the
// per-player live lines.
type TrackerSnapshot struct {
	At       time.Time
	Gameweek int
	Table    SeasonTable
	Players  []PlayerLine
}

// TrackerObserver receives each new snapshot as it is captured.
type TrackerObserver func(TrackerSnapshot)

// TrackerStatus describes the polling loop.
type TrackerStatus struct {
	Running      bool
	Interval     time.Duration
	HistoryLimit int
	Snapshots    int
	Observers    int
	StartedAt    time.Time
	LastTickAt   time.Time
	LastError    string
}

// TeamRankChange is one team's table movement between two snapshots.
// Delta is old rank minus new rank, positive meaning the team climbed.
type TeamRankChange struct {
	EntryID     int64
	TeamName    string
	ManagerName string
	OldRank     int
	NewRank     int
	Delta       int
}

// TeamPointsChange is one team's gameweek point movement between two
// snapshots.
type TeamPointsChange struct {
	EntryID   int64
	TeamName  string
	OldPoints int
	NewPoints int
	Delta     int
}

// PlayerStatChange reports goals and assists a player added between two
// snapshots. Only positive differences are reported.
type PlayerStatChange struct {
	ElementID  int64
	PlayerName string
	Goals      int
	Assists    int
}

// LiveChanges compares the oldest and newest snapshot inside a trailing
// window.
type LiveChanges struct {
	Window        time.Duration
	From          time.Time
	To            time.Time
	Snapshots     int
	RankChanges   []TeamRankChange
	PointsChanges []TeamPointsChange
	PlayerChanges []PlayerStatChange
}

// TrackerService runs the background polling loop. At a fixed interval it
// recomputes the live table and player lines into a bounded snapshot
// history and notifies subscribed observers. A failed tick is logged and
// the loop keeps going.
type TrackerService struct {
	table        *TableService
	scoring      *ScoringService
	interval     time.Duration
	historyLimit int
	logger       *logging.Logger
	now          func() time.Time

	mu         sync.Mutex
	scheduler  gocron.Scheduler
	startedAt  time.Time
	lastTickAt time.Time
	lastError  string
	snapshots  []TrackerSnapshot
	observers  []TrackerObserver
}

func NewTrackerService(
	tableService *TableService,
	scoringService *ScoringService,
	interval time.Duration,
	historyLimit int,
	logger *logging.Logger,
) *TrackerService {
	if interval <= 0 {
		interval = defaultTrackerInterval
	}
	if historyLimit <= 0 {
		historyLimit = defaultTrackerHistoryLimit
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TrackerService{
		table:        tableService,
		scoring:      scoringService,
		interval:     interval,
		historyLimit: historyLimit,
		logger:       logger,
		now:          time.Now,
	}
}

// Subscribe registers an observer for future snapshots.
func (s *TrackerService) Subscribe(observer TrackerObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, observer)
	s.mu.Unlock()
}

// Start launches the polling loop. Starting a running tracker is a no-op.
func (s *TrackerService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		s.logger.Debug("tracker already running")
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create tracker scheduler: %w", err)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.capture),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return fmt.Errorf("create tracker job: %w", err)
	}
	scheduler.Start()

	s.scheduler = scheduler
	s.startedAt = s.now().UTC()
	s.logger.Info("tracker started", "interval", s.interval.String(), "history_limit", s.historyLimit)
	return nil
}

// Stop halts the polling loop. Stopping a stopped tracker is a no-op.
// Captured snapshots stay available for change reports.
func (s *TrackerService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler == nil {
		return nil
	}
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shut down tracker scheduler: %w", err)
	}
	s.scheduler = nil
	s.startedAt = time.Time{}
	s.logger.Info("tracker stopped")
	return nil
}

// Running reports whether the polling loop is active.
func (s *TrackerService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduler != nil
}

// Status describes the polling loop and its history.
func (s *TrackerService) Status() TrackerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TrackerStatus{
		Running:      s.scheduler != nil,
		Interval:     s.interval,
		HistoryLimit: s.historyLimit,
		Snapshots:    len(s.snapshots),
		Observers:    len(s.observers),
		StartedAt:    s.startedAt,
		LastTickAt:   s.lastTickAt,
		LastError:    s.lastError,
	}
}

// LiveChanges compares the oldest and newest snapshot within the trailing
// window and reports team rank moves, team point moves and players who
// added goals or assists. At least two snapshots must fall inside the
// window.
func (s *TrackerService) LiveChanges(window time.Duration) (LiveChanges, error) {
	if window <= 0 {
		return LiveChanges{}, fmt.Errorf("%w: window must be greater than zero", ErrInvalidInput)
	}

	cutoff := s.now().UTC().Add(-window)

	s.mu.Lock()
	inWindow := make([]TrackerSnapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		if !snap.At.Before(cutoff) {
			inWindow = append(inWindow, snap)
		}
	}
	s.mu.Unlock()

	if len(inWindow) < 2 {
		return LiveChanges{}, fmt.Errorf("%w: need at least 2 snapshots within %s, have %d", ErrInsufficientData, window, len(inWindow))
	}

	oldest := inWindow[0]
	newest := inWindow[len(inWindow)-1]

	oldRows := make(map[int64]SeasonTableRow, len(oldest.Table.Rows))
	for _, row := range oldest.Table.Rows {
		oldRows[row.EntryID] = row
	}

	rankChanges := make([]TeamRankChange, 0)
	pointsChanges := make([]TeamPointsChange, 0)
	for _, row := range newest.Table.Rows {
		old, ok := oldRows[row.EntryID]
		if !ok {
			continue
		}
		if delta := old.Rank - row.Rank; delta != 0 {
			rankChanges = append(rankChanges, TeamRankChange{
				EntryID:     row.EntryID,
				TeamName:    row.TeamName,
				ManagerName: row.ManagerName,
				OldRank:     old.Rank,
				NewRank:     row.Rank,
				Delta:       delta,
			})
		}
		if delta := row.GameweekPoints - old.GameweekPoints; delta != 0 {
			pointsChanges = append(pointsChanges, TeamPointsChange{
				EntryID:   row.EntryID,
				TeamName:  row.TeamName,
				OldPoints: old.GameweekPoints,
				NewPoints: row.GameweekPoints,
				Delta:     delta,
			})
		}
	}

	oldPlayers := make(map[int64]PlayerLine, len(oldest.Players))
	for _, line := range oldest.Players {
		oldPlayers[line.ElementID] = line
	}

	playerChanges := make([]PlayerStatChange, 0)
	for _, line := range newest.Players {
		old, ok := oldPlayers[line.ElementID]
		if !ok {
			continue
		}
		goals := line.Stats.GoalsScored - old.Stats.GoalsScored
		assists := line.Stats.Assists - old.Stats.Assists
		if goals < 0 {
			goals = 0
		}
		if assists < 0 {
			assists = 0
		}
		if goals == 0 && assists == 0 {
			continue
		}
		playerChanges = append(playerChanges, PlayerStatChange{
			ElementID:  line.ElementID,
			PlayerName: line.PlayerName,
			Goals:      goals,
			Assists:    assists,
		})
	}

	sort.SliceStable(rankChanges, func(i, j int) bool {
		if rankChanges[i].Delta != rankChanges[j].Delta {
			return rankChanges[i].Delta > rankChanges[j].Delta
		}
		return rankChanges[i].EntryID < rankChanges[j].EntryID
	})
	sort.SliceStable(pointsChanges, func(i, j int) bool {
		if pointsChanges[i].Delta != pointsChanges[j].Delta {
			return pointsChanges[i].Delta > pointsChanges[j].Delta
		}
		return pointsChanges[i].EntryID < pointsChanges[j].EntryID
	})
	sort.SliceStable(playerChanges, func(i, j int) bool {
		left := playerChanges[i].Goals + playerChanges[i].Assists
		right := playerChanges[j].Goals + playerChanges[j].Assists
		if left != right {
			return left > right
		}
		return playerChanges[i].ElementID < playerChanges[j].ElementID
	})

	return LiveChanges{
		Window:        window,
		From:          oldest.At,
		To:            newest.At,
		Snapshots:     len(inWindow),
		RankChanges:   rankChanges,
		PointsChanges: pointsChanges,
		PlayerChanges: playerChanges,
	}, nil
}

func (s *TrackerService) capture() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	table, err := s.table.SeasonTable(ctx)
	if err != nil {
		s.recordTickError(fmt.Errorf("tracker table: %w", err))
		return
	}
	players, err := s.scoring.GameweekPlayers(ctx, table.Gameweek)
	if err != nil {
		s.recordTickError(fmt.Errorf("tracker players: %w", err))
		return
	}

	snapshot := TrackerSnapshot{
		At:       s.now().UTC(),
		Gameweek: table.Gameweek,
		Table:    table,
		Players:  players,
	}

	s.mu.Lock()
	s.snapshots = append(s.snapshots, snapshot)
	if len(s.snapshots) > s.historyLimit {
		s.snapshots = append([]TrackerSnapshot(nil), s.snapshots[len(s.snapshots)-s.historyLimit:]...)
	}
	s.lastTickAt = snapshot.At
	s.lastError = ""
	observers := append([]TrackerObserver(nil), s.observers...)
	s.mu.Unlock()

	for _, observer := range observers {
		observer(snapshot)
	}
}

func (s *TrackerService) recordTickError(err error) {
	s.mu.Lock()
	s.lastTickAt = s.now().UTC()
	s.lastError = err.Error()
	s.mu.Unlock()
	s.logger.Warn("tracker tick failed", "error", err.Error())
}
