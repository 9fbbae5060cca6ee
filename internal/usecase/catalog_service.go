package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fplmate/fpl-live/internal/domain/catalog"
	"github.com/fplmate/fpl-live/internal/platform/logging"
	"github.com/fplmate/fpl-live/internal/platform/resilience"
)

// CatalogService owns the season-wide reference data: players, clubs and
// the gameweek calendar. The catalog loads once and stays until an explicit
// refresh; live scoring never invalidates it.
type CatalogService struct {
	provider   FantasyProvider
	repo       catalog.Repository
	logger     *logging.Logger
	loadFlight resilience.Flight
	now        func() time.Time
}

func NewCatalogService(provider FantasyProvider, repo catalog.Repository, logger *logging.Logger) *CatalogService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CatalogService{
		provider: provider,
		repo:     repo,
		logger:   logger,
		now:      time.Now,
	}
}

// GameweekSchedule is one calendar row for the deadlines listing.
type GameweekSchedule struct {
	Gameweek  int
	Name      string
	Deadline  time.Time
	IsCurrent bool
	IsNext    bool
	Finished  bool
}

// EnsureLoaded loads the catalog on first use. Concurrent callers share a
// single upstream fetch.
func (s *CatalogService) EnsureLoaded(ctx context.Context) error {
	_, ok, err := s.repo.Current(ctx)
	if err != nil {
		return fmt.Errorf("read catalog snapshot: %w", err)
	}
	if ok {
		return nil
	}
	return s.load(ctx)
}

// Refresh forces a reload of the reference catalog.
func (s *CatalogService) Refresh(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.Refresh")
	defer span.End()

	return s.load(ctx)
}

func (s *CatalogService) load(ctx context.Context) error {
	_, err, _ := s.loadFlight.Do("catalog:load", func() (any, error) {
		bootstrap, err := s.provider.FetchBootstrap(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: load reference catalog: %w", ErrNotInitialized, err)
		}

		snap := catalog.Snapshot{
			Players:   make(map[int64]catalog.Player, len(bootstrap.Players)),
			Clubs:     make(map[int64]catalog.Club, len(bootstrap.Clubs)),
			Gameweeks: make([]catalog.Gameweek, 0, len(bootstrap.Gameweeks)),
			LoadedAt:  s.now().UTC(),
		}
		for _, item := range bootstrap.Players {
			snap.Players[item.ID] = catalog.Player{
				ID:          item.ID,
				FirstName:   item.FirstName,
				SecondName:  item.SecondName,
				WebName:     item.WebName,
				Position:    catalog.PositionFromElementType(item.ElementType),
				ClubID:      item.ClubID,
				NowCost:     item.NowCost,
				TotalPoints: item.TotalPoints,
			}
		}
		for _, item := range bootstrap.Clubs {
			snap.Clubs[item.ID] = catalog.Club{
				ID:        item.ID,
				Name:      item.Name,
				ShortName: item.ShortName,
			}
		}
		for _, item := range bootstrap.Gameweeks {
			snap.Gameweeks = append(snap.Gameweeks, catalog.Gameweek{
				ID:           item.ID,
				Name:         item.Name,
				DeadlineTime: item.DeadlineTime,
				IsCurrent:    item.IsCurrent,
				IsNext:       item.IsNext,
				Finished:     item.Finished,
			})
		}

		if err := s.repo.Replace(ctx, snap); err != nil {
			return nil, fmt.Errorf("store catalog snapshot: %w", err)
		}

		s.logger.InfoContext(ctx, "reference catalog loaded",
			"players", len(snap.Players),
			"clubs", len(snap.Clubs),
			"gameweeks", len(snap.Gameweeks),
			"current_gameweek", catalog.CurrentGameweek(snap.Gameweeks),
		)
		return nil, nil
	})
	return err
}

// Snapshot returns the loaded catalog, loading it first if needed.
func (s *CatalogService) Snapshot(ctx context.Context) (catalog.Snapshot, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return catalog.Snapshot{}, err
	}

	snap, ok, err := s.repo.Current(ctx)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("read catalog snapshot: %w", err)
	}
	if !ok {
		return catalog.Snapshot{}, fmt.Errorf("%w: reference catalog is empty", ErrNotInitialized)
	}
	return snap, nil
}

func (s *CatalogService) CurrentGameweek(ctx context.Context) (int, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return catalog.CurrentGameweek(snap.Gameweeks), nil
}

func (s *CatalogService) TotalGameweeks(ctx context.Context) (int, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return len(snap.Gameweeks), nil
}

// Schedule lists the full gameweek calendar in order.
func (s *CatalogService) Schedule(ctx context.Context) ([]GameweekSchedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.Schedule")
	defer span.End()

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]GameweekSchedule, 0, len(snap.Gameweeks))
	for _, gw := range snap.Gameweeks {
		out = append(out, GameweekSchedule{
			Gameweek:  gw.ID,
			Name:      gw.Name,
			Deadline:  gw.DeadlineTime,
			IsCurrent: gw.IsCurrent,
			IsNext:    gw.IsNext,
			Finished:  gw.Finished,
		})
	}
	return out, nil
}

// Player looks a player up by element id.
func (s *CatalogService) Player(ctx context.Context, playerID int64) (catalog.Player, error) {
	if playerID <= 0 {
		return catalog.Player{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return catalog.Player{}, err
	}

	p, ok := snap.Player(playerID)
	if !ok {
		return catalog.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}
	return p, nil
}

// playerName resolves a display name, tolerating unknown ids.
func playerName(snap catalog.Snapshot, elementID int64) string {
	if p, ok := snap.Player(elementID); ok {
		return p.DisplayName()
	}
	return "Unknown"
}

// clubName resolves a club display name, tolerating unknown ids.
func clubName(snap catalog.Snapshot, clubID int64) string {
	if c, ok := snap.Club(clubID); ok {
		return c.Name
	}
	return "Unknown"
}

// playerPosition resolves the position for an element, PositionUnknown when absent.
func playerPosition(snap catalog.Snapshot, elementID int64) catalog.Position {
	if p, ok := snap.Player(elementID); ok {
		return p.Position
	}
	return catalog.PositionUnknown
}
