package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fplmate/fpl-live/internal/domain/catalog"
	"github.com/fplmate/fpl-live/internal/domain/entry"
	"github.com/fplmate/fpl-live/internal/domain/picks"
	"github.com/fplmate/fpl-live/internal/platform/logging"
	"github.com/fplmate/fpl-live/internal/platform/resilience"
)

// LeagueService owns the tracked mini-league: its roster, pending joiners
// and the per-manager gameweek selections fetched on demand.
type LeagueService struct {
	provider     FantasyProvider
	catalog      *CatalogService
	entryRepo    entry.Repository
	picksRepo    picks.Repository
	transferRepo picks.TransferRepository
	leagueID     int64
	logger       *logging.Logger
	loadFlight   resilience.Flight
	now          func() time.Time
}

func NewLeagueService(
	provider FantasyProvider,
	catalogService *CatalogService,
	entryRepo entry.Repository,
	picksRepo picks.Repository,
	transferRepo picks.TransferRepository,
	leagueID int64,
	logger *logging.Logger,
) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueService{
		provider:     provider,
		catalog:      catalogService,
		entryRepo:    entryRepo,
		picksRepo:    picksRepo,
		transferRepo: transferRepo,
		leagueID:     leagueID,
		logger:       logger,
		now:          time.Now,
	}
}

// LeagueStatus summarizes the tracked league and where the season stands.
type LeagueStatus struct {
	LeagueID        int64
	LeagueName      string
	Entries         int
	PendingEntries  int
	SeasonStarted   bool
	CurrentGameweek int
	TotalGameweeks  int
}

// EnsureLoaded loads the roster on first use. Concurrent callers share a
// single upstream fetch.
func (s *LeagueService) EnsureLoaded(ctx context.Context) error {
	_, ok, err := s.entryRepo.League(ctx)
	if err != nil {
		return fmt.Errorf("read league roster: %w", err)
	}
	if ok {
		return nil
	}
	return s.load(ctx)
}

// Refresh re-fetches the standings and, only when the fetch succeeds,
// swaps the roster and drops every cached selection and transfer history.
// The reference catalog stays as it is.
func (s *LeagueService) Refresh(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Refresh")
	defer span.End()

	return s.load(ctx)
}

func (s *LeagueService) load(ctx context.Context) error {
	_, err, _ := s.loadFlight.Do("league:load", func() (any, error) {
		if err := s.catalog.EnsureLoaded(ctx); err != nil {
			return nil, err
		}

		standings, err := s.provider.FetchLeagueStandings(ctx, s.leagueID)
		if err != nil {
			return nil, fmt.Errorf("%w: load league %d: %w", ErrNotInitialized, s.leagueID, err)
		}

		info := entry.LeagueInfo{ID: standings.LeagueID, Name: standings.LeagueName}
		roster := make([]entry.Entry, 0, len(standings.Entries))
		for _, item := range standings.Entries {
			roster = append(roster, entry.Entry{
				ID:             item.EntryID,
				TeamName:       item.TeamName,
				ManagerName:    item.PlayerName,
				Rank:           item.Rank,
				LastRank:       item.LastRank,
				RankSort:       item.RankSort,
				TotalPoints:    item.TotalPoints,
				GameweekPoints: item.EventTotal,
			})
		}
		pending := make([]entry.PendingEntry, 0, len(standings.Pending))
		for _, item := range standings.Pending {
			pending = append(pending, entry.PendingEntry{
				EntryID:     item.EntryID,
				TeamName:    item.TeamName,
				ManagerName: item.PlayerName,
			})
		}

		s.picksRepo.Clear(ctx)
		s.transferRepo.Clear(ctx)

		if err := s.entryRepo.ReplaceLeague(ctx, info, roster, pending); err != nil {
			return nil, fmt.Errorf("store league roster: %w", err)
		}

		s.logger.InfoContext(ctx, "league roster loaded",
			"league_id", info.ID,
			"league_name", info.Name,
			"entries", len(roster),
			"pending", len(pending),
		)
		return nil, nil
	})
	return err
}

// Info returns the league identity.
func (s *LeagueService) Info(ctx context.Context) (entry.LeagueInfo, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return entry.LeagueInfo{}, err
	}

	info, ok, err := s.entryRepo.League(ctx)
	if err != nil {
		return entry.LeagueInfo{}, fmt.Errorf("read league roster: %w", err)
	}
	if !ok {
		return entry.LeagueInfo{}, fmt.Errorf("%w: league roster is empty", ErrNotInitialized)
	}
	return info, nil
}

// Roster returns the admitted teams in standings order.
func (s *LeagueService) Roster(ctx context.Context) ([]entry.Entry, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.entryRepo.Entries(ctx)
}

// Entry returns one admitted team by id.
func (s *LeagueService) Entry(ctx context.Context, entryID int64) (entry.Entry, error) {
	if entryID <= 0 {
		return entry.Entry{}, fmt.Errorf("%w: entry id must be greater than zero", ErrInvalidInput)
	}
	if err := s.EnsureLoaded(ctx); err != nil {
		return entry.Entry{}, err
	}

	e, ok, err := s.entryRepo.Entry(ctx, entryID)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("read league roster: %w", err)
	}
	if !ok {
		return entry.Entry{}, fmt.Errorf("%w: entry=%d is not in the league", ErrNotFound, entryID)
	}
	return e, nil
}

// Pending returns join requests awaiting admission.
func (s *LeagueService) Pending(ctx context.Context) ([]entry.PendingEntry, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.entryRepo.Pending(ctx)
}

// Status reports the league identity together with season progress. The
// season counts as started once the calendar flags a gameweek as current
// or finished, or once the league has admitted teams.
func (s *LeagueService) Status(ctx context.Context) (LeagueStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Status")
	defer span.End()

	info, err := s.Info(ctx)
	if err != nil {
		return LeagueStatus{}, err
	}
	roster, err := s.entryRepo.Entries(ctx)
	if err != nil {
		return LeagueStatus{}, fmt.Errorf("read league roster: %w", err)
	}
	pending, err := s.entryRepo.Pending(ctx)
	if err != nil {
		return LeagueStatus{}, fmt.Errorf("read league roster: %w", err)
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return LeagueStatus{}, err
	}

	return LeagueStatus{
		LeagueID:        info.ID,
		LeagueName:      info.Name,
		Entries:         len(roster),
		PendingEntries:  len(pending),
		SeasonStarted:   catalog.SeasonStarted(snap.Gameweeks) || len(roster) > 0,
		CurrentGameweek: catalog.CurrentGameweek(snap.Gameweeks),
		TotalGameweeks:  len(snap.Gameweeks),
	}, nil
}

// SeasonStarted reports whether competitive play has begun: true once the
// calendar flags any gameweek as current or finished, or once the league
// has admitted teams.
func (s *LeagueService) SeasonStarted(ctx context.Context) (bool, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return false, err
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	roster, err := s.entryRepo.Entries(ctx)
	if err != nil {
		return false, fmt.Errorf("read league roster: %w", err)
	}
	return catalog.SeasonStarted(snap.Gameweeks) || len(roster) > 0, nil
}

// EntryGameweek returns one manager's selection for one gameweek, fetching
// it once and serving the cached copy afterwards.
func (s *LeagueService) EntryGameweek(ctx context.Context, entryID int64, gameweek int) (picks.EntryGameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.EntryGameweek")
	defer span.End()

	if err := s.validateGameweek(ctx, gameweek); err != nil {
		return picks.EntryGameweek{}, err
	}
	if _, err := s.Entry(ctx, entryID); err != nil {
		return picks.EntryGameweek{}, err
	}

	return s.picksRepo.GetOrLoad(ctx, entryID, gameweek, func(ctx context.Context) (picks.EntryGameweek, error) {
		dto, err := s.provider.FetchEntryPicks(ctx, entryID, gameweek)
		if err != nil {
			return picks.EntryGameweek{}, fmt.Errorf("fetch picks entry=%d gameweek=%d: %w", entryID, gameweek, err)
		}
		return mapEntryGameweek(dto, s.now().UTC()), nil
	})
}

// EntryTransfers returns one manager's full transfer history, cached until
// the next roster refresh.
func (s *LeagueService) EntryTransfers(ctx context.Context, entryID int64) ([]picks.Transfer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.EntryTransfers")
	defer span.End()

	if _, err := s.Entry(ctx, entryID); err != nil {
		return nil, err
	}

	return s.transferRepo.GetOrLoad(ctx, entryID, func(ctx context.Context) ([]picks.Transfer, error) {
		items, err := s.provider.FetchEntryTransfers(ctx, entryID)
		if err != nil {
			return nil, fmt.Errorf("fetch transfers entry=%d: %w", entryID, err)
		}
		out := make([]picks.Transfer, 0, len(items))
		for _, item := range items {
			out = append(out, picks.Transfer{
				EntryID:    item.EntryID,
				ElementIn:  item.ElementIn,
				ElementOut: item.ElementOut,
				InCost:     item.InCost,
				OutCost:    item.OutCost,
				Gameweek:   item.Gameweek,
				Time:       item.Time,
			})
		}
		return out, nil
	})
}

func (s *LeagueService) validateGameweek(ctx context.Context, gameweek int) error {
	if gameweek <= 0 {
		return fmt.Errorf("%w: gameweek must be greater than zero", ErrInvalidInput)
	}
	total, err := s.catalog.TotalGameweeks(ctx)
	if err != nil {
		return err
	}
	if gameweek > total {
		return fmt.Errorf("%w: gameweek=%d is beyond the schedule", ErrNotFound, gameweek)
	}
	return nil
}

func mapEntryGameweek(dto ExternalEntryPicks, fetchedAt time.Time) picks.EntryGameweek {
	out := picks.EntryGameweek{
		EntryID:    dto.EntryID,
		Gameweek:   dto.Gameweek,
		ActiveChip: dto.ActiveChip,
		Picks:      make([]picks.Pick, 0, len(dto.Picks)),
		History: picks.GameweekHistory{
			Gameweek:     dto.Gameweek,
			Points:       dto.History.Points,
			TotalPoints:  dto.History.TotalPoints,
			Rank:         dto.History.Rank,
			RankSort:     dto.History.RankSort,
			OverallRank:  dto.History.OverallRank,
			Transfers:    dto.History.Transfers,
			TransferCost: dto.History.TransferCost,
			Value:        dto.History.Value,
			Bank:         dto.History.Bank,
		},
		FetchedAt: fetchedAt,
	}
	for _, p := range dto.Picks {
		out.Picks = append(out.Picks, picks.Pick{
			ElementID:     p.ElementID,
			SlotPosition:  p.SlotPosition,
			Multiplier:    p.Multiplier,
			IsCaptain:     p.IsCaptain,
			IsViceCaptain: p.IsViceCaptain,
		})
	}
	return out
}
