package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fplmate/fpl-live/internal/usecase"
)

func (h *Handler) ListGameweeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGameweeks")
	defer span.End()

	schedule, err := h.catalogService.Schedule(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list gameweeks failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameweekScheduleDTO, 0, len(schedule))
	for _, g := range schedule {
		items = append(items, gameweekScheduleToDTO(g))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetCurrentGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentGameweek")
	defer span.End()

	current, err := h.catalogService.CurrentGameweek(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get current gameweek failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	total, err := h.catalogService.TotalGameweeks(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get total gameweeks failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, currentGameweekDTO{
		Gameweek:       current,
		TotalGameweeks: total,
	})
}

func (h *Handler) ListGameweekPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGameweekPlayers")
	defer span.End()

	gameweek, err := pathInt(r, "gameweek")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.scoringService.GameweekPlayers(ctx, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "list gameweek players failed", "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerLineDTO, 0, len(players))
	for _, line := range players {
		items = append(items, playerLineToDTO(line))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// GetGameweekStats dispatches on the stat kind path segment so every
// analytics view hangs off one route shape.
func (h *Handler) GetGameweekStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameweekStats")
	defer span.End()

	gameweek, err := pathInt(r, "gameweek")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	statKind := strings.TrimSpace(r.PathValue("statKind"))

	var payload any
	switch statKind {
	case usecase.StatKindOwnership:
		ownership, statErr := h.analyticsService.EffectiveOwnership(ctx, gameweek)
		err = statErr
		if err == nil {
			items := make([]playerOwnershipDTO, 0, len(ownership))
			for _, row := range ownership {
				items = append(items, playerOwnershipToDTO(row))
			}
			payload = items
		}
	case usecase.StatKindCaptains:
		captains, statErr := h.analyticsService.CaptaincyStats(ctx, gameweek)
		err = statErr
		if err == nil {
			items := make([]captainChoiceDTO, 0, len(captains))
			for _, row := range captains {
				items = append(items, captainChoiceToDTO(row))
			}
			payload = items
		}
	case usecase.StatKindTransfers:
		activity, statErr := h.analyticsService.TransferActivity(ctx, gameweek)
		err = statErr
		if err == nil {
			payload = transferActivityToDTO(activity)
		}
	case usecase.StatKindRankings:
		rankings, statErr := h.analyticsService.ManagerRankings(ctx, gameweek)
		err = statErr
		if err == nil {
			items := make([]managerRankingDTO, 0, len(rankings))
			for _, row := range rankings {
				items = append(items, managerRankingToDTO(row))
			}
			payload = items
		}
	case usecase.StatKindUniquePlayers:
		holdings, statErr := h.analyticsService.UniquePlayers(ctx, gameweek)
		err = statErr
		if err == nil {
			items := make([]uniqueHoldingDTO, 0, len(holdings))
			for _, row := range holdings {
				items = append(items, uniqueHoldingToDTO(row))
			}
			payload = items
		}
	case usecase.StatKindClubs:
		clubs, statErr := h.analyticsService.ClubRepresentation(ctx, gameweek)
		err = statErr
		if err == nil {
			items := make([]clubPickShareDTO, 0, len(clubs))
			for _, row := range clubs {
				items = append(items, clubPickShareToDTO(row))
			}
			payload = items
		}
	default:
		writeError(ctx, w, fmt.Errorf("%w: unknown stat kind %q, valid kinds are %s",
			usecase.ErrInvalidInput, statKind, strings.Join(h.analyticsService.StatKinds(), ", ")))
		return
	}

	if err != nil {
		h.logger.WarnContext(ctx, "get gameweek stats failed", "gameweek", gameweek, "stat_kind", statKind, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, payload)
}
