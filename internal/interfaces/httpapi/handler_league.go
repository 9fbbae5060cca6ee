package httpapi

import (
	"net/http"
)

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	info, err := h.leagueService.Info(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	roster, err := h.leagueService.Roster(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get league roster failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(info, roster))
}

func (h *Handler) GetLeagueStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueStatus")
	defer span.End()

	status, err := h.leagueService.Status(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get league status failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueStatusToDTO(status))
}

func (h *Handler) ListPendingEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPendingEntries")
	defer span.End()

	pending, err := h.leagueService.Pending(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list pending entries failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]pendingEntryDTO, 0, len(pending))
	for _, p := range pending {
		items = append(items, pendingEntryDTO{
			EntryID:     p.EntryID,
			TeamName:    p.TeamName,
			ManagerName: p.ManagerName,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// RefreshLeague refetches the reference catalog and the league roster and
// drops the per-entry caches that depend on them.
func (h *Handler) RefreshLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshLeague")
	defer span.End()

	if err := h.catalogService.Refresh(ctx); err != nil {
		h.logger.ErrorContext(ctx, "refresh catalog failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if err := h.leagueService.Refresh(ctx); err != nil {
		h.logger.ErrorContext(ctx, "refresh league failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if gameweek, err := h.catalogService.CurrentGameweek(ctx); err == nil {
		h.scoringService.InvalidateLive(ctx, gameweek)
	}

	status, err := h.leagueService.Status(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get league status after refresh failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueStatusToDTO(status))
}

func (h *Handler) GetEntryScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEntryScore")
	defer span.End()

	entryID, err := pathInt64(r, "entryID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	gameweek, err := pathInt(r, "gameweek")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	score, err := h.scoringService.EntryScore(ctx, entryID, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "get entry score failed", "entry_id", entryID, "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entryScoreToDTO(score))
}

func (h *Handler) GetEntryBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEntryBreakdown")
	defer span.End()

	entryID, err := pathInt64(r, "entryID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	gameweek, err := pathInt(r, "gameweek")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	breakdown, err := h.scoringService.EntryBreakdown(ctx, entryID, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "get entry breakdown failed", "entry_id", entryID, "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entryBreakdownToDTO(breakdown))
}

func (h *Handler) ListEntryTransfers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEntryTransfers")
	defer span.End()

	entryID, err := pathInt64(r, "entryID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	transfers, err := h.leagueService.EntryTransfers(ctx, entryID)
	if err != nil {
		h.logger.WarnContext(ctx, "list entry transfers failed", "entry_id", entryID, "error", err)
		writeError(ctx, w, err)
		return
	}
	snap, err := h.catalogService.Snapshot(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "catalog snapshot failed while mapping transfers", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]transferDTO, 0, len(transfers))
	for _, t := range transfers {
		items = append(items, transferToDTO(t, snap))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
