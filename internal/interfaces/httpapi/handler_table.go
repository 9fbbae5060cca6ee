package httpapi

import (
	"net/http"
)

func (h *Handler) GetSeasonTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonTable")
	defer span.End()

	table, err := h.tableService.SeasonTable(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get season table failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonTableToDTO(table))
}

func (h *Handler) GetGameweekTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameweekTable")
	defer span.End()

	gameweek, err := pathInt(r, "gameweek")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	table, err := h.tableService.GameweekTable(ctx, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "get gameweek table failed", "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekTableToDTO(table))
}

func (h *Handler) GetGameweekSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameweekSummary")
	defer span.End()

	gameweek, err := pathInt(r, "gameweek")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.tableService.Summary(ctx, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "get gameweek summary failed", "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekSummaryToDTO(summary))
}

func (h *Handler) ListTopPerformers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTopPerformers")
	defer span.End()

	gameweek, err := pathInt(r, "gameweek")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, topPerformersRequest{Limit: limit}); err != nil {
		writeError(ctx, w, err)
		return
	}

	performers, err := h.tableService.TopPerformers(ctx, gameweek, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list top performers failed", "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, topPerformersToDTO(performers))
}
