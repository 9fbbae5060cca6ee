package httpapi

import (
	"net/http"
	"time"
)

const defaultChangesWindowMinutes = 15

func (h *Handler) GetTrackerStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTrackerStatus")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, trackerStatusToDTO(h.trackerService.Status()))
}

func (h *Handler) StartTracker(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartTracker")
	defer span.End()

	if err := h.trackerService.Start(); err != nil {
		h.logger.ErrorContext(ctx, "start tracker failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, trackerStatusToDTO(h.trackerService.Status()))
}

func (h *Handler) StopTracker(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StopTracker")
	defer span.End()

	if err := h.trackerService.Stop(); err != nil {
		h.logger.ErrorContext(ctx, "stop tracker failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, trackerStatusToDTO(h.trackerService.Status()))
}

func (h *Handler) GetLiveChanges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLiveChanges")
	defer span.End()

	minutes, err := queryInt(r, "window_minutes", defaultChangesWindowMinutes)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, liveChangesRequest{WindowMinutes: minutes}); err != nil {
		writeError(ctx, w, err)
		return
	}

	changes, err := h.trackerService.LiveChanges(time.Duration(minutes) * time.Minute)
	if err != nil {
		h.logger.WarnContext(ctx, "get live changes failed", "window_minutes", minutes, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, liveChangesToDTO(changes))
}
