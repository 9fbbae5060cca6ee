package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fplmate/fpl-live/internal/platform/logging"
	"github.com/fplmate/fpl-live/internal/usecase"
)

type Handler struct {
	catalogService   *usecase.CatalogService
	leagueService    *usecase.LeagueService
	scoringService   *usecase.ScoringService
	tableService     *usecase.TableService
	analyticsService *usecase.AnalyticsService
	trackerService   *usecase.TrackerService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	catalogService *usecase.CatalogService,
	leagueService *usecase.LeagueService,
	scoringService *usecase.ScoringService,
	tableService *usecase.TableService,
	analyticsService *usecase.AnalyticsService,
	trackerService *usecase.TrackerService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		catalogService:   catalogService,
		leagueService:    leagueService,
		scoringService:   scoringService,
		tableService:     tableService,
		analyticsService: analyticsService,
		trackerService:   trackerService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// pathInt64 reads a positive int64 path segment such as an entry id.
func pathInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

// pathInt reads a positive int path segment such as a gameweek number.
func pathInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

// queryInt reads an optional integer query parameter, falling back to a
// default when the parameter is absent.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
