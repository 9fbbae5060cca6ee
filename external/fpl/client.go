package fpl

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/fplmate/fpl-live/internal/platform/logging"
	"github.com/fplmate/fpl-live/internal/platform/resilience"
	"github.com/fplmate/fpl-live/internal/usecase"
)

const (
	defaultBaseURL = "https://fantasy.premierleague.com/api"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 6 << 20

	// The game API rejects requests without a recognizable agent.
	userAgent = "fpl-live/1.0 (+https://github.com/fplmate/fpl-live)"
)

var errFPLTransient = crerr.New("fpl transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the public fantasy game API. The API needs no auth; all
// endpoints are plain GETs returning JSON.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.Flight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

func (c *Client) FetchBootstrap(ctx context.Context) (usecase.ExternalBootstrap, error) {
	var payload bootstrapEnvelope
	if err := c.doJSON(ctx, "/bootstrap-static/", nil, &payload); err != nil {
		return usecase.ExternalBootstrap{}, fmt.Errorf("fetch bootstrap: %w", err)
	}
	if len(payload.Events) == 0 || len(payload.Elements) == 0 {
		return usecase.ExternalBootstrap{}, fmt.Errorf("%w: bootstrap payload missing events or elements", usecase.ErrMalformedResponse)
	}

	out := usecase.ExternalBootstrap{
		Players:   make([]usecase.ExternalPlayer, 0, len(payload.Elements)),
		Clubs:     make([]usecase.ExternalClub, 0, len(payload.Teams)),
		Gameweeks: make([]usecase.ExternalGameweek, 0, len(payload.Events)),
	}

	for _, item := range payload.Elements {
		if item.ID <= 0 {
			continue
		}
		out.Players = append(out.Players, usecase.ExternalPlayer{
			ID:          item.ID,
			FirstName:   strings.TrimSpace(item.FirstName),
			SecondName:  strings.TrimSpace(item.SecondName),
			WebName:     strings.TrimSpace(item.WebName),
			ElementType: item.ElementType,
			ClubID:      item.Team,
			NowCost:     item.NowCost,
			TotalPoints: item.TotalPoints,
		})
	}
	for _, item := range payload.Teams {
		if item.ID <= 0 {
			continue
		}
		out.Clubs = append(out.Clubs, usecase.ExternalClub{
			ID:        item.ID,
			Name:      strings.TrimSpace(item.Name),
			ShortName: strings.TrimSpace(item.ShortName),
		})
	}
	for _, item := range payload.Events {
		if item.ID <= 0 {
			continue
		}
		out.Gameweeks = append(out.Gameweeks, usecase.ExternalGameweek{
			ID:           item.ID,
			Name:         strings.TrimSpace(item.Name),
			DeadlineTime: parseEventTime(item.DeadlineTime),
			IsCurrent:    item.IsCurrent,
			IsNext:       item.IsNext,
			Finished:     item.Finished,
		})
	}

	return out, nil
}

func (c *Client) FetchLeagueStandings(ctx context.Context, leagueID int64) (usecase.ExternalLeagueStandings, error) {
	if leagueID <= 0 {
		return usecase.ExternalLeagueStandings{}, fmt.Errorf("%w: league id must be greater than zero", usecase.ErrInvalidInput)
	}

	path := fmt.Sprintf("/leagues-classic/%d/standings/", leagueID)
	var payload standingsEnvelope
	if err := c.doJSON(ctx, path, nil, &payload); err != nil {
		return usecase.ExternalLeagueStandings{}, fmt.Errorf("fetch standings league_id=%d: %w", leagueID, err)
	}
	if payload.League.ID <= 0 {
		return usecase.ExternalLeagueStandings{}, fmt.Errorf("%w: standings payload missing league", usecase.ErrMalformedResponse)
	}

	out := usecase.ExternalLeagueStandings{
		LeagueID:   payload.League.ID,
		LeagueName: strings.TrimSpace(payload.League.Name),
		Entries:    make([]usecase.ExternalLeagueEntry, 0, len(payload.Standings.Results)),
		Pending:    make([]usecase.ExternalPendingEntry, 0, len(payload.NewEntries.Results)),
	}

	for _, item := range payload.Standings.Results {
		if item.Entry <= 0 {
			continue
		}
		out.Entries = append(out.Entries, usecase.ExternalLeagueEntry{
			EntryID:     item.Entry,
			TeamName:    strings.TrimSpace(item.EntryName),
			PlayerName:  strings.TrimSpace(item.PlayerName),
			Rank:        item.Rank,
			LastRank:    item.LastRank,
			RankSort:    item.RankSort,
			TotalPoints: item.Total,
			EventTotal:  item.EventTotal,
		})
	}
	for _, item := range payload.NewEntries.Results {
		entryID := item.Entry
		if entryID <= 0 {
			entryID = item.ID
		}
		if entryID <= 0 {
			continue
		}
		out.Pending = append(out.Pending, usecase.ExternalPendingEntry{
			EntryID:    entryID,
			TeamName:   strings.TrimSpace(item.EntryName),
			PlayerName: joinNames(item.PlayerFirstName, item.PlayerLastName),
		})
	}

	return out, nil
}

func (c *Client) FetchEntryPicks(ctx context.Context, entryID int64, gameweek int) (usecase.ExternalEntryPicks, error) {
	if entryID <= 0 {
		return usecase.ExternalEntryPicks{}, fmt.Errorf("%w: entry id must be greater than zero", usecase.ErrInvalidInput)
	}
	if gameweek <= 0 {
		return usecase.ExternalEntryPicks{}, fmt.Errorf("%w: gameweek must be greater than zero", usecase.ErrInvalidInput)
	}

	path := fmt.Sprintf("/entry/%d/event/%d/picks/", entryID, gameweek)
	var payload entryPicksEnvelope
	if err := c.doJSON(ctx, path, nil, &payload); err != nil {
		return usecase.ExternalEntryPicks{}, fmt.Errorf("fetch picks entry_id=%d gameweek=%d: %w", entryID, gameweek, err)
	}

	out := usecase.ExternalEntryPicks{
		EntryID:    entryID,
		Gameweek:   gameweek,
		ActiveChip: strings.TrimSpace(payload.ActiveChip),
		Picks:      make([]usecase.ExternalPick, 0, len(payload.Picks)),
		History: usecase.ExternalEntryHistory{
			Points:       payload.EntryHistory.Points,
			TotalPoints:  payload.EntryHistory.TotalPoints,
			Rank:         payload.EntryHistory.Rank,
			RankSort:     payload.EntryHistory.RankSort,
			OverallRank:  payload.EntryHistory.OverallRank,
			Bank:         payload.EntryHistory.Bank,
			Value:        payload.EntryHistory.Value,
			Transfers:    payload.EntryHistory.EventTransfers,
			TransferCost: payload.EntryHistory.EventTransfersCost,
		},
	}

	for _, item := range payload.Picks {
		if item.Element <= 0 {
			continue
		}
		out.Picks = append(out.Picks, usecase.ExternalPick{
			ElementID:     item.Element,
			SlotPosition:  item.Position,
			Multiplier:    item.Multiplier,
			IsCaptain:     item.IsCaptain,
			IsViceCaptain: item.IsViceCaptain,
		})
	}

	return out, nil
}

func (c *Client) FetchEntryTransfers(ctx context.Context, entryID int64) ([]usecase.ExternalTransfer, error) {
	if entryID <= 0 {
		return nil, fmt.Errorf("%w: entry id must be greater than zero", usecase.ErrInvalidInput)
	}

	path := fmt.Sprintf("/entry/%d/transfers/", entryID)
	var payload []transferItem
	if err := c.doJSON(ctx, path, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch transfers entry_id=%d: %w", entryID, err)
	}

	out := make([]usecase.ExternalTransfer, 0, len(payload))
	for _, item := range payload {
		if item.ElementIn <= 0 && item.ElementOut <= 0 {
			continue
		}
		out = append(out, usecase.ExternalTransfer{
			EntryID:    entryID,
			ElementIn:  item.ElementIn,
			ElementOut: item.ElementOut,
			InCost:     item.ElementInCost,
			OutCost:    item.ElementOutCost,
			Gameweek:   item.Event,
			Time:       parseEventTime(item.Time),
		})
	}

	return out, nil
}

func (c *Client) FetchLiveEvent(ctx context.Context, gameweek int) ([]usecase.ExternalLiveElement, error) {
	if gameweek <= 0 {
		return nil, fmt.Errorf("%w: gameweek must be greater than zero", usecase.ErrInvalidInput)
	}

	path := fmt.Sprintf("/event/%d/live/", gameweek)
	var payload liveEnvelope
	if err := c.doJSON(ctx, path, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch live event gameweek=%d: %w", gameweek, err)
	}

	out := make([]usecase.ExternalLiveElement, 0, len(payload.Elements))
	for _, item := range payload.Elements {
		if item.ID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalLiveElement{
			ElementID: item.ID,
			Stats: usecase.ExternalLiveStats{
				Minutes:         item.Stats.Minutes,
				GoalsScored:     item.Stats.GoalsScored,
				Assists:         item.Stats.Assists,
				CleanSheets:     item.Stats.CleanSheets,
				GoalsConceded:   item.Stats.GoalsConceded,
				OwnGoals:        item.Stats.OwnGoals,
				PenaltiesSaved:  item.Stats.PenaltiesSaved,
				PenaltiesMissed: item.Stats.PenaltiesMissed,
				YellowCards:     item.Stats.YellowCards,
				RedCards:        item.Stats.RedCards,
				Saves:           item.Stats.Saves,
				Bonus:           item.Stats.Bonus,
				BPS:             item.Stats.BPS,
			},
			TotalPoints: item.Stats.TotalPoints,
		})
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "fpl circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: game api is temporarily unavailable", usecase.ErrUpstreamUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isFPLCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode %s: %v", usecase.ErrMalformedResponse, path, err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("user-agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %w: send request: %v", usecase.ErrUpstreamUnavailable, errFPLTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: %w: read response body: %v", usecase.ErrUpstreamUnavailable, errFPLTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: game api status=404 body=%s", usecase.ErrNotFound, abbreviateBody(raw))
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: %w: game api status=%d body=%s", usecase.ErrUpstreamUnavailable, errFPLTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("%w: game api status=%d body=%s", usecase.ErrUpstreamUnavailable, resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: game api request failed", usecase.ErrUpstreamUnavailable)
	}
	c.logger.WarnContext(ctx, "fpl request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isFPLCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFPLTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func parseEventTime(raw string) time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}

func joinNames(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}

type bootstrapEnvelope struct {
	Events   []bootstrapEvent   `json:"events"`
	Teams    []bootstrapTeam    `json:"teams"`
	Elements []bootstrapElement `json:"elements"`
}

type bootstrapEvent struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DeadlineTime string `json:"deadline_time"`
	IsCurrent    bool   `json:"is_current"`
	IsNext       bool   `json:"is_next"`
	Finished     bool   `json:"finished"`
}

type bootstrapTeam struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

type bootstrapElement struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	SecondName  string `json:"second_name"`
	WebName     string `json:"web_name"`
	ElementType int    `json:"element_type"`
	Team        int64  `json:"team"`
	NowCost     int    `json:"now_cost"`
	TotalPoints int    `json:"total_points"`
}

type standingsEnvelope struct {
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"league"`
	Standings struct {
		Results []standingResult `json:"results"`
	} `json:"standings"`
	NewEntries struct {
		Results []newEntryResult `json:"results"`
	} `json:"new_entries"`
}

type standingResult struct {
	Entry      int64  `json:"entry"`
	EntryName  string `json:"entry_name"`
	PlayerName string `json:"player_name"`
	Rank       int    `json:"rank"`
	LastRank   int    `json:"last_rank"`
	RankSort   int    `json:"rank_sort"`
	Total      int    `json:"total"`
	EventTotal int    `json:"event_total"`
}

type newEntryResult struct {
	ID              int64  `json:"id"`
	Entry           int64  `json:"entry"`
	EntryName       string `json:"entry_name"`
	PlayerFirstName string `json:"player_first_name"`
	PlayerLastName  string `json:"player_last_name"`
}

type entryPicksEnvelope struct {
	ActiveChip   string           `json:"active_chip"`
	EntryHistory entryHistoryItem `json:"entry_history"`
	Picks        []pickItem       `json:"picks"`
}

type entryHistoryItem struct {
	Event              int `json:"event"`
	Points             int `json:"points"`
	TotalPoints        int `json:"total_points"`
	Rank               int `json:"rank"`
	RankSort           int `json:"rank_sort"`
	OverallRank        int `json:"overall_rank"`
	Bank               int `json:"bank"`
	Value              int `json:"value"`
	EventTransfers     int `json:"event_transfers"`
	EventTransfersCost int `json:"event_transfers_cost"`
}

type pickItem struct {
	Element       int64 `json:"element"`
	Position      int   `json:"position"`
	Multiplier    int   `json:"multiplier"`
	IsCaptain     bool  `json:"is_captain"`
	IsViceCaptain bool  `json:"is_vice_captain"`
}

type transferItem struct {
	ElementIn      int64  `json:"element_in"`
	ElementInCost  int    `json:"element_in_cost"`
	ElementOut     int64  `json:"element_out"`
	ElementOutCost int    `json:"element_out_cost"`
	Event          int    `json:"event"`
	Time           string `json:"time"`
}

type liveEnvelope struct {
	Elements []liveElementItem `json:"elements"`
}

type liveElementItem struct {
	ID    int64         `json:"id"`
	Stats liveStatsItem `json:"stats"`
}

type liveStatsItem struct {
	Minutes         int  `json:"minutes"`
	GoalsScored     int  `json:"goals_scored"`
	Assists         int  `json:"assists"`
	CleanSheets     int  `json:"clean_sheets"`
	GoalsConceded   int  `json:"goals_conceded"`
	OwnGoals        int  `json:"own_goals"`
	PenaltiesSaved  int  `json:"penalties_saved"`
	PenaltiesMissed int  `json:"penalties_missed"`
	YellowCards     int  `json:"yellow_cards"`
	RedCards        int  `json:"red_cards"`
	Saves           int  `json:"saves"`
	Bonus           int  `json:"bonus"`
	BPS             int  `json:"bps"`
	TotalPoints     *int `json:"total_points"`
}
