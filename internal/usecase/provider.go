package usecase

import (
	"context"
	"time"
)

// FantasyProvider is the upstream game API as the use cases need it.
// The external client package implements it and maps wire payloads into
// these transport-neutral shapes.
type FantasyProvider interface {
	FetchBootstrap(ctx context.Context) (ExternalBootstrap, error)
	FetchLeagueStandings(ctx context.Context, leagueID int64) (ExternalLeagueStandings, error)
	FetchEntryPicks(ctx context.Context, entryID int64, gameweek int) (ExternalEntryPicks, error)
	FetchEntryTransfers(ctx context.Context, entryID int64) ([]ExternalTransfer, error)
	FetchLiveEvent(ctx context.Context, gameweek int) ([]ExternalLiveElement, error)
}

type ExternalBootstrap struct {
	Players   []ExternalPlayer
	Clubs     []ExternalClub
	Gameweeks []ExternalGameweek
}

type ExternalPlayer struct {
	ID          int64
	FirstName   string
	SecondName  string
	WebName     string
	ElementType int
	ClubID      int64
	NowCost     int
	TotalPoints int
}

type ExternalClub struct {
	ID        int64
	Name      string
	ShortName string
}

type ExternalGameweek struct {
	ID           int
	Name         string
	DeadlineTime time.Time
	IsCurrent    bool
	IsNext       bool
	Finished     bool
}

type ExternalLeagueStandings struct {
	LeagueID   int64
	LeagueName string
	Entries    []ExternalLeagueEntry
	Pending    []ExternalPendingEntry
}

type ExternalLeagueEntry struct {
	EntryID     int64
	TeamName    string
	PlayerName  string
	Rank        int
	LastRank    int
	RankSort    int
	TotalPoints int
	EventTotal  int
}

type ExternalPendingEntry struct {
	EntryID    int64
	TeamName   string
	PlayerName string
}

type ExternalEntryPicks struct {
	EntryID    int64
	Gameweek   int
	ActiveChip string
	Picks      []ExternalPick
	History    ExternalEntryHistory
}

type ExternalPick struct {
	ElementID     int64
	SlotPosition  int
	Multiplier    int
	IsCaptain     bool
	IsViceCaptain bool
}

type ExternalEntryHistory struct {
	Points       int
	TotalPoints  int
	Rank         int
	RankSort     int
	OverallRank  int
	Bank         int
	Value        int
	Transfers    int
	TransferCost int
}

type ExternalTransfer struct {
	EntryID    int64
	ElementIn  int64
	ElementOut int64
	InCost     int
	OutCost    int
	Gameweek   int
	Time       time.Time
}

type ExternalLiveElement struct {
	ElementID   int64
	Stats       ExternalLiveStats
	TotalPoints *int
}

type ExternalLiveStats struct {
	Minutes         int
	GoalsScored     int
	Assists         int
	CleanSheets     int
	GoalsConceded   int
	OwnGoals        int
	PenaltiesSaved  int
	PenaltiesMissed int
	YellowCards     int
	RedCards        int
	Saves           int
	Bonus           int
	BPS             int
}
