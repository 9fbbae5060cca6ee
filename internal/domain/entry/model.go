package entry

import (
	"fmt"
	"strings"
)

// Entry is one manager's team inside the mini-league.
type Entry struct {
	ID             int64
	TeamName       string
	ManagerName    string
	Rank           int
	LastRank       int
	RankSort       int
	TotalPoints    int
	GameweekPoints int
}

func (e Entry) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("entry id is required")
	}
	if strings.TrimSpace(e.TeamName) == "" {
		return fmt.Errorf("entry team name is required")
	}
	return nil
}

// PendingEntry is a join request that has not been admitted yet.
type PendingEntry struct {
	EntryID     int64
	TeamName    string
	ManagerName string
}

// LeagueInfo is the identity of the tracked mini-league.
type LeagueInfo struct {
	ID   int64
	Name string
}

func (l LeagueInfo) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("league id is required")
	}
	return nil
}
