package picks

import (
	"fmt"
	"time"
)

// Pick is one squad slot in a manager's gameweek selection.
type Pick struct {
	ElementID     int64
	SlotPosition  int
	Multiplier    int
	IsCaptain     bool
	IsViceCaptain bool
}

func (p Pick) Validate() error {
	if p.ElementID <= 0 {
		return fmt.Errorf("pick element id is required")
	}
	if p.Multiplier < 0 {
		return fmt.Errorf("pick multiplier cannot be negative")
	}
	return nil
}

// Started reports whether the slot is in the starting eleven
// (bench slots carry multiplier zero unless a chip changes that).
func (p Pick) Started() bool {
	return p.Multiplier > 0
}

// GameweekHistory is the manager's official line for one gameweek.
// Value and Bank are in tenths of the game currency, as upstream sends them.
type GameweekHistory struct {
	Gameweek     int
	Points       int
	TotalPoints  int
	Rank         int
	RankSort     int
	OverallRank  int
	Transfers    int
	TransferCost int
	Value        int
	Bank         int
}

// EntryGameweek bundles everything fetched for one (entry, gameweek) pair.
type EntryGameweek struct {
	EntryID    int64
	Gameweek   int
	ActiveChip string
	Picks      []Pick
	History    GameweekHistory
	FetchedAt  time.Time
}

func (e EntryGameweek) Validate() error {
	if e.EntryID <= 0 {
		return fmt.Errorf("entry id is required")
	}
	if e.Gameweek <= 0 {
		return fmt.Errorf("gameweek is required")
	}
	return nil
}

// Captain returns the captain pick when one exists.
func (e EntryGameweek) Captain() (Pick, bool) {
	for _, p := range e.Picks {
		if p.IsCaptain {
			return p, true
		}
	}
	return Pick{}, false
}

// Transfer is one completed squad change by a manager.
type Transfer struct {
	EntryID    int64
	ElementIn  int64
	ElementOut int64
	InCost     int
	OutCost    int
	Gameweek   int
	Time       time.Time
}
