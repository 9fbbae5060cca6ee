package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Position is the on-pitch role a player is registered under.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
	PositionUnknown    Position = "UNK"
)

// PositionFromElementType maps the upstream element_type code to a Position.
func PositionFromElementType(elementType int) Position {
	switch elementType {
	case 1:
		return PositionGoalkeeper
	case 2:
		return PositionDefender
	case 3:
		return PositionMidfielder
	case 4:
		return PositionForward
	default:
		return PositionUnknown
	}
}

// Player is one footballer from the game-wide reference data.
type Player struct {
	ID          int64
	FirstName   string
	SecondName  string
	WebName     string
	Position    Position
	ClubID      int64
	NowCost     int
	TotalPoints int
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.WebName) == "" && strings.TrimSpace(p.SecondName) == "" {
		return fmt.Errorf("player name is required")
	}
	return nil
}

// FullName joins first and second name, tolerating either being empty.
func (p Player) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.SecondName))
}

// DisplayName prefers the short web name over the full name.
func (p Player) DisplayName() string {
	if name := strings.TrimSpace(p.WebName); name != "" {
		return name
	}
	return p.FullName()
}

// Price is the current cost in the game currency (upstream stores tenths).
func (p Player) Price() float64 {
	return float64(p.NowCost) / 10
}

// Club is one of the real clubs players belong to.
type Club struct {
	ID        int64
	Name      string
	ShortName string
}

func (c Club) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("club id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("club name is required")
	}
	return nil
}

// Gameweek is one scoring round of the season.
type Gameweek struct {
	ID           int
	Name         string
	DeadlineTime time.Time
	IsCurrent    bool
	IsNext       bool
	Finished     bool
}

func (g Gameweek) Validate() error {
	if g.ID <= 0 {
		return fmt.Errorf("gameweek id is required")
	}
	return nil
}

// Snapshot is one consistent view of the reference catalog.
type Snapshot struct {
	Players   map[int64]Player
	Clubs     map[int64]Club
	Gameweeks []Gameweek
	LoadedAt  time.Time
}

func (s Snapshot) Player(id int64) (Player, bool) {
	p, ok := s.Players[id]
	return p, ok
}

func (s Snapshot) Club(id int64) (Club, bool) {
	c, ok := s.Clubs[id]
	return c, ok
}
