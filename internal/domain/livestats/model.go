package livestats

// Stats are the raw in-play counters for one player in one gameweek.
type Stats struct {
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

// PlayerLive is one player's live line. TotalPoints carries the upstream
// points figure when the feed includes one; nil means derive from Stats.
type PlayerLive struct {
	ElementID   int64
	Stats       Stats
	TotalPoints *int
}

// Sheet is the complete live picture for one gameweek.
type Sheet struct {
	Gameweek int
	Elements map[int64]PlayerLive
}

func (s Sheet) Lookup(elementID int64) (PlayerLive, bool) {
	p, ok := s.Elements[elementID]
	return p, ok
}
