package catalog

// CurrentGameweek resolves which gameweek live scoring should target.
//
// Preference order: the gameweek flagged current upstream, then the one
// right before the first flagged next (the season opener counts as its own
// predecessor), then the last finished one. The result is clamped to the
// known gameweek range.
func CurrentGameweek(gameweeks []Gameweek) int {
	total := len(gameweeks)
	if total == 0 {
		return 1
	}

	current := 0
	for _, gw := range gameweeks {
		if gw.IsCurrent {
			current = gw.ID
			break
		}
	}

	if current == 0 {
		for i, gw := range gameweeks {
			if !gw.IsNext {
				continue
			}
			if i > 0 {
				current = gameweeks[i-1].ID
			} else {
				current = 1
			}
			break
		}
	}

	if current == 0 {
		for i := total - 1; i >= 0; i-- {
			if gameweeks[i].Finished {
				current = gameweeks[i].ID
				break
			}
		}
	}

	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}
	return current
}

// SeasonStarted reports whether at least one gameweek has begun.
func SeasonStarted(gameweeks []Gameweek) bool {
	for _, gw := range gameweeks {
		if gw.Finished || gw.IsCurrent {
			return true
		}
	}
	return false
}
