package catalog

import "testing"

func TestCurrentGameweek(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		gameweeks []Gameweek
		want      int
	}{
		{
			name: "first current flag wins",
			gameweeks: []Gameweek{
				{ID: 1, Finished: true},
				{ID: 2, IsCurrent: true},
				{ID: 3, IsCurrent: true},
				{ID: 4, IsNext: true},
			},
			want: 2,
		},
		{
			name: "falls back to gameweek before next",
			gameweeks: []Gameweek{
				{ID: 1, Finished: true},
				{ID: 2, Finished: true},
				{ID: 3, IsNext: true},
				{ID: 4},
			},
			want: 2,
		},
		{
			name: "next at season start resolves to one",
			gameweeks: []Gameweek{
				{ID: 1, IsNext: true},
				{ID: 2},
				{ID: 3},
			},
			want: 1,
		},
		{
			name: "falls back to last finished",
			gameweeks: []Gameweek{
				{ID: 1, Finished: true},
				{ID: 2, Finished: true},
				{ID: 3},
			},
			want: 2,
		},
		{
			name: "clamps above known range",
			gameweeks: []Gameweek{
				{ID: 1, Finished: true},
				{ID: 9, IsCurrent: true},
			},
			want: 2,
		},
		{
			name:      "no gameweeks defaults to one",
			gameweeks: nil,
			want:      1,
		},
		{
			name: "no flags at all defaults to one",
			gameweeks: []Gameweek{
				{ID: 1},
				{ID: 2},
			},
			want: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CurrentGameweek(tc.gameweeks); got != tc.want {
				t.Fatalf("CurrentGameweek() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSeasonStarted(t *testing.T) {
	t.Parallel()

	if SeasonStarted([]Gameweek{{ID: 1, IsNext: true}, {ID: 2}}) {
		t.Fatalf("season reported started before any gameweek began")
	}
	if !SeasonStarted([]Gameweek{{ID: 1, Finished: true}, {ID: 2, IsNext: true}}) {
		t.Fatalf("season not reported started despite a finished gameweek")
	}
	if !SeasonStarted([]Gameweek{{ID: 1, IsCurrent: true}}) {
		t.Fatalf("season not reported started despite a current gameweek")
	}
}

func TestPositionFromElementType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		elementType int
		want        Position
	}{
		{1, PositionGoalkeeper},
		{2, PositionDefender},
		{3, PositionMidfielder},
		{4, PositionForward},
		{0, PositionUnknown},
		{9, PositionUnknown},
	}
	for _, tc := range tests {
		if got := PositionFromElementType(tc.elementType); got != tc.want {
			t.Fatalf("PositionFromElementType(%d) = %s, want %s", tc.elementType, got, tc.want)
		}
	}
}

func TestPlayerNames(t *testing.T) {
	t.Parallel()

	p := Player{ID: 10, FirstName: "Erling", SecondName: "Haaland", WebName: "Haaland"}
	if got := p.FullName(); got != "Erling Haaland" {
		t.Fatalf("FullName() = %q", got)
	}
	if got := p.DisplayName(); got != "Haaland" {
		t.Fatalf("DisplayName() = %q", got)
	}

	p.WebName = ""
	if got := p.DisplayName(); got != "Erling Haaland" {
		t.Fatalf("DisplayName() without web name = %q", got)
	}
}
