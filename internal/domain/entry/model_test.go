package entry

import "testing"

func TestEntryValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entry   Entry
		wantErr bool
	}{
		{name: "valid", entry: Entry{ID: 11, TeamName: "Alpha FC", ManagerName: "Alice"}},
		{name: "missing id", entry: Entry{TeamName: "Alpha FC"}, wantErr: true},
		{name: "blank team name", entry: Entry{ID: 11, TeamName: "   "}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.entry.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLeagueInfoValidate(t *testing.T) {
	t.Parallel()

	if err := (LeagueInfo{ID: 321, Name: "Office Rivals"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (LeagueInfo{Name: "Office Rivals"}).Validate(); err == nil {
		t.Fatalf("missing league id should fail")
	}
}
