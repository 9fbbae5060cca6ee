package httpapi

import (
	"time"

	"github.com/fplmate/fpl-live/internal/domain/catalog"
	"github.com/fplmate/fpl-live/internal/domain/entry"
	"github.com/fplmate/fpl-live/internal/domain/livestats"
	"github.com/fplmate/fpl-live/internal/domain/picks"
	"github.com/fplmate/fpl-live/internal/usecase"
)

type topPerformersRequest struct {
	Limit int `validate:"gte=0,lte=100"`
}

type liveChangesRequest struct {
	WindowMinutes int `validate:"gt=0,lte=1440"`
}

type leagueDTO struct {
	ID    int64            `json:"id"`
	Name  string           `json:"name"`
	Teams []leagueEntryDTO `json:"teams"`
}

type leagueEntryDTO struct {
	EntryID        int64  `json:"entryId"`
	TeamName       string `json:"teamName"`
	ManagerName    string `json:"managerName"`
	Rank           int    `json:"rank"`
	LastRank       int    `json:"lastRank"`
	TotalPoints    int    `json:"totalPoints"`
	GameweekPoints int    `json:"gameweekPoints"`
}

type pendingEntryDTO struct {
	EntryID     int64  `json:"entryId"`
	TeamName    string `json:"teamName"`
	ManagerName string `json:"managerName"`
}

type leagueStatusDTO struct {
	LeagueID        int64  `json:"leagueId"`
	LeagueName      string `json:"leagueName"`
	Entries         int    `json:"entries"`
	PendingEntries  int    `json:"pendingEntries"`
	SeasonStarted   bool   `json:"seasonStarted"`
	CurrentGameweek int    `json:"currentGameweek"`
	TotalGameweeks  int    `json:"totalGameweeks"`
}

type gameweekScheduleDTO struct {
	Gameweek  int       `json:"gameweek"`
	Name      string    `json:"name"`
	Deadline  time.Time `json:"deadline"`
	IsCurrent bool      `json:"isCurrent"`
	IsNext    bool      `json:"isNext"`
	Finished  bool      `json:"finished"`
}

type currentGameweekDTO struct {
	Gameweek       int `json:"gameweek"`
	TotalGameweeks int `json:"totalGameweeks"`
}

type entryScoreDTO struct {
	EntryID          int64   `json:"entryId"`
	TeamName         string  `json:"teamName"`
	ManagerName      string  `json:"managerName"`
	Gameweek         int     `json:"gameweek"`
	LivePoints       int     `json:"livePoints"`
	OriginalPoints   int     `json:"originalPoints"`
	PointsDifference int     `json:"pointsDifference"`
	IsLive           bool    `json:"isLive"`
	TransferCost     int     `json:"transferCost"`
	NetPoints        int     `json:"netPoints"`
	Transfers        int     `json:"transfers"`
	TotalPoints      int     `json:"totalPoints"`
	LiveTotalPoints  int     `json:"liveTotalPoints"`
	OverallRank      int     `json:"overallRank"`
	PreviousRank     int     `json:"previousRank"`
	Captain          string  `json:"captain"`
	ActiveChip       string  `json:"activeChip,omitempty"`
	TeamValue        float64 `json:"teamValue"`
	Bank             float64 `json:"bank"`
}

type pickLiveDTO struct {
	ElementID     int64  `json:"elementId"`
	PlayerName    string `json:"playerName"`
	ClubName      string `json:"clubName"`
	Position      string `json:"position"`
	SlotPosition  int    `json:"slotPosition"`
	Multiplier    int    `json:"multiplier"`
	IsCaptain     bool   `json:"isCaptain"`
	IsViceCaptain bool   `json:"isViceCaptain"`
	IsStarter     bool   `json:"isStarter"`
	Minutes       int    `json:"minutes"`
	BasePoints    int    `json:"basePoints"`
	CountedPoints int    `json:"countedPoints"`
}

type entryBreakdownDTO struct {
	Score             entryScoreDTO `json:"score"`
	Picks             []pickLiveDTO `json:"picks"`
	CaptainPoints     int           `json:"captainPoints"`
	ViceCaptainPoints int           `json:"viceCaptainPoints"`
}

type liveStatsDTO struct {
	Minutes         int `json:"minutes"`
	GoalsScored     int `json:"goalsScored"`
	Assists         int `json:"assists"`
	CleanSheets     int `json:"cleanSheets"`
	GoalsConceded   int `json:"goalsConceded"`
	OwnGoals        int `json:"ownGoals"`
	PenaltiesSaved  int `json:"penaltiesSaved"`
	PenaltiesMissed int `json:"penaltiesMissed"`
	YellowCards     int `json:"yellowCards"`
	RedCards        int `json:"redCards"`
	Saves           int `json:"saves"`
	Bonus           int `json:"bonus"`
	BPS             int `json:"bps"`
}

type playerLineDTO struct {
	ElementID     int64        `json:"elementId"`
	PlayerName    string       `json:"playerName"`
	ClubName      string       `json:"clubName"`
	Position      string       `json:"position"`
	Points        int          `json:"points"`
	DerivedPoints int          `json:"derivedPoints"`
	Stats         liveStatsDTO `json:"stats"`
}

type seasonTableDTO struct {
	LeagueID    int64               `json:"leagueId"`
	LeagueName  string              `json:"leagueName"`
	Gameweek    int                 `json:"gameweek"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Rows        []seasonTableRowDTO `json:"rows"`
}

type seasonTableRowDTO struct {
	Rank             int     `json:"rank"`
	PreviousRank     int     `json:"previousRank"`
	RankChange       int     `json:"rankChange"`
	EntryID          int64   `json:"entryId"`
	TeamName         string  `json:"teamName"`
	ManagerName      string  `json:"managerName"`
	TotalPoints      int     `json:"totalPoints"`
	LiveTotalPoints  int     `json:"liveTotalPoints"`
	GameweekPoints   int     `json:"gameweekPoints"`
	IsLive           bool    `json:"isLive"`
	PointsDifference int     `json:"pointsDifference"`
	Captain          string  `json:"captain"`
	TeamValue        float64 `json:"teamValue"`
	Bank             float64 `json:"bank"`
}

type gameweekTableDTO struct {
	LeagueID    int64                 `json:"leagueId"`
	LeagueName  string                `json:"leagueName"`
	Gameweek    int                   `json:"gameweek"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Rows        []gameweekTableRowDTO `json:"rows"`
}

type gameweekTableRowDTO struct {
	GameweekRank int    `json:"gameweekRank"`
	RankMovement int    `json:"rankMovement"`
	EntryID      int64  `json:"entryId"`
	TeamName     string `json:"teamName"`
	ManagerName  string `json:"managerName"`
	LivePoints   int    `json:"livePoints"`
	TransferCost int    `json:"transferCost"`
	NetPoints    int    `json:"netPoints"`
	Transfers    int    `json:"transfers"`
	OverallRank  int    `json:"overallRank"`
	Captain      string `json:"captain"`
	ActiveChip   string `json:"activeChip,omitempty"`
	IsLive       bool   `json:"isLive"`
}

type topPerformersDTO struct {
	Gameweek        int                   `json:"gameweek"`
	TopTeams        []gameweekTableRowDTO `json:"topTeams"`
	TopPlayers      []playerLineDTO       `json:"topPlayers"`
	BiggestClimbers []gameweekTableRowDTO `json:"biggestClimbers"`
	BiggestFallers  []gameweekTableRowDTO `json:"biggestFallers"`
	TotalTeams      int                   `json:"totalTeams"`
}

type teamPointsDTO struct {
	EntryID     int64  `json:"entryId"`
	TeamName    string `json:"teamName"`
	ManagerName string `json:"managerName"`
	Points      int    `json:"points"`
}

type teamTransfersDTO struct {
	EntryID     int64  `json:"entryId"`
	TeamName    string `json:"teamName"`
	ManagerName string `json:"managerName"`
	Transfers   int    `json:"transfers"`
}

type gameweekSummaryDTO struct {
	Gameweek              int              `json:"gameweek"`
	Teams                 int              `json:"teams"`
	AveragePoints         float64          `json:"averagePoints"`
	AverageNetPoints      float64          `json:"averageNetPoints"`
	AverageTransfers      float64          `json:"averageTransfers"`
	HighestScore          teamPointsDTO    `json:"highestScore"`
	LowestScore           teamPointsDTO    `json:"lowestScore"`
	MostTransfers         teamTransfersDTO `json:"mostTransfers"`
	TeamsWithTransfers    int              `json:"teamsWithTransfers"`
	TeamsWithTransfersPct float64          `json:"teamsWithTransfersPct"`
	TotalTransferCost     int              `json:"totalTransferCost"`
	PointsRange           int              `json:"pointsRange"`
}

type playerOwnershipDTO struct {
	ElementID          int64   `json:"elementId"`
	PlayerName         string  `json:"playerName"`
	ClubName           string  `json:"clubName"`
	Position           string  `json:"position"`
	Owners             int     `json:"owners"`
	Starters           int     `json:"starters"`
	Captains           int     `json:"captains"`
	OwnershipPct       float64 `json:"ownershipPct"`
	EffectiveOwnership float64 `json:"effectiveOwnership"`
}

type captainChoiceDTO struct {
	ElementID  int64    `json:"elementId"`
	PlayerName string   `json:"playerName"`
	ClubName   string   `json:"clubName"`
	Count      int      `json:"count"`
	Pct        float64  `json:"pct"`
	Managers   []string `json:"managers"`
}

type playerTransferCountDTO struct {
	ElementID  int64  `json:"elementId"`
	PlayerName string `json:"playerName"`
	In         int    `json:"in"`
	Out        int    `json:"out"`
}

type transferActivityDTO struct {
	Gameweek      int                      `json:"gameweek"`
	Entries       int                      `json:"entries"`
	FailedEntries int                      `json:"failedEntries"`
	TotalMoves    int                      `json:"totalMoves"`
	Players       []playerTransferCountDTO `json:"players"`
}

type managerRankingDTO struct {
	Rank         int    `json:"rank"`
	EntryID      int64  `json:"entryId"`
	TeamName     string `json:"teamName"`
	ManagerName  string `json:"managerName"`
	LivePoints   int    `json:"livePoints"`
	TransferCost int    `json:"transferCost"`
	NetPoints    int    `json:"netPoints"`
}

type uniqueHoldingDTO struct {
	EntryID     int64    `json:"entryId"`
	TeamName    string   `json:"teamName"`
	ManagerName string   `json:"managerName"`
	Players     []string `json:"players"`
}

type clubPickShareDTO struct {
	ClubID    int64   `json:"clubId"`
	ClubName  string  `json:"clubName"`
	ShortName string  `json:"shortName"`
	Picks     int     `json:"picks"`
	Pct       float64 `json:"pct"`
}

type transferDTO struct {
	ElementIn      int64     `json:"elementIn"`
	ElementInName  string    `json:"elementInName"`
	ElementOut     int64     `json:"elementOut"`
	ElementOutName string    `json:"elementOutName"`
	InCost         float64   `json:"inCost"`
	OutCost        float64   `json:"outCost"`
	Gameweek       int       `json:"gameweek"`
	Time           time.Time `json:"time"`
}

type trackerStatusDTO struct {
	Running         bool       `json:"running"`
	IntervalSeconds int        `json:"intervalSeconds"`
	HistoryLimit    int        `json:"historyLimit"`
	Snapshots       int        `json:"snapshots"`
	Observers       int        `json:"observers"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	LastTickAt      *time.Time `json:"lastTickAt,omitempty"`
	LastError       string     `json:"lastError,omitempty"`
}

type teamRankChangeDTO struct {
	EntryID     int64  `json:"entryId"`
	TeamName    string `json:"teamName"`
	ManagerName string `json:"managerName"`
	OldRank     int    `json:"oldRank"`
	NewRank     int    `json:"newRank"`
	Delta       int    `json:"delta"`
}

type teamPointsChangeDTO struct {
	EntryID   int64  `json:"entryId"`
	TeamName  string `json:"teamName"`
	OldPoints int    `json:"oldPoints"`
	NewPoints int    `json:"newPoints"`
	Delta     int    `json:"delta"`
}

type playerStatChangeDTO struct {
	ElementID  int64  `json:"elementId"`
	PlayerName string `json:"playerName"`
	Goals      int    `json:"goals"`
	Assists    int    `json:"assists"`
}

type liveChangesDTO struct {
	WindowMinutes int                   `json:"windowMinutes"`
	From          time.Time             `json:"from"`
	To            time.Time             `json:"to"`
	Snapshots     int                   `json:"snapshots"`
	RankChanges   []teamRankChangeDTO   `json:"rankChanges"`
	PointsChanges []teamPointsChangeDTO `json:"pointsChanges"`
	PlayerChanges []playerStatChangeDTO `json:"playerChanges"`
}

func leagueToDTO(info entry.LeagueInfo, roster []entry.Entry) leagueDTO {
	teams := make([]leagueEntryDTO, 0, len(roster))
	for _, e := range roster {
		teams = append(teams, leagueEntryDTO{
			EntryID:        e.ID,
			TeamName:       e.TeamName,
			ManagerName:    e.ManagerName,
			Rank:           e.Rank,
			LastRank:       e.LastRank,
			TotalPoints:    e.TotalPoints,
			GameweekPoints: e.GameweekPoints,
		})
	}
	return leagueDTO{
		ID:    info.ID,
		Name:  info.Name,
		Teams: teams,
	}
}

func leagueStatusToDTO(v usecase.LeagueStatus) leagueStatusDTO {
	return leagueStatusDTO{
		LeagueID:        v.LeagueID,
		LeagueName:      v.LeagueName,
		Entries:         v.Entries,
		PendingEntries:  v.PendingEntries,
		SeasonStarted:   v.SeasonStarted,
		CurrentGameweek: v.CurrentGameweek,
		TotalGameweeks:  v.TotalGameweeks,
	}
}

func gameweekScheduleToDTO(v usecase.GameweekSchedule) gameweekScheduleDTO {
	return gameweekScheduleDTO{
		Gameweek:  v.Gameweek,
		Name:      v.Name,
		Deadline:  v.Deadline,
		IsCurrent: v.IsCurrent,
		IsNext:    v.IsNext,
		Finished:  v.Finished,
	}
}

func entryScoreToDTO(v usecase.EntryLiveScore) entryScoreDTO {
	return entryScoreDTO{
		EntryID:          v.EntryID,
		TeamName:         v.TeamName,
		ManagerName:      v.ManagerName,
		Gameweek:         v.Gameweek,
		LivePoints:       v.LivePoints,
		OriginalPoints:   v.OriginalPoints,
		PointsDifference: v.PointsDifference,
		IsLive:           v.IsLive,
		TransferCost:     v.TransferCost,
		NetPoints:        v.NetPoints,
		Transfers:        v.Transfers,
		TotalPoints:      v.TotalPoints,
		LiveTotalPoints:  v.LiveTotalPoints,
		OverallRank:      v.OverallRank,
		PreviousRank:     v.PreviousRank,
		Captain:          v.CaptainName,
		ActiveChip:       v.ActiveChip,
		TeamValue:        v.TeamValue,
		Bank:             v.Bank,
	}
}

func entryBreakdownToDTO(v usecase.EntryLiveBreakdown) entryBreakdownDTO {
	rows := make([]pickLiveDTO, 0, len(v.Picks))
	for _, p := range v.Picks {
		rows = append(rows, pickLiveDTO{
			ElementID:     p.ElementID,
			PlayerName:    p.PlayerName,
			ClubName:      p.ClubName,
			Position:      string(p.Position),
			SlotPosition:  p.SlotPosition,
			Multiplier:    p.Multiplier,
			IsCaptain:     p.IsCaptain,
			IsViceCaptain: p.IsViceCaptain,
			IsStarter:     p.IsStarter,
			Minutes:       p.Minutes,
			BasePoints:    p.BasePoints,
			CountedPoints: p.CountedPoints,
		})
	}
	return entryBreakdownDTO{
		Score:             entryScoreToDTO(v.Score),
		Picks:             rows,
		CaptainPoints:     v.CaptainPoints,
		ViceCaptainPoints: v.ViceCaptainPoints,
	}
}

func liveStatsToDTO(st livestats.Stats) liveStatsDTO {
	return liveStatsDTO{
		Minutes:         st.Minutes,
		GoalsScored:     st.GoalsScored,
		Assists:         st.Assists,
		CleanSheets:     st.CleanSheets,
		GoalsConceded:   st.GoalsConceded,
		OwnGoals:        st.OwnGoals,
		PenaltiesSaved:  st.PenaltiesSaved,
		PenaltiesMissed: st.PenaltiesMissed,
		YellowCards:     st.YellowCards,
		RedCards:        st.RedCards,
		Saves:           st.Saves,
		Bonus:           st.Bonus,
		BPS:             st.BPS,
	}
}

func playerLineToDTO(v usecase.PlayerLine) playerLineDTO {
	return playerLineDTO{
		ElementID:     v.ElementID,
		PlayerName:    v.PlayerName,
		ClubName:      v.ClubName,
		Position:      string(v.Position),
		Points:        v.Points,
		DerivedPoints: v.DerivedPoints,
		Stats:         liveStatsToDTO(v.Stats),
	}
}

func seasonTableToDTO(v usecase.SeasonTable) seasonTableDTO {
	rows := make([]seasonTableRowDTO, 0, len(v.Rows))
	for _, row := range v.Rows {
		rows = append(rows, seasonTableRowDTO{
			Rank:             row.Rank,
			PreviousRank:     row.PreviousRank,
			RankChange:       row.RankChange,
			EntryID:          row.EntryID,
			TeamName:         row.TeamName,
			ManagerName:      row.ManagerName,
			TotalPoints:      row.TotalPoints,
			LiveTotalPoints:  row.LiveTotalPoints,
			GameweekPoints:   row.GameweekPoints,
			IsLive:           row.IsLive,
			PointsDifference: row.PointsDifference,
			Captain:          row.CaptainName,
			TeamValue:        row.TeamValue,
			Bank:             row.Bank,
		})
	}
	return seasonTableDTO{
		LeagueID:    v.LeagueID,
		LeagueName:  v.LeagueName,
		Gameweek:    v.Gameweek,
		GeneratedAt: v.GeneratedAt,
		Rows:        rows,
	}
}

func gameweekTableToDTO(v usecase.GameweekTable) gameweekTableDTO {
	return gameweekTableDTO{
		LeagueID:    v.LeagueID,
		LeagueName:  v.LeagueName,
		Gameweek:    v.Gameweek,
		GeneratedAt: v.GeneratedAt,
		Rows:        gameweekRowsToDTO(v.Rows),
	}
}

func gameweekRowsToDTO(rows []usecase.GameweekTableRow) []gameweekTableRowDTO {
	out := make([]gameweekTableRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameweekTableRowDTO{
			GameweekRank: row.GameweekRank,
			RankMovement: row.RankMovement,
			EntryID:      row.EntryID,
			TeamName:     row.TeamName,
			ManagerName:  row.ManagerName,
			LivePoints:   row.LivePoints,
			TransferCost: row.TransferCost,
			NetPoints:    row.NetPoints,
			Transfers:    row.Transfers,
			OverallRank:  row.OverallRank,
			Captain:      row.CaptainName,
			ActiveChip:   row.ActiveChip,
			IsLive:       row.IsLive,
		})
	}
	return out
}

func topPerformersToDTO(v usecase.TopPerformers) topPerformersDTO {
	players := make([]playerLineDTO, 0, len(v.TopPlayers))
	for _, line := range v.TopPlayers {
		players = append(players, playerLineToDTO(line))
	}
	return topPerformersDTO{
		Gameweek:        v.Gameweek,
		TopTeams:        gameweekRowsToDTO(v.TopTeams),
		TopPlayers:      players,
		BiggestClimbers: gameweekRowsToDTO(v.BiggestClimbers),
		BiggestFallers:  gameweekRowsToDTO(v.BiggestFallers),
		TotalTeams:      v.TotalTeams,
	}
}

func gameweekSummaryToDTO(v usecase.GameweekSummary) gameweekSummaryDTO {
	return gameweekSummaryDTO{
		Gameweek:         v.Gameweek,
		Teams:            v.Teams,
		AveragePoints:    v.AveragePoints,
		AverageNetPoints: v.AverageNetPoints,
		AverageTransfers: v.AverageTransfers,
		HighestScore: teamPointsDTO{
			EntryID:     v.HighestScore.EntryID,
			TeamName:    v.HighestScore.TeamName,
			ManagerName: v.HighestScore.ManagerName,
			Points:      v.HighestScore.Points,
		},
		LowestScore: teamPointsDTO{
			EntryID:     v.LowestScore.EntryID,
			TeamName:    v.LowestScore.TeamName,
			ManagerName: v.LowestScore.ManagerName,
			Points:      v.LowestScore.Points,
		},
		MostTransfers: teamTransfersDTO{
			EntryID:     v.MostTransfers.EntryID,
			TeamName:    v.MostTransfers.TeamName,
			ManagerName: v.MostTransfers.ManagerName,
			Transfers:   v.MostTransfers.Transfers,
		},
		TeamsWithTransfers:    v.TeamsWithTransfers,
		TeamsWithTransfersPct: v.TeamsWithTransfersPct,
		TotalTransferCost:     v.TotalTransferCost,
		PointsRange:           v.PointsRange,
	}
}

func playerOwnershipToDTO(v usecase.PlayerOwnership) playerOwnershipDTO {
	return playerOwnershipDTO{
		ElementID:          v.ElementID,
		PlayerName:         v.PlayerName,
		ClubName:           v.ClubName,
		Position:           string(v.Position),
		Owners:             v.Owners,
		Starters:           v.Starters,
		Captains:           v.Captains,
		OwnershipPct:       v.OwnershipPct,
		EffectiveOwnership: v.EffectiveOwnership,
	}
}

func captainChoiceToDTO(v usecase.CaptainChoice) captainChoiceDTO {
	return captainChoiceDTO{
		ElementID:  v.ElementID,
		PlayerName: v.PlayerName,
		ClubName:   v.ClubName,
		Count:      v.Count,
		Pct:        v.Pct,
		Managers:   v.Managers,
	}
}

func transferActivityToDTO(v usecase.TransferActivity) transferActivityDTO {
	players := make([]playerTransferCountDTO, 0, len(v.Players))
	for _, row := range v.Players {
		players = append(players, playerTransferCountDTO{
			ElementID:  row.ElementID,
			PlayerName: row.PlayerName,
			In:         row.In,
			Out:        row.Out,
		})
	}
	return transferActivityDTO{
		Gameweek:      v.Gameweek,
		Entries:       v.Entries,
		FailedEntries: v.FailedEntries,
		TotalMoves:    v.TotalMoves,
		Players:       players,
	}
}

func managerRankingToDTO(v usecase.ManagerRanking) managerRankingDTO {
	return managerRankingDTO{
		Rank:         v.Rank,
		EntryID:      v.EntryID,
		TeamName:     v.TeamName,
		ManagerName:  v.ManagerName,
		LivePoints:   v.LivePoints,
		TransferCost: v.TransferCost,
		NetPoints:    v.NetPoints,
	}
}

func uniqueHoldingToDTO(v usecase.UniqueHolding) uniqueHoldingDTO {
	return uniqueHoldingDTO{
		EntryID:     v.EntryID,
		TeamName:    v.TeamName,
		ManagerName: v.ManagerName,
		Players:     v.Players,
	}
}

func clubPickShareToDTO(v usecase.ClubPickShare) clubPickShareDTO {
	return clubPickShareDTO{
		ClubID:    v.ClubID,
		ClubName:  v.ClubName,
		ShortName: v.ShortName,
		Picks:     v.Picks,
		Pct:       v.Pct,
	}
}

func transferToDTO(t picks.Transfer, snap catalog.Snapshot) transferDTO {
	return transferDTO{
		ElementIn:      t.ElementIn,
		ElementInName:  transferPlayerName(snap, t.ElementIn),
		ElementOut:     t.ElementOut,
		ElementOutName: transferPlayerName(snap, t.ElementOut),
		InCost:         float64(t.InCost) / 10,
		OutCost:        float64(t.OutCost) / 10,
		Gameweek:       t.Gameweek,
		Time:           t.Time,
	}
}

func transferPlayerName(snap catalog.Snapshot, elementID int64) string {
	if p, ok := snap.Player(elementID); ok {
		return p.DisplayName()
	}
	return "Unknown"
}

func trackerStatusToDTO(v usecase.TrackerStatus) trackerStatusDTO {
	dto := trackerStatusDTO{
		Running:         v.Running,
		IntervalSeconds: int(v.Interval / time.Second),
		HistoryLimit:    v.HistoryLimit,
		Snapshots:       v.Snapshots,
		Observers:       v.Observers,
		LastError:       v.LastError,
	}
	if !v.StartedAt.IsZero() {
		startedAt := v.StartedAt
		dto.StartedAt = &startedAt
	}
	if !v.LastTickAt.IsZero() {
		lastTickAt := v.LastTickAt
		dto.LastTickAt = &lastTickAt
	}
	return dto
}

func liveChangesToDTO(v usecase.LiveChanges) liveChangesDTO {
	rankChanges := make([]teamRankChangeDTO, 0, len(v.RankChanges))
	for _, row := range v.RankChanges {
		rankChanges = append(rankChanges, teamRankChangeDTO{
			EntryID:     row.EntryID,
			TeamName:    row.TeamName,
			ManagerName: row.ManagerName,
			OldRank:     row.OldRank,
			NewRank:     row.NewRank,
			Delta:       row.Delta,
		})
	}
	pointsChanges := make([]teamPointsChangeDTO, 0, len(v.PointsChanges))
	for _, row := range v.PointsChanges {
		pointsChanges = append(pointsChanges, teamPointsChangeDTO{
			EntryID:   row.EntryID,
			TeamName:  row.TeamName,
			OldPoints: row.OldPoints,
			NewPoints: row.NewPoints,
			Delta:     row.Delta,
		})
	}
	playerChanges := make([]playerStatChangeDTO, 0, len(v.PlayerChanges))
	for _, row := range v.PlayerChanges {
		playerChanges = append(playerChanges, playerStatChangeDTO{
			ElementID:  row.ElementID,
			PlayerName: row.PlayerName,
			Goals:      row.Goals,
			Assists:    row.Assists,
		})
	}
	return liveChangesDTO{
		WindowMinutes: int(v.Window / time.Minute),
		From:          v.From,
		To:            v.To,
		Snapshots:     v.Snapshots,
		RankChanges:   rankChanges,
		PointsChanges: pointsChanges,
		PlayerChanges: playerChanges,
	}
}
