package models

import "time"

type Stats struct {
	TotalPlayers   int64 `json:"total_players"`
	ActivePlayers  int64 `json:"active_players"`
	TotalMatches   int64 `json:"total_matches"`
	PendingMatches int64 `json:"pending_matches"`
	WeeksPlayed    int64 `json:"weeks_played"`
}

// PlayerRecord is a win/draw/loss tally.
type PlayerRecord struct {
	Wins   int `json:"wins"`
	Draws  int `json:"draws"`
	Losses int `json:"losses"`
}

func (r PlayerRecord) GamesPlayed() int {
	return r.Wins + r.Draws + r.Losses
}

type LeaderboardRow struct {
	Rank        int     `json:"rank"`
	PlayerID    uint    `json:"player_id"`
	Name        string  `json:"name"`
	Faction     *string `json:"faction"`
	Rating      float64 `json:"rating"`
	Active      bool    `json:"active"`
	GamesPlayed int     `json:"gp"`
	Wins        int     `json:"w"`
	Draws       int     `json:"d"`
	Losses      int     `json:"l"`
}

// Backup is a full export of the league tables.
type Backup struct {
	ExportedAt time.Time    `json:"exported_at"`
	Players    []Player     `json:"players"`
	Matches    []Match      `json:"matches"`
	Attendance []Attendance `json:"attendance"`
	WeekKeys   []BackupKey  `json:"week_keys"`
}

type BackupKey struct {
	Week            string `json:"week"`
	ResultsPassword string `json:"results_password"`
}
