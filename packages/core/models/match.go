package models

import (
	"time"
)

// Match results.
const (
	ResultPending = "pending"
	ResultAWin    = "a_win"
	ResultBWin    = "b_win"
	ResultDraw    = "draw"
)

type Match struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Week          string     `gorm:"size:10;not null;index" json:"week"`
	PlayerAID     uint       `gorm:"column:player_a_id;not null" json:"player_a_id"`
	PlayerBID     *uint      `gorm:"column:player_b_id" json:"player_b_id"` // nil means a bye for A
	Result        string     `gorm:"size:16;not null;default:pending" json:"result"`
	ARatingBefore *float64   `gorm:"column:a_rating_before" json:"a_rating_before"`
	BRatingBefore *float64   `gorm:"column:b_rating_before" json:"b_rating_before"`
	ARatingAfter  *float64   `gorm:"column:a_rating_after" json:"a_rating_after"`
	BRatingAfter  *float64   `gorm:"column:b_rating_after" json:"b_rating_after"`
	ReportedAt    *time.Time `json:"reported_at"`
	KFactorUsed   *int       `gorm:"column:k_factor_used" json:"k_factor_used"`
	AFaction      *string    `gorm:"column:a_faction;size:64" json:"a_faction"`
	BFaction      *string    `gorm:"column:b_faction;size:64" json:"b_faction"`
}

func (Match) TableName() string {
	return "matches"
}

func (m Match) IsBye() bool {
	return m.PlayerBID == nil
}

func (m Match) IsPending() bool {
	return m.Result == ResultPending
}

// Involves reports whether the player took part in the match on either side.
func (m Match) Involves(playerID uint) bool {
	return m.PlayerAID == playerID || (m.PlayerBID != nil && *m.PlayerBID == playerID)
}

type RecordResultRequest struct {
	Result   string  `json:"result" binding:"omitempty,oneof=a_win b_win draw"`
	KFactor  int     `json:"k_factor"`
	AFaction *string `json:"a_faction,omitempty"`
	BFaction *string `json:"b_faction,omitempty"`
}

type AdHocMatchRequest struct {
	Week      string  `json:"week" binding:"required"`
	PlayerAID uint    `json:"player_a_id" binding:"required"`
	PlayerBID uint    `json:"player_b_id" binding:"required"`
	Result    string  `json:"result" binding:"required,oneof=a_win b_win draw"`
	KFactor   int     `json:"k_factor" binding:"required"`
	AFaction  *string `json:"a_faction,omitempty"`
	BFaction  *string `json:"b_faction,omitempty"`
}

type GeneratePairingsRequest struct {
	Week      string `json:"week" binding:"required"`
	PlayerIDs []uint `json:"player_ids,omitempty"`
}

type ManualPairingsRequest struct {
	Week         string `json:"week" binding:"required"`
	Order        string `json:"order" binding:"required"`
	ClearPending *bool  `json:"clear_pending,omitempty"`
}

type ResetWeekRequest struct {
	Week            string `json:"week" binding:"required"`
	IncludeReported bool   `json:"include_reported"`
}

type DeleteMatchesRequest struct {
	MatchIDs      []uint `json:"match_ids" binding:"required,min=1"`
	AllowReported bool   `json:"allow_reported"`
}

// FactionSuggestion holds the faction-picker defaults for both sides of a match.
type FactionSuggestion struct {
	MatchID  uint    `json:"match_id"`
	AFaction *string `json:"a_faction"`
	BFaction *string `json:"b_faction"`
}
