package models

import (
	"time"
)

type Player struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Rating    float64   `gorm:"not null;default:1000" json:"rating"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	Faction   *string   `gorm:"size:64" json:"faction"`
	CreatedAt time.Time `json:"created_at"`
}

func (Player) TableName() string {
	return "players"
}

type CreatePlayerRequest struct {
	Name           string   `json:"name" binding:"required"`
	StartingRating *float64 `json:"starting_rating,omitempty"`
	Faction        *string  `json:"faction,omitempty"`
}

type UpdatePlayerFactionRequest struct {
	Faction *string `json:"faction"`
}
