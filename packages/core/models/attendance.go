package models

type Attendance struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Week     string `gorm:"size:10;not null;index" json:"week"`
	PlayerID uint   `gorm:"not null" json:"player_id"`
	Present  bool   `gorm:"not null;default:true" json:"present"`
}

func (Attendance) TableName() string {
	return "attendance"
}

type SaveAttendanceRequest struct {
	Week      string `json:"week" binding:"required"`
	PlayerIDs []uint `json:"player_ids"`
}
