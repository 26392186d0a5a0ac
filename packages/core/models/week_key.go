package models

// WeekKey holds the plaintext results password of a week. No row means the
// week is open for result entry. LockNonce changes with every password set and
// is carried by unlock tokens, so tokens die with the password they opened.
type WeekKey struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Week            string `gorm:"size:10;not null;uniqueIndex" json:"week"`
	ResultsPassword string `gorm:"size:255;not null" json:"-"`
	LockNonce       string `gorm:"column:lock_nonce;size:32;not null;default:''" json:"-"`
}

func (WeekKey) TableName() string {
	return "week_keys"
}

type SetWeekPasswordRequest struct {
	Week     string `json:"week" binding:"required"`
	Password string `json:"password"`
}

type UnlockWeekRequest struct {
	Week     string `json:"week" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type WeekStatus struct {
	Week   string `json:"week"`
	Locked bool   `json:"locked"`
}
