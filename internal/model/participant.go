package model

// Participant binds one account to one room under a chosen screen name.
// AccountID is the primary key, which enforces the one-room-per-account rule
// at the storage layer; deleting the room or the account removes the row.
type Participant struct {
	AccountID  uint   `gorm:"primaryKey"`
	RoomID     uint   `gorm:"index;not null"`
	ScreenName string `gorm:"type:varchar(100);not null"`
}

func (Participant) TableName() string { return "participants" }
