package model

import (
	"time"
)

// Account is a user identity record. Guest accounts, created when someone
// joins a room without registering, carry only a login token: Email and
// PasswordHash stay nil.
//
// RoomID and ScreenName mirror the account's Participant row. They are nil
// together or set together; an account holds at most one participant.
type Account struct {
	AccountID    uint      `gorm:"primaryKey;autoIncrement"`
	Email        *string   `gorm:"type:varchar(255)"`
	FirstName    string    `gorm:"type:varchar(100);not null;default:''"`
	LastName     string    `gorm:"type:varchar(100);not null;default:''"`
	PasswordHash *string   `gorm:"type:varchar(100)"`
	LoginToken   string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	TokenGenTime time.Time `gorm:"not null"`
	LastLogin    time.Time `gorm:"not null"`
	JoinDate     time.Time `gorm:"not null"`

	// Participant projection, loaded from the Participants table.
	RoomID     *uint   `gorm:"-"`
	ScreenName *string `gorm:"-"`
}

func (Account) TableName() string { return "accounts" }

// IsGuest reports whether the account was provisioned without credentials.
func (a *Account) IsGuest() bool { return a.Email == nil }

// HasParticipant reports whether the account currently sits in a room.
func (a *Account) HasParticipant() bool { return a.RoomID != nil }

// AttachParticipant sets the participant projection from a Participants row.
func (a *Account) AttachParticipant(p *Participant) {
	if p == nil {
		a.RoomID = nil
		a.ScreenName = nil
		return
	}
	roomID := p.RoomID
	screenName := p.ScreenName
	a.RoomID = &roomID
	a.ScreenName = &screenName
}

// ClearParticipant drops the participant projection after the row is deleted.
func (a *Account) ClearParticipant() {
	a.RoomID = nil
	a.ScreenName = nil
}
