package model

import "time"

// RoomCode is an admission token for a room. UsesLeft nil means the code is
// redeemable any number of times until it expires; ExpiresAt nil means it
// never expires. Each successful redemption decrements UsesLeft.
type RoomCode struct {
	Code      string     `gorm:"type:varchar(64);primaryKey"`
	RoomID    uint       `gorm:"index;not null"`
	CreatedBy uint       `gorm:"not null"`
	UsesLeft  *int
	ExpiresAt *time.Time
}

func (RoomCode) TableName() string { return "room_codes" }

// Redeemable reports whether the code can still admit a participant at the
// given instant.
func (c *RoomCode) Redeemable(now time.Time) bool {
	if c.UsesLeft != nil && *c.UsesLeft <= 0 {
		return false
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
		return false
	}
	return true
}

// Expired reports whether the expiration date has passed.
func (c *RoomCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

// Exhausted reports whether a bounded code has no uses left.
func (c *RoomCode) Exhausted() bool {
	return c.UsesLeft != nil && *c.UsesLeft <= 0
}
