package model

import "time"

// Canonical wire shapes. These are the JSON documents the rest of the Sling
// application consumes; key names and the Type discriminator are part of the
// external contract and must not drift with the storage schema.

type AccountJSON struct {
	Type       string  `json:"Type"`
	Email      *string `json:"Email"`
	FirstName  string  `json:"FirstName"`
	LastName   string  `json:"LastName"`
	LoginToken string  `json:"LoginToken"`
	ID         uint    `json:"ID"`
	ScreenName *string `json:"ScreenName"`
}

type RoomCodeJSON struct {
	Type           string     `json:"Type"`
	RoomCode       string     `json:"RoomCode"`
	RoomID         uint       `json:"RoomID"`
	CreatedBy      uint       `json:"CreatedBy"`
	UsesLeft       *int       `json:"UsesLeft"`
	ExpirationDate *time.Time `json:"ExpirationDate"`
}

type RoomJSON struct {
	Type      string         `json:"Type"`
	Accounts  []AccountJSON  `json:"Accounts"`
	RoomCodes []RoomCodeJSON `json:"RoomCodes"`
	RoomID    uint           `json:"RoomID"`
	RoomName  string         `json:"RoomName"`
}

// Serialize returns the canonical Account document.
func (a *Account) Serialize() AccountJSON {
	return AccountJSON{
		Type:       "Account",
		Email:      a.Email,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		LoginToken: a.LoginToken,
		ID:         a.AccountID,
		ScreenName: a.ScreenName,
	}
}

// AccountFromJSON rebuilds the account fields covered by the wire shape.
// Storage-only fields (hash, timestamps) are not part of the document.
func AccountFromJSON(j AccountJSON) *Account {
	a := &Account{
		AccountID:  j.ID,
		Email:      j.Email,
		FirstName:  j.FirstName,
		LastName:   j.LastName,
		LoginToken: j.LoginToken,
		ScreenName: j.ScreenName,
	}
	return a
}

// Serialize returns the canonical RoomCode document.
func (c *RoomCode) Serialize() RoomCodeJSON {
	return RoomCodeJSON{
		Type:           "RoomCode",
		RoomCode:       c.Code,
		RoomID:         c.RoomID,
		CreatedBy:      c.CreatedBy,
		UsesLeft:       c.UsesLeft,
		ExpirationDate: c.ExpiresAt,
	}
}

// RoomCodeFromJSON rebuilds a room code from its wire shape.
func RoomCodeFromJSON(j RoomCodeJSON) *RoomCode {
	return &RoomCode{
		Code:      j.RoomCode,
		RoomID:    j.RoomID,
		CreatedBy: j.CreatedBy,
		UsesLeft:  j.UsesLeft,
		ExpiresAt: j.ExpirationDate,
	}
}

// Serialize returns the canonical Room document with nested accounts and codes.
func (r *Room) Serialize() RoomJSON {
	accounts := make([]AccountJSON, 0, len(r.Accounts))
	for i := range r.Accounts {
		accounts = append(accounts, r.Accounts[i].Serialize())
	}
	codes := make([]RoomCodeJSON, 0, len(r.RoomCodes))
	for i := range r.RoomCodes {
		codes = append(codes, r.RoomCodes[i].Serialize())
	}
	return RoomJSON{
		Type:      "Room",
		Accounts:  accounts,
		RoomCodes: codes,
		RoomID:    r.RoomID,
		RoomName:  r.RoomName,
	}
}

// RoomFromJSON rebuilds a room aggregate from its wire shape.
func RoomFromJSON(j RoomJSON) *Room {
	r := &Room{RoomID: j.RoomID, RoomName: j.RoomName}
	for _, aj := range j.Accounts {
		r.Accounts = append(r.Accounts, *AccountFromJSON(aj))
	}
	for _, cj := range j.RoomCodes {
		r.RoomCodes = append(r.RoomCodes, *RoomCodeFromJSON(cj))
	}
	return r
}
