package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func uintPtr(u uint) *uint    { return &u }

func TestAccountSerializeRoundTrip(t *testing.T) {
	account := &Account{
		AccountID:  7,
		Email:      strPtr("a@x.com"),
		FirstName:  "Ada",
		LastName:   "Lovelace",
		LoginToken: "tok-123",
		RoomID:     uintPtr(3),
		ScreenName: strPtr("Ada"),
	}

	doc := account.Serialize()
	assert.Equal(t, "Account", doc.Type)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded AccountJSON
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, doc, decoded)

	rebuilt := AccountFromJSON(decoded)
	assert.Equal(t, doc, rebuilt.Serialize())
}

func TestAccountSerializeGuest(t *testing.T) {
	guest := &Account{AccountID: 1, LoginToken: "tok"}

	raw, err := json.Marshal(guest.Serialize())
	require.NoError(t, err)

	// Guests expose explicit nulls, not omitted keys.
	assert.Contains(t, string(raw), `"Email":null`)
	assert.Contains(t, string(raw), `"ScreenName":null`)
}

func TestRoomSerializeRoundTrip(t *testing.T) {
	expires := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	room := &Room{
		RoomID:   3,
		RoomName: "Lobby",
		Accounts: []Account{
			{AccountID: 1, LoginToken: "t1", RoomID: uintPtr(3), ScreenName: strPtr("Ian")},
		},
		RoomCodes: []RoomCode{
			{Code: "c0de", RoomID: 3, CreatedBy: 1, UsesLeft: intPtr(5), ExpiresAt: &expires},
		},
	}

	doc := room.Serialize()
	assert.Equal(t, "Room", doc.Type)
	assert.Len(t, doc.Accounts, 1)
	assert.Len(t, doc.RoomCodes, 1)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded RoomJSON
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, doc, decoded)

	rebuilt := RoomFromJSON(decoded)
	assert.Equal(t, doc, rebuilt.Serialize())
}

func TestRoomCodeRedeemable(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	unlimited := &RoomCode{}
	assert.True(t, unlimited.Redeemable(now))

	bounded := &RoomCode{UsesLeft: intPtr(1)}
	assert.True(t, bounded.Redeemable(now))

	exhausted := &RoomCode{UsesLeft: intPtr(0)}
	assert.False(t, exhausted.Redeemable(now))
	assert.True(t, exhausted.Exhausted())

	expired := &RoomCode{ExpiresAt: &past}
	assert.False(t, expired.Redeemable(now))
	assert.True(t, expired.Expired(now))

	live := &RoomCode{UsesLeft: intPtr(2), ExpiresAt: &future}
	assert.True(t, live.Redeemable(now))
}

func TestParticipantNames(t *testing.T) {
	room := &Room{
		Accounts: []Account{
			{AccountID: 1, ScreenName: strPtr("Ian")},
			{AccountID: 2, ScreenName: strPtr("Tristan")},
		},
	}
	assert.Equal(t, []string{"Ian", "Tristan"}, room.ParticipantNames())
}
