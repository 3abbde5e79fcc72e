package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sling/roomhub/internal/model"
)

func strPtr(s string) *string { return &s }

func TestMemoryAccountsEnforceUniqueness(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := &model.Account{Email: strPtr("a@x.com"), LoginToken: "tok-1"}
	require.NoError(t, store.Accounts().Create(ctx, first))
	assert.Equal(t, uint(1), first.AccountID)

	dupEmail := &model.Account{Email: strPtr("a@x.com"), LoginToken: "tok-2"}
	assert.ErrorIs(t, store.Accounts().Create(ctx, dupEmail), gorm.ErrDuplicatedKey)

	dupToken := &model.Account{LoginToken: "tok-1"}
	assert.ErrorIs(t, store.Accounts().Create(ctx, dupToken), gorm.ErrDuplicatedKey)

	// Guests carry no email, so two of them never collide on it.
	guest1 := &model.Account{LoginToken: "tok-3"}
	guest2 := &model.Account{LoginToken: "tok-4"}
	require.NoError(t, store.Accounts().Create(ctx, guest1))
	require.NoError(t, store.Accounts().Create(ctx, guest2))
}

func TestMemoryParticipantsSingleRoomPerAccount(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Participants().Create(ctx, &model.Participant{
		AccountID: 1, RoomID: 1, ScreenName: "Ian",
	}))
	err := store.Participants().Create(ctx, &model.Participant{
		AccountID: 1, RoomID: 2, ScreenName: "Ian",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestMemoryAtomicallyRollsBack(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Atomically(ctx, func(tx Store) error {
		if err := tx.Rooms().Create(ctx, &model.Room{RoomName: "Lobby"}); err != nil {
			return err
		}
		if err := tx.Accounts().Create(ctx, &model.Account{LoginToken: "tok-1"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Rooms().GetByID(ctx, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = store.Accounts().GetByToken(ctx, "tok-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// IDs burnt inside the rolled-back transaction are reissued.
	room := &model.Room{RoomName: "Lobby"}
	require.NoError(t, store.Rooms().Create(ctx, room))
	assert.Equal(t, uint(1), room.RoomID)
}

func TestMemoryAtomicallyCommits(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Atomically(ctx, func(tx Store) error {
		return tx.Rooms().Create(ctx, &model.Room{RoomName: "Lobby"})
	})
	require.NoError(t, err)

	room, err := store.Rooms().GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Lobby", room.RoomName)
}

func TestMemoryNestedAtomically(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Atomically(ctx, func(tx Store) error {
		return tx.Atomically(ctx, func(inner Store) error {
			return inner.Rooms().Create(ctx, &model.Room{RoomName: "Lobby"})
		})
	})
	require.NoError(t, err)

	_, err = store.Rooms().GetByID(ctx, 1)
	assert.NoError(t, err)
}

func TestMemoryDecrementUses(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	uses := 2
	require.NoError(t, store.RoomCodes().Create(ctx, &model.RoomCode{
		Code: "CODE", RoomID: 1, CreatedBy: 1, UsesLeft: &uses,
	}))

	require.NoError(t, store.RoomCodes().DecrementUses(ctx, "CODE"))
	rc, err := store.RoomCodes().GetByCode(ctx, "CODE")
	require.NoError(t, err)
	require.NotNil(t, rc.UsesLeft)
	assert.Equal(t, 1, *rc.UsesLeft)

	// Unlimited codes are untouched.
	require.NoError(t, store.RoomCodes().Create(ctx, &model.RoomCode{
		Code: "OPEN", RoomID: 1, CreatedBy: 1,
	}))
	require.NoError(t, store.RoomCodes().DecrementUses(ctx, "OPEN"))
	rc, err = store.RoomCodes().GetByCode(ctx, "OPEN")
	require.NoError(t, err)
	assert.Nil(t, rc.UsesLeft)
}

func TestMemoryRoomForParticipant(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Participants().Create(ctx, &model.Participant{
		AccountID: 7, RoomID: 3, ScreenName: "Ian",
	}))

	// No code rows for the room yet: the join finds nothing.
	_, err := store.RoomCodes().RoomForParticipant(ctx, 7)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, store.RoomCodes().Create(ctx, &model.RoomCode{
		Code: "CODE", RoomID: 3, CreatedBy: 7,
	}))
	roomID, err := store.RoomCodes().RoomForParticipant(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, uint(3), roomID)

	_, err = store.RoomCodes().RoomForParticipant(ctx, 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMemoryDeleteByRoomCounts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i, code := range []string{"A", "B", "C"} {
		roomID := uint(1)
		if i == 2 {
			roomID = 2
		}
		require.NoError(t, store.RoomCodes().Create(ctx, &model.RoomCode{
			Code: code, RoomID: roomID, CreatedBy: 1,
		}))
	}

	removed, err := store.RoomCodes().DeleteByRoom(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	remaining, err := store.RoomCodes().ListByRoom(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
