package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sling/roomhub/internal/repository"
)

type roomFixture struct {
	store    repository.Store
	accounts *AccountService
	codes    *RoomCodeService
	rooms    *RoomService
}

func newRoomFixture(t *testing.T) *roomFixture {
	t.Helper()
	store := repository.NewMemoryStore()
	accounts := NewAccountService(store, repository.NewMemoryStateStore(), NewNopAuditLogger(), time.Minute)
	codes := NewRoomCodeService(store)
	rooms := NewRoomService(store, accounts, codes, zap.NewNop())
	return &roomFixture{store: store, accounts: accounts, codes: codes, rooms: rooms}
}

func TestCreateRoomWithGuestCreator(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	room, err := f.rooms.CreateRoomWithoutAccount(ctx, "Lobby", "Ian", nil, nil)
	require.NoError(t, err)

	assert.NotZero(t, room.RoomID)
	assert.Equal(t, "Lobby", room.RoomName)
	require.Len(t, room.Accounts, 1)
	require.Len(t, room.RoomCodes, 1)

	creator := room.Accounts[0]
	assert.True(t, creator.IsGuest())
	require.NotNil(t, creator.RoomID)
	assert.Equal(t, room.RoomID, *creator.RoomID)
	require.NotNil(t, creator.ScreenName)
	assert.Equal(t, "Ian", *creator.ScreenName)

	names, err := f.rooms.Participants(ctx, room.RoomID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ian"}, names)
}

func TestCreateRoomWithExistingAccount(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	account, err := f.accounts.Create(ctx, "a@x.com", "Ian", "Smith", "secret1")
	require.NoError(t, err)

	room, err := f.rooms.CreateRoom(ctx, "Lobby", account.LoginToken, "Ian", nil, nil)
	require.NoError(t, err)

	require.Len(t, room.Accounts, 1)
	assert.Equal(t, account.AccountID, room.Accounts[0].AccountID)
	assert.False(t, room.Accounts[0].IsGuest())
	assert.Equal(t, account.AccountID, room.RoomCodes[0].CreatedBy)
}

func TestCreateRoomValidatesInput(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	_, err := f.rooms.CreateRoomWithoutAccount(ctx, "", "Ian", nil, nil)
	assert.True(t, IsValidation(err), "empty room name must be rejected")

	_, err = f.rooms.CreateRoomWithoutAccount(ctx, "Lobby", "", nil, nil)
	assert.True(t, IsValidation(err), "empty screen name must be rejected")

	_, err = f.rooms.CreateRoomWithoutAccount(ctx, "Lobby", "Bad;Name", nil, nil)
	assert.True(t, IsValidation(err))
}

func TestCreateRoomRollsBackOnFailure(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	first, err := f.rooms.CreateRoomWithoutAccount(ctx, "Lobby", "Ian", nil, nil)
	require.NoError(t, err)
	token := first.Accounts[0].LoginToken

	// The creator already sits in a room, so admission fails after the room
	// row is inserted; the transaction must take the room row back with it.
	_, err = f.rooms.CreateRoom(ctx, "Annex", token, "Ian", nil, nil)
	require.ErrorIs(t, err, ErrAlreadyInRoom)

	_, err = f.rooms.Get(ctx, first.RoomID+1)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinAdmitsGuest(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	room, err := f.rooms.CreateRoomWithoutAccount(ctx, "Lobby", "Ian", nil, nil)
	require.NoError(t, err)
	code := room.RoomCodes[0].Code

	joined, err := f.rooms.Join(ctx, code, "", "Mallory")
	require.NoError(t, err)
	assert.True(t, joined.IsGuest())
	require.NotNil(t, joined.RoomID)
	assert.Equal(t, room.RoomID, *joined.RoomID)

	names, err := f.rooms.Participants(ctx, room.RoomID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Ian", "Mallory"}, names)
}

func TestJoinConsumesLastUseThenRejects(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	uses := 1
	room, err := f.rooms.CreateRoomWithoutAccount(ctx, "Lobby", "Ian", &uses, nil)
	require.NoError(t, err)
	code := room.RoomCodes[0].Code

	_, err = f.rooms.Join(ctx, code, "", "Mallory")
	require.NoError(t, err)

	stored, err := f.codes.Get(ctx, code)
	require.NoError(t, err)
	require.NotNil(t, stored.UsesLeft)
	assert.Equal(t, 0, *stored.UsesLeft)

	_, err = f.rooms.Join(ctx, code, "", "Trent")
	assert.ErrorIs(t, err, ErrCodeExhausted)
}

func TestFailedJoinBurnsNoUse(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	uses := 3
	room, err := f.rooms.CreateRoomWithoutAccount(ctx, "Lobby", "Ian", &uses, nil)
	require.NoError(t, err)
	code := room.RoomCodes[0].Code

	// The creator is already a participant, so the join fails after the code
	// check but before the decrement commits.
	_, err = f.rooms.Join(ctx, code, room.Accounts[0].LoginToken, "Ian2")
	require.ErrorIs(t, err, ErrAlreadyInRoom)

	stored, err := f.codes.Get(ctx, code)
	require.NoError(t, err)
	require.NotNil(t, stored.UsesLeft)
	assert.Equal(t, 3, *stored.UsesLeft)
}

func TestJoinRejectsExpiredCode(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	f.codes.now = func() time.Time { return fixed }

	expired := fixed.Add(-time.Minute)
	room, err := f.rooms.CreateRoomWithoutAccount(ctx, "Lobby", "Ian", nil, &expired)
	require.NoError(t, err)

	_, err = f.rooms.Join(ctx, room.RoomCodes[0].Code, "", "Mallory")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestJoinUnknownCode(t *testing.T) {
	f := newRoomFixture(t)

	_, err := f.rooms.Join(context.Background(), "NOSUCHCODE", "", "Mallory")
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestLeaveRemovesParticipantAndCodes(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	room, err := f.rooms.CreateRoomWithoutAccount(ctx, "Lobby", "Ian", nil, nil)
	require.NoError(t, err)
	creator := room.Accounts[0]

	removed, err := f.rooms.Leave(ctx, creator.AccountID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = f.store.Participants().GetByAccount(ctx, creator.AccountID)
	assert.Error(t, err, "participant row must be gone")

	codes, err := f.store.RoomCodes().ListByRoom(ctx, room.RoomID)
	require.NoError(t, err)
	assert.Empty(t, codes, "all room codes must be removed")

	_, err = f.store.Accounts().GetByID(ctx, creator.AccountID)
	assert.NoError(t, err, "account row must survive")

	// The room itself remains until explicitly deleted.
	_, err = f.rooms.Get(ctx, room.RoomID)
	assert.NoError(t, err)
}

func TestLeaveWithoutParticipant(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	account, err := f.accounts.Create(ctx, "a@x.com", "Ian", "Smith", "secret1")
	require.NoError(t, err)

	removed, err := f.rooms.Leave(ctx, account.AccountID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestDeleteCascadesCompletely(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	room, err := f.rooms.CreateRoomWithoutAccount(ctx, "Lobby", "Ian", nil, nil)
	require.NoError(t, err)
	_, err = f.rooms.Join(ctx, room.RoomCodes[0].Code, "", "Mallory")
	require.NoError(t, err)
	_, err = f.codes.Create(ctx, room.RoomID, room.Accounts[0].AccountID, nil, nil)
	require.NoError(t, err)

	result, err := f.rooms.Delete(ctx, room.RoomID)
	require.NoError(t, err)
	assert.False(t, result.Failed())

	require.Len(t, result.Steps, 3)
	assert.Equal(t, "room_codes", result.Steps[0].Name)
	assert.Equal(t, int64(2), result.Steps[0].Removed)
	assert.Equal(t, "participants", result.Steps[1].Name)
	assert.Equal(t, int64(2), result.Steps[1].Removed)
	assert.Equal(t, "room", result.Steps[2].Name)
	assert.Equal(t, int64(1), result.Steps[2].Removed)

	_, err = f.rooms.Get(ctx, room.RoomID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	codes, err := f.store.RoomCodes().ListByRoom(ctx, room.RoomID)
	require.NoError(t, err)
	assert.Empty(t, codes)
	participants, err := f.store.Participants().ListByRoom(ctx, room.RoomID)
	require.NoError(t, err)
	assert.Empty(t, participants)

	// Accounts are never part of the room cascade.
	_, err = f.store.Accounts().GetByID(ctx, room.Accounts[0].AccountID)
	assert.NoError(t, err)
}

func TestDeleteUnknownRoom(t *testing.T) {
	f := newRoomFixture(t)

	_, err := f.rooms.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRename(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	room, err := f.rooms.CreateRoomWithoutAccount(ctx, "Lobby", "Ian", nil, nil)
	require.NoError(t, err)

	require.NoError(t, f.rooms.Rename(ctx, room.RoomID, "War Room"))
	renamed, err := f.rooms.Get(ctx, room.RoomID)
	require.NoError(t, err)
	assert.Equal(t, "War Room", renamed.RoomName)

	err = f.rooms.Rename(ctx, room.RoomID, "")
	assert.True(t, IsValidation(err))

	err = f.rooms.Rename(ctx, 999, "Nowhere")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestGetAggregatesRoom(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	room, err := f.rooms.CreateRoomWithoutAccount(ctx, "Lobby", "Ian", nil, nil)
	require.NoError(t, err)
	_, err = f.rooms.Join(ctx, room.RoomCodes[0].Code, "", "Mallory")
	require.NoError(t, err)

	full, err := f.rooms.Get(ctx, room.RoomID)
	require.NoError(t, err)
	assert.Len(t, full.Accounts, 2)
	assert.Len(t, full.RoomCodes, 1)
	for _, account := range full.Accounts {
		require.NotNil(t, account.RoomID)
		assert.Equal(t, room.RoomID, *account.RoomID)
		assert.NotNil(t, account.ScreenName)
	}
}
