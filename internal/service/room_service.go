package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sling/roomhub/internal/model"
	"sling/roomhub/internal/repository"
)

// RoomService orchestrates the room lifecycle: Provisional while the creation
// transaction runs, Active once the first participant and initial code are
// committed, Deleted after the cascade removes all child rows.
type RoomService struct {
	store    repository.Store
	accounts *AccountService
	codes    *RoomCodeService
	logger   *zap.Logger
	now      func() time.Time
}

func NewRoomService(store repository.Store, accounts *AccountService, codes *RoomCodeService, logger *zap.Logger) *RoomService {
	return &RoomService{
		store:    store,
		accounts: accounts,
		codes:    codes,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateRoom creates a room with its first participant and initial code in
// one transaction. The creator is resolved by token; an empty or unknown
// token provisions a fresh guest account. Any failure rolls back every row,
// including the room itself.
func (s *RoomService) CreateRoom(ctx context.Context, roomName, token, screenName string, usesLeft *int, expiresAt *time.Time) (*model.Room, error) {
	return s.createRoom(ctx, roomName, token, screenName, usesLeft, expiresAt)
}

// CreateRoomWithoutAccount creates a room whose first participant is always a
// fresh guest account.
func (s *RoomService) CreateRoomWithoutAccount(ctx context.Context, roomName, screenName string, usesLeft *int, expiresAt *time.Time) (*model.Room, error) {
	return s.createRoom(ctx, roomName, "", screenName, usesLeft, expiresAt)
}

func (s *RoomService) createRoom(ctx context.Context, roomName, token, screenName string, usesLeft *int, expiresAt *time.Time) (*model.Room, error) {
	if err := validateRoomName(roomName); err != nil {
		return nil, err
	}
	if err := validateScreenName(screenName); err != nil {
		return nil, err
	}

	room := &model.Room{RoomName: roomName}
	err := s.store.Atomically(ctx, func(tx repository.Store) error {
		if err := tx.Rooms().Create(ctx, room); err != nil {
			return fmt.Errorf("create room: %w", err)
		}

		account, err := s.resolveOrCreateAccount(ctx, tx, token)
		if err != nil {
			return err
		}

		if err := s.admit(ctx, tx, account, room.RoomID, screenName); err != nil {
			return err
		}

		code, err := s.codes.Mint(room.RoomID, account.AccountID, usesLeft, expiresAt)
		if err != nil {
			return err
		}
		if err := tx.RoomCodes().Create(ctx, code); err != nil {
			return fmt.Errorf("create room code: %w", err)
		}

		room.Accounts = []model.Account{*account}
		room.RoomCodes = []model.RoomCode{*code}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		zap.Uint("room_id", room.RoomID),
		zap.String("room_name", room.RoomName),
	)
	return room, nil
}

// Join redeems a code and admits the account behind the token (a fresh guest
// when the token is empty or unknown) as a participant. The code is checked
// before its use is consumed, and everything runs in one transaction: a
// failed join never burns a use.
func (s *RoomService) Join(ctx context.Context, code, token, screenName string) (*model.Account, error) {
	if err := validateScreenName(screenName); err != nil {
		return nil, err
	}

	var account *model.Account
	err := s.store.Atomically(ctx, func(tx repository.Store) error {
		rc, err := s.codes.checkRedeemable(ctx, tx, code)
		if err != nil {
			return err
		}

		account, err = s.resolveOrCreateAccount(ctx, tx, token)
		if err != nil {
			return err
		}

		if err := s.admit(ctx, tx, account, rc.RoomID, screenName); err != nil {
			return err
		}
		if err := tx.RoomCodes().DecrementUses(ctx, code); err != nil {
			return fmt.Errorf("decrement uses: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("participant joined",
		zap.Uint("room_id", *account.RoomID),
		zap.Uint("account_id", account.AccountID),
	)
	return account, nil
}

// resolveOrCreateAccount looks the token up inside the transaction, creating
// a guest account when the token is empty or matches nothing.
func (s *RoomService) resolveOrCreateAccount(ctx context.Context, tx repository.Store, token string) (*model.Account, error) {
	if token != "" {
		account, err := tx.Accounts().GetByToken(ctx, token)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lookup account by token: %w", err)
		}
	}
	guest, err := s.accounts.NewGuest()
	if err != nil {
		return nil, err
	}
	if err := tx.Accounts().Create(ctx, guest); err != nil {
		return nil, fmt.Errorf("create guest account: %w", err)
	}
	return guest, nil
}

// admit inserts the participant row binding account to room. An account that
// already sits in a room is rejected with ErrAlreadyInRoom.
func (s *RoomService) admit(ctx context.Context, tx repository.Store, account *model.Account, roomID uint, screenName string) error {
	participant := &model.Participant{
		AccountID:  account.AccountID,
		RoomID:     roomID,
		ScreenName: screenName,
	}
	if err := tx.Participants().Create(ctx, participant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyInRoom
		}
		return fmt.Errorf("create participant: %w", err)
	}
	account.AttachParticipant(participant)
	return nil
}

// Leave removes an account's participant and every code of the room it sat
// in, leaving the account row intact. Removing all of the room's codes, not
// just the one the account redeemed, is deliberate: rooms mint one code at
// creation and a departing member must not leave stale admission paths open.
func (s *RoomService) Leave(ctx context.Context, accountID uint) (bool, error) {
	var removed bool
	err := s.store.Atomically(ctx, func(tx repository.Store) error {
		roomID, err := tx.RoomCodes().RoomForParticipant(ctx, accountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoParticipant
			}
			return fmt.Errorf("resolve room for account: %w", err)
		}
		if _, err := tx.RoomCodes().DeleteByRoom(ctx, roomID); err != nil {
			return fmt.Errorf("delete room codes: %w", err)
		}
		removed, err = tx.Participants().DeleteByAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("delete participant: %w", err)
		}
		remaining, err := tx.Participants().CountByRoom(ctx, roomID)
		if err != nil {
			return fmt.Errorf("count participants: %w", err)
		}
		if remaining == 0 {
			s.logger.Info("room emptied, eligible for deletion", zap.Uint("room_id", roomID))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNoParticipant) {
			return false, nil
		}
		return false, err
	}
	return removed, nil
}

// CascadeStep records the outcome of one stage of a room deletion.
type CascadeStep struct {
	Name    string
	Removed int64
	Err     error
}

// CascadeResult lists the per-step outcomes of a cascading delete.
type CascadeResult struct {
	Steps []CascadeStep
}

// Failed reports whether any step errored.
func (r *CascadeResult) Failed() bool {
	for _, step := range r.Steps {
		if step.Err != nil {
			return true
		}
	}
	return false
}

// Delete cascades room codes, then participants, then the room row. Each
// step is attempted even when an earlier one failed, trading atomicity for
// maximal cleanup; the returned result records every outcome.
func (s *RoomService) Delete(ctx context.Context, roomID uint) (*CascadeResult, error) {
	if _, err := s.store.Rooms().GetByID(ctx, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("lookup room: %w", err)
	}

	result := &CascadeResult{}

	codes, err := s.store.RoomCodes().DeleteByRoom(ctx, roomID)
	result.Steps = append(result.Steps, CascadeStep{Name: "room_codes", Removed: codes, Err: err})
	if err != nil {
		s.logger.Error("cascade: delete room codes failed", zap.Uint("room_id", roomID), zap.Error(err))
	}

	participants, err := s.store.Participants().DeleteByRoom(ctx, roomID)
	result.Steps = append(result.Steps, CascadeStep{Name: "participants", Removed: participants, Err: err})
	if err != nil {
		s.logger.Error("cascade: delete participants failed", zap.Uint("room_id", roomID), zap.Error(err))
	}

	deleted, err := s.store.Rooms().Delete(ctx, roomID)
	var roomsRemoved int64
	if deleted {
		roomsRemoved = 1
	}
	result.Steps = append(result.Steps, CascadeStep{Name: "room", Removed: roomsRemoved, Err: err})
	if err != nil {
		s.logger.Error("cascade: delete room failed", zap.Uint("room_id", roomID), zap.Error(err))
	}

	s.logger.Info("room deleted",
		zap.Uint("room_id", roomID),
		zap.Bool("clean", !result.Failed()),
	)
	return result, nil
}

// Rename validates and writes the new room name through immediately. Room
// and account persistence share the same policy: explicit saves, no dirty
// flags.
func (s *RoomService) Rename(ctx context.Context, roomID uint, name string) error {
	if err := validateRoomName(name); err != nil {
		return err
	}
	if _, err := s.store.Rooms().GetByID(ctx, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("lookup room: %w", err)
	}
	if err := s.store.Rooms().UpdateName(ctx, roomID, name); err != nil {
		return fmt.Errorf("rename room: %w", err)
	}
	return nil
}

// Get loads the full room aggregate: the room row, every participating
// account with its projection attached, and every active code.
func (s *RoomService) Get(ctx context.Context, roomID uint) (*model.Room, error) {
	room, err := s.store.Rooms().GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("lookup room: %w", err)
	}

	participants, err := s.store.Participants().ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	for i := range participants {
		account, err := s.store.Accounts().GetByID(ctx, participants[i].AccountID)
		if err != nil {
			return nil, fmt.Errorf("load participant account: %w", err)
		}
		account.AttachParticipant(&participants[i])
		room.Accounts = append(room.Accounts, *account)
	}

	codes, err := s.store.RoomCodes().ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list room codes: %w", err)
	}
	room.RoomCodes = codes
	return room, nil
}

// Participants returns the screen names of everyone in the room.
func (s *RoomService) Participants(ctx context.Context, roomID uint) ([]string, error) {
	room, err := s.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return room.ParticipantNames(), nil
}
