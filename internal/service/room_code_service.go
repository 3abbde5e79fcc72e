package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sling/roomhub/internal/model"
	"sling/roomhub/internal/repository"
	"sling/roomhub/pkg/crypto"
)

// RoomCodeService issues and redeems room admission codes.
type RoomCodeService struct {
	store repository.Store
	now   func() time.Time
}

func NewRoomCodeService(store repository.Store) *RoomCodeService {
	return &RoomCodeService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create mints a new code for a room. usesLeft nil means unlimited until
// expiry; expiresAt nil means no expiry.
func (s *RoomCodeService) Create(ctx context.Context, roomID, createdBy uint, usesLeft *int, expiresAt *time.Time) (*model.RoomCode, error) {
	code, err := s.mint(roomID, createdBy, usesLeft, expiresAt)
	if err != nil {
		return nil, err
	}
	if err := s.store.RoomCodes().Create(ctx, code); err != nil {
		return nil, fmt.Errorf("create room code: %w", err)
	}
	return code, nil
}

// Mint builds an unpersisted code so the room service can insert it inside
// its own transaction.
func (s *RoomCodeService) Mint(roomID, createdBy uint, usesLeft *int, expiresAt *time.Time) (*model.RoomCode, error) {
	return s.mint(roomID, createdBy, usesLeft, expiresAt)
}

func (s *RoomCodeService) mint(roomID, createdBy uint, usesLeft *int, expiresAt *time.Time) (*model.RoomCode, error) {
	value, err := crypto.NewRoomCode()
	if err != nil {
		return nil, fmt.Errorf("generate room code: %w", err)
	}
	return &model.RoomCode{
		Code:      value,
		RoomID:    roomID,
		CreatedBy: createdBy,
		UsesLeft:  usesLeft,
		ExpiresAt: expiresAt,
	}, nil
}

// Redeem validates and consumes one use of a code, returning the owning room
// ID. The check and the decrement run in one transaction against a locked
// row, so concurrent redemptions of a code with one use left admit exactly
// one caller. Rejections are ErrCodeNotFound, ErrCodeExpired, or
// ErrCodeExhausted.
func (s *RoomCodeService) Redeem(ctx context.Context, code string) (uint, error) {
	var roomID uint
	err := s.store.Atomically(ctx, func(tx repository.Store) error {
		rc, err := s.checkRedeemable(ctx, tx, code)
		if err != nil {
			return err
		}
		if err := tx.RoomCodes().DecrementUses(ctx, code); err != nil {
			return fmt.Errorf("decrement uses: %w", err)
		}
		roomID = rc.RoomID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return roomID, nil
}

// checkRedeemable locks the code row and validates it; it does not decrement.
func (s *RoomCodeService) checkRedeemable(ctx context.Context, tx repository.Store, code string) (*model.RoomCode, error) {
	rc, err := tx.RoomCodes().GetByCodeLocked(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("lookup room code: %w", err)
	}
	if rc.Expired(s.now()) {
		return nil, ErrCodeExpired
	}
	if rc.Exhausted() {
		return nil, ErrCodeExhausted
	}
	return rc, nil
}

// Get returns a code by its value.
func (s *RoomCodeService) Get(ctx context.Context, code string) (*model.RoomCode, error) {
	rc, err := s.store.RoomCodes().GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("lookup room code: %w", err)
	}
	return rc, nil
}

// ListByRoom returns every active code a room has minted.
func (s *RoomCodeService) ListByRoom(ctx context.Context, roomID uint) ([]model.RoomCode, error) {
	codes, err := s.store.RoomCodes().ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list room codes: %w", err)
	}
	return codes, nil
}

// Save writes a code row through.
func (s *RoomCodeService) Save(ctx context.Context, code *model.RoomCode) error {
	if err := s.store.RoomCodes().Update(ctx, code); err != nil {
		return fmt.Errorf("save room code: %w", err)
	}
	return nil
}
