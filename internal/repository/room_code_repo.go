package repository

import (
	"context"

	"sling/roomhub/internal/model"
)

// RoomCodeRepository persists admission codes.
//
// GetByCodeLocked must be called inside Store.Atomically: the Postgres
// implementation takes a SELECT ... FOR UPDATE row lock so that concurrent
// redemptions of the same code serialize on the uses-left check.
type RoomCodeRepository interface {
	Create(ctx context.Context, code *model.RoomCode) error
	GetByCode(ctx context.Context, code string) (*model.RoomCode, error)
	GetByCodeLocked(ctx context.Context, code string) (*model.RoomCode, error)
	DecrementUses(ctx context.Context, code string) error
	Update(ctx context.Context, code *model.RoomCode) error
	ListByRoom(ctx context.Context, roomID uint) ([]model.RoomCode, error)
	DeleteByRoom(ctx context.Context, roomID uint) (int64, error)

	// RoomForParticipant resolves the room an account sits in by joining its
	// participant row against that room's codes.
	RoomForParticipant(ctx context.Context, accountID uint) (uint, error)
}
