package repository

import (
	"context"

	"sling/roomhub/internal/model"
)

// RoomRepository persists room rows.
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id uint) (*model.Room, error)
	UpdateName(ctx context.Context, id uint, name string) error
	Delete(ctx context.Context, id uint) (bool, error)
}
