package repository

import (
	"context"

	"sling/roomhub/internal/model"
)

// ParticipantRepository persists account-in-room bindings.
type ParticipantRepository interface {
	Create(ctx context.Context, participant *model.Participant) error
	GetByAccount(ctx context.Context, accountID uint) (*model.Participant, error)
	ListByRoom(ctx context.Context, roomID uint) ([]model.Participant, error)
	UpdateScreenName(ctx context.Context, accountID uint, screenName string) error
	DeleteByAccount(ctx context.Context, accountID uint) (bool, error)
	DeleteByRoom(ctx context.Context, roomID uint) (int64, error)
	CountByRoom(ctx context.Context, roomID uint) (int64, error)
}
