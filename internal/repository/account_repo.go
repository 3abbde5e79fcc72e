package repository

import (
	"context"

	"sling/roomhub/internal/model"
)

// AccountRepository persists account rows. Lookups that find no row return
// gorm.ErrRecordNotFound; inserts that violate the unique email or token
// index return gorm.ErrDuplicatedKey.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id uint) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByToken(ctx context.Context, token string) (*model.Account, error)
	Update(ctx context.Context, account *model.Account) error
	Delete(ctx context.Context, id uint) (bool, error)
}
