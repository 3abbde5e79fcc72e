package repository

import (
	"context"

	"gorm.io/gorm"

	"sling/roomhub/internal/model"
)

type pgAccountRepository struct {
	db *gorm.DB
}

func NewPGAccountRepository(db *gorm.DB) AccountRepository {
	return &pgAccountRepository{db: db}
}

func (r *pgAccountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *pgAccountRepository) GetByID(ctx context.Context, id uint) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).First(&account, "account_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *pgAccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).First(&account, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *pgAccountRepository) GetByToken(ctx context.Context, token string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).First(&account, "login_token = ?", token).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *pgAccountRepository) Update(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *pgAccountRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Account{}, "account_id = ?", id)
	return res.RowsAffected > 0, res.Error
}
