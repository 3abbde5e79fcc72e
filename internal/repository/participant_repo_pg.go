package repository

import (
	"context"

	"gorm.io/gorm"

	"sling/roomhub/internal/model"
)

type pgParticipantRepository struct {
	db *gorm.DB
}

func NewPGParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &pgParticipantRepository{db: db}
}

func (r *pgParticipantRepository) Create(ctx context.Context, participant *model.Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

func (r *pgParticipantRepository) GetByAccount(ctx context.Context, accountID uint) (*model.Participant, error) {
	var participant model.Participant
	if err := r.db.WithContext(ctx).First(&participant, "account_id = ?", accountID).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *pgParticipantRepository) ListByRoom(ctx context.Context, roomID uint) ([]model.Participant, error) {
	var participants []model.Participant
	if err := r.db.WithContext(ctx).Find(&participants, "room_id = ?", roomID).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *pgParticipantRepository) UpdateScreenName(ctx context.Context, accountID uint, screenName string) error {
	return r.db.WithContext(ctx).
		Model(&model.Participant{}).
		Where("account_id = ?", accountID).
		UpdateColumn("screen_name", screenName).
		Error
}

func (r *pgParticipantRepository) DeleteByAccount(ctx context.Context, accountID uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Participant{}, "account_id = ?", accountID)
	return res.RowsAffected > 0, res.Error
}

func (r *pgParticipantRepository) DeleteByRoom(ctx context.Context, roomID uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Participant{}, "room_id = ?", roomID)
	return res.RowsAffected, res.Error
}

func (r *pgParticipantRepository) CountByRoom(ctx context.Context, roomID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Participant{}).
		Where("room_id = ?", roomID).
		Count(&count).
		Error
	return count, err
}
