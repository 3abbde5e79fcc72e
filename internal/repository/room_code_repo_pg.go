package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sling/roomhub/internal/model"
)

type pgRoomCodeRepository struct {
	db *gorm.DB
}

func NewPGRoomCodeRepository(db *gorm.DB) RoomCodeRepository {
	return &pgRoomCodeRepository{db: db}
}

func (r *pgRoomCodeRepository) Create(ctx context.Context, code *model.RoomCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *pgRoomCodeRepository) GetByCode(ctx context.Context, code string) (*model.RoomCode, error) {
	var rc model.RoomCode
	if err := r.db.WithContext(ctx).First(&rc, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *pgRoomCodeRepository) GetByCodeLocked(ctx context.Context, code string) (*model.RoomCode, error) {
	var rc model.RoomCode
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rc, "code = ?", code).
		Error
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *pgRoomCodeRepository) DecrementUses(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).
		Model(&model.RoomCode{}).
		Where("code = ? AND uses_left IS NOT NULL", code).
		UpdateColumn("uses_left", gorm.Expr("uses_left - 1")).
		Error
}

func (r *pgRoomCodeRepository) Update(ctx context.Context, code *model.RoomCode) error {
	return r.db.WithContext(ctx).Save(code).Error
}

func (r *pgRoomCodeRepository) ListByRoom(ctx context.Context, roomID uint) ([]model.RoomCode, error) {
	var codes []model.RoomCode
	if err := r.db.WithContext(ctx).Find(&codes, "room_id = ?", roomID).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *pgRoomCodeRepository) DeleteByRoom(ctx context.Context, roomID uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.RoomCode{}, "room_id = ?", roomID)
	return res.RowsAffected, res.Error
}

func (r *pgRoomCodeRepository) RoomForParticipant(ctx context.Context, accountID uint) (uint, error) {
	var roomID uint
	err := r.db.WithContext(ctx).
		Model(&model.Participant{}).
		Select("participants.room_id").
		Joins("JOIN room_codes ON room_codes.room_id = participants.room_id").
		Where("participants.account_id = ?", accountID).
		Limit(1).
		Scan(&roomID).
		Error
	if err != nil {
		return 0, err
	}
	if roomID == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return roomID, nil
}
