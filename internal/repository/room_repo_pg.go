package repository

import (
	"context"

	"gorm.io/gorm"

	"sling/roomhub/internal/model"
)

type pgRoomRepository struct {
	db *gorm.DB
}

func NewPGRoomRepository(db *gorm.DB) RoomRepository {
	return &pgRoomRepository{db: db}
}

func (r *pgRoomRepository) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *pgRoomRepository) GetByID(ctx context.Context, id uint) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).First(&room, "room_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *pgRoomRepository) UpdateName(ctx context.Context, id uint, name string) error {
	return r.db.WithContext(ctx).
		Model(&model.Room{}).
		Where("room_id = ?", id).
		UpdateColumn("room_name", name).
		Error
}

func (r *pgRoomRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Room{}, "room_id = ?", id)
	return res.RowsAffected > 0, res.Error
}
