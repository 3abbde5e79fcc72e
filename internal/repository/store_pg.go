package repository

import (
	"context"

	"gorm.io/gorm"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore wraps a GORM handle in a Store. The handle must be opened with
// TranslateError enabled so unique violations surface as gorm.ErrDuplicatedKey.
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Accounts() AccountRepository         { return &pgAccountRepository{db: s.db} }
func (s *pgStore) Participants() ParticipantRepository { return &pgParticipantRepository{db: s.db} }
func (s *pgStore) Rooms() RoomRepository               { return &pgRoomRepository{db: s.db} }
func (s *pgStore) RoomCodes() RoomCodeRepository       { return &pgRoomCodeRepository{db: s.db} }

func (s *pgStore) Atomically(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgStore{db: tx})
	})
}
