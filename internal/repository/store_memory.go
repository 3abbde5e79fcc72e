package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"sling/roomhub/internal/model"
)

// memoryStore keeps all four tables in process. It honors the same error
// contract as the Postgres store (gorm.ErrRecordNotFound,
// gorm.ErrDuplicatedKey) so services behave identically against either.
// Atomically snapshots the tables and restores them when fn fails, which
// gives tests real rollback semantics.
type memoryData struct {
	accounts      map[uint]model.Account
	participants  map[uint]model.Participant // keyed by account ID
	rooms         map[uint]model.Room
	codes         map[string]model.RoomCode
	nextAccountID uint
	nextRoomID    uint
}

func (d *memoryData) clone() *memoryData {
	c := &memoryData{
		accounts:      make(map[uint]model.Account, len(d.accounts)),
		participants:  make(map[uint]model.Participant, len(d.participants)),
		rooms:         make(map[uint]model.Room, len(d.rooms)),
		codes:         make(map[string]model.RoomCode, len(d.codes)),
		nextAccountID: d.nextAccountID,
		nextRoomID:    d.nextRoomID,
	}
	for k, v := range d.accounts {
		c.accounts[k] = v
	}
	for k, v := range d.participants {
		c.participants[k] = v
	}
	for k, v := range d.rooms {
		c.rooms[k] = v
	}
	for k, v := range d.codes {
		c.codes[k] = v
	}
	return c
}

type memoryStore struct {
	mu   *sync.Mutex
	data *memoryData
	held bool // true inside Atomically; the mutex is already taken
}

func NewMemoryStore() Store {
	return &memoryStore{
		mu: &sync.Mutex{},
		data: &memoryData{
			accounts:      make(map[uint]model.Account),
			participants:  make(map[uint]model.Participant),
			rooms:         make(map[uint]model.Room),
			codes:         make(map[string]model.RoomCode),
			nextAccountID: 1,
			nextRoomID:    1,
		},
	}
}

func (s *memoryStore) Accounts() AccountRepository         { return &memAccountRepository{s: s} }
func (s *memoryStore) Participants() ParticipantRepository { return &memParticipantRepository{s: s} }
func (s *memoryStore) Rooms() RoomRepository               { return &memRoomRepository{s: s} }
func (s *memoryStore) RoomCodes() RoomCodeRepository       { return &memRoomCodeRepository{s: s} }

func (s *memoryStore) Atomically(_ context.Context, fn func(Store) error) error {
	if s.held {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &memoryStore{mu: s.mu, data: s.data, held: true}
	if err := fn(tx); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

// enter takes the store mutex unless an enclosing Atomically already holds it.
func (s *memoryStore) enter() func() {
	if s.held {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type memAccountRepository struct {
	s *memoryStore
}

func (r *memAccountRepository) Create(_ context.Context, account *model.Account) error {
	defer r.s.enter()()
	d := r.s.data
	for _, existing := range d.accounts {
		if account.Email != nil && existing.Email != nil && *existing.Email == *account.Email {
			return gorm.ErrDuplicatedKey
		}
		if existing.LoginToken == account.LoginToken {
			return gorm.ErrDuplicatedKey
		}
	}
	account.AccountID = d.nextAccountID
	d.nextAccountID++
	d.accounts[account.AccountID] = *account
	return nil
}

func (r *memAccountRepository) GetByID(_ context.Context, id uint) (*model.Account, error) {
	defer r.s.enter()()
	if account, ok := r.s.data.accounts[id]; ok {
		return &account, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memAccountRepository) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	defer r.s.enter()()
	for _, account := range r.s.data.accounts {
		if account.Email != nil && *account.Email == email {
			return &account, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memAccountRepository) GetByToken(_ context.Context, token string) (*model.Account, error) {
	defer r.s.enter()()
	for _, account := range r.s.data.accounts {
		if account.LoginToken == token {
			return &account, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memAccountRepository) Update(_ context.Context, account *model.Account) error {
	defer r.s.enter()()
	if _, ok := r.s.data.accounts[account.AccountID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.data.accounts[account.AccountID] = *account
	return nil
}

func (r *memAccountRepository) Delete(_ context.Context, id uint) (bool, error) {
	defer r.s.enter()()
	if _, ok := r.s.data.accounts[id]; !ok {
		return false, nil
	}
	delete(r.s.data.accounts, id)
	return true, nil
}

type memParticipantRepository struct {
	s *memoryStore
}

func (r *memParticipantRepository) Create(_ context.Context, participant *model.Participant) error {
	defer r.s.enter()()
	if _, ok := r.s.data.participants[participant.AccountID]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.s.data.participants[participant.AccountID] = *participant
	return nil
}

func (r *memParticipantRepository) GetByAccount(_ context.Context, accountID uint) (*model.Participant, error) {
	defer r.s.enter()()
	if participant, ok := r.s.data.participants[accountID]; ok {
		return &participant, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memParticipantRepository) ListByRoom(_ context.Context, roomID uint) ([]model.Participant, error) {
	defer r.s.enter()()
	var participants []model.Participant
	for _, p := range r.s.data.participants {
		if p.RoomID == roomID {
			participants = append(participants, p)
		}
	}
	return participants, nil
}

func (r *memParticipantRepository) UpdateScreenName(_ context.Context, accountID uint, screenName string) error {
	defer r.s.enter()()
	participant, ok := r.s.data.participants[accountID]
	if !ok {
		return nil
	}
	participant.ScreenName = screenName
	r.s.data.participants[accountID] = participant
	return nil
}

func (r *memParticipantRepository) DeleteByAccount(_ context.Context, accountID uint) (bool, error) {
	defer r.s.enter()()
	if _, ok := r.s.data.participants[accountID]; !ok {
		return false, nil
	}
	delete(r.s.data.participants, accountID)
	return true, nil
}

func (r *memParticipantRepository) DeleteByRoom(_ context.Context, roomID uint) (int64, error) {
	defer r.s.enter()()
	var removed int64
	for accountID, p := range r.s.data.participants {
		if p.RoomID == roomID {
			delete(r.s.data.participants, accountID)
			removed++
		}
	}
	return removed, nil
}

func (r *memParticipantRepository) CountByRoom(_ context.Context, roomID uint) (int64, error) {
	defer r.s.enter()()
	var count int64
	for _, p := range r.s.data.participants {
		if p.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

type memRoomRepository struct {
	s *memoryStore
}

func (r *memRoomRepository) Create(_ context.Context, room *model.Room) error {
	defer r.s.enter()()
	room.RoomID = r.s.data.nextRoomID
	r.s.data.nextRoomID++
	stored := *room
	stored.Accounts = nil
	stored.RoomCodes = nil
	r.s.data.rooms[room.RoomID] = stored
	return nil
}

func (r *memRoomRepository) GetByID(_ context.Context, id uint) (*model.Room, error) {
	defer r.s.enter()()
	if room, ok := r.s.data.rooms[id]; ok {
		return &room, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRoomRepository) UpdateName(_ context.Context, id uint, name string) error {
	defer r.s.enter()()
	room, ok := r.s.data.rooms[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	room.RoomName = name
	r.s.data.rooms[id] = room
	return nil
}

func (r *memRoomRepository) Delete(_ context.Context, id uint) (bool, error) {
	defer r.s.enter()()
	if _, ok := r.s.data.rooms[id]; !ok {
		return false, nil
	}
	delete(r.s.data.rooms, id)
	return true, nil
}

type memRoomCodeRepository struct {
	s *memoryStore
}

func (r *memRoomCodeRepository) Create(_ context.Context, code *model.RoomCode) error {
	defer r.s.enter()()
	if _, ok := r.s.data.codes[code.Code]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.s.data.codes[code.Code] = *code
	return nil
}

func (r *memRoomCodeRepository) GetByCode(_ context.Context, code string) (*model.RoomCode, error) {
	defer r.s.enter()()
	if rc, ok := r.s.data.codes[code]; ok {
		return &rc, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRoomCodeRepository) GetByCodeLocked(ctx context.Context, code string) (*model.RoomCode, error) {
	// The store mutex already serializes access; no row lock to take.
	return r.GetByCode(ctx, code)
}

func (r *memRoomCodeRepository) DecrementUses(_ context.Context, code string) error {
	defer r.s.enter()()
	rc, ok := r.s.data.codes[code]
	if !ok || rc.UsesLeft == nil {
		return nil
	}
	uses := *rc.UsesLeft - 1
	rc.UsesLeft = &uses
	r.s.data.codes[code] = rc
	return nil
}

func (r *memRoomCodeRepository) Update(_ context.Context, code *model.RoomCode) error {
	defer r.s.enter()()
	if _, ok := r.s.data.codes[code.Code]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.data.codes[code.Code] = *code
	return nil
}

func (r *memRoomCodeRepository) ListByRoom(_ context.Context, roomID uint) ([]model.RoomCode, error) {
	defer r.s.enter()()
	var codes []model.RoomCode
	for _, rc := range r.s.data.codes {
		if rc.RoomID == roomID {
			codes = append(codes, rc)
		}
	}
	return codes, nil
}

func (r *memRoomCodeRepository) DeleteByRoom(_ context.Context, roomID uint) (int64, error) {
	defer r.s.enter()()
	var removed int64
	for code, rc := range r.s.data.codes {
		if rc.RoomID == roomID {
			delete(r.s.data.codes, code)
			removed++
		}
	}
	return removed, nil
}

func (r *memRoomCodeRepository) RoomForParticipant(_ context.Context, accountID uint) (uint, error) {
	defer r.s.enter()()
	participant, ok := r.s.data.participants[accountID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	for _, rc := range r.s.data.codes {
		if rc.RoomID == participant.RoomID {
			return participant.RoomID, nil
		}
	}
	return 0, gorm.ErrRecordNotFound
}
