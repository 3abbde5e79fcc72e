package repository

import "context"

// Store bundles the four repositories behind one handle so that services can
// run multi-row operations atomically. Atomically executes fn against a
// transactional view of the store: if fn returns an error every write made
// through that view is rolled back.
//
// Implementations: Postgres via GORM (production) and in-memory (tests,
// single-node dev).
type Store interface {
	Accounts() AccountRepository
	Participants() ParticipantRepository
	Rooms() RoomRepository
	RoomCodes() RoomCodeRepository

	Atomically(ctx context.Context, fn func(Store) error) error
}
