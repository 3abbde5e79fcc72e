package repository

import (
	"context"
	"time"
)

// StateStore abstracts ephemeral key-value state; the account service uses it
// to cache login-token lookups so bearer requests skip the accounts table.
// A miss is (nil, nil), never an error.
//
// Implementations: Redis (production) or in-memory (tests, single instance).
type StateStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
