// Package session persists the backend bearer token per visitor session.
// The token is the only piece of mutable shared state in this tier: written
// by sign-in and sign-out, read by every authenticated flow, and cleared on
// any 401. Keeping it behind SessionStore makes that discipline explicit.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Store keeps sid -> bearer token in redis with a sliding TTL.
type Store struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db int, ttl time.Duration) *Store {
	return &Store{
		c:   redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		ttl: ttl,
	}
}

// Token returns the stored bearer token, or "" when the session is anonymous.
func (s *Store) Token(ctx context.Context, sid string) (string, error) {
	v, err := s.c.Get(ctx, keyPrefix+sid).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	// refresh the sliding window on read
	s.c.Expire(ctx, keyPrefix+sid, s.ttl)
	return v, nil
}

func (s *Store) Put(ctx context.Context, sid, token string) error {
	return s.c.Set(ctx, keyPrefix+sid, token, s.ttl).Err()
}

func (s *Store) Clear(ctx context.Context, sid string) error {
	return s.c.Del(ctx, keyPrefix+sid).Err()
}

// NewSID returns a fresh random session identifier for the sid cookie.
func NewSID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}
