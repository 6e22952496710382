package otp

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"sankalp/models"

	"github.com/redis/go-redis/v9"
)

// Store keeps at most one entry per key. Put overwrites.
type Store interface {
	Put(ctx context.Context, key string, entry models.OTPEntry) error
	Get(ctx context.Context, key string) (models.OTPEntry, bool, error)
	Delete(ctx context.Context, key string) error
	// Take deletes and returns the entry at key if match accepts it. The
	// read and the delete are atomic, so one entry is taken at most once.
	Take(ctx context.Context, key string, match func(models.OTPEntry) bool) (models.OTPEntry, bool, error)
}

// MemoryStore is a process-local Store. Entries live until deleted or
// swept; expiry is enforced by the Service on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]models.OTPEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]models.OTPEntry), now: time.Now}
}

func (s *MemoryStore) Put(_ context.Context, key string, entry models.OTPEntry) error {
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (models.OTPEntry, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	return entry, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Take(_ context.Context, key string, match func(models.OTPEntry) bool) (models.OTPEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || !match(entry) {
		return models.OTPEntry{}, false, nil
	}
	delete(s.entries, key)
	return entry, true, nil
}

// Sweep removes expired entries.
func (s *MemoryStore) Sweep(_ context.Context) (int, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// RedisStore keeps entries in Redis with a TTL matching their expiry, so
// codes survive restarts and are shared between processes.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) Put(ctx context.Context, key string, entry models.OTPEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	ttl := entry.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, key)
	}
	return s.client.Set(ctx, s.prefix+key, raw, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (models.OTPEntry, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.OTPEntry{}, false, nil
	}
	if err != nil {
		return models.OTPEntry{}, false, err
	}
	var entry models.OTPEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return models.OTPEntry{}, false, err
	}
	return entry, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Take runs under WATCH so a concurrent Put or Take of the same key
// aborts this one.
func (s *RedisStore) Take(ctx context.Context, key string, match func(models.OTPEntry) bool) (models.OTPEntry, bool, error) {
	var taken models.OTPEntry
	ok := false
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, s.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		var entry models.OTPEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return err
		}
		if !match(entry) {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, s.prefix+key)
			return nil
		})
		if err != nil {
			return err
		}
		taken, ok = entry, true
		return nil
	}, s.prefix+key)
	if errors.Is(err, redis.TxFailedErr) {
		return models.OTPEntry{}, false, nil
	}
	if err != nil {
		return models.OTPEntry{}, false, err
	}
	return taken, ok, nil
}

// Sweep is a no-op; Redis expires keys itself.
func (s *RedisStore) Sweep(context.Context) (int, error) {
	return 0, nil
}

// NewRedisClient connects to redis with short timeouts.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}
