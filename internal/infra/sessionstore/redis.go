package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const defaultKeyPrefix = "salon:session:"

// RedisStore хранит снимки сессий в Redis с TTL
type RedisStore struct {
	client     *redis.Client
	ttl        time.Duration
	pendingTTL time.Duration
	prefix     string
}

// NewRedisStore создает хранилище сессий в Redis
func NewRedisStore(client *redis.Client, ttl, pendingTTL time.Duration) *RedisStore {
	return &RedisStore{
		client:     client,
		ttl:        ttl,
		pendingTTL: pendingTTL,
		prefix:     defaultKeyPrefix,
	}
}

// Get читает сессию и продлевает её TTL
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - read session %s: %v", ErrStore, id, err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: Get - decode session %s: %v", ErrStore, id, err)
	}

	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.key(id), s.ttl).Err(); err != nil {
			return nil, fmt.Errorf("%w: Get - extend ttl %s: %v", ErrStore, id, err)
		}
	}

	return &session, nil
}

// Save записывает снимок сессии
func (s *RedisStore) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%w: Save - encode session %s: %v", ErrStore, session.ID, err)
	}

	if err := s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Save - write session %s: %v", ErrStore, session.ID, err)
	}
	return nil
}

// Replace перезаписывает снимок через SET XX: удаленная сессия не восстанавливается
func (s *RedisStore) Replace(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%w: Replace - encode session %s: %v", ErrStore, session.ID, err)
	}

	ok, err := s.client.SetXX(ctx, s.key(session.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: Replace - write session %s: %v", ErrStore, session.ID, err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// Delete удаляет сессию и флаг операции
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(id), s.pendingKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: Delete - remove session %s: %v", ErrStore, id, err)
	}
	return nil
}

// AcquirePending ставит флаг операции через SETNX
func (s *RedisStore) AcquirePending(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.pendingKey(id), time.Now().Unix(), s.pendingTTL).Result()
	if err != nil {
		return false, fmt.Errorf("%w: AcquirePending - setnx %s: %v", ErrStore, id, err)
	}
	return ok, nil
}

// ReleasePending снимает флаг операции
func (s *RedisStore) ReleasePending(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, s.pendingKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: ReleasePending - del %s: %v", ErrStore, id, err)
	}
	return nil
}

// IsPending проверяет наличие флага операции
func (s *RedisStore) IsPending(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := s.client.Exists(ctx, s.pendingKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: IsPending - exists %s: %v", ErrStore, id, err)
	}
	return n > 0, nil
}

func (s *RedisStore) key(id uuid.UUID) string {
	return s.prefix + id.String()
}

func (s *RedisStore) pendingKey(id uuid.UUID) string {
	return s.prefix + id.String() + ":pending"
}
