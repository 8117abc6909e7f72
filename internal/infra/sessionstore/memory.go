package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type memoryItem struct {
	session *domain.Session
	touched time.Time
}

// MemoryStore хранит сессии в памяти процесса
type MemoryStore struct {
	mu         sync.Mutex
	items      map[uuid.UUID]memoryItem
	pending    map[uuid.UUID]time.Time
	ttl        time.Duration
	pendingTTL time.Duration
	now        func() time.Time
}

// NewMemoryStore создает хранилище; сессия живет ttl с последнего обращения
func NewMemoryStore(ttl, pendingTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		items:      make(map[uuid.UUID]memoryItem),
		pending:    make(map[uuid.UUID]time.Time),
		ttl:        ttl,
		pendingTTL: pendingTTL,
		now:        time.Now,
	}
}

// Get возвращает копию сессии
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok || s.expired(item) {
		return nil, ErrSessionNotFound
	}

	item.touched = s.now()
	s.items[id] = item

	return item.session.Clone(), nil
}

// Save сохраняет копию сессии
func (s *MemoryStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[session.ID] = memoryItem{session: session.Clone(), touched: s.now()}
	return nil
}

// Replace перезаписывает сессию, только если она еще существует.
// Закрытую или истекшую сессию не восстанавливает и возвращает ErrSessionNotFound.
func (s *MemoryStore) Replace(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[session.ID]
	if !ok || s.expired(item) {
		return ErrSessionNotFound
	}

	s.items[session.ID] = memoryItem{session: session.Clone(), touched: s.now()}
	return nil
}

// Delete удаляет сессию вместе с флагом операции
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	delete(s.pending, id)
	return nil
}

// AcquirePending ставит флаг выполняющейся операции; false, если флаг уже стоит
func (s *MemoryStore) AcquirePending(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if until, ok := s.pending[id]; ok && s.now().Before(until) {
		return false, nil
	}
	s.pending[id] = s.now().Add(s.pendingTTL)
	return true, nil
}

// ReleasePending снимает флаг выполняющейся операции
func (s *MemoryStore) ReleasePending(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, id)
	return nil
}

// IsPending проверяет, выполняется ли операция в сессии
func (s *MemoryStore) IsPending(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.pending[id]
	return ok && s.now().Before(until), nil
}

// EvictExpired удаляет истекшие сессии и флаги, возвращает число удаленных сессий
func (s *MemoryStore) EvictExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for id, item := range s.items {
		if s.expired(item) {
			delete(s.items, id)
			evicted++
		}
	}
	for id, until := range s.pending {
		if !now.Before(until) {
			delete(s.pending, id)
		}
	}
	return evicted
}

// Len количество хранимых сессий
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *MemoryStore) expired(item memoryItem) bool {
	return s.ttl > 0 && s.now().Sub(item.touched) > s.ttl
}
