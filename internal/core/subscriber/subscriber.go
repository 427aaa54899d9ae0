package subscriber

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"hostcraft/internal/logger"
	rds "hostcraft/internal/platform/redis"
)

// Store captures the email attached to every content request. Injected
// into handlers with explicit lifecycle; never a process-wide set.
type Store interface {
	Add(ctx context.Context, email, product string) error
}

var reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Valid reports whether email looks deliverable enough to store.
func Valid(email string) bool {
	return reEmail.MatchString(strings.TrimSpace(email))
}

// RedisStore keeps one redis set per product plus a combined set.
type RedisStore struct {
	log   *logger.Logger
	redis *rds.Service
}

func NewRedisStore(redis *rds.Service) *RedisStore {
	return &RedisStore{log: logger.New("SubscriberStore"), redis: redis}
}

func (s *RedisStore) Add(ctx context.Context, email, product string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !Valid(email) {
		return fmt.Errorf("invalid email: %q", email)
	}
	if err := s.redis.SetAdd(ctx, "subscribers:all", email); err != nil {
		return err
	}
	if product != "" {
		if err := s.redis.SetAdd(ctx, "subscribers:"+product, email); err != nil {
			return err
		}
	}
	s.log.LogDebugf("captured subscriber for %s", product)
	return nil
}

// MemoryStore is the in-process implementation used by tests.
type MemoryStore struct {
	mu         sync.Mutex
	byProduct  map[string][]string
	seenByProd map[string]map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byProduct:  map[string][]string{},
		seenByProd: map[string]map[string]bool{},
	}
}

func (s *MemoryStore) Add(_ context.Context, email, product string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !Valid(email) {
		return fmt.Errorf("invalid email: %q", email)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := s.seenByProd[product]
	if seen == nil {
		seen = map[string]bool{}
		s.seenByProd[product] = seen
	}
	if seen[email] {
		return nil
	}
	seen[email] = true
	s.byProduct[product] = append(s.byProduct[product], email)
	return nil
}

// Emails returns the captured addresses for one product, in insertion
// order with duplicates collapsed.
func (s *MemoryStore) Emails(product string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.byProduct[product]...)
}
