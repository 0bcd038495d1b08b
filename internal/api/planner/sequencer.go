package planner

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Sequencer tracks the newest chat request id per trip so that a reply to an older
// request can be recognised and dropped.
type Sequencer struct {
	mu     sync.Mutex
	latest *cache.Cache
}

func NewSequencer(ttl time.Duration) *Sequencer {
	return &Sequencer{latest: cache.New(ttl, ttl*2)}
}

// Begin records requestID as the newest for the trip. An id lower than one already
// seen is rejected; resending the current id is allowed.
func (s *Sequencer) Begin(tripID uuid.UUID, requestID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tripID.String()
	if v, ok := s.latest.Get(key); ok {
		if current := v.(int64); requestID < current {
			return fmt.Errorf("request %d is older than %d: %w", requestID, current, types.ErrStaleRequest)
		}
	}
	s.latest.SetDefault(key, requestID)
	return nil
}

// IsLatest reports whether no newer request has begun for the trip.
func (s *Sequencer) IsLatest(tripID uuid.UUID, requestID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.latest.Get(tripID.String())
	if !ok {
		return true
	}
	return v.(int64) == requestID
}

// Commit runs fn only while requestID is still the newest for the trip, holding the
// lock so no newer request can begin until fn returns. It reports false without
// calling fn when the request was superseded.
func (s *Sequencer) Commit(tripID uuid.UUID, requestID int64, fn func() error) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.latest.Get(tripID.String()); ok && v.(int64) != requestID {
		return false, nil
	}
	return true, fn()
}
