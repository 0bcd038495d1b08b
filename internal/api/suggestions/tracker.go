package suggestions

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Tracker remembers which seeds were accepted for a trip during a session.
type Tracker struct {
	accepted *cache.Cache
}

func NewTracker(ttl time.Duration) *Tracker {
	return &Tracker{accepted: cache.New(ttl, ttl*2)}
}

func trackerKey(tripID uuid.UUID, seedID string) string {
	return tripID.String() + "|" + seedID
}

// Reserve marks the seed accepted and reports false when it already was.
func (t *Tracker) Reserve(tripID uuid.UUID, seedID string) bool {
	return t.accepted.Add(trackerKey(tripID, seedID), struct{}{}, cache.DefaultExpiration) == nil
}

// Release undoes a reservation whose itinerary write failed.
func (t *Tracker) Release(tripID uuid.UUID, seedID string) {
	t.accepted.Delete(trackerKey(tripID, seedID))
}

func (t *Tracker) Accepted(tripID uuid.UUID, seedID string) bool {
	_, ok := t.accepted.Get(trackerKey(tripID, seedID))
	return ok
}
