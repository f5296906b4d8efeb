package service

import (
	"sync"
	"time"

	"resume-parser/internal/domain"
)

// SessionIDGenerator issues timestamp session ids with microsecond precision.
// Ids from one generator are strictly increasing.
type SessionIDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func NewSessionIDGenerator() *SessionIDGenerator {
	return &SessionIDGenerator{now: time.Now}
}

// NewSessionIDGeneratorWithClock creates a generator reading time from now.
func NewSessionIDGeneratorWithClock(now func() time.Time) *SessionIDGenerator {
	return &SessionIDGenerator{now: now}
}

// Next returns a new session id.
func (g *SessionIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.now().Truncate(time.Microsecond)
	if !g.last.IsZero() && !t.After(g.last) {
		t = g.last.Add(time.Microsecond)
	}
	g.last = t
	return domain.FormatSessionID(t)
}
