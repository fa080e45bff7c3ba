// Package conversation keeps the per-identity dialogue history the grounded
// Q&A pipeline feeds back to the model. State is process-lifetime only; a
// restart starts every identity from an empty history.
package conversation

import (
	"strings"
	"sync"
	"time"
)

// AnonymousIdentity is the reserved key for unauthenticated callers.
const AnonymousIdentity = "anonymous"

// DefaultMaxTurns bounds each identity's history. Append drops the oldest
// turns past the bound so the map cannot grow without limit per identity.
const DefaultMaxTurns = 200

type Speaker string

const (
	SpeakerUser      Speaker = "User"
	SpeakerAssistant Speaker = "Assistant"
)

type Turn struct {
	Speaker Speaker
	Text    string
	At      time.Time
}

// Store is safe for concurrent use. Appends to distinct identities never
// contend on the same lock; appends to one identity are serialized so a
// history is always a clean sequence of whole turns.
type Store struct {
	mu       sync.RWMutex
	maxTurns int
	byID     map[string]*history
}

type history struct {
	mu    sync.Mutex
	turns []Turn
}

func NewStore(maxTurns int) *Store {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Store{maxTurns: maxTurns, byID: make(map[string]*history)}
}

func (s *Store) forIdentity(identity string) *history {
	if identity == "" {
		identity = AnonymousIdentity
	}

	s.mu.RLock()
	h := s.byID[identity]
	s.mu.RUnlock()
	if h != nil {
		return h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if h = s.byID[identity]; h == nil {
		h = &history{}
		s.byID[identity] = h
	}
	return h
}

func (s *Store) Append(identity string, turn Turn) {
	if turn.At.IsZero() {
		turn.At = time.Now().UTC()
	}

	h := s.forIdentity(identity)
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, turn)
	if len(h.turns) > s.maxTurns {
		h.turns = append(h.turns[:0:0], h.turns[len(h.turns)-s.maxTurns:]...)
	}
}

// Get returns the identity's turns in append order. The slice is a copy; an
// unseen identity yields an empty history.
func (s *Store) Get(identity string) []Turn {
	h := s.forIdentity(identity)
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Transcript renders the history as "Speaker: text" lines for grounding.
func (s *Store) Transcript(identity string) string {
	turns := s.Get(identity)
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, string(t.Speaker)+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}
