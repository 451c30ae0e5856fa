package repo

import (
	"context"
	"sync"

	"github.com/crewair/booking-assistant/internal/agent/model"
)

// MemorySessionStore keeps sessions in process memory. Sessions are lost on restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	maxTurns int
	history  map[string]model.History
	states   map[string]model.BookingState
}

func NewMemorySessionStore(maxTurns int) *MemorySessionStore {
	return &MemorySessionStore{
		maxTurns: maxTurns,
		history:  make(map[string]model.History),
		states:   make(map[string]model.BookingState),
	}
}

func (s *MemorySessionStore) LoadHistory(ctx context.Context, conversationID string) (model.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.history[conversationID].Tail(s.maxTurns)
	out := make(model.History, len(h))
	copy(out, h)
	return out, nil
}

func (s *MemorySessionStore) AppendTurn(ctx context.Context, conversationID string, turn model.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[conversationID] = append(s.history[conversationID], turn)
	return nil
}

func (s *MemorySessionStore) LoadState(ctx context.Context, conversationID string) (*model.BookingState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.states[conversationID]; ok {
		return &st, nil
	}
	return model.NewBookingStateFor(conversationID), nil
}

func (s *MemorySessionStore) SaveState(ctx context.Context, state *model.BookingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.ConversationID] = *state
	return nil
}

func (s *MemorySessionStore) Clear(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, conversationID)
	delete(s.states, conversationID)
	return nil
}

var _ model.SessionStore = (*MemorySessionStore)(nil)
