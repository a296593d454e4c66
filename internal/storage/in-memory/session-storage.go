package in_memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/iamvkosarev/fintrack/internal/model"
)

type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]model.Session
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[uuid.UUID]model.Session),
	}
}

func (s *SessionStorage) GetSession(_ context.Context, sessionID uuid.UUID) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return model.Session{}, model.ErrSessionDoesNotExist
	}
	return detach(session), nil
}

// SaveSession replaces the stored snapshot as a whole.
func (s *SessionStorage) SaveSession(_ context.Context, session model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = detach(session)
	return nil
}

func detach(session model.Session) model.Session {
	if session.Identity != nil {
		identity := *session.Identity
		session.Identity = &identity
	}
	return session
}
