package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/iamvkosarev/fintrack/internal/model"
	"go.uber.org/zap"
)

type SessionStorage interface {
	GetSession(ctx context.Context, sessionID uuid.UUID) (model.Session, error)
	SaveSession(ctx context.Context, session model.Session) error
}

// OwnerChatsCloser tears down every chat view mounted by a session.
type OwnerChatsCloser interface {
	CloseOwnerChats(ctx context.Context, ownerID uuid.UUID) error
}

type SessionUsecaseDeps struct {
	SessionStorage SessionStorage
	// Chats is optional. When set, logout tears down the session's chat views.
	Chats OwnerChatsCloser
}

type SessionUsecase struct {
	SessionUsecaseDeps
	logger *zap.Logger
	// transitions are read-modify-write on a snapshot; mu keeps them whole.
	mu sync.Mutex
}

func NewSessionUsecase(deps SessionUsecaseDeps, logger *zap.Logger) *SessionUsecase {
	return &SessionUsecase{
		SessionUsecaseDeps: deps,
		logger:             logger,
	}
}

// Current returns the stored snapshot for sessionID. Unknown or nil ids get a
// fresh unauthenticated session. It is stored only once a transition signs it in.
func (s *SessionUsecase) Current(ctx context.Context, sessionID uuid.UUID) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, sessionID)
}

// Login signs the session in. Signing in as another email drops the chats of the previous identity.
func (s *SessionUsecase) Login(ctx context.Context, sessionID uuid.UUID, email, password string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.Session{}, model.ErrEmptyEmail
	}
	return s.signIn(ctx, sessionID, "login", func(session model.Session) model.Session {
		return session.Login(email, password)
	})
}

func (s *SessionUsecase) Signup(
	ctx context.Context,
	sessionID uuid.UUID,
	email, password, name string,
) (model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.Session{}, model.ErrEmptyEmail
	}
	return s.signIn(ctx, sessionID, "signup", func(session model.Session) model.Session {
		return session.Signup(email, password, name)
	})
}

func (s *SessionUsecase) Logout(ctx context.Context, sessionID uuid.UUID) (model.Session, error) {
	_, session, err := s.transition(ctx, sessionID, "logout", model.Session.Logout)
	if err != nil {
		return model.Session{}, err
	}
	if err = s.closeChats(ctx, session.ID); err != nil {
		return model.Session{}, err
	}
	return session, nil
}

func (s *SessionUsecase) ToggleRole(ctx context.Context, sessionID uuid.UUID) (model.Session, error) {
	_, session, err := s.transition(ctx, sessionID, "toggle_role", model.Session.ToggleRole)
	return session, err
}

func (s *SessionUsecase) signIn(
	ctx context.Context,
	sessionID uuid.UUID,
	action string,
	apply func(model.Session) model.Session,
) (model.Session, error) {
	previous, session, err := s.transition(ctx, sessionID, action, apply)
	if err != nil {
		return model.Session{}, err
	}
	if previous.IsAuthenticated() && previous.Identity.Email != session.Identity.Email {
		if err = s.closeChats(ctx, session.ID); err != nil {
			return model.Session{}, err
		}
	}
	return session, nil
}

func (s *SessionUsecase) closeChats(ctx context.Context, sessionID uuid.UUID) error {
	if s.Chats == nil {
		return nil
	}
	if err := s.Chats.CloseOwnerChats(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to close session chats: %w", err)
	}
	return nil
}

// transition applies one state change and returns the snapshots before and after it.
// Anonymous snapshots that stay anonymous are not written.
func (s *SessionUsecase) transition(
	ctx context.Context,
	sessionID uuid.UUID,
	action string,
	apply func(model.Session) model.Session,
) (model.Session, model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx, sessionID)
	if err != nil {
		return model.Session{}, model.Session{}, err
	}
	next := apply(current)
	if current.IsAuthenticated() || next.IsAuthenticated() {
		if err = s.SessionStorage.SaveSession(ctx, next); err != nil {
			return model.Session{}, model.Session{}, fmt.Errorf("failed to save session %s: %w", next.ID, err)
		}
	}
	s.logger.Debug("session transition",
		zap.String("session_id", next.ID.String()),
		zap.String("action", action),
		zap.Stringer("from", current.Role),
		zap.Stringer("to", next.Role),
	)
	return current, next, nil
}

func (s *SessionUsecase) load(ctx context.Context, sessionID uuid.UUID) (model.Session, error) {
	if sessionID == uuid.Nil {
		return model.NewSession(uuid.New()), nil
	}
	session, err := s.SessionStorage.GetSession(ctx, sessionID)
	if errors.Is(err, model.ErrSessionDoesNotExist) {
		return model.NewSession(sessionID), nil
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	return session, nil
}
