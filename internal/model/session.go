package model

import (
	"strings"

	"github.com/google/uuid"
)

type Identity struct {
	Email       string
	DisplayName string
}

// Session is an immutable snapshot of one client's authentication state.
// Transitions return a new snapshot and never modify the receiver.
//
// Role is UserRoleNone exactly when Identity is nil.
type Session struct {
	ID       uuid.UUID
	Identity *Identity
	Role     UserRole
}

func NewSession(id uuid.UUID) Session {
	return Session{ID: id}
}

func (s Session) IsAuthenticated() bool {
	return s.Identity != nil
}

// Login accepts any credentials. The password is neither checked nor kept.
func (s Session) Login(email, _ string) Session {
	return Session{
		ID: s.ID,
		Identity: &Identity{
			Email:       email,
			DisplayName: localPart(email),
		},
		Role: UserRoleNormal,
	}
}

// Signup accepts any credentials. An empty name falls back to the email local-part.
func (s Session) Signup(email, _ string, name string) Session {
	name = strings.TrimSpace(name)
	if name == "" {
		name = localPart(email)
	}
	return Session{
		ID: s.ID,
		Identity: &Identity{
			Email:       email,
			DisplayName: name,
		},
		Role: UserRoleNormal,
	}
}

func (s Session) Logout() Session {
	return NewSession(s.ID)
}

// ToggleRole flips normal and super. It is a no-op when unauthenticated.
func (s Session) ToggleRole() Session {
	if !s.IsAuthenticated() {
		return s
	}
	next := s
	if s.Role == UserRoleSuper {
		next.Role = UserRoleNormal
	} else {
		next.Role = UserRoleSuper
	}
	return next
}

// Authorize reports whether the session may see a view gated on required.
func (s Session) Authorize(required UserRole) error {
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if required == UserRoleSuper && s.Role != UserRoleSuper {
		return ErrRoleForbidden
	}
	return nil
}

func localPart(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
