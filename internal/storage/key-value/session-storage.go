package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/fintrack/internal/model"
	"github.com/redis/go-redis/v9"
)

type sessionInternal struct {
	SessionID   string `json:"session_id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role"`
}

// SessionStorage keeps session snapshots as JSON values that expire after ttl of inactivity.
type SessionStorage struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStorage(rdb *redis.Client, ttl time.Duration) *SessionStorage {
	return &SessionStorage{
		rdb: rdb,
		ttl: ttl,
	}
}

func (s *SessionStorage) GetSession(ctx context.Context, sessionID uuid.UUID) (model.Session, error) {
	sessionKey := getSessionKey(sessionID)
	sessionRaw, err := s.rdb.GetEx(ctx, sessionKey, s.ttl).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, model.ErrSessionDoesNotExist
		}
		return model.Session{}, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	var sessionInt sessionInternal
	if err = json.Unmarshal([]byte(sessionRaw), &sessionInt); err != nil {
		return model.Session{}, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}

	session := model.NewSession(sessionID)
	role := model.ParseUserRole(sessionInt.Role)
	if role != model.UserRoleNone {
		session.Identity = &model.Identity{
			Email:       sessionInt.Email,
			DisplayName: sessionInt.DisplayName,
		}
		session.Role = role
	}
	return session, nil
}

func (s *SessionStorage) SaveSession(ctx context.Context, session model.Session) error {
	sessionInt := sessionInternal{
		SessionID: session.ID.String(),
		Role:      session.Role.String(),
	}
	if session.Identity != nil {
		sessionInt.Email = session.Identity.Email
		sessionInt.DisplayName = session.Identity.DisplayName
	}
	sessionJSON, err := json.Marshal(sessionInt)
	if err != nil {
		return fmt.Errorf("failed to marshal internal session: %w", err)
	}
	if err = s.rdb.Set(ctx, getSessionKey(session.ID), sessionJSON, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

func getSessionKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("session_%v", sessionID.String())
}
