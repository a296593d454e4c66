package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/fintrack/config"
	"github.com/iamvkosarev/fintrack/internal/model"
	in_memory "github.com/iamvkosarev/fintrack/internal/storage/in-memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type closerSpy struct {
	closed []uuid.UUID
}

func (c *closerSpy) CloseOwnerChats(_ context.Context, ownerID uuid.UUID) error {
	c.closed = append(c.closed, ownerID)
	return nil
}

func newTestSessionUsecase(chats OwnerChatsCloser) *SessionUsecase {
	return NewSessionUsecase(
		SessionUsecaseDeps{
			SessionStorage: in_memory.NewSessionStorage(),
			Chats:          chats,
		},
		zap.NewNop(),
	)
}

func TestSessionUsecase_Current(t *testing.T) {
	ctx := context.Background()
	sessions := newTestSessionUsecase(nil)

	fresh, err := sessions.Current(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, fresh.ID)
	assert.False(t, fresh.IsAuthenticated())

	again, err := sessions.Current(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, fresh, again)

	unknown := uuid.New()
	got, err := sessions.Current(ctx, unknown)
	require.NoError(t, err)
	assert.Equal(t, model.NewSession(unknown), got)
}

func TestSessionUsecase_Flow(t *testing.T) {
	ctx := context.Background()
	spy := &closerSpy{}
	sessions := newTestSessionUsecase(spy)
	id := uuid.New()

	session, err := sessions.ToggleRole(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.UserRoleNone, session.Role, "toggle without identity is a no-op")

	session, err = sessions.Login(ctx, id, "alice@example.com", "whatever")
	require.NoError(t, err)
	assert.Equal(t, model.UserRoleNormal, session.Role)
	assert.Equal(t, "alice", session.Identity.DisplayName)

	session, err = sessions.ToggleRole(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.UserRoleSuper, session.Role)

	stored, err := sessions.Current(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session, stored)

	session, err = sessions.Logout(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.NewSession(id), session)
	assert.Equal(t, []uuid.UUID{id}, spy.closed)

	session, err = sessions.Signup(ctx, id, "bob@example.com", "", "Bob Builder")
	require.NoError(t, err)
	assert.Equal(t, "Bob Builder", session.Identity.DisplayName)
}

func TestSessionUsecase_EmptyEmail(t *testing.T) {
	ctx := context.Background()
	sessions := newTestSessionUsecase(nil)
	id := uuid.New()

	_, err := sessions.Login(ctx, id, "   ", "pw")
	assert.ErrorIs(t, err, model.ErrEmptyEmail)
	_, err = sessions.Signup(ctx, id, "", "pw", "Name")
	assert.ErrorIs(t, err, model.ErrEmptyEmail)

	current, err := sessions.Current(ctx, id)
	require.NoError(t, err)
	assert.False(t, current.IsAuthenticated())
}

func TestSessionUsecase_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	sessions := newTestSessionUsecase(nil)
	first, second := uuid.New(), uuid.New()

	_, err := sessions.Login(ctx, first, "alice@example.com", "")
	require.NoError(t, err)

	other, err := sessions.Current(ctx, second)
	require.NoError(t, err)
	assert.False(t, other.IsAuthenticated())
}

func TestSessionUsecase_AnonymousSessionsAreNotStored(t *testing.T) {
	ctx := context.Background()
	storage := in_memory.NewSessionStorage()
	sessions := NewSessionUsecase(SessionUsecaseDeps{SessionStorage: storage}, zap.NewNop())

	fresh, err := sessions.Current(ctx, uuid.Nil)
	require.NoError(t, err)
	_, err = sessions.ToggleRole(ctx, fresh.ID)
	require.NoError(t, err)
	_, err = sessions.Logout(ctx, fresh.ID)
	require.NoError(t, err)
	_, err = storage.GetSession(ctx, fresh.ID)
	assert.ErrorIs(t, err, model.ErrSessionDoesNotExist)

	_, err = sessions.Login(ctx, fresh.ID, "alice@example.com", "")
	require.NoError(t, err)
	stored, err := storage.GetSession(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", stored.Identity.Email)

	_, err = sessions.Logout(ctx, fresh.ID)
	require.NoError(t, err)
	stored, err = storage.GetSession(ctx, fresh.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAuthenticated())
}

func TestSessionUsecase_SignInAsAnotherEmailClosesChats(t *testing.T) {
	ctx := context.Background()
	chats := NewChatUsecase(
		ChatUsecaseDeps{
			ChatStorage: in_memory.NewChatStorage(),
			Assistant:   NewDefaultAssistantUsecase(),
		},
		config.Assistant{ReplyDelay: time.Hour},
		zap.NewNop(),
	)
	t.Cleanup(func() { _ = chats.Close(context.Background()) })
	sessions := newTestSessionUsecase(chats)
	id := uuid.New()

	_, err := sessions.Login(ctx, id, "alice@example.com", "")
	require.NoError(t, err)
	chat, err := chats.OpenChat(ctx, id)
	require.NoError(t, err)
	_, err = chats.SendMessage(ctx, chat.ChatID, id, "my secret savings plan")
	require.NoError(t, err)

	_, err = sessions.Login(ctx, id, "alice@example.com", "")
	require.NoError(t, err)
	_, err = chats.GetChat(ctx, chat.ChatID, id)
	require.NoError(t, err, "same identity keeps its chats")

	_, err = sessions.Signup(ctx, id, "bob@example.com", "", "Bob")
	require.NoError(t, err)
	_, err = chats.GetChat(ctx, chat.ChatID, id)
	assert.ErrorIs(t, err, model.ErrChatDoesNotExist)

	second, err := chats.OpenChat(ctx, id)
	require.NoError(t, err)
	_, err = sessions.Login(ctx, id, "carol@example.com", "")
	require.NoError(t, err)
	_, err = chats.GetChat(ctx, second.ChatID, id)
	assert.ErrorIs(t, err, model.ErrChatDoesNotExist)
}

func TestSessionUsecase_SignInFromAnonymousKeepsChats(t *testing.T) {
	ctx := context.Background()
	spy := &closerSpy{}
	sessions := newTestSessionUsecase(spy)

	_, err := sessions.Signup(ctx, uuid.New(), "alice@example.com", "", "")
	require.NoError(t, err)
	assert.Empty(t, spy.closed)
}
