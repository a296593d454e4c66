package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/iamvkosarev/fintrack/config"
	"github.com/iamvkosarev/fintrack/internal/model"
	in_memory "github.com/iamvkosarev/fintrack/internal/storage/in-memory"
	key_value "github.com/iamvkosarev/fintrack/internal/storage/key-value"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func newTestChatUsecase(delay time.Duration) (*ChatUsecase, *in_memory.ChatStorage) {
	storage := in_memory.NewChatStorage()
	chats := NewChatUsecase(
		ChatUsecaseDeps{
			ChatStorage: storage,
			Assistant:   NewDefaultAssistantUsecase(),
		},
		config.Assistant{ReplyDelay: delay},
		zap.NewNop(),
	)
	return chats, storage
}

func receive(t *testing.T, replies <-chan model.Message) (model.Message, bool) {
	t.Helper()
	select {
	case reply, ok := <-replies:
		return reply, ok
	case <-time.After(5 * time.Second):
		t.Fatal("reply channel was neither fed nor closed")
		return model.Message{}, false
	}
}

func TestChatUsecase_OpenChat(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	chats, _ := newTestChatUsecase(10 * time.Millisecond)
	owner := uuid.New()

	chat, err := chats.OpenChat(ctx, owner)
	require.NoError(t, err)
	require.Len(t, chat.Messages, 1)
	assert.Equal(t, model.MessageSourceAssistant, chat.Messages[0].Source)
	assert.Equal(t, MessageAssistantGreeting, chat.Messages[0].Body)

	stored, err := chats.GetChat(ctx, chat.ChatID, owner)
	require.NoError(t, err)
	assert.Equal(t, chat.Messages, stored.Messages)

	_, err = chats.GetChat(ctx, chat.ChatID, uuid.New())
	assert.ErrorIs(t, err, model.ErrChatDoesNotExist, "views are private to their owner")

	require.NoError(t, chats.Close(ctx))
	_, err = chats.OpenChat(ctx, owner)
	assert.ErrorIs(t, err, model.ErrChatClosed)
}

func TestChatUsecase_SendMessage(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	chats, _ := newTestChatUsecase(20 * time.Millisecond)
	owner := uuid.New()

	chat, err := chats.OpenChat(ctx, owner)
	require.NoError(t, err)

	replies, err := chats.SendMessage(ctx, chat.ChatID, owner, "what's my health score and can I invest?")
	require.NoError(t, err)

	// the user message is recorded before the reply fires
	pending, err := chats.GetChat(ctx, chat.ChatID, owner)
	require.NoError(t, err)
	require.Len(t, pending.Messages, 2)
	assert.Equal(t, model.MessageSourceUser, pending.Messages[1].Source)

	reply, ok := receive(t, replies)
	require.True(t, ok)
	assert.Equal(t, model.MessageSourceAssistant, reply.Source)
	assert.Equal(t, ResponseInvestment, reply.Body)

	_, ok = receive(t, replies)
	assert.False(t, ok, "channel is closed after the reply")

	done, err := chats.GetChat(ctx, chat.ChatID, owner)
	require.NoError(t, err)
	require.Len(t, done.Messages, 3)
	assert.Equal(t, ResponseInvestment, done.Messages[2].Body)

	require.NoError(t, chats.Close(ctx))
}

func TestChatUsecase_SendDuringDelay(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	chats, _ := newTestChatUsecase(30 * time.Millisecond)
	owner := uuid.New()

	chat, err := chats.OpenChat(ctx, owner)
	require.NoError(t, err)

	first, err := chats.SendMessage(ctx, chat.ChatID, owner, "How can I save for a vacation?")
	require.NoError(t, err)
	second, err := chats.SendMessage(ctx, chat.ChatID, owner, "anything else?")
	require.NoError(t, err)

	reply, ok := receive(t, first)
	require.True(t, ok)
	assert.Equal(t, ResponseSavings, reply.Body)
	reply, ok = receive(t, second)
	require.True(t, ok)
	assert.Equal(t, ResponseCapabilities, reply.Body)

	log, err := chats.GetChat(ctx, chat.ChatID, owner)
	require.NoError(t, err)
	require.Len(t, log.Messages, 5)
	assert.Equal(t, "How can I save for a vacation?", log.Messages[1].Body)
	assert.Equal(t, "anything else?", log.Messages[2].Body)
	assert.ElementsMatch(t,
		[]string{ResponseSavings, ResponseCapabilities},
		[]string{log.Messages[3].Body, log.Messages[4].Body},
	)

	require.NoError(t, chats.Close(ctx))
}

func TestChatUsecase_EmptyMessage(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	chats, _ := newTestChatUsecase(time.Millisecond)
	owner := uuid.New()

	chat, err := chats.OpenChat(ctx, owner)
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t"} {
		replies, err := chats.SendMessage(ctx, chat.ChatID, owner, text)
		assert.ErrorIs(t, err, model.ErrEmptyMessage)
		assert.Nil(t, replies)
	}

	log, err := chats.GetChat(ctx, chat.ChatID, owner)
	require.NoError(t, err)
	assert.Len(t, log.Messages, 1, "only the greeting")

	require.NoError(t, chats.Close(ctx))
}

func TestChatUsecase_CloseCancelsPendingReply(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	chats, storage := newTestChatUsecase(time.Hour)
	owner := uuid.New()

	chat, err := chats.OpenChat(ctx, owner)
	require.NoError(t, err)
	replies, err := chats.SendMessage(ctx, chat.ChatID, owner, "spending")
	require.NoError(t, err)

	require.NoError(t, chats.CloseChat(ctx, chat.ChatID, owner))

	_, ok := receive(t, replies)
	assert.False(t, ok, "cancelled reply is never delivered")

	_, err = storage.GetChat(ctx, chat.ChatID)
	assert.ErrorIs(t, err, model.ErrChatDoesNotExist, "log is dropped with the view")
	_, err = chats.SendMessage(ctx, chat.ChatID, owner, "spending")
	assert.ErrorIs(t, err, model.ErrChatDoesNotExist)

	require.NoError(t, chats.Close(ctx))
}

func TestChatUsecase_CloseOwnerChats(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	chats, _ := newTestChatUsecase(time.Hour)
	owner, other := uuid.New(), uuid.New()

	first, err := chats.OpenChat(ctx, owner)
	require.NoError(t, err)
	second, err := chats.OpenChat(ctx, owner)
	require.NoError(t, err)
	kept, err := chats.OpenChat(ctx, other)
	require.NoError(t, err)

	pending, err := chats.SendMessage(ctx, first.ChatID, owner, "invest")
	require.NoError(t, err)

	require.NoError(t, chats.CloseOwnerChats(ctx, owner))

	_, ok := receive(t, pending)
	assert.False(t, ok)
	for _, chat := range []model.Chat{first, second} {
		_, err = chats.GetChat(ctx, chat.ChatID, owner)
		assert.ErrorIs(t, err, model.ErrChatDoesNotExist)
	}
	_, err = chats.GetChat(ctx, kept.ChatID, other)
	assert.NoError(t, err)

	require.NoError(t, chats.Close(ctx))
}

func TestChatUsecase_CloseWaitsForReplies(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	chats, _ := newTestChatUsecase(time.Hour)
	owner := uuid.New()

	chat, err := chats.OpenChat(ctx, owner)
	require.NoError(t, err)
	var pending []<-chan model.Message
	for i := 0; i < 5; i++ {
		replies, err := chats.SendMessage(ctx, chat.ChatID, owner, "save")
		require.NoError(t, err)
		pending = append(pending, replies)
	}

	require.NoError(t, chats.Close(ctx))
	for _, replies := range pending {
		_, ok := <-replies
		assert.False(t, ok)
	}
}

func TestChatUsecase_CloseOwnerChatsDeletesStoredChats(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	owner, other := uuid.New(), uuid.New()

	newChats := func() *ChatUsecase {
		chats := NewChatUsecase(
			ChatUsecaseDeps{
				ChatStorage: key_value.NewChatStorage(rdb, time.Hour),
				Assistant:   NewDefaultAssistantUsecase(),
			},
			config.Assistant{ReplyDelay: time.Hour},
			zap.NewNop(),
		)
		t.Cleanup(func() { _ = chats.Close(context.Background()) })
		return chats
	}

	before := newChats()
	left, err := before.OpenChat(ctx, owner)
	require.NoError(t, err)
	kept, err := before.OpenChat(ctx, other)
	require.NoError(t, err)

	after := newChats()
	mounted, err := after.OpenChat(ctx, owner)
	require.NoError(t, err)
	require.NoError(t, after.CloseOwnerChats(ctx, owner))

	for _, chatID := range []uuid.UUID{left.ChatID, mounted.ChatID} {
		assert.False(t, mr.Exists("chat_"+chatID.String()))
		assert.False(t, mr.Exists("chat_messages_"+chatID.String()))
	}
	assert.False(t, mr.Exists("owner_chats_"+owner.String()))
	assert.True(t, mr.Exists("chat_"+kept.ChatID.String()), "other owners keep their chats")
}

func TestChatUsecase_CloseOwnerChatsInMemory(t *testing.T) {
	ctx := context.Background()
	chats, storage := newTestChatUsecase(time.Hour)
	t.Cleanup(func() { _ = chats.Close(context.Background()) })
	owner := uuid.New()

	unmounted, err := storage.CreateChat(ctx, owner)
	require.NoError(t, err)
	_, err = chats.OpenChat(ctx, owner)
	require.NoError(t, err)

	require.NoError(t, chats.CloseOwnerChats(ctx, owner))
	owned, err := storage.ListOwnerChats(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, owned)
	_, err = storage.GetChat(ctx, unmounted.ChatID)
	assert.ErrorIs(t, err, model.ErrChatDoesNotExist)
}
