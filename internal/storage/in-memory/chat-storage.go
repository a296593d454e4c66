package in_memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/fintrack/internal/model"
)

type ChatStorage struct {
	mu    sync.RWMutex
	chats map[uuid.UUID]*model.Chat
	now   func() time.Time
}

func NewChatStorage() *ChatStorage {
	return &ChatStorage{
		chats: make(map[uuid.UUID]*model.Chat),
		now:   time.Now,
	}
}

func (c *ChatStorage) CreateChat(_ context.Context, ownerID uuid.UUID) (model.Chat, error) {
	chat := model.Chat{
		ChatID:    uuid.New(),
		OwnerID:   ownerID,
		Messages:  make([]model.Message, 0),
		CreatedAt: c.now(),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := chat
	c.chats[chat.ChatID] = &stored
	return chat, nil
}

func (c *ChatStorage) GetChat(_ context.Context, chatID uuid.UUID) (model.Chat, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	chat, ok := c.chats[chatID]
	if !ok {
		return model.Chat{}, model.ErrChatDoesNotExist
	}
	return cloneChat(chat), nil
}

func (c *ChatStorage) AddMessageToChat(_ context.Context, chatID uuid.UUID, message model.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	chat, ok := c.chats[chatID]
	if !ok {
		return model.ErrChatDoesNotExist
	}
	chat.Messages = append(chat.Messages, message)
	return nil
}

func (c *ChatStorage) ListOwnerChats(_ context.Context, ownerID uuid.UUID) ([]model.Chat, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	chats := make([]model.Chat, 0)
	for _, chat := range c.chats {
		if chat.OwnerID == ownerID {
			chats = append(chats, cloneChat(chat))
		}
	}
	slices.SortFunc(chats, func(a, b model.Chat) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return chats, nil
}

func (c *ChatStorage) DeleteChat(_ context.Context, chatID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.chats, chatID)
	return nil
}

func cloneChat(chat *model.Chat) model.Chat {
	out := *chat
	out.Messages = slices.Clone(chat.Messages)
	return out
}
