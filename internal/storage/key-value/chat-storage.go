package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/fintrack/internal/model"
	"github.com/redis/go-redis/v9"
)

type messageInternal struct {
	Source    model.MessageSource `json:"source"`
	Body      string              `json:"body"`
	CreatedAt time.Time           `json:"created_at"`
}

type chatInternal struct {
	ChatID    string    `json:"chat_id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

const addMessageAttempts = 3

// ChatStorage keeps chat metadata as a JSON value, the message log as a list
// and the chats of an owner as a set. Every write pushes the expiry of all
// three keys ttl ahead; zero ttl keeps them forever.
type ChatStorage struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

func NewChatStorage(rdb *redis.Client, ttl time.Duration) *ChatStorage {
	return &ChatStorage{
		rdb: rdb,
		ttl: ttl,
		now: time.Now,
	}
}

func (c *ChatStorage) CreateChat(ctx context.Context, ownerID uuid.UUID) (model.Chat, error) {
	chat := model.Chat{
		ChatID:    uuid.New(),
		OwnerID:   ownerID,
		Messages:  make([]model.Message, 0),
		CreatedAt: c.now().UTC(),
	}
	chatIntJSON, err := json.Marshal(chatInternal{
		ChatID:    chat.ChatID.String(),
		OwnerID:   ownerID.String(),
		CreatedAt: chat.CreatedAt,
	})
	if err != nil {
		return model.Chat{}, fmt.Errorf("failed to marshal internal chat: %w", err)
	}

	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, getChatIDKey(chat.ChatID), chatIntJSON, c.ttl)
		pipe.SAdd(ctx, getOwnerChatsKey(ownerID), chat.ChatID.String())
		c.expire(ctx, pipe, getOwnerChatsKey(ownerID))
		return nil
	})
	if err != nil {
		return model.Chat{}, fmt.Errorf("failed to save chat %s: %w", chat.ChatID, err)
	}
	return chat, nil
}

func (c *ChatStorage) GetChat(ctx context.Context, chatID uuid.UUID) (model.Chat, error) {
	chatInt, err := c.getChatInt(ctx, chatID)
	if err != nil {
		return model.Chat{}, err
	}
	ownerID, err := uuid.Parse(chatInt.OwnerID)
	if err != nil {
		return model.Chat{}, fmt.Errorf("failed to parse chat %s owner: %w", chatID, err)
	}

	messagesRaw, err := c.rdb.LRange(ctx, getChatMessagesKey(chatID), 0, -1).Result()
	if err != nil {
		return model.Chat{}, fmt.Errorf("failed to get chat %s messages: %w", chatID, err)
	}
	messages := make([]model.Message, 0, len(messagesRaw))
	for _, messageRaw := range messagesRaw {
		var msg messageInternal
		if err = json.Unmarshal([]byte(messageRaw), &msg); err != nil {
			return model.Chat{}, fmt.Errorf("failed to unmarshal chat %s message: %w", chatID, err)
		}
		messages = append(
			messages, model.Message{
				Source:    msg.Source,
				Body:      msg.Body,
				CreatedAt: msg.CreatedAt,
			},
		)
	}

	return model.Chat{
		ChatID:    chatID,
		OwnerID:   ownerID,
		Messages:  messages,
		CreatedAt: chatInt.CreatedAt,
	}, nil
}

// AddMessageToChat appends message only while the chat metadata exists. The
// check and the push run in one WATCH transaction so a concurrent DeleteChat
// cannot leave a message list behind.
func (c *ChatStorage) AddMessageToChat(ctx context.Context, chatID uuid.UUID, message model.Message) error {
	messageJSON, err := json.Marshal(messageInternal{
		Source:    message.Source,
		Body:      message.Body,
		CreatedAt: message.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal internal message: %w", err)
	}

	chatKey := getChatIDKey(chatID)
	appendMessage := func(tx *redis.Tx) error {
		chatIntRaw, err := tx.Get(ctx, chatKey).Result()
		if errors.Is(err, redis.Nil) {
			return model.ErrChatDoesNotExist
		}
		if err != nil {
			return fmt.Errorf("failed to get chat %s: %w", chatID, err)
		}
		var chatInt chatInternal
		if err = json.Unmarshal([]byte(chatIntRaw), &chatInt); err != nil {
			return fmt.Errorf("failed to unmarshal chat %s: %w", chatID, err)
		}
		ownerID, err := uuid.Parse(chatInt.OwnerID)
		if err != nil {
			return fmt.Errorf("failed to parse chat %s owner: %w", chatID, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, getChatMessagesKey(chatID), messageJSON)
			c.expire(ctx, pipe, chatKey, getChatMessagesKey(chatID), getOwnerChatsKey(ownerID))
			return nil
		})
		return err
	}

	for range addMessageAttempts {
		err = c.rdb.Watch(ctx, appendMessage, chatKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, model.ErrChatDoesNotExist) {
			return err
		}
		if err != nil {
			return fmt.Errorf("failed to append message to chat %s: %w", chatID, err)
		}
		return nil
	}
	return fmt.Errorf("failed to append message to chat %s: %w", chatID, err)
}

func (c *ChatStorage) ListOwnerChats(ctx context.Context, ownerID uuid.UUID) ([]model.Chat, error) {
	chatIDs, err := c.rdb.SMembers(ctx, getOwnerChatsKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get owner %s chats: %w", ownerID, err)
	}
	chats := make([]model.Chat, 0, len(chatIDs))
	for _, chatIDStr := range chatIDs {
		chatID, err := uuid.Parse(chatIDStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse chatID %s: %w", chatIDStr, err)
		}
		chat, err := c.GetChat(ctx, chatID)
		if errors.Is(err, model.ErrChatDoesNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	slices.SortFunc(chats, func(a, b model.Chat) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return chats, nil
}

func (c *ChatStorage) DeleteChat(ctx context.Context, chatID uuid.UUID) error {
	chatInt, err := c.getChatInt(ctx, chatID)
	if errors.Is(err, model.ErrChatDoesNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(chatInt.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to parse chat %s owner: %w", chatID, err)
	}
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, getChatIDKey(chatID), getChatMessagesKey(chatID))
		pipe.SRem(ctx, getOwnerChatsKey(ownerID), chatID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete chat %s: %w", chatID, err)
	}
	return nil
}

func (c *ChatStorage) getChatInt(ctx context.Context, chatID uuid.UUID) (chatInternal, error) {
	chatIntRaw, err := c.rdb.Get(ctx, getChatIDKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return chatInternal{}, model.ErrChatDoesNotExist
		}
		return chatInternal{}, fmt.Errorf("failed to get chat %s: %w", chatID, err)
	}
	var chatInt chatInternal
	if err = json.Unmarshal([]byte(chatIntRaw), &chatInt); err != nil {
		return chatInternal{}, fmt.Errorf("failed to unmarshal chat %s: %w", chatID, err)
	}
	return chatInt, nil
}

func (c *ChatStorage) expire(ctx context.Context, pipe redis.Pipeliner, keys ...string) {
	if c.ttl <= 0 {
		return
	}
	for _, key := range keys {
		pipe.Expire(ctx, key, c.ttl)
	}
}

func getChatIDKey(chatID uuid.UUID) string {
	return fmt.Sprintf("chat_%v", chatID.String())
}

func getChatMessagesKey(chatID uuid.UUID) string {
	return fmt.Sprintf("chat_messages_%v", chatID.String())
}

func getOwnerChatsKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("owner_chats_%v", ownerID.String())
}
