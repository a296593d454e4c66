package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/fintrack/config"
	"github.com/iamvkosarev/fintrack/internal/model"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

type ChatStorage interface {
	CreateChat(ctx context.Context, ownerID uuid.UUID) (model.Chat, error)
	GetChat(ctx context.Context, chatID uuid.UUID) (model.Chat, error)
	AddMessageToChat(ctx context.Context, chatID uuid.UUID, message model.Message) error
	ListOwnerChats(ctx context.Context, ownerID uuid.UUID) ([]model.Chat, error)
	DeleteChat(ctx context.Context, chatID uuid.UUID) error
}

type ChatUsecaseDeps struct {
	ChatStorage ChatStorage
	Assistant   *AssistantUsecase
}

// chatView is the lifetime of one mounted chat. Pending replies stop when it is torn down.
type chatView struct {
	ownerID uuid.UUID
	ctx     context.Context
	cancel  context.CancelFunc

	mu     sync.Mutex
	closed bool
}

type ChatUsecase struct {
	ChatUsecaseDeps
	cfg    config.Assistant
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	views   map[uuid.UUID]*chatView
	stopped bool
	replies *conc.WaitGroup
}

func NewChatUsecase(deps ChatUsecaseDeps, cfg config.Assistant, logger *zap.Logger) *ChatUsecase {
	return &ChatUsecase{
		ChatUsecaseDeps: deps,
		cfg:             cfg,
		logger:          logger,
		now:             time.Now,
		views:           make(map[uuid.UUID]*chatView),
		replies:         conc.NewWaitGroup(),
	}
}

// OpenChat mounts a new chat view with an empty log and the assistant greeting.
func (c *ChatUsecase) OpenChat(ctx context.Context, ownerID uuid.UUID) (model.Chat, error) {
	c.mu.Lock()
	stopped := c.stopped
	c.mu.Unlock()
	if stopped {
		return model.Chat{}, model.ErrChatClosed
	}

	chat, err := c.ChatStorage.CreateChat(ctx, ownerID)
	if err != nil {
		return model.Chat{}, fmt.Errorf("failed to create chat: %w", err)
	}
	greeting := model.Message{
		Source:    model.MessageSourceAssistant,
		Body:      c.Assistant.Greeting(),
		CreatedAt: c.now(),
	}
	if err = c.ChatStorage.AddMessageToChat(ctx, chat.ChatID, greeting); err != nil {
		return model.Chat{}, fmt.Errorf("failed to add greeting to chat %s: %w", chat.ChatID, err)
	}
	chat.Messages = append(chat.Messages, greeting)

	viewCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.views[chat.ChatID] = &chatView{
		ownerID: ownerID,
		ctx:     viewCtx,
		cancel:  cancel,
	}
	c.mu.Unlock()

	c.logger.Debug("chat opened",
		zap.String("chat_id", chat.ChatID.String()),
		zap.String("owner_id", ownerID.String()),
	)
	return chat, nil
}

func (c *ChatUsecase) GetChat(ctx context.Context, chatID, ownerID uuid.UUID) (model.Chat, error) {
	if _, err := c.view(chatID, ownerID); err != nil {
		return model.Chat{}, err
	}
	return c.ChatStorage.GetChat(ctx, chatID)
}

// SendMessage appends text to the chat log and schedules the assistant reply
// after the configured delay. It returns immediately. The returned channel
// receives the reply once it is in the log, and is closed without a value
// when the view is torn down first.
//
// Blank text is rejected with model.ErrEmptyMessage and nothing is recorded.
func (c *ChatUsecase) SendMessage(
	ctx context.Context,
	chatID, ownerID uuid.UUID,
	text string,
) (<-chan model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, model.ErrEmptyMessage
	}
	view, err := c.view(chatID, ownerID)
	if err != nil {
		return nil, err
	}

	userMessage := model.Message{
		Source:    model.MessageSourceUser,
		Body:      text,
		CreatedAt: c.now(),
	}
	if err = c.ChatStorage.AddMessageToChat(ctx, chatID, userMessage); err != nil {
		return nil, fmt.Errorf("failed to add message to chat %s: %w", chatID, err)
	}

	replies := make(chan model.Message, 1)
	c.replies.Go(func() {
		c.deliverReply(view, chatID, text, replies)
	})
	return replies, nil
}

func (c *ChatUsecase) deliverReply(view *chatView, chatID uuid.UUID, text string, replies chan<- model.Message) {
	defer close(replies)

	timer := time.NewTimer(c.cfg.ReplyDelay)
	defer timer.Stop()
	select {
	case <-view.ctx.Done():
		c.logger.Debug("reply cancelled", zap.String("chat_id", chatID.String()))
		return
	case <-timer.C:
	}

	rule := c.Assistant.Select(text)
	reply := model.Message{
		Source:    model.MessageSourceAssistant,
		Body:      rule.Response,
		CreatedAt: c.now(),
	}

	view.mu.Lock()
	defer view.mu.Unlock()
	if view.closed {
		return
	}
	if err := c.ChatStorage.AddMessageToChat(context.WithoutCancel(view.ctx), chatID, reply); err != nil {
		c.logger.Error("failed to add reply to chat",
			zap.String("chat_id", chatID.String()),
			zap.Error(err),
		)
		return
	}
	c.logger.Debug("reply delivered",
		zap.String("chat_id", chatID.String()),
		zap.String("topic", string(rule.Topic)),
	)
	replies <- reply
}

// CloseChat tears the view down: pending replies are cancelled and the log is dropped.
func (c *ChatUsecase) CloseChat(ctx context.Context, chatID, ownerID uuid.UUID) error {
	view, err := c.view(chatID, ownerID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.views, chatID)
	c.mu.Unlock()
	return c.teardown(ctx, chatID, view)
}

// CloseOwnerChats tears down the owner's mounted views and deletes every
// other chat storage still holds for the owner, such as chats left by a
// previous process.
func (c *ChatUsecase) CloseOwnerChats(ctx context.Context, ownerID uuid.UUID) error {
	c.mu.Lock()
	owned := make(map[uuid.UUID]*chatView)
	for chatID, view := range c.views {
		if view.ownerID == ownerID {
			owned[chatID] = view
			delete(c.views, chatID)
		}
	}
	c.mu.Unlock()

	for chatID, view := range owned {
		if err := c.teardown(ctx, chatID, view); err != nil {
			return err
		}
	}

	stored, err := c.ChatStorage.ListOwnerChats(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to list owner %s chats: %w", ownerID, err)
	}
	for _, chat := range stored {
		if err = c.ChatStorage.DeleteChat(ctx, chat.ChatID); err != nil {
			return fmt.Errorf("failed to delete chat %s: %w", chat.ChatID, err)
		}
		c.logger.Debug("orphaned chat deleted", zap.String("chat_id", chat.ChatID.String()))
	}
	return nil
}

// Close tears down every view and waits for the reply goroutines to return.
func (c *ChatUsecase) Close(ctx context.Context) error {
	c.mu.Lock()
	c.stopped = true
	views := c.views
	c.views = make(map[uuid.UUID]*chatView)
	c.mu.Unlock()

	var firstErr error
	for chatID, view := range views {
		if err := c.teardown(ctx, chatID, view); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.replies.Wait()
	return firstErr
}

func (c *ChatUsecase) teardown(ctx context.Context, chatID uuid.UUID, view *chatView) error {
	view.cancel()
	view.mu.Lock()
	view.closed = true
	view.mu.Unlock()

	if err := c.ChatStorage.DeleteChat(ctx, chatID); err != nil {
		return fmt.Errorf("failed to delete chat %s: %w", chatID, err)
	}
	c.logger.Debug("chat closed", zap.String("chat_id", chatID.String()))
	return nil
}

func (c *ChatUsecase) view(chatID, ownerID uuid.UUID) (*chatView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	view, ok := c.views[chatID]
	if !ok || view.ownerID != ownerID {
		return nil, model.ErrChatDoesNotExist
	}
	return view, nil
}
