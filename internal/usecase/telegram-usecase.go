package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/google/uuid"
	"github.com/iamvkosarev/fintrack/config"
	"github.com/iamvkosarev/fintrack/internal/model"
	"github.com/iamvkosarev/fintrack/pkg/local"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

const (
	CommandStart   = "start"
	CommandHelp    = "help"
	CommandLogin   = "login"
	CommandSignup  = "signup"
	CommandLogout  = "logout"
	CommandToggle  = "toggle"
	CommandNew     = "new"
	CommandPrompts = "prompts"

	updatesTimeout = 60
)

// telegramSessionNamespace derives a stable session id per Telegram chat.
var telegramSessionNamespace = uuid.MustParse("6f1c1b9e-3a55-4d0a-9c1e-7e0b6f3f2a10")

// TelegramBot is the part of *api.BotAPI the usecase talks to.
type TelegramBot interface {
	Send(c api.Chattable) (api.Message, error)
	Request(c api.Chattable) (*api.APIResponse, error)
	GetUpdatesChan(config api.UpdateConfig) api.UpdatesChannel
	StopReceivingUpdates()
}

type TelegramUsecaseDeps struct {
	Session   *SessionUsecase
	Chat      *ChatUsecase
	Dashboard *DashboardUsecase
	Bot       TelegramBot
}

// incoming is a text typed into a Telegram chat or picked from a prompt keyboard.
type incoming struct {
	chatID   int64
	text     string
	language local.Language
}

type TelegramUsecase struct {
	TelegramUsecaseDeps
	cfg          config.Telegram
	logger       *zap.Logger
	allowedUsers map[int64]struct{}

	mu      sync.Mutex
	views   map[int64]uuid.UUID
	replies *conc.WaitGroup
}

func NewTelegramUsecase(cfg config.Telegram, deps TelegramUsecaseDeps, logger *zap.Logger) (*TelegramUsecase, error) {
	allowedUsers := make(map[int64]struct{}, len(cfg.AllowedTelegramID))
	for _, userID := range cfg.AllowedTelegramID {
		allowedUsers[userID] = struct{}{}
	}

	_, err := deps.Bot.Request(
		api.NewSetMyCommands(
			[]api.BotCommand{
				{
					Command:     CommandHelp,
					Description: "Get help",
				},
				{
					Command:     CommandLogin,
					Description: "Sign in with your email",
				},
				{
					Command:     CommandSignup,
					Description: "Create an account",
				},
				{
					Command:     CommandLogout,
					Description: "Sign out",
				},
				{
					Command:     CommandToggle,
					Description: "Switch between normal and super mode",
				},
				{
					Command:     CommandNew,
					Description: "Start a new conversation",
				},
				{
					Command:     CommandPrompts,
					Description: "Show suggested questions",
				},
			}...,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set bot commands: %w", err)
	}

	return &TelegramUsecase{
		TelegramUsecaseDeps: deps,
		cfg:                 cfg,
		logger:              logger,
		allowedUsers:        allowedUsers,
		views:               make(map[int64]uuid.UUID),
		replies:             conc.NewWaitGroup(),
	}, nil
}

// Run handles updates until ctx is done, then waits for the pending replies.
func (t *TelegramUsecase) Run(ctx context.Context) error {
	u := api.NewUpdate(0)
	u.Timeout = updatesTimeout

	updates := t.Bot.GetUpdatesChan(u)
	defer t.replies.Wait()

	for {
		select {
		case <-ctx.Done():
			t.Bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message != nil {
				in := incoming{
					chatID: update.Message.Chat.ID,
					text:   update.Message.Text,
				}
				if update.Message.From != nil {
					in.language = local.ParseLanguage(update.Message.From.LanguageCode)
				}
				if err := t.handle(ctx, in); err != nil {
					t.logger.Error("error handling message", zap.Int64("chat_id", in.chatID), zap.Error(err))
				}
			}
			if update.CallbackQuery != nil {
				if err := t.handleCallbackQuery(ctx, update); err != nil {
					t.logger.Error("error handling callback query", zap.Error(err))
				}
			}
		}
	}
}

func (t *TelegramUsecase) handleCallbackQuery(ctx context.Context, update api.Update) error {
	query := update.CallbackQuery
	if _, err := t.Bot.Request(api.NewCallback(query.ID, "")); err != nil {
		return fmt.Errorf("failed to request callback: %w", err)
	}
	in := incoming{
		chatID: query.Message.Chat.ID,
		text:   query.Data,
	}
	if query.From != nil {
		in.language = local.ParseLanguage(query.From.LanguageCode)
	}
	return t.handle(ctx, in)
}

func (t *TelegramUsecase) handle(ctx context.Context, in incoming) error {
	if t.cfg.IsNotPublic {
		if _, ok := t.allowedUsers[in.chatID]; !ok {
			t.sendMessageAndHandleErr(in.chatID, MessageUserNoAccess.Text(in.language))
			return nil
		}
	}

	if command, args, ok := parseCommand(in.text); ok {
		return t.handleCommand(ctx, in, command, args)
	}
	return t.handleText(ctx, in)
}

func (t *TelegramUsecase) handleCommand(ctx context.Context, in incoming, command string, args []string) error {
	sessionID := telegramSessionID(in.chatID)
	lang := in.language

	switch command {
	case CommandStart:
		t.sendMessageAndHandleErr(in.chatID, MessageCommandStart.Text(lang))
	case CommandHelp:
		t.sendMessageAndHandleErr(in.chatID, MessageCommandHelp.Text(lang))
	case CommandLogin:
		if len(args) < 1 {
			t.sendMessageAndHandleErr(in.chatID, MessageLoginUsage.Text(lang))
			return nil
		}
		session, err := t.Session.Login(ctx, sessionID, args[0], "")
		return t.afterSignIn(ctx, in, session, err)
	case CommandSignup:
		if len(args) < 1 {
			t.sendMessageAndHandleErr(in.chatID, MessageSignupUsage.Text(lang))
			return nil
		}
		session, err := t.Session.Signup(ctx, sessionID, args[0], "", strings.Join(args[1:], " "))
		return t.afterSignIn(ctx, in, session, err)
	case CommandLogout:
		if _, err := t.Session.Logout(ctx, sessionID); err != nil {
			t.sendMessageAndHandleErr(in.chatID, MessageServerError.Text(lang))
			return fmt.Errorf("failed to logout: %w", err)
		}
		t.forgetView(in.chatID)
		t.sendMessageAndHandleErr(in.chatID, MessageSignedOut.Text(lang))
	case CommandToggle:
		session, err := t.Session.ToggleRole(ctx, sessionID)
		if err != nil {
			t.sendMessageAndHandleErr(in.chatID, MessageServerError.Text(lang))
			return fmt.Errorf("failed to toggle role: %w", err)
		}
		if !session.IsAuthenticated() {
			t.sendMessageAndHandleErr(in.chatID, MessageSignInFirst.Text(lang))
			return nil
		}
		t.sendMessageAndHandleErr(in.chatID, MessageRoleSwitchedFormat.Format(lang, session.Role))
	case CommandNew:
		session, err := t.authenticated(ctx, in)
		if err != nil || !session.IsAuthenticated() {
			return err
		}
		if _, err = t.remount(ctx, in.chatID, session); err != nil {
			t.sendMessageAndHandleErr(in.chatID, MessageServerError.Text(lang))
			return err
		}
	case CommandPrompts:
		session, err := t.authenticated(ctx, in)
		if err != nil || !session.IsAuthenticated() {
			return err
		}
		prompts, err := t.Dashboard.Prompts(session)
		if err != nil {
			return fmt.Errorf("failed to get prompts: %w", err)
		}
		return t.sendPromptsKeyboard(in.chatID, lang, prompts)
	default:
		t.sendMessageAndHandleErr(in.chatID, MessageCommandUnknown.Text(lang))
	}
	return nil
}

func (t *TelegramUsecase) afterSignIn(ctx context.Context, in incoming, session model.Session, err error) error {
	if errors.Is(err, model.ErrEmptyEmail) {
		t.sendMessageAndHandleErr(in.chatID, MessageLoginUsage.Text(in.language))
		return nil
	}
	if err != nil {
		t.sendMessageAndHandleErr(in.chatID, MessageServerError.Text(in.language))
		return fmt.Errorf("failed to sign in: %w", err)
	}
	t.sendMessageAndHandleErr(
		in.chatID,
		MessageSignedInFormat.Format(in.language, session.Identity.DisplayName, session.Role),
	)
	if _, err = t.remount(ctx, in.chatID, session); err != nil {
		t.sendMessageAndHandleErr(in.chatID, MessageServerError.Text(in.language))
		return err
	}
	return nil
}

func (t *TelegramUsecase) handleText(ctx context.Context, in incoming) error {
	session, err := t.authenticated(ctx, in)
	if err != nil || !session.IsAuthenticated() {
		return err
	}

	chatID, ok := t.mountedView(in.chatID)
	if !ok {
		if chatID, err = t.remount(ctx, in.chatID, session); err != nil {
			t.sendMessageAndHandleErr(in.chatID, MessageServerError.Text(in.language))
			return err
		}
	}

	replies, err := t.Chat.SendMessage(ctx, chatID, session.ID, in.text)
	if errors.Is(err, model.ErrChatDoesNotExist) {
		if chatID, err = t.remount(ctx, in.chatID, session); err != nil {
			t.sendMessageAndHandleErr(in.chatID, MessageServerError.Text(in.language))
			return err
		}
		replies, err = t.Chat.SendMessage(ctx, chatID, session.ID, in.text)
	}
	if errors.Is(err, model.ErrEmptyMessage) {
		return nil
	}
	if err != nil {
		t.sendMessageAndHandleErr(in.chatID, MessageServerError.Text(in.language))
		return fmt.Errorf("failed to send message to chat: %w", err)
	}

	if _, err = t.Bot.Request(api.NewChatAction(in.chatID, api.ChatTyping)); err != nil {
		t.logger.Warn("failed to send chat action", zap.Error(err))
	}
	t.replies.Go(func() {
		for reply := range replies {
			t.sendMessageAndHandleErr(in.chatID, reply.Body)
		}
	})
	return nil
}

// authenticated returns the chat's session and tells the user to sign in when it is anonymous.
func (t *TelegramUsecase) authenticated(ctx context.Context, in incoming) (model.Session, error) {
	session, err := t.Session.Current(ctx, telegramSessionID(in.chatID))
	if err != nil {
		t.sendMessageAndHandleErr(in.chatID, MessageServerError.Text(in.language))
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	if !session.IsAuthenticated() {
		t.sendMessageAndHandleErr(in.chatID, MessageSignInFirst.Text(in.language))
	}
	return session, nil
}

// remount closes the current chat view of telegramChatID, opens a new one and sends its greeting.
func (t *TelegramUsecase) remount(ctx context.Context, telegramChatID int64, session model.Session) (uuid.UUID, error) {
	if previous, ok := t.forgetView(telegramChatID); ok {
		err := t.Chat.CloseChat(ctx, previous, session.ID)
		if err != nil && !errors.Is(err, model.ErrChatDoesNotExist) {
			return uuid.Nil, fmt.Errorf("failed to close chat: %w", err)
		}
	}
	chat, err := t.Chat.OpenChat(ctx, session.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to open chat: %w", err)
	}
	t.mu.Lock()
	t.views[telegramChatID] = chat.ChatID
	t.mu.Unlock()

	for _, message := range chat.Messages {
		t.sendMessageAndHandleErr(telegramChatID, message.Body)
	}
	return chat.ChatID, nil
}

func (t *TelegramUsecase) mountedView(telegramChatID int64) (uuid.UUID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	chatID, ok := t.views[telegramChatID]
	return chatID, ok
}

func (t *TelegramUsecase) forgetView(telegramChatID int64) (uuid.UUID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	chatID, ok := t.views[telegramChatID]
	delete(t.views, telegramChatID)
	return chatID, ok
}

func (t *TelegramUsecase) sendPromptsKeyboard(chatID int64, lang local.Language, prompts []string) error {
	rows := make([][]api.InlineKeyboardButton, 0, len(prompts))
	for _, prompt := range prompts {
		rows = append(rows, api.NewInlineKeyboardRow(api.NewInlineKeyboardButtonData(prompt, prompt)))
	}
	msg := api.NewMessage(chatID, MessageSelectPrompt.Text(lang))
	msg.ReplyMarkup = api.NewInlineKeyboardMarkup(rows...)
	if _, err := t.Bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to bot: %w", err)
	}
	return nil
}

func (t *TelegramUsecase) sendMessageAndHandleErr(chatID int64, message string) {
	if _, err := t.Bot.Send(api.NewMessage(chatID, message)); err != nil {
		t.logger.Warn("failed to send new message to bot", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func telegramSessionID(chatID int64) uuid.UUID {
	return uuid.NewSHA1(telegramSessionNamespace, []byte(strconv.FormatInt(chatID, 10)))
}

// parseCommand splits "/login@bot a b" into "login" and its arguments.
func parseCommand(text string) (string, []string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	command, _, _ := strings.Cut(strings.TrimPrefix(fields[0], "/"), "@")
	return strings.ToLower(command), fields[1:], true
}
