package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/iamvkosarev/fintrack/config"
	"github.com/iamvkosarev/fintrack/internal/model"
	in_memory "github.com/iamvkosarev/fintrack/internal/storage/in-memory"
	"github.com/iamvkosarev/fintrack/internal/usecase"
	"go.uber.org/zap"
)

const (
	terminalPromptUser      = "you> "
	terminalPromptAssistant = "assistant> "
)

// RunTerminalChat holds a conversation with the assistant over in and out
// until in is exhausted or ctx is done. Each reply is awaited before the
// next line is read.
func RunTerminalChat(
	ctx context.Context,
	cfg config.Assistant,
	logger *zap.Logger,
	in io.Reader,
	out io.Writer,
) (err error) {
	chatUsecase := usecase.NewChatUsecase(
		usecase.ChatUsecaseDeps{
			ChatStorage: in_memory.NewChatStorage(),
			Assistant:   usecase.NewDefaultAssistantUsecase(),
		},
		cfg,
		logger,
	)
	defer func() {
		err = errors.Join(err, chatUsecase.Close(context.WithoutCancel(ctx)))
	}()

	ownerID := uuid.New()
	chat, err := chatUsecase.OpenChat(ctx, ownerID)
	if err != nil {
		return err
	}
	for _, message := range chat.Messages {
		fmt.Fprintln(out, terminalPromptAssistant+message.Body)
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(out, terminalPromptUser)
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(out)
			select {
			case err = <-scanErr:
				if err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
			default:
			}
			return nil
		}

		replies, err := chatUsecase.SendMessage(ctx, chat.ChatID, ownerID, line)
		if errors.Is(err, model.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			return err
		}
		select {
		case reply, ok := <-replies:
			if ok {
				fmt.Fprintln(out, terminalPromptAssistant+reply.Body)
			}
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		}
	}
}
