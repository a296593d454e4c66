package app

import (
	"context"
	"errors"
	"fmt"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/fintrack/config"
	"github.com/iamvkosarev/fintrack/internal/fixtures"
	http_api "github.com/iamvkosarev/fintrack/internal/transport/http-api"
	"github.com/iamvkosarev/fintrack/internal/usecase"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Run serves the HTTP API, and the Telegram bot when a token is configured,
// until ctx is done.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) (err error) {
	stores, err := newStorages(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, stores.Close())
	}()

	data, err := fixtures.Load()
	if err != nil {
		return fmt.Errorf("failed to load dashboard fixtures: %w", err)
	}

	chatUsecase := usecase.NewChatUsecase(
		usecase.ChatUsecaseDeps{
			ChatStorage: stores.chats,
			Assistant:   usecase.NewDefaultAssistantUsecase(),
		},
		cfg.Assistant,
		logger,
	)
	defer func() {
		err = errors.Join(err, chatUsecase.Close(context.WithoutCancel(ctx)))
	}()

	sessionUsecase := usecase.NewSessionUsecase(
		usecase.SessionUsecaseDeps{
			SessionStorage: stores.sessions,
			Chats:          chatUsecase,
		},
		logger,
	)

	dashboardUsecase := usecase.NewDashboardUsecase(
		usecase.DashboardUsecaseDeps{
			Fixtures: data,
		},
	)

	transactionUsecase := usecase.NewTransactionUsecase(
		usecase.TransactionUsecaseDeps{
			TransactionStorage: stores.transactions,
		},
		logger,
	)

	uploadUsecase := usecase.NewUploadUsecase(
		usecase.UploadUsecaseDeps{
			Transactions: transactionUsecase,
		},
		cfg.Upload,
		logger,
	)

	server := http_api.NewServer(
		http_api.ServerDeps{
			Session:      sessionUsecase,
			Chat:         chatUsecase,
			Dashboard:    dashboardUsecase,
			Transactions: transactionUsecase,
			Upload:       uploadUsecase,
		},
		cfg.HTTP,
		logger,
	)

	var telegramUsecase *usecase.TelegramUsecase
	if cfg.Telegram.TelegramAPIToken != "" {
		bot, err := api.NewBotAPI(cfg.Telegram.TelegramAPIToken)
		if err != nil {
			return fmt.Errorf("failed to create new bot: %w", err)
		}
		logger.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

		telegramUsecase, err = usecase.NewTelegramUsecase(
			cfg.Telegram,
			usecase.TelegramUsecaseDeps{
				Session:   sessionUsecase,
				Chat:      chatUsecase,
				Dashboard: dashboardUsecase,
				Bot:       bot,
			},
			logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create telegram usecase: %w", err)
		}
	} else {
		logger.Info("telegram token is not set, bot disabled")
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return server.ListenAndServe(egCtx)
	})
	if telegramUsecase != nil {
		eg.Go(func() error {
			return telegramUsecase.Run(egCtx)
		})
	}

	return eg.Wait()
}
