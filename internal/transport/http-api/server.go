package http_api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/iamvkosarev/fintrack/config"
	"github.com/iamvkosarev/fintrack/internal/usecase"
	"go.uber.org/zap"
)

type ServerDeps struct {
	Session      *usecase.SessionUsecase
	Chat         *usecase.ChatUsecase
	Dashboard    *usecase.DashboardUsecase
	Transactions *usecase.TransactionUsecase
	Upload       *usecase.UploadUsecase
}

// Server exposes the session, dashboard, chat and transaction usecases as a JSON API.
type Server struct {
	ServerDeps
	cfg    config.HTTP
	logger *zap.Logger
}

func NewServer(deps ServerDeps, cfg config.HTTP, logger *zap.Logger) *Server {
	return &Server{
		ServerDeps: deps,
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("GET /api/session", s.handleGetSession)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("POST /api/auth/toggle-role", s.handleToggleRole)

	mux.HandleFunc("GET /api/navigation", s.handleNavigation)
	mux.HandleFunc("GET /api/profile", s.handleProfile)
	mux.HandleFunc("GET /api/dashboard", s.handleNormalDashboard)
	mux.HandleFunc("GET /api/super/dashboard", s.handleSuperDashboard)
	mux.HandleFunc("GET /api/super/investment", s.handleInvestmentPlan)
	mux.HandleFunc("GET /api/assistant/prompts", s.handlePrompts)

	mux.HandleFunc("POST /api/chats", s.handleOpenChat)
	mux.HandleFunc("GET /api/chats/{id}", s.handleGetChat)
	mux.HandleFunc("POST /api/chats/{id}/messages", s.handleSendMessage)
	mux.HandleFunc("DELETE /api/chats/{id}", s.handleCloseChat)

	mux.HandleFunc("POST /api/transactions", s.handleAddExpense)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/wallets", s.handleWallets)
	mux.HandleFunc("GET /api/insights", s.handleInsights)
	mux.HandleFunc("POST /api/uploads", s.handleUpload)

	return chainMiddlewares(
		mux,
		s.withSession,
		s.withCORS,
		s.withLogging,
	)
}

// ListenAndServe serves until ctx is done and then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("address", s.cfg.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
