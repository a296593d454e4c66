package http_api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/iamvkosarev/fintrack/config"
	"github.com/iamvkosarev/fintrack/internal/fixtures"
	"github.com/iamvkosarev/fintrack/internal/model"
	in_memory "github.com/iamvkosarev/fintrack/internal/storage/in-memory"
	"github.com/iamvkosarev/fintrack/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCookie = "fintrack_session"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()

	f, err := fixtures.Load()
	require.NoError(t, err)

	chats := usecase.NewChatUsecase(
		usecase.ChatUsecaseDeps{
			ChatStorage: in_memory.NewChatStorage(),
			Assistant:   usecase.NewDefaultAssistantUsecase(),
		},
		config.Assistant{ReplyDelay: 10 * time.Millisecond},
		logger,
	)
	t.Cleanup(func() { _ = chats.Close(context.Background()) })
	sessions := usecase.NewSessionUsecase(
		usecase.SessionUsecaseDeps{
			SessionStorage: in_memory.NewSessionStorage(),
			Chats:          chats,
		},
		logger,
	)
	transactions := usecase.NewTransactionUsecase(
		usecase.TransactionUsecaseDeps{TransactionStorage: in_memory.NewTransactionStorage()},
		logger,
	)
	uploads := usecase.NewUploadUsecase(
		usecase.UploadUsecaseDeps{Transactions: transactions},
		config.Upload{
			MaxSize:      1024,
			AllowedTypes: []string{"text/csv", "application/pdf", "image/jpeg", "image/jpg", "image/png"},
			BannerTTL:    4 * time.Second,
		},
		logger,
	)

	server := NewServer(
		ServerDeps{
			Session:      sessions,
			Chat:         chats,
			Dashboard:    usecase.NewDashboardUsecase(usecase.DashboardUsecaseDeps{Fixtures: f}),
			Transactions: transactions,
			Upload:       uploads,
		},
		config.HTTP{SessionCookie: testCookie, AllowedOrigin: "*"},
		logger,
	)
	return server.Handler()
}

// client keeps the session cookie between requests like a browser would.
type client struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func newClient(t *testing.T, handler http.Handler) *client {
	return &client{t: t, handler: handler}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == testCookie {
			c.cookie = cookie
		}
	}
	return w
}

func (c *client) call(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	return c.do(httptest.NewRequest(method, path, reader))
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	w := newClient(t, newTestServer(t)).call(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestSessionLifecycle(t *testing.T) {
	c := newClient(t, newTestServer(t))

	w := c.call(http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, c.cookie, "a session cookie is issued")
	issued := c.cookie.Value
	session := decode[sessionResponse](t, w)
	assert.False(t, session.Authenticated)
	assert.Equal(t, usecase.PathSignIn, session.Home)

	w = c.call(http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, usecase.PathSignIn, decode[errorResponse](t, w).Redirect)

	w = c.call(http.MethodPost, "/api/auth/login", loginRequest{Email: " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.call(http.MethodPost, "/api/auth/login", loginRequest{Email: "alice@example.com", Password: "x"})
	require.Equal(t, http.StatusOK, w.Code)
	session = decode[sessionResponse](t, w)
	assert.Equal(t, "alice", session.DisplayName)
	assert.Equal(t, "normal", session.Role)
	assert.Equal(t, usecase.PathDashboard, session.Home)
	assert.Equal(t, issued, c.cookie.Value, "the token survives login")

	w = c.call(http.MethodGet, "/api/super/dashboard", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = c.call(http.MethodPost, "/api/auth/toggle-role", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecase.PathSuperDashboard, decode[sessionResponse](t, w).Home)

	w = c.call(http.MethodGet, "/api/super/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 8.4, decode[model.SuperDashboard](t, w).FinancialHealthScore)

	w = c.call(http.MethodGet, "/api/super/investment", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = c.call(http.MethodGet, "/api/navigation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[[]model.NavItem](t, w)
	assert.Equal(t, usecase.PathSuperDashboard, items[0].Path)

	w = c.call(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[sessionResponse](t, w).Authenticated)

	w = c.call(http.MethodPost, "/api/auth/toggle-role", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "none", decode[sessionResponse](t, w).Role)

	w = c.call(http.MethodGet, "/api/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	handler := newTestServer(t)
	alice, bob := newClient(t, handler), newClient(t, handler)

	w := alice.call(http.MethodPost, "/api/auth/signup", signupRequest{Email: "alice@example.com", Name: "Alice"})
	require.Equal(t, http.StatusOK, w.Code)

	w = bob.call(http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = alice.call(http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice", decode[sessionResponse](t, w).DisplayName)
}

func TestChat(t *testing.T) {
	c := newClient(t, newTestServer(t))
	w := c.call(http.MethodPost, "/api/chats", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	c.call(http.MethodPost, "/api/auth/login", loginRequest{Email: "alice@example.com"})

	w = c.call(http.MethodPost, "/api/chats", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	chat := decode[chatResponse](t, w)
	require.Len(t, chat.Messages, 1)
	assert.Equal(t, usecase.MessageAssistantGreeting, chat.Messages[0].Body)

	path := "/api/chats/" + chat.ID
	w = c.call(http.MethodPost, path+"/messages", sendMessageRequest{Text: "  "})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = c.call(http.MethodPost, path+"/messages", sendMessageRequest{Text: "Where am I overspending?"})
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = c.call(http.MethodPost, path+"/messages?wait=true", sendMessageRequest{Text: "should I invest?"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[sendMessageResponse](t, w)
	require.NotNil(t, resp.Reply)
	assert.Equal(t, usecase.ResponseInvestment, resp.Reply.Body)

	// greeting, two user messages and both replies
	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(c.cookie)
		w := httptest.NewRecorder()
		c.handler.ServeHTTP(w, req)
		var got chatResponse
		return w.Code == http.StatusOK &&
			json.Unmarshal(w.Body.Bytes(), &got) == nil &&
			len(got.Messages) == 5
	}, 5*time.Second, 10*time.Millisecond)

	w = c.call(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = c.call(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = c.call(http.MethodGet, "/api/chats/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatClosedOnLogout(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.call(http.MethodPost, "/api/auth/login", loginRequest{Email: "alice@example.com"})
	chat := decode[chatResponse](t, c.call(http.MethodPost, "/api/chats", nil))

	c.call(http.MethodPost, "/api/auth/logout", nil)
	c.call(http.MethodPost, "/api/auth/login", loginRequest{Email: "alice@example.com"})

	w := c.call(http.MethodGet, "/api/chats/"+chat.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionsAndInsights(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.call(http.MethodPost, "/api/auth/login", loginRequest{Email: "alice@example.com"})

	w := c.call(http.MethodGet, "/api/insights", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{usecase.SuggestionNotEnoughData}, decode[insightsResponse](t, w).Suggestions)

	w = c.call(http.MethodPost, "/api/transactions", map[string]any{"category": "Food"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, body := range []map[string]any{
		{"amount": 700, "category": "Salary", "type": "credit"},
		{"amount": 300, "category": "Emergency", "type": "credit"},
	} {
		w = c.call(http.MethodPost, "/api/transactions", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = c.call(http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Transaction](t, w), 2)

	w = c.call(http.MethodGet, "/api/wallets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.Wallets{Normal: 700, Emergency: 300}, decode[model.Wallets](t, w))

	w = c.call(http.MethodGet, "/api/insights", nil)
	require.Equal(t, http.StatusOK, w.Code)
	insights := decode[insightsResponse](t, w)
	assert.Equal(t, 1000.0, insights.Total)
	assert.Empty(t, insights.Suggestions)
}

func uploadRequest(t *testing.T, name, contentType, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = io.WriteString(part, body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.call(http.MethodPost, "/api/auth/login", loginRequest{Email: "alice@example.com"})

	w := c.do(uploadRequest(t, "jan.csv", "text/csv", "date,description,amount\n2026-01-02,Coffee,-4\n2026-01-03,Book,-12\n"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[uploadResponse](t, w)
	assert.Equal(t, 2, result.TransactionsAdded)
	assert.Equal(t, uploadStatusComplete, result.Status)

	w = c.do(uploadRequest(t, "notes.txt", "text/plain", "hello"))
	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	rejected := decode[errorResponse](t, w)
	assert.Equal(t, usecase.MessageInvalidFileType, rejected.Error)
	assert.Equal(t, int64(4000), rejected.DismissAfterMs)

	w = c.do(uploadRequest(t, "big.pdf", "application/pdf", strings.Repeat("x", 2048)))
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, string(model.FileRejectReasonSize), decode[errorResponse](t, w).Reason)
}

func TestCORSPreflight(t *testing.T) {
	w := newClient(t, newTestServer(t)).call(http.MethodOptions, "/api/session", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSignInAsAnotherUserHidesPreviousChats(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.call(http.MethodPost, "/api/auth/login", loginRequest{Email: "alice@example.com"})

	w := c.call(http.MethodPost, "/api/chats", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	chat := decode[chatResponse](t, w)
	w = c.call(http.MethodPost, "/api/chats/"+chat.ID+"/messages", sendMessageRequest{Text: "my emergency fund pin"})
	require.Equal(t, http.StatusAccepted, w.Code)

	w = c.call(http.MethodPost, "/api/auth/login", loginRequest{Email: "bob@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	w = c.call(http.MethodGet, "/api/chats/"+chat.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
