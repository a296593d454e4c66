package http_api

import (
	"time"

	"github.com/iamvkosarev/fintrack/internal/model"
	"github.com/iamvkosarev/fintrack/internal/usecase"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
	Role          string `json:"role"`
	Home          string `json:"home"`
}

type messageResponse struct {
	Source    string    `json:"source"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type chatResponse struct {
	ID        string            `json:"id"`
	Messages  []messageResponse `json:"messages"`
	CreatedAt time.Time         `json:"created_at"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	ChatID string           `json:"chat_id"`
	Reply  *messageResponse `json:"reply,omitempty"`
}

type expenseRequest struct {
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
}

type insightsResponse struct {
	Wallets     model.Wallets `json:"wallets"`
	Total       float64       `json:"total"`
	Suggestions []string      `json:"suggestions"`
}

type uploadResponse struct {
	usecase.UploadResult
	Status string `json:"status"`
}

func toSessionResponse(session model.Session) sessionResponse {
	resp := sessionResponse{
		Authenticated: session.IsAuthenticated(),
		Role:          session.Role.String(),
		Home:          usecase.HomePath(session),
	}
	if session.Identity != nil {
		resp.Email = session.Identity.Email
		resp.DisplayName = session.Identity.DisplayName
	}
	return resp
}

func toMessageResponse(message model.Message) messageResponse {
	return messageResponse{
		Source:    string(message.Source),
		Body:      message.Body,
		CreatedAt: message.CreatedAt,
	}
}

func toChatResponse(chat model.Chat) chatResponse {
	messages := make([]messageResponse, 0, len(chat.Messages))
	for _, message := range chat.Messages {
		messages = append(messages, toMessageResponse(message))
	}
	return chatResponse{
		ID:        chat.ChatID.String(),
		Messages:  messages,
		CreatedAt: chat.CreatedAt,
	}
}
