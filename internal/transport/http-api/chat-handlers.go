package http_api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/iamvkosarev/fintrack/internal/model"
)

func (s *Server) handleOpenChat(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	if err := session.Authorize(model.UserRoleNormal); err != nil {
		s.writeError(w, err)
		return
	}
	chat, err := s.Chat.OpenChat(r.Context(), session.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toChatResponse(chat))
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	session, chatID, ok := s.chatRequest(w, r)
	if !ok {
		return
	}
	chat, err := s.Chat.GetChat(r.Context(), chatID, session.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChatResponse(chat))
}

// handleSendMessage answers 202 as soon as the message is recorded. With
// ?wait=true it holds the request until the deferred reply is delivered.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	session, chatID, ok := s.chatRequest(w, r)
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	replies, err := s.Chat.SendMessage(r.Context(), chatID, session.ID, req.Text)
	if errors.Is(err, model.ErrEmptyMessage) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := sendMessageResponse{ChatID: chatID.String()}
	if r.URL.Query().Get("wait") != "true" {
		writeJSON(w, http.StatusAccepted, resp)
		return
	}
	select {
	case reply, ok := <-replies:
		if !ok {
			s.writeError(w, model.ErrChatDoesNotExist)
			return
		}
		message := toMessageResponse(reply)
		resp.Reply = &message
		writeJSON(w, http.StatusOK, resp)
	case <-r.Context().Done():
	}
}

func (s *Server) handleCloseChat(w http.ResponseWriter, r *http.Request) {
	session, chatID, ok := s.chatRequest(w, r)
	if !ok {
		return
	}
	if err := s.Chat.CloseChat(r.Context(), chatID, session.ID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) chatRequest(w http.ResponseWriter, r *http.Request) (model.Session, uuid.UUID, bool) {
	session := sessionFrom(r)
	if err := session.Authorize(model.UserRoleNormal); err != nil {
		s.writeError(w, err)
		return model.Session{}, uuid.Nil, false
	}
	chatID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, model.ErrChatDoesNotExist)
		return model.Session{}, uuid.Nil, false
	}
	return session, chatID, true
}
