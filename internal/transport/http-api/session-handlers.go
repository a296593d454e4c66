package http_api

import (
	"encoding/json"
	"net/http"

	"github.com/iamvkosarev/fintrack/internal/model"
	"github.com/iamvkosarev/fintrack/internal/usecase"
)

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSessionResponse(sessionFrom(r)))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	session, err := s.Session.Login(r.Context(), sessionFrom(r).ID, req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	session, err := s.Session.Signup(r.Context(), sessionFrom(r).ID, req.Email, req.Password, req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, err := s.Session.Logout(r.Context(), sessionFrom(r).ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleToggleRole(w http.ResponseWriter, r *http.Request) {
	session, err := s.Session.ToggleRole(r.Context(), sessionFrom(r).ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	if err := session.Authorize(model.UserRoleNormal); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	items, err := usecase.Navigation(sessionFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
