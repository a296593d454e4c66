package http_api

import (
	"net/http"
)

func (s *Server) handleNormalDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.Dashboard.Normal(sessionFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) handleSuperDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.Dashboard.Super(sessionFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) handleInvestmentPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.Dashboard.Investment(sessionFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handlePrompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := s.Dashboard.Prompts(sessionFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prompts)
}
