package http_api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iamvkosarev/fintrack/internal/model"
	"github.com/iamvkosarev/fintrack/internal/usecase"
)

const (
	uploadStatusComplete = "complete"
	multipartMemory      = 1 << 20
)

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	transaction, err := s.Transactions.AddExpense(r.Context(), owner, usecase.ExpenseInput{
		Date:        req.Date,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        req.Type,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, transaction)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	transactions, err := s.Transactions.ListTransactions(r.Context(), owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleWallets(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	wallets, err := s.Transactions.WalletSummary(r.Context(), owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallets)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	wallets, err := s.Transactions.WalletSummary(r.Context(), owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insightsResponse{
		Wallets:     wallets,
		Total:       wallets.Total(),
		Suggestions: usecase.Suggestions(wallets),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.Upload.MaxSize()+multipartMemory)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, s.Upload.TooLarge())
			return
		}
		badRequest(w, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	result, err := s.Upload.Process(r.Context(), owner, usecase.Upload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		UploadResult: result,
		Status:       uploadStatusComplete,
	})
}

// owner returns the email transactions are filed under.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	session := sessionFrom(r)
	if err := session.Authorize(model.UserRoleNormal); err != nil {
		s.writeError(w, err)
		return "", false
	}
	return session.Identity.Email, true
}
