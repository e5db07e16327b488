package http

import (
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"schoolhub/internal/model"
)

func (s *Server) handleListPayroll(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePage(r)
	txns, err := s.store.ListTransactionsByType(r.Context(), "salary", skip, limit)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleProcessPayroll(w http.ResponseWriter, r *http.Request) {
	period := time.Now().UTC()
	if raw := r.URL.Query().Get("period"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_period")
			return
		}
		period = parsed
	}

	processed, err := s.payroll.Process(r.Context(), period)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"processed": processed,
		"message":   fmt.Sprintf("Processed payroll for %d employees", processed),
	})
}

type transactionRequest struct {
	UserID          string  `json:"user_id"`
	Amount          float64 `json:"amount"`
	TransactionType string  `json:"transaction_type"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	PaymentMethod   string  `json:"payment_method"`
	Status          string  `json:"status"`
	Date            string  `json:"date"`
	InvoiceNumber   string  `json:"invoice_number"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.TransactionType == "" {
		writeError(w, http.StatusBadRequest, "missing_transaction_type")
		return
	}

	userID, err := bson.ObjectIDFromHex(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_user_id")
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date")
			return
		}
		date = parsed
	}
	status := req.Status
	if status == "" {
		status = "completed"
	}

	txnID, err := s.store.InsertTransaction(r.Context(), model.Transaction{
		UserID:          userID,
		Amount:          req.Amount,
		TransactionType: req.TransactionType,
		Description:     req.Description,
		Date:            date,
		Category:        req.Category,
		PaymentMethod:   req.PaymentMethod,
		Status:          status,
		InvoiceNumber:   req.InvoiceNumber,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"transaction_id": txnID})
}

func (s *Server) handleFinancialSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.FinancialSummary(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.dashboard.Metrics(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}
