// Package handler exposes the ledger, its summary, deletions and goals over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/damon-houk/finance-ledger/internal/application/display"
	"github.com/damon-houk/finance-ledger/internal/application/form"
	"github.com/damon-houk/finance-ledger/internal/application/service"
	"github.com/damon-houk/finance-ledger/internal/domain/summary"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// TransactionHandler handles HTTP requests for transactions and the summary
type TransactionHandler struct {
	ledger *service.LedgerService
	logger logger.Logger
}

// NewTransactionHandler creates a new transaction handler. A nil ledger panics.
func NewTransactionHandler(ledger *service.LedgerService, log logger.Logger) *TransactionHandler {
	if ledger == nil {
		panic("handler: NewTransactionHandler requires a ledger")
	}

	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionHandler{
		ledger: ledger,
		logger: log,
	}
}

// ListTransactions returns the ledger newest first, ready to display
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	items := display.Items(h.ledger.Transactions())

	sendJSON(w, r, h.logger, http.StatusOK, TransactionListResponse{
		Transactions: items,
		Count:        len(items),
	})
}

// CreateTransaction validates the captured movement and adds it to the ledger
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req form.Movement
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	valid, err := req.Validate()
	if err != nil {
		h.logger.Warn("Movement validation failed", map[string]interface{}{
			"request_id": requestID,
			"title":      req.Title,
			"amount":     req.Amount,
			"kind":       req.Kind,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid movement", err.Error(), http.StatusBadRequest, requestID)
		return
	}

	tx, err := h.ledger.Add(r.Context(), valid.Title, valid.Amount, valid.Kind, valid.Date)
	if err != nil {
		h.logger.Error("Unexpected error adding transaction", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while creating the transaction",
			http.StatusInternalServerError, requestID)
		return
	}

	sendJSON(w, r, h.logger, http.StatusCreated, display.NewItem(tx))
}

// GetTransaction returns a single transaction for the detail view
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	tx, ok := h.ledger.Get(id)
	if !ok {
		h.logger.Warn("Transaction not found", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
		})
		sendErrorResponse(w, h.logger, "Transaction not found",
			"The requested transaction could not be found", http.StatusNotFound, requestID)
		return
	}

	sendJSON(w, r, h.logger, http.StatusOK, display.NewItem(tx))
}

// DeleteTransaction removes a transaction right away; unknown IDs still get 204
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	h.ledger.Delete(r.Context(), mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

// GetSummary returns the derived totals of the ledger
func (h *TransactionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, r, h.logger, http.StatusOK, summary.Summarize(h.ledger.Transactions()))
}

// RegisterRoutes registers the transaction handler routes
func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)
	router.HandleFunc("/transactions", h.CreateTransaction).Methods(http.MethodPost)
	router.HandleFunc("/transactions/{id}", h.GetTransaction).Methods(http.MethodGet)
	router.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods(http.MethodDelete)
	router.HandleFunc("/summary", h.GetSummary).Methods(http.MethodGet)

	h.logger.Info("Transaction routes registered", map[string]interface{}{
		"routes": []string{
			"GET /transactions",
			"POST /transactions",
			"GET /transactions/{id}",
			"DELETE /transactions/{id}",
			"GET /summary",
		},
	})
}

// isNotFound reports whether err means the addressed resource does not exist
func isNotFound(err error) bool {
	return errors.Is(err, service.ErrTransactionNotFound) ||
		errors.Is(err, service.ErrConfirmationNotFound) ||
		errors.Is(err, service.ErrGoalNotFound)
}
