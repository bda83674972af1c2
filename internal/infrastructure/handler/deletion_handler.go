package handler

import (
	"net/http"

	"github.com/damon-houk/finance-ledger/internal/application/service"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// DeletionHandler exposes the confirm-before-delete flow
type DeletionHandler struct {
	deletions *service.DeletionService
	logger    logger.Logger
}

// NewDeletionHandler creates a new deletion handler. A nil service panics.
func NewDeletionHandler(deletions *service.DeletionService, log logger.Logger) *DeletionHandler {
	if deletions == nil {
		panic("handler: NewDeletionHandler requires a deletion service")
	}

	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &DeletionHandler{
		deletions: deletions,
		logger:    log,
	}
}

// RequestDeletion issues a confirmation token for a transaction
func (h *DeletionHandler) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	c, err := h.deletions.Request(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			sendErrorResponse(w, h.logger, "Transaction not found",
				"The requested transaction could not be found", http.StatusNotFound, requestID)
			return
		}

		h.logger.Error("Unexpected error requesting deletion", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while requesting the deletion",
			http.StatusInternalServerError, requestID)
		return
	}

	sendJSON(w, r, h.logger, http.StatusAccepted, c)
}

// ConfirmDeletion commits a pending deletion
func (h *DeletionHandler) ConfirmDeletion(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	token := mux.Vars(r)["token"]

	if _, err := h.deletions.Confirm(r.Context(), token); err != nil {
		h.logger.Warn("Deletion confirmation rejected", map[string]interface{}{
			"request_id": requestID,
			"token":      token,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Confirmation not found",
			"The confirmation token is unknown, expired or cancelled", http.StatusNotFound, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CancelDeletion abandons a pending deletion
func (h *DeletionHandler) CancelDeletion(w http.ResponseWriter, r *http.Request) {
	h.deletions.Cancel(r.Context(), mux.Vars(r)["token"])
	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers the deletion handler routes
func (h *DeletionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions/{id}/deletion", h.RequestDeletion).Methods(http.MethodPost)
	router.HandleFunc("/deletions/{token}/confirm", h.ConfirmDeletion).Methods(http.MethodPost)
	router.HandleFunc("/deletions/{token}", h.CancelDeletion).Methods(http.MethodDelete)

	h.logger.Info("Deletion routes registered", map[string]interface{}{
		"routes": []string{
			"POST /transactions/{id}/deletion",
			"POST /deletions/{token}/confirm",
			"DELETE /deletions/{token}",
		},
	})
}
