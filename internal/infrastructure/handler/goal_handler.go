package handler

import (
	"errors"
	"net/http"

	"github.com/damon-houk/finance-ledger/internal/application/service"
	"github.com/damon-houk/finance-ledger/internal/domain/entity"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// GoalHandler handles HTTP requests for savings goals
type GoalHandler struct {
	goals  *service.GoalService
	logger logger.Logger
}

// NewGoalHandler creates a new goal handler. A nil service panics.
func NewGoalHandler(goals *service.GoalService, log logger.Logger) *GoalHandler {
	if goals == nil {
		panic("handler: NewGoalHandler requires a goal service")
	}

	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &GoalHandler{
		goals:  goals,
		logger: log,
	}
}

// ListGoals returns every goal in creation order
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals := h.goals.List()

	resp := GoalListResponse{Goals: make([]GoalResponse, 0, len(goals))}
	for _, g := range goals {
		resp.Goals = append(resp.Goals, newGoalResponse(g))
	}

	sendJSON(w, r, h.logger, http.StatusOK, resp)
}

// CreateGoal creates a goal with nothing saved yet
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req CreateGoalRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	g, err := h.goals.Create(r.Context(), req.Title, req.Target)
	if err != nil {
		h.handleError(w, requestID, err)
		return
	}

	sendJSON(w, r, h.logger, http.StatusCreated, newGoalResponse(g))
}

// Contribute adds money to a goal
func (h *GoalHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req ContributionRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	g, err := h.goals.Contribute(r.Context(), mux.Vars(r)["id"], req.Amount)
	if err != nil {
		h.handleError(w, requestID, err)
		return
	}

	sendJSON(w, r, h.logger, http.StatusOK, newGoalResponse(g))
}

// DeleteGoal removes a goal; unknown IDs still get 204
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	h.goals.Delete(r.Context(), mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) handleError(w http.ResponseWriter, requestID string, err error) {
	switch {
	case isNotFound(err):
		sendErrorResponse(w, h.logger, "Goal not found",
			"The requested goal could not be found", http.StatusNotFound, requestID)
	case errors.Is(err, entity.ErrEmptyTitle),
		errors.Is(err, entity.ErrInvalidTarget),
		errors.Is(err, entity.ErrInvalidAmount):
		h.logger.Warn("Goal validation failed", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid goal", err.Error(), http.StatusBadRequest, requestID)
	default:
		h.logger.Error("Unexpected goal error", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while updating goals", http.StatusInternalServerError, requestID)
	}
}

// RegisterRoutes registers the goal handler routes
func (h *GoalHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/goals", h.ListGoals).Methods(http.MethodGet)
	router.HandleFunc("/goals", h.CreateGoal).Methods(http.MethodPost)
	router.HandleFunc("/goals/{id}/contributions", h.Contribute).Methods(http.MethodPost)
	router.HandleFunc("/goals/{id}", h.DeleteGoal).Methods(http.MethodDelete)

	h.logger.Info("Goal routes registered", map[string]interface{}{
		"routes": []string{
			"GET /goals",
			"POST /goals",
			"POST /goals/{id}/contributions",
			"DELETE /goals/{id}",
		},
	})
}
