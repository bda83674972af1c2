package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/damon-houk/finance-ledger/internal/application/display"
	"github.com/damon-houk/finance-ledger/internal/domain/entity"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/middleware"
)

const maxBodyBytes = 1 << 20

// TransactionListResponse is the body of GET /transactions
type TransactionListResponse struct {
	Transactions []display.Item `json:"transactions"`
	Count        int            `json:"count"`
}

// CreateGoalRequest is the body of POST /goals
type CreateGoalRequest struct {
	Title  string `json:"title"`
	Target string `json:"target"`
}

// ContributionRequest is the body of POST /goals/{id}/contributions
type ContributionRequest struct {
	Amount string `json:"amount"`
}

// GoalResponse is a goal with its derived progress
type GoalResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Target          float64   `json:"target"`
	Saved           float64   `json:"saved"`
	ProgressPercent int       `json:"progress_percent"`
	Completed       bool      `json:"completed"`
	CreatedAt       time.Time `json:"created_at"`
}

func newGoalResponse(g entity.Goal) GoalResponse {
	return GoalResponse{
		ID:              g.ID,
		Title:           g.Title,
		Target:          g.Target,
		Saved:           g.Saved,
		ProgressPercent: g.ProgressPercent(),
		Completed:       g.Completed(),
		CreatedAt:       g.CreatedAt,
	}
}

// GoalListResponse is the body of GET /goals
type GoalListResponse struct {
	Goals []GoalResponse `json:"goals"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// decodeBody reads a JSON request body into v
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// sendJSON encodes v before writing anything, so an encoding failure still yields a 500
func sendJSON(w http.ResponseWriter, r *http.Request, log logger.Logger, statusCode int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		log.Error("Failed to encode response", map[string]interface{}{
			"request_id": requestID,
			"path":       r.URL.Path,
			"error":      err.Error(),
		})
		sendErrorResponse(w, log, "Internal server error",
			"The response could not be encoded", http.StatusInternalServerError, requestID)
		return
	}

	writeBody(w, statusCode, body)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	body, _ := json.Marshal(ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
	writeBody(w, statusCode, body)
}

func writeBody(w http.ResponseWriter, statusCode int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(append(body, '\n'))
}
