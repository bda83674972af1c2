package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/damon-houk/finance-ledger/internal/application/display"
	"github.com/damon-houk/finance-ledger/internal/application/form"
	"github.com/damon-houk/finance-ledger/internal/application/service"
	"github.com/damon-houk/finance-ledger/internal/domain/entity"
	"github.com/damon-houk/finance-ledger/internal/domain/summary"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/cache"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/handler"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/logger"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	router *mux.Router
	ledger *service.LedgerService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	log := logger.NewJSONLogger(io.Discard, logger.ErrorLevel)
	ledger := service.NewLedgerService(log)
	deletions := service.NewDeletionService(ledger, cache.NewConfirmationCache(time.Minute), log)
	goals := service.NewGoalService(log)

	router := mux.NewRouter()
	handler.NewTransactionHandler(ledger, log).RegisterRoutes(router)
	handler.NewDeletionHandler(deletions, log).RegisterRoutes(router)
	handler.NewGoalHandler(goals, log).RegisterRoutes(router)

	return &testAPI{router: router, ledger: ledger}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestCreateTransaction(t *testing.T) {
	t.Run("Valid movement", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(t, http.MethodPost, "/transactions", form.Movement{
			Title: "Pago", Amount: "200", Kind: "ingreso", Date: "2025-09-10",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		item := decode[display.Item](t, w)
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, "Pago", item.Title)
		assert.Equal(t, entity.KindIncome, item.Kind)
		assert.Equal(t, 200.0, item.Amount)
		assert.Equal(t, entity.IncomeTint, item.DisplayTint)
		assert.Equal(t, "10 sept 2025", item.DisplayDate)
		assert.Equal(t, "+200$", item.DisplayAmount)
		assert.Equal(t, 1, api.ledger.Len())
	})

	t.Run("Expense gets a negative amount", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(t, http.MethodPost, "/transactions", form.Movement{
			Title: "Gasolina", Amount: "25,50", Kind: "gasto", Date: "2025-09-10",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		item := decode[display.Item](t, w)
		assert.Equal(t, -25.5, item.Amount)
		assert.Equal(t, entity.ExpenseTint, item.DisplayTint)
		assert.Equal(t, "-25.5$", item.DisplayAmount)
	})

	t.Run("Validation failures leave the ledger untouched", func(t *testing.T) {
		tests := []struct {
			name    string
			input   form.Movement
			wantErr error
		}{
			{"title and amount missing", form.Movement{Kind: "gasto"}, form.ErrMissingTitleAndAmount},
			{"title missing", form.Movement{Amount: "10", Kind: "gasto"}, form.ErrMissingTitle},
			{"amount missing", form.Movement{Title: "Pizza", Kind: "gasto"}, form.ErrMissingAmount},
			{"amount not a number", form.Movement{Title: "Pizza", Amount: "abc", Kind: "gasto"}, form.ErrInvalidAmount},
			{"amount zero", form.Movement{Title: "Pizza", Amount: "0", Kind: "gasto"}, form.ErrInvalidAmount},
			{"amount overflows", form.Movement{Title: "Pizza", Amount: "1e400", Kind: "gasto"}, form.ErrInvalidAmount},
			{"amount underflows", form.Movement{Title: "Pizza", Amount: "1e-400", Kind: "gasto"}, form.ErrInvalidAmount},
			{"amount has 400 digits", form.Movement{Title: "Pizza", Amount: strings.Repeat("9", 400), Kind: "gasto"}, form.ErrInvalidAmount},
			{"kind missing", form.Movement{Title: "Pizza", Amount: "15"}, form.ErrMissingKind},
			{"bad date", form.Movement{Title: "Pizza", Amount: "15", Kind: "gasto", Date: "10/09/2025"}, form.ErrInvalidDate},
		}

		api := newTestAPI(t)
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				w := api.do(t, http.MethodPost, "/transactions", tc.input)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				resp := decode[handler.ErrorResponse](t, w)
				assert.Equal(t, "Invalid movement", resp.Error)
				assert.Equal(t, tc.wantErr.Error(), resp.Description)
				assert.Equal(t, http.StatusBadRequest, resp.Status)
			})
		}
		assert.Equal(t, 0, api.ledger.Len())
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(t, http.MethodPost, "/transactions", `{"title": "Pago",`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", decode[handler.ErrorResponse](t, w).Error)
	})
}

func TestListAndSummary(t *testing.T) {
	api := newTestAPI(t)

	for _, m := range []form.Movement{
		{Title: "Pago", Amount: "200", Kind: "ingreso", Date: "2025-09-10"},
		{Title: "Gasolina", Amount: "25", Kind: "gasto", Date: "2025-09-10"},
	} {
		require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/transactions", m).Code)
	}

	w := api.do(t, http.MethodGet, "/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[handler.TransactionListResponse](t, w)
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "Gasolina", list.Transactions[0].Title)
	assert.Equal(t, "Pago", list.Transactions[1].Title)

	w = api.do(t, http.MethodGet, "/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, summary.Summary{
		Count:          2,
		TotalIncome:    200,
		TotalExpense:   25,
		NetSavings:     175,
		VisibleSavings: 175,
		SavingsPercent: 88,
	}, decode[summary.Summary](t, w))
}

func TestEmptyLedger(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"transactions": [], "count": 0}`, w.Body.String())

	w = api.do(t, http.MethodGet, "/summary", nil)
	assert.Equal(t, summary.Summary{}, decode[summary.Summary](t, w))
}

func TestGetAndDeleteTransaction(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/transactions", form.Movement{Title: "Pizza", Amount: "15", Kind: "gasto"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[display.Item](t, w).ID

	w = api.do(t, http.MethodGet, "/transactions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pizza", decode[display.Item](t, w).Title)

	w = api.do(t, http.MethodDelete, "/transactions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, api.ledger.Len())

	w = api.do(t, http.MethodDelete, "/transactions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(t, http.MethodGet, "/transactions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Transaction not found", decode[handler.ErrorResponse](t, w).Error)
}

func TestDeletionFlow(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/transactions", form.Movement{Title: "Pizza", Amount: "15", Kind: "gasto"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[display.Item](t, w).ID

	t.Run("Unknown transaction", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/transactions/42/deletion", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Cancelled token cannot be confirmed", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/transactions/"+id+"/deletion", nil)
		require.Equal(t, http.StatusAccepted, w.Code)
		c := decode[cache.Confirmation](t, w)
		assert.Equal(t, id, c.TransactionID)

		assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/deletions/"+c.Token, nil).Code)
		assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPost, "/deletions/"+c.Token+"/confirm", nil).Code)
		assert.Equal(t, 1, api.ledger.Len())
	})

	t.Run("Confirmed token deletes once", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/transactions/"+id+"/deletion", nil)
		require.Equal(t, http.StatusAccepted, w.Code)
		c := decode[cache.Confirmation](t, w)

		assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodPost, "/deletions/"+c.Token+"/confirm", nil).Code)
		assert.Equal(t, 0, api.ledger.Len())

		w = api.do(t, http.MethodPost, "/deletions/"+c.Token+"/confirm", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Confirmation not found", decode[handler.ErrorResponse](t, w).Error)
	})
}

func TestGoals(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/goals", handler.CreateGoalRequest{Title: "Vacaciones", Target: "1000"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	goal := decode[handler.GoalResponse](t, w)
	assert.Equal(t, "Vacaciones", goal.Title)
	assert.Equal(t, 1000.0, goal.Target)
	assert.Equal(t, 0, goal.ProgressPercent)

	w = api.do(t, http.MethodPost, "/goals/"+goal.ID+"/contributions", handler.ContributionRequest{Amount: "250"})
	require.Equal(t, http.StatusOK, w.Code)
	goal = decode[handler.GoalResponse](t, w)
	assert.Equal(t, 250.0, goal.Saved)
	assert.Equal(t, 25, goal.ProgressPercent)
	assert.False(t, goal.Completed)

	w = api.do(t, http.MethodPost, "/goals/"+goal.ID+"/contributions", handler.ContributionRequest{Amount: "800"})
	goal = decode[handler.GoalResponse](t, w)
	assert.Equal(t, 100, goal.ProgressPercent)
	assert.True(t, goal.Completed)

	w = api.do(t, http.MethodGet, "/goals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[handler.GoalListResponse](t, w).Goals, 1)

	t.Run("Invalid input", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest,
			api.do(t, http.MethodPost, "/goals", handler.CreateGoalRequest{Title: "Coche", Target: "-5"}).Code)
		assert.Equal(t, http.StatusBadRequest,
			api.do(t, http.MethodPost, "/goals", handler.CreateGoalRequest{Title: " ", Target: "5"}).Code)
		assert.Equal(t, http.StatusBadRequest,
			api.do(t, http.MethodPost, "/goals/"+goal.ID+"/contributions", handler.ContributionRequest{Amount: "0"}).Code)
		assert.Equal(t, http.StatusNotFound,
			api.do(t, http.MethodPost, "/goals/missing/contributions", handler.ContributionRequest{Amount: "5"}).Code)
	})

	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/goals/"+goal.ID, nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/goals/"+goal.ID, nil).Code)

	w = api.do(t, http.MethodGet, "/goals", nil)
	assert.JSONEq(t, `{"goals": []}`, w.Body.String())
}

func TestHandlersRequireDependencies(t *testing.T) {
	assert.Panics(t, func() { handler.NewTransactionHandler(nil, nil) })
	assert.Panics(t, func() { handler.NewDeletionHandler(nil, nil) })
	assert.Panics(t, func() { handler.NewGoalHandler(nil, nil) })
}
