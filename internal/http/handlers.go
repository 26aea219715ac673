package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kharcha/internal/core"
)

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	case http.MethodDelete:
		s.handleClearHistory(w, r)
	default:
		MethodNotAllowedError("GET, POST, DELETE").Write(w, r)
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	l := s.store.Snapshot()
	NewJSONResponse(struct {
		Transactions []core.Transaction `json:"transactions"`
		Budget       float64            `json:"budget"`
	}{
		Transactions: l.Transactions,
		Budget:       l.Budget,
	}).Write(w, r)
}

type createTransactionRequest struct {
	Name     string          `json:"name"`
	Amount   json.RawMessage `json:"amount"`
	Category string          `json:"category"`
}

// parseAmountField accepts the amount either as a JSON number or as the
// raw string a form field would carry ("12,50" included).
func parseAmountField(raw json.RawMessage) (float64, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, core.ErrInvalidAmount
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, core.ErrInvalidAmount
		}
		return core.ParseAmount(s)
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil || v <= 0 {
		return 0, core.ErrInvalidAmount
	}
	return v, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestError("invalid request body").Write(w, r)
		return
	}

	amount, err := parseAmountField(req.Amount)
	if err != nil {
		UnprocessableEntityError("amount must be a positive number").Write(w, r)
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		UnprocessableEntityError("category is required").Write(w, r)
		return
	}

	t := core.NewTransaction(req.Name, amount, req.Category, time.Now())
	if err := s.store.AddTransaction(r.Context(), t); err != nil {
		slog.ErrorContext(r.Context(), "Failed to add transaction",
			"transaction_id", t.ID, "error", err)
		InternalServerError("failed to save transaction").Write(w, r)
		return
	}

	NewJSONResponse(t).Status(http.StatusCreated).Write(w, r)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearHistory(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Failed to clear history", "error", err)
		InternalServerError("failed to clear history").Write(w, r)
		return
	}
	NewJSONResponse(nil).Status(http.StatusNoContent).Write(w, r)
}

type setBudgetRequest struct {
	Budget float64 `json:"budget"`
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		MethodNotAllowedError("PUT").Write(w, r)
		return
	}

	var req setBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestError("invalid request body").Write(w, r)
		return
	}
	if req.Budget <= 0 {
		UnprocessableEntityError("budget must be a positive number").Write(w, r)
		return
	}

	if err := s.store.SetBudget(r.Context(), req.Budget); err != nil {
		slog.ErrorContext(r.Context(), "Failed to set budget",
			"budget", req.Budget, "error", err)
		InternalServerError("failed to save budget").Write(w, r)
		return
	}

	NewJSONResponse(struct {
		Budget float64 `json:"budget"`
	}{Budget: req.Budget}).Write(w, r)
}

type summaryPayload struct {
	TotalSpent   float64             `json:"totalSpent"`
	TotalIncome  float64             `json:"totalIncome"`
	Remaining    float64             `json:"remaining"`
	DailyAverage float64             `json:"dailyAverage"`
	Budget       float64             `json:"budget"`
	Categories   []core.CategoryStat `json:"categories"`
}

// handleSummary folds the current snapshot into the derived statistics.
// Nothing is cached: each call recomputes from the snapshot it reads.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w, r)
		return
	}

	l := s.store.Snapshot()
	categories := core.Categories(l)
	if categories == nil {
		categories = []core.CategoryStat{}
	}

	NewJSONResponse(summaryPayload{
		TotalSpent:   core.TotalSpent(l),
		TotalIncome:  core.TotalIncome(l),
		Remaining:    core.Remaining(l),
		DailyAverage: core.DailyAverage(l, time.Now()),
		Budget:       l.Budget,
		Categories:   categories,
	}).Write(w, r)
}

type dayPayload struct {
	Date         string             `json:"date"`
	Transactions []core.Transaction `json:"transactions"`
	Summary      core.DaySummary    `json:"summary"`
}

// handleDay returns the transactions of one local calendar day with their
// aggregate. The date defaults to today.
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w, r)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		BadRequestError("date must be formatted YYYY-MM-DD").Write(w, r)
		return
	}

	transactions := core.FilterByDay(s.store.Snapshot(), date)
	summary := core.SummarizeDay(transactions)
	if transactions == nil {
		transactions = []core.Transaction{}
	}

	NewJSONResponse(dayPayload{
		Date:         date,
		Transactions: transactions,
		Summary:      summary,
	}).Write(w, r)
}

type predictRequest struct {
	Text  *string  `json:"text"`
	Texts []string `json:"texts"`
}

// handlePredict forwards the text(s) to the prediction service. Upstream
// failures still answer 200 with a failure envelope; only an undecodable
// upstream payload surfaces as a gateway error.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w, r)
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestError("invalid request body").Write(w, r)
		return
	}

	if req.Texts != nil {
		resp, err := s.predictor.PredictBatch(r.Context(), req.Texts)
		if err != nil {
			slog.ErrorContext(r.Context(), "Prediction decode failure", "error", err)
			ErrorResponse(http.StatusBadGateway, "prediction service returned an unreadable response").Write(w, r)
			return
		}
		NewJSONResponse(resp).Write(w, r)
		return
	}

	if req.Text == nil {
		UnprocessableEntityError("text is required").Write(w, r)
		return
	}

	resp, err := s.predictor.Predict(r.Context(), *req.Text)
	if err != nil {
		slog.ErrorContext(r.Context(), "Prediction decode failure", "error", err)
		ErrorResponse(http.StatusBadGateway, "prediction service returned an unreadable response").Write(w, r)
		return
	}
	NewJSONResponse(resp).Write(w, r)
}
