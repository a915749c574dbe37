package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/supplyshield/riskengine/internal/application/dto"
	"github.com/supplyshield/riskengine/internal/application/usecase"
	"github.com/supplyshield/riskengine/internal/domain/errs"
	"github.com/supplyshield/riskengine/internal/infrastructure/csvio"
	"github.com/supplyshield/riskengine/pkg/auth"
)

const maxUploadBytes = 10 << 20

// UseCases bundles the application operations served over HTTP.
type UseCases struct {
	ScoreTransaction  *usecase.ScoreTransaction
	ScoreFinancing    *usecase.ScoreFinancingEvent
	ImportFinancing   *usecase.ImportFinancingEvents
	ListFinancing     *usecase.ListFinancingAssessments
	ListAlerts        *usecase.ListAlerts
	Summary           *usecase.TransactionSummary
	ExportTransaction *usecase.ExportTransactions
}

// APIHandler serves the /api/v1 routes.
type APIHandler struct {
	uc     UseCases
	login  *auth.OperatorLogin
	logger *slog.Logger
}

// NewAPIHandler creates a new APIHandler. login may be nil when authentication
// is disabled.
func NewAPIHandler(uc UseCases, login *auth.OperatorLogin, logger *slog.Logger) *APIHandler {
	return &APIHandler{uc: uc, login: login, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type scoreTransactionRequest struct {
	Supplier string     `json:"supplier"`
	Amount   flexAmount `json:"amount"`
}

type scoreFinancingRequest struct {
	InvoiceNo string     `json:"invoice_no"`
	Amount    flexAmount `json:"amount"`
	Supplier  string     `json:"supplier"`
	Buyer     string     `json:"buyer"`
	Lender    string     `json:"lender"`
}

// Login exchanges operator credentials for a bearer token.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	token, err := h.login.Login(req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.logger.WarnContext(r.Context(), "login rejected", "username", req.Username)
		err = &errs.NotAuthorizedError{Reason: "invalid credentials"}
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

// ScoreTransaction runs the history pipeline.
func (h *APIHandler) ScoreTransaction(w http.ResponseWriter, r *http.Request) {
	var req scoreTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.uc.ScoreTransaction.Execute(r.Context(), dto.ScoreTransactionRequest{
		Supplier: req.Supplier,
		Amount:   string(req.Amount),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ScoreFinancingEvent runs the relationship pipeline.
func (h *APIHandler) ScoreFinancingEvent(w http.ResponseWriter, r *http.Request) {
	var req scoreFinancingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.uc.ScoreFinancing.Execute(r.Context(), dto.ScoreFinancingRequest{
		InvoiceNo: req.InvoiceNo,
		Amount:    string(req.Amount),
		Supplier:  req.Supplier,
		Buyer:     req.Buyer,
		Lender:    req.Lender,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ImportFinancingEvents scores an uploaded CSV batch in file order.
func (h *APIHandler) ImportFinancingEvents(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, h.logger, errs.NewValidation("file", "multipart field is required"))
		return
	}
	defer file.Close()

	rows, err := csvio.ReadFinancingRows(file)
	if err != nil {
		writeError(w, r, h.logger, errs.NewValidation("file", err.Error()))
		return
	}

	result, err := h.uc.ImportFinancing.Execute(r.Context(), rows)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "import stopped early", "processed", result.Processed, "error", err)
		writeJSON(w, http.StatusInternalServerError, struct {
			ErrorResponse
			Result dto.ImportResult `json:"result"`
		}{ErrorResponse{Error: "internal error"}, result})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListFinancingAssessments returns recent assessments, newest first.
func (h *APIHandler) ListFinancingAssessments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, h.logger, errs.NewValidation("limit", "must be an integer"))
			return
		}
		limit = n
	}

	resp, err := h.uc.ListFinancing.Execute(r.Context(), limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListAlerts returns alerts, newest first.
func (h *APIHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.ListAlerts.Execute(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// TransactionSummary returns the chart aggregates.
func (h *APIHandler) TransactionSummary(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.Summary.Execute(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExportTransactions streams the transaction report as CSV.
func (h *APIHandler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.uc.ExportTransaction.Execute(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := csvio.WriteTransactionReport(w, rows); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write report", "error", err)
	}
}
