package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/supplyshield/riskengine/internal/application/dto"
	"github.com/supplyshield/riskengine/internal/application/usecase"
	"github.com/supplyshield/riskengine/internal/domain/errs"
)

// Compile-time assertion that RiskServiceHandler implements RiskServiceServer.
var _ RiskServiceServer = (*RiskServiceHandler)(nil)

// RiskServiceHandler implements the gRPC RiskServiceServer interface.
type RiskServiceHandler struct {
	UnimplementedRiskServiceServer
	scoreTransaction *usecase.ScoreTransaction
	scoreFinancing   *usecase.ScoreFinancingEvent
	listAlerts       *usecase.ListAlerts
	logger           *slog.Logger
}

// NewRiskServiceHandler creates a new gRPC handler.
func NewRiskServiceHandler(
	scoreTransaction *usecase.ScoreTransaction,
	scoreFinancing *usecase.ScoreFinancingEvent,
	listAlerts *usecase.ListAlerts,
	logger *slog.Logger,
) *RiskServiceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RiskServiceHandler{
		scoreTransaction: scoreTransaction,
		scoreFinancing:   scoreFinancing,
		listAlerts:       listAlerts,
		logger:           logger,
	}
}

// Proto-aligned request/response message types.

// ScoreTransactionRequest represents the proto ScoreTransactionRequest message.
type ScoreTransactionRequest struct {
	Supplier string `json:"supplier"`
	Amount   string `json:"amount"`
}

// ScoreTransactionResponse represents the proto ScoreTransactionResponse message.
type ScoreTransactionResponse struct {
	ID       string   `json:"id"`
	Supplier string   `json:"supplier"`
	Signals  []string `json:"signals"`
	Risk     int32    `json:"risk"`
	Alert    bool     `json:"alert"`
}

// ScoreFinancingEventRequest represents the proto ScoreFinancingEventRequest message.
type ScoreFinancingEventRequest struct {
	InvoiceNo string `json:"invoice_no"`
	Amount    string `json:"amount"`
	Supplier  string `json:"supplier"`
	Buyer     string `json:"buyer"`
	Lender    string `json:"lender"`
}

// ScoreFinancingEventResponse represents the proto ScoreFinancingEventResponse message.
type ScoreFinancingEventResponse struct {
	ID          string   `json:"id"`
	Fingerprint string   `json:"fingerprint"`
	Status      string   `json:"status"`
	Signals     []string `json:"signals"`
	RiskScore   int32    `json:"risk_score"`
	Duplicate   bool     `json:"duplicate"`
}

// ListAlertsRequest represents the proto ListAlertsRequest message.
type ListAlertsRequest struct{}

// AlertMsg represents the proto Alert message.
type AlertMsg struct {
	Supplier string `json:"supplier"`
	Message  string `json:"message"`
	Date     string `json:"date"`
	Risk     int32  `json:"risk"`
}

// ListAlertsResponse represents the proto ListAlertsResponse message.
type ListAlertsResponse struct {
	Alerts []*AlertMsg `json:"alerts"`
}

// ScoreTransaction runs the history pipeline.
func (h *RiskServiceHandler) ScoreTransaction(ctx context.Context, req *ScoreTransactionRequest) (*ScoreTransactionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.scoreTransaction.Execute(ctx, dto.ScoreTransactionRequest{
		Supplier: req.Supplier,
		Amount:   req.Amount,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "score transaction", err)
	}

	return &ScoreTransactionResponse{
		ID:       result.ID.String(),
		Supplier: result.Supplier,
		Risk:     int32(result.Risk),
		Alert:    result.Alert,
		Signals:  result.Signals,
	}, nil
}

// ScoreFinancingEvent runs the relationship pipeline.
func (h *RiskServiceHandler) ScoreFinancingEvent(ctx context.Context, req *ScoreFinancingEventRequest) (*ScoreFinancingEventResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.scoreFinancing.Execute(ctx, dto.ScoreFinancingRequest{
		InvoiceNo: req.InvoiceNo,
		Amount:    req.Amount,
		Supplier:  req.Supplier,
		Buyer:     req.Buyer,
		Lender:    req.Lender,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "score financing event", err)
	}

	return &ScoreFinancingEventResponse{
		ID:          result.ID.String(),
		Fingerprint: result.Fingerprint,
		Status:      result.Status,
		RiskScore:   int32(result.RiskScore),
		Duplicate:   result.Duplicate,
		Signals:     result.Signals,
	}, nil
}

// ListAlerts returns stored alerts, most recent first.
func (h *RiskServiceHandler) ListAlerts(ctx context.Context, _ *ListAlertsRequest) (*ListAlertsResponse, error) {
	alerts, err := h.listAlerts.Execute(ctx)
	if err != nil {
		return nil, h.toStatus(ctx, "list alerts", err)
	}

	resp := &ListAlertsResponse{Alerts: make([]*AlertMsg, 0, len(alerts))}
	for _, a := range alerts {
		resp.Alerts = append(resp.Alerts, &AlertMsg{
			Supplier: a.Supplier,
			Risk:     int32(a.Risk),
			Message:  a.Message,
			Date:     a.Date.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

// toStatus maps validation errors to InvalidArgument and authorization failures
// to Unauthenticated, and hides everything else behind a generic Internal.
func (h *RiskServiceHandler) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errs.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errs.IsNotAuthorized(err):
		return status.Error(codes.Unauthenticated, err.Error())
	}
	h.logger.ErrorContext(ctx, "failed to "+op, slog.String("error", err.Error()))
	return status.Error(codes.Internal, "internal error")
}
