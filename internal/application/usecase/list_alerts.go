package usecase

import (
	"context"
	"fmt"

	"github.com/supplyshield/riskengine/internal/application/dto"
	"github.com/supplyshield/riskengine/internal/domain/port"
)

// ListAlerts returns stored alerts, most recent first.
type ListAlerts struct {
	store port.AlertStore
}

// NewListAlerts creates a new ListAlerts use case.
func NewListAlerts(store port.AlertStore) *ListAlerts {
	return &ListAlerts{store: store}
}

// Execute lists the alerts.
func (uc *ListAlerts) Execute(ctx context.Context) ([]dto.AlertResponse, error) {
	alerts, err := uc.store.ListAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	out := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.FromAlert(a))
	}
	return out, nil
}
