package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/supplyshield/riskengine/internal/application/dto"
	"github.com/supplyshield/riskengine/internal/domain/errs"
	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/internal/domain/port"
	"github.com/supplyshield/riskengine/internal/domain/service"
)

const (
	defaultListLimit = 50
	maxListLimit     = 1000
)

// ListFinancingAssessments returns the most recent financing assessments.
type ListFinancingAssessments struct {
	store port.FinancingStore
}

// NewListFinancingAssessments creates a new ListFinancingAssessments use case.
func NewListFinancingAssessments(store port.FinancingStore) *ListFinancingAssessments {
	return &ListFinancingAssessments{store: store}
}

// Execute lists up to limit assessments, newest first. Zero selects the default
// page size.
func (uc *ListFinancingAssessments) Execute(ctx context.Context, limit int) ([]dto.FinancingAssessmentResponse, error) {
	switch {
	case limit < 0:
		return nil, errs.NewValidation("limit", "must not be negative")
	case limit == 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	assessments, err := uc.store.ListFinancingAssessments(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list financing assessments: %w", err)
	}

	out := make([]dto.FinancingAssessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		out = append(out, dto.FromFinancingAssessment(a))
	}
	return out, nil
}

// RestoreRelationships rebuilds the relationship scorer's fingerprints and
// edges from stored assessments.
type RestoreRelationships struct {
	store  port.FinancingStore
	scorer *service.RelationshipScorer
	logger *slog.Logger
}

// NewRestoreRelationships creates a new RestoreRelationships use case.
func NewRestoreRelationships(store port.FinancingStore, scorer *service.RelationshipScorer, logger *slog.Logger) *RestoreRelationships {
	if logger == nil {
		logger = slog.Default()
	}
	return &RestoreRelationships{store: store, scorer: scorer, logger: logger}
}

// Execute replays every stored assessment oldest first and returns how many
// were applied.
func (uc *RestoreRelationships) Execute(ctx context.Context) (int, error) {
	replayed := 0
	err := uc.store.ReplayFinancingAssessments(ctx, func(a *model.FinancingAssessment) error {
		event := a.Event()
		uc.scorer.Restore(a.Fingerprint(), event.Supplier(), event.Buyer())
		replayed++
		return nil
	})
	if err != nil {
		return replayed, fmt.Errorf("failed to replay financing assessments: %w", err)
	}

	stats := uc.scorer.Stats()
	uc.logger.InfoContext(ctx, "relationship state restored",
		"assessments", replayed,
		"fingerprints", stats.Fingerprints,
		"parties", stats.Parties,
		"edges", stats.Edges,
	)
	return replayed, nil
}
