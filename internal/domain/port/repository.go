package port

import (
	"context"

	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/pkg/events"
)

// TransactionStore is the persistence port of the history pipeline.
type TransactionStore interface {
	// LoadHistory returns the supplier's past records, oldest first.
	LoadHistory(ctx context.Context, supplier string) ([]model.HistoryEntry, error)

	// AppendTransaction persists a scored record, its alert when non-nil, and the
	// events describing them in a single storage transaction.
	AppendTransaction(ctx context.Context, record *model.TransactionRecord, alert *model.Alert, evts ...events.DomainEvent) error

	// ListTransactions returns every stored record, oldest first.
	ListTransactions(ctx context.Context) ([]*model.TransactionRecord, error)
}

// AlertStore is the persistence port for alerts.
type AlertStore interface {
	// AppendAlert persists a standalone alert.
	AppendAlert(ctx context.Context, alert *model.Alert) error

	// ListAlerts returns alerts ordered most recent first.
	ListAlerts(ctx context.Context) ([]*model.Alert, error)
}

// FinancingStore is the persistence port of the relationship pipeline.
type FinancingStore interface {
	// SaveFinancingAssessment appends a scored financing event and its events in a
	// single storage transaction.
	SaveFinancingAssessment(ctx context.Context, assessment *model.FinancingAssessment, evts ...events.DomainEvent) error

	// ListFinancingAssessments returns up to limit assessments, most recent first.
	ListFinancingAssessments(ctx context.Context, limit int) ([]*model.FinancingAssessment, error)

	// ReplayFinancingAssessments calls fn for every assessment, oldest first.
	ReplayFinancingAssessments(ctx context.Context, fn func(*model.FinancingAssessment) error) error
}

// Store bundles every persistence port; each driver implements all of them.
type Store interface {
	TransactionStore
	AlertStore
	FinancingStore
	events.OutboxRepository
	Ping(ctx context.Context) error
	Close() error
}

// GraphProjector mirrors supplier to buyer relationships into an external graph store.
type GraphProjector interface {
	ProjectEdge(ctx context.Context, supplier, buyer, lender string) error
}
