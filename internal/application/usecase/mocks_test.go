package usecase_test

import (
	"context"
	"sync"

	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/pkg/events"
)

// --- Mock implementations ---

type mockStore struct {
	mu          sync.Mutex
	records     []*model.TransactionRecord
	alerts      []*model.Alert
	assessments []*model.FinancingAssessment
	outbox      []events.DomainEvent

	loadHistoryFunc func(ctx context.Context, supplier string) ([]model.HistoryEntry, error)
	appendFunc      func(ctx context.Context, record *model.TransactionRecord, alert *model.Alert, evts ...events.DomainEvent) error
	saveFunc        func(ctx context.Context, a *model.FinancingAssessment, evts ...events.DomainEvent) error
	listFunc        func(ctx context.Context) ([]*model.TransactionRecord, error)
	replayFunc      func(ctx context.Context, fn func(*model.FinancingAssessment) error) error
}

func (m *mockStore) LoadHistory(ctx context.Context, supplier string) ([]model.HistoryEntry, error) {
	if m.loadHistoryFunc != nil {
		return m.loadHistoryFunc(ctx, supplier)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.HistoryEntry
	for _, r := range m.records {
		if r.Supplier() == supplier {
			out = append(out, r.HistoryEntry())
		}
	}
	return out, nil
}

func (m *mockStore) AppendTransaction(ctx context.Context, record *model.TransactionRecord, alert *model.Alert, evts ...events.DomainEvent) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, record, alert, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	if alert != nil {
		m.alerts = append(m.alerts, alert)
	}
	m.outbox = append(m.outbox, evts...)
	return nil
}

func (m *mockStore) ListTransactions(ctx context.Context) ([]*model.TransactionRecord, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.TransactionRecord(nil), m.records...), nil
}

func (m *mockStore) AppendAlert(_ context.Context, alert *model.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, alert)
	return nil
}

func (m *mockStore) ListAlerts(_ context.Context) ([]*model.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Alert, 0, len(m.alerts))
	for i := len(m.alerts) - 1; i >= 0; i-- {
		out = append(out, m.alerts[i])
	}
	return out, nil
}

func (m *mockStore) SaveFinancingAssessment(ctx context.Context, a *model.FinancingAssessment, evts ...events.DomainEvent) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, a, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assessments = append(m.assessments, a)
	m.outbox = append(m.outbox, evts...)
	return nil
}

func (m *mockStore) ListFinancingAssessments(_ context.Context, limit int) ([]*model.FinancingAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.FinancingAssessment, 0, limit)
	for i := len(m.assessments) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.assessments[i])
	}
	return out, nil
}

func (m *mockStore) ReplayFinancingAssessments(ctx context.Context, fn func(*model.FinancingAssessment) error) error {
	if m.replayFunc != nil {
		return m.replayFunc(ctx, fn)
	}
	m.mu.Lock()
	snapshot := append([]*model.FinancingAssessment(nil), m.assessments...)
	m.mu.Unlock()
	for _, a := range snapshot {
		if err := fn(a); err != nil {
			return err
		}
	}
	return nil
}

// eventTypes lists the outbox events written alongside stored data.
func (m *mockStore) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.outbox))
	for _, e := range m.outbox {
		out = append(out, e.EventType())
	}
	return out
}

type mockProjector struct {
	edges       [][2]string
	projectFunc func(ctx context.Context, supplier, buyer, lender string) error
}

func (m *mockProjector) ProjectEdge(ctx context.Context, supplier, buyer, lender string) error {
	if m.projectFunc != nil {
		return m.projectFunc(ctx, supplier, buyer, lender)
	}
	m.edges = append(m.edges, [2]string{supplier, buyer})
	return nil
}
