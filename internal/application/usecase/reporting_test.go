package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplyshield/riskengine/internal/application/dto"
	"github.com/supplyshield/riskengine/internal/application/usecase"
	"github.com/supplyshield/riskengine/internal/domain/errs"
	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/internal/domain/service"
)

func TestTransactionSummary(t *testing.T) {
	store := &mockStore{}
	seedRecord(t, store, "Acme", 12000, 90)
	seedRecord(t, store, "Globex", 300, 40)
	seedRecord(t, store, "Acme", 7000, 81)

	resp, err := usecase.NewTransactionSummary(store, service.DefaultAlertThreshold).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.HighRisk)
	assert.Equal(t, 70.33, resp.AvgRisk)
	assert.Equal(t, []string{"Acme", "Globex", "Acme"}, resp.Suppliers)
	assert.Equal(t, []int{90, 40, 81}, resp.Risks)
	assert.Equal(t, []float64{12000, 300, 7000}, resp.Amounts)
}

func TestTransactionSummary_Empty(t *testing.T) {
	resp, err := usecase.NewTransactionSummary(&mockStore{}, service.DefaultAlertThreshold).Execute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, resp.Total)
	assert.Zero(t, resp.AvgRisk)
	assert.NotNil(t, resp.Suppliers)
}

func TestTransactionSummary_StorageError(t *testing.T) {
	store := &mockStore{
		listFunc: func(context.Context) ([]*model.TransactionRecord, error) {
			return nil, errs.NewStorage("list transactions", errors.New("gone"))
		},
	}

	_, err := usecase.NewTransactionSummary(store, service.DefaultAlertThreshold).Execute(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsStorage(err))
}

func TestExportTransactions(t *testing.T) {
	store := &mockStore{}
	seedRecord(t, store, "Acme", 12000, 90)
	seedRecord(t, store, "Globex", 300, 40)

	rows, err := usecase.NewExportTransactions(store).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0].Supplier)
	assert.Equal(t, "12000", rows[0].Amount)
	assert.Equal(t, 90, rows[0].Risk)
	assert.Equal(t, "Globex", rows[1].Supplier)
}

func TestListAlerts_NewestFirst(t *testing.T) {
	store := &mockStore{}
	policy := service.NewAlertPolicy(service.DefaultAlertThreshold)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendAlert(context.Background(), policy.NewAlert("Acme", 85, base)))
	require.NoError(t, store.AppendAlert(context.Background(), policy.NewAlert("Globex", 92, base.Add(time.Hour))))

	alerts, err := usecase.NewListAlerts(store).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, dto.AlertResponse{
		Supplier: "Globex",
		Risk:     92,
		Message:  "⚠ High Risk Transaction Detected for Globex",
		Date:     base.Add(time.Hour),
	}, alerts[0])
	assert.Equal(t, "Acme", alerts[1].Supplier)
}

func TestListFinancingAssessments(t *testing.T) {
	f := newFinancingFixture(service.FixedNoise(0))
	for _, inv := range []string{"INV1", "INV2", "INV3"} {
		_, err := f.uc.Execute(context.Background(), financingRequest(inv, "100", "S1", "B1"))
		require.NoError(t, err)
	}
	uc := usecase.NewListFinancingAssessments(f.store)

	out, err := uc.Execute(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "INV3", out[0].InvoiceNo)
	assert.Equal(t, "INV2", out[1].InvoiceNo)

	out, err = uc.Execute(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, out, 3)

	_, err = uc.Execute(context.Background(), -1)
	assert.True(t, errs.IsValidation(err))
}

func TestRestoreRelationships(t *testing.T) {
	original := newFinancingFixture(service.FixedNoise(0))
	for _, req := range []dto.ScoreFinancingRequest{
		financingRequest("INV1", "150000", "S1", "B1"),
		financingRequest("INV2", "100", "S1", "B2"),
		financingRequest("INV3", "100", "S1", "B3"),
	} {
		_, err := original.uc.Execute(context.Background(), req)
		require.NoError(t, err)
	}

	// a fresh process sharing the same store
	restarted := newFinancingFixture(service.FixedNoise(0))
	restarted.store = original.store
	restarted.uc = usecase.NewScoreFinancingEvent(
		restarted.store,
		nil,
		restarted.scorer,
		service.NewRiskEngine(service.FixedNoise(0)),
		service.NewFraudPolicy(service.DefaultFraudThreshold),
		service.DefaultRelationshipNoiseMax,
	)

	replayed, err := usecase.NewRestoreRelationships(restarted.store, restarted.scorer, nil).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, replayed)
	assert.Equal(t, service.GraphStats{Fingerprints: 3, Parties: 4, Edges: 3}, restarted.scorer.Stats())

	// duplicate and fan-out both survive the restart
	resp, err := restarted.uc.Execute(context.Background(), financingRequest("INV1", "150000", "S1", "B4"))
	require.NoError(t, err)
	assert.True(t, resp.Duplicate)
	assert.Equal(t, 100, resp.RiskScore)
}

func TestRestoreRelationships_StorageError(t *testing.T) {
	store := &mockStore{
		replayFunc: func(context.Context, func(*model.FinancingAssessment) error) error {
			return errs.NewStorage("replay financing assessments", errors.New("gone"))
		},
	}

	_, err := usecase.NewRestoreRelationships(store, service.NewRelationshipScorer(), nil).Execute(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsStorage(err))
}
