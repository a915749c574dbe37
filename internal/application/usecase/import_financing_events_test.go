package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplyshield/riskengine/internal/application/dto"
	"github.com/supplyshield/riskengine/internal/application/usecase"
	"github.com/supplyshield/riskengine/internal/domain/errs"
	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/internal/domain/service"
	"github.com/supplyshield/riskengine/pkg/events"
)

func TestImportFinancingEvents_MixedBatch(t *testing.T) {
	f := newFinancingFixture(service.FixedNoise(0))
	uc := usecase.NewImportFinancingEvents(f.uc, nil)

	rows := []dto.ImportRow{
		{Line: 2, Request: financingRequest("INV1", "150000", "S1", "B1")},
		{Line: 3, ParseError: "wrong number of fields"},
		{Line: 4, Request: financingRequest("INV2", "abc", "S1", "B2")},
		{Line: 5, Request: financingRequest("INV1", "150000", "S1", "B1")},
	}

	result, err := uc.Execute(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Processed)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 1, result.Fraud)
	require.Len(t, result.Rows, 4)

	assert.Equal(t, "SAFE", result.Rows[0].Assessment.Status)
	assert.Equal(t, "wrong number of fields", result.Rows[1].Error)
	assert.Contains(t, result.Rows[2].Error, "must be numeric")
	assert.Nil(t, result.Rows[2].Assessment)
	assert.True(t, result.Rows[3].Assessment.Duplicate)
	assert.Equal(t, 5, result.Rows[3].Line)
}

func TestImportFinancingEvents_StorageFailureAborts(t *testing.T) {
	f := newFinancingFixture(service.FixedNoise(0))
	saves := 0
	f.store.saveFunc = func(context.Context, *model.FinancingAssessment, ...events.DomainEvent) error {
		saves++
		if saves == 2 {
			return errs.NewStorage("save financing assessment", errors.New("disk full"))
		}
		return nil
	}
	uc := usecase.NewImportFinancingEvents(f.uc, nil)

	rows := []dto.ImportRow{
		{Line: 2, Request: financingRequest("INV1", "100", "S1", "B1")},
		{Line: 3, Request: financingRequest("INV2", "100", "S1", "B2")},
		{Line: 4, Request: financingRequest("INV3", "100", "S1", "B3")},
	}

	result, err := uc.Execute(context.Background(), rows)
	require.Error(t, err)
	assert.True(t, errs.IsStorage(err))
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
}

func TestImportFinancingEvents_CanceledContext(t *testing.T) {
	f := newFinancingFixture(service.FixedNoise(0))
	uc := usecase.NewImportFinancingEvents(f.uc, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := uc.Execute(ctx, []dto.ImportRow{{Line: 2, Request: financingRequest("INV1", "100", "S1", "B1")}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Processed)
}
