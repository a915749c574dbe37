package service_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplyshield/riskengine/internal/domain/errs"
	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/internal/domain/service"
)

func financing(t *testing.T, invoice string, amount int64, supplier, buyer string) model.FinancingEvent {
	t.Helper()
	event, err := model.NewFinancingEvent(invoice, decimal.NewFromInt(amount), supplier, buyer, "L1")
	require.NoError(t, err)
	return event
}

func TestRelationshipScorer_FirstAndDuplicate(t *testing.T) {
	scorer := service.NewRelationshipScorer()
	event := financing(t, "INV1", 150000, "S1", "B1")

	first, err := scorer.Score(event)
	require.NoError(t, err)
	assert.Equal(t, 20, first.Output.Score)
	assert.False(t, first.Duplicate)
	assert.True(t, first.NewEdge)
	assert.Equal(t, 1, first.Degree)
	assert.Equal(t, "f28372a9c686efb5c77f787bcd0c2776a1b481b7ee79050ad46252cf27797775", first.Fingerprint.String())

	second, err := scorer.Score(event)
	require.NoError(t, err)
	assert.Equal(t, 90, second.Output.Score)
	assert.True(t, second.Duplicate)
	assert.False(t, second.NewEdge)
	assert.Contains(t, second.Output.Signals, "duplicate_invoice")
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
}

func TestRelationshipScorer_DistinctInvoicesNotDuplicates(t *testing.T) {
	scorer := service.NewRelationshipScorer()

	a, err := scorer.Score(financing(t, "INV-A", 500, "S1", "B1"))
	require.NoError(t, err)
	b, err := scorer.Score(financing(t, "INV-B", 500, "S1", "B1"))
	require.NoError(t, err)

	assert.NotEqual(t, a.Fingerprint, b.Fingerprint)
	assert.False(t, a.Duplicate)
	assert.False(t, b.Duplicate)
	assert.Equal(t, 0, b.Output.Score)
}

func TestRelationshipScorer_FanOut(t *testing.T) {
	scorer := service.NewRelationshipScorer()

	for i := 1; i <= 3; i++ {
		obs, err := scorer.Score(financing(t, fmt.Sprintf("INV%d", i), 1000, "S1", fmt.Sprintf("B%d", i)))
		require.NoError(t, err)
		assert.Equal(t, 0, obs.Output.Score, "edge %d", i)
		assert.Equal(t, i, obs.Degree)
	}

	fourth, err := scorer.Score(financing(t, "INV4", 1000, "S1", "B4"))
	require.NoError(t, err)
	assert.Equal(t, 4, fourth.Degree)
	assert.Equal(t, 20, fourth.Output.Score)
	assert.Contains(t, fourth.Output.Signals, "network_fan_out")

	// repeating an existing edge keeps the degree and the bonus
	again, err := scorer.Score(financing(t, "INV5", 1000, "S1", "B1"))
	require.NoError(t, err)
	assert.Equal(t, 4, again.Degree)
	assert.Equal(t, 20, again.Output.Score)
}

func TestRelationshipScorer_InDegreeCounts(t *testing.T) {
	scorer := service.NewRelationshipScorer()

	// S1 is a buyer for three other suppliers
	for i := 1; i <= 3; i++ {
		_, err := scorer.Score(financing(t, fmt.Sprintf("INV%d", i), 1000, fmt.Sprintf("S%d", i+1), "S1"))
		require.NoError(t, err)
	}

	obs, err := scorer.Score(financing(t, "INV9", 1000, "S1", "B1"))
	require.NoError(t, err)
	assert.Equal(t, 4, obs.Degree)
	assert.Equal(t, 20, obs.Output.Score)
}

func TestRelationshipScorer_CommitFailureLeavesStateUntouched(t *testing.T) {
	scorer := service.NewRelationshipScorer()
	event := financing(t, "INV1", 150000, "S1", "B1")
	boom := errors.New("db down")

	_, err := scorer.Apply(event, func(service.Observation) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, service.GraphStats{}, scorer.Stats())

	obs, err := scorer.Apply(event, func(service.Observation) error { return nil })
	require.NoError(t, err)
	assert.False(t, obs.Duplicate)
	assert.Equal(t, service.GraphStats{Fingerprints: 1, Parties: 2, Edges: 1}, scorer.Stats())
}

func TestRelationshipScorer_RejectsZeroEvent(t *testing.T) {
	scorer := service.NewRelationshipScorer()

	_, err := scorer.Score(model.FinancingEvent{})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Equal(t, service.GraphStats{}, scorer.Stats())
}

func TestRelationshipScorer_Restore(t *testing.T) {
	scorer := service.NewRelationshipScorer()
	event := financing(t, "INV1", 150000, "S1", "B1")

	scorer.Restore(event.Fingerprint(), event.Supplier(), event.Buyer())

	obs, err := scorer.Score(event)
	require.NoError(t, err)
	assert.True(t, obs.Duplicate)
	assert.Equal(t, 90, obs.Output.Score)
}

func TestRelationshipScorer_ConcurrentDuplicates(t *testing.T) {
	scorer := service.NewRelationshipScorer()
	event := financing(t, "INV1", 1000, "S1", "B1")

	const workers = 16
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		duplicates int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obs, err := scorer.Score(event)
			if err != nil {
				return
			}
			if obs.Duplicate {
				mu.Lock()
				duplicates++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// exactly one submission sees the fingerprint as new
	assert.Equal(t, workers-1, duplicates)
	assert.Equal(t, 1, scorer.Stats().Fingerprints)
}

func TestRelationshipGraph_SelfLoop(t *testing.T) {
	g := service.NewRelationshipGraph()

	assert.Equal(t, 2, g.DegreeWith("A", "A", "A"))
	assert.True(t, g.AddEdge("A", "A"))
	assert.False(t, g.AddEdge("A", "A"))
	assert.Equal(t, 2, g.Degree("A"))
	assert.Equal(t, 1, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
}
