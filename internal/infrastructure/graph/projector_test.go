package graph_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplyshield/riskengine/internal/domain/port"
	"github.com/supplyshield/riskengine/internal/infrastructure/graph"
)

var _ port.GraphProjector = (*graph.Projector)(nil)

func TestProjector_ProjectEdge(t *testing.T) {
	mem := graph.NewMemoryClient()
	projector := graph.NewProjector(mem)

	require.NoError(t, projector.ProjectEdge(context.Background(), "S1", "B1", "L1"))

	calls := mem.WriteCalls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Query, "MERGE (s)-[f:FINANCED]->(b)")
	assert.Equal(t, map[string]any{"supplier": "S1", "buyer": "B1", "lender": "L1"}, calls[0].Params)
}

func TestProjector_ProjectEdgeError(t *testing.T) {
	mem := graph.NewMemoryClient().WithError(errors.New("bolt closed"))
	projector := graph.NewProjector(mem)

	err := projector.ProjectEdge(context.Background(), "S1", "B1", "L1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S1->B1")
	assert.Contains(t, err.Error(), "bolt closed")
}

func TestProjector_EnsureSchema(t *testing.T) {
	mem := graph.NewMemoryClient()
	require.NoError(t, graph.NewProjector(mem).EnsureSchema(context.Background()))

	calls := mem.WriteCalls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Query, "CREATE CONSTRAINT party_name")
}

func TestNewNeo4jClient_RequiresURI(t *testing.T) {
	_, err := graph.NewNeo4jClient(context.Background(), graph.Options{})
	assert.ErrorIs(t, err, graph.ErrMissingURI)
}
