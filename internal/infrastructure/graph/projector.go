package graph

import (
	"context"
	"fmt"
	"strings"
)

const (
	projectEdgeCypher = `
MERGE (s:Party {name: $supplier})
MERGE (b:Party {name: $buyer})
MERGE (s)-[f:FINANCED]->(b)
ON CREATE SET f.lenders = [$lender], f.count = 1
ON MATCH SET f.count = f.count + 1,
  f.lenders = CASE WHEN $lender IN f.lenders THEN f.lenders ELSE f.lenders + $lender END`

	constraintCypher = `CREATE CONSTRAINT party_name IF NOT EXISTS FOR (p:Party) REQUIRE p.name IS UNIQUE`
)

// Projector mirrors supplier to buyer financing edges into the graph database.
type Projector struct {
	client Client
}

// NewProjector creates a Projector backed by client.
func NewProjector(client Client) *Projector {
	return &Projector{client: client}
}

// EnsureSchema creates the party name uniqueness constraint.
func (p *Projector) EnsureSchema(ctx context.Context) error {
	if _, err := p.client.ExecuteWrite(ctx, constraintCypher, nil); err != nil {
		return fmt.Errorf("create party constraint: %w", err)
	}
	return nil
}

// ProjectEdge merges both parties and the FINANCED relationship between them.
// Replaying the same edge only bumps its count.
func (p *Projector) ProjectEdge(ctx context.Context, supplier, buyer, lender string) error {
	params := map[string]any{
		"supplier": supplier,
		"buyer":    buyer,
		"lender":   lender,
	}
	if _, err := p.client.ExecuteWrite(ctx, strings.TrimSpace(projectEdgeCypher), params); err != nil {
		return fmt.Errorf("project financing edge %s->%s: %w", supplier, buyer, err)
	}
	return nil
}

// Close releases the underlying client.
func (p *Projector) Close(ctx context.Context) error {
	return p.client.Close(ctx)
}
