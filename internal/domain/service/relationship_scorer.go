package service

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/supplyshield/riskengine/internal/domain/errs"
	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/internal/domain/valueobject"
)

var largeFinancingThreshold = decimal.NewFromInt(100000)

const (
	duplicatePoints      = 70
	largeFinancingPoints = 20
	fanOutPoints         = 20
	fanOutDegree         = 3
)

// Observation is what RelationshipScorer saw for one financing event.
type Observation struct {
	Fingerprint valueobject.Fingerprint
	Output      RiskOutput
	Degree      int
	Duplicate   bool
	NewEdge     bool
}

// GraphStats summarizes the scorer's in-memory state.
type GraphStats struct {
	Fingerprints int
	Parties      int
	Edges        int
}

// RelationshipScorer scores financing events using invoice fingerprint
// duplication and a supplier→buyer graph. It owns both structures for its
// lifetime and serializes every check-then-insert under one lock.
type RelationshipScorer struct {
	mu           sync.Mutex
	fingerprints *FingerprintSet
	graph        *RelationshipGraph
}

// NewRelationshipScorer creates a scorer with empty state.
func NewRelationshipScorer() *RelationshipScorer {
	return &RelationshipScorer{
		fingerprints: NewFingerprintSet(),
		graph:        NewRelationshipGraph(),
	}
}

// Score observes event and commits its fingerprint and edge unconditionally.
func (s *RelationshipScorer) Score(event model.FinancingEvent) (Observation, error) {
	return s.Apply(event, nil)
}

// Apply observes event and calls commit with the observation while still holding
// the lock. The fingerprint and edge are recorded only when commit returns nil,
// so a failed downstream write leaves the in-memory state untouched. A nil
// commit always succeeds.
func (s *RelationshipScorer) Apply(event model.FinancingEvent, commit func(Observation) error) (Observation, error) {
	if err := validateFinancingEvent(event); err != nil {
		return Observation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	obs := s.observe(event)
	if commit != nil {
		if err := commit(obs); err != nil {
			return Observation{}, err
		}
	}

	s.fingerprints.Add(obs.Fingerprint)
	s.graph.AddEdge(event.Supplier(), event.Buyer())
	return obs, nil
}

// Restore records a previously assessed event without scoring it. Used to
// rebuild state from durable storage on start.
func (s *RelationshipScorer) Restore(fp valueobject.Fingerprint, supplier, buyer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fingerprints.Add(fp)
	s.graph.AddEdge(supplier, buyer)
}

// Stats returns counts of the scorer's state.
func (s *RelationshipScorer) Stats() GraphStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return GraphStats{
		Fingerprints: s.fingerprints.Len(),
		Parties:      s.graph.NodeCount(),
		Edges:        s.graph.EdgeCount(),
	}
}

func (s *RelationshipScorer) observe(event model.FinancingEvent) Observation {
	obs := Observation{
		Fingerprint: event.Fingerprint(),
		Output:      RiskOutput{Signals: make([]string, 0)},
	}

	// Rule: fingerprint already seen.
	if s.fingerprints.Contains(obs.Fingerprint) {
		obs.Duplicate = true
		obs.Output.add(duplicatePoints, "duplicate_invoice")
	}

	// Rule: large financing amount.
	if event.Amount().GreaterThan(largeFinancingThreshold) {
		obs.Output.add(largeFinancingPoints, "large_financing")
	}

	// Rule: supplier degree after recording this edge.
	supplier, buyer := event.Supplier(), event.Buyer()
	obs.NewEdge = !s.graph.HasEdge(supplier, buyer)
	obs.Degree = s.graph.DegreeWith(supplier, supplier, buyer)
	if obs.Degree > fanOutDegree {
		obs.Output.add(fanOutPoints, "network_fan_out")
	}

	return obs
}

func validateFinancingEvent(event model.FinancingEvent) error {
	switch {
	case event.InvoiceNumber() == "":
		return errs.NewValidation("invoice_no", "is required")
	case !event.Amount().IsPositive():
		return errs.NewValidation("amount", "must be positive")
	case event.Supplier() == "":
		return errs.NewValidation("supplier", "is required")
	case event.Buyer() == "":
		return errs.NewValidation("buyer", "is required")
	}
	return nil
}
