package valueobject

import "fmt"

// PipelineKind names one of the two scoring pipelines.
type PipelineKind struct {
	value string
}

var (
	// PipelineHistory scores supplier payments against the supplier's own history.
	PipelineHistory = PipelineKind{value: "history"}
	// PipelineRelationship scores financing events against fingerprints and the party graph.
	PipelineRelationship = PipelineKind{value: "relationship"}
)

// PipelineKindFromString reconstructs a PipelineKind from its string representation.
func PipelineKindFromString(s string) (PipelineKind, error) {
	switch s {
	case "history":
		return PipelineHistory, nil
	case "relationship":
		return PipelineRelationship, nil
	default:
		return PipelineKind{}, fmt.Errorf("invalid pipeline: %s", s)
	}
}

// String returns the string representation.
func (p PipelineKind) String() string {
	return p.value
}

// Equal checks equality with another PipelineKind.
func (p PipelineKind) Equal(other PipelineKind) bool {
	return p.value == other.value
}
