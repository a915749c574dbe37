package service

import "github.com/supplyshield/riskengine/internal/domain/valueobject"

const (
	minScore = 0
	maxScore = 100
)

// Evaluation is the outcome of running a raw score through a pipeline.
type Evaluation struct {
	Verdict  valueobject.Verdict
	Pipeline valueobject.PipelineKind
	Raw      int
	Noise    int
	Final    int
}

// RiskEngine turns raw scores into final, classified scores. Identical raw scores
// may yield different finals because of the noise term; Final always lies in
// [Raw, Raw+NoiseMax] intersected with [0, 100].
type RiskEngine struct {
	noise NoiseSource
}

// NewRiskEngine creates a RiskEngine drawing noise from the given source.
func NewRiskEngine(noise NoiseSource) *RiskEngine {
	if noise == nil {
		noise = UniformNoise{}
	}
	return &RiskEngine{noise: noise}
}

// Evaluate adds noise to raw, clamps the sum and classifies it with the pipeline policy.
func (e *RiskEngine) Evaluate(raw int, pipeline Pipeline) Evaluation {
	noise := e.noise.Draw(pipeline.NoiseMax)
	final := Clamp(raw + noise)
	return Evaluation{
		Pipeline: pipeline.Kind,
		Raw:      raw,
		Noise:    noise,
		Final:    final,
		Verdict:  pipeline.Policy.Classify(final),
	}
}

// Clamp bounds a score to [0, 100].
func Clamp(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
