package service

// RiskOutput is the raw, pre-noise result of a scorer: an additive score and the
// names of the rules that contributed to it.
type RiskOutput struct {
	Score   int
	Signals []string
}

func (o *RiskOutput) add(points int, signal string) {
	o.Score += points
	o.Signals = append(o.Signals, signal)
}
