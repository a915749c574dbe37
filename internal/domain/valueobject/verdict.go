package valueobject

import "fmt"

// Verdict is an immutable value object holding the classification of a final score.
// The history pipeline yields ALERT or CLEAR, the relationship pipeline FRAUD or SAFE.
type Verdict struct {
	value string
}

var (
	VerdictAlert = Verdict{value: "ALERT"}
	VerdictClear = Verdict{value: "CLEAR"}
	VerdictFraud = Verdict{value: "FRAUD"}
	VerdictSafe  = Verdict{value: "SAFE"}
)

// VerdictFromString reconstructs a Verdict from its string representation.
func VerdictFromString(s string) (Verdict, error) {
	switch s {
	case "ALERT":
		return VerdictAlert, nil
	case "CLEAR":
		return VerdictClear, nil
	case "FRAUD":
		return VerdictFraud, nil
	case "SAFE":
		return VerdictSafe, nil
	default:
		return Verdict{}, fmt.Errorf("invalid verdict: %s", s)
	}
}

// String returns the string representation.
func (v Verdict) String() string {
	return v.value
}

// IsZero returns true if the Verdict has not been set.
func (v Verdict) IsZero() bool {
	return v.value == ""
}

// Equal checks equality with another Verdict.
func (v Verdict) Equal(other Verdict) bool {
	return v.value == other.value
}

// IsAdverse reports whether the verdict calls for attention (ALERT or FRAUD).
func (v Verdict) IsAdverse() bool {
	return v.value == "ALERT" || v.value == "FRAUD"
}
