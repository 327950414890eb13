package anomaly

import "fmt"

// ConfigurationError reports invalid detection parameters: an empty or
// inverted cluster-count range, non-positive density parameters, a component
// count exceeding the feature count, or a percentile outside (0, 100). It is
// raised before any computation starts.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// DegenerateInputError reports input that carries no usable signal: fewer
// rows than the smallest candidate cluster count, or a matrix whose every
// column has zero variance.
type DegenerateInputError struct {
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate input: %s", e.Reason)
}
