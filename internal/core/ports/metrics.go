package ports

import "time"

//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks

// Metrics records operational measurements.
type Metrics interface {
	// ObserveQuery records one tool invocation and its outcome ("ok" or an error kind).
	ObserveQuery(tool, outcome string, elapsed time.Duration)
	// ObserveLoad records one model load and its outcome.
	ObserveLoad(outcome string, elapsed time.Duration)
	// SetCachedModels records the number of models currently cached.
	SetCachedModels(n int)
}
