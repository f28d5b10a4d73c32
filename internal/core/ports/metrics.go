package ports

import "time"

// Metrics records pipeline counters.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// TaskFinished records one task run.
	TaskFinished(task string, ok bool, elapsed time.Duration)
	// ReloadSent records one browser notification of the given kind.
	ReloadSent(kind string)
	// SetClients records the number of connected browsers.
	SetClients(n int)
}
