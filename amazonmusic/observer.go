package amazonmusic

import "time"

// Fetch and resolve outcomes reported to an Observer
const (
	OutcomeOK          = "ok"
	OutcomeTimeout     = "timeout"
	OutcomeHTTPError   = "http_error"
	OutcomeNetwork     = "network_error"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
	OutcomeDegraded    = "degraded"
	OutcomePlaceholder = "placeholder"
)

// Observer receives pipeline events, typically to record metrics
type Observer interface {
	ObserveFetch(segment, outcome string, elapsed time.Duration)
	ObserveResolve(kind ResourceKind, outcome string)
	ObserveSearch(phase string, results int)
}

type nopObserver struct{}

func (nopObserver) ObserveFetch(string, string, time.Duration) {}
func (nopObserver) ObserveResolve(ResourceKind, string)        {}
func (nopObserver) ObserveSearch(string, int)                  {}
