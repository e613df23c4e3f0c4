package allocation

import "time"

// Run outcomes reported to a Recorder. Busy and lease_error runs never
// reached the store.
const (
	OutcomeSuccess = "success"
	OutcomeNoop    = "noop"
	OutcomeBusy    = "busy"
	OutcomeConfig  = "config_error"
	OutcomeFailed  = "failed"
	OutcomeLease   = "lease_error"
)

// Recorder receives one call per finished run.
type Recorder interface {
	RunFinished(strategy Strategy, outcome string, seats int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RunFinished(Strategy, string, int, time.Duration) {}
