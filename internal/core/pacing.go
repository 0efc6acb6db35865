package core

import "time"

// DefaultPace is the fixed inter-item delay between generator calls,
// cooperative pacing against the external API's rate limits.
const DefaultPace = 600 * time.Millisecond

// Pacer decides how long the pipeline waits after finishing one record
// before advancing to the next.
type Pacer interface {
	// Pace receives the number of consecutive generator failures so far
	// (0 after any success) and returns the wait before the next call.
	Pace(consecutiveFailures int) time.Duration
}

// ConstantPacer waits the same delay after every record.
type ConstantPacer struct {
	Delay time.Duration
}

func (p ConstantPacer) Pace(int) time.Duration {
	return p.Delay
}

// BackoffPacer doubles the delay for each consecutive failure, up to Max.
// A success resets it to Base.
type BackoffPacer struct {
	Base time.Duration
	Max  time.Duration
}

func (p BackoffPacer) Pace(consecutiveFailures int) time.Duration {
	d := p.Base
	for i := 0; i < consecutiveFailures; i++ {
		d *= 2
		if d >= p.Max {
			return p.Max
		}
	}
	return d
}
