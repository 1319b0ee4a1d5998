// Package otp provides CRUD functionality for the on-time performance fact
// table and the summary tables derived from it.
package otp

// Thresholds defines the inclusive delay window, in seconds, considered on time.
// Delays below EarlySeconds count as early, delays above LateSeconds count as late.
type Thresholds struct {
	EarlySeconds int
	LateSeconds  int
}

// Classify reports whether delaySeconds falls inside the on-time window.
// Returns nil when the delay is unknown, classification is undefined in that case
// and must not be treated as either on time or late.
func (t Thresholds) Classify(delaySeconds *int) *bool {
	if delaySeconds == nil {
		return nil
	}
	result := *delaySeconds >= t.EarlySeconds && *delaySeconds <= t.LateSeconds
	return &result
}
