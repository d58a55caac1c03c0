package domain

import (
	"net/http"
	"strings"
	"time"
)

type TargetName string

// Target is a single monitored site. Path is appended to URL when probing
// and defaults to /health at config load time.
type Target struct {
	Name TargetName `json:"name" validate:"required"`
	URL  string     `json:"url" validate:"required,url"`
	Path string     `json:"path"`
}

// Endpoint is the full URL the prober requests.
func (t Target) Endpoint() string {
	return strings.TrimRight(t.URL, "/") + t.Path
}

// ProbeResult is the outcome of one probe request. StatusCode is 0 when the
// request never completed (DNS failure, refused connection, timeout); Err
// carries the transport error in that case.
type ProbeResult struct {
	StatusCode int
	LatencyMS  int64
	Err        error
}

type Outcome string

const (
	OutcomeUp   Outcome = "UP"
	OutcomeDown Outcome = "DOWN"
	OutcomeSlow Outcome = "SLOW"
)

// Classify maps a probe result to an outcome. DOWN is decided before SLOW,
// so a request that failed outright is never reported as slow.
func Classify(res ProbeResult, thresholdMS int64) Outcome {
	if res.StatusCode != http.StatusOK {
		return OutcomeDown
	}
	if res.LatencyMS > thresholdMS {
		return OutcomeSlow
	}
	return OutcomeUp
}

// Report ties a probe result to its target and classification. Reports live
// for a single pass and are never persisted.
type Report struct {
	Target    Target
	Result    ProbeResult
	Outcome   Outcome
	CheckedAt time.Time
}
