// Package event defines the inbound pipeline-state-change record.
package event

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// PipelineEvent is a single pipeline-state-change record as delivered by the
// upstream event bus. It is read-only input; nothing in this service mutates it.
type PipelineEvent struct {
	DetailType string    `json:"detail-type"`
	Region     string    `json:"region"`
	Time       time.Time `json:"time"`
	Detail     Detail    `json:"detail"`
}

// Detail carries the pipeline-specific portion of the event. Stage and Action
// are only present on stage- and action-level state changes.
type Detail struct {
	Pipeline string `json:"pipeline"`
	Stage    string `json:"stage,omitempty"`
	Action   string `json:"action,omitempty"`
	State    string `json:"state,omitempty"`
}

// EpochSeconds converts the event time to seconds since the Unix epoch with
// millisecond precision. Sub-millisecond digits are truncated, not rounded.
// A zero time yields 0.
func (e *PipelineEvent) EpochSeconds() float64 {
	if e.Time.IsZero() {
		return 0
	}
	return float64(e.Time.UnixMilli()) / 1000
}

// Decode reads a single PipelineEvent from r. Unknown fields are allowed;
// upstream records carry account, id and resource fields this service ignores.
func Decode(r io.Reader) (*PipelineEvent, error) {
	var ev PipelineEvent
	if err := json.NewDecoder(r).Decode(&ev); err != nil {
		return nil, fmt.Errorf("decode pipeline event: %w", err)
	}
	return &ev, nil
}
