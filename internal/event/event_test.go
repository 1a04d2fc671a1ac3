package event

import (
	"strings"
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	body := `{
		"detail-type": "CodePipeline Stage Execution State Change",
		"region": "eu-west-1",
		"time": "2024-03-01T12:30:45Z",
		"account": "123456789012",
		"detail": {
			"pipeline": "deploy-prod",
			"stage": "Release",
			"state": "SUCCEEDED",
			"execution-id": "abc-123"
		}
	}`

	ev, err := Decode(strings.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	if ev.DetailType != "CodePipeline Stage Execution State Change" {
		t.Errorf("unexpected detail type %q", ev.DetailType)
	}
	if ev.Region != "eu-west-1" {
		t.Errorf("unexpected region %q", ev.Region)
	}
	if ev.Detail.Pipeline != "deploy-prod" || ev.Detail.Stage != "Release" || ev.Detail.State != "SUCCEEDED" {
		t.Errorf("unexpected detail %+v", ev.Detail)
	}
	if ev.Detail.Action != "" {
		t.Errorf("expected empty action, got %q", ev.Detail.Action)
	}
	if !ev.Time.Equal(time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)) {
		t.Errorf("unexpected time %v", ev.Time)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected error for malformed input")
	}
}

func TestEpochSecondsTruncatesToMilliseconds(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want float64
	}{
		{"fractional second", time.Date(1970, 1, 1, 0, 0, 1, 500_000_000, time.UTC), 1.5},
		{"sub-millisecond digits truncated", time.Date(1970, 1, 1, 0, 0, 1, 999_900_000, time.UTC), 1.999},
		{"whole seconds", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 1709251200},
		{"zero time", time.Time{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := PipelineEvent{Time: tt.time}
			if got := ev.EpochSeconds(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
