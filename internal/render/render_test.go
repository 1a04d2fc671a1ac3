package render

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"pipenotify/internal/event"
)

func pipelineEvent(detail event.Detail) *event.PipelineEvent {
	return &event.PipelineEvent{
		DetailType: "CodePipeline Action Execution State Change",
		Region:     "us-east-1",
		Time:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Detail:     detail,
	}
}

func TestSeverityTableIsTotal(t *testing.T) {
	tests := []struct {
		state string
		color string
		icon  string
	}{
		{"STARTED", "#3aa3e3", ":arrows_counterclockwise:"},
		{"RESUMED", "#3aa3e3", ":arrows_counterclockwise:"},
		{"FAILED", "#d50200", ":x:"},
		{"SUPERSEDED", "#a0a0a0", ":warning:"},
		{"CANCELED", "#a0a0a0", ":warning:"},
		{"SUCCEEDED", "#2eb886", ":heavy_check_mark:"},
		{"succeeded", "#2eb886", ":heavy_check_mark:"},
		{"Failed", "#d50200", ":x:"},
		{"SOMETHING_ELSE", "#a0a0a0", ":warning:"},
		{"", "#a0a0a0", ":warning:"},
	}

	for _, tt := range tests {
		sev := severityFor(tt.state)
		if sev.color != tt.color {
			t.Errorf("state %q: expected color %q, got %q", tt.state, tt.color, sev.color)
		}
		if sev.icon != tt.icon {
			t.Errorf("state %q: expected icon %q, got %q", tt.state, tt.icon, sev.icon)
		}
	}
}

func TestActionLevelMessage(t *testing.T) {
	ev := pipelineEvent(event.Detail{
		Pipeline: "deploy-prod",
		Stage:    "Release",
		Action:   "Build",
		State:    "FAILED",
	})

	msg := Message(ev, "#builds")

	if msg.Channel != "#builds" {
		t.Errorf("expected channel #builds, got %q", msg.Channel)
	}
	if len(msg.Attachments) != 1 {
		t.Fatalf("expected exactly one attachment, got %d", len(msg.Attachments))
	}

	att := msg.Attachments[0]
	if att.Title != "deploy-prod | Release" {
		t.Errorf("expected title %q, got %q", "deploy-prod | Release", att.Title)
	}
	if att.Text != ":x: Build *FAILED*" {
		t.Errorf("unexpected body text %q", att.Text)
	}
	if att.Color != "#d50200" {
		t.Errorf("expected failed color, got %q", att.Color)
	}
	for _, want := range []string{"deploy-prod", "Release", "Build", "FAILED", "us-east-1"} {
		if !strings.Contains(att.Fallback, want) {
			t.Errorf("fallback %q missing %q", att.Fallback, want)
		}
	}
}

func TestStageLevelMessageOmitsAction(t *testing.T) {
	ev := pipelineEvent(event.Detail{
		Pipeline: "deploy-prod",
		Stage:    "Release",
		State:    "SUCCEEDED",
	})

	att := Message(ev, "#builds").Attachments[0]

	if att.Title != "deploy-prod | Release" {
		t.Errorf("expected title %q, got %q", "deploy-prod | Release", att.Title)
	}
	if att.Text != ":heavy_check_mark: *SUCCEEDED*" {
		t.Errorf("unexpected body text %q", att.Text)
	}
}

func TestPipelineLevelMessageTitleIsPipelineName(t *testing.T) {
	ev := pipelineEvent(event.Detail{
		Pipeline: "deploy-prod",
		State:    "STARTED",
	})

	att := Message(ev, "#builds").Attachments[0]

	if att.Title != "deploy-prod" {
		t.Errorf("expected title %q, got %q", "deploy-prod", att.Title)
	}
	if att.Text != ":arrows_counterclockwise: *STARTED*" {
		t.Errorf("unexpected body text %q", att.Text)
	}
}

func TestActionWinsOverStage(t *testing.T) {
	ev := pipelineEvent(event.Detail{
		Pipeline: "p",
		Stage:    "s",
		Action:   "a",
		State:    "STARTED",
	})

	if _, ok := variantFor(ev).(actionVariant); !ok {
		t.Fatalf("expected action variant, got %T", variantFor(ev))
	}
}

func TestFooterAndTitleLink(t *testing.T) {
	ev := pipelineEvent(event.Detail{Pipeline: "deploy-prod", State: "STARTED"})

	att := Message(ev, "").Attachments[0]

	wantFooter := "CodePipeline Action Execution State Change | us-east-1"
	if att.Footer != wantFooter {
		t.Errorf("expected footer %q, got %q", wantFooter, att.Footer)
	}
	wantLink := "https://console.aws.amazon.com/codepipeline/home?region=us-east-1#/view/deploy-prod"
	if att.TitleLink != wantLink {
		t.Errorf("expected title link %q, got %q", wantLink, att.TitleLink)
	}
	if !reflect.DeepEqual(att.MrkdwnIn, []string{"text"}) {
		t.Errorf("expected mrkdwn_in [text], got %v", att.MrkdwnIn)
	}
}

func TestTimestampIsFractionalSeconds(t *testing.T) {
	ev := pipelineEvent(event.Detail{Pipeline: "p", State: "STARTED"})
	ev.Time = time.Date(1970, 1, 1, 0, 0, 1, 500_000_000, time.UTC)

	att := Message(ev, "").Attachments[0]
	if att.Ts != 1.5 {
		t.Errorf("expected ts 1.5, got %v", att.Ts)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	ev := pipelineEvent(event.Detail{
		Pipeline: "deploy-prod",
		Stage:    "Release",
		Action:   "Build",
		State:    "FAILED",
	})

	first := Message(ev, "#builds")
	second := Message(ev, "#builds")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("rendering the same event twice produced different messages:\n%+v\n%+v", first, second)
	}
}

func TestUnknownStateRendersWithDefaults(t *testing.T) {
	ev := pipelineEvent(event.Detail{Pipeline: "p"})

	att := Message(ev, "").Attachments[0]
	if att.Color != "#a0a0a0" {
		t.Errorf("expected default color for missing state, got %q", att.Color)
	}
}
