// Package render maps pipeline-state-change events onto chat messages.
// Rendering is pure: one event in, one message out, no side effects, and no
// failure mode for any event-shaped input.
package render

import (
	"fmt"
	"strings"

	"pipenotify/internal/event"
	"pipenotify/internal/slack"
)

const consoleURLTemplate = "https://console.aws.amazon.com/codepipeline/home?region=%s#/view/%s"

// severity is the visual styling derived from the event state.
type severity struct {
	color string
	icon  string
}

var (
	sevRunning = severity{color: "#3aa3e3", icon: ":arrows_counterclockwise:"}
	sevFailed  = severity{color: "#d50200", icon: ":x:"}
	sevStopped = severity{color: "#a0a0a0", icon: ":warning:"}
	sevPassed  = severity{color: "#2eb886", icon: ":heavy_check_mark:"}
)

// severityFor is total over all inputs: unknown or missing states style the
// same as stopped ones rather than failing.
func severityFor(state string) severity {
	switch strings.ToUpper(state) {
	case "STARTED", "RESUMED":
		return sevRunning
	case "FAILED":
		return sevFailed
	case "SUPERSEDED", "CANCELED":
		return sevStopped
	case "SUCCEEDED":
		return sevPassed
	}
	return sevStopped
}

// variant is one of the three mutually exclusive message shapes. Selection is
// priority ordered: an action-level event wins over stage-level, which wins
// over pipeline-level.
type variant interface {
	title() string
	text(sev severity) string
	fallback() string
}

func variantFor(ev *event.PipelineEvent) variant {
	d := ev.Detail
	switch {
	case d.Action != "":
		return actionVariant{d: d, region: ev.Region}
	case d.Stage != "":
		return stageVariant{d: d, region: ev.Region}
	default:
		return pipelineVariant{d: d, region: ev.Region}
	}
}

type actionVariant struct {
	d      event.Detail
	region string
}

func (v actionVariant) title() string { return v.d.Pipeline + " | " + v.d.Stage }

func (v actionVariant) text(sev severity) string {
	return fmt.Sprintf("%s %s *%s*", sev.icon, v.d.Action, v.d.State)
}

func (v actionVariant) fallback() string {
	return fmt.Sprintf("%s | %s: %s %s (%s)", v.d.Pipeline, v.d.Stage, v.d.Action, v.d.State, v.region)
}

type stageVariant struct {
	d      event.Detail
	region string
}

func (v stageVariant) title() string { return v.d.Pipeline + " | " + v.d.Stage }

func (v stageVariant) text(sev severity) string {
	return fmt.Sprintf("%s *%s*", sev.icon, v.d.State)
}

func (v stageVariant) fallback() string {
	return fmt.Sprintf("%s | %s: %s (%s)", v.d.Pipeline, v.d.Stage, v.d.State, v.region)
}

type pipelineVariant struct {
	d      event.Detail
	region string
}

func (v pipelineVariant) title() string { return v.d.Pipeline }

func (v pipelineVariant) text(sev severity) string {
	return fmt.Sprintf("%s *%s*", sev.icon, v.d.State)
}

func (v pipelineVariant) fallback() string {
	return fmt.Sprintf("%s: %s (%s)", v.d.Pipeline, v.d.State, v.region)
}

// Message renders ev into the chat payload posted to the webhook. The channel
// comes from configuration, not from the event.
func Message(ev *event.PipelineEvent, channel string) *slack.Message {
	sev := severityFor(ev.Detail.State)
	v := variantFor(ev)

	return &slack.Message{
		Channel: channel,
		Attachments: []slack.Attachment{
			{
				Fallback:  v.fallback(),
				Color:     sev.color,
				Title:     v.title(),
				TitleLink: fmt.Sprintf(consoleURLTemplate, ev.Region, ev.Detail.Pipeline),
				Text:      v.text(sev),
				Footer:    fmt.Sprintf("%s | %s", ev.DetailType, ev.Region),
				MrkdwnIn:  []string{"text"},
				Ts:        ev.EpochSeconds(),
			},
		},
	}
}
