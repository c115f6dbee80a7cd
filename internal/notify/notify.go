package notify

import (
	"os/exec"
	"path/filepath"
)

// Urgency levels for notifications
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

var command = func(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Send sends a desktop notification using notify-send
func Send(title, body string, urgency Urgency, icon string) error {
	args := []string{title, body}

	if urgency != "" {
		args = append(args, "--urgency="+string(urgency))
	}

	if icon != "" {
		args = append(args, "--icon="+icon)
	}

	return command("notify-send", args...)
}

// Info sends an informational notification
func Info(title, body string) error {
	return Send(title, body, UrgencyNormal, "video-x-generic")
}

// Error sends an error notification
func Error(title, body string) error {
	return Send(title, body, UrgencyCritical, "dialog-error")
}

// Desktop sends render notifications through notify-send.
type Desktop struct{}

// RenderComplete notifies that a render wrote its output
func (Desktop) RenderComplete(kind, output string) error {
	return Info(kind+" Complete", filepath.Base(output)+" saved!")
}

// RenderFailed notifies that a render failed
func (Desktop) RenderFailed(kind string, cause error) error {
	body := "Render failed"
	if cause != nil {
		body = cause.Error()
		if len(body) > 200 {
			body = body[:200] + "…"
		}
	}
	return Error(kind+" Failed", body)
}
