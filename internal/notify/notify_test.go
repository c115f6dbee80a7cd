package notify

import (
	"errors"
	"strings"
	"testing"
)

func captureCommand(t *testing.T) *[]string {
	t.Helper()
	var calls []string
	orig := command
	command = func(name string, args ...string) error {
		calls = append(calls, name+" "+strings.Join(args, "|"))
		return nil
	}
	t.Cleanup(func() { command = orig })
	return &calls
}

func TestSend(t *testing.T) {
	calls := captureCommand(t)

	if err := Send("Title", "Body", UrgencyLow, ""); err != nil {
		t.Fatal(err)
	}
	if (*calls)[0] != "notify-send Title|Body|--urgency=low" {
		t.Errorf("call = %q", (*calls)[0])
	}
}

func TestDesktopRenderComplete(t *testing.T) {
	calls := captureCommand(t)

	if err := (Desktop{}).RenderComplete("Overlay", "/renders/final.mp4"); err != nil {
		t.Fatal(err)
	}
	want := "notify-send Overlay Complete|final.mp4 saved!|--urgency=normal|--icon=video-x-generic"
	if (*calls)[0] != want {
		t.Errorf("call = %q, want %q", (*calls)[0], want)
	}
}

func TestDesktopRenderFailedTruncates(t *testing.T) {
	calls := captureCommand(t)

	long := strings.Repeat("x", 500)
	if err := (Desktop{}).RenderFailed("Concat", errors.New(long)); err != nil {
		t.Fatal(err)
	}
	parts := strings.Split((*calls)[0], "|")
	if len(parts[1]) > 210 {
		t.Errorf("body not truncated: %d bytes", len(parts[1]))
	}
	if !strings.Contains(parts[2], "critical") {
		t.Errorf("expected critical urgency: %v", parts)
	}
}
