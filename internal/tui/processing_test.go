package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewProcessingState(t *testing.T) {
	p := NewProcessingState()

	if p == nil {
		t.Fatal("NewProcessingState returned nil")
	}

	if len(p.Steps) != 3 {
		t.Errorf("expected 3 steps, got %d", len(p.Steps))
	}

	if p.CurrentStep != -1 {
		t.Errorf("expected CurrentStep to be -1, got %d", p.CurrentStep)
	}

	if p.IsProcessing {
		t.Error("expected IsProcessing to be false")
	}

	for i, step := range p.Steps {
		if step.Status != StepPending {
			t.Errorf("expected step %d to be StepPending, got %d", i, step.Status)
		}
	}
}

func TestProcessingState_Start(t *testing.T) {
	p := NewProcessingState()

	p.Start()

	if !p.IsProcessing {
		t.Error("expected IsProcessing to be true after Start")
	}

	if p.CurrentStep != 0 {
		t.Errorf("expected CurrentStep to be 0, got %d", p.CurrentStep)
	}

	if p.Steps[0].Status != StepRunning {
		t.Errorf("expected first step to be StepRunning, got %d", p.Steps[0].Status)
	}

	if p.StartTime.IsZero() {
		t.Error("expected StartTime to be set")
	}
}

func TestProcessingState_AdvanceTo(t *testing.T) {
	p := NewProcessingState()
	p.Start()

	p.AdvanceTo(stepFinishing)

	if p.CurrentStep != stepFinishing {
		t.Errorf("expected CurrentStep %d, got %d", stepFinishing, p.CurrentStep)
	}
	if p.Steps[stepPreparing].Status != StepComplete || p.Steps[stepRendering].Status != StepComplete {
		t.Error("expected earlier steps to be complete")
	}
	if p.Steps[stepFinishing].Status != StepRunning {
		t.Errorf("expected finishing step running, got %d", p.Steps[stepFinishing].Status)
	}

	// Advancing backwards is a no-op.
	p.AdvanceTo(stepPreparing)
	if p.CurrentStep != stepFinishing {
		t.Errorf("expected CurrentStep to stay %d, got %d", stepFinishing, p.CurrentStep)
	}
}

func TestProcessingState_FailStep(t *testing.T) {
	p := NewProcessingState()
	p.Start()
	p.NextStep()

	testErr := errors.New("render failed")
	p.FailStep(testErr)

	if p.Steps[1].Status != StepFailed {
		t.Errorf("expected step 1 to be StepFailed, got %d", p.Steps[1].Status)
	}

	if !errors.Is(p.Error, testErr) {
		t.Errorf("expected Error to be %v, got %v", testErr, p.Error)
	}

	if p.IsProcessing {
		t.Error("expected IsProcessing to be false after failure")
	}
}

func TestProcessingState_Complete(t *testing.T) {
	p := NewProcessingState()
	p.Start()

	p.Complete()

	if p.IsProcessing {
		t.Error("expected IsProcessing to be false after Complete")
	}
	for i, step := range p.Steps {
		if step.Status != StepComplete {
			t.Errorf("expected step %d complete, got %d", i, step.Status)
		}
	}
}

func TestRenderProcessingView_Nil(t *testing.T) {
	if got := RenderProcessingView("x", nil, "", 0); got != "" {
		t.Errorf("expected empty string for nil state, got %q", got)
	}
}

func TestRenderProcessingView_Basic(t *testing.T) {
	p := NewProcessingState()
	p.Start()

	view := RenderProcessingView("Merging audio", p, "[bar]", 0)

	for _, want := range []string{"Merging audio", "Preparing inputs", "Rendering", "[bar]", "Press q to cancel"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestRenderProcessingView_Error(t *testing.T) {
	p := NewProcessingState()
	p.Start()
	p.FailStep(errors.New("exit status 1\nlong stderr"))

	view := RenderProcessingView("Overlay", p, "", 0)

	if !strings.Contains(view, "Error: exit status 1") {
		t.Error("expected view to contain the first error line")
	}
	if strings.Contains(view, "long stderr") {
		t.Error("expected only the first error line")
	}
}

func TestProcessingStep_Duration(t *testing.T) {
	start := time.Now()
	step := ProcessingStep{
		Name:      "Rendering",
		Status:    StepComplete,
		StartTime: start,
		EndTime:   start.Add(1500 * time.Millisecond),
	}

	line := renderStepLine(step, false, 0)
	if !strings.Contains(line, "1.5s") {
		t.Errorf("expected duration in step line, got %q", line)
	}
}

func TestRenderModelProgress(t *testing.T) {
	m := newRenderModel("Concat", nil)

	updated, _ := m.Update(percentMsg(40))
	m = updated.(renderModel)
	if m.state.CurrentStep != stepRendering {
		t.Errorf("expected rendering step after first progress, got %d", m.state.CurrentStep)
	}
	if m.percent != 0.4 {
		t.Errorf("percent = %v", m.percent)
	}

	updated, _ = m.Update(percentMsg(100))
	m = updated.(renderModel)
	if m.state.CurrentStep != stepFinishing {
		t.Errorf("expected finishing step at 100%%, got %d", m.state.CurrentStep)
	}

	updated, cmd := m.Update(doneMsg{})
	m = updated.(renderModel)
	if !m.done || cmd == nil {
		t.Error("expected done model to quit")
	}
	if m.state.IsProcessing {
		t.Error("expected processing to be finished")
	}
}

func TestRenderModelCancelKey(t *testing.T) {
	cancelled := false
	m := newRenderModel("Overlay", func() { cancelled = true })

	m.Update(keyMsg("q"))
	if !cancelled {
		t.Error("expected q to cancel the render")
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
