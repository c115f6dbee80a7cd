package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProcessingStep represents a single render stage
type ProcessingStep struct {
	Name      string
	Status    StepStatus
	StartTime time.Time
	EndTime   time.Time
}

// StepStatus represents the status of a render stage
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepFailed
	StepSkipped
)

// Default render stages. The engine reporting its first progress line moves
// the view from preparing to rendering.
const (
	stepPreparing = iota
	stepRendering
	stepFinishing
)

// ProcessingState holds the state of all render stages
type ProcessingState struct {
	Steps        []ProcessingStep
	CurrentStep  int
	IsProcessing bool
	StartTime    time.Time
	Error        error
}

// NewProcessingState creates a new processing state with the default stages
func NewProcessingState() *ProcessingState {
	return &ProcessingState{
		Steps: []ProcessingStep{
			{Name: "Preparing inputs", Status: StepPending},
			{Name: "Rendering", Status: StepPending},
			{Name: "Finishing", Status: StepPending},
		},
		CurrentStep:  -1,
		IsProcessing: false,
	}
}

// Start begins the processing
func (p *ProcessingState) Start() {
	p.IsProcessing = true
	p.StartTime = time.Now()
	p.CurrentStep = 0
	if len(p.Steps) > 0 {
		p.Steps[0].Status = StepRunning
		p.Steps[0].StartTime = time.Now()
	}
}

// NextStep advances to the next step
func (p *ProcessingState) NextStep() {
	if p.CurrentStep >= 0 && p.CurrentStep < len(p.Steps) {
		p.Steps[p.CurrentStep].Status = StepComplete
		p.Steps[p.CurrentStep].EndTime = time.Now()
	}
	p.CurrentStep++
	if p.CurrentStep < len(p.Steps) {
		p.Steps[p.CurrentStep].Status = StepRunning
		p.Steps[p.CurrentStep].StartTime = time.Now()
	}
}

// AdvanceTo completes every step before index and starts it
func (p *ProcessingState) AdvanceTo(index int) {
	for p.CurrentStep < index && p.CurrentStep < len(p.Steps) {
		p.NextStep()
	}
}

// FailStep marks current step as failed
func (p *ProcessingState) FailStep(err error) {
	if p.CurrentStep >= 0 && p.CurrentStep < len(p.Steps) {
		p.Steps[p.CurrentStep].Status = StepFailed
		p.Steps[p.CurrentStep].EndTime = time.Now()
	}
	p.Error = err
	p.IsProcessing = false
}

// Complete marks every remaining step complete
func (p *ProcessingState) Complete() {
	p.AdvanceTo(len(p.Steps))
	p.IsProcessing = false
}

// Messages for processing updates
type processingTickMsg struct{}
type percentMsg float64
type doneMsg struct {
	err error
}

// processingTickCmd returns a command that ticks the processing animation
func processingTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return processingTickMsg{}
	})
}

// Donut animation frames (Unicode block characters for spinning effect)
var donutFrames = []string{
	"◐", "◓", "◑", "◒",
}

// renderModel is the bubbletea model shown while a render runs
type renderModel struct {
	title   string
	state   *ProcessingState
	bar     progress.Model
	percent float64
	frame   int
	width   int
	height  int
	cancel  func()
	done    bool
}

func newRenderModel(title string, cancel func()) renderModel {
	state := NewProcessingState()
	state.Start()
	return renderModel{
		title:  title,
		state:  state,
		bar:    progress.New(progress.WithDefaultGradient()),
		cancel: cancel,
	}
}

func (m renderModel) Init() tea.Cmd {
	return processingTickCmd()
}

func (m renderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// The render goroutine reports back with doneMsg once cancelled.
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(max(msg.Width-20, 10), 60)
		return m, nil

	case processingTickMsg:
		m.frame++
		if m.done {
			return m, nil
		}
		return m, processingTickCmd()

	case percentMsg:
		if m.state.CurrentStep < stepRendering {
			m.state.AdvanceTo(stepRendering)
		}
		m.percent = float64(msg) / 100
		if m.percent >= 1 {
			m.state.AdvanceTo(stepFinishing)
		}
		return m, nil

	case doneMsg:
		m.done = true
		if msg.err != nil {
			m.state.FailStep(msg.err)
		} else {
			m.percent = 1
			m.state.Complete()
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m renderModel) View() string {
	return RenderProcessingView(m.title, m.state, m.bar.ViewAs(m.percent), m.frame)
}

// RenderProcessingView renders the render screen with donut indicators
func RenderProcessingView(title string, state *ProcessingState, bar string, frame int) string {
	if state == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorOrange).
		MarginBottom(1)

	elapsed := time.Since(state.StartTime).Round(time.Second)
	timeStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	var steps []string
	for i, step := range state.Steps {
		steps = append(steps, renderStepLine(step, i == state.CurrentStep, frame))
	}

	statusStyle := lipgloss.NewStyle().
		MarginTop(1).
		Foreground(ColorGray)

	var statusMsg string
	switch {
	case state.Error != nil:
		statusMsg = statusStyle.Foreground(ColorRed).Render(fmt.Sprintf("Error: %v", firstLine(state.Error.Error())))
	case !state.IsProcessing:
		statusMsg = statusStyle.Foreground(ColorGreen).Render("Render complete!")
	default:
		statusMsg = statusStyle.Render("Press q to cancel")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(title),
		timeStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		"",
		strings.Join(steps, "\n"),
		"",
		"  "+bar,
		statusMsg,
		"",
	)
}

// renderStepLine renders a single processing step with appropriate indicator
func renderStepLine(step ProcessingStep, isCurrent bool, frame int) string {
	var indicator string
	var nameStyle lipgloss.Style

	switch step.Status {
	case StepPending:
		indicator = lipgloss.NewStyle().Foreground(ColorGray).Render("○")
		nameStyle = lipgloss.NewStyle().Foreground(ColorGray)

	case StepRunning:
		donutStyle := lipgloss.NewStyle().Foreground(ColorOrange).Bold(true)
		indicator = donutStyle.Render(donutFrames[frame%len(donutFrames)])
		nameStyle = lipgloss.NewStyle().Foreground(ColorWhite).Bold(isCurrent)

	case StepComplete:
		indicator = lipgloss.NewStyle().Foreground(ColorGreen).Render("●")
		nameStyle = lipgloss.NewStyle().Foreground(ColorGreen)

	case StepFailed:
		indicator = lipgloss.NewStyle().Foreground(ColorRed).Render("✗")
		nameStyle = lipgloss.NewStyle().Foreground(ColorRed)

	case StepSkipped:
		indicator = lipgloss.NewStyle().Foreground(ColorGray).Render("○")
		nameStyle = lipgloss.NewStyle().Foreground(ColorGray).Strikethrough(true)
	}

	var duration string
	if step.Status == StepComplete || step.Status == StepFailed {
		d := step.EndTime.Sub(step.StartTime).Round(100 * time.Millisecond)
		durationStyle := lipgloss.NewStyle().Foreground(ColorGray).Italic(true)
		duration = durationStyle.Render(fmt.Sprintf(" (%s)", d))
	}

	return fmt.Sprintf("  %s %s%s", indicator, nameStyle.Render(step.Name), duration)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
