package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/marktree/internal/batch"
	"github.com/gerunddev/marktree/internal/styles"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

// checkModel is the Bubble Tea model for the check progress display
type checkModel struct {
	spinner  spinner.Model
	status   string
	cancel   context.CancelFunc
	complete bool
	result   *batch.Result
	err      error
}

// CheckMsg is sent when a check run completes
type CheckMsg struct {
	Result *batch.Result
	Err    error
}

// InitCheckModel creates a new check progress model. cancel, if not nil,
// is called when the user quits before the check completes.
func InitCheckModel(root string, cancel context.CancelFunc) checkModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return checkModel{
		spinner: s,
		status:  fmt.Sprintf("Checking %s...", root),
		cancel:  cancel,
	}
}

// RunCheck shows a spinner while run executes and a summary afterwards.
// run must stop once cancel is called; RunCheck calls it when the user
// quits early and waits for run to return.
func RunCheck(root string, cancel context.CancelFunc, run func() (*batch.Result, error)) (*batch.Result, error) {
	p := tea.NewProgram(InitCheckModel(root, cancel))

	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err := run()
		p.Send(CheckMsg{Result: result, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("failed to run progress display: %w", err)
	}

	m := final.(checkModel)
	if !m.complete {
		<-done
		return nil, fmt.Errorf("check interrupted")
	}
	return m.result, m.err
}

func (m checkModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m checkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.complete && m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case CheckMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m checkModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
	}

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Check failed: "+m.err.Error()) + "\n"
	}

	r := m.result
	took := styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", r.Duration().Round(time.Millisecond)))

	if r.Files == 0 {
		return styles.SuccessStyle.Render("✓ No documents found") + "\n" + took + "\n"
	}

	msg := styles.SuccessStyle.Render(fmt.Sprintf("✓ Parsed %d file(s)", r.Parsed))
	if r.Skipped > 0 {
		msg += ", " + styles.WarningStyle.Render(fmt.Sprintf("%d unchanged", r.Skipped))
	}
	if len(r.Failures) > 0 {
		msg += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d failure(s)", len(r.Failures)))
	}
	return msg + "\n" + took + "\n"
}
