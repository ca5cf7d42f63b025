package cli

import (
	"fmt"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/feedlift/feedlift/internal/models"
)

// Theme holds the color scheme for the progress display.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// progressUpdateMsg carries a batch progress update.
type progressUpdateMsg struct {
	completed int
	total     int
	failed    int
}

// batchDoneMsg carries the finished run.
type batchDoneMsg struct {
	run *models.BatchRun
	err error
}

// batchModel is the bubbletea model for batch progress.
type batchModel struct {
	events    <-chan tea.Msg
	progress  progress.Model
	theme     Theme
	completed int
	total     int
	failed    int
	run       *models.BatchRun
	err       error
	done      bool
	quitting  bool
}

// newBatchModel creates a new progress model for a batch of the given size.
func newBatchModel(events <-chan tea.Msg, total int) batchModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return batchModel{
		events:   events,
		progress: prog,
		theme:    defaultTheme,
		total:    total,
	}
}

// Init returns the initial command (start listening for events).
func (m batchModel) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.events),
		m.progress.Init(),
	)
}

// Update handles messages and returns the updated model.
func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case progressUpdateMsg:
		m.completed = msg.completed
		m.total = msg.total
		m.failed = msg.failed
		return m, waitForEvent(m.events)

	case batchDoneMsg:
		m.run = msg.run
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m batchModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string.
func (m batchModel) renderContent() string {
	if m.done {
		return m.finalView()
	}

	var pct float64
	if m.total > 0 {
		pct = float64(m.completed) / float64(m.total)
	}

	status := m.theme.statusStyle().Render("[optimizing]")
	progressBar := m.progress.ViewAs(pct)
	counts := fmt.Sprintf("%d/%d products", m.completed, m.total)
	if m.failed > 0 {
		counts += m.theme.errorStyle().Render(fmt.Sprintf(" (%d failed)", m.failed))
	}

	hint := m.theme.hintStyle().Render("Press Ctrl+C to stop watching")

	return fmt.Sprintf("%s %s %s\n%s\n", status, progressBar, counts, hint)
}

// finalView renders the completion message.
func (m batchModel) finalView() string {
	if m.err != nil {
		return m.theme.errorStyle().Render(fmt.Sprintf("\n✗ Batch failed: %s\n", m.err))
	}

	if m.run != nil {
		r := m.run
		var output string
		output += m.theme.completedStyle().Render("✓ Completed") + "\n\n"
		output += fmt.Sprintf("  Products:        %d\n", r.TotalProducts)
		output += fmt.Sprintf("  Successful:      %d\n", r.Successful)
		output += fmt.Sprintf("  Failed:          %d\n", r.Failed)
		output += fmt.Sprintf("  Average score:   %.2f\n", r.AverageScore)
		output += fmt.Sprintf("  Processing time: %.1fs\n", r.ProcessingTime)
		if len(r.Errors) > 0 {
			output += m.theme.errorStyle().Render(fmt.Sprintf("\nErrors (%d):\n", len(r.Errors)))
			for _, e := range r.Errors {
				output += fmt.Sprintf("  • %s: %s\n", e.ProductID, e.Error)
			}
		}
		return output
	}

	return m.theme.completedStyle().Render("✓ Completed\n")
}

// waitForEvent returns a command that delivers the next batch event.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// RunBatchProgress drives the interactive progress UI while start executes
// the batch. The start function receives a progress callback and returns the
// finished run; it is invoked on a background goroutine.
func RunBatchProgress(total int, start func(onProgress func(completed, total, failed int)) (*models.BatchRun, error)) (*models.BatchRun, error) {
	events := make(chan tea.Msg, 64)

	go func() {
		run, err := start(func(completed, total, failed int) {
			// Drop intermediate updates rather than block a worker.
			select {
			case events <- progressUpdateMsg{completed: completed, total: total, failed: failed}:
			default:
			}
		})
		events <- batchDoneMsg{run: run, err: err}
	}()

	p := tea.NewProgram(newBatchModel(events, total))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress UI error: %w", err)
	}

	if m, ok := finalModel.(batchModel); ok {
		if m.err != nil {
			return nil, m.err
		}
		if m.run != nil {
			return m.run, nil
		}
		if m.quitting {
			// UI stopped early; wait for the batch itself to finish.
			for msg := range events {
				if done, ok := msg.(batchDoneMsg); ok {
					return done.run, done.err
				}
			}
		}
	}

	return nil, fmt.Errorf("batch did not complete")
}
