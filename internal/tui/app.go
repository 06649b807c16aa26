// internal/tui/app.go
//
// This is the review grid for pubdate. It shows every scheduled document with
// its pool and date, lets the user move a date by hand and re-checks the whole
// schedule after each edit.
//
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the plan, the current dates and the violations they cause
// 2. Update: key presses and solve results change that state
// 3. View: the table, the edit prompt and the violation list
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/pubdate/internal/calendar"
	"github.com/kingrea/pubdate/internal/csp"
	"github.com/kingrea/pubdate/internal/schedule"
)

// appState represents which mode the grid is in
type appState int

const (
	stateBrowse  appState = iota // Moving through rows
	stateEdit                    // Typing a new date for the selected row
	stateSolving                 // Waiting for a solve to come back
)

const (
	statusOK        = "ok"
	statusViolation = "violation"
	statusMissing   = "-"
)

// solvedMsg carries the outcome of a background solve.
type solvedMsg struct {
	result schedule.Result
	err    error
}

// App is the main application model.
type App struct {
	state      appState
	plan       *schedule.Plan
	solveOpts  []schedule.Option
	dateFormat string

	dates      map[string]calendar.Date
	outcome    csp.Status
	solved     bool
	edited     bool
	violations []schedule.Violation

	grid  table.Model
	input textinput.Model

	statusMsg string
	err       error

	width  int
	height int
}

// AppOption customizes the App at construction time.
type AppOption func(*App)

// WithSolveOptions forwards options to every solve the grid runs.
func WithSolveOptions(opts ...schedule.Option) AppOption {
	return func(a *App) {
		a.solveOpts = append(a.solveOpts, opts...)
	}
}

// WithDateFormat sets the layout used in the date column.
func WithDateFormat(layout string) AppOption {
	return func(a *App) {
		if strings.TrimSpace(layout) != "" {
			a.dateFormat = layout
		}
	}
}

// WithResult seeds the grid with an existing solve so Init does not run one.
func WithResult(res schedule.Result) AppOption {
	return func(a *App) {
		a.applyResult(res)
	}
}

// New creates the review grid for plan.
func New(plan *schedule.Plan, opts ...AppOption) *App {
	input := textinput.New()
	input.Prompt = "date: "
	input.CharLimit = len(calendar.Layout)
	input.Cursor.SetMode(cursor.CursorStatic)

	grid := table.New(
		table.WithColumns(columns(40)),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#5B8DEF")).
		Bold(false)
	grid.SetStyles(styles)

	app := &App{
		state:      stateBrowse,
		plan:       plan,
		dateFormat: calendar.Layout,
		dates:      map[string]calendar.Date{},
		grid:       grid,
		input:      input,
	}
	for _, opt := range opts {
		opt(app)
	}
	app.refresh()
	return app
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	if a.solved {
		return nil
	}
	a.state = stateSolving
	a.statusMsg = "Solving..."
	return a.solve()
}

// Update handles all incoming messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case solvedMsg:
		a.state = stateBrowse
		if msg.err != nil {
			a.err = msg.err
			a.statusMsg = fmt.Sprintf("Solve failed: %v", msg.err)
			return a, nil
		}
		a.err = nil
		a.applyResult(msg.result)
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.state {
		case stateEdit:
			return a.updateEdit(msg)
		case stateSolving:
			return a, nil
		}
		return a.updateBrowse(msg)
	}
	return a, nil
}

func (a *App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		a.state = stateSolving
		a.statusMsg = "Solving..."
		return a, a.solve()
	case "enter":
		doc, ok := a.selected()
		if !ok {
			return a, nil
		}
		a.state = stateEdit
		a.input.SetValue("")
		a.input.Placeholder = calendar.Layout
		if current, ok := a.dates[doc]; ok && !current.IsZero() {
			a.input.Placeholder = current.String()
		}
		a.statusMsg = fmt.Sprintf("Editing %s (enter to save, esc to cancel)", doc)
		return a, a.input.Focus()
	}
	var cmd tea.Cmd
	a.grid, cmd = a.grid.Update(msg)
	return a, cmd
}

func (a *App) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.state = stateBrowse
		a.input.Blur()
		a.statusMsg = ""
		return a, nil
	case "enter":
		doc, ok := a.selected()
		if !ok {
			a.state = stateBrowse
			return a, nil
		}
		value := strings.TrimSpace(a.input.Value())
		if value == "" {
			a.state = stateBrowse
			a.input.Blur()
			a.statusMsg = ""
			return a, nil
		}
		date, err := calendar.ParseDate(value)
		if err != nil {
			a.statusMsg = fmt.Sprintf("Invalid date %q, expected %s", value, calendar.Layout)
			return a, nil
		}
		a.dates[doc] = date
		a.edited = true
		a.state = stateBrowse
		a.input.Blur()
		a.refresh()
		if len(a.violations) == 0 {
			a.statusMsg = fmt.Sprintf("%s moved to %s", doc, date)
		} else {
			a.statusMsg = fmt.Sprintf("%s moved to %s: %d violation(s)", doc, date, len(a.violations))
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// solve runs the search off the update loop.
func (a *App) solve() tea.Cmd {
	plan := a.plan
	opts := append([]schedule.Option(nil), a.solveOpts...)
	return func() tea.Msg {
		res, err := plan.Solve(context.Background(), opts...)
		return solvedMsg{result: res, err: err}
	}
}

func (a *App) applyResult(res schedule.Result) {
	a.solved = true
	a.edited = false
	a.outcome = res.Outcome
	a.dates = make(map[string]calendar.Date, len(res.Dates))
	for doc, date := range res.Dates {
		a.dates[doc] = date
	}
	switch res.Outcome {
	case csp.StatusSolved:
		a.statusMsg = fmt.Sprintf("Scheduled %d documents", len(res.Dates))
	case csp.StatusInfeasible:
		a.statusMsg = "No schedule satisfies every constraint"
	case csp.StatusBudgetExceeded:
		a.statusMsg = "Search budget exhausted before a schedule was found"
	}
}

// refresh recomputes violations and rebuilds the table rows.
func (a *App) refresh() {
	a.violations = nil
	if len(a.dates) > 0 {
		a.violations = a.plan.Violations(a.dates)
	}
	flagged := make(map[string]bool, len(a.violations))
	for _, v := range a.violations {
		flagged[v.Document] = true
	}

	docs := a.plan.Documents()
	rows := make([]table.Row, 0, len(docs))
	for _, doc := range docs {
		pool, _ := a.plan.PoolOf(doc)
		date, ok := a.dates[doc]
		cell := ""
		if ok && !date.IsZero() {
			cell = date.Format(a.dateFormat)
		}
		status := statusOK
		switch {
		case len(a.dates) == 0:
			status = statusMissing
		case flagged[doc]:
			status = statusViolation
		}
		rows = append(rows, table.Row{doc, pool.String(), cell, status})
	}
	a.grid.SetRows(rows)
}

func (a *App) resize() {
	docWidth := 40
	if a.width > 0 {
		docWidth = max(20, a.width-40)
	}
	a.grid.SetColumns(columns(docWidth))
	if a.height > 0 {
		a.grid.SetHeight(max(5, a.height-12-min(len(a.violations), 8)))
	}
}

func (a *App) selected() (string, bool) {
	docs := a.plan.Documents()
	idx := a.grid.Cursor()
	if idx < 0 || idx >= len(docs) {
		return "", false
	}
	return docs[idx], true
}

// Dates returns a copy of the dates currently shown, including manual edits.
func (a *App) Dates() map[string]calendar.Date {
	out := make(map[string]calendar.Date, len(a.dates))
	for doc, date := range a.dates {
		out[doc] = date
	}
	return out
}

// Violations returns the rules the current dates break.
func (a *App) Violations() []schedule.Violation {
	return append([]schedule.Violation(nil), a.violations...)
}

// Edited reports whether the user changed any date since the last solve.
func (a *App) Edited() bool {
	return a.edited
}

// View renders the current state.
func (a *App) View() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("⬡ PUBDATE · schedule review")

	grid := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Render(a.grid.View())

	sections := []string{header, grid}
	if a.state == stateEdit {
		sections = append(sections, a.input.View())
	}
	if a.statusMsg != "" {
		color := "#5B8DEF"
		if a.err != nil {
			color = "#FF6B6B"
		}
		sections = append(sections, lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(a.statusMsg))
	}
	if len(a.violations) > 0 {
		sections = append(sections, a.renderViolations())
	}
	sections = append(sections, a.renderHints())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderViolations() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		Render(fmt.Sprintf("Violations (%d)", len(a.violations)))
	lines := []string{title}
	for _, v := range a.violations {
		lines = append(lines, "  • "+v.Message)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (a *App) renderHints() string {
	hint := "↑/↓ move · enter edit date · r re-solve · q quit"
	if a.state == stateEdit {
		hint = "enter save · esc cancel"
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Render(hint)
}

func columns(docWidth int) []table.Column {
	return []table.Column{
		{Title: "Document", Width: docWidth},
		{Title: "Pool", Width: 10},
		{Title: "Date", Width: 12},
		{Title: "Status", Width: 10},
	}
}
