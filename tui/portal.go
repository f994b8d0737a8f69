// Package tui implements the employee kiosk as a bubbletea program.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/warp/nizami/attendance"
	"github.com/warp/nizami/i18n"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	ClockIn  key.Binding
	ClockOut key.Binding
	Back     key.Binding
	Language key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	ClockIn:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "clock in")),
	ClockOut: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "clock out")),
	Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
	Language: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "ar/en")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Portal is the kiosk model. The clock is injected so tests control "now".
type Portal struct {
	svc  *attendance.Service
	now  func() time.Time
	lang attendance.Language

	view     View
	entries  []attendance.LogEntry
	cursor   int
	selected attendance.Employee
	record   *attendance.AttendanceRecord

	loading bool
	message string
	err     error
	width   int
}

func NewPortal(svc *attendance.Service, lang attendance.Language, now func() time.Time) *Portal {
	if now == nil {
		now = time.Now
	}
	if !lang.Valid() {
		lang = attendance.LanguageArabic
	}
	return &Portal{svc: svc, now: now, lang: lang, view: ViewSelect}
}

// CurrentView returns the screen being shown.
func (p *Portal) CurrentView() View { return p.view }

// =============================================================================
// MESSAGES
// =============================================================================

type rosterMsg struct {
	entries []attendance.LogEntry
	err     error
}

type recordMsg struct {
	record *attendance.AttendanceRecord
	err    error
}

type clockMsg struct {
	result attendance.ClockResult
	in     bool
	err    error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (p *Portal) loadRoster() tea.Msg {
	entries, err := p.svc.DailyLog(context.Background(), attendance.DateOf(p.now()))
	return rosterMsg{entries: entries, err: err}
}

func (p *Portal) loadRecord() tea.Msg {
	rec, err := p.svc.RecordFor(context.Background(), p.selected.ID, attendance.DateOf(p.now()))
	return recordMsg{record: rec, err: err}
}

func (p *Portal) clock(in bool) tea.Cmd {
	id := p.selected.ID
	return func() tea.Msg {
		var (
			res attendance.ClockResult
			err error
		)
		if in {
			res, err = p.svc.ClockIn(context.Background(), id, p.now())
		} else {
			res, err = p.svc.ClockOut(context.Background(), id, p.now())
		}
		return clockMsg{result: res, in: in, err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

func (p *Portal) Init() tea.Cmd {
	p.loading = true
	return tea.Batch(p.loadRoster, tick())
}

func (p *Portal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil

	case tickMsg:
		return p, tick()

	case rosterMsg:
		p.loading = false
		p.err = msg.err
		p.entries = msg.entries
		if p.cursor >= len(p.entries) {
			p.cursor = max(0, len(p.entries)-1)
		}
		return p, nil

	case recordMsg:
		p.err = msg.err
		p.record = msg.record
		return p, nil

	case clockMsg:
		p.err = msg.err
		if msg.err == nil {
			p.record = msg.result.Record
			p.message = p.clockMessage(msg)
		}
		return p, p.loadRoster

	case tea.KeyMsg:
		return p, p.handleKey(msg)
	}
	return p, nil
}

func (p *Portal) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Quit) {
		return tea.Quit
	}
	if key.Matches(msg, keys.Language) {
		if p.lang == attendance.LanguageArabic {
			p.lang = attendance.LanguageEnglish
		} else {
			p.lang = attendance.LanguageArabic
		}
		return nil
	}

	switch p.view {
	case ViewSelect:
		return p.handleSelectKey(msg)
	case ViewAction:
		return p.handleActionKey(msg)
	}
	return nil
}

func (p *Portal) handleSelectKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Select):
		if len(p.entries) == 0 {
			return nil
		}
		next, ok := Transition(p.view, EventSelectEmployee)
		if !ok {
			return nil
		}
		entry := p.entries[p.cursor]
		p.view = next
		p.selected = entry.Employee
		p.record = entry.Record
		p.message = ""
		return p.loadRecord
	}
	return nil
}

func (p *Portal) handleActionKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
		if next, ok := Transition(p.view, EventBack); ok {
			p.view = next
			p.selected = attendance.Employee{}
			p.record = nil
			p.message = ""
			return p.loadRoster
		}
	case key.Matches(msg, keys.ClockIn):
		return p.clock(true)
	case key.Matches(msg, keys.ClockOut):
		return p.clock(false)
	case key.Matches(msg, keys.Select):
		// The single action button: clock in, then clock out, then nothing.
		switch {
		case p.record == nil || p.record.CheckIn == nil:
			return p.clock(true)
		case p.record.IsOpen():
			return p.clock(false)
		}
	}
	return nil
}

func (p *Portal) clockMessage(msg clockMsg) string {
	if !msg.result.Applied {
		if msg.in {
			return i18n.T(p.lang, "log.checkIn") + ": --"
		}
		return i18n.T(p.lang, "log.checkOut") + ": --"
	}
	rec := msg.result.Record
	if msg.in {
		return fmt.Sprintf("%s %s", i18n.T(p.lang, "log.checkIn"), rec.CheckIn.Format("03:04 PM"))
	}
	return fmt.Sprintf("%s %s · %s %s",
		i18n.T(p.lang, "log.checkOut"), rec.CheckOut.Format("03:04 PM"),
		rec.TotalHours.StringFixed(2), i18n.Status(p.lang, rec.Status))
}

// =============================================================================
// VIEW
// =============================================================================

func (p *Portal) View() string {
	var body string
	switch p.view {
	case ViewSelect:
		body = p.viewSelect()
	case ViewAction:
		body = p.viewAction()
	}
	if p.err != nil {
		body += "\n" + errorStyle.Render("Error: "+p.err.Error())
	}
	return boxStyle.Render(body)
}

func (p *Portal) viewSelect() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(i18n.T(p.lang, "landing.employeePortal")))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(i18n.T(p.lang, "portal.loginMsg")))
	b.WriteString("\n")

	if p.loading {
		b.WriteString(dimStyle.Render("..."))
		return b.String()
	}
	if len(p.entries) == 0 {
		b.WriteString(dimStyle.Render(i18n.T(p.lang, "employees.noEmployees")))
	}

	for i, e := range p.entries {
		dot := dimStyle.Render("○")
		if e.Record != nil && e.Record.IsOpen() {
			dot = onShiftStyle.Render("●")
		}
		line := fmt.Sprintf("%s  %s", initials(e.Employee.Name), e.Employee.Name)
		if i == p.cursor {
			b.WriteString(selectedStyle.Render("> "+line) + " " + dot)
		} else {
			b.WriteString(normalStyle.Render("  "+line) + " " + dot)
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(helpLine(keys.Up, keys.Down, keys.Select, keys.Language, keys.Quit)))
	return b.String()
}

func (p *Portal) viewAction() string {
	var b strings.Builder
	now := p.now()

	b.WriteString(titleStyle.Render(p.selected.Name))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(now.Format("Monday, January 02")))
	b.WriteString("\n")
	b.WriteString(clockStyle.Render(now.Format("15:04")))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(i18n.T(p.lang, "portal.currentTime")))
	b.WriteString("\n\n")

	checkIn, checkOut := "--:--", "--:--"
	if p.record != nil && p.record.CheckIn != nil {
		checkIn = p.record.CheckIn.Format("03:04 PM")
	}
	if p.record != nil && p.record.CheckOut != nil {
		checkOut = p.record.CheckOut.Format("03:04 PM")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		checkInStyle.Render(fmt.Sprintf("%s\n%s", i18n.T(p.lang, "log.checkIn"), checkIn)),
		"    ",
		checkOutStyle.Render(fmt.Sprintf("%s\n%s", i18n.T(p.lang, "log.checkOut"), checkOut)),
	))
	b.WriteString("\n\n")

	switch {
	case p.record == nil || p.record.CheckIn == nil:
		b.WriteString(checkInStyle.Render("[enter] " + i18n.T(p.lang, "log.checkIn")))
	case p.record.IsOpen():
		b.WriteString(checkOutStyle.Render("[enter] " + i18n.T(p.lang, "log.checkOut")))
	default:
		b.WriteString(checkOutStyle.Render(i18n.T(p.lang, "portal.shiftCompleted")))
	}

	if p.message != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(p.message))
	}

	b.WriteString(helpStyle.Render(helpLine(keys.Select, keys.ClockIn, keys.ClockOut, keys.Back, keys.Quit)))
	return b.String()
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func initials(name string) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

// Run starts the kiosk in the terminal until the user quits.
func Run(svc *attendance.Service, lang attendance.Language) error {
	_, err := tea.NewProgram(NewPortal(svc, lang, time.Now), tea.WithAltScreen()).Run()
	return err
}
