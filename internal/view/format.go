// Package view renders reminders for the terminal.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/valeriaulyamaeva/smart-reminder/models"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	OverdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // red
			Bold(true)

	CompletedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")). // green
			Strikethrough(true)

	PendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // amber

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)
)

type Formatter struct {
	colored bool
	now     func() time.Time
	loc     *time.Location
}

func NewFormatter(colored bool, now func() time.Time, loc *time.Location) *Formatter {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{colored: colored, now: now, loc: loc}
}

func (f *Formatter) render(style lipgloss.Style, s string) string {
	if !f.colored {
		return s
	}
	return style.Render(s)
}

// When describes the due moment relative to today: "Today, 09:00",
// "Tomorrow, 09:00", "Yesterday, 09:00", "3 days ago", or the plain date
// for anything further ahead.
func When(date, clock string, now time.Time, loc *time.Location) string {
	due, err := models.DueInstant(date, clock, loc)
	if err != nil {
		return date + " " + clock
	}
	today := now.In(loc)
	y, m, d := today.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, loc)
	dy, dm, dd := due.Date()
	startOfDue := time.Date(dy, dm, dd, 0, 0, 0, 0, loc)
	days := int(startOfDue.Sub(startOfToday).Round(time.Hour).Hours() / 24)

	hhmm := due.Format(models.TimeLayout)
	switch {
	case days == 0:
		return "Today, " + hhmm
	case days == 1:
		return "Tomorrow, " + hhmm
	case days == -1:
		return "Yesterday, " + hhmm
	case days < -1:
		return fmt.Sprintf("%d days ago", -days)
	default:
		return due.Format("Mon Jan 2 2006") + ", " + hhmm
	}
}

// Reminder renders one reminder as a single line plus an optional
// indented description.
func (f *Formatter) Reminder(r models.Reminder) string {
	now := f.now()
	mark := "[ ]"
	style := PendingStyle
	switch {
	case r.Completed:
		mark = "[x]"
		style = CompletedStyle
	case r.IsOverdue(now, f.loc):
		mark = "[!]"
		style = OverdueStyle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s  %s",
		f.render(DimStyle, fmt.Sprintf("#%-4d", r.ID)),
		mark,
		f.render(style, r.Title),
		f.render(DimStyle, When(r.Date, r.Time, now, f.loc)),
	)
	if r.Description != nil && *r.Description != "" {
		b.WriteString("\n       ")
		b.WriteString(f.render(DimStyle, *r.Description))
	}
	return b.String()
}

func (f *Formatter) List(rs []models.Reminder, filter models.StatusFilter) string {
	if len(rs) == 0 {
		if filter == models.FilterAll || filter == "" {
			return f.render(DimStyle, "No reminders yet.")
		}
		return f.render(DimStyle, fmt.Sprintf("No %s reminders.", filter))
	}
	lines := make([]string, 0, len(rs))
	for _, r := range rs {
		lines = append(lines, f.Reminder(r))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) Stats(s models.Summary) string {
	return fmt.Sprintf("%s  %s  %s  %s",
		f.render(HeaderStyle, fmt.Sprintf("All: %d", s.All)),
		f.render(PendingStyle, fmt.Sprintf("Active: %d", s.Active)),
		f.render(SuccessStyle, fmt.Sprintf("Completed: %d", s.Completed)),
		f.render(OverdueStyle, fmt.Sprintf("Overdue: %d", s.Overdue)),
	)
}

func (f *Formatter) Error(msg string) string {
	return f.render(ErrorStyle, "Error: "+msg)
}

func (f *Formatter) Success(msg string) string {
	return f.render(SuccessStyle, msg)
}
