// Package report is the presentation side channel of a scaffold run. Logic
// never depends on what a Reporter does with a message; the terminal variant
// styles them with lipgloss, Recorder keeps them for tests, and Discard drops
// them.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level classifies a message.
type Level int

const (
	LevelStatus Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelStatus:
		return "status"
	case LevelSuccess:
		return "success"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Reporter receives human-readable progress messages.
type Reporter interface {
	Status(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	// Progress redraws a single in-place progress line. A percent below
	// zero ends the line.
	Progress(label string, percent int)
}

var (
	colorStatus  = lipgloss.Color("#5B8DEF")
	colorSuccess = lipgloss.Color("#00E676")
	colorWarn    = lipgloss.Color("#FFD700")
	colorDanger  = lipgloss.Color("#FF5252")
	colorAccent  = lipgloss.Color("#00BFFF")
)

var (
	styleStatus   = lipgloss.NewStyle().Foreground(colorStatus)
	styleSuccess  = lipgloss.NewStyle().Foreground(colorSuccess)
	styleWarn     = lipgloss.NewStyle().Foreground(colorWarn)
	styleError    = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	styleProgress = lipgloss.NewStyle().Foreground(colorAccent)
	styleHeader   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

// Terminal writes styled lines to w.
type Terminal struct {
	w io.Writer
}

// NewTerminal creates a Terminal reporter writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Status(format string, args ...any) {
	fmt.Fprintln(t.w, styleStatus.Render("[*] "+fmt.Sprintf(format, args...)))
}

func (t *Terminal) Success(format string, args ...any) {
	fmt.Fprintln(t.w, styleSuccess.Render("[+] "+fmt.Sprintf(format, args...)))
}

func (t *Terminal) Warn(format string, args ...any) {
	fmt.Fprintln(t.w, styleWarn.Render("[~] "+fmt.Sprintf(format, args...)))
}

func (t *Terminal) Error(format string, args ...any) {
	fmt.Fprintln(t.w, styleError.Render("[!] "+fmt.Sprintf(format, args...)))
}

// Progress draws a 20-cell bar, one cell per 5%.
func (t *Terminal) Progress(label string, percent int) {
	if percent < 0 {
		fmt.Fprintln(t.w)
		return
	}
	if percent > 100 {
		percent = 100
	}
	bar := fmt.Sprintf("%-20s", strings.Repeat("=", percent/5))
	fmt.Fprint(t.w, "\r"+styleProgress.Render(fmt.Sprintf("%s: [%s] %d%%", label, bar, percent)))
}

// Header prints a bold banner line.
func (t *Terminal) Header(text string) {
	fmt.Fprintln(t.w, styleHeader.Render("=== "+text+" ==="))
}

// Entry is one recorded message.
type Entry struct {
	Level   Level
	Message string
}

// Recorder keeps every message in memory.
type Recorder struct {
	mu       sync.Mutex
	Entries  []Entry
	Percents []int
}

func (r *Recorder) add(l Level, format string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, Entry{Level: l, Message: fmt.Sprintf(format, args...)})
}

func (r *Recorder) Status(format string, args ...any)  { r.add(LevelStatus, format, args) }
func (r *Recorder) Success(format string, args ...any) { r.add(LevelSuccess, format, args) }
func (r *Recorder) Warn(format string, args ...any)    { r.add(LevelWarn, format, args) }
func (r *Recorder) Error(format string, args ...any)   { r.add(LevelError, format, args) }

func (r *Recorder) Progress(_ string, percent int) {
	if percent < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Percents = append(r.Percents, percent)
}

// Messages returns the messages recorded at level l, in order.
func (r *Recorder) Messages(l Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.Entries {
		if e.Level == l {
			out = append(out, e.Message)
		}
	}
	return out
}

// Discard drops everything.
type Discard struct{}

func (Discard) Status(string, ...any)  {}
func (Discard) Success(string, ...any) {}
func (Discard) Warn(string, ...any)    {}
func (Discard) Error(string, ...any)   {}
func (Discard) Progress(string, int)   {}
