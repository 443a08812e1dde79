// Package output handles CLI output formatting including verbose mode and
// the watch-mode status line.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable per-asset output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	IsTTY     bool      // Whether output is a terminal
}

// Output writes user-facing messages. It is safe for concurrent use.
type Output struct {
	config       Config
	mu           sync.Mutex
	statusActive bool
	statusWidth  int
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{
		config: config,
	}
}

// DefaultConfig returns a Config writing to stdout/stderr with TTY detection.
func DefaultConfig() Config {
	return Config{
		Verbose:   false,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.println(o.config.Writer, "", format, args...)
}

// Info prints an informational message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	o.println(o.config.Writer, "", format, args...)
}

// Warn prints a warning to stderr.
func (o *Output) Warn(format string, args ...interface{}) {
	o.println(o.config.ErrWriter, "Warning: ", format, args...)
}

// Error prints an error message to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	o.println(o.config.ErrWriter, "Error: ", format, args...)
}

// Assignment reports one annotated asset in verbose mode.
func (o *Output) Assignment(category, name, title string) {
	o.Verbose("  %s/%s -> %q", category, name, title)
}

// Status replaces the in-place status line. It is shown only on a terminal
// and never in verbose mode, where it would interleave with per-asset lines.
func (o *Output) Status(format string, args ...interface{}) {
	if !o.config.IsTTY || o.config.Verbose {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearStatusLocked()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprint(o.config.Writer, "\r"+msg)
	o.statusActive = true
	o.statusWidth = len(msg)
}

// ClearStatus removes the status line if one is shown.
func (o *Output) ClearStatus() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearStatusLocked()
}

func (o *Output) println(w io.Writer, prefix, format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearStatusLocked()
	msg := prefix + fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}

// clearStatusLocked blanks the status line. o.mu must be held.
func (o *Output) clearStatusLocked() {
	if !o.statusActive {
		return
	}
	fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", o.statusWidth)+"\r")
	o.statusActive = false
	o.statusWidth = 0
}
