// Package ui provides stderr-based operator output for housekeeper: colored
// per-entry lines, warnings, the interactive confirmation prompt, and the
// end-of-run summary. Verbose gates the per-entry debug lines.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	blue   = "\033[34m"
	yellow = "\033[33m"
	green  = "\033[32m"
	red    = "\033[31m"
	cyan   = "\033[36m"
)

// Printer writes operator-facing output. Out defaults to stderr so that
// stdout stays clean for machine consumers.
type Printer struct {
	Out     io.Writer
	Verbose bool
}

func New(verbose bool) *Printer {
	return &Printer{Out: os.Stderr, Verbose: verbose}
}

func (p *Printer) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stderr
}

// Selection announces one resolved selection before its sweep starts.
func (p *Printer) Selection(pattern, expr string, resolved time.Time, revert bool) {
	cmp := "older than"
	if revert {
		cmp = "younger than"
	}
	fmt.Fprintf(p.out(), bold+cyan+"── %s"+reset+dim+" (%s: %s %s)"+reset+"\n",
		pattern, expr, cmp, resolved.Format("2006-01-02 15:04:05"))
}

// Removed reports a completed removal.
func (p *Printer) Removed(kind, path string) {
	fmt.Fprintf(p.out(), red+"✗ removed %s"+reset+" %s\n", kind, path)
}

// WouldRemove reports a removal suppressed by dry-run.
func (p *Printer) WouldRemove(kind, path string) {
	fmt.Fprintf(p.out(), yellow+"~ would remove %s"+reset+" %s\n", kind, path)
}

// Denied reports a removal the operator declined.
func (p *Printer) Denied(path string) {
	fmt.Fprintf(p.out(), dim+"· kept %s (denied)"+reset+"\n", path)
}

// Excluded reports an entry protected by an exclusion manifest.
func (p *Printer) Excluded(path, manifest string) {
	fmt.Fprintf(p.out(), green+"· excluded"+reset+" %s "+dim+"(%s)"+reset+"\n", path, manifest)
}

// Debug prints a dim per-entry line, only in verbose mode.
func (p *Printer) Debug(format string, args ...any) {
	if !p.Verbose {
		return
	}
	fmt.Fprintf(p.out(), dim+format+reset+"\n", args...)
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.out(), yellow+bold+"warning: "+reset+format+"\n", args...)
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.out(), red+bold+"error: "+reset+"%s\n", msg)
}

// Prompt asks the operator whether to remove an entry. The answer is read
// elsewhere; Prompt only renders the question.
func (p *Printer) Prompt(message string) {
	fmt.Fprintf(p.out(), bold+"%s"+reset+" [yes/no/All/None] ", message)
}

// Summary prints the end-of-run totals.
func (p *Printer) Summary(removed, kept, excluded, skipped int, dryRun bool) {
	verb := "removed"
	if dryRun {
		verb = "would remove"
	}
	fmt.Fprintf(p.out(), bold+"done:"+reset+" %s %d, kept %d, excluded %d, skipped %d\n",
		verb, removed, kept, excluded, skipped)
}
