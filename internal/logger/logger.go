// Package logger prints walk and render diagnostics to stderr.
//
// The audit is quiet by default: the CLI only shows the final summary.
// With --verbose every listed folder, retry and skipped subtree is
// narrated as the walk progresses, which is the practical way to watch a
// long traversal of a large Drive hierarchy.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose turns diagnostic output on or off.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether diagnostics are currently printed.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects diagnostics away from os.Stderr, for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// emit writes one tagged line when verbose is on. Caller-facing helpers
// below exist so call sites read as a severity, not a format string.
func emit(tag, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, tag+" "+format+"\n", args...)
}

// Debug traces per-folder progress: listings, retries, page writes.
func Debug(format string, args ...any) {
	emit("[DEBUG]", format, args...)
}

// Info reports run-level milestones.
func Info(format string, args ...any) {
	emit("[INFO]", format, args...)
}

// Warn reports degradations that do not abort the run, such as a skipped
// subtree or an unavailable history store.
func Warn(format string, args ...any) {
	emit("[WARN]", format, args...)
}

// Section marks a phase boundary of the run, e.g. collect vs render.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
