// Package trace writes minifier internals to stderr when --trace is set:
// one section per stylesheet and one line per spacing decision.
// All methods are no-ops when the writer is nil.
package trace

import (
	"fmt"
	"io"
	"sync"

	"cssmin/cli/internal/minify"
)

// Tracer writes sectioned trace output. Safe for concurrent use; each call
// writes whole lines so output from parallel files does not interleave mid-line.
type Tracer struct {
	mu sync.Mutex
	w  io.Writer
}

// New returns a Tracer that writes to w. If w is nil, all methods no-op.
func New(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

// Enabled returns true if the tracer has a non-nil writer.
func (t *Tracer) Enabled() bool {
	return t != nil && t.w != nil
}

// Section writes a section header: "\n[cssmin:trace] === name ===\n"
func (t *Tracer) Section(name string) {
	t.Printf("\n[cssmin:trace] === %s ===\n", name)
}

// Printf writes to the trace writer when enabled.
func (t *Tracer) Printf(format string, args ...interface{}) {
	if !t.Enabled() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, format, args...)
}

// Decision writes one spacing verdict, e.g.
//
//	Word "a" + OpenBrace "{" -> none (ws=true calc=false closed="")
func (t *Tracer) Decision(d minify.Decision) {
	if !t.Enabled() {
		return
	}
	verdict := "none"
	if d.Space {
		verdict = "space"
	}
	t.Printf("%s %q + %s %q -> %s (ws=%t calc=%t closed=%q)\n",
		d.Prev.Kind, d.Prev.Text, d.Curr.Kind, d.Curr.Text, verdict,
		d.WhitespaceSkipped, d.InsideCalc, d.LastClosedFunc)
}

// DecisionFunc returns a callback for minify.Options.OnDecision, or nil when
// tracing is disabled so the minifier skips building decisions.
func (t *Tracer) DecisionFunc() func(minify.Decision) {
	if !t.Enabled() {
		return nil
	}
	return t.Decision
}
