package minify

import "strings"

// noFunc marks a paren that does not belong to a named function.
const noFunc = ""

// tracker follows paren nesting during one minify pass. It knows whether the
// current position is inside a calc-like function and which function the
// most recent ")" closed.
type tracker struct {
	calcFuncs  NameSet
	calcDepth  int
	stack      []string
	lastClosed string
}

func newTracker(calcFuncs NameSet) *tracker {
	return &tracker{calcFuncs: calcFuncs}
}

// open records a "(". prev is the last emitted token, or nil at the start of input.
func (t *tracker) open(prev *Token) {
	name := noFunc
	if prev != nil && prev.Kind == Word {
		name = strings.ToLower(prev.Text)
	}
	// Any paren nested in a calc-like call stays in calc context.
	if t.calcFuncs.Has(name) || t.calcDepth > 0 {
		t.calcDepth++
	}
	t.stack = append(t.stack, name)
}

// close records a ")". An unmatched close sets lastClosed to noFunc.
func (t *tracker) close() {
	if t.calcDepth > 0 {
		t.calcDepth--
	}
	if len(t.stack) == 0 {
		t.lastClosed = noFunc
		return
	}
	t.lastClosed = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *tracker) insideCalc() bool { return t.calcDepth > 0 }

func (t *tracker) depth() int { return len(t.stack) }
