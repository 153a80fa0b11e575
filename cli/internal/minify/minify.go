// Package minify removes comments and insignificant white space from CSS while
// keeping every space that changes meaning: descendant combinators after
// functional pseudo-classes, spaces around + and - inside calc-like functions,
// separators between adjacent words and media query keywords before "(".
//
// The pass is single and forward: a Tokenizer feeds tokens to the serializer,
// which tracks paren nesting and asks the spacing rules about every adjacent
// pair of emitted tokens. Semicolons directly before "}" are dropped.
package minify

import "strings"

// Decision describes one spacing verdict; passed to Options.OnDecision.
type Decision struct {
	Prev, Curr        Token
	InsideCalc        bool
	LastClosedFunc    string
	WhitespaceSkipped bool
	Space             bool
}

// Options configures MinifyWith. The zero value uses DefaultRules.
type Options struct {
	// Rules overrides the built-in name sets when non-nil.
	Rules *Rules
	// OnDecision, when set, is called for every adjacent pair of emitted tokens.
	OnDecision func(Decision)
}

// Stats counts what a minify pass did.
type Stats struct {
	InputBytes       int
	OutputBytes      int
	Tokens           int // significant tokens written, excluding semicolons
	Comments         int
	SpacesInserted   int
	SemicolonsElided int
}

// Minify returns src with comments and insignificant white space removed,
// using the built-in rule sets.
func Minify(src string) string {
	out, _ := MinifyWith(src, Options{})
	return out
}

// Minify is like the package-level Minify but uses r's name sets.
func (r Rules) Minify(src string) string {
	out, _ := MinifyWith(src, Options{Rules: &r})
	return out
}

// semicolonState decides whether a ";" is written. A ";" is held until the
// next significant token shows whether it is redundant.
type semicolonState int

const (
	stateNormal semicolonState = iota
	stateAwaitingDecision
)

// feed advances the state for the next significant token of kind k and
// reports whether a held ";" must be written before it.
func (s *semicolonState) feed(k Kind) (emit bool) {
	if *s == stateAwaitingDecision {
		emit = k != CloseBrace
		*s = stateNormal
	}
	if k == Semicolon {
		*s = stateAwaitingDecision
	}
	return emit
}

// finish reports whether a ";" is still held at end of input.
func (s semicolonState) finish() bool { return s == stateAwaitingDecision }

// MinifyWith minifies src with opts and reports what it did.
func MinifyWith(src string, opts Options) (string, Stats) {
	rules := defaultRules
	if opts.Rules != nil {
		rules = *opts.Rules
	}
	var (
		out      strings.Builder
		st       = Stats{InputBytes: len(src)}
		semi     semicolonState
		tr       = newTracker(rules.CalcFunctions)
		prev     *Token
		prevPrev *Token
		skipped  bool
	)
	out.Grow(len(src))

	tz := NewTokenizer(src)
	for {
		tok, ok := tz.Next()
		if !ok {
			break
		}
		switch tok.Kind {
		case Comment:
			st.Comments++
			continue
		case Whitespace:
			skipped = true
			continue
		}

		held := semi == stateAwaitingDecision
		if semi.feed(tok.Kind) {
			out.WriteByte(';')
		} else if held {
			st.SemicolonsElided++
		}
		if tok.Kind == Semicolon {
			continue
		}

		switch tok.Kind {
		case ParenOpen:
			tr.open(prev)
		case ParenClose:
			tr.close()
		}

		if prev != nil {
			space := rules.NeedsSpace(*prev, tok, tr.insideCalc(), tr.lastClosed, prevPrev, skipped)
			if space {
				out.WriteByte(' ')
				st.SpacesInserted++
			}
			if opts.OnDecision != nil {
				opts.OnDecision(Decision{
					Prev:              *prev,
					Curr:              tok,
					InsideCalc:        tr.insideCalc(),
					LastClosedFunc:    tr.lastClosed,
					WhitespaceSkipped: skipped,
					Space:             space,
				})
			}
		}

		out.WriteString(tok.Text)
		st.Tokens++
		prevPrev = prev
		cur := tok
		prev = &cur
		skipped = false
	}
	if semi.finish() {
		out.WriteByte(';')
	}
	st.OutputBytes = out.Len()
	return out.String(), st
}
