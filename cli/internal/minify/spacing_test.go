package minify

import "testing"

func TestNeedsSpace(t *testing.T) {
	t.Parallel()
	colon := tk(Colon, ":")
	word := tk(Word, "screen")
	tests := []struct {
		name       string
		prev, curr Token
		insideCalc bool
		lastClosed string
		prevPrev   *Token
		skipped    bool
		want       bool
	}{
		{name: "plus inside calc", prev: tk(Word, "1px"), curr: tk(Operator, "+"), insideCalc: true, want: true},
		{name: "after minus inside calc", prev: tk(Word, "-"), curr: tk(Word, "2px"), insideCalc: true, want: true},
		{name: "minus before paren inside calc", prev: tk(Word, "-"), curr: tk(ParenOpen, "("), insideCalc: true, want: true},
		{name: "plus outside calc", prev: tk(Word, "2n"), curr: tk(Operator, "+"), want: false},
		{name: "word word", prev: tk(Word, "solid"), curr: tk(Word, "red"), want: true},
		{name: "close paren word with source space", prev: tk(ParenClose, ")"), curr: tk(Word, "span"), lastClosed: "not", skipped: true, want: true},
		{name: "chained after pseudo-class", prev: tk(ParenClose, ")"), curr: tk(Word, ".b"), lastClosed: "not", want: false},
		{name: "chained after nth-last-of-type", prev: tk(ParenClose, ")"), curr: tk(Word, "#x"), lastClosed: "nth-last-of-type", want: false},
		{name: "value after function", prev: tk(ParenClose, ")"), curr: tk(Word, ".5em"), lastClosed: "var", want: true},
		{name: "after unmatched close", prev: tk(ParenClose, ")"), curr: tk(Word, "b"), lastClosed: "", want: true},
		{name: "media and", prev: tk(Word, "and"), curr: tk(ParenOpen, "("), prevPrev: &word, want: true},
		{name: "media OR upper case", prev: tk(Word, "OR"), curr: tk(ParenOpen, "("), want: true},
		{name: "media not", prev: tk(Word, "not"), curr: tk(ParenOpen, "("), prevPrev: &word, want: true},
		{name: "media not at start", prev: tk(Word, "not"), curr: tk(ParenOpen, "("), want: true},
		{name: "pseudo-class not", prev: tk(Word, "not"), curr: tk(ParenOpen, "("), prevPrev: &colon, want: false},
		{name: "function call", prev: tk(Word, "url"), curr: tk(ParenOpen, "("), want: false},
		{name: "colon word", prev: colon, curr: tk(Word, "red"), skipped: true, want: false},
		{name: "word brace", prev: tk(Word, "a"), curr: tk(OpenBrace, "{"), skipped: true, want: false},
		{name: "operator word", prev: tk(Operator, ">"), curr: tk(Word, "b"), skipped: true, want: false},
		{name: "close paren brace", prev: tk(ParenClose, ")"), curr: tk(OpenBrace, "{"), skipped: true, want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NeedsSpace(tt.prev, tt.curr, tt.insideCalc, tt.lastClosed, tt.prevPrev, tt.skipped)
			if got != tt.want {
				t.Errorf("NeedsSpace(%v, %v) = %v, want %v", tt.prev, tt.curr, got, tt.want)
			}
		})
	}
}

func TestRules_WithPseudoClasses(t *testing.T) {
	t.Parallel()
	prev, curr := tk(ParenClose, ")"), tk(Word, ".y")
	base := DefaultRules()
	ext := base.WithPseudoClasses(" State ")
	if !base.NeedsSpace(prev, curr, false, "state", nil, false) {
		t.Error("default rules: want space after unknown function")
	}
	if ext.NeedsSpace(prev, curr, false, "state", nil, false) {
		t.Error("extended rules: want no space after state()")
	}
	if base.PseudoClasses.Has("state") {
		t.Error("WithPseudoClasses modified the receiver's set")
	}
}

func TestNameSet(t *testing.T) {
	t.Parallel()
	s := NewNameSet("Calc", "", "  min ")
	if !s.Has("calc") || !s.Has("min") {
		t.Errorf("set = %v, want calc and min", s)
	}
	if s.Has("") {
		t.Error("empty name should be skipped")
	}
	u := s.Union("round")
	if !u.Has("round") || s.Has("round") {
		t.Errorf("Union: got %v from %v", u, s)
	}
}
