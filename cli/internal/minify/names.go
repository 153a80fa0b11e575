package minify

import "strings"

// NameSet is a set of lowercase CSS function names.
type NameSet map[string]struct{}

// NewNameSet returns a set holding the lowercased, trimmed names. Empty names are skipped.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	s.Add(names...)
	return s
}

// Add inserts names (lowercased, trimmed) into s.
func (s NameSet) Add(names ...string) {
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			s[n] = struct{}{}
		}
	}
}

// Has reports whether name is in s. name must already be lowercase.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Union returns a new set with the members of s and names.
func (s NameSet) Union(names ...string) NameSet {
	out := make(NameSet, len(s)+len(names))
	for n := range s {
		out[n] = struct{}{}
	}
	out.Add(names...)
	return out
}

// calcFunctions are functions whose + and - are arithmetic operators.
var calcFunctions = []string{"calc", "clamp", "min", "max", "var"}

// selectorPseudoClasses are functional pseudo-classes after which a simple
// selector may follow with no space (e.g. :not(.a).b).
var selectorPseudoClasses = []string{
	"not", "is", "where", "has",
	"nth-child", "nth-last-child", "nth-of-type", "nth-last-of-type",
	"dir", "lang", "host", "host-context", "part", "slotted",
}

// mediaKeywords are the logical keywords that keep a space before "(".
var mediaKeywords = []string{"and", "or", "not"}

// CalcFunctions returns a fresh set of the built-in calc-like function names.
func CalcFunctions() NameSet { return NewNameSet(calcFunctions...) }

// SelectorPseudoClasses returns a fresh set of the built-in functional pseudo-class names.
func SelectorPseudoClasses() NameSet { return NewNameSet(selectorPseudoClasses...) }
