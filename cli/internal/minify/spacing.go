package minify

import "strings"

// Rules holds the name sets the spacing decisions depend on. The zero value is
// not usable; start from DefaultRules and extend with WithPseudoClasses or
// WithCalcFunctions.
type Rules struct {
	// PseudoClasses are functional pseudo-classes that may be chained to a
	// following simple selector without a space.
	PseudoClasses NameSet
	// CalcFunctions are functions whose + and - must keep their spaces.
	CalcFunctions NameSet
}

// DefaultRules returns the built-in rule sets.
func DefaultRules() Rules {
	return Rules{
		PseudoClasses: SelectorPseudoClasses(),
		CalcFunctions: CalcFunctions(),
	}
}

// WithPseudoClasses returns a copy of r with names added to PseudoClasses.
func (r Rules) WithPseudoClasses(names ...string) Rules {
	r.PseudoClasses = r.PseudoClasses.Union(names...)
	return r
}

// WithCalcFunctions returns a copy of r with names added to CalcFunctions.
func (r Rules) WithCalcFunctions(names ...string) Rules {
	r.CalcFunctions = r.CalcFunctions.Union(names...)
	return r
}

var (
	defaultRules = DefaultRules()
	mediaWords   = NewNameSet(mediaKeywords...)
)

// NeedsSpace reports whether a space must separate prev and curr in the
// output, using the built-in rule sets. See Rules.NeedsSpace.
func NeedsSpace(prev, curr Token, insideCalc bool, lastClosedFunc string, prevPrev *Token, whitespaceSkipped bool) bool {
	return defaultRules.NeedsSpace(prev, curr, insideCalc, lastClosedFunc, prevPrev, whitespaceSkipped)
}

// NeedsSpace reports whether a space must separate prev and curr in the output.
// insideCalc is true within a calc-like call, lastClosedFunc is the function
// closed by the most recent ")" (empty if none), prevPrev is the token before
// prev (nil if none) and whitespaceSkipped tells whether the source had white
// space between prev and curr. The first matching rule decides.
func (r Rules) NeedsSpace(prev, curr Token, insideCalc bool, lastClosedFunc string, prevPrev *Token, whitespaceSkipped bool) bool {
	// "100% - 20px" must not become "100%-20px".
	if insideCalc && (isSign(curr.Text) || isSign(prev.Text)) {
		return true
	}

	if prev.Kind == Word && curr.Kind == Word {
		return true
	}

	if prev.Kind == ParenClose && curr.Kind == Word {
		// A space after ")" in a selector is the descendant combinator.
		if whitespaceSkipped {
			return true
		}
		if r.PseudoClasses.Has(lastClosedFunc) {
			return false
		}
		return true
	}

	if prev.Kind == Word && curr.Kind == ParenOpen {
		kw := strings.ToLower(prev.Text)
		if !mediaWords.Has(kw) {
			return false
		}
		// ":not(" is the pseudo-class, "not (" the media query operator.
		if kw == "not" && prevPrev != nil && prevPrev.Kind == Colon {
			return false
		}
		return true
	}

	return false
}

func isSign(s string) bool { return s == "+" || s == "-" }
