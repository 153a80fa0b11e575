package minify

import "testing"

func TestTracker(t *testing.T) {
	t.Parallel()
	tr := newTracker(CalcFunctions())
	calc := tk(Word, "CALC")
	tr.open(&calc)
	if !tr.insideCalc() || tr.depth() != 1 {
		t.Fatalf("after calc(: insideCalc=%v depth=%d", tr.insideCalc(), tr.depth())
	}
	// Grouping paren inside calc keeps calc context.
	tr.open(nil)
	if tr.calcDepth != 2 {
		t.Errorf("calcDepth = %d, want 2", tr.calcDepth)
	}
	tr.close()
	if tr.lastClosed != noFunc || !tr.insideCalc() {
		t.Errorf("after inner ): lastClosed=%q insideCalc=%v", tr.lastClosed, tr.insideCalc())
	}
	tr.close()
	if tr.lastClosed != "calc" || tr.insideCalc() || tr.depth() != 0 {
		t.Errorf("after outer ): lastClosed=%q insideCalc=%v depth=%d", tr.lastClosed, tr.insideCalc(), tr.depth())
	}
}

func TestTracker_nonCalcFunction(t *testing.T) {
	t.Parallel()
	tr := newTracker(CalcFunctions())
	not := tk(Word, "not")
	tr.open(&not)
	if tr.insideCalc() {
		t.Error("not( should not enter calc context")
	}
	tr.close()
	if tr.lastClosed != "not" {
		t.Errorf("lastClosed = %q, want not", tr.lastClosed)
	}
}

func TestTracker_parenAfterNonWord(t *testing.T) {
	t.Parallel()
	tr := newTracker(CalcFunctions())
	colon := tk(Colon, ":")
	tr.open(&colon)
	if tr.stack[0] != noFunc {
		t.Errorf("stack[0] = %q, want no function", tr.stack[0])
	}
}

func TestTracker_unmatchedClose(t *testing.T) {
	t.Parallel()
	tr := newTracker(CalcFunctions())
	url := tk(Word, "url")
	tr.open(&url)
	tr.close()
	tr.close()
	if tr.lastClosed != noFunc {
		t.Errorf("lastClosed = %q, want no function", tr.lastClosed)
	}
	if tr.calcDepth != 0 || tr.depth() != 0 {
		t.Errorf("calcDepth=%d depth=%d, want 0, 0", tr.calcDepth, tr.depth())
	}
}
