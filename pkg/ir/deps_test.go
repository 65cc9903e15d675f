package ir

import "testing"

func mustBuild(t *testing.T, src string) Listing {
	t.Helper()
	stmts := Tokenize(src)
	l, err := BuildAll(stmts)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	return l
}

func TestAnalyzeTopological(t *testing.T) {
	l := mustBuild(t, "t0 = LOAD(a); t1 = LOAD(b); t2 = t0 + t1; STORE(c, t2);")
	decorated, _, _ := Analyze(l)
	for i, in := range decorated {
		for _, p := range in.Preds {
			if p >= i {
				t.Errorf("instruction %d has predecessor %d (not strictly less)", i, p)
			}
		}
	}
	// t2 = t0 + t1 depends on both loads.
	if got := decorated[2].Preds; len(got) != 2 {
		t.Errorf("expected 2 preds for t2, got %v", got)
	}
}

func TestAnalyzeWAR(t *testing.T) {
	// t0 is read by the STORE, then later an unrelated instruction writes t0
	// again: the later write must depend (WAR) on the STORE having read it.
	l := mustBuild(t, "t0 = LOAD(a); STORE(x, t0); t0 = LOAD(b); STORE(y, t0);")
	decorated, _, _ := Analyze(l)
	// instruction 2 (second LOAD into t0) must list instruction 1 (the STORE) as a predecessor.
	found := false
	for _, p := range decorated[2].Preds {
		if p == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected WAR predecessor 1 on instruction 2, got %v", decorated[2].Preds)
	}
}
