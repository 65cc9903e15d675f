package ir

import "testing"

func TestOptimizeConstantFold(t *testing.T) {
	l := mustBuild(t, "t0 = 2 + 3; STORE(x, t0);")
	res := Optimize(l)
	if len(res.Listing) != 1 {
		t.Fatalf("expected 1 instruction after fold, got %d: %+v", len(res.Listing), res.Listing)
	}
	store := res.Listing[0]
	if store.Kind != STORE || store.Args[0] != "5" {
		t.Errorf("expected STORE x, 5, got %+v", store)
	}
}

func TestOptimizePropagateChain(t *testing.T) {
	l := mustBuild(t, "t0 = 4; t1 = t0 * 2; STORE(y, t1);")
	res := Optimize(l)
	if len(res.Listing) != 1 {
		t.Fatalf("expected 1 instruction, got %d: %+v", len(res.Listing), res.Listing)
	}
	store := res.Listing[0]
	if store.Kind != STORE || store.Args[0] != "8" {
		t.Errorf("expected STORE y, 8, got %+v", store)
	}
}

func TestOptimizeDeadCodeRemoved(t *testing.T) {
	l := mustBuild(t, "t0 = LOAD(a); t1 = t0 * t0; t2 = LOAD(b); STORE(c, t1);")
	res := Optimize(l)
	for _, in := range res.Listing {
		if in.Kind == LOAD && in.Addr == "b" {
			t.Errorf("expected unused LOAD(b) to be removed, got %+v", res.Listing)
		}
	}
}

func TestOptimizeSqrtFold(t *testing.T) {
	l := mustBuild(t, "t0 = ^ 16; STORE(z, t0);")
	res := Optimize(l)
	if len(res.Listing) != 1 || res.Listing[0].Args[0] != "4" {
		t.Errorf("expected STORE z, 4, got %+v", res.Listing)
	}
}

func TestOptimizeNoEQSurvives(t *testing.T) {
	l := mustBuild(t, "t0 = 1 + 1; t1 = t0 + 1; STORE(x, t1);")
	res := Optimize(l)
	for _, in := range res.Listing {
		if in.Kind == EQ {
			t.Errorf("expected no EQ instructions to survive, got %+v", res.Listing)
		}
	}
}

func TestDedup(t *testing.T) {
	l := mustBuild(t, "t0 = LOAD(a); STORE(x, t0); STORE(x, t0);")
	// The two STORE(x, t0) statements are literal duplicates; only the first survives.
	decorated, _, _ := Analyze(l)
	deduped := Dedup(decorated)
	stores := 0
	for _, in := range deduped {
		if in.Kind == STORE {
			stores++
		}
	}
	if stores != 1 {
		t.Errorf("expected 1 STORE after dedup, got %d", stores)
	}
}
