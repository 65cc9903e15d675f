package ir

import "testing"

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want [][]string
	}{
		{
			name: "load",
			src:  "t0 = LOAD(a);",
			want: [][]string{{"t0", "=", "LOAD", "(", "a", ")"}},
		},
		{
			name: "store",
			src:  "STORE(c, t2);",
			want: [][]string{{"STORE", "(", "c", ",", "t2", ")"}},
		},
		{
			name: "binop",
			src:  "t2 = t0 + t1;",
			want: [][]string{{"t2", "=", "t0", "+", "t1"}},
		},
		{
			name: "sqrt",
			src:  "t0 = ^ 16;",
			want: [][]string{{"t0", "=", "^", "16"}},
		},
		{
			name: "multi statement trailing discarded",
			src:  "t0 = LOAD(a); STORE(b, t0);trailing junk",
			want: [][]string{
				{"t0", "=", "LOAD", "(", "a", ")"},
				{"STORE", "(", "b", ",", "t0", ")"},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Tokenize(c.src)
			if len(got) != len(c.want) {
				t.Fatalf("got %d statements, want %d: %v", len(got), len(c.want), got)
			}
			for i := range got {
				if !equalStrs(got[i], c.want[i]) {
					t.Errorf("stmt %d: got %v, want %v", i, got[i], c.want[i])
				}
			}
		})
	}
}

func equalStrs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuild(t *testing.T) {
	cases := []struct {
		name string
		toks []string
		want Instruction
	}{
		{"load", []string{"t0", "=", "LOAD", "(", "a", ")"}, Instruction{Kind: LOAD, Dest: "t0", Addr: "a"}},
		{"store", []string{"STORE", "(", "c", ",", "t2", ")"}, Instruction{Kind: STORE, Addr: "c", Args: []string{"t2"}}},
		{"add", []string{"t2", "=", "t0", "+", "t1"}, Instruction{Kind: ADD, Dest: "t2", Args: []string{"t0", "t1"}}},
		{"sqrt", []string{"t0", "=", "^", "16"}, Instruction{Kind: SQRT, Dest: "t0", Args: []string{"16"}}},
		{"copy", []string{"t0", "=", "4"}, Instruction{Kind: EQ, Dest: "t0", Args: []string{"4"}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Build(c.toks)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if !got.Equal(c.want) {
				t.Errorf("got %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestBuildAllRejectsBadRegister(t *testing.T) {
	stmts := Tokenize("x0 = LOAD(a);")
	_, err := BuildAll(stmts)
	if err == nil {
		t.Fatal("expected error for non-register destination")
	}
}
