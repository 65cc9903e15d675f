package ir

import (
	"fmt"
	"strconv"

	"github.com/oisee/tascompile/pkg/diag"
)

var binOpKind = map[string]Kind{
	"+": ADD,
	"-": SUB,
	"*": MUL,
	"/": DIV,
}

// Build turns one tokenized statement into an Instruction, matching the
// three statement shapes the grammar allows:
//
//	tN = LOAD ( addr )              -> LOAD dst, addr
//	STORE ( addr , src )            -> STORE addr, src
//	tN = a OP b                     -> ADD/SUB/MUL/DIV dst, a, b
//	tN = ^ a                        -> SQRT dst, a
//	tN = a                          -> EQ dst, a
func Build(toks []string) (Instruction, error) {
	if len(toks) >= 6 && toks[1] == "=" && toks[2] == "LOAD" && toks[3] == "(" && toks[5] == ")" {
		return Instruction{Kind: LOAD, Dest: toks[0], Addr: toks[4]}, nil
	}
	if len(toks) >= 6 && toks[0] == "STORE" && toks[1] == "(" && toks[3] == "," && toks[5] == ")" {
		return Instruction{Kind: STORE, Addr: toks[2], Args: []string{toks[4]}}, nil
	}
	if containsEq(toks) {
		switch len(toks) {
		case 3:
			return Instruction{Kind: EQ, Dest: toks[0], Args: []string{toks[2]}}, nil
		case 4:
			if toks[2] == "^" {
				return Instruction{Kind: SQRT, Dest: toks[0], Args: []string{toks[3]}}, nil
			}
		case 5:
			if k, ok := binOpKind[toks[3]]; ok {
				return Instruction{Kind: k, Dest: toks[0], Args: []string{toks[2], toks[4]}}, nil
			}
		}
	}
	return Instruction{}, fmt.Errorf("cannot parse statement %v", toks)
}

func containsEq(toks []string) bool {
	for _, t := range toks {
		if t == "=" {
			return true
		}
	}
	return false
}

// BuildAll builds a full Listing from tokenized statements and validates
// that every non-numeric operand is a proper register.
func BuildAll(stmts [][]string) (Listing, error) {
	out := make(Listing, 0, len(stmts))
	for _, toks := range stmts {
		in, err := Build(toks)
		if err != nil {
			return nil, err
		}
		if err := checkOperands(in); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

func checkOperands(in Instruction) error {
	check := func(tok string) error {
		if tok == "" {
			return nil
		}
		if _, err := strconv.ParseFloat(tok, 64); err == nil {
			return nil
		}
		if IsRegister(tok) {
			return nil
		}
		return &diag.RegisterFormatError{Instruction: in.Text(), Operand: tok}
	}
	if in.Kind != STORE && in.Kind != NOP && in.Dest != "" {
		if !IsRegister(in.Dest) {
			return &diag.RegisterFormatError{Instruction: in.Text(), Operand: in.Dest}
		}
	}
	for _, a := range in.Args {
		if err := check(a); err != nil {
			return err
		}
	}
	return nil
}
