package ir

import "strings"

// operatorChars break a token and are themselves emitted as single-char
// tokens; parenChars (parentheses, comma and '=') likewise break and are
// emitted; space is a discarded delimiter. This mirrors the source
// language's tiny fixed grammar exactly.
const operatorChars = "*/+-^"
const parenChars = "(),="

// Tokenize splits source text into one token list per ';'-terminated
// statement. The final trailing segment after the last ';' is discarded
// (matching the reference tokenizer's behavior for a trailing-semicolon
// program).
func Tokenize(source string) [][]string {
	statements := strings.Split(source, ";")
	if len(statements) > 0 {
		statements = statements[:len(statements)-1]
	}
	out := make([][]string, 0, len(statements))
	for _, stmt := range statements {
		out = append(out, tokenizeStatement(stmt))
	}
	return out
}

func tokenizeStatement(stmt string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, ch := range stmt {
		switch {
		case ch == ' ':
			flush()
		case strings.ContainsRune(parenChars, ch):
			flush()
			toks = append(toks, string(ch))
		case strings.ContainsRune(operatorChars, ch):
			flush()
			toks = append(toks, string(ch))
		default:
			cur.WriteRune(ch)
		}
	}
	flush()
	return toks
}
