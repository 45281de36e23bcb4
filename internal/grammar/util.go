package grammar

import "strconv"

// mustParseFloat parses a NUMBER token's lexeme. The lexer guarantees the
// lexeme is always a valid, finite float64, so a parse failure here would be
// an internal invariant violation rather than a user-facing error.
func mustParseFloat(lexeme string) float64 {
	v, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		panic("grammar: lexer produced an unparsable NUMBER lexeme: " + lexeme)
	}
	return v
}
