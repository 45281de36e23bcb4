// Package grammar defines the fixed 36-production expression grammar (§3,
// §4.2) as data: terminals, non-terminals, productions, and per-production
// AST builders. It also computes FIRST and FOLLOW sets, the inputs an SLR(1)
// table construction needs, for the grammar once at process start.
//
// By convention (matching internal/ictiobus/grammar in the teacher),
// terminal symbols are all-lowercase and non-terminal symbols are not: a
// symbol's own spelling says which it is.
package grammar

import (
	"github.com/ashgrove/formulang/internal/ast"
	"github.com/ashgrove/formulang/internal/lex"
)

// EndOfInput is the terminal symbol for the lexer's EOF sentinel.
const EndOfInput = "$"

// Augmented start symbol, used internally by the SLR(1) table constructor.
const AugmentedStart = "Expr'"

const StartSymbol = "Expr"

// StackValue is what the parser keeps on its node stack: either a shifted
// terminal's token, or the AST fragment a previous reduction produced.
type StackValue struct {
	Token *lex.Token
	Node  *ast.Node
}

// Builder maps a production's matched right-hand-side values to a new AST
// fragment (§3: "Each rule carries a builder that maps matched children to
// an AST node").
type Builder func(rhs []StackValue) *ast.Node

// Production is one grammar rule: a left-hand non-terminal, a right-hand
// sequence of symbols, and the builder that assembles its AST node.
type Production struct {
	LHS     string
	RHS     []string
	Build   Builder
	comment string // rule description, shown in traces and table dumps
}

// Grammar bundles a fixed production list with derived terminal/non-terminal
// sets. The zero value is not useful; use New().
type Grammar struct {
	Productions []Production
	terminals   []string
	nonTerms    []string
}

func (g Grammar) IsTerminal(sym string) bool {
	for _, t := range g.terminals {
		if t == sym {
			return true
		}
	}
	return sym == EndOfInput
}

func (g Grammar) Terminals() []string    { return g.terminals }
func (g Grammar) NonTerminals() []string { return g.nonTerms }

// symForKind maps a lexer token kind to its terminal symbol spelling.
func symForKind(k lex.Kind) string {
	switch k {
	case lex.NUMBER:
		return "number"
	case lex.IDENTIFIER, lex.VARIABLE:
		return "identifier"
	case lex.TRUE:
		return "true"
	case lex.FALSE:
		return "false"
	case lex.IF:
		return "if"
	case lex.PLUS:
		return "plus"
	case lex.MINUS:
		return "minus"
	case lex.STAR:
		return "star"
	case lex.SLASH:
		return "slash"
	case lex.PERCENT:
		return "percent"
	case lex.CARET:
		return "caret"
	case lex.EQ:
		return "eq"
	case lex.NEQ:
		return "neq"
	case lex.LT:
		return "lt"
	case lex.LEQ:
		return "leq"
	case lex.GT:
		return "gt"
	case lex.GEQ:
		return "geq"
	case lex.AND:
		return "and"
	case lex.OR:
		return "or"
	case lex.NOT:
		return "not"
	case lex.LPAREN:
		return "lparen"
	case lex.RPAREN:
		return "rparen"
	case lex.COMMA:
		return "comma"
	case lex.EOF:
		return EndOfInput
	default:
		return "?"
	}
}

// SymbolForToken returns the terminal symbol the grammar uses for a given
// lexed token. Exported for use by the parser, which drives Action/Goto
// lookups from the live token stream.
func SymbolForToken(t lex.Token) string { return symForKind(t.Kind) }

var allTerminals = []string{
	"number", "identifier", "true", "false", "if",
	"plus", "minus", "star", "slash", "percent", "caret",
	"eq", "neq", "lt", "leq", "gt", "geq",
	"and", "or", "not",
	"lparen", "rparen", "comma",
}

var allNonTerminals = []string{
	"Expr", "OrExpr", "AndExpr", "EqExpr", "RelExpr",
	"AddExpr", "MulExpr", "PowExpr", "UnaryExpr", "Primary", "ArgList",
}

// node pulls the single ast.Node out of a reduced non-terminal stack value.
func node(v StackValue) *ast.Node { return v.Node }

func pos(v StackValue) lex.Position {
	if v.Token != nil {
		return v.Token.Position
	}
	if v.Node != nil {
		return v.Node.Position
	}
	return lex.Position{}
}

// passthrough builds the identity production LHS -> RHS (a single
// non-terminal), simply forwarding the child AST node unchanged.
func passthrough(rhs []StackValue) *ast.Node { return node(rhs[0]) }

func leftAssocBinary(opLexeme string) Builder {
	return func(rhs []StackValue) *ast.Node {
		return ast.NewBinary(opLexeme, node(rhs[0]), node(rhs[2]), pos(rhs[0]))
	}
}

// New constructs the fixed formula-expression grammar.
func New() Grammar {
	g := Grammar{terminals: allTerminals, nonTerms: allNonTerminals}

	g.Productions = []Production{
		// Expr
		{LHS: "Expr", RHS: []string{"OrExpr"}, Build: passthrough, comment: "Expr -> OrExpr"},

		// OrExpr (||, lowest precedence)
		{LHS: "OrExpr", RHS: []string{"OrExpr", "or", "AndExpr"}, Build: leftAssocBinary("||"), comment: "OrExpr -> OrExpr || AndExpr"},
		{LHS: "OrExpr", RHS: []string{"AndExpr"}, Build: passthrough, comment: "OrExpr -> AndExpr"},

		// AndExpr (&&)
		{LHS: "AndExpr", RHS: []string{"AndExpr", "and", "EqExpr"}, Build: leftAssocBinary("&&"), comment: "AndExpr -> AndExpr && EqExpr"},
		{LHS: "AndExpr", RHS: []string{"EqExpr"}, Build: passthrough, comment: "AndExpr -> EqExpr"},

		// EqExpr (==, !=)
		{LHS: "EqExpr", RHS: []string{"EqExpr", "eq", "RelExpr"}, Build: leftAssocBinary("=="), comment: "EqExpr -> EqExpr == RelExpr"},
		{LHS: "EqExpr", RHS: []string{"EqExpr", "neq", "RelExpr"}, Build: leftAssocBinary("!="), comment: "EqExpr -> EqExpr != RelExpr"},
		{LHS: "EqExpr", RHS: []string{"RelExpr"}, Build: passthrough, comment: "EqExpr -> RelExpr"},

		// RelExpr (<, <=, >, >=)
		{LHS: "RelExpr", RHS: []string{"RelExpr", "lt", "AddExpr"}, Build: leftAssocBinary("<"), comment: "RelExpr -> RelExpr < AddExpr"},
		{LHS: "RelExpr", RHS: []string{"RelExpr", "leq", "AddExpr"}, Build: leftAssocBinary("<="), comment: "RelExpr -> RelExpr <= AddExpr"},
		{LHS: "RelExpr", RHS: []string{"RelExpr", "gt", "AddExpr"}, Build: leftAssocBinary(">"), comment: "RelExpr -> RelExpr > AddExpr"},
		{LHS: "RelExpr", RHS: []string{"RelExpr", "geq", "AddExpr"}, Build: leftAssocBinary(">="), comment: "RelExpr -> RelExpr >= AddExpr"},
		{LHS: "RelExpr", RHS: []string{"AddExpr"}, Build: passthrough, comment: "RelExpr -> AddExpr"},

		// AddExpr (+, -)
		{LHS: "AddExpr", RHS: []string{"AddExpr", "plus", "MulExpr"}, Build: leftAssocBinary("+"), comment: "AddExpr -> AddExpr + MulExpr"},
		{LHS: "AddExpr", RHS: []string{"AddExpr", "minus", "MulExpr"}, Build: leftAssocBinary("-"), comment: "AddExpr -> AddExpr - MulExpr"},
		{LHS: "AddExpr", RHS: []string{"MulExpr"}, Build: passthrough, comment: "AddExpr -> MulExpr"},

		// MulExpr (*, /, %)
		{LHS: "MulExpr", RHS: []string{"MulExpr", "star", "PowExpr"}, Build: leftAssocBinary("*"), comment: "MulExpr -> MulExpr * PowExpr"},
		{LHS: "MulExpr", RHS: []string{"MulExpr", "slash", "PowExpr"}, Build: leftAssocBinary("/"), comment: "MulExpr -> MulExpr / PowExpr"},
		{LHS: "MulExpr", RHS: []string{"MulExpr", "percent", "PowExpr"}, Build: leftAssocBinary("%"), comment: "MulExpr -> MulExpr % PowExpr"},
		{LHS: "MulExpr", RHS: []string{"PowExpr"}, Build: passthrough, comment: "MulExpr -> PowExpr"},

		// PowExpr (^, right-associative)
		{LHS: "PowExpr", RHS: []string{"UnaryExpr", "caret", "PowExpr"}, Build: func(rhs []StackValue) *ast.Node {
			return ast.NewBinary("^", node(rhs[0]), node(rhs[2]), pos(rhs[0]))
		}, comment: "PowExpr -> UnaryExpr ^ PowExpr"},
		{LHS: "PowExpr", RHS: []string{"UnaryExpr"}, Build: passthrough, comment: "PowExpr -> UnaryExpr"},

		// UnaryExpr (+, -, !)
		{LHS: "UnaryExpr", RHS: []string{"plus", "UnaryExpr"}, Build: func(rhs []StackValue) *ast.Node {
			return ast.NewUnary("+", node(rhs[1]), pos(rhs[0]))
		}, comment: "UnaryExpr -> + UnaryExpr"},
		{LHS: "UnaryExpr", RHS: []string{"minus", "UnaryExpr"}, Build: func(rhs []StackValue) *ast.Node {
			return ast.NewUnary("-", node(rhs[1]), pos(rhs[0]))
		}, comment: "UnaryExpr -> - UnaryExpr"},
		{LHS: "UnaryExpr", RHS: []string{"not", "UnaryExpr"}, Build: func(rhs []StackValue) *ast.Node {
			return ast.NewUnary("!", node(rhs[1]), pos(rhs[0]))
		}, comment: "UnaryExpr -> ! UnaryExpr"},
		{LHS: "UnaryExpr", RHS: []string{"Primary"}, Build: passthrough, comment: "UnaryExpr -> Primary"},

		// Primary
		{LHS: "Primary", RHS: []string{"lparen", "Expr", "rparen"}, Build: func(rhs []StackValue) *ast.Node {
			return node(rhs[1])
		}, comment: "Primary -> ( Expr )"},
		{LHS: "Primary", RHS: []string{"number"}, Build: func(rhs []StackValue) *ast.Node {
			return ast.NewNumber(mustParseFloat(rhs[0].Token.Lexeme), pos(rhs[0]))
		}, comment: "Primary -> NUMBER"},
		{LHS: "Primary", RHS: []string{"true"}, Build: func(rhs []StackValue) *ast.Node {
			return ast.NewBool(true, pos(rhs[0]))
		}, comment: "Primary -> TRUE"},
		{LHS: "Primary", RHS: []string{"false"}, Build: func(rhs []StackValue) *ast.Node {
			return ast.NewBool(false, pos(rhs[0]))
		}, comment: "Primary -> FALSE"},
		{LHS: "Primary", RHS: []string{"identifier"}, Build: func(rhs []StackValue) *ast.Node {
			return ast.NewVariable(rhs[0].Token.Lexeme, pos(rhs[0]))
		}, comment: "Primary -> IDENTIFIER (variable reference)"},
		{LHS: "Primary", RHS: []string{"identifier", "lparen", "ArgList", "rparen"}, Build: func(rhs []StackValue) *ast.Node {
			var args []*ast.Node
			if arglist := node(rhs[2]); arglist != nil {
				args = arglist.Children
			}
			return ast.NewFunctionCall(rhs[0].Token.Lexeme, args, pos(rhs[0]))
		}, comment: "Primary -> IDENTIFIER ( ArgList )"},
		{LHS: "Primary", RHS: []string{"if", "lparen", "Expr", "comma", "Expr", "comma", "Expr", "rparen"}, Build: func(rhs []StackValue) *ast.Node {
			return ast.NewIf(node(rhs[2]), node(rhs[4]), node(rhs[6]), pos(rhs[0]))
		}, comment: "Primary -> IF ( Expr , Expr , Expr )"},

		// ArgList (transient; builds an Arguments node, never seen past the
		// enclosing Primary -> IDENTIFIER ( ArgList ) reduction)
		{LHS: "ArgList", RHS: []string{}, Build: func(rhs []StackValue) *ast.Node {
			return ast.NewArguments(nil, lex.Position{})
		}, comment: "ArgList -> epsilon"},
		{LHS: "ArgList", RHS: []string{"Expr"}, Build: func(rhs []StackValue) *ast.Node {
			return ast.NewArguments([]*ast.Node{node(rhs[0])}, pos(rhs[0]))
		}, comment: "ArgList -> Expr"},
		{LHS: "ArgList", RHS: []string{"ArgList", "comma", "Expr"}, Build: func(rhs []StackValue) *ast.Node {
			prior := node(rhs[0])
			return ast.NewArguments(append(append([]*ast.Node{}, prior.Children...), node(rhs[2])), pos(rhs[0]))
		}, comment: "ArgList -> ArgList , Expr"},
	}

	return g
}
