package parser

import (
	"exprua/internal/ast"
	"exprua/internal/diag"
	"exprua/internal/lexer"
	"exprua/internal/source"
	"exprua/internal/symbols"
	"exprua/internal/token"
)

// DefaultMaxDepth bounds expression nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 256

type Options struct {
	// MaxDepth limits nesting of parentheses, calls, operators and prefixes.
	MaxDepth int
	// CheckArity rejects calls to known built-ins with the wrong argument
	// count while parsing instead of during evaluation.
	CheckArity bool
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Symbols is the read-only view of the symbol table the parser needs to
// classify identifiers after a unit literal and to validate assignments.
type Symbols interface {
	IsFunction(name string) bool
	IsValue(name string) bool
	Function(name string) (*symbols.Builtin, bool)
}

type noSymbols struct{}

func (noSymbols) IsFunction(string) bool                   { return false }
func (noSymbols) IsValue(string) bool                      { return false }
func (noSymbols) Function(string) (*symbols.Builtin, bool) { return nil, false }

// Parser: состояние парсера на одно выражение
type Parser struct {
	toks       []token.Token
	pos        int
	arenas     *ast.Builder
	syms       Symbols
	opts       Options
	depth      int
	parenDepth int
}

// ParseSource tokenizes and parses text in one step.
func ParseSource(text *source.Text, syms Symbols, opts Options) (*ast.Tree, error) {
	toks, err := lexer.Tokenize(text)
	if err != nil {
		return nil, err
	}
	return Parse(toks, syms, opts)
}

// Parse builds the tree for exactly one top-level form: an expression or
// `identifier = expression`. toks must end with an EOF token. syms may be nil.
func Parse(toks []token.Token, syms Symbols, opts Options) (*ast.Tree, error) {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		toks = append(toks, token.Token{Kind: token.EOF, Span: endSpan(toks)})
	}
	if syms == nil {
		syms = noSymbols{}
	}
	p := Parser{
		toks:   toks,
		arenas: ast.NewBuilder(ast.Hints{Exprs: uint(len(toks))}),
		syms:   syms,
		opts:   opts,
	}
	root, err := p.parseTop()
	if err != nil {
		return nil, err
	}
	return &ast.Tree{Builder: p.arenas, Root: root}, nil
}

func endSpan(toks []token.Token) source.Span {
	if len(toks) == 0 {
		return source.At(0)
	}
	return source.At(toks[len(toks)-1].Span.End)
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// advance съедает текущий токен; EOF не съедается
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) span(id ast.ExprID) source.Span {
	return p.arenas.Exprs.Get(id).Span
}

func (p *Parser) enter(at source.Span) error {
	p.depth++
	if p.depth > p.opts.maxDepth() {
		return &diag.DepthLimitError{Limit: p.opts.maxDepth(), AtParse: true, Pos: at}
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// parseTop разбирает `name = expr` или выражение и требует конец ввода.
func (p *Parser) parseTop() (ast.ExprID, error) {
	if p.at(token.Ident) && p.peekN(1).Kind == token.Assign {
		nameTok := p.advance()
		if p.syms.IsFunction(nameTok.Text) {
			return ast.NoExprID, &diag.ReservedNameError{Name: nameTok.Text, Pos: nameTok.Span, AtParse: true}
		}
		p.advance() // '='
		value, err := p.parseExpr()
		if err != nil {
			return ast.NoExprID, err
		}
		if err := p.expectEnd(); err != nil {
			return ast.NoExprID, err
		}
		name := p.arenas.StringsInterner.Intern(nameTok.Text)
		sp := nameTok.Span.Cover(p.span(value))
		return p.arenas.Exprs.NewAssign(sp, name, nameTok.Span, value), nil
	}

	expr, err := p.parseExpr()
	if err != nil {
		return ast.NoExprID, err
	}
	if err := p.expectEnd(); err != nil {
		return ast.NoExprID, err
	}
	return expr, nil
}

func (p *Parser) expectEnd() error {
	tok := p.peek()
	switch tok.Kind {
	case token.EOF:
		return nil
	case token.RParen:
		return &diag.UnmatchedParenError{Pos: tok.Span, Open: false}
	case token.Assign:
		// присваивание допустимо только как `identifier = ...` на верхнем уровне
		return &diag.SyntaxError{
			Expected: "end of input (assignment target must be a bare identifier)",
			Found:    tok.Describe(),
			Pos:      tok.Span,
		}
	default:
		return &diag.TrailingTokensError{Found: tok.Describe(), Pos: tok.Span}
	}
}
