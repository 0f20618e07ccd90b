package parser

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"exprua/internal/ast"
	"exprua/internal/diag"
	"exprua/internal/source"
	"exprua/internal/token"
	"exprua/internal/units"
)

// parseExpr - главная точка входа для парсинга выражений
func (p *Parser) parseExpr() (ast.ExprID, error) {
	return p.parseBinaryExpr(0) // минимальный приоритет = 0
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов
// minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, error) {
	if err := p.enter(p.peek().Span); err != nil {
		return ast.NoExprID, err
	}
	defer p.leave()

	left, err := p.parseUnaryExpr()
	if err != nil {
		return ast.NoExprID, err
	}

	for {
		bop, ok := lookupBinary(p.peek().Kind)
		if !ok || bop.prec < minPrec {
			break
		}
		p.advance()

		nextMinPrec := bop.prec + 1
		if bop.right {
			nextMinPrec = bop.prec
		}
		right, err := p.parseBinaryExpr(nextMinPrec)
		if err != nil {
			return ast.NoExprID, err
		}
		sp := p.span(left).Cover(p.span(right))
		left = p.arenas.Exprs.NewBinary(sp, bop.op, left, right)
	}
	return left, nil
}

// parseUnaryExpr собирает префиксы и применяет их справа налево
func (p *Parser) parseUnaryExpr() (ast.ExprID, error) {
	type prefixOp struct {
		op   ast.ExprUnaryOp
		span source.Span
	}
	var prefixes []prefixOp
	for {
		op, ok := lookupUnary(p.peek().Kind)
		if !ok {
			break
		}
		opTok := p.advance()
		if err := p.enter(opTok.Span); err != nil {
			return ast.NoExprID, err
		}
		defer p.leave()
		prefixes = append(prefixes, prefixOp{op: op, span: opTok.Span})
	}

	expr, err := p.parsePrimaryExpr()
	if err != nil {
		return ast.NoExprID, err
	}
	for i := len(prefixes) - 1; i >= 0; i-- {
		finalSpan := prefixes[i].span.Cover(p.span(expr))
		expr = p.arenas.Exprs.NewUnary(finalSpan, prefixes[i].op, expr)
	}
	return expr, nil
}

func (p *Parser) parsePrimaryExpr() (ast.ExprID, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.Number:
		return p.parseNumberLit()
	case token.Ident:
		if p.peekN(1).Kind == token.LParen {
			return p.parseCallExpr()
		}
		p.advance()
		name := p.arenas.StringsInterner.Intern(tok.Text)
		return p.arenas.Exprs.NewIdent(tok.Span, name), nil
	case token.LParen:
		return p.parseGroupExpr()
	case token.RParen:
		if p.parenDepth == 0 {
			return ast.NoExprID, &diag.UnmatchedParenError{Pos: tok.Span, Open: false}
		}
	}
	return ast.NoExprID, &diag.SyntaxError{Expected: "expression", Found: tok.Describe(), Pos: tok.Span}
}

// parseGroupExpr разбирает ( expr ); отдельный узел группы не создаётся.
func (p *Parser) parseGroupExpr() (ast.ExprID, error) {
	open := p.advance()
	p.parenDepth++
	defer func() { p.parenDepth-- }()

	inner, err := p.parseExpr()
	if err != nil {
		return ast.NoExprID, err
	}
	if err := p.expectClose(open); err != nil {
		return ast.NoExprID, err
	}
	return inner, nil
}

func (p *Parser) expectClose(open token.Token) error {
	tok := p.peek()
	switch tok.Kind {
	case token.RParen:
		p.advance()
		return nil
	case token.EOF:
		return &diag.UnmatchedParenError{Pos: open.Span, Open: true}
	default:
		return &diag.SyntaxError{Expected: "')'", Found: tok.Describe(), Pos: tok.Span}
	}
}

// parseCallExpr разбирает name(arg, ...)
func (p *Parser) parseCallExpr() (ast.ExprID, error) {
	nameTok := p.advance()
	open := p.advance()
	if err := p.enter(open.Span); err != nil {
		return ast.NoExprID, err
	}
	defer p.leave()
	p.parenDepth++
	defer func() { p.parenDepth-- }()

	var args []ast.ExprID
	if !p.at(token.RParen) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return ast.NoExprID, err
			}
			args = append(args, arg)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	closeTok := p.peek()
	switch closeTok.Kind {
	case token.RParen:
		p.advance()
	case token.EOF:
		return ast.NoExprID, &diag.UnmatchedParenError{Pos: open.Span, Open: true}
	default:
		return ast.NoExprID, &diag.SyntaxError{Expected: "',' or ')'", Found: closeTok.Describe(), Pos: closeTok.Span}
	}

	sp := nameTok.Span.Cover(closeTok.Span)
	if p.opts.CheckArity {
		if fn, ok := p.syms.Function(nameTok.Text); ok && !fn.Accepts(len(args)) {
			return ast.NoExprID, &diag.ArityError{
				Name:     fn.Name,
				Expected: fn.Arity,
				Variadic: fn.Variadic,
				Got:      len(args),
				Pos:      sp,
			}
		}
	}
	name := p.arenas.StringsInterner.Intern(nameTok.Text)
	return p.arenas.Exprs.NewCall(sp, name, nameTok.Span, args), nil
}

// parseNumberLit разбирает число и, если сразу за ним идёт идентификатор,
// единицу измерения: 9.8 m/s^2, 5 kg, 3 m^(1/2).
func (p *Parser) parseNumberLit() (ast.ExprID, error) {
	numTok := p.advance()
	mag, err := strconv.ParseFloat(strings.ReplaceAll(numTok.Text, "_", ""), 64)
	if err != nil || math.IsInf(mag, 0) {
		return ast.NoExprID, &diag.LexError{Pos: numTok.Span, Detail: "number literal out of range"}
	}
	if !p.at(token.Ident) {
		return p.arenas.Exprs.NewLiteral(numTok.Span, units.Scalar(mag), numTok.Text, ""), nil
	}

	terms, spans, err := p.parseUnitTerms()
	if err != nil {
		return ast.NoExprID, err
	}
	unit, err := units.Compose(terms)
	if err != nil {
		var unknown *units.UnknownError
		if errors.As(err, &unknown) {
			return ast.NoExprID, &diag.UnknownUnitError{Name: unknown.Name, Pos: spans[unknown.Index]}
		}
		return ast.NoExprID, &diag.UnitMismatchError{
			Expected: "rational exponent",
			Context:  "unit literal",
			Pos:      numTok.Span.Cover(spans[len(spans)-1]),
		}
	}
	sp := numTok.Span.Cover(spans[len(spans)-1])
	return p.arenas.Exprs.NewLiteral(sp, units.Of(mag, unit), numTok.Text, units.FormatTerms(terms)), nil
}
