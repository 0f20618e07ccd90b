package parser

import (
	"strconv"
	"strings"

	"exprua/internal/source"
	"exprua/internal/token"
	"exprua/internal/units"
)

// parseUnitTerms разбирает суффикс единицы после числа:
//
//	unit := term (('*' | '/') term)*
//	term := ident ('^' exponent)?
//	exponent := ['-'] number | '(' ['-'] number ['/' number] ')'
//
// The first identifier is always a unit. Later terms are taken only when the
// identifier after '*' or '/' is a known unit not shadowed by a variable or
// function, so `5 m / t` divides by the variable t. A '^' that is not
// followed by a literal exponent ends the unit and applies to the literal.
func (p *Parser) parseUnitTerms() ([]units.Term, []source.Span, error) {
	var (
		terms []units.Term
		spans []source.Span
	)
	first := true
	for {
		div := false
		if !first {
			op := p.peek()
			if op.Kind != token.Star && op.Kind != token.Slash {
				break
			}
			next := p.peekN(1)
			if next.Kind != token.Ident || !p.isUnitContinuation(next.Text) || p.peekN(2).Kind == token.LParen {
				break
			}
			p.advance()
			div = op.Kind == token.Slash
		}
		first = false

		nameTok := p.advance()
		term := units.Term{Div: div, Name: nameTok.Text, Exp: units.Int(1)}
		sp := nameTok.Span
		if exp, end, ok := p.tryUnitExponent(); ok {
			term.Exp = exp
			sp = sp.Cover(end)
		}
		terms = append(terms, term)
		spans = append(spans, sp)
	}
	return terms, spans, nil
}

func (p *Parser) isUnitContinuation(name string) bool {
	return units.IsUnit(name) && !p.syms.IsValue(name) && !p.syms.IsFunction(name)
}

// tryUnitExponent съедает ^exponent только если он целиком литеральный.
func (p *Parser) tryUnitExponent() (units.Rat, source.Span, bool) {
	if !p.at(token.Caret) {
		return units.Rat{}, source.Span{}, false
	}
	i := 1
	paren := p.peekN(i).Kind == token.LParen
	if paren {
		i++
	}
	neg := p.peekN(i).Kind == token.Minus
	if neg {
		i++
	}
	numTok := p.peekN(i)
	if numTok.Kind != token.Number {
		return units.Rat{}, source.Span{}, false
	}
	i++
	den := int64(1)
	if paren {
		if p.peekN(i).Kind == token.Slash && p.peekN(i+1).Kind == token.Number {
			d, err := strconv.ParseInt(p.peekN(i+1).Text, 10, 64)
			if err != nil || d == 0 {
				return units.Rat{}, source.Span{}, false
			}
			den = d
			i += 2
		}
		if p.peekN(i).Kind != token.RParen {
			return units.Rat{}, source.Span{}, false
		}
		i++
	}

	num, ok := parseExponentNumber(numTok.Text)
	if !ok {
		return units.Rat{}, source.Span{}, false
	}
	exp, ok := num.Mul(units.NewRat(1, den))
	if !ok {
		return units.Rat{}, source.Span{}, false
	}
	if neg {
		exp = exp.Neg()
	}
	var last token.Token
	for range i {
		last = p.advance()
	}
	return exp, last.Span, true
}

// parseExponentNumber accepts integer literals and decimals that are small
// rationals (0.5 is 1/2).
func parseExponentNumber(text string) (units.Rat, bool) {
	text = strings.ReplaceAll(text, "_", "")
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return units.Int(n), true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return units.Rat{}, false
	}
	return units.RatFromFloat(f, 64)
}
