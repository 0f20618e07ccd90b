package driver

import (
	"strings"

	"exprua/internal/ast"
	"exprua/internal/diagfmt"
	"exprua/internal/source"
	"exprua/internal/token"
)

// DescribeTokens lexes src and lists its tokens, one per line.
func (s *Session) DescribeTokens(src string) (string, error) {
	text := source.NewText(src)
	toks, err := s.Tokenize(src)
	if err != nil {
		return "", err
	}
	return describeTokens(toks, text), nil
}

// DescribeLastTokens lists the tokens of the last Parse call.
func (s *Session) DescribeLastTokens() string {
	if s.tokens == nil {
		return ""
	}
	return describeTokens(s.tokens, s.text)
}

func describeTokens(toks []token.Token, text *source.Text) string {
	var sb strings.Builder
	// strings.Builder не возвращает ошибок записи
	_ = diagfmt.FormatTokensPretty(&sb, toks, text)
	return sb.String()
}

// DescribeAst renders tree as an indented outline. A nil tree renders as "".
func (s *Session) DescribeAst(tree *ast.Tree) string {
	if tree == nil || !tree.Root.IsValid() {
		return ""
	}
	var sb strings.Builder
	_ = diagfmt.FormatASTPretty(&sb, tree)
	return sb.String()
}

// DescribeSymbolTable lists every value binding with its kind and unit.
func (s *Session) DescribeSymbolTable() string {
	var sb strings.Builder
	_ = diagfmt.FormatSymbolsPretty(&sb, s.table, s.opts.Precision)
	return sb.String()
}
