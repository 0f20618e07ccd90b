package driver

import (
	"fmt"
	"strconv"

	"exprua/internal/ast"
	"exprua/internal/eval"
	"exprua/internal/lexer"
	"exprua/internal/observ"
	"exprua/internal/parser"
	"exprua/internal/source"
	"exprua/internal/symbols"
	"exprua/internal/token"
	"exprua/internal/trace"
	"exprua/internal/units"
)

// Var is a predefined binding evaluated when a session starts.
type Var struct {
	Name   string
	Source string
}

// Options configure a Session. The zero value is usable.
type Options struct {
	// MaxDepth bounds nesting for both the parser and the evaluator.
	MaxDepth int
	// Precision is the number of significant digits used by Format.
	Precision int
	// CheckArity reports arity errors for built-ins while parsing.
	CheckArity bool
	// Vars are bound in order by NewSession.
	Vars []Var

	Tracer   trace.Tracer
	Parent   uint64 // span the session spans hang under
	Timer    *observ.Timer
	Observer PhaseObserver
}

// Session is one symbol table plus the parser and evaluator bound to it.
type Session struct {
	opts   Options
	table  *symbols.Table
	tracer trace.Tracer

	// результаты последнего Parse, для describe*
	text   *source.Text
	tokens []token.Token
	tree   *ast.Tree
}

// NewSession creates a session with a fresh table and binds opts.Vars.
func NewSession(opts Options) (*Session, error) {
	if opts.Precision <= 0 {
		opts.Precision = units.DefaultPrecision
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	s := &Session{opts: opts, table: symbols.NewTable(), tracer: tracer}
	for _, v := range opts.Vars {
		if err := s.Define(v.Name, v.Source); err != nil {
			return nil, fmt.Errorf("predefined variable %s: %w", v.Name, err)
		}
	}
	s.text, s.tokens, s.tree = nil, nil, nil
	return s, nil
}

// Table exposes the session's symbol table.
func (s *Session) Table() *symbols.Table { return s.table }

// Precision returns the rendering precision in significant digits.
func (s *Session) Precision() int { return s.opts.Precision }

// LastText returns the normalized text of the last Parse call.
func (s *Session) LastText() *source.Text { return s.text }

// LastTokens returns the tokens of the last Parse call, nil if lexing failed.
func (s *Session) LastTokens() []token.Token { return s.tokens }

// LastTree returns the tree of the last successful Parse call.
func (s *Session) LastTree() *ast.Tree { return s.tree }

// Format renders v with the session precision.
func (s *Session) Format(v units.Value) string {
	return v.Format(s.opts.Precision)
}

func (s *Session) parserOptions() parser.Options {
	return parser.Options{MaxDepth: s.opts.MaxDepth, CheckArity: s.opts.CheckArity}
}

// Tokenize lexes src without touching the last-parse state.
func (s *Session) Tokenize(src string) ([]token.Token, error) {
	return lexer.Tokenize(source.NewText(src))
}

// Parse lexes and parses src. The tokens and tree are kept for the describe
// accessors; a failed parse clears the stored tree.
func (s *Session) Parse(src string) (tree *ast.Tree, err error) {
	span := trace.Begin(s.tracer, trace.ScopeSession, "session.parse", s.opts.Parent)
	defer func() { endSpan(span, "", err) }()
	return s.parse(src, span.ID())
}

func (s *Session) parse(src string, parent uint64) (*ast.Tree, error) {
	s.text = source.NewText(src)
	s.tokens = nil
	s.tree = nil

	lex := s.beginPhase("lex", parent)
	toks, err := lexer.Tokenize(s.text)
	lex.end(strconv.Itoa(len(toks))+" tokens", err)
	if err != nil {
		return nil, err
	}
	s.tokens = toks

	parse := s.beginPhase("parse", parent)
	tree, err := parser.Parse(toks, s.table, s.parserOptions())
	note := ""
	if err == nil {
		note = strconv.FormatUint(uint64(tree.Exprs.Len()), 10) + " nodes"
	}
	parse.end(note, err)
	if err != nil {
		return nil, err
	}
	s.tree = tree
	return tree, nil
}

// Evaluate computes tree against the session table.
func (s *Session) Evaluate(tree *ast.Tree) (v units.Value, err error) {
	span := trace.Begin(s.tracer, trace.ScopeSession, "session.evaluate", s.opts.Parent)
	defer func() {
		detail := ""
		if err == nil {
			detail = s.Format(v)
		}
		endSpan(span, detail, err)
	}()
	return s.evaluate(tree, span.ID())
}

func (s *Session) evaluate(tree *ast.Tree, parent uint64) (units.Value, error) {
	ph := s.beginPhase("eval", parent)
	ev := eval.New(s.table, eval.Options{
		MaxDepth: s.opts.MaxDepth,
		Tracer:   s.tracer,
		Parent:   ph.span.ID(),
	})
	v, err := ev.Evaluate(tree)
	ph.end(strconv.Itoa(ev.Nodes())+" nodes", err)
	return v, err
}

// ParseAndEvaluate runs Parse then Evaluate on src.
func (s *Session) ParseAndEvaluate(src string) (units.Value, error) {
	tree, err := s.Parse(src)
	if err != nil {
		return units.Value{}, err
	}
	return s.Evaluate(tree)
}

// Define evaluates the expression src and binds the result to name.
func (s *Session) Define(name, src string) (err error) {
	span := trace.Begin(s.tracer, trace.ScopeSession, "session.define", s.opts.Parent).WithExtra("name", name)
	defer func() { endSpan(span, "", err) }()

	tree, err := s.parse(src, span.ID())
	if err != nil {
		return err
	}
	v, err := s.evaluate(tree, span.ID())
	if err != nil {
		return err
	}
	return s.table.Define(name, v)
}
