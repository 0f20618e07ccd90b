package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeSession covers one parse/evaluate/define call on a session.
	ScopeSession Scope = iota + 1
	// ScopePhase covers lex, parse and eval inside a session call.
	ScopePhase
	// ScopeSymbol covers symbol table mutations.
	ScopeSymbol
	// ScopeNode covers individual AST node evaluation.
	ScopeNode
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeSession:
		return "session"
	case ScopePhase:
		return "phase"
	case ScopeSymbol:
		return "symbol"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event is one trace record. Dur is set on span ends only.
type Event struct {
	Time     time.Time
	Seq      uint64 // process-wide, increasing
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // 0 for points
	ParentID uint64
	Name     string // "session.parse", "lex", "node", ...
	Detail   string
	Dur      time.Duration
	Failed   bool
	Extra    map[string]string
}
