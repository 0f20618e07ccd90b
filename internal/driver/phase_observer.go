package driver

import (
	"time"

	"exprua/internal/trace"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a session phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a phase boundary (lex, parse, eval).
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Err     error
}

// PhaseObserver receives phase events emitted by a Session.
type PhaseObserver func(PhaseEvent)

// phase couples the timer slot, the trace span and the observer of one step.
type phase struct {
	s       *Session
	name    string
	idx     int
	started time.Time
	span    *trace.Span
}

func (s *Session) beginPhase(name string, parent uint64) *phase {
	p := &phase{
		s:       s,
		name:    name,
		idx:     s.opts.Timer.Begin(name),
		started: time.Now(),
		span:    trace.Begin(s.tracer, trace.ScopePhase, name, parent),
	}
	if s.opts.Observer != nil {
		s.opts.Observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	return p
}

func (p *phase) end(note string, err error) {
	p.s.opts.Timer.End(p.idx, note)
	if err != nil {
		p.span.Fail(err)
	} else {
		p.span.End(note)
	}
	if p.s.opts.Observer != nil {
		p.s.opts.Observer(PhaseEvent{Name: p.name, Status: PhaseEnd, Elapsed: time.Since(p.started), Err: err})
	}
}

// endSpan closes a session-scope span with err or detail.
func endSpan(span *trace.Span, detail string, err error) {
	if err != nil {
		span.Fail(err)
		return
	}
	span.End(detail)
}
