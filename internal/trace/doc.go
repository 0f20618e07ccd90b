// Package trace provides a leveled event tracer for the expression engine.
//
// A session opens spans around its phases (lex, parse, eval) and, at the
// debug level, emits a point event per evaluated AST node. Events go to a
// stream (text or NDJSON), to an in-memory ring for post-mortem dumps, or to
// both.
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failed operations
//   - LevelPhase: Session operations and phase boundaries
//   - LevelDetail: Symbol table mutations
//   - LevelDebug: Everything including AST nodes
//
// # Usage
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePhase, "parse", parentID)
//	defer span.End("")
package trace
