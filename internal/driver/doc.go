// Package driver wires the lexer, parser and evaluator into sessions.
//
// A Session owns one symbol table and runs parse/evaluate calls against it
// sequentially; variables bound by one call are visible to the next.
// Sessions share no state, so independent sessions may run on separate
// goroutines (RunBatch does exactly that). A single Session is not safe for
// concurrent use.
package driver
