// Package eval walks a parsed expression tree and computes its value against
// a symbol table.
//
// The walk is post-order: children are evaluated left to right before their
// parent. The only side effect is the binding performed by an assignment.
// Results are never silently NaN or infinite; such outcomes surface as
// diag.DomainError or diag.DivisionByZeroError.
package eval
