package diag

import (
	"errors"

	"exprua/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	// Origin names the input the diagnostic belongs to (file:line in batch runs).
	Origin string
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithOrigin(origin string) Diagnostic {
	d.Origin = origin
	return d
}

// FromError lifts err into a Diagnostic. Errors that are not engine errors
// get UnknownCode and an empty span.
func FromError(err error) Diagnostic {
	var de Error
	if !errors.As(err, &de) {
		return NewError(UnknownCode, source.Span{}, err.Error())
	}
	d := NewError(de.Code(), de.Primary(), de.Error())
	var mismatch *IncompatibleUnitsError
	if errors.As(err, &mismatch) {
		d = d.WithNote(mismatch.Pos, "operands must share one dimension")
	}
	var arity *ArityError
	if errors.As(err, &arity) {
		d = d.WithNote(arity.Pos, arity.Name+" takes "+arity.ExpectedString())
	}
	return d
}
