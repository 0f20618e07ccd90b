package source

import "strconv"

// Span is a half-open byte range [Start, End) in normalized source text.
type Span struct {
	Start uint32 `json:"start" msgpack:"start"`
	End   uint32 `json:"end" msgpack:"end"`
}

// At returns an empty span positioned at off.
func At(off uint32) Span { return Span{Start: off, End: off} }

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return strconv.FormatUint(uint64(s.Start), 10) + "-" + strconv.FormatUint(uint64(s.End), 10)
}

// Cover returns the smallest span containing both s and other. Operator
// nodes use it to stretch over their operands.
func (s Span) Cover(other Span) Span {
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}
