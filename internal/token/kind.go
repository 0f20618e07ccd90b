package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Number is a decimal literal with optional fraction and exponent.
	Number
	// Ident is an identifier: variable, function, constant or unit symbol.
	Ident

	Plus   // +
	Minus  // -
	Star   // *
	Slash  // /
	Caret  // ^
	Assign // =

	LParen // (
	RParen // )
	Comma  // ,
)

// Class groups kinds the way diagnostics talk about them.
type Class uint8

const (
	ClassInvalid Class = iota
	ClassNumber
	ClassIdentifier
	ClassOperator
	ClassPunctuation
	ClassEnd
)

func (c Class) String() string {
	switch c {
	case ClassNumber:
		return "number"
	case ClassIdentifier:
		return "identifier"
	case ClassOperator:
		return "operator"
	case ClassPunctuation:
		return "punctuation"
	case ClassEnd:
		return "end-of-input"
	default:
		return "invalid"
	}
}

// Class returns the coarse category of k.
func (k Kind) Class() Class {
	switch k {
	case Number:
		return ClassNumber
	case Ident:
		return ClassIdentifier
	case Plus, Minus, Star, Slash, Caret, Assign:
		return ClassOperator
	case LParen, RParen, Comma:
		return ClassPunctuation
	case EOF:
		return ClassEnd
	default:
		return ClassInvalid
	}
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Number:
		return "Number"
	case Ident:
		return "Ident"
	case Plus:
		return "Plus"
	case Minus:
		return "Minus"
	case Star:
		return "Star"
	case Slash:
		return "Slash"
	case Caret:
		return "Caret"
	case Assign:
		return "Assign"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case Comma:
		return "Comma"
	default:
		return "Invalid"
	}
}

// Symbol returns the fixed spelling of operator and punctuation kinds.
func (k Kind) Symbol() string {
	switch k {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Star:
		return "*"
	case Slash:
		return "/"
	case Caret:
		return "^"
	case Assign:
		return "="
	case LParen:
		return "("
	case RParen:
		return ")"
	case Comma:
		return ","
	case EOF:
		return "end of input"
	default:
		return ""
	}
}
