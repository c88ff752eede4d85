// Package lexer implements the per-line character-level tokenizer used for
// incremental syntax highlighting.
package lexer

// Category classifies a lexeme.
type Category int

const (
	CategoryIdentifier Category = iota
	CategoryKeyword
	CategoryNumber
	CategoryFloatNumber
	CategoryOperator
	CategoryStringLiteral
	CategoryCharLiteral
	CategoryComment
	CategoryUndefined  // no grammar matched; rendered with a squiggly underline
	CategoryWhitespace // never produced by ScanLine, only by FillGaps
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryIdentifier:
		return "identifier"
	case CategoryKeyword:
		return "keyword"
	case CategoryNumber:
		return "number"
	case CategoryFloatNumber:
		return "float"
	case CategoryOperator:
		return "operator"
	case CategoryStringLiteral:
		return "string"
	case CategoryCharLiteral:
		return "char"
	case CategoryComment:
		return "comment"
	case CategoryUndefined:
		return "undefined"
	case CategoryWhitespace:
		return "whitespace"
	default:
		return "unknown"
	}
}

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryIdentifier,
		CategoryKeyword,
		CategoryNumber,
		CategoryFloatNumber,
		CategoryOperator,
		CategoryStringLiteral,
		CategoryCharLiteral,
		CategoryComment,
		CategoryUndefined,
		CategoryWhitespace,
	}
}

// State is the scanner's finite state machine state.
type State int

const (
	StateStart State = iota
	StateIdentifier
	StateKeyword
	StateNumber
	StateFloatNumber
	StateOperator
	StateComment
	StateLiteral
	StateUndefined
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateIdentifier:
		return "InIdentifier"
	case StateKeyword:
		return "InKeyword"
	case StateNumber:
		return "InNumber"
	case StateFloatNumber:
		return "InFloatNumber"
	case StateOperator:
		return "InOperator"
	case StateComment:
		return "InComment"
	case StateLiteral:
		return "InLiteral"
	case StateUndefined:
		return "InUndefined"
	default:
		return "Unknown"
	}
}

// Token is a classified lexeme within a single line.
// Begin and End are rune offsets into the line, End exclusive like Go slices.
type Token struct {
	Text     string
	Category Category
	Begin    int
	End      int
}

// Len returns the number of runes covered by the token.
func (t Token) Len() int {
	return t.End - t.Begin
}

// Result is the outcome of scanning one line.
// EndState is StateComment when the line ends inside an unterminated block
// comment and StateStart otherwise; it seeds the scan of the next line.
type Result struct {
	Tokens   []Token
	EndState State
}
