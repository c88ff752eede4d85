package lexer

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	numberPattern     = regexp.MustCompile(`^[0-9]+[UuLl]?$`)
	floatPattern      = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)
)

const (
	lineCommentOpen  = "//"
	blockCommentOpen = "/*"
	blockCommentEnd  = "*/"
)

// Scanner tokenizes single lines of source text. It holds no state between
// calls, so one Scanner may be shared by every line of a document.
type Scanner struct {
	lang Language
}

// New creates a scanner for the given language.
func New(lang Language) *Scanner {
	return &Scanner{lang: lang}
}

// Language returns the scanner's vocabulary.
func (s *Scanner) Language() Language {
	return s.lang
}

// ScanLine tokenizes line. start is the EndState of the previous line's scan;
// pass StateStart for the first line. Any other state than StateComment is
// treated as StateStart.
func (s *Scanner) ScanLine(line string, start State) Result {
	m := machine{lang: s.lang, runes: []rune(line)}
	if start == StateComment {
		m.state = StateComment
		m.block = true
	}
	m.run()
	return Result{Tokens: m.tokens, EndState: m.endState}
}

// ScanLines tokenizes consecutive lines, threading each line's EndState into
// the next line's scan.
func (s *Scanner) ScanLines(lines []string) []Result {
	results := make([]Result, len(lines))
	state := StateStart
	for i, line := range lines {
		results[i] = s.ScanLine(line, state)
		state = results[i].EndState
	}
	return results
}

var defaultScanner = New(CPP())

// ScanLine tokenizes a single line with the C++ vocabulary, starting from
// StateStart.
func ScanLine(line string) []Token {
	return defaultScanner.ScanLine(line, StateStart).Tokens
}

// machine is the per-call finite state machine. One rune is examined per
// step; a step that ends a lexeme does not consume the terminating rune,
// which is re-examined from StateStart.
type machine struct {
	lang  Language
	runes []rune
	pos   int

	state  State
	lexeme []rune
	begin  int

	quote     rune // opening quote of the literal being scanned
	block     bool // comment being scanned is a block comment
	bodyStart int  // index in lexeme where the block comment body starts

	tokens   []Token
	endState State
}

func (m *machine) run() {
	for m.pos < len(m.runes) {
		if m.step(m.runes[m.pos]) {
			m.pos++
		}
	}
	m.flush()
}

// step feeds r to the current state and reports whether r was consumed.
func (m *machine) step(r rune) bool {
	switch m.state {
	case StateStart:
		return m.start(r)
	case StateIdentifier:
		return m.identifier(r)
	case StateKeyword:
		return m.keyword(r)
	case StateNumber:
		return m.number(r)
	case StateFloatNumber:
		return m.floatNumber(r)
	case StateOperator:
		return m.operator(r)
	case StateComment:
		return m.comment(r)
	case StateLiteral:
		return m.literal(r)
	default:
		return m.undefined(r)
	}
}

func (m *machine) start(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	m.begin = m.pos
	m.lexeme = m.lexeme[:0]
	switch {
	case isIdentifierStart(r):
		m.state = StateIdentifier
		m.appendIdentifier(r)
		return true
	case isDigit(r):
		m.state = StateNumber
	case m.lang.isOperatorRune(r):
		m.state = StateOperator
	case isQuote(r):
		m.state = StateLiteral
		m.quote = r
	default:
		m.state = StateUndefined
	}
	m.lexeme = append(m.lexeme, r)
	return true
}

func (m *machine) identifier(r rune) bool {
	if m.isLexemeEnd(r) {
		m.emit()
		return false
	}
	candidate := string(m.lexeme) + string(r)
	if identifierPattern.MatchString(candidate) {
		m.appendIdentifier(r)
		return true
	}
	m.state = StateUndefined
	m.lexeme = append(m.lexeme, r)
	return true
}

// appendIdentifier grows an identifier and promotes it to a keyword once the
// lexeme is in the keyword set.
func (m *machine) appendIdentifier(r rune) {
	m.lexeme = append(m.lexeme, r)
	if m.lang.IsKeyword(string(m.lexeme)) {
		m.state = StateKeyword
	}
}

func (m *machine) keyword(r rune) bool {
	if m.isLexemeEnd(r) {
		m.emit()
		return false
	}
	candidate := string(m.lexeme) + string(r)
	switch {
	case m.lang.IsKeyword(candidate):
	case identifierPattern.MatchString(candidate):
		m.state = StateIdentifier
	default:
		m.state = StateUndefined
	}
	m.lexeme = append(m.lexeme, r)
	return true
}

func (m *machine) number(r rune) bool {
	if r == '.' {
		m.state = StateFloatNumber
		m.lexeme = append(m.lexeme, r)
		return true
	}
	if m.isLexemeEnd(r) {
		m.emit()
		return false
	}
	if !numberPattern.MatchString(string(m.lexeme) + string(r)) {
		m.state = StateUndefined
	}
	m.lexeme = append(m.lexeme, r)
	return true
}

func (m *machine) floatNumber(r rune) bool {
	if m.isLexemeEnd(r) {
		m.emit()
		return false
	}
	if !floatPattern.MatchString(string(m.lexeme) + string(r)) {
		m.state = StateUndefined
	}
	m.lexeme = append(m.lexeme, r)
	return true
}

func (m *machine) operator(r rune) bool {
	candidate := string(m.lexeme) + string(r)
	switch {
	case candidate == lineCommentOpen:
		m.state = StateComment
		m.block = false
	case candidate == blockCommentOpen:
		m.state = StateComment
		m.block = true
		m.bodyStart = len(m.lexeme) + 1
	case unicode.IsSpace(r) || isQuote(r) || !m.lang.IsOperator(candidate):
		m.emit()
		return false
	}
	m.lexeme = append(m.lexeme, r)
	return true
}

func (m *machine) comment(r rune) bool {
	m.lexeme = append(m.lexeme, r)
	if m.block && len(m.lexeme)-m.bodyStart >= len(blockCommentEnd) &&
		strings.HasSuffix(string(m.lexeme), blockCommentEnd) {
		m.block = false
		m.emit()
	}
	return true
}

func (m *machine) literal(r rune) bool {
	escaped := m.trailingBackslashes()%2 == 1
	m.lexeme = append(m.lexeme, r)
	if r == m.quote && !escaped {
		m.emit()
	}
	return true
}

func (m *machine) undefined(r rune) bool {
	if m.isLexemeEnd(r) {
		m.emit()
		return false
	}
	m.lexeme = append(m.lexeme, r)
	return true
}

// flush emits the lexeme in progress at end of line and records the state
// the next line must start in.
func (m *machine) flush() {
	m.endState = StateStart
	if m.state == StateComment && m.block {
		m.endState = StateComment
	}
	if m.state != StateStart && len(m.lexeme) > 0 {
		m.emit()
	}
}

func (m *machine) emit() {
	m.tokens = append(m.tokens, Token{
		Text:     string(m.lexeme),
		Category: m.category(),
		Begin:    m.begin,
		End:      m.begin + len(m.lexeme),
	})
	m.lexeme = m.lexeme[:0]
	m.state = StateStart
}

func (m *machine) category() Category {
	switch m.state {
	case StateIdentifier:
		return CategoryIdentifier
	case StateKeyword:
		return CategoryKeyword
	case StateNumber:
		return CategoryNumber
	case StateFloatNumber:
		return CategoryFloatNumber
	case StateOperator:
		return CategoryOperator
	case StateComment:
		return CategoryComment
	case StateLiteral:
		if m.quote == '\'' {
			return CategoryCharLiteral
		}
		return CategoryStringLiteral
	default:
		return CategoryUndefined
	}
}

func (m *machine) trailingBackslashes() int {
	n := 0
	for i := len(m.lexeme) - 1; i > 0 && m.lexeme[i] == '\\'; i-- {
		n++
	}
	return n
}

// isLexemeEnd reports whether r terminates identifiers, numbers and
// undefined runs.
func (m *machine) isLexemeEnd(r rune) bool {
	return unicode.IsSpace(r) || m.lang.isOperatorRune(r) || isQuote(r)
}

func isIdentifierStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isQuote(r rune) bool {
	return r == '\'' || r == '"'
}
