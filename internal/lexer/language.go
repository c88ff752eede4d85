package lexer

import "strings"

// Language is the fixed vocabulary the scanner classifies against.
type Language struct {
	Name      string
	Keywords  map[string]struct{}
	Operators map[string]struct{}
}

var cppKeywords = []string{
	"alignas", "alignof", "and", "and_eq", "asm", "auto", "bitand", "bitor",
	"bool", "break", "case", "catch", "char", "char16_t", "char32_t", "class",
	"compl", "const", "constexpr", "const_cast", "continue", "decltype",
	"default", "delete", "do", "double", "dynamic_cast", "else", "enum",
	"explicit", "export", "extern", "false", "float", "for", "friend", "goto",
	"if", "inline", "int", "long", "mutable", "namespace", "new", "noexcept",
	"not", "not_eq", "nullptr", "operator", "or", "or_eq", "private",
	"protected", "public", "register", "reinterpret_cast", "return", "short",
	"signed", "sizeof", "static", "static_assert", "static_cast", "struct",
	"switch", "template", "this", "thread_local", "throw", "true", "try",
	"typedef", "typeid", "typename", "union", "unsigned", "using", "virtual",
	"void", "volatile", "wchar_t", "while", "xor", "xor_eq",
}

var cppOperators = []string{
	"+", "-", "*", "/", "%", "^", "&", "|", "~", "!", "=", "<", ">",
	"+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=",
	"<<", ">>", "<<=", ">>=", "==", "!=", "<=", ">=", "&&", "||",
	"++", "--", "->", "->*", ".*", "::",
	",", ";", ":", ".", "?", "(", ")", "[", "]", "{", "}", "#", "##",
}

// NewLanguage builds a language from keyword and operator lists.
func NewLanguage(name string, keywords, operators []string) Language {
	lang := Language{
		Name:      name,
		Keywords:  make(map[string]struct{}, len(keywords)),
		Operators: make(map[string]struct{}, len(operators)),
	}
	for _, kw := range keywords {
		lang.Keywords[kw] = struct{}{}
	}
	for _, op := range operators {
		lang.Operators[op] = struct{}{}
	}
	return lang
}

// CPP returns the default C++ vocabulary.
func CPP() Language {
	return NewLanguage("cpp", cppKeywords, cppOperators)
}

// WithKeywords returns a copy of the language with extra keywords added.
// Blank entries are ignored.
func (l Language) WithKeywords(extra ...string) Language {
	keywords := make([]string, 0, len(l.Keywords)+len(extra))
	for kw := range l.Keywords {
		keywords = append(keywords, kw)
	}
	for _, kw := range extra {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	operators := make([]string, 0, len(l.Operators))
	for op := range l.Operators {
		operators = append(operators, op)
	}
	return NewLanguage(l.Name, keywords, operators)
}

// IsKeyword reports whether lexeme is in the keyword set.
func (l Language) IsKeyword(lexeme string) bool {
	_, ok := l.Keywords[lexeme]
	return ok
}

// IsOperator reports whether lexeme is in the operator set.
func (l Language) IsOperator(lexeme string) bool {
	_, ok := l.Operators[lexeme]
	return ok
}

// isOperatorRune reports whether r on its own is an operator.
func (l Language) isOperatorRune(r rune) bool {
	_, ok := l.Operators[string(r)]
	return ok
}
