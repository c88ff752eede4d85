package lexer

// FillGaps returns tokens with CategoryWhitespace tokens inserted for every
// run of line not covered by a token, so that the result covers the whole
// line. tokens must be ordered and non-overlapping, as ScanLine produces.
func FillGaps(line string, tokens []Token) []Token {
	runes := []rune(line)
	filled := make([]Token, 0, 2*len(tokens)+1)
	pos := 0
	for _, tok := range tokens {
		if tok.Begin > pos {
			filled = append(filled, gap(runes, pos, tok.Begin))
		}
		filled = append(filled, tok)
		pos = tok.End
	}
	if pos < len(runes) {
		filled = append(filled, gap(runes, pos, len(runes)))
	}
	return filled
}

func gap(runes []rune, begin, end int) Token {
	return Token{
		Text:     string(runes[begin:end]),
		Category: CategoryWhitespace,
		Begin:    begin,
		End:      end,
	}
}
