// Package render paints scanned lines for a terminal with lipgloss.
package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/indent"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/lexedit/internal/config"
	"github.com/zjrosen/lexedit/internal/lexer"
)

// Document is the view of a scanned document the renderer needs.
type Document interface {
	LineCount() int
	Line(i int) string
	TokensForLine(i int) ([]lexer.Token, bool)
}

// Renderer turns tokens into styled terminal text.
type Renderer struct {
	styles      map[lexer.Category]lipgloss.Style
	gutter      lipgloss.Style
	squiggle    lipgloss.Style
	lineNumbers bool
}

// New builds a renderer from theme. Categories without a color render
// unstyled.
func New(theme config.ThemeConfig) *Renderer {
	r := &Renderer{
		styles:      make(map[lexer.Category]lipgloss.Style),
		gutter:      lipgloss.NewStyle().Faint(true).Align(lipgloss.Right),
		squiggle:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorFor("undefined"))),
		lineNumbers: theme.LineNumbers,
	}
	for _, cat := range lexer.Categories() {
		style := lipgloss.NewStyle()
		if color := theme.ColorFor(cat.String()); color != "" {
			style = style.Foreground(lipgloss.Color(color))
		}
		switch cat {
		case lexer.CategoryKeyword:
			style = style.Bold(true)
		case lexer.CategoryComment:
			style = style.Italic(true)
		case lexer.CategoryUndefined:
			style = style.Underline(true)
		}
		r.styles[cat] = style
	}
	return r
}

// Style returns the style used for category.
func (r *Renderer) Style(category lexer.Category) lipgloss.Style {
	return r.styles[category]
}

// Line renders line with each token styled by its category. Text between
// tokens is written unstyled.
func (r *Renderer) Line(line string, tokens []lexer.Token) string {
	var b strings.Builder
	for _, tok := range lexer.FillGaps(line, tokens) {
		if tok.Category == lexer.CategoryWhitespace {
			b.WriteString(tok.Text)
			continue
		}
		b.WriteString(r.styles[tok.Category].Render(tok.Text))
	}
	return b.String()
}

// Squiggles returns a marker line with "~" under every Undefined token of
// line, aligned by display width, or "" when there are none.
func (r *Renderer) Squiggles(line string, tokens []lexer.Token) string {
	runes := []rune(line)
	var b strings.Builder
	pos := 0
	found := false
	for _, tok := range tokens {
		if tok.Category != lexer.CategoryUndefined {
			continue
		}
		found = true
		writeIndent(&b, string(runes[pos:tok.Begin]))
		b.WriteString(strings.Repeat("~", max(1, runewidth.StringWidth(tok.Text))))
		pos = tok.End
	}
	if !found {
		return ""
	}
	return r.squiggle.Render(b.String())
}

// writeIndent writes blanks spanning the display width of s, one grapheme
// cluster at a time. Tabs are copied so the terminal expands them the same
// way as in the line above.
func writeIndent(b *strings.Builder, s string) {
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.StepString(s, state)
		if cluster == "\t" {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.StringWidth(cluster)))
	}
}

// Document renders every line of doc, prefixed with a line number gutter
// when enabled, and followed by a squiggle line where Undefined tokens occur.
func (r *Renderer) Document(doc Document) string {
	n := doc.LineCount()
	gutter := r.gutter.Width(len(strconv.Itoa(n)))

	var b strings.Builder
	for i := range n {
		line := doc.Line(i)
		tokens, _ := doc.TokensForLine(i)

		prefix := ""
		if r.lineNumbers {
			prefix = gutter.Render(strconv.Itoa(i+1)) + " "
		}
		b.WriteString(prefix)
		b.WriteString(r.Line(line, tokens))
		b.WriteByte('\n')

		if marks := r.Squiggles(line, tokens); marks != "" {
			b.WriteString(indent.String(marks, uint(lipgloss.Width(prefix))))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
