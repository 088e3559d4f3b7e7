// Package highlight renders snippet code as syntax-highlighted HTML for the
// editor's read-only view.
package highlight

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle suits the dashboard's dark theme.
const DefaultStyle = "dracula"

// Highlighter turns code into HTML with inline styles.
type Highlighter struct {
	style     *chroma.Style
	formatter *html.Formatter
}

// New creates a Highlighter with the named chroma style. Unknown names fall
// back to chroma's default style.
func New(styleName string) *Highlighter {
	if styleName == "" {
		styleName = DefaultStyle
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{
		style:     style,
		formatter: html.New(html.WithClasses(false), html.TabWidth(2), html.PreventSurroundingPre(false)),
	}
}

// HTML highlights code. The lexer is picked from the language name, then by
// analysing the code, then the plain-text fallback.
func (h *Highlighter) HTML(code, language string) (template.HTML, error) {
	lexer := lexers.Get(strings.ToLower(language))
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	tokens, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("highlight: tokenising %s: %w", language, err)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, tokens); err != nil {
		return "", fmt.Errorf("highlight: formatting: %w", err)
	}
	// chroma escapes token text, so the output is safe to embed.
	return template.HTML(buf.String()), nil
}

// MustHTML is HTML for templates: on failure it falls back to escaped,
// unhighlighted code inside a <pre>.
func (h *Highlighter) MustHTML(code, language string) template.HTML {
	out, err := h.HTML(code, language)
	if err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(code) + "</pre>")
	}
	return out
}
