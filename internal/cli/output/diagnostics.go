package output

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/leapstack-labs/leapfilter/pkg/token"
)

// Caret returns a marker line that underlines the token d refers to in src.
// Diagnostics at the end of input point one past the last character.
func Caret(src string, d *diag.Diagnostic) string {
	col := d.Token.Column
	if d.Token.IsEnd() || col <= 0 || col > len(src)+1 {
		col = len(strings.TrimRight(src, " \t")) + 1
	}

	width := 1
	switch d.Token.Type {
	case token.STRING, token.ILLEGAL, token.EOF:
	default:
		if n := len(d.Token.Literal); n > 1 && col-1+n <= len(src) {
			width = n
		}
	}
	return strings.Repeat(" ", col-1) + strings.Repeat("^", width)
}

// Diagnostics writes each diagnostic with the source line and a caret.
func (r *Renderer) Diagnostics(src string, list diag.List) {
	if r.EffectiveMode() == ModeMarkdown {
		for _, d := range list {
			r.Println(FormatCodeBlock("", src+"\n"+Caret(src, d)))
			r.Println(FormatKeyValue(d.Kind.String(), d.Message))
			r.Println()
		}
		return
	}

	s := r.styles
	for _, d := range list {
		r.Printf("%s %s\n", s.Error.Render(fmt.Sprintf("error[%s]:", d.Kind)), d.Message)
		r.Printf("  %s\n", src)
		r.Printf("  %s\n", s.Caret.Render(Caret(src, d)))
	}
}
