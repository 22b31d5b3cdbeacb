// Package format renders condition syntax trees as text.
//
// Node produces the compact, fully parenthesized form used in diagnostics and
// as a structural oracle in tests. Tree produces an indented outline with one
// node per line.
package format

import (
	"strings"
)

const indentSize = 2

// printer accumulates output with line-start indentation.
type printer struct {
	output      strings.Builder
	depth       int
	atLineStart bool
}

func newPrinter() *printer {
	return &printer{atLineStart: true}
}

// String returns the output with exactly one trailing newline, or the empty
// string when nothing was written.
func (p *printer) String() string {
	s := strings.TrimRight(p.output.String(), "\n")
	if s == "" {
		return ""
	}
	return s + "\n"
}

func (p *printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *printer) writeIndent() {
	p.output.WriteString(strings.Repeat(" ", p.depth*indentSize))
	p.atLineStart = false
}

func (p *printer) indent() {
	p.depth++
}

func (p *printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

// line writes s on its own line at the current depth.
func (p *printer) line(s string) {
	p.write(s)
	p.writeln()
}
