package output

import (
	"fmt"

	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/leapstack-labs/leapfilter/pkg/token"
)

// ParseOutput is the JSON shape of the parse command.
type ParseOutput struct {
	Input       string             `json:"input"`
	OK          bool               `json:"ok"`
	AST         string             `json:"ast,omitempty"`
	Attributes  []string           `json:"attributes,omitempty"`
	Diagnostics []*diag.Diagnostic `json:"diagnostics,omitempty"`
}

// TokensOutput is the JSON shape of the tokens command.
type TokensOutput struct {
	Input       string             `json:"input"`
	Tokens      []token.Token      `json:"tokens"`
	Diagnostics []*diag.Diagnostic `json:"diagnostics,omitempty"`
}

// CheckOutput is the JSON shape of the check command.
type CheckOutput struct {
	Summary CheckSummary      `json:"summary"`
	Files   []CheckFileResult `json:"files"`
}

// CheckSummary counts checked conditions.
type CheckSummary struct {
	Files      int `json:"files"`
	Conditions int `json:"conditions"`
	Failed     int `json:"failed"`
}

// CheckFileResult lists the failing lines of one file.
type CheckFileResult struct {
	Path     string         `json:"path"`
	Problems []CheckProblem `json:"problems,omitempty"`
}

// CheckProblem is one diagnostic on one line.
type CheckProblem struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Location formats p as "file:line:col: kind: message".
func (p CheckProblem) Location(file string) string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", file, p.Line, p.Column, p.Kind, p.Message)
}
