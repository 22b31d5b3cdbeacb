package lexer

import (
	"testing"

	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/leapstack-labs/leapfilter/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Token
	}{
		{
			name:  "empty input",
			input: "   ",
			want:  nil,
		},
		{
			name:  "arithmetic",
			input: "1 + 2 * 3",
			want: []token.Token{
				{Type: token.INTEGER, Literal: "1", Column: 1},
				{Type: token.PLUS, Literal: "+", Column: 3},
				{Type: token.INTEGER, Literal: "2", Column: 5},
				{Type: token.STAR, Literal: "*", Column: 7},
				{Type: token.INTEGER, Literal: "3", Column: 9},
			},
		},
		{
			name:  "qualified attribute comparison",
			input: "a.b = 5 and not (c is null)",
			want: []token.Token{
				{Type: token.IDENT, Literal: "a", Column: 1},
				{Type: token.DOT, Literal: ".", Column: 2},
				{Type: token.IDENT, Literal: "b", Column: 3},
				{Type: token.EQ, Literal: "=", Column: 5},
				{Type: token.INTEGER, Literal: "5", Column: 7},
				{Type: token.AND, Literal: "and", Column: 9},
				{Type: token.NOT, Literal: "not", Column: 13},
				{Type: token.LPAREN, Literal: "(", Column: 17},
				{Type: token.IDENT, Literal: "c", Column: 18},
				{Type: token.IS, Literal: "is", Column: 20},
				{Type: token.NULL, Literal: "null", Column: 23},
				{Type: token.RPAREN, Literal: ")", Column: 27},
			},
		},
		{
			name:  "is not is one token",
			input: "x IS  NOT null",
			want: []token.Token{
				{Type: token.IDENT, Literal: "x", Column: 1},
				{Type: token.ISNOT, Literal: "IS NOT", Column: 3},
				{Type: token.NULL, Literal: "null", Column: 11},
			},
		},
		{
			name:  "is followed by other word",
			input: "x is nothing",
			want: []token.Token{
				{Type: token.IDENT, Literal: "x", Column: 1},
				{Type: token.IS, Literal: "is", Column: 3},
				{Type: token.IDENT, Literal: "nothing", Column: 6},
			},
		},
		{
			name:  "comparison operators",
			input: "<= >= <> != < > =",
			want: []token.Token{
				{Type: token.LE, Literal: "<=", Column: 1},
				{Type: token.GE, Literal: ">=", Column: 4},
				{Type: token.NE, Literal: "<>", Column: 7},
				{Type: token.NE, Literal: "!=", Column: 10},
				{Type: token.LT, Literal: "<", Column: 13},
				{Type: token.GT, Literal: ">", Column: 15},
				{Type: token.EQ, Literal: "=", Column: 17},
			},
		},
		{
			name:  "numbers and strings",
			input: `3.25 % 'it\'s' - "a\tb"`,
			want: []token.Token{
				{Type: token.FLOAT, Literal: "3.25", Column: 1},
				{Type: token.PERCENT, Literal: "%", Column: 6},
				{Type: token.STRING, Literal: "it's", Column: 8},
				{Type: token.MINUS, Literal: "-", Column: 16},
				{Type: token.STRING, Literal: "a\tb", Column: 18},
			},
		},
		{
			name:  "keywords are case insensitive",
			input: "A Or B",
			want: []token.Token{
				{Type: token.IDENT, Literal: "A", Column: 1},
				{Type: token.OR, Literal: "Or", Column: 3},
				{Type: token.IDENT, Literal: "B", Column: 6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := Tokenize(tt.input)
			require.Empty(t, errs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKinds []diag.Kind
		wantCols  []int
	}{
		{
			name:      "unexpected character",
			input:     "a = 1 ; b",
			wantKinds: []diag.Kind{diag.UnexpectedChar},
			wantCols:  []int{7},
		},
		{
			name:      "lone bang",
			input:     "!a",
			wantKinds: []diag.Kind{diag.UnexpectedChar},
			wantCols:  []int{1},
		},
		{
			name:      "incomplete string",
			input:     `name = "abc`,
			wantKinds: []diag.Kind{diag.IncompleteString},
			wantCols:  []int{8},
		},
		{
			name:      "invalid escape",
			input:     `"a\qb"`,
			wantKinds: []diag.Kind{diag.InvalidEscapeChar},
			wantCols:  []int{3},
		},
		{
			name:      "invalid float",
			input:     "1. + 2",
			wantKinds: []diag.Kind{diag.InvalidFloat},
			wantCols:  []int{1},
		},
		{
			name:      "errors are all collected",
			input:     "# 1. $",
			wantKinds: []diag.Kind{diag.UnexpectedChar, diag.InvalidFloat, diag.UnexpectedChar},
			wantCols:  []int{1, 3, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Tokenize(tt.input)
			require.Len(t, errs, len(tt.wantKinds))
			assert.Equal(t, tt.wantKinds, errs.Kinds())
			for i, col := range tt.wantCols {
				assert.Equal(t, col, errs[i].Token.Column)
			}
		})
	}
}

func TestTokenize_IllegalCharactersAreDropped(t *testing.T) {
	got, errs := Tokenize("a ; b")
	require.Len(t, errs, 1)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Literal)
	assert.Equal(t, "b", got[1].Literal)
}
