package parser

import (
	"testing"

	"github.com/leapstack-labs/leapfilter/internal/testutil"
	"github.com/leapstack-labs/leapfilter/pkg/ast"
	"github.com/leapstack-labs/leapfilter/pkg/attribute"
	"github.com/leapstack-labs/leapfilter/pkg/cursor"
	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/leapstack-labs/leapfilter/pkg/lexer"
	"github.com/leapstack-labs/leapfilter/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cursorFor(t *testing.T, src string) cursor.Cursor {
	t.Helper()
	toks, errs := lexer.Tokenize(src)
	require.Empty(t, errs)
	return cursor.New(toks)
}

func integer(text string) *ast.Value { return &ast.Value{Text: text, Type: ast.Integer} }

func attr(table, name string) *ast.Attribute { return &ast.Attribute{Table: table, Name: name} }

func operand(e ast.Arith) *ast.ArithOperand { return &ast.ArithOperand{Expr: e} }

func bin(l ast.Arith, op ast.ArithOp, r ast.Arith) *ast.BinaryExpr {
	return &ast.BinaryExpr{Left: l, Op: op, Right: r}
}

func cmp(l ast.CmpOperand, op ast.CmpOp, r ast.CmpOperand) *ast.CmpExpr {
	return &ast.CmpExpr{Left: l, Op: op, Right: r}
}

func TestParseArithString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Arith
	}{
		{
			name:  "multiplication binds tighter",
			input: "1 + 2 * 3",
			want:  bin(integer("1"), ast.Add, bin(integer("2"), ast.Mul, integer("3"))),
		},
		{
			name:  "subtraction is left associative",
			input: "a - b - c",
			want:  bin(bin(attr("", "a"), ast.Sub, attr("", "b")), ast.Sub, attr("", "c")),
		},
		{
			name:  "division and modulo share a level",
			input: "8 / 4 % 3",
			want:  bin(bin(integer("8"), ast.Div, integer("4")), ast.Mod, integer("3")),
		},
		{
			name:  "parentheses group",
			input: "(A + B) * C",
			want:  bin(bin(attr("", "A"), ast.Add, attr("", "B")), ast.Mul, attr("", "C")),
		},
		{
			name:  "unary minus",
			input: "-x * 2",
			want:  bin(&ast.MinusExpr{Expr: attr("", "x")}, ast.Mul, integer("2")),
		},
		{
			name:  "nested unary minus",
			input: "- - 1",
			want:  &ast.MinusExpr{Expr: &ast.MinusExpr{Expr: integer("1")}},
		},
		{
			name:  "unary plus is dropped",
			input: "+1",
			want:  integer("1"),
		},
		{
			name:  "qualified attribute and float",
			input: "orders.total * 1.5",
			want:  bin(attr("orders", "total"), ast.Mul, &ast.Value{Text: "1.5", Type: ast.Float}),
		},
		{
			name:  "string literal in arithmetic",
			input: `"a" + name`,
			want:  bin(&ast.Value{Text: "a", Type: ast.String}, ast.Add, attr("", "name")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := ParseArithString(tt.input)
			require.Empty(t, errs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Condition
	}{
		{
			name:  "qualified comparison and negated null check",
			input: "a.b = 5 and not (c is null)",
			want: &ast.LogicExpr{
				Left: cmp(operand(attr("a", "b")), ast.EQ, operand(integer("5"))),
				Op:   ast.And,
				Right: &ast.NotExpr{
					Expr: cmp(operand(attr("", "c")), ast.Is, &ast.Value{Text: "null", Type: ast.Null}),
				},
			},
		},
		{
			name:  "string operand bypasses arithmetic",
			input: `"x" != 1`,
			want:  cmp(&ast.Value{Text: "x", Type: ast.String}, ast.NE, operand(integer("1"))),
		},
		{
			name:  "is not",
			input: "deleted_at is not null",
			want:  cmp(operand(attr("", "deleted_at")), ast.IsNot, &ast.Value{Text: "null", Type: ast.Null}),
		},
		{
			name:  "and binds tighter than or",
			input: "a = 1 or b = 2 and c = 3",
			want: &ast.LogicExpr{
				Left: cmp(operand(attr("", "a")), ast.EQ, operand(integer("1"))),
				Op:   ast.Or,
				Right: &ast.LogicExpr{
					Left:  cmp(operand(attr("", "b")), ast.EQ, operand(integer("2"))),
					Op:    ast.And,
					Right: cmp(operand(attr("", "c")), ast.EQ, operand(integer("3"))),
				},
			},
		},
		{
			name:  "or is left associative",
			input: "a = 1 or b = 2 or c = 3",
			want: &ast.LogicExpr{
				Left: &ast.LogicExpr{
					Left:  cmp(operand(attr("", "a")), ast.EQ, operand(integer("1"))),
					Op:    ast.Or,
					Right: cmp(operand(attr("", "b")), ast.EQ, operand(integer("2"))),
				},
				Op:    ast.Or,
				Right: cmp(operand(attr("", "c")), ast.EQ, operand(integer("3"))),
			},
		},
		{
			name:  "parenthesized condition",
			input: "(a = 1 or b = 2) and c = 3",
			want: &ast.LogicExpr{
				Left: &ast.LogicExpr{
					Left:  cmp(operand(attr("", "a")), ast.EQ, operand(integer("1"))),
					Op:    ast.Or,
					Right: cmp(operand(attr("", "b")), ast.EQ, operand(integer("2"))),
				},
				Op:    ast.And,
				Right: cmp(operand(attr("", "c")), ast.EQ, operand(integer("3"))),
			},
		},
		{
			name:  "parenthesized arithmetic operand",
			input: "(a + 1) > 2",
			want:  cmp(operand(bin(attr("", "a"), ast.Add, integer("1"))), ast.GT, operand(integer("2"))),
		},
		{
			name:  "not wraps the whole condition",
			input: "not a = 1 and b = 2",
			want: &ast.NotExpr{
				Expr: &ast.LogicExpr{
					Left:  cmp(operand(attr("", "a")), ast.EQ, operand(integer("1"))),
					Op:    ast.And,
					Right: cmp(operand(attr("", "b")), ast.EQ, operand(integer("2"))),
				},
			},
		},
		{
			name:  "arithmetic on both sides",
			input: "price * qty >= total - 10",
			want: cmp(
				operand(bin(attr("", "price"), ast.Mul, attr("", "qty"))),
				ast.GE,
				operand(bin(attr("", "total"), ast.Sub, integer("10"))),
			),
		},
		{
			name:  "keywords are case insensitive",
			input: "A <> 1 AND NOT B IS NULL",
			want: &ast.LogicExpr{
				Left: cmp(operand(attr("", "A")), ast.NE, operand(integer("1"))),
				Op:   ast.And,
				Right: &ast.NotExpr{
					Expr: cmp(operand(attr("", "B")), ast.Is, &ast.Value{Text: "NULL", Type: ast.Null}),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := ParseString(tt.input)
			require.Empty(t, errs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKinds []diag.Kind
		wantTok   token.Token
	}{
		{
			name:      "empty input",
			input:     "",
			wantKinds: []diag.Kind{diag.NoMoreToken},
			wantTok:   token.End(),
		},
		{
			name:      "missing comparison operator",
			input:     "a",
			wantKinds: []diag.Kind{diag.NoMoreToken},
			wantTok:   token.End(),
		},
		{
			name:      "wrong comparison operator",
			input:     "a b",
			wantKinds: []diag.Kind{diag.UnexpectedTokenType},
			wantTok:   token.Token{Type: token.IDENT, Literal: "b", Column: 3},
		},
		{
			name:      "dangling arithmetic operator",
			input:     "1 +",
			wantKinds: []diag.Kind{diag.NoMoreToken},
			wantTok:   token.End(),
		},
		{
			name:      "dangling and",
			input:     "a = 1 and",
			wantKinds: []diag.Kind{diag.NoMoreToken},
			wantTok:   token.End(),
		},
		{
			name:      "unparsable or continuation",
			input:     "a = 1 or b",
			wantKinds: []diag.Kind{diag.CanNotParseLeftToken},
			wantTok:   token.Token{Type: token.OR, Literal: "or", Column: 7},
		},
		{
			name:      "stray closing paren",
			input:     ")",
			wantKinds: []diag.Kind{diag.UnexpectedTokenType},
			wantTok:   token.Token{Type: token.RPAREN, Literal: ")", Column: 1},
		},
		{
			name:      "unclosed paren merges both alternatives",
			input:     "(a = 1",
			wantKinds: []diag.Kind{diag.NoMoreToken, diag.UnexpectedTokenType},
			wantTok:   token.End(),
		},
		{
			name:      "lexical error",
			input:     "a = 'x",
			wantKinds: []diag.Kind{diag.IncompleteString},
			wantTok:   token.Token{Type: token.STRING, Literal: "x", Column: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := ParseString(tt.input)
			assert.Nil(t, got)
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.wantKinds, errs.Kinds())
			assert.Equal(t, tt.wantTok, errs[0].Token)
		})
	}
}

func TestParse_CursorUntouchedOnFailure(t *testing.T) {
	c := cursorFor(t, "a = ")
	before := c.Remaining()

	_, errs := Parse(&c)
	require.NotEmpty(t, errs)
	assert.Equal(t, before, c.Remaining())
	assert.Equal(t, 0, c.Pos())
}

func TestParse_StopsBeforeTrailingInput(t *testing.T) {
	c := cursorFor(t, "a = 1 )")

	got, errs := Parse(&c)
	require.Empty(t, errs)
	assert.Equal(t, cmp(operand(attr("", "a")), ast.EQ, operand(integer("1"))), got)
	assert.Equal(t, 1, c.Remaining())

	d := CheckParseToEnd(&c)
	require.NotNil(t, d)
	assert.Equal(t, diag.CanNotParseLeftToken, d.Kind)
	assert.Equal(t, ")", d.Token.Literal)
}

func TestParseArith_TrailingInput(t *testing.T) {
	c := cursorFor(t, "1 + 2 foo")

	got, errs := ParseArith(&c)
	require.Empty(t, errs)
	assert.Equal(t, bin(integer("1"), ast.Add, integer("2")), got)
	assert.Equal(t, 1, c.Remaining())

	d := CheckParseToEnd(&c)
	require.NotNil(t, d)
	assert.Equal(t, diag.CanNotParseLeftToken, d.Kind)
	assert.Equal(t, token.Token{Type: token.IDENT, Literal: "foo", Column: 7}, d.Token)

	_, errs = ParseArithString("1 + 2 foo")
	require.Len(t, errs, 1)
	assert.Equal(t, diag.CanNotParseLeftToken, errs[0].Kind)
}

func TestParseArith_DanglingOperator(t *testing.T) {
	c := cursorFor(t, "1 +")

	_, errs := ParseArith(&c)
	require.Len(t, errs, 1)
	assert.Equal(t, diag.NoMoreToken, errs[0].Kind)
	assert.True(t, errs[0].Token.IsEnd())
	assert.Equal(t, 2, c.Remaining())
}

func TestParseString_DanglingInsideOuterChain(t *testing.T) {
	// Alone, the dangling "+" is reported at the end of input.
	_, errs := ParseString("b = 1 +")
	require.Len(t, errs, 1)
	assert.Equal(t, diag.NoMoreToken, errs[0].Kind)
	assert.True(t, errs[0].Token.IsEnd())

	// As the right operand of "and" the failure only ends the and-chain,
	// leaving "and" unconsumed.
	c := cursorFor(t, "a = 1 and b = 1 +")
	got, errs := Parse(&c)
	require.Empty(t, errs)
	assert.Equal(t, cmp(operand(attr("", "a")), ast.EQ, operand(integer("1"))), got)
	assert.Equal(t, 4, c.Remaining())

	_, errs = ParseString("a = 1 and b = 1 +")
	require.Len(t, errs, 1)
	assert.Equal(t, diag.CanNotParseLeftToken, errs[0].Kind)
	assert.Equal(t, token.Token{Type: token.AND, Literal: "and", Column: 7}, errs[0].Token)
}

func TestCheckParseToEnd(t *testing.T) {
	c := cursorFor(t, "")
	assert.Nil(t, CheckParseToEnd(&c))

	c = cursorFor(t, "x")
	assert.NotNil(t, CheckParseToEnd(&c))
	c.Next()
	assert.Nil(t, CheckParseToEnd(&c))
}

func TestParseString_Validator(t *testing.T) {
	v := attribute.ValidatorFunc(func(a *ast.Attribute, tok token.Token) *diag.Diagnostic {
		if a.Table == "ghost" {
			return diag.New(diag.NoTable, tok, "table %q does not exist", a.Table)
		}
		return nil
	})

	got, errs := ParseString("orders.id = 1", WithValidator(v))
	require.Empty(t, errs)
	assert.NotNil(t, got)

	_, errs = ParseString("id = ghost.id", WithValidator(v))
	require.Len(t, errs, 1)
	assert.Equal(t, diag.NoTable, errs[0].Kind)
	assert.Equal(t, 6, errs[0].Token.Column)
}

func TestParser_Logging(t *testing.T) {
	logger, buf := testutil.NewCaptureLogger()
	p := New(WithLogger(logger))

	_, errs := p.ParseString("(a = 1")
	require.NotEmpty(t, errs)
	assert.Contains(t, buf.String(), "no parenthesized alternative applies")
	assert.Contains(t, buf.String(), "condition parse failed")

	_, errs = p.ParseString("a = 1 2 )")
	require.NotEmpty(t, errs)
	assert.Contains(t, buf.String(), "input not fully consumed")
	assert.Contains(t, buf.String(), "consumed=3")
	assert.Contains(t, buf.String(), `left="2 )"`)

	q := New(WithLogger(testutil.NewTestLogger(t)))
	_, errs = q.ParseString("a = 1")
	assert.Empty(t, errs)
}

func TestParser_ConcurrentUse(t *testing.T) {
	p := New()
	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			_, errs := p.ParseString("a + 1 > 2 or b is null")
			assert.Empty(t, errs)
		}()
	}
	for range 8 {
		<-done
	}
}
