// Package combinator provides the backtracking primitives the condition
// grammar is built from.
//
// Every primitive runs its sub-parse on a copy of the caller's cursor. On
// success the caller's cursor is aligned to the copy, committing exactly the
// tokens the sub-parse consumed; on failure the copy is dropped and the
// caller's cursor is left where it was.
package combinator

import (
	"github.com/leapstack-labs/leapfilter/pkg/cursor"
	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/leapstack-labs/leapfilter/pkg/token"
)

// Func is a parse step. It advances c on success and returns a non-empty
// diagnostic list on failure; on failure c may be left anywhere, so callers
// run it through Try, First or OneOf.
type Func[T any] func(c *cursor.Cursor) (T, diag.List)

// Try runs f on a copy of c and commits the copy's progress on success.
// On failure c is unchanged and the diagnostics are returned.
func Try[T any](c *cursor.Cursor, f Func[T]) (T, diag.List) {
	trial := *c
	v, errs := f(&trial)
	if len(errs) > 0 {
		var zero T
		return zero, errs
	}
	cursor.Align(c, &trial)
	return v, nil
}

// First is Try for alternation: ok reports success, in which case the caller
// returns v immediately. On failure the diagnostics are handed back for the
// caller to accumulate instead of being propagated.
func First[T any](c *cursor.Cursor, f Func[T]) (v T, ok bool, errs diag.List) {
	v, errs = Try(c, f)
	return v, len(errs) == 0, errs
}

// OneOf attempts each alternative in order and returns the first success.
// When every alternative fails their diagnostics are concatenated in attempt
// order.
func OneOf[T any](c *cursor.Cursor, alts ...Func[T]) (T, diag.List) {
	var all diag.List
	for _, alt := range alts {
		v, ok, errs := First(c, alt)
		if ok {
			return v, nil
		}
		all = append(all, errs...)
	}
	var zero T
	return zero, all
}

// Chain parses a left-associative binary chain: operand (op operand)*.
// Operators are the keys of ops. The chain ends successfully when the next
// token is not one of ops, or when the operand after an operator fails to
// parse; in both cases the operator is left unconsumed. An operator that is
// the last token of the input fails with NoMoreToken, since nothing could
// complete it.
func Chain[T any, Op any](c *cursor.Cursor, operand Func[T], ops map[token.TokenType]Op, fold func(lhs T, op Op, rhs T) T) (T, diag.List) {
	return Try(c, func(c *cursor.Cursor) (T, diag.List) {
		lhs, errs := operand(c)
		if len(errs) > 0 {
			return lhs, errs
		}
		for {
			trial := *c
			tok, ok := trial.Next()
			if !ok {
				return lhs, nil
			}
			op, ok := ops[tok.Type]
			if !ok {
				return lhs, nil
			}
			if trial.Remaining() == 0 {
				var zero T
				return zero, diag.Of(diag.New(diag.NoMoreToken, diag.EndToken(&trial),
					"expect operand after %q but no more token found", tok.Literal))
			}
			rhs, errs := Try(&trial, operand)
			if len(errs) > 0 {
				return lhs, nil
			}
			cursor.Align(c, &trial)
			lhs = fold(lhs, op, rhs)
		}
	})
}
