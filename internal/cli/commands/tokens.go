package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leapfilter/internal/cli/output"
	"github.com/leapstack-labs/leapfilter/pkg/lexer"
	"github.com/spf13/cobra"
)

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [expression]",
		Short: "Show the tokens of an expression",
		Long: `Tokenize an expression and list each token with its column and type.

Lexical errors (unterminated strings, bad escapes, stray characters) are
reported after the table.`,
		Example: `  leapfilter tokens 'name is not null and age >= 18'
  leapfilter tokens -o json "price <> 1.5"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTokens,
	}
}

func runTokens(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	src, err := readExpression(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	toks, errs := lexer.Tokenize(src)
	r := cc.Renderer

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(output.TokensOutput{Input: src, Tokens: toks, Diagnostics: errs}); err != nil {
			return err
		}
	} else {
		rows := make([][]string, len(toks))
		for i, tok := range toks {
			rows[i] = []string{strconv.Itoa(i + 1), strconv.Itoa(tok.Column), tok.Type.String(), tok.Literal}
		}
		r.Table([]string{"#", "Column", "Type", "Text"}, rows)
		if errs != nil {
			r.Println()
			r.Diagnostics(src, errs)
		}
	}

	if errs != nil {
		return fmt.Errorf("tokenize failed: %w", errs)
	}
	return nil
}
