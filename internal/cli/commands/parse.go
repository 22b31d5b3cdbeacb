package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapfilter/internal/cli/output"
	"github.com/leapstack-labs/leapfilter/pkg/ast"
	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/leapstack-labs/leapfilter/pkg/format"
	"github.com/spf13/cobra"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Arith bool
	Tree  bool
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [expression]",
		Short: "Parse a condition and print its syntax tree",
		Long: `Parse a filter condition and print the resulting syntax tree.

The expression is read from the argument, or from stdin when no argument is
given. On failure each diagnostic is printed with a caret under the offending
token and the command exits non-zero.

With a catalog configured (--catalog), attribute references are checked
against its tables and columns.`,
		Example: `  # Compact, fully parenthesized form
  leapfilter parse 'price * qty > 100 and status != "void"'

  # Indented tree
  leapfilter parse --tree 'a.b = 5 and not (c is null)'

  # Arithmetic only
  echo '1 + 2 * 3' | leapfilter parse --arith`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Arith, "arith", false, "Parse an arithmetic expression instead of a condition")
	cmd.Flags().BoolVar(&opts.Tree, "tree", false, "Print an indented tree instead of the compact form")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	src, err := readExpression(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	var (
		node ast.Node
		errs diag.List
	)
	if opts.Arith {
		expr, e := cc.Parser.ParseArithString(src)
		node, errs = expr, e
	} else {
		cond, e := cc.Parser.ParseString(src)
		node, errs = cond, e
	}
	cc.Logger.Debug("parsed expression", slog.String("input", src), slog.Int("diagnostics", len(errs)))

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		out := output.ParseOutput{Input: src, OK: errs == nil, Diagnostics: errs}
		if errs == nil {
			out.AST = format.Node(node)
			out.Attributes = attributeNames(node)
		}
		if err := r.JSON(out); err != nil {
			return err
		}
	default:
		if errs != nil {
			r.Diagnostics(src, errs)
			break
		}
		renderAST(r, node, opts.Tree)
	}

	if errs != nil {
		return fmt.Errorf("parse failed: %w", errs)
	}
	return nil
}

func renderAST(r *output.Renderer, node ast.Node, tree bool) {
	text := format.Node(node)
	if tree {
		text = format.Tree(node)
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatCodeBlock("", text))
		return
	}
	r.Printf("%s\n", trimNewline(text))
}

// attributeNames lists the attributes referenced in node, in source order.
func attributeNames(node ast.Node) []string {
	attrs := ast.Attributes(node)
	if len(attrs) == 0 {
		return nil
	}
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.String()
	}
	return names
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s[:n-1]
	}
	return s
}
