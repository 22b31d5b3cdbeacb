// Package commands implements the leapfilter subcommands.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapfilter/internal/cli/config"
	"github.com/leapstack-labs/leapfilter/internal/cli/output"
	"github.com/leapstack-labs/leapfilter/pkg/catalog"
	"github.com/leapstack-labs/leapfilter/pkg/parser"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Catalog  *catalog.Catalog // nil without a configured catalog
	Parser   *parser.Parser
}

// NewCommandContext builds the renderer, loads the configured catalog and
// creates a parser that validates attributes against it.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := config.GetLogger(ctx)

	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Mode(), output.WithNoColor(cfg.NoColor))

	cc := &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}

	opts := []parser.Option{parser.WithLogger(logger)}
	if cfg.Catalog != "" {
		cat, err := catalog.Open(ctx, cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		logger.Debug("catalog loaded", slog.String("source", cfg.Catalog), slog.Int("tables", cat.Len()))
		cc.Catalog = cat
		opts = append(opts, parser.WithValidator(cat))
	}
	cc.Parser = parser.New(opts...)

	return cc, nil
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// readExpression returns the single argument, or all of in when there is
// none. Line breaks are folded into spaces so columns stay meaningful.
func readExpression(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	src := strings.TrimSpace(newlines.Replace(string(data)))
	if src == "" {
		return "", fmt.Errorf("no expression given")
	}
	return src, nil
}
