package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapfilter/pkg/ast"
	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/spf13/cobra"
)

const replPrompt = "leapfilter> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse conditions interactively",
		Long: `Start an interactive session that parses each line as a condition.

Dot-commands:
  .help     show help
  .tables   list catalog tables
  .tree     toggle tree output
  .arith    toggle arithmetic mode
  .attrs    list attributes of the last parsed input
  .quit     exit`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".leapfilter_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newCompleter(cc),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	s := &replSession{cc: cc}
	cc.Renderer.Println("leapfilter REPL")
	cc.Renderer.Println("Type .help for commands, .quit to exit")
	cc.Renderer.Println()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if quit := s.handleLine(line); quit {
			return nil
		}
	}
}

func newCompleter(cc *CommandContext) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".tree"),
		readline.PcItem(".arith"),
		readline.PcItem(".attrs"),
		readline.PcItem(".quit"),
	}
	if cc.Catalog != nil {
		for _, t := range cc.Catalog.Tables() {
			items = append(items, readline.PcItem(t+"."))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// replSession is the state of one interactive session.
type replSession struct {
	cc    *CommandContext
	tree  bool
	arith bool
	last  ast.Node // last successfully parsed input
}

// handleLine processes one input line and reports whether to exit.
func (s *replSession) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ".") {
		return s.handleDotCommand(line)
	}

	var (
		node ast.Node
		errs diag.List
	)
	if s.arith {
		expr, e := s.cc.Parser.ParseArithString(line)
		node, errs = expr, e
	} else {
		cond, e := s.cc.Parser.ParseString(line)
		node, errs = cond, e
	}

	r := s.cc.Renderer
	if errs != nil {
		r.Diagnostics(line, errs)
		return false
	}
	s.last = node
	renderAST(r, node, s.tree)
	return false
}

func (s *replSession) handleDotCommand(line string) bool {
	r := s.cc.Renderer
	switch strings.ToLower(strings.Fields(line)[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		r.Println("Enter a condition to parse it, or one of:")
		r.Println("  .tables   list catalog tables")
		r.Println("  .tree     toggle tree output")
		r.Println("  .arith    toggle arithmetic mode")
		r.Println("  .attrs    list attributes of the last parsed input")
		r.Println("  .quit     exit")
	case ".tables":
		if s.cc.Catalog == nil {
			r.Muted("no catalog configured (use --catalog)")
			return false
		}
		for _, t := range s.cc.Catalog.Tables() {
			r.Printf("%s (%s)\n", t, strings.Join(s.cc.Catalog.Columns(t), ", "))
		}
	case ".attrs":
		if s.last == nil {
			r.Muted("nothing parsed yet")
			return false
		}
		names := attributeNames(s.last)
		if len(names) == 0 {
			r.Muted("no attributes")
			return false
		}
		r.Println(strings.Join(names, ", "))
	case ".tree":
		s.tree = !s.tree
		r.Muted(fmt.Sprintf("tree output %s", onOff(s.tree)))
	case ".arith":
		s.arith = !s.arith
		r.Muted(fmt.Sprintf("arithmetic mode %s", onOff(s.arith)))
	default:
		r.Error(fmt.Sprintf("unknown command %s (try .help)", line))
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
