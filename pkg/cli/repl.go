package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/tfesenbecker/palisade"
)

const (
	prompt   = "palisade> "
	replHelp = `Enter an expression to evaluate it, for example  histdivide(f:pass, f:all, "B")
Commands:
  :let NAME EXPR   register a local holding an expression
  :locals          list locals
  :functions       list functions
  :files           list file nicknames
  :clear           drop cached objects so files are read again
  :help            show this text
  exit, quit       leave (or Ctrl+D)
`
)

// session evaluates REPL lines against an Input.
type session struct {
	in  *palisade.Input
	out io.Writer
}

// handle processes one line and reports whether the REPL should stop.
func (s *session) handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return false
	case trimmed == "exit" || trimmed == "quit":
		return true
	case strings.HasPrefix(trimmed, ":"):
		s.command(trimmed)
		return false
	}

	result, err := s.in.Eval(ctx, trimmed)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return false
	}
	fmt.Fprintln(s.out, format(result))
	return false
}

func (s *session) command(line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":help":
		fmt.Fprint(s.out, replHelp)
	case ":locals":
		s.list(s.in.Evaluator().Locals())
	case ":functions":
		s.list(s.in.Evaluator().Functions())
	case ":files":
		s.list(s.in.Catalog().Nicknames())
	case ":clear":
		s.in.Clear()
		fmt.Fprintln(s.out, "cache cleared")
	case ":let":
		if len(fields) < 3 {
			fmt.Fprintln(s.out, "usage: :let NAME EXPR")
			return
		}
		expr := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(line, ":let")), fields[1]))
		if err := s.in.RegisterLocal(fields[1], expr); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	default:
		fmt.Fprintf(s.out, "unknown command %s, try :help\n", fields[0])
	}
}

func (s *session) list(names []string) {
	for _, n := range names {
		fmt.Fprintln(s.out, n)
	}
}

// complete suggests function names, locals and nicknames for the word
// under the cursor.
func (s *session) complete(line string) []string {
	start := strings.LastIndexAny(line, " ([,+-*/^") + 1
	prefix, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	var candidates []string
	candidates = append(candidates, s.in.Evaluator().Functions()...)
	candidates = append(candidates, s.in.Evaluator().Locals()...)
	for _, nick := range s.in.Catalog().Nicknames() {
		candidates = append(candidates, nick+":")
	}

	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			out = append(out, prefix+c)
		}
	}
	sort.Strings(out)
	return out
}

// runRepl reads lines until EOF or exit.
func runRepl(ctx context.Context, s *session) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(s.complete)

	historyFile := filepath.Join(os.TempDir(), ".palisade_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintln(s.out, "palisade", palisade.Version(), "- type :help for commands")
	for {
		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			fmt.Fprintln(s.out, "^C")
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(s.out)
			return
		}
		if err != nil {
			fmt.Fprintf(s.out, "error reading input: %v\n", err)
			return
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if s.handle(ctx, input) {
			return
		}
	}
}
