// Package cli implements the interactive shell and dispatcher for opsh.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/psaab/opsh/pkg/cmdtree"
)

// Options configures a Shell. Zero fields fall back to defaults.
type Options struct {
	Tree        map[string]*cmdtree.Node
	Prompt      string    // defaults to ">> "
	HistoryFile string    // defaults to /tmp/opsh_history
	Stdout      io.Writer // defaults to os.Stdout
	Stderr      io.Writer // defaults to os.Stderr
}

// Shell dispatches token sequences against a command tree and runs the
// interactive read loop. The tree is read-only after New; every
// traversal starts from its root.
type Shell struct {
	tree        map[string]*cmdtree.Node
	prompt      string
	historyFile string
	out         io.Writer
	errw        io.Writer
	stats       *stats
	rl          *readline.Instance
}

// New creates a Shell after validating the command tree.
func New(opts Options) (*Shell, error) {
	if err := cmdtree.Validate(opts.Tree); err != nil {
		return nil, fmt.Errorf("command tree: %w", err)
	}

	s := &Shell{
		tree:        opts.Tree,
		prompt:      opts.Prompt,
		historyFile: opts.HistoryFile,
		out:         opts.Stdout,
		errw:        opts.Stderr,
		stats:       &stats{},
	}
	if s.prompt == "" {
		s.prompt = ">> "
	}
	if s.historyFile == "" {
		s.historyFile = "/tmp/opsh_history"
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.errw == nil {
		s.errw = os.Stderr
	}
	return s, nil
}

// Run starts the interactive loop. The literal line "exit" and
// end-of-input both terminate it cleanly; dispatch errors are printed
// and the loop re-prompts.
func (s *Shell) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt,
		HistoryFile:     s.historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    &treeCompleter{shell: s},
		Listener:        readline.FuncListener(s.helpListener),
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer rl.Close()
	s.rl = rl

	fmt.Fprintln(s.out, "opsh - hierarchical operations shell")
	fmt.Fprintln(s.out, "Type '?' for help")
	fmt.Fprintln(s.out)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				break
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}

		if err := s.Execute(strings.Fields(line)); err != nil {
			fmt.Fprintf(s.errw, "error: %v\n", err)
		}
	}
	return nil
}

// helpListener prints completion candidates when '?' is typed, instead
// of inserting the rune.
func (s *Shell) helpListener(line []rune, pos int, key rune) ([]rune, int, bool) {
	if key != '?' || pos < 1 {
		return line, pos, false
	}
	// Strip the '?' that readline already inserted.
	cleanLine := make([]rune, 0, len(line)-1)
	cleanLine = append(cleanLine, line[:pos-1]...)
	cleanLine = append(cleanLine, line[pos:]...)
	text := string(cleanLine[:pos-1])

	candidates := s.Candidates(text)
	if len(candidates) == 0 {
		fmt.Fprintln(s.completionOut(), "  (no help available)")
		return cleanLine, pos - 1, true
	}
	cmdtree.WriteHelp(s.completionOut(), candidates)
	return cleanLine, pos - 1, true
}

// completionOut is where completion listings go: readline's stdout
// while the loop runs, the shell's writer otherwise.
func (s *Shell) completionOut() io.Writer {
	if s.rl != nil {
		return s.rl.Stdout()
	}
	return s.out
}
