package cli

import (
	"fmt"
	"strings"

	"github.com/psaab/opsh/pkg/cmdtree"
)

// UnknownPathError reports a help query for a path that does not
// resolve to a node in the tree.
type UnknownPathError struct {
	Path []string
}

func (e *UnknownPathError) Error() string {
	return fmt.Sprintf("unknown command %q", strings.Join(e.Path, " "))
}

// ShowHelp prints help for the node named by tokens: the declared
// options of a command, or the immediate children of a group in sorted
// order. A path that does not resolve, including one with tokens left
// over after a command, is an UnknownPathError.
func (s *Shell) ShowHelp(tokens []string) error {
	s.stats.help()

	res := cmdtree.Resolve(s.tree, tokens)
	switch res.State {
	case cmdtree.Unknown:
		return &UnknownPathError{Path: tokens}

	case cmdtree.AtCommand:
		fmt.Fprintf(s.out, "Help for command '%s':\n", strings.Join(tokens, " "))
		if len(res.Node.Options) == 0 {
			fmt.Fprintln(s.out, "No options available.")
			break
		}
		fmt.Fprintln(s.out, "Options:")
		for _, opt := range res.Node.Options {
			fmt.Fprintf(s.out, "  --%s\n", opt)
		}

	default: // AtGroup
		if len(tokens) > 0 {
			fmt.Fprintf(s.out, "Available commands under '%s':\n", strings.Join(tokens, " "))
		} else {
			fmt.Fprintln(s.out, "Available commands:")
		}
		for _, name := range cmdtree.KeysFromTree(res.Children) {
			fmt.Fprintf(s.out, "  %s\n", name)
		}
	}
	return nil
}
