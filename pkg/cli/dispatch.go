package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/psaab/opsh/pkg/cmdtree"
)

// ErrNoCommand is reported when a token sequence ends without selecting
// an executable command.
var ErrNoCommand = errors.New("no executable command provided")

// UnknownTokenError reports a token that is neither an option nor a
// child of the current tree position.
type UnknownTokenError struct {
	Token string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown command or option %q", e.Token)
}

// UnexpectedOptionError reports an option the selected command does not
// accept, detected before the handler is invoked. The option name is
// already normalized.
type UnexpectedOptionError struct {
	Option string
}

func (e *UnexpectedOptionError) Error() string {
	return fmt.Sprintf("unexpected option %q", e.Option)
}

const optionPrefix = "--"

// Execute dispatches one token sequence: it walks the tree consuming
// path tokens, accumulates --key[=value] options wherever they appear,
// and invokes the selected command's handler with the normalized option
// mapping. A literal --help token delegates to ShowHelp for the tokens
// scanned before it.
//
// Option tokens are collected without consulting the tree, so they may
// appear before, between, or after path tokens. A --key with neither an
// inline =value nor a following non-option token is recorded as a
// boolean true.
func (s *Shell) Execute(tokens []string) error {
	current := s.tree
	opts := make(map[string]any)
	var cmd *cmdtree.Node
	var path []string

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "--help" {
			return s.ShowHelp(tokens[:i])
		}
		if strings.HasPrefix(tok, optionPrefix) {
			key, value, found := strings.Cut(strings.TrimLeft(tok, "-"), "=")
			switch {
			case found:
				opts[key] = value
			case i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], optionPrefix):
				opts[key] = tokens[i+1]
				i++
			default:
				opts[key] = true
			}
			continue
		}

		node, ok := current[tok]
		if !ok {
			s.stats.dispatch(resultUnknownToken)
			return &UnknownTokenError{Token: tok}
		}
		path = append(path, tok)
		if node.IsCommand() {
			// Nothing below a command can match.
			cmd = node
			current = nil
		} else {
			current = node.Children
		}
	}

	if cmd == nil {
		s.stats.dispatch(resultNoCommand)
		return ErrNoCommand
	}

	normalized := make(map[string]any, len(opts))
	for k, v := range opts {
		normalized[strings.ReplaceAll(k, "-", "_")] = v
	}
	if err := checkOptions(cmd, normalized); err != nil {
		s.stats.dispatch(resultHandlerError)
		return fmt.Errorf("executing command: %w", err)
	}

	slog.Debug("dispatching command", "path", strings.Join(path, " "), "options", len(normalized))
	if err := cmd.Run(normalized); err != nil {
		s.stats.dispatch(resultHandlerError)
		return fmt.Errorf("executing command: %w", err)
	}
	s.stats.dispatch(resultOK)
	return nil
}

// checkOptions verifies the normalized mapping only carries keys the
// command accepts, turning a would-be handler argument mismatch into an
// explicit pre-invoke failure.
func checkOptions(cmd *cmdtree.Node, opts map[string]any) error {
	accepted := make(map[string]bool, len(cmd.Options))
	for _, name := range cmd.Options {
		accepted[strings.ReplaceAll(name, "-", "_")] = true
	}
	for key := range opts {
		if !accepted[key] {
			return &UnexpectedOptionError{Option: key}
		}
	}
	return nil
}
