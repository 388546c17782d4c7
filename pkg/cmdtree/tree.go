// Package cmdtree defines the command tree model for opsh.
//
// This is the SINGLE SOURCE OF TRUTH for the command hierarchy used by:
//   - dispatch (pkg/cli Execute)
//   - tab completion (pkg/cli Candidates and the readline completer)
//   - ? and --help rendering (pkg/cli ShowHelp)
//
// All three walk the same tree through Resolve, so a name offered by
// completion is always a name dispatch accepts, and help documents
// exactly what dispatch parses.
package cmdtree

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Handler is the function bound to a command leaf. The options mapping
// carries string values for --key=value and --key value forms, and the
// boolean true for bare --key flags. Keys arrive normalized (hyphens
// replaced with underscores).
type Handler func(opts map[string]any) error

// Node is one level of the command tree. Exactly one of Children or Run
// is set: a group has Children (possibly empty), a command has Run.
// Options lists the command's declared option names for help display;
// the dispatcher does not restrict parsing to them.
type Node struct {
	Children map[string]*Node
	Run      Handler
	Options  []string
}

// IsCommand reports whether the node is an executable leaf.
func (n *Node) IsCommand() bool {
	return n.Run != nil
}

// Group returns a group node with the given children. A nil map is
// normalized to an empty one, so a leafless group stays a group.
func Group(children map[string]*Node) *Node {
	if children == nil {
		children = map[string]*Node{}
	}
	return &Node{Children: children}
}

// Command returns a command node bound to run, declaring the given
// option names for help display.
func Command(run Handler, options ...string) *Node {
	return &Node{Run: run, Options: options}
}

// Validate walks the tree and rejects nodes that are neither a group
// nor a command, or claim to be both. The tree root is an implicit
// group, so Validate checks every named node beneath it.
func Validate(tree map[string]*Node) error {
	for name, node := range tree {
		if node == nil {
			return fmt.Errorf("node %q is nil", name)
		}
		if node.Run != nil && node.Children != nil {
			return fmt.Errorf("node %q has both children and a handler", name)
		}
		if node.Run == nil && node.Children == nil {
			return fmt.Errorf("node %q has neither children nor a handler", name)
		}
		if node.Children != nil {
			if err := Validate(node.Children); err != nil {
				return fmt.Errorf("under %q: %w", name, err)
			}
		}
	}
	return nil
}

// State is the terminal state of resolving a token path against the tree.
type State int

const (
	// AtGroup means the whole path was consumed and landed on a group
	// (or on the root for an empty path).
	AtGroup State = iota
	// AtCommand means the final token matched a command leaf.
	AtCommand
	// Unknown means a token failed to match; Index names its position.
	Unknown
)

// Resolution is the result of walking a token path.
type Resolution struct {
	State    State
	Node     *Node            // the command leaf when State is AtCommand
	Children map[string]*Node // the current group's children when State is AtGroup
	Index    int              // tokens consumed (AtCommand) or the failing index (Unknown)
}

// Resolve walks path from the root of tree one token at a time. A token
// matching a group descends; a token matching a command terminates the
// walk (commands have no children, so any token after one fails to
// match). AtCommand and Unknown are absorbing.
func Resolve(tree map[string]*Node, path []string) Resolution {
	current := tree
	for i, tok := range path {
		node, ok := current[tok]
		if !ok {
			return Resolution{State: Unknown, Index: i}
		}
		if node.IsCommand() {
			if i == len(path)-1 {
				return Resolution{State: AtCommand, Node: node, Index: i + 1}
			}
			return Resolution{State: Unknown, Index: i + 1}
		}
		current = node.Children
	}
	return Resolution{State: AtGroup, Children: current}
}

// Complete walks the tree along words and returns the current group's
// child names matching the partial prefix. A path that reaches a
// command or fails to resolve offers nothing.
func Complete(tree map[string]*Node, words []string, partial string) []string {
	res := Resolve(tree, words)
	if res.State != AtGroup {
		return nil
	}
	return FilterPrefix(KeysOf(res.Children), partial)
}

// KeysFromTree returns a sorted list of keys from a Node map.
func KeysFromTree(tree map[string]*Node) []string {
	keys := KeysOf(tree)
	sort.Strings(keys)
	return keys
}

// KeysOf returns an unsorted list of keys from a Node map.
func KeysOf(m map[string]*Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// FilterPrefix returns only items that start with the given prefix.
func FilterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		return items
	}
	var result []string
	for _, item := range items {
		if strings.HasPrefix(item, prefix) {
			result = append(result, item)
		}
	}
	return result
}

// CommonPrefix returns the longest shared prefix among the given strings.
func CommonPrefix(items []string) string {
	if len(items) == 0 {
		return ""
	}
	prefix := items[0]
	for _, s := range items[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}

// WriteHelp prints a sorted candidate listing to w. The entire output is
// built as a single string and written in one call so that readline's
// wrapWriter triggers only one Refresh cycle.
func WriteHelp(w io.Writer, names []string) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	var sb strings.Builder
	sb.WriteString("Possible completions:\n")
	for _, name := range sorted {
		sb.WriteString("  ")
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	io.WriteString(w, sb.String())
}
