package cli

import (
	"sort"
	"strings"

	"github.com/psaab/opsh/pkg/cmdtree"
)

// splitLine tokenizes a completion buffer. Unless the text ends in a
// space, the final field is the partial token still being typed and is
// excluded from the words to resolve.
func splitLine(text string) (words []string, partial string) {
	words = strings.Fields(text)
	trailingSpace := len(text) > 0 && text[len(text)-1] == ' '
	if !trailingSpace && len(words) > 0 {
		partial = words[len(words)-1]
		words = words[:len(words)-1]
	}
	return words, partial
}

// Candidates returns the sorted completion candidates for the buffer
// text: the current group's child names matching the token being
// typed. These are exactly the path continuations Execute would
// accept; past a command or an unknown token there are none.
func (s *Shell) Candidates(text string) []string {
	s.stats.completion()

	words, partial := splitLine(text)
	candidates := cmdtree.Complete(s.tree, words, partial)
	sort.Strings(candidates)
	return candidates
}

// Complete returns the candidate at the given request index into the
// sorted candidate list for text, for line editors that poll by
// incrementing an index. ok is false once index runs past the list.
func (s *Shell) Complete(text string, index int) (string, bool) {
	candidates := s.Candidates(text)
	if index < 0 || index >= len(candidates) {
		return "", false
	}
	return candidates[index], true
}

// treeCompleter adapts Shell completion to readline's AutoComplete.
type treeCompleter struct {
	shell *Shell
}

// Do completes the word at pos. A single match is completed in place
// with a trailing space; multiple matches are listed above the prompt
// and the longest shared prefix is inserted.
func (tc *treeCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	candidates := tc.shell.Candidates(text)
	if len(candidates) == 0 {
		return nil, 0
	}

	_, partial := splitLine(text)

	if len(candidates) == 1 {
		suffix := candidates[0][len(partial):]
		return [][]rune{[]rune(suffix + " ")}, len(partial)
	}

	cmdtree.WriteHelp(tc.shell.completionOut(), candidates)

	suffix := cmdtree.CommonPrefix(candidates)[len(partial):]
	if suffix == "" {
		return nil, 0
	}
	return [][]rune{[]rune(suffix)}, len(partial)
}
