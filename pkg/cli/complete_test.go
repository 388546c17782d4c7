package cli

import (
	"strings"
	"testing"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantWords   []string
		wantPartial string
	}{
		{"empty", "", nil, ""},
		{"single partial", "jo", nil, "jo"},
		{"trailing space", "jobs ", []string{"jobs"}, ""},
		{"word and partial", "jobs sto", []string{"jobs"}, "sto"},
		{"leading space", "  jobs", nil, "jobs"},
		{"multiple trailing spaces", "jobs  ", []string{"jobs"}, ""},
		{"internal runs of spaces", "jobs   sto", []string{"jobs"}, "sto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, partial := splitLine(tt.text)
			if strings.Join(words, " ") != strings.Join(tt.wantWords, " ") {
				t.Errorf("words = %q, want %q", words, tt.wantWords)
			}
			if partial != tt.wantPartial {
				t.Errorf("partial = %q, want %q", partial, tt.wantPartial)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"root all", "", []string{"jobs", "users"}},
		{"root narrow", "jo", []string{"jobs"}},
		{"group all", "jobs ", []string{"list", "start", "stop"}},
		{"group shared prefix", "jobs s", []string{"start", "stop"}},
		{"group longer prefix", "jobs st", []string{"start", "stop"}},
		{"group narrowed", "jobs sto", []string{"stop"}},
		{"sorted output", "users ", []string{"add", "list", "remove"}},
		{"after command", "jobs stop ", nil},
		{"after unknown", "bogus ", nil},
		{"partial after unknown", "jobs xyz li", nil},
		{"no match", "jobs z", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestShell(t)
			got := ts.Candidates(tt.text)
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("Candidates(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCompleteByIndex(t *testing.T) {
	ts := newTestShell(t)

	wantOrder := []string{"list", "start", "stop"}
	for i, want := range wantOrder {
		got, ok := ts.Complete("jobs ", i)
		if !ok || got != want {
			t.Errorf("Complete(jobs , %d) = %q, %v, want %q, true", i, got, ok, want)
		}
	}

	for _, idx := range []int{-1, len(wantOrder), 100} {
		if got, ok := ts.Complete("jobs ", idx); ok {
			t.Errorf("Complete(jobs , %d) = %q, want none", idx, got)
		}
	}

	if got, ok := ts.Complete("jobs stop ", 0); ok {
		t.Errorf("Complete past command = %q, want none", got)
	}
}

func TestCompleterDo(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		pos        int
		wantInsert string
		wantLength int
		wantListed bool
	}{
		{
			name:       "single match appends space",
			line:       "jobs sto",
			pos:        8,
			wantInsert: "p ",
			wantLength: 3,
		},
		{
			name:       "shared prefix inserted",
			line:       "jobs s",
			pos:        6,
			wantInsert: "t",
			wantLength: 1,
			wantListed: true,
		},
		{
			name:       "no shared prefix lists only",
			line:       "jobs ",
			pos:        5,
			wantInsert: "",
			wantLength: 0,
			wantListed: true,
		},
		{
			name:       "no candidates",
			line:       "bogus x",
			pos:        7,
			wantInsert: "",
			wantLength: 0,
		},
		{
			name:       "cursor truncates line",
			line:       "jobs stop",
			pos:        6,
			wantInsert: "t",
			wantLength: 1,
			wantListed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestShell(t)
			tc := &treeCompleter{shell: ts.Shell}

			newLine, length := tc.Do([]rune(tt.line), tt.pos)
			var insert string
			if len(newLine) > 0 {
				insert = string(newLine[0])
			}
			if insert != tt.wantInsert {
				t.Errorf("insert = %q, want %q", insert, tt.wantInsert)
			}
			if length != tt.wantLength {
				t.Errorf("length = %d, want %d", length, tt.wantLength)
			}
			if listed := strings.Contains(ts.out.String(), "Possible completions:"); listed != tt.wantListed {
				t.Errorf("listing written = %v, want %v (output %q)", listed, tt.wantListed, ts.out.String())
			}
		})
	}
}

func TestHelpListener(t *testing.T) {
	t.Run("lists candidates", func(t *testing.T) {
		ts := newTestShell(t)
		line, pos, handled := ts.helpListener([]rune("jobs ?"), 6, '?')
		if !handled {
			t.Fatal("listener did not handle '?'")
		}
		if string(line) != "jobs " || pos != 5 {
			t.Errorf("line, pos = %q, %d, want %q, 5", string(line), pos, "jobs ")
		}
		out := ts.out.String()
		for _, name := range []string{"list", "start", "stop"} {
			if !strings.Contains(out, name) {
				t.Errorf("output %q missing %q", out, name)
			}
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		ts := newTestShell(t)
		_, _, handled := ts.helpListener([]rune("jobs stop ?"), 11, '?')
		if !handled {
			t.Fatal("listener did not handle '?'")
		}
		if got, want := ts.out.String(), "  (no help available)\n"; got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
	})

	t.Run("other keys pass through", func(t *testing.T) {
		ts := newTestShell(t)
		line, pos, handled := ts.helpListener([]rune("jobs"), 4, 's')
		if handled || string(line) != "jobs" || pos != 4 {
			t.Errorf("listener intercepted %q/%d/%v", string(line), pos, handled)
		}
	})

	t.Run("start of line passes through", func(t *testing.T) {
		ts := newTestShell(t)
		if _, _, handled := ts.helpListener([]rune("?"), 0, '?'); handled {
			t.Error("listener handled '?' at position 0")
		}
	})
}
