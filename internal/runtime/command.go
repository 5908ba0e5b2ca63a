package runtime

import (
	"context"
	"strings"
)

// Executes a single command.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// An external command to run.
type Command struct {
	Name    string   // Program to execute, resolved through PATH.
	Args    []string // Arguments, passed verbatim.
	Env     []string // "KEY=value" entries overlaid on the host environment.
	Dir     string   // Working directory. Empty uses the current directory.
	Label   string   // Short name used in log records. Defaults to Name.
	Context any      // Opaque value carried through to the [Result].
}

// Output of a command execution.
type Result struct {
	Context  any      // Copied from [Command.Context].
	Command  string   // Program that was executed.
	Args     []string // Arguments it was executed with.
	Stdout   string   // Captured standard output, surrounding whitespace trimmed.
	Stderr   string   // Captured standard error, surrounding whitespace trimmed.
	ExitCode int      // Process exit code. -1 if the process was killed by a signal.
}

// Returns true if the command exited with status zero.
func (r *Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Returns the label used for log records.
func (c Command) label() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

// Renders the command as a shell-like line for display.
//
// Arguments containing whitespace or quotes are single-quoted. The output is
// for humans only and is never passed to a shell.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quote(c.Name))
	for _, a := range c.Args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

// Quotes s for display if it contains characters a shell would split on.
func quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Merges override env vars on top of a base env slice.
//
// Later entries win. Entries without "=" are skipped. The result is ordered
// by first appearance of each key.
func mergeEnv(base, overrides []string) []string {
	index := make(map[string]int, len(base)+len(overrides))
	merged := make([]string, 0, len(base)+len(overrides))

	for _, entry := range append(append([]string(nil), base...), overrides...) {
		k, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if i, seen := index[k]; seen {
			merged[i] = entry
			continue
		}
		index[k] = len(merged)
		merged = append(merged, entry)
	}

	return merged
}
