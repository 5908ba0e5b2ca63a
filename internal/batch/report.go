package batch

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/metacall/guix-release/internal/arch"
	"github.com/metacall/guix-release/internal/runtime"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ruleStyle   = lipgloss.NewStyle().Faint(true)
)

const rule = "----------------------------------------------------"

// Writes one block per result with its command, output and exit code.
func Report(w io.Writer, results []*runtime.Result) {
	for _, r := range results {
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("------------- %s -------------", label(r))))
		fmt.Fprintf(w, "COMMAND:   %s\n", runtime.Command{Name: r.Command, Args: r.Args})
		fmt.Fprintf(w, "STDOUT:    %s\n", orNone(r.Stdout))
		fmt.Fprintf(w, "STDERR:    %s\n", orNone(r.Stderr))

		code := fmt.Sprintf("%d", r.ExitCode)
		if r.Succeeded() {
			code = okStyle.Render(code)
		} else {
			code = failStyle.Render(code)
		}
		fmt.Fprintf(w, "EXIT CODE: %s\n", code)
		fmt.Fprintln(w, ruleStyle.Render(rule))
		fmt.Fprintln(w)
	}
}

// Returns a description of the task that produced r.
func label(r *runtime.Result) string {
	switch c := r.Context.(type) {
	case arch.Spec:
		return fmt.Sprintf("Architecture (%s, %s)", c.Platform, c.Arch)
	case fmt.Stringer:
		return c.String()
	case string:
		return c
	default:
		return r.Command
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
