package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/metacall/guix-release/internal/arch"
)

// Represents the 'guix-release arches' command.
type ArchesCmd struct{}

// Executes the arches command.
func (c *ArchesCmd) Run(ctx context.Context) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ARCHITECTURE\tPLATFORM")
	for _, s := range arch.Matrix() {
		fmt.Fprintf(w, "%s\t%s\n", s.Arch, s.Platform)
	}
	return w.Flush()
}
