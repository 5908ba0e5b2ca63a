package cli

import (
	"context"
	"fmt"

	"github.com/metacall/guix-release/internal"
)

// Represents the 'guix-release version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run(ctx context.Context) error {
	fmt.Println(internal.VersionString())
	return nil
}
