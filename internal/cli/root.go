// Package cli implements the assetctl command tree: building asset packs,
// verifying their checksums, and validating key manifests.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all subcommands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the assetctl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "assetctl",
		Short: "Asset pack tooling",
		Long:  "assetctl builds sqlite asset packs, verifies their checksums and validates dynamic key manifests.",
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewPackCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewKeysCommand(opts))

	return cmd
}
