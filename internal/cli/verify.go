package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l1jgo/loadstate/packfs"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "verify <pack>",
		Short:         "Recompute and check every asset checksum in a pack",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, cmd, args[0])
		},
	}
}

func runVerify(opts *RootOptions, cmd *cobra.Command, packPath string) error {
	pack, err := packfs.Open(packPath)
	if err != nil {
		return err
	}
	defer pack.Close()

	count, err := pack.Count()
	if err != nil {
		return err
	}
	if opts.Verbose {
		created, err := pack.Meta("created_at")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created: %s\n", created)
	}

	corrupt, err := pack.Verify()
	if err != nil {
		return err
	}
	if len(corrupt) > 0 {
		for _, p := range corrupt {
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n", p)
		}
		return fmt.Errorf("verify: %d of %d assets corrupt", len(corrupt), count)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %d assets ok\n", count)
	return nil
}
