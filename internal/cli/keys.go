package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/l1jgo/loadstate"
)

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "keys <manifest>",
		Short:         "Validate a dynamic key manifest",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(rootOpts, cmd, args[0])
		},
	}
}

func runKeys(opts *RootOptions, cmd *cobra.Command, manifestPath string) error {
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return fmt.Errorf("keys: %w", err)
	}

	keys := loadstate.NewDynamicKeys()
	count, err := loadstate.LoadKeyManifest(os.DirFS(filepath.Dir(abs)), filepath.Base(abs), keys)
	if err != nil {
		return err
	}

	if opts.Verbose {
		for _, name := range keys.Names() {
			path, err := keys.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", name, path)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %d keys\n", count)
	return nil
}
