package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/l1jgo/loadstate/packfs"
)

// NewPackCommand creates the pack command.
func NewPackCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "pack <dir> <pack>",
		Short:         "Build an asset pack from a directory tree",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(rootOpts, cmd, args[0], args[1])
		},
	}
}

func runPack(opts *RootOptions, cmd *cobra.Command, dir, packPath string) error {
	if info, err := os.Stat(dir); err != nil {
		return fmt.Errorf("pack: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("pack: %s is not a directory", dir)
	}

	w, err := packfs.Create(packPath)
	if err != nil {
		return err
	}
	count, err := w.AddFS(os.DirFS(dir))
	if err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	if opts.Verbose {
		pack, err := packfs.Open(packPath)
		if err != nil {
			return err
		}
		defer pack.Close()
		paths, err := pack.Paths()
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "packed %d assets into %s\n", count, packPath)
	return nil
}
