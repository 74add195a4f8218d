package main

import (
	"fmt"
	"os"

	"github.com/l1jgo/loadstate/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "assetctl: %v\n", err)
		os.Exit(1)
	}
}
