package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the proofcheck version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("proofcheck", Version)
		},
	}
}
