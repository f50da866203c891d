package commands

import (
	"github.com/spf13/cobra"

	"github.com/ivlev/proofcheck/internal/config"
)

var (
	configPath string
	cfg        config.Config
)

func Execute() error {
	root := &cobra.Command{
		Use:   "proofcheck",
		Short: "Visual comparison of print proofs against reference files",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(compareCmd(), pairsCmd(), versionCmd())
	return root.Execute()
}
