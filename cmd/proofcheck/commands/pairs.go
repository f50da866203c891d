package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/proofcheck/internal/matcher"
	"github.com/ivlev/proofcheck/internal/system"
)

// pairsCmd previews the filename pairing without rendering anything.
func pairsCmd() *cobra.Command {
	var (
		referenceDir string
		proofDir     string
	)

	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "Show how reference and proof files would be paired",
		RunE: func(cmd *cobra.Command, args []string) error {
			references, err := system.FindDocuments(referenceDir)
			if err != nil {
				return err
			}
			proofs, err := system.FindDocuments(proofDir)
			if err != nil {
				return err
			}

			pairs := matcher.Match(references, proofs)
			matched := 0
			for _, p := range pairs {
				switch {
				case p.Matched():
					matched++
					fmt.Printf("[*] %s  %s <-> %s\n", p.Code, p.Reference, p.Proof)
				case p.ReferenceOnly():
					fmt.Printf("[-] %s  %s (no proof)\n", p.Code, p.Reference)
				default:
					fmt.Printf("[-] %s  %s (no reference)\n", p.Code, p.Proof)
				}
			}
			fmt.Printf("[*] %d pair(s), %d matched\n", len(pairs), matched)
			return nil
		},
	}

	cmd.Flags().StringVarP(&referenceDir, "reference", "r", "", "folder with reference files")
	cmd.Flags().StringVarP(&proofDir, "proof", "p", "", "folder with print proofs")
	cmd.MarkFlagRequired("reference")
	cmd.MarkFlagRequired("proof")

	return cmd
}
