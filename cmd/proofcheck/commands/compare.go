package commands

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/proofcheck/internal/config"
	"github.com/ivlev/proofcheck/internal/gate"
	"github.com/ivlev/proofcheck/internal/history"
	"github.com/ivlev/proofcheck/internal/report"
	"github.com/ivlev/proofcheck/internal/session"
	"github.com/ivlev/proofcheck/internal/source"
	"github.com/ivlev/proofcheck/internal/system"
)

func compareCmd() *cobra.Command {
	var (
		referenceDir string
		proofDir     string
		outputCSV    string
		stampDir     string
		dpi          int
		workers      int
		threshold    float64
		tier         string
		autoApprove  bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare every proof in a folder against its reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFlagOverrides(cmd, &cfg, referenceDir, proofDir, outputCSV, stampDir, dpi, workers, threshold, tier)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.ReferenceDir == "" || cfg.ProofDir == "" {
				return fmt.Errorf("both --reference and --proof folders are required")
			}

			system.InitResourceLimits()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			references, err := openAll(cfg.ReferenceDir)
			if err != nil {
				return err
			}
			proofs, err := openAll(cfg.ProofDir)
			if err != nil {
				closeAll(references)
				return err
			}

			poolSize := cfg.Workers
			if poolSize == 0 {
				poolSize = system.DefaultWorkers()
			}
			fmt.Printf("[*] Comparing %d reference(s) with %d proof(s) using %d worker(s)\n",
				len(references), len(proofs), poolSize)

			sess, err := session.New(cfg.Session(poolSize))
			if err != nil {
				closeAll(references)
				closeAll(proofs)
				return err
			}
			defer sess.Close()

			sess.BuildPairs(references, proofs)

			admission := gate.NewDailyQuota(gate.Tier(cfg.Tier))
			res, err := sess.ComputeBatch(ctx, admission)
			if errors.Is(err, session.ErrAdmissionDenied) {
				log.Printf("[!] Daily quota for tier %q exhausted: %v", cfg.Tier, err)
			} else if err != nil {
				return err
			}
			fmt.Printf("[*] Computed %d of %d pair(s)\n", res.Completed, res.Total)

			if autoApprove {
				approved := 0
				for i := 0; i < sess.PairCount(); i++ {
					n, err := sess.AutoApprove(i)
					if err != nil {
						return err
					}
					approved += n
				}
				fmt.Printf("[*] Auto-approved %d page(s) at threshold %.1f%%\n", approved, cfg.Threshold)
			}

			views := sess.Pairs()
			printSummary(views)

			if cfg.OutputCSV != "" {
				if err := report.SaveCSV(cfg.OutputCSV, views, time.Now()); err != nil {
					return err
				}
				fmt.Printf("[*] Report written to %s\n", cfg.OutputCSV)
			}
			if cfg.StampDir != "" {
				if err := writeStamps(cfg.StampDir, views); err != nil {
					return err
				}
			}
			return saveHistory(views)
		},
	}

	cmd.Flags().StringVarP(&referenceDir, "reference", "r", "", "folder with reference files")
	cmd.Flags().StringVarP(&proofDir, "proof", "p", "", "folder with print proofs")
	cmd.Flags().StringVarP(&outputCSV, "output", "o", "", "path for the CSV report")
	cmd.Flags().StringVar(&stampDir, "stamps", "", "folder for QR verification stamps")
	cmd.Flags().IntVar(&dpi, "dpi", 0, "render resolution")
	cmd.Flags().IntVar(&workers, "workers", 0, "comparison workers (0 = size from the host)")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "similarity threshold in percent")
	cmd.Flags().StringVar(&tier, "tier", "", "quota tier: anonymous, free, pro, enterprise")
	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "approve pages that clear the threshold")

	return cmd
}

// applyFlagOverrides lets explicitly set flags win over the config file.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, referenceDir, proofDir, outputCSV, stampDir string, dpi, workers int, threshold float64, tier string) {
	if referenceDir != "" {
		cfg.ReferenceDir = referenceDir
	}
	if proofDir != "" {
		cfg.ProofDir = proofDir
	}
	if outputCSV != "" {
		cfg.OutputCSV = outputCSV
	}
	if stampDir != "" {
		cfg.StampDir = stampDir
	}
	if cmd.Flags().Changed("dpi") {
		cfg.DPI = dpi
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Threshold = threshold
	}
	if tier != "" {
		cfg.Tier = tier
	}
}

func openAll(dir string) ([]source.Source, error) {
	paths, err := system.FindDocuments(dir)
	if err != nil {
		return nil, err
	}
	sources := make([]source.Source, 0, len(paths))
	for _, p := range paths {
		src, err := source.Open(p)
		if err != nil {
			log.Printf("[!] Skipping %s: %v", p, err)
			continue
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no readable documents in %s", dir)
	}
	return sources, nil
}

func closeAll(sources []source.Source) {
	for _, s := range sources {
		s.Close()
	}
}

func printSummary(views []session.PairView) {
	for _, v := range views {
		similarity := "N/A"
		if v.Similarity != nil {
			similarity = fmt.Sprintf("%.1f%%", *v.Similarity)
		}
		switch {
		case !v.Matched() && v.ReferenceName != "":
			fmt.Printf("[-] %s  %-40s  no proof\n", v.Code, v.ReferenceName)
		case !v.Matched():
			fmt.Printf("[-] %s  %-40s  no reference\n", v.Code, v.ProofName)
		default:
			fmt.Printf("[*] %s  %-40s  %-8s  %s\n", v.Code, v.ProofName, similarity, v.Status)
		}
	}
}

func writeStamps(dir string, views []session.PairView) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, v := range views {
		if !v.Matched() {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s.png", v.Code))
		if err := report.SaveStamp(path, v, 256); err != nil {
			return err
		}
	}
	fmt.Printf("[*] Stamps written to %s\n", dir)
	return nil
}

// saveHistory records every pair outcome through the debounced scheduler so
// the history file is written in batches rather than per pair.
func saveHistory(views []session.PairView) error {
	store := history.NewFileStore(cfg.HistoryFile)
	sched := history.NewScheduler(store, cfg.FlushInterval, cfg.MaxPendingWrites)

	for _, v := range views {
		entry := history.Entry{
			Signature:       history.Signature(v.ReferenceName, v.ReferenceSize, v.ProofName, v.ProofSize),
			Code:            v.Code,
			Similarity:      v.Similarity,
			Validation:      v.Status.String(),
			PageValidations: v.Validations,
			Comment:         v.Comment,
			UpdatedAt:       time.Now().UTC(),
		}
		if v.ReferenceName != "" {
			entry.ReferenceFile = &history.FileInfo{Name: v.ReferenceName, Size: v.ReferenceSize}
		}
		if v.ProofName != "" {
			entry.ProofFile = &history.FileInfo{Name: v.ProofName, Size: v.ProofSize}
		}
		if err := sched.Enqueue(entry); err != nil {
			sched.Close()
			return err
		}
	}
	return sched.Close()
}
