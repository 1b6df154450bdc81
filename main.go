package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"prizm-segmenter/config"
	"prizm-segmenter/services"
	"prizm-segmenter/utils"
)

var (
	sourcePath  string
	targetPath  string
	serviceURL  string
	concurrency int
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "prizm-segmenter",
	Short: "Assign PRIZM segment codes to customers and report visits per target group",
	Long: `Reads the customer source file, looks up the PRIZM segment of every distinct
postal code, splits customers into the 1-30 and 31-67 target groups and writes
the visit totals of each group to the target file.

Settings come from the environment (or a .env file) and can be overridden by flags.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&sourcePath, "source", "", "customer source file (SOURCE_PATH)")
	rootCmd.Flags().StringVar(&targetPath, "target", "", "report output file (TARGET_PATH)")
	rootCmd.Flags().StringVar(&serviceURL, "service-url", "", "PRIZM lookup endpoint root (SERVICE_BASE_URL)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel lookups (MAX_CONCURRENCY)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := utils.NewLogger(cfg.LogLevel).With("run", uuid.NewString())
	defer logger.Sync()

	logger.Info("=== PRIZM segmentation starting ===")
	logger.Info("Config: source: %s | target: %s | service: %s | concurrency: %d | rate: %dms",
		cfg.SourcePath, cfg.TargetPath, cfg.ServiceBaseURL, cfg.MaxConcurrency, cfg.RateLimitMs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := services.NewPipeline(cfg, logger).Run(ctx)
	if err != nil {
		logger.Error("Run failed: %v", err)
		return err
	}

	seg := summary.Segmentation
	logger.Info("Report written to %s", summary.TargetPath)
	fmt.Printf("  Band 1-30 : %d customers, %d visits\n", len(seg.BandA.Customers), seg.BandA.TotalVisits)
	fmt.Printf("  Band 31-67: %d customers, %d visits\n", len(seg.BandB.Customers), seg.BandB.TotalVisits)
	fmt.Printf("  Unresolved postal codes: %d of %d | customers in neither band: %d\n",
		len(summary.UnresolvedPostal), summary.DistinctPostal, seg.Dropped())
	return nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("source") {
		cfg.SourcePath = sourcePath
	}
	if cmd.Flags().Changed("target") {
		cfg.TargetPath = targetPath
	}
	if cmd.Flags().Changed("service-url") {
		cfg.ServiceBaseURL = serviceURL
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.MaxConcurrency = concurrency
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
}
