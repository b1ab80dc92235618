package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/IvanShishkin/hashhound/internal/config"
	"github.com/IvanShishkin/hashhound/internal/core"
	"github.com/IvanShishkin/hashhound/internal/filesystem"
	"github.com/IvanShishkin/hashhound/internal/hashdb"
	"github.com/IvanShishkin/hashhound/internal/report"
	"github.com/IvanShishkin/hashhound/pkg/models"
)

// scanOptions holds the scan command flags
type scanOptions struct {
	evidence     string
	hashDB       string
	investigator string
	caseNumber   string
	reportFormat string
	outputFile   string
	configFile   string
	chunkSize    string
	exclude      []string
}

// scanCmd creates the scan command
func scanCmd() *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan evidence for files with known hashes",
		Long: `Enumerate the partitions of a disk image (or walk a directory), hash every
regular file and report the files whose SHA-256, SHA-1 or MD5 digest is
listed in the hash database. The evidence is opened read-only.`,
		Example: `  hashhound scan --evidence disk.img --hash-db vic.db --investigator "J. Doe" --report pdf --output case.pdf
  hashhound scan -e /mnt/evidence -H known.txt --exclude "**/*.tmp"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.evidence, "evidence", "e", "", "Disk image, partitioned image or directory to scan")
	cmd.Flags().StringVarP(&opts.hashDB, "hash-db", "H", "", "Known-hash database (txt, csv, yaml, sqlite; .gz/.zst compressed)")
	cmd.Flags().StringVarP(&opts.investigator, "investigator", "i", "", "Investigator name for the report")
	cmd.Flags().StringVar(&opts.caseNumber, "case", "", "Case number for the report")
	cmd.Flags().StringVarP(&opts.reportFormat, "report", "r", "", "Report format: console, json, text, md, html, pdf")
	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Report output file")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Configuration file (YAML)")
	cmd.Flags().StringVar(&opts.chunkSize, "chunk-size", "", "Read buffer size for hashing (e.g. 64K, 4M)")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "Glob of partition paths to skip (repeatable)")
	cmd.MarkFlagRequired("evidence")

	return cmd
}

func runScan(cmd *cobra.Command, opts scanOptions) error {
	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return err
	}
	if err := applyScanFlags(cfg, opts); err != nil {
		return err
	}
	if err := validateScan(cfg, opts.evidence); err != nil {
		return err
	}

	logger, err := newLogger(debug || cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	reporter, err := report.NewGenerator(cfg, logger)
	if err != nil {
		return err
	}

	printBanner(opts.evidence, cfg.HashDB, reporter.Format())

	known, err := hashdb.NewLoader(logger).Load(cfg.HashDB)
	if err != nil {
		return err
	}
	fmt.Printf("  %s %d\n\n", mutedStyle.Render("Known hashes:"), known.Len())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := core.NewScanner(cfg, logger)
	scanner.SetProgressCallback(printProgress)

	results, scanErr := scanner.Scan(ctx, opts.evidence, known)
	clearProgress()
	if results == nil {
		return scanErr
	}

	meta := report.Metadata{
		Investigator: cfg.Investigator,
		CaseNumber:   cfg.CaseNumber,
		HashDB:       cfg.HashDB,
		KnownHashes:  known.Len(),
	}
	path, err := reporter.Generate(results, meta)
	if err != nil {
		logger.Error("Failed to generate report", zap.Error(err))
		return err
	}
	if path != "" {
		fmt.Printf("  %s %s\n\n", mutedStyle.Render("Report:"), accentStyle.Render(path))
	}

	if scanErr != nil {
		fmt.Printf("  %s\n\n", errorStyle.Render("Scan interrupted, results are partial"))
		return &silentError{err: scanErr}
	}
	return nil
}

// applyScanFlags overrides configuration values with the flags that were set
func applyScanFlags(cfg *config.Config, opts scanOptions) error {
	if opts.hashDB != "" {
		cfg.HashDB = opts.hashDB
	}
	if opts.investigator != "" {
		cfg.Investigator = opts.investigator
	}
	if opts.caseNumber != "" {
		cfg.CaseNumber = opts.caseNumber
	}
	if opts.reportFormat != "" {
		cfg.ReportFormat = opts.reportFormat
	}
	if opts.outputFile != "" {
		cfg.OutputFile = opts.outputFile
	}
	if len(opts.exclude) > 0 {
		cfg.Exclude = opts.exclude
	}
	if opts.chunkSize != "" {
		size, err := filesystem.ParseSize(opts.chunkSize)
		if err != nil {
			return fmt.Errorf("invalid --chunk-size: %w", err)
		}
		if size > config.MaxChunkSize {
			return fmt.Errorf("invalid --chunk-size: %s exceeds %d bytes", opts.chunkSize, config.MaxChunkSize)
		}
		cfg.ChunkSize = int(size)
	}
	return cfg.Validate()
}

// printBanner prints the scan banner
func printBanner(evidence, hashDB, format string) {
	fmt.Println()
	fmt.Println(boldStyle.Render(accentStyle.Render("HASHHOUND")) + mutedStyle.Render(" v"+core.Version))
	fmt.Println()
	fmt.Printf("  %s %s\n", mutedStyle.Render("Evidence:    "), evidence)
	fmt.Printf("  %s %s\n", mutedStyle.Render("Hash DB:     "), hashDB)
	fmt.Printf("  %s %s\n", mutedStyle.Render("Format:      "), format)
}

// printProgress rewrites the progress line in place
func printProgress(stats models.ScanStats) {
	fmt.Printf("\r\033[K  %s partition #%d  %s %d  %s %d  %s %s",
		mutedStyle.Render("Scanning:"), stats.CurrentPartition,
		mutedStyle.Render("files"), stats.FilesExamined,
		mutedStyle.Render("matches"), stats.MatchesFound,
		mutedStyle.Render("elapsed"), stats.Elapsed.Round(100*time.Millisecond))
}

func clearProgress() {
	fmt.Print("\r\033[K")
}
