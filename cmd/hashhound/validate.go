package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/IvanShishkin/hashhound/internal/config"
	"github.com/IvanShishkin/hashhound/internal/report"
)

// validateScan checks the scan parameters before any evidence is touched
func validateScan(cfg *config.Config, evidence string) error {
	if strings.TrimSpace(evidence) == "" {
		return fmt.Errorf("--evidence is required")
	}
	if cfg.HashDB == "" {
		return fmt.Errorf("--hash-db is required")
	}
	info, err := os.Stat(cfg.HashDB)
	if err != nil {
		return fmt.Errorf("hash database: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("hash database %s is not a file", cfg.HashDB)
	}

	if cfg.Investigator != "" && len([]rune(strings.TrimSpace(cfg.Investigator))) < 2 {
		return fmt.Errorf("investigator name must be at least 2 characters")
	}

	format, err := report.NormalizeFormat(cfg.ReportFormat)
	if err != nil {
		return err
	}
	if cfg.OutputFile == "" {
		return nil
	}
	if format == report.FormatConsole {
		return fmt.Errorf("--output needs a file report format (--report)")
	}
	if format == report.FormatPDF && !strings.EqualFold(filepath.Ext(cfg.OutputFile), ".pdf") {
		return fmt.Errorf("PDF output file must end in .pdf: %s", cfg.OutputFile)
	}
	return checkWritableDir(filepath.Dir(cfg.OutputFile))
}

// checkWritableDir verifies that a file can be created in dir
func checkWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output directory %s is not a directory", dir)
	}

	f, err := os.CreateTemp(dir, ".hashhound-*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	f.Close()
	return os.Remove(f.Name())
}
