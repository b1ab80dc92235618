package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/IvanShishkin/hashhound/internal/core"
	"github.com/IvanShishkin/hashhound/pkg/models"
)

// Process exit codes
const (
	exitOK                 = 0
	exitError              = 1
	exitEvidenceUnreadable = 2
	exitNoFilesystem       = 3
	exitCancelled          = 130
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
)

var debug bool

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		var silent *silentError
		if !errors.As(err, &silent) {
			fmt.Fprintf(os.Stderr, "\n  %s %v\n\n", errorStyle.Render("✗ Error:"), err)
		}
		return exitCode(err)
	}
	return exitOK
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hashhound",
		Short: "HashHound - forensic known-hash scanner for disk images and directories",
		Long: `Hashes every regular file of a disk image, partitioned image or directory
with SHA-256, SHA-1 and MD5 in a single pass and reports the files whose
digest appears in a database of known hashes.`,
		Version:       core.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			printMainBanner()
			cmd.Help()
		},
	}

	// Global debug flag
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(hashdbCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// newLogger builds a development logger in debug mode and a quiet JSON logger otherwise
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.WarnLevel),
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	return cfg.Build()
}

// silentError carries an exit status for an error that was already shown to the user
type silentError struct {
	err error
}

func (e *silentError) Error() string { return e.err.Error() }
func (e *silentError) Unwrap() error { return e.err }

// exitCode maps a command error to the process exit status
func exitCode(err error) int {
	switch core.OutcomeOf(err) {
	case models.OutcomeCompleted:
		return exitOK
	case models.OutcomeCancelled:
		return exitCancelled
	case models.OutcomeEvidenceUnreadable:
		return exitEvidenceUnreadable
	case models.OutcomeNoFilesystemFound:
		return exitNoFilesystem
	default:
		return exitError
	}
}

// printMainBanner prints the main banner
func printMainBanner() {
	fmt.Println()
	fmt.Println(accentStyle.Render("██  ██ ▄████▄ ▄█████ ██  ██ ██  ██ ▄████▄ ██  ██ ███  ██ ████▄"))
	fmt.Println(accentStyle.Render("██████ ██▄▄██ ▀▀▀▄▄▄ ██████ ██████ ██  ██ ██  ██ ██ ▀▄██ ██  ██"))
	fmt.Println(accentStyle.Render("██  ██ ██  ██ █████▀ ██  ██ ██  ██ ▀████▀ ▀████▀ ██   ██ ████▀"))
	fmt.Println()
	fmt.Println(mutedStyle.Render(fmt.Sprintf("Forensic Hash Scanner v%s", core.Version)))
	fmt.Println()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hashhound %s\n", core.Version)
		},
	}
}
