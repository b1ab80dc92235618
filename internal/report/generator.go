package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/IvanShishkin/hashhound/internal/config"
	"github.com/IvanShishkin/hashhound/pkg/models"
	"go.uber.org/zap"
)

// Report formats
const (
	FormatConsole  = "console"
	FormatJSON     = "json"
	FormatText     = "text"
	FormatMarkdown = "md"
	FormatHTML     = "html"
	FormatPDF      = "pdf"
)

// Metadata describes the case a report is written for
type Metadata struct {
	Investigator string    `json:"investigator,omitempty"`
	CaseNumber   string    `json:"case_number,omitempty"`
	HashDB       string    `json:"hash_db,omitempty"`
	KnownHashes  int       `json:"known_hashes"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// NormalizeFormat maps format aliases to a report format
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatConsole:
		return FormatConsole, nil
	case FormatJSON:
		return FormatJSON, nil
	case "txt", FormatText:
		return FormatText, nil
	case FormatMarkdown, "markdown":
		return FormatMarkdown, nil
	case FormatHTML, "htm":
		return FormatHTML, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown report format: %s", format)
	}
}

// Extension returns the file extension used for a report format
func Extension(format string) string {
	switch format {
	case FormatText:
		return ".txt"
	case FormatConsole:
		return ""
	default:
		return "." + format
	}
}

// DefaultFileName returns the report file name used when no output file is given
func DefaultFileName(format string, t time.Time) string {
	return fmt.Sprintf("HASHHOUND-REPORT-%s%s", t.Format("20060102-150405"), Extension(format))
}

// Generator generates scan reports in various formats
type Generator struct {
	config  *config.Config
	logger  *zap.Logger
	format  string
	console io.Writer
	now     func() time.Time
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, logger *zap.Logger) (*Generator, error) {
	format, err := NormalizeFormat(cfg.ReportFormat)
	if err != nil {
		return nil, err
	}

	return &Generator{
		config:  cfg,
		logger:  logger,
		format:  format,
		console: os.Stdout,
		now:     time.Now,
	}, nil
}

// SetConsole redirects console output
func (g *Generator) SetConsole(w io.Writer) {
	g.console = w
}

// Format returns the normalized report format
func (g *Generator) Format() string {
	return g.format
}

// Generate renders results. Console reports go to the console writer and return
// an empty path; file reports return the absolute path of the written file.
func (g *Generator) Generate(results *models.ScanResults, meta Metadata) (string, error) {
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = g.now()
	}

	if g.format == FormatConsole {
		return "", g.printConsole(g.console, results, meta)
	}

	outputFile := g.config.OutputFile
	if outputFile == "" {
		outputFile = DefaultFileName(g.format, meta.GeneratedAt)
	}

	g.logger.Info("Generating report",
		zap.String("format", g.format),
		zap.String("output", outputFile))

	var err error
	switch g.format {
	case FormatJSON:
		err = g.generateJSON(results, meta, outputFile)
	case FormatText:
		err = g.generateText(results, meta, outputFile)
	case FormatMarkdown:
		err = g.generateMarkdown(results, meta, outputFile)
	case FormatHTML:
		err = g.generateHTML(results, meta, outputFile)
	case FormatPDF:
		err = g.generatePDF(results, meta, outputFile)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s report: %w", g.format, err)
	}

	// Get absolute path
	absPath, _ := filepath.Abs(outputFile)
	return absPath, nil
}

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		// Milliseconds
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		// Seconds
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		// Minutes and seconds
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	// Hours, minutes and seconds
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// FormatBytes formats a byte count with a binary unit
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

const timeLayout = "2006-01-02 15:04:05 UTC"

// FormatTime renders a file timestamp in UTC, or N/A when the filesystem does not record it
func FormatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.UTC().Format(timeLayout)
}

func formatInstant(t time.Time) string {
	return FormatTime(&t)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// partitionLabel names the partition a match lives on
func partitionLabel(index int, offset int64) string {
	if index == 0 {
		return "-"
	}
	return fmt.Sprintf("#%d @ %d", index, offset)
}
