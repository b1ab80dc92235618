package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/IvanShishkin/hashhound/pkg/models"
)

// generateText generates a text report
func (g *Generator) generateText(results *models.ScanResults, meta Metadata, outputFile string) error {
	return os.WriteFile(outputFile, []byte(renderText(results, meta)), 0644)
}

func renderText(results *models.ScanResults, meta Metadata) string {
	var sb strings.Builder

	// Header
	sb.WriteString("=" + strings.Repeat("=", 78) + "\n")
	sb.WriteString(fmt.Sprintf("  HASHHOUND FORENSIC HASH ANALYSIS REPORT v%s\n", results.Version))
	sb.WriteString("=" + strings.Repeat("=", 78) + "\n\n")

	// Case
	sb.WriteString("CASE\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	sb.WriteString(fmt.Sprintf("Report Date:      %s\n", formatInstant(meta.GeneratedAt)))
	sb.WriteString(fmt.Sprintf("Case Number:      %s\n", orNA(meta.CaseNumber)))
	sb.WriteString(fmt.Sprintf("Investigator:     %s\n", orNA(meta.Investigator)))
	sb.WriteString(fmt.Sprintf("Hash Database:    %s\n", orNA(meta.HashDB)))
	sb.WriteString(fmt.Sprintf("Known Hashes:     %d\n", results.KnownHashes))
	sb.WriteString("\n")

	// Summary
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	sb.WriteString(fmt.Sprintf("Evidence:         %s\n", results.Evidence.Path))
	sb.WriteString(fmt.Sprintf("Evidence Type:    %s\n", results.Evidence.Kind))
	sb.WriteString(fmt.Sprintf("Evidence Size:    %d bytes\n", results.Evidence.Size))
	sb.WriteString(fmt.Sprintf("Start Time:       %s\n", formatInstant(results.StartTime)))
	sb.WriteString(fmt.Sprintf("End Time:         %s\n", formatInstant(results.EndTime)))
	sb.WriteString(fmt.Sprintf("Duration:         %s\n", FormatDuration(results.Duration)))
	sb.WriteString(fmt.Sprintf("Outcome:          %s\n", results.Outcome))
	sb.WriteString(fmt.Sprintf("Partitions:       %d scanned, %d skipped\n", results.Stats.PartitionsScanned, results.Stats.PartitionsSkipped))
	sb.WriteString(fmt.Sprintf("Files Examined:   %d\n", results.Stats.FilesExamined))
	sb.WriteString(fmt.Sprintf("Files Skipped:    %d\n", results.Stats.FilesSkipped))
	sb.WriteString(fmt.Sprintf("Files Excluded:   %d\n", results.Stats.FilesExcluded))
	sb.WriteString(fmt.Sprintf("Dirs Skipped:     %d\n", results.Stats.DirsSkipped))
	sb.WriteString(fmt.Sprintf("Bytes Hashed:     %d (%s)\n", results.Stats.BytesHashed, FormatBytes(results.Stats.BytesHashed)))
	sb.WriteString(fmt.Sprintf("MATCHES FOUND:    %d\n", results.Stats.MatchesFound))
	if results.EvidenceChanged {
		sb.WriteString("WARNING:          evidence size or modification time changed during the scan\n")
	}
	sb.WriteString("\n")

	if len(results.Partitions) > 0 {
		sb.WriteString("PARTITIONS\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, p := range results.Partitions {
			sb.WriteString(fmt.Sprintf("  #%-3d offset %-14d %-10s %-16s files %-8d matches %d\n",
				p.Index, p.Offset, p.Filesystem, orNA(p.Label), p.Files, p.Matches))
		}
		sb.WriteString("\n")
	}

	if len(results.Matches) == 0 {
		sb.WriteString("No files matching the known hashes were found.\n")
		return sb.String()
	}

	// Detailed findings
	sb.WriteString("DETAILED FINDINGS\n")
	sb.WriteString(strings.Repeat("=", 79) + "\n\n")

	for i, m := range results.Matches {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, m.Name))
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		sb.WriteString(fmt.Sprintf("Path:        %s\n", m.Path))
		sb.WriteString(fmt.Sprintf("Partition:   %d (offset %d)\n", m.PartitionIndex, m.PartitionOffset))
		sb.WriteString(fmt.Sprintf("Size:        %d bytes\n", m.Size))
		sb.WriteString(fmt.Sprintf("Matched:     %s %s\n", m.Algorithm.DisplayName(), m.Hash))
		sb.WriteString(fmt.Sprintf("SHA-256:     %s\n", m.Digests.SHA256))
		sb.WriteString(fmt.Sprintf("SHA-1:       %s\n", m.Digests.SHA1))
		sb.WriteString(fmt.Sprintf("MD5:         %s\n", m.Digests.MD5))
		sb.WriteString(fmt.Sprintf("Created:     %s\n", FormatTime(m.Times.Created)))
		sb.WriteString(fmt.Sprintf("Modified:    %s\n", FormatTime(m.Times.Modified)))
		sb.WriteString(fmt.Sprintf("Accessed:    %s\n", FormatTime(m.Times.Accessed)))
		sb.WriteString("\n")
	}

	return sb.String()
}
