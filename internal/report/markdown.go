package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/IvanShishkin/hashhound/pkg/models"
)

// generateMarkdown generates a Markdown report
func (g *Generator) generateMarkdown(results *models.ScanResults, meta Metadata, outputFile string) error {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# HashHound Forensic Hash Analysis Report v%s\n\n", results.Version))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Report Date | %s |\n", formatInstant(meta.GeneratedAt)))
	sb.WriteString(fmt.Sprintf("| Case Number | %s |\n", mdEscape(orNA(meta.CaseNumber))))
	sb.WriteString(fmt.Sprintf("| Investigator | %s |\n", mdEscape(orNA(meta.Investigator))))
	sb.WriteString(fmt.Sprintf("| Evidence | `%s` |\n", results.Evidence.Path))
	sb.WriteString(fmt.Sprintf("| Evidence Type | %s |\n", results.Evidence.Kind))
	sb.WriteString(fmt.Sprintf("| Hash Database | `%s` (%d hashes) |\n", orNA(meta.HashDB), results.KnownHashes))
	sb.WriteString(fmt.Sprintf("| Start Time | %s |\n", formatInstant(results.StartTime)))
	sb.WriteString(fmt.Sprintf("| Duration | %s |\n", FormatDuration(results.Duration)))
	sb.WriteString(fmt.Sprintf("| Outcome | %s |\n", results.Outcome))
	sb.WriteString(fmt.Sprintf("| Files Examined | %d |\n", results.Stats.FilesExamined))
	sb.WriteString(fmt.Sprintf("| Files Skipped | %d |\n", results.Stats.FilesSkipped))
	sb.WriteString(fmt.Sprintf("| Dirs Skipped | %d |\n", results.Stats.DirsSkipped))
	sb.WriteString(fmt.Sprintf("| Bytes Hashed | %s |\n", FormatBytes(results.Stats.BytesHashed)))
	sb.WriteString(fmt.Sprintf("| **Matches Found** | **%d** |\n", results.Stats.MatchesFound))
	sb.WriteString("\n")

	if results.EvidenceChanged {
		sb.WriteString("> ⚠️ **Evidence size or modification time changed during the scan**\n\n")
	}

	if len(results.Partitions) > 0 {
		sb.WriteString("## Partitions\n\n")
		sb.WriteString("| # | Offset | Filesystem | Label | Files | Matches |\n")
		sb.WriteString("|---|--------|------------|-------|-------|---------|\n")
		for _, p := range results.Partitions {
			sb.WriteString(fmt.Sprintf("| %d | %d | %s | %s | %d | %d |\n",
				p.Index, p.Offset, p.Filesystem, mdEscape(orNA(p.Label)), p.Files, p.Matches))
		}
		sb.WriteString("\n")
	}

	if len(results.Matches) == 0 {
		sb.WriteString("> ✅ **No files matching the known hashes were found**\n")
		return os.WriteFile(outputFile, []byte(sb.String()), 0644)
	}

	sb.WriteString("## Findings\n\n")
	sb.WriteString("| # | Path | Partition | Size | Algorithm | Hash | Modified |\n")
	sb.WriteString("|---|------|-----------|------|-----------|------|----------|\n")
	for i, m := range results.Matches {
		sb.WriteString(fmt.Sprintf("| %d | `%s` | %s | %d | %s | `%s` | %s |\n",
			i+1, m.Path, partitionLabel(m.PartitionIndex, m.PartitionOffset), m.Size,
			m.Algorithm.DisplayName(), m.Hash, FormatTime(m.Times.Modified)))
	}
	sb.WriteString("\n")

	sb.WriteString("### Details\n\n")
	for i, m := range results.Matches {
		sb.WriteString(fmt.Sprintf("#### %d. %s\n\n", i+1, mdEscape(m.Name)))
		sb.WriteString(fmt.Sprintf("- **Path:** `%s`\n", m.Path))
		sb.WriteString(fmt.Sprintf("- **Partition:** %d (offset %d)\n", m.PartitionIndex, m.PartitionOffset))
		sb.WriteString(fmt.Sprintf("- **SHA-256:** `%s`\n", m.Digests.SHA256))
		sb.WriteString(fmt.Sprintf("- **SHA-1:** `%s`\n", m.Digests.SHA1))
		sb.WriteString(fmt.Sprintf("- **MD5:** `%s`\n", m.Digests.MD5))
		sb.WriteString(fmt.Sprintf("- **Created:** %s\n", FormatTime(m.Times.Created)))
		sb.WriteString(fmt.Sprintf("- **Modified:** %s\n", FormatTime(m.Times.Modified)))
		sb.WriteString(fmt.Sprintf("- **Accessed:** %s\n", FormatTime(m.Times.Accessed)))
		sb.WriteString("\n")
	}

	return os.WriteFile(outputFile, []byte(sb.String()), 0644)
}

// mdEscape escapes characters that break Markdown tables
func mdEscape(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}
