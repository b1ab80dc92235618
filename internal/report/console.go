package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/IvanShishkin/hashhound/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	alertStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// printConsole prints a summary and the findings table
func (g *Generator) printConsole(w io.Writer, results *models.ScanResults, meta Metadata) error {
	title := "SCAN COMPLETE"
	if results.Outcome == models.OutcomeCancelled {
		title = "SCAN CANCELLED (partial results)"
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w)

	line := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-12s", label+":")), value)
	}
	if meta.CaseNumber != "" {
		line("Case", meta.CaseNumber)
	}
	if meta.Investigator != "" {
		line("Investigator", meta.Investigator)
	}
	line("Evidence", results.Evidence.Path)
	line("Partitions", fmt.Sprintf("%d scanned, %d skipped", results.Stats.PartitionsScanned, results.Stats.PartitionsSkipped))
	line("Files", fmt.Sprintf("%d examined, %d skipped, %d excluded",
		results.Stats.FilesExamined, results.Stats.FilesSkipped, results.Stats.FilesExcluded))
	if results.Stats.DirsSkipped > 0 {
		line("Dirs", fmt.Sprintf("%d unreadable", results.Stats.DirsSkipped))
	}
	line("Hashed", FormatBytes(results.Stats.BytesHashed))
	line("Known", strconv.Itoa(results.KnownHashes))
	line("Duration", FormatDuration(results.Duration))
	fmt.Fprintln(w)

	if results.EvidenceChanged {
		fmt.Fprintln(w, "  "+warnStyle.Render("! Evidence size or modification time changed during the scan"))
		fmt.Fprintln(w)
	}

	if len(results.Matches) == 0 {
		fmt.Fprintln(w, "  "+okStyle.Render("✓ No known hashes found"))
		fmt.Fprintln(w)
		return nil
	}

	fmt.Fprintln(w, "  "+alertStyle.Render(fmt.Sprintf("⚠ MATCHES FOUND: %d", len(results.Matches))))
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("#", "Partition", "Path", "Size", "Algorithm", "Hash")
	for i, m := range results.Matches {
		row := []string{
			strconv.Itoa(i + 1),
			partitionLabel(m.PartitionIndex, m.PartitionOffset),
			m.Path,
			strconv.FormatInt(m.Size, 10),
			m.Algorithm.DisplayName(),
			m.Hash,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	return nil
}
