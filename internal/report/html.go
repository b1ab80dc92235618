package report

import (
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/IvanShishkin/hashhound/pkg/models"
)

const htmlStyle = `
        :root {
            --bg-primary: #0C0C0C;
            --bg-secondary: #161616;
            --text-primary: #ECECEC;
            --text-secondary: #A0A0A0;
            --accent: #D97706;
            --border-color: #2A2A2A;
            --critical-color: #EF4444;
            --ok-color: #22C55E;
        }
        body { background: var(--bg-primary); color: var(--text-primary); font-family: Inter, sans-serif; margin: 0; padding: 2rem; }
        h1 { color: var(--accent); font-size: 1.6rem; }
        h2 { border-bottom: 1px solid var(--border-color); padding-bottom: .4rem; margin-top: 2rem; }
        table { border-collapse: collapse; width: 100%; background: var(--bg-secondary); }
        th, td { border: 1px solid var(--border-color); padding: .4rem .6rem; text-align: left; vertical-align: top; }
        th { color: var(--text-secondary); font-weight: 600; }
        code { font-family: "JetBrains Mono", monospace; font-size: .85em; word-break: break-all; }
        .alert { color: var(--critical-color); font-weight: 700; }
        .ok { color: var(--ok-color); font-weight: 700; }
        .muted { color: var(--text-secondary); }
`

// generateHTML generates an HTML report
func (g *Generator) generateHTML(results *models.ScanResults, meta Metadata, outputFile string) error {
	var sb strings.Builder
	esc := html.EscapeString

	sb.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>HashHound Forensic Hash Analysis Report</title>
    <style>` + htmlStyle + `    </style>
</head>
<body>
`)
	sb.WriteString(fmt.Sprintf("<h1>HashHound Forensic Hash Analysis Report <span class=\"muted\">v%s</span></h1>\n", esc(results.Version)))

	row := func(label, value string) {
		sb.WriteString(fmt.Sprintf("<tr><th>%s</th><td>%s</td></tr>\n", label, value))
	}

	sb.WriteString("<h2>Summary</h2>\n<table>\n")
	row("Report Date", formatInstant(meta.GeneratedAt))
	row("Case Number", esc(orNA(meta.CaseNumber)))
	row("Investigator", esc(orNA(meta.Investigator)))
	row("Evidence", "<code>"+esc(results.Evidence.Path)+"</code>")
	row("Evidence Type", esc(string(results.Evidence.Kind)))
	row("Hash Database", fmt.Sprintf("<code>%s</code> (%d hashes)", esc(orNA(meta.HashDB)), results.KnownHashes))
	row("Duration", FormatDuration(results.Duration))
	row("Outcome", esc(string(results.Outcome)))
	row("Files", fmt.Sprintf("%d examined, %d skipped, %d excluded",
		results.Stats.FilesExamined, results.Stats.FilesSkipped, results.Stats.FilesExcluded))
	row("Unreadable Directories", fmt.Sprint(results.Stats.DirsSkipped))
	row("Bytes Hashed", FormatBytes(results.Stats.BytesHashed))
	row("Matches Found", fmt.Sprintf("<strong>%d</strong>", results.Stats.MatchesFound))
	sb.WriteString("</table>\n")

	if results.EvidenceChanged {
		sb.WriteString("<p class=\"alert\">Evidence size or modification time changed during the scan</p>\n")
	}

	if len(results.Partitions) > 0 {
		sb.WriteString("<h2>Partitions</h2>\n<table>\n<tr><th>#</th><th>Offset</th><th>Filesystem</th><th>Label</th><th>Files</th><th>Matches</th></tr>\n")
		for _, p := range results.Partitions {
			sb.WriteString(fmt.Sprintf("<tr><td>%d</td><td>%d</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td></tr>\n",
				p.Index, p.Offset, esc(p.Filesystem), esc(orNA(p.Label)), p.Files, p.Matches))
		}
		sb.WriteString("</table>\n")
	}

	sb.WriteString("<h2>Findings</h2>\n")
	if len(results.Matches) == 0 {
		sb.WriteString("<p class=\"ok\">No files matching the known hashes were found</p>\n")
	} else {
		sb.WriteString("<table>\n<tr><th>#</th><th>Path</th><th>Partition</th><th>Size</th><th>Matched</th><th>Digests</th><th>Times</th></tr>\n")
		for i, m := range results.Matches {
			sb.WriteString(fmt.Sprintf(
				"<tr><td>%d</td><td><code>%s</code></td><td>%s</td><td>%d</td><td>%s<br><code>%s</code></td>"+
					"<td>SHA-256 <code>%s</code><br>SHA-1 <code>%s</code><br>MD5 <code>%s</code></td>"+
					"<td>C %s<br>M %s<br>A %s</td></tr>\n",
				i+1, esc(m.Path), esc(partitionLabel(m.PartitionIndex, m.PartitionOffset)), m.Size,
				m.Algorithm.DisplayName(), m.Hash,
				m.Digests.SHA256, m.Digests.SHA1, m.Digests.MD5,
				FormatTime(m.Times.Created), FormatTime(m.Times.Modified), FormatTime(m.Times.Accessed)))
		}
		sb.WriteString("</table>\n")
	}

	sb.WriteString("</body>\n</html>\n")

	return os.WriteFile(outputFile, []byte(sb.String()), 0644)
}
