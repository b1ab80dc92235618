package report

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/IvanShishkin/hashhound/pkg/models"
)

const (
	pdfMargin = 15.0
	pdfWidth  = 210.0 - 2*pdfMargin
)

// pdfReport lays out the forensic report on A4 pages
type pdfReport struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// generatePDF generates the forensic PDF report
func (g *Generator) generatePDF(results *models.ScanResults, meta Metadata, outputFile string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	r := &pdfReport{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetCreationDate(meta.GeneratedAt)
	pdf.SetTitle("Forensic Hash Analysis Report", true)
	pdf.SetSubject(filepath.Base(results.Evidence.Path), true)
	pdf.SetAuthor(meta.Investigator, true)
	pdf.SetCreator("HashHound "+results.Version, true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	r.header(results, meta)
	r.summary(results)
	r.methodology()

	pdf.AddPage()
	r.findings(results)
	r.technical(results)
	r.signature(meta)

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(outputFile)
}

func (r *pdfReport) heading(text string) {
	r.pdf.Ln(4)
	r.pdf.SetFont("Helvetica", "B", 13)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(0, 8, r.tr(text), "B", 1, "L", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.Ln(2)
}

func (r *pdfReport) body(text string) {
	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.MultiCell(0, 5, r.tr(text), "", "L", false)
	r.pdf.Ln(2)
}

func (r *pdfReport) field(label, value string) {
	r.pdf.SetFont("Helvetica", "B", 10)
	r.pdf.CellFormat(45, 6, r.tr(label), "", 0, "L", false, 0, "")
	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.MultiCell(pdfWidth-45, 6, r.tr(value), "", "L", false)
}

func (r *pdfReport) header(results *models.ScanResults, meta Metadata) {
	r.pdf.SetFont("Helvetica", "B", 18)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(0, 10, "DIGITAL FORENSIC REPORT", "", 1, "C", false, 0, "")
	r.pdf.SetFont("Helvetica", "B", 14)
	r.pdf.CellFormat(0, 8, "Hash Analysis", "", 1, "C", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.Ln(8)

	r.field("Report date:", formatInstant(meta.GeneratedAt))
	if meta.CaseNumber != "" {
		r.field("Case number:", meta.CaseNumber)
	}
	r.field("Investigator:", orNA(meta.Investigator))
	r.field("Evidence:", filepath.Base(results.Evidence.Path))
	r.field("Full path:", results.Evidence.Path)
	r.pdf.Ln(6)
}

func (r *pdfReport) summary(results *models.ScanResults) {
	r.heading("1. SUMMARY")

	name := filepath.Base(results.Evidence.Path)
	r.body(fmt.Sprintf("This report documents the results of a digital forensic analysis of the evidence '%s'. "+
		"Every regular file was hashed and compared against a reference database of known hash values.", name))

	r.field("Relevant files found:", strconv.Itoa(len(results.Matches)))
	r.field("Files examined:", strconv.Itoa(results.Stats.FilesExamined))
	r.field("Files not readable:", strconv.Itoa(results.Stats.FilesSkipped))
	if results.Stats.DirsSkipped > 0 {
		r.field("Folders not readable:", strconv.Itoa(results.Stats.DirsSkipped))
	}
	r.field("Partitions:", fmt.Sprintf("%d scanned, %d skipped", results.Stats.PartitionsScanned, results.Stats.PartitionsSkipped))
	r.field("Outcome:", string(results.Outcome))
	if results.Outcome == models.OutcomeCancelled {
		r.body("The analysis was interrupted. The results below are partial.")
	}
	if results.EvidenceChanged {
		r.pdf.SetTextColor(180, 0, 0)
		r.body("WARNING: the size or modification time of the evidence changed during the analysis.")
		r.pdf.SetTextColor(0, 0, 0)
	}
}

func (r *pdfReport) methodology() {
	r.heading("2. METHODOLOGY")
	r.body("2.1 Procedure\n" +
		"- SHA-256, SHA-1 and MD5 computed over the full content of every regular file in one pass\n" +
		"- Partition tables and filesystems interpreted directly from the evidence image\n" +
		"- Exact comparison against the reference hash database\n" +
		"- The evidence is opened read-only and never modified")
	r.body("2.2 Quality assurance\n" +
		"- All analysis steps are logged\n" +
		"- Cryptographic hash functions only\n" +
		"- Deterministic and reproducible procedure")
}

func (r *pdfReport) findings(results *models.ScanResults) {
	r.heading("3. DETAILED RESULTS")

	if len(results.Matches) == 0 {
		r.body("No files matching the hash values of the reference database were found.")
		return
	}
	r.body(fmt.Sprintf("The following %d matches correspond to known hash values:", len(results.Matches)))

	widths := []float64{10, 55, 22, 18, 45, 30}
	r.pdf.SetFont("Helvetica", "B", 8)
	r.pdf.SetFillColor(128, 128, 128)
	r.pdf.SetTextColor(255, 255, 255)
	for i, h := range []string{"No.", "File name", "Size (bytes)", "Algorithm", "Hash", "Modified"} {
		r.pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	r.pdf.Ln(-1)

	r.pdf.SetFont("Helvetica", "", 8)
	r.pdf.SetTextColor(0, 0, 0)
	for i, m := range results.Matches {
		cells := []string{
			strconv.Itoa(i + 1),
			truncate(m.Name, 34),
			strconv.FormatInt(m.Size, 10),
			m.Algorithm.DisplayName(),
			truncate(m.Hash, 24),
			FormatTime(m.Times.Modified),
		}
		for j, c := range cells {
			r.pdf.CellFormat(widths[j], 6, r.tr(c), "1", 0, "L", false, 0, "")
		}
		r.pdf.Ln(-1)
	}

	r.heading("3.1 Findings in detail")
	for i, m := range results.Matches {
		r.pdf.SetFont("Helvetica", "B", 10)
		r.pdf.CellFormat(0, 6, fmt.Sprintf("Finding %d:", i+1), "", 1, "L", false, 0, "")

		r.pdf.SetFont("Courier", "", 8)
		details := []string{
			"File name:        " + m.Name,
			"Full path:        " + m.Path,
			"File size:        " + strconv.FormatInt(m.Size, 10) + " bytes",
			"Matched:          " + m.Algorithm.DisplayName(),
			"SHA-256:          " + m.Digests.SHA256,
			"SHA-1:            " + m.Digests.SHA1,
			"MD5:              " + m.Digests.MD5,
			"Created:          " + FormatTime(m.Times.Created),
			"Modified:         " + FormatTime(m.Times.Modified),
			"Accessed:         " + FormatTime(m.Times.Accessed),
			fmt.Sprintf("Partition:        %d (offset %d)", m.PartitionIndex, m.PartitionOffset),
		}
		r.pdf.MultiCell(0, 4, r.tr(strings.Join(details, "\n")), "", "L", false)
		r.pdf.Ln(3)
	}
}

func (r *pdfReport) technical(results *models.ScanResults) {
	r.heading("4. TECHNICAL DETAILS")

	ev := results.Evidence
	r.body(fmt.Sprintf("4.1 Evidence\n"+
		"- Path: %s\n"+
		"- Type: %s\n"+
		"- Size: %d bytes (%s)\n"+
		"- Last modified: %s",
		ev.Path, ev.Kind, ev.Size, FormatBytes(ev.Size), formatInstant(ev.ModTime)))

	var parts []string
	for _, p := range results.Partitions {
		parts = append(parts, fmt.Sprintf("- #%d at offset %d: %s %s (%d files, %d matches)",
			p.Index, p.Offset, p.Filesystem, p.Label, p.Files, p.Matches))
	}
	if len(parts) > 0 {
		r.body("4.2 Partitions\n" + strings.Join(parts, "\n"))
	}

	r.body(fmt.Sprintf("4.3 Software\n"+
		"- HashHound %s\n"+
		"- Hash functions: SHA-256, SHA-1, MD5\n"+
		"- Reference hashes loaded: %d\n"+
		"- Analysis time: %s to %s (%s)",
		results.Version, results.KnownHashes,
		formatInstant(results.StartTime), formatInstant(results.EndTime), FormatDuration(results.Duration)))
}

func (r *pdfReport) signature(meta Metadata) {
	r.heading("5. CONFIRMATION AND SIGNATURE")
	r.body("I confirm that this analysis was carried out to the best of my knowledge and in accordance " +
		"with the applicable standards for digital forensics. The documented results correspond to the " +
		"actual findings of the technical examination.")
	r.pdf.Ln(8)
	r.body("Place, date: ____________________, " + meta.GeneratedAt.Format("2006-01-02"))
	r.pdf.Ln(12)
	r.body("________________________________\n" + orNA(meta.Investigator) + "\nDigital forensic examiner")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
