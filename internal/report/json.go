package report

import (
	"os"

	"github.com/goccy/go-json"

	"github.com/IvanShishkin/hashhound/pkg/models"
)

// JSONReport combines scan results with the case metadata for JSON output
type JSONReport struct {
	Report Metadata `json:"report"`
	*models.ScanResults
}

// generateJSON generates a JSON report
func (g *Generator) generateJSON(results *models.ScanResults, meta Metadata, outputFile string) error {
	report := &JSONReport{
		Report:      meta,
		ScanResults: results,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(outputFile, data, 0644)
}
