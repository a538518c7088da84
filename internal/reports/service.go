// Package reports renders finalized simulation records into exportable
// artifacts: a long-form text report and a delimited tabular report.
package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/Daniel-Kats256/simulations/internal/simulations/domain"
)

const (
	textResultLimit = 100
	csvResultLimit  = 50
)

// Text renders the long-form report. Output is deterministic for a given
// record slice and generation time.
func Text(records []domain.SimulationRecord, now time.Time) []byte {
	var b strings.Builder

	b.WriteString("CYBERSECURITY SIMULATION REPORT\n")
	b.WriteString("=================================\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Total Simulations: %d\n\n", len(records))
	b.WriteString("SIMULATION DETAILS:\n")

	for i, rec := range records {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, rec.Name)
		fmt.Fprintf(&b, "   Type: %s\n", rec.Type)
		fmt.Fprintf(&b, "   Status: %s\n", rec.Status)
		fmt.Fprintf(&b, "   Launched By: %s\n", ownerLabel(rec))
		fmt.Fprintf(&b, "   Created: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
		if rec.Result != "" {
			fmt.Fprintf(&b, "   Result: %s\n", truncate(rec.Result, textResultLimit))
		} else {
			b.WriteString("   No results yet\n")
		}
	}

	b.WriteString("\nEND OF REPORT\n")
	return []byte(b.String())
}

// CSV renders the tabular report: one fixed header row, one row per
// record. Delimiters inside the result are substituted so every record
// stays on a single line.
func CSV(records []domain.SimulationRecord) []byte {
	var b strings.Builder

	b.WriteString("ID,Name,Type,Status,Launched By,Created,Updated,Result\n")
	for _, rec := range records {
		result := "Pending"
		if rec.Result != "" {
			result = truncate(strings.ReplaceAll(rec.Result, ",", ";"), csvResultLimit)
		}
		fmt.Fprintf(&b, "%s,%q,%q,%q,%q,%q,%q,%q\n",
			rec.ID,
			rec.Name,
			rec.Type,
			rec.Status,
			ownerLabel(rec),
			rec.CreatedAt.UTC().Format(time.RFC3339),
			rec.UpdatedAt.UTC().Format(time.RFC3339),
			result,
		)
	}
	return []byte(b.String())
}

// Filename builds the export filename for a given date and extension,
// e.g. simulation-report-2026-08-28.xlsx.
func Filename(now time.Time, ext string) string {
	return fmt.Sprintf("simulation-report-%s.%s", now.UTC().Format("2006-01-02"), ext)
}

func ownerLabel(rec domain.SimulationRecord) string {
	if rec.OwnerUsername != "" {
		return rec.OwnerUsername
	}
	return fmt.Sprintf("User %s", rec.OwnerID)
}

// truncate cuts on rune boundaries so echoed config text never tears a
// multibyte character at the limit.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
