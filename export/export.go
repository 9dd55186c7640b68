// Package export renders verdicts into the formats handed to users: JSON,
// CSV and a plain-text report.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"linksafety/verdict"
)

var csvHeader = []string{
	"url", "classification", "total_score", "lookup_available",
	"threat_categories", "reasons", "timestamp",
}

// WriteJSON writes the canonical serialized form of every verdict.
func WriteJSON(w io.Writer, verdicts []verdict.FinalVerdict) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(verdicts); err != nil {
		return fmt.Errorf("export: encode json: %w", err)
	}
	return nil
}

// WriteCSV writes one row per verdict with a fixed header.
func WriteCSV(w io.Writer, verdicts []verdict.FinalVerdict) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export: write csv header: %w", err)
	}
	for _, v := range verdicts {
		row := []string{
			v.URL,
			string(v.Classification),
			strconv.Itoa(v.RiskBreakdown.TotalScore),
			strconv.FormatBool(v.LookupAvailable),
			strings.Join(v.ThreatCategories, "; "),
			strings.Join(v.Reasons, "; "),
			v.Timestamp,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush csv: %w", err)
	}
	return nil
}

// WriteText writes a human-readable report: one summary block per verdict.
func WriteText(w io.Writer, verdicts []verdict.FinalVerdict) error {
	for i, v := range verdicts {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return fmt.Errorf("export: write text: %w", err)
			}
		}
		if _, err := fmt.Fprintf(w, "%s\n  %s\n", v.URL, v.Summary()); err != nil {
			return fmt.Errorf("export: write text: %w", err)
		}
		for _, reason := range v.Reasons {
			if _, err := fmt.Fprintf(w, "  - %s\n", reason); err != nil {
				return fmt.Errorf("export: write text: %w", err)
			}
		}
	}
	return nil
}
