package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/feluda/pkg/errors"
	"github.com/matzehuels/feluda/pkg/licenses"
	"github.com/matzehuels/feluda/pkg/scan"
)

// Report formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var reportFormats = []string{formatTable, formatJSON, formatYAML}

// filterRecords keeps the records selected by the --*-only flags. With
// both flags a record matching either is kept.
func filterRecords(records []scan.Record, restrictiveOnly, incompatibleOnly bool) []scan.Record {
	if !restrictiveOnly && !incompatibleOnly {
		return records
	}
	var out []scan.Record
	for _, r := range records {
		if restrictiveOnly && r.License.Restrictive ||
			incompatibleOnly && r.License.Compatibility == licenses.Incompatible {
			out = append(out, r)
		}
	}
	return out
}

// writeReport renders res with records in place of res.Records.
func writeReport(w io.Writer, res *scan.Result, records []scan.Record, format string) error {
	view := *res
	view.Records = records
	if view.Records == nil {
		view.Records = []scan.Record{}
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	case formatTable, "":
		writeTable(w, &view)
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want %s)", format, strings.Join(reportFormats, ", "))
	}
}

func writeTable(w io.Writer, res *scan.Result) {
	if res.ProjectLicense != "" {
		fmt.Fprintln(w, StyleDim.Render("Project license: ")+StyleValue.Render(res.ProjectLicense))
	}

	if len(res.Records) == 0 {
		printInfo(w, "No dependencies to report")
	} else {
		fmt.Fprintln(w, recordTable(res.Records).Render())
	}

	fmt.Fprintln(w, summaryLine(res.Summary))
	for _, name := range topLicenses(res.Summary.ByLicense) {
		fmt.Fprintf(w, "  %s %s\n", StyleDim.Render(fmt.Sprintf("%-24s", name)), StyleNumber.Render(fmt.Sprint(res.Summary.ByLicense[name])))
	}
	for _, msg := range res.Warnings {
		printWarning(w, "%s", msg)
	}
}

func recordTable(records []scan.Record) *table.Table {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		version := r.Version
		if version == "" {
			version = "-"
		}
		rows = append(rows, []string{
			r.Name,
			version,
			string(r.Ecosystem),
			r.License.Display(),
			r.License.OSI.String(),
			statusLabel(r.License),
			string(r.License.Source),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("Dependency", "Version", "Ecosystem", "License", "OSI", "Status", "Source").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(records) {
				return base
			}
			switch col {
			case 3, 5:
				return base.Inherit(licenseStyle(records[row].License))
			case 4, 6:
				return base.Foreground(colorMuted)
			}
			return base
		})
}

func summaryLine(s scan.Summary) string {
	parts := []string{
		StyleNumber.Render(fmt.Sprint(s.Total)) + StyleDim.Render(" dependencies"),
		countStyle(s.Restrictive, StyleDanger).Render(fmt.Sprint(s.Restrictive)) + StyleDim.Render(" restrictive"),
		countStyle(s.Incompatible, StyleDanger).Render(fmt.Sprint(s.Incompatible)) + StyleDim.Render(" incompatible"),
		countStyle(s.Unknown, StyleWarning).Render(fmt.Sprint(s.Unknown)) + StyleDim.Render(" unknown"),
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func countStyle(n int, bad lipgloss.Style) lipgloss.Style {
	if n > 0 {
		return bad
	}
	return StyleSuccess
}

// topLicenses orders license names by count, then name.
func topLicenses(byLicense map[string]int) []string {
	names := make([]string, 0, len(byLicense))
	for name := range byLicense {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if d := byLicense[b] - byLicense[a]; d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return names
}
