// Package report renders patch status rows in the supported output formats.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"patchstatus/internal/overview"
	"patchstatus/internal/patchcheck"
)

// Column headers, in output order.
var Headers = []string{"Module", "Source", "Patch applied"}

// Format selects an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// Formats lists the accepted --format values.
func Formats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatYAML), string(FormatCSV)}
}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatTable, FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	case "":
		return FormatTable, nil
	}
	return "", fmt.Errorf("unknown format %q (want one of %s)", s, strings.Join(Formats(), ", "))
}

// Row is one output line.
type Row struct {
	Module string `json:"Module" yaml:"Module"`
	Source string `json:"Source" yaml:"Source"`
	Status string `json:"Patch applied" yaml:"Patch applied"`
}

// Rows converts records to rows, keeping their order.
func Rows(records []overview.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row{Module: rec.Module, Source: rec.Source, Status: string(rec.Status)})
	}
	return rows
}

// Write renders rows to w in the given format.
func Write(w io.Writer, format Format, rows []Row) error {
	switch format {
	case FormatTable, "":
		return writeTable(w, rows)
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatYAML:
		return writeYAML(w, rows)
	case FormatCSV:
		return writeCSV(w, rows)
	}
	return fmt.Errorf("unknown format %q", format)
}

var (
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	headerStyle  = cellStyle.Bold(true)
	statusStyles = map[string]lipgloss.Style{
		string(patchcheck.StatusApplied):    cellStyle.Foreground(lipgloss.Color("2")),
		string(patchcheck.StatusNotApplied): cellStyle.Foreground(lipgloss.Color("3")),
		string(patchcheck.StatusUnsure):     cellStyle.Foreground(lipgloss.Color("1")),
	}
)

func writeTable(w io.Writer, rows []Row) error {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.Module, r.Source, r.Status})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 && row >= 0 && row < len(data) {
				if st, ok := statusStyles[data[row][2]]; ok {
					return st
				}
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.String())
	return err
}

func writeJSON(w io.Writer, rows []Row) error {
	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func writeYAML(w io.Writer, rows []Row) error {
	out, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func writeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Module, r.Source, r.Status}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
