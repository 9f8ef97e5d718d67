package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// OutputMode represents the output format.
type OutputMode int

const (
	OutputNormal OutputMode = iota
	OutputPlain
	OutputJSON
)

// GetOutputMode returns the current output mode. Normal output falls back
// to plain text when stdout is not a terminal.
func GetOutputMode() OutputMode {
	if JSONOutput() {
		return OutputJSON
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return OutputPlain
	}
	return OutputNormal
}

// Table renders aligned rows through go-pretty.
type Table struct {
	tw table.Writer
}

// NewTable creates a new table on stdout with the given headers.
func NewTable(headers ...string) *Table {
	t := NewTableWriter(os.Stdout, headers...)
	if GetOutputMode() == OutputPlain {
		t.tw.SetStyle(plainStyle())
	}
	return t
}

// NewTableWriter creates a table writing to a specific writer.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	if len(headers) > 0 {
		tw.AppendHeader(row(headers))
	}
	return &Table{tw: tw}
}

func plainStyle() table.Style {
	s := table.StyleDefault
	s.Options = table.OptionsNoBordersAndSeparators
	s.Format.Header = text.FormatDefault
	s.Format.Footer = text.FormatDefault
	return s
}

func row(values []string) table.Row {
	r := make(table.Row, len(values))
	for i, v := range values {
		r[i] = v
	}
	return r
}

// AlignRight right-aligns the given 1-based columns.
func (t *Table) AlignRight(columns ...int) {
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		configs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight, AlignFooter: text.AlignRight}
	}
	t.tw.SetColumnConfigs(configs)
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	t.tw.AppendRow(row(values))
}

// Footer sets the table footer.
func (t *Table) Footer(values ...string) {
	t.tw.AppendFooter(row(values))
}

// Flush writes the table output.
func (t *Table) Flush() {
	t.tw.Render()
}

// PrintJSON writes v as indented JSON on stdout.
func PrintJSON(v any) error {
	return WriteJSON(os.Stdout, v)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Normal prints normal output with a label.
func Normal(label, value string) {
	fmt.Printf("%s: %s\n", label, value)
}

// NormalF prints normal formatted output.
func NormalF(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

// StatusIcon returns an icon for the given boolean status.
func StatusIcon(active bool) string {
	if active {
		return "●"
	}
	return "○"
}

// TruncateString truncates s to maxLen terminal cells, adding "..." if
// truncated.
func TruncateString(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}
