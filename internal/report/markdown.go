package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dayuer/fmp-mcp-go/internal/fmp"
)

// StampLayout is the timestamp format of "Data as of" lines.
const StampLayout = "2006-01-02 15:04:05"

// Stamp renders the "Data as of" line for t.
func Stamp(t time.Time) string {
	return "*Data as of " + t.Format(StampLayout) + "*"
}

// Column is one table column.
type Column struct {
	Header string
	// Cell renders the column for the i-th record (0-based).
	Cell func(i int, r fmp.Record) string
}

// Field is a column showing r[key] as plain text.
func Field(header, key string) Column {
	return Column{Header: header, Cell: func(_ int, r fmp.Record) string { return Val(r, key) }}
}

// NumField is a column showing r[key] with thousands separators.
func NumField(header, key string) Column {
	return Column{Header: header, Cell: func(_ int, r fmp.Record) string { return Num(r, key) }}
}

// RankField numbers rows from 1.
func RankField(header string) Column {
	return Column{Header: header, Cell: func(i int, _ fmp.Record) string { return fmt.Sprint(i + 1) }}
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// cell keeps a value inside one table cell.
func cell(s string) string {
	return cellEscaper.Replace(s)
}

// Table renders a pipe table. Separator dashes match each header's width.
func Table(cols []Column, records []fmp.Record) []string {
	headers := make([]string, len(cols))
	seps := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = cell(c.Header)
		seps[i] = strings.Repeat("-", len(c.Header)+2)
	}
	lines := make([]string, 0, len(records)+2)
	lines = append(lines, "| "+strings.Join(headers, " | ")+" |", "|"+strings.Join(seps, "|")+"|")
	for i, r := range records {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = cell(c.Cell(i, r))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}
	return lines
}

// Doc accumulates Markdown lines.
type Doc struct {
	lines []string
}

// NewDoc starts a document with a top-level heading.
func NewDoc(format string, args ...any) *Doc {
	d := &Doc{}
	d.lines = append(d.lines, "# "+fmt.Sprintf(format, args...))
	return d
}

// Section adds a "## " heading.
func (d *Doc) Section(format string, args ...any) {
	d.lines = append(d.lines, "## "+fmt.Sprintf(format, args...))
}

// Sub adds a "### " heading.
func (d *Doc) Sub(format string, args ...any) {
	d.lines = append(d.lines, "### "+fmt.Sprintf(format, args...))
}

// Line adds a formatted line.
func (d *Doc) Line(format string, args ...any) {
	d.lines = append(d.lines, fmt.Sprintf(format, args...))
}

// Text adds raw lines verbatim.
func (d *Doc) Text(lines ...string) {
	d.lines = append(d.lines, lines...)
}

// Bold adds "**label**: value".
func (d *Doc) Bold(label, value string) {
	d.lines = append(d.lines, "**"+label+"**: "+value)
}

// Blank adds an empty line.
func (d *Doc) Blank() {
	d.lines = append(d.lines, "")
}

// Stamp adds the "Data as of" line.
func (d *Doc) Stamp(t time.Time) {
	d.lines = append(d.lines, Stamp(t))
}

// Table adds a pipe table.
func (d *Doc) Table(cols []Column, records []fmp.Record) {
	d.lines = append(d.lines, Table(cols, records)...)
}

// String joins the lines with newlines.
func (d *Doc) String() string {
	return strings.Join(d.lines, "\n")
}
