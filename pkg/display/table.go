package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/kylerisse/uptui/pkg/probe"
)

// Columns are the table headers, in order.
var Columns = []string{"Name", "Address", "Status", "Latency (ms)"}

const clearScreen = "\x1b[H\x1b[2J"

// Frame is one full redraw of the screen.
type Frame struct {
	Rows []probe.Result

	// Refreshed is when the rows were produced. Zero before the first cycle.
	Refreshed time.Time

	// Busy is set while a cycle is in flight.
	Busy bool

	// Notice is an optional one-line message, e.g. a config diagnostic.
	Notice string
}

// WriteTable writes rows as an aligned table with a header line.
func WriteTable(w io.Writer, rows []probe.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(Columns, "\t"))
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Address, r.Status, r.LatencyText())
	}

	return tw.Flush()
}

// Render clears the screen and draws the frame.
func Render(w io.Writer, f Frame) error {
	var b strings.Builder

	b.WriteString(clearScreen)
	b.WriteString("uptui\n\n")

	if len(f.Rows) == 0 {
		b.WriteString("no monitors configured\n")
	} else if err := WriteTable(&b, f.Rows); err != nil {
		return err
	}

	b.WriteString("\n")
	if f.Notice != "" {
		b.WriteString(f.Notice)
		b.WriteString("\n")
	}
	b.WriteString(footer(f))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func footer(f Frame) string {
	var parts []string
	switch {
	case f.Busy:
		parts = append(parts, "checking...")
	case f.Refreshed.IsZero():
		parts = append(parts, "not checked yet")
	default:
		parts = append(parts, "last check "+f.Refreshed.Format("15:04:05"))
	}
	parts = append(parts, "r: refresh", "q: quit")
	return strings.Join(parts, "  ")
}
