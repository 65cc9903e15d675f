package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Report writes err to w, colorized with the same bold-severity style this
// codebase's lineage uses for compiler diagnostics, when useColor is set.
// Plain text is written otherwise.
func Report(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}
	if !useColor {
		fmt.Fprintf(w, "error: %s\n", err)
		return
	}
	bold := color.New(color.Bold, color.FgRed).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", bold("error:"), err)
}

// ReportOK writes a success line, colorized green when useColor is set.
func ReportOK(w io.Writer, msg string, useColor bool) {
	if !useColor {
		fmt.Fprintln(w, msg)
		return
	}
	bold := color.New(color.Bold, color.FgGreen).SprintFunc()
	fmt.Fprintln(w, bold(msg))
}
