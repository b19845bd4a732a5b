package output

import (
	"io"
)

// Print writes data in format. Table output renders tableData, every other
// format encodes raw so machine-readable output keeps full field detail.
func Print(w io.Writer, format string, tableData Data, raw any) error {
	f := Format(format)
	formatter := NewFormatter(f)
	switch f {
	case FormatTable, "":
		return formatter.Format(w, tableData)
	default:
		return formatter.Format(w, raw)
	}
}

// PrintAny writes data in format. Table output falls back to the reflective
// struct conversion of TableFormatter.
func PrintAny(w io.Writer, format string, data any) error {
	return NewFormatter(Format(format)).Format(w, data)
}
