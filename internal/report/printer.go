// Package report renders inspection and trace results as human-readable
// text. Report lines go to the output stream; warnings and errors go to the
// error stream.
package report

import (
	"fmt"
	"io"
)

// Printer writes report lines to two streams.
type Printer struct {
	out io.Writer
	err io.Writer
}

// NewPrinter creates a Printer. errW may be the same writer as outW.
func NewPrinter(outW, errW io.Writer) *Printer {
	return &Printer{out: outW, err: errW}
}

// Line writes a plain report line.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Info writes a highlighted report line, such as a section banner.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Blank writes an empty line to the output stream.
func (p *Printer) Blank() {
	fmt.Fprintln(p.out)
}

// Warn writes a warning line to the error stream.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.err, format+"\n", args...)
}

// Error writes an error line to the error stream.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.err, format+"\n", args...)
}
