// Package present renders repository results for the command line as
// styled text, JSON or YAML. The engine never prints; everything a user
// sees goes through a Printer.
package present

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format selects how results are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --output value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 100

// Printer writes results to out and warnings to errOut in one format.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	format Format
	width  int
	st     styles
}

// New returns a Printer. Colours are only emitted when out is a terminal
// that supports them.
func New(out, errOut io.Writer, format Format) *Printer {
	return &Printer{
		out:    out,
		errOut: errOut,
		format: format,
		width:  TerminalWidth(out),
		st:     newStyles(lipgloss.NewRenderer(out)),
	}
}

// TerminalWidth reports the column count of w when it is a terminal, and
// defaultWidth otherwise.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

// Format returns the output format.
func (p *Printer) Format() Format { return p.format }

// structured reports whether results are emitted as data rather than text.
func (p *Printer) structured() bool { return p.format != FormatText }

// emit writes v in the structured format.
func (p *Printer) emit(v any) error {
	switch p.format {
	case FormatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = p.out.Write(append(data, '\n'))
		return err
	}
}

func (p *Printer) println(s string) error {
	_, err := fmt.Fprintln(p.out, s)
	return err
}
