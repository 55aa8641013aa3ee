package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// LineSource reads rows from a line-oriented text stream: stdin, a file, a
// FIFO, or a serial device node such as /dev/ttyUSB0. Each line is split on
// commas and whitespace; a line whose fields all parse as numbers is a
// sample row, anything else is treated as a channel-name header.
type LineSource struct {
	name    string
	r       io.ReadCloser
	scanner *bufio.Scanner
}

// NewLineSource opens path, with "-" meaning stdin.
func NewLineSource(path string) (*LineSource, error) {
	if path == "-" || path == "" {
		return &LineSource{
			name:    "stdin",
			r:       io.NopCloser(os.Stdin),
			scanner: bufio.NewScanner(os.Stdin),
		}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &LineSource{name: path, r: f, scanner: bufio.NewScanner(f)}, nil
}

// NewLineSourceFromReader wraps an arbitrary reader; used by tests.
func NewLineSourceFromReader(name string, r io.Reader) *LineSource {
	return &LineSource{
		name:    name,
		r:       io.NopCloser(r),
		scanner: bufio.NewScanner(r),
	}
}

func (s *LineSource) Name() string { return s.name }

// Next returns the next non-blank line as a Row. Scanner reads are blocking,
// so cancellation takes effect between lines; Close unblocks a pending read
// on real files and pipes.
func (s *LineSource) Next(ctx context.Context) (Row, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Row{}, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return Row{}, err
			}
			return Row{}, io.EOF
		}
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}
		row, ok := ParseLine(line)
		if !ok {
			continue
		}
		return row, nil
	}
}

func (s *LineSource) Close() error { return s.r.Close() }

// ParseLine splits a raw line into a sample row or a header row. It returns
// ok=false only for lines with no fields at all.
func ParseLine(line string) (Row, bool) {
	fields := splitFields(line)
	if len(fields) == 0 {
		return Row{}, false
	}

	values := make([]float64, len(fields))
	numeric := true
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			numeric = false
			break
		}
		values[i] = v
	}
	if numeric {
		return Row{Values: values, Raw: line}, true
	}
	return Row{Names: fields, Raw: line}, true
}

func splitFields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == '\t' || unicode.IsSpace(r)
	})
}
