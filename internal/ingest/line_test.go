package ingest

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantValues []float64
		wantNames  []string
		wantOK     bool
	}{
		{"comma separated", "1.5,2,3", []float64{1.5, 2, 3}, nil, true},
		{"space separated", "1 2 3", []float64{1, 2, 3}, nil, true},
		{"mixed separators", "1,\t2 ;3", []float64{1, 2, 3}, nil, true},
		{"single value", "42", []float64{42}, nil, true},
		{"negative and exponent", "-1.5,2e3", []float64{-1.5, 2000}, nil, true},
		{"header row", "volts,amps", nil, []string{"volts", "amps"}, true},
		{"mixed header", "volts,1.5", nil, []string{"volts", "1.5"}, true},
		{"empty", "", nil, nil, false},
		{"only separators", " ,\t, ", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := ParseLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if len(row.Values) != len(tt.wantValues) {
				t.Fatalf("values = %v, want %v", row.Values, tt.wantValues)
			}
			for i := range tt.wantValues {
				if row.Values[i] != tt.wantValues[i] {
					t.Errorf("values[%d] = %f, want %f", i, row.Values[i], tt.wantValues[i])
				}
			}
			if len(row.Names) != len(tt.wantNames) {
				t.Fatalf("names = %v, want %v", row.Names, tt.wantNames)
			}
			for i := range tt.wantNames {
				if row.Names[i] != tt.wantNames[i] {
					t.Errorf("names[%d] = %q, want %q", i, row.Names[i], tt.wantNames[i])
				}
			}
			if row.Raw != tt.line {
				t.Errorf("raw = %q, want %q", row.Raw, tt.line)
			}
		})
	}
}

func TestLineSourceStream(t *testing.T) {
	input := "volts,amps\n1,10\n\n  \n2,20\n"
	src := NewLineSourceFromReader("test", strings.NewReader(input))
	ctx := context.Background()

	row, err := src.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(row.Names) != 2 || row.Names[0] != "volts" {
		t.Fatalf("first row = %+v, want header", row)
	}

	row, err = src.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(row.Values) != 2 || row.Values[0] != 1 || row.Values[1] != 10 {
		t.Fatalf("second row = %+v, want [1 10]", row)
	}

	// Blank lines are skipped.
	row, err = src.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if row.Values[0] != 2 {
		t.Fatalf("third row = %+v, want [2 20]", row)
	}

	_, err = src.Next(ctx)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want io.EOF at end of stream", err)
	}
}

func TestLineSourceCanceledContext(t *testing.T) {
	src := NewLineSourceFromReader("test", strings.NewReader("1\n2\n"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := src.Next(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCollectorDeliversRows(t *testing.T) {
	src := NewLineSourceFromReader("test", strings.NewReader("1,2\n3,4\n"))
	c := NewCollector(src)
	ch := c.Start()
	defer c.Stop()

	var rows []Row
	for row := range ch {
		rows = append(rows, row)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[1].Values[1] != 4 {
		t.Errorf("rows[1] = %+v, want [3 4]", rows[1])
	}
}

func TestCollectorStopIdempotent(t *testing.T) {
	src := NewSynthSource(2, 1000)
	c := NewCollector(src)
	ch := c.Start()
	<-ch // header
	<-ch // one sample
	c.Stop()
	c.Stop()
}
