// Package ingest delivers rows of samples to the plot engine. A Source
// produces rows (serial/stdin lines, a synthetic generator, network
// counters, a Prometheus endpoint); the Collector runs it on its own
// goroutine and hands rows over a channel, so the engine itself is only
// ever touched from the consumer's loop.
package ingest

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"
)

// Row is one ingested record. Names is non-nil for header rows, which
// rename the channel set; otherwise Values carries one sample per channel.
// Raw preserves the original line for the console view.
type Row struct {
	Values []float64
	Names  []string
	Raw    string
}

// Source produces rows. Next blocks until a row is available, the context
// is canceled, or the stream ends (io.EOF).
type Source interface {
	Name() string
	Next(ctx context.Context) (Row, error)
	Close() error
}

// IntervalSetter is implemented by tick-driven sources to allow dynamic
// interval changes from the UI.
type IntervalSetter interface {
	SetInterval(d time.Duration)
}

// Collector drives a Source and delivers its rows on a channel. The channel
// closes when the source ends or Stop is called.
type Collector struct {
	src Source

	out    chan Row
	cancel context.CancelFunc
	done   chan struct{}

	once sync.Once
}

// NewCollector wraps src. Call Start to begin ingestion.
func NewCollector(src Source) *Collector {
	return &Collector{
		src:  src,
		out:  make(chan Row, 64),
		done: make(chan struct{}),
	}
}

// Start launches the ingestion goroutine and returns the row channel.
func (c *Collector) Start() <-chan Row {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.run(ctx)
	return c.out
}

func (c *Collector) run(ctx context.Context) {
	defer close(c.out)
	defer close(c.done)
	for {
		row, err := c.src.Next(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				log.Printf("serialscope: %s source stopped: %v", c.src.Name(), err)
			}
			return
		}
		select {
		case c.out <- row:
		case <-ctx.Done():
			return
		}
	}
}

// SetInterval forwards an interval change to the source if it supports one.
func (c *Collector) SetInterval(d time.Duration) {
	if is, ok := c.src.(IntervalSetter); ok {
		is.SetInterval(d)
	}
}

// Stop cancels ingestion, closes the source and waits for the goroutine.
// Safe to call more than once.
func (c *Collector) Stop() {
	c.once.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
		c.src.Close()
		if c.cancel != nil {
			<-c.done
		}
	})
}
