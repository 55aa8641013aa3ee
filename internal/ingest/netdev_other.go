//go:build !linux

package ingest

import (
	"fmt"
	"time"
)

// NewNetdevSource is only implemented on Linux, where the interface
// counters come from a netlink link dump.
func NewNetdevSource(iface string, interval time.Duration) (Source, error) {
	return nil, fmt.Errorf("netdev source is only available on linux")
}
