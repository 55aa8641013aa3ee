//go:build linux

package ingest

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/mdlayher/netlink"
)

const (
	// Netlink route constants for link dumps
	rtmGetLink = 18 // RTM_GETLINK

	iflaIfname  = 3  // IFLA_IFNAME attribute
	iflaStats64 = 23 // IFLA_STATS64 attribute
)

// ifInfoMsg is the wire format of struct ifinfomsg (16 bytes).
type ifInfoMsg struct {
	Family uint8
	Pad    uint8
	Type   uint16
	Index  int32
	Flags  uint32
	Change uint32
}

// NetdevSource samples RX/TX byte counters for one network interface via a
// netlink RTM_GETLINK dump and emits their rates as two channels. A handy
// built-in stream for exercising the plot without external hardware.
type NetdevSource struct {
	iface string
	conn  *netlink.Conn

	mu       sync.Mutex
	interval time.Duration

	lastRX, lastTX uint64
	lastAt         time.Time
	primedCounters bool
	rxEMA, txEMA   *EMA

	sent bool
}

// NewNetdevSource samples the named interface every interval. An empty
// iface picks the default-route interface.
func NewNetdevSource(iface string, interval time.Duration) (Source, error) {
	if iface == "" {
		iface = DetectDefaultInterface()
	}
	if iface == "" {
		return nil, fmt.Errorf("netdev source: no usable network interface found")
	}
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	// NETLINK_ROUTE = 0
	conn, err := netlink.Dial(0, nil)
	if err != nil {
		return nil, fmt.Errorf("netlink dial: %w", err)
	}
	return &NetdevSource{
		iface:    iface,
		conn:     conn,
		interval: interval,
		rxEMA:    NewEMA(0.3),
		txEMA:    NewEMA(0.3),
	}, nil
}

func (n *NetdevSource) Name() string { return "netdev:" + n.iface }

// SetInterval changes the sample interval; takes effect on the next wait.
func (n *NetdevSource) SetInterval(d time.Duration) {
	if d < 10*time.Millisecond {
		d = 10 * time.Millisecond
	}
	n.mu.Lock()
	n.interval = d
	n.mu.Unlock()
}

// Next emits a header row first, then smoothed RX/TX rates in KiB/s.
func (n *NetdevSource) Next(ctx context.Context) (Row, error) {
	if !n.sent {
		n.sent = true
		names := []string{n.iface + " rx KiB/s", n.iface + " tx KiB/s"}
		return Row{Names: names, Raw: names[0] + "," + names[1]}, nil
	}

	n.mu.Lock()
	d := n.interval
	n.mu.Unlock()
	select {
	case <-time.After(d):
	case <-ctx.Done():
		return Row{}, ctx.Err()
	}

	rx, tx, err := n.readCounters()
	if err != nil {
		return Row{}, err
	}
	now := time.Now()
	if !n.primedCounters {
		n.lastRX, n.lastTX, n.lastAt = rx, tx, now
		n.primedCounters = true
		return Row{Values: []float64{0, 0}, Raw: "0,0"}, nil
	}

	dt := now.Sub(n.lastAt).Seconds()
	if dt <= 0 {
		dt = d.Seconds()
	}
	rxRate := n.rxEMA.Update(float64(rx-n.lastRX) / dt / 1024)
	txRate := n.txEMA.Update(float64(tx-n.lastTX) / dt / 1024)
	n.lastRX, n.lastTX, n.lastAt = rx, tx, now

	return Row{
		Values: []float64{rxRate, txRate},
		Raw:    fmt.Sprintf("%.1f,%.1f", rxRate, txRate),
	}, nil
}

// readCounters dumps all links and pulls IFLA_STATS64 for the configured
// interface.
func (n *NetdevSource) readCounters() (rx, tx uint64, err error) {
	req := ifInfoMsg{}
	reqBytes := (*[unsafe.Sizeof(req)]byte)(unsafe.Pointer(&req))[:]

	msgs, err := n.conn.Execute(netlink.Message{
		Header: netlink.Header{
			Type:  rtmGetLink,
			Flags: netlink.Request | netlink.Dump,
		},
		Data: reqBytes,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("link dump: %w", err)
	}

	for _, m := range msgs {
		name, r, t, ok := parseLinkMsg(m.Data)
		if ok && name == n.iface {
			return r, t, nil
		}
	}
	return 0, 0, fmt.Errorf("interface %s not found in link dump", n.iface)
}

// parseLinkMsg extracts the interface name and stats64 byte counters from
// one RTM_NEWLINK message.
func parseLinkMsg(data []byte) (name string, rx, tx uint64, ok bool) {
	hdr := int(unsafe.Sizeof(ifInfoMsg{}))
	if len(data) < hdr {
		return "", 0, 0, false
	}
	attrs, err := netlink.UnmarshalAttributes(data[hdr:])
	if err != nil {
		return "", 0, 0, false
	}

	var haveStats bool
	for _, attr := range attrs {
		switch int(attr.Type) {
		case iflaIfname:
			// Null-terminated string
			b := attr.Data
			if len(b) > 0 && b[len(b)-1] == 0 {
				b = b[:len(b)-1]
			}
			name = string(b)
		case iflaStats64:
			// struct rtnl_link_stats64: rx_packets, tx_packets, rx_bytes,
			// tx_bytes, ... as uint64s.
			if len(attr.Data) >= 32 {
				rx = binary.LittleEndian.Uint64(attr.Data[16:24])
				tx = binary.LittleEndian.Uint64(attr.Data[24:32])
				haveStats = true
			}
		}
	}
	return name, rx, tx, name != "" && haveStats
}

func (n *NetdevSource) Close() error { return n.conn.Close() }
