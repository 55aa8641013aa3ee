package ingest

import "net"

// DetectDefaultInterface returns the name of the interface used for the
// default route, falling back to the first non-loopback interface that is
// up and has an address.
func DetectDefaultInterface() string {
	// Connect a UDP socket (no actual traffic) to a public IP and see which
	// local address the route picks.
	conn, err := net.Dial("udp4", "8.8.8.8:53")
	if err != nil {
		return fallbackInterface()
	}
	defer conn.Close()
	target := conn.LocalAddr().(*net.UDPAddr).IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip != nil && ip.Equal(target) {
				return iface.Name
			}
		}
	}
	return fallbackInterface()
}

func fallbackInterface() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		if len(addrs) > 0 {
			return iface.Name
		}
	}
	return ""
}
