package net

import (
	"errors"
	"net"
	"net/netip"
)

var ErrNoValidNetworkInterfaceFound = errors.New("no valid network interface found")

// FindAvailableIPv4Addr returns the first global unicast IPv4 address of an up,
// non-loopback interface.
func FindAvailableIPv4Addr() (netip.Addr, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return netip.Addr{}, err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			return netip.Addr{}, err
		}
		if addr, ok := firstIPv4(addrs); ok {
			return addr, nil
		}
	}
	return netip.Addr{}, ErrNoValidNetworkInterfaceFound
}

func firstIPv4(addrs []net.Addr) (netip.Addr, bool) {
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		addr, ok := netip.AddrFromSlice(ipNet.IP)
		if !ok {
			continue
		}
		addr = addr.Unmap()
		if addr.Is4() && addr.IsGlobalUnicast() {
			return addr, true
		}
	}
	return netip.Addr{}, false
}
