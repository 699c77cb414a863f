package group

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

// Prefix is the first word of outbound group addresses (site-local scope,
// transient).
const Prefix = 0xFF12

// ErrMalformedAddress is returned for text that is not an IPv6 multicast
// address.
var ErrMalformedAddress = errors.New("malformed group address")

// Address is an IPv6 address as eight 16-bit words.
type Address [8]uint16

// AddressFrom converts a netip address. IPv4 addresses are mapped.
func AddressFrom(ip netip.Addr) Address {
	b := ip.As16()
	var a Address
	for i := range a {
		a[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return a
}

// Addr returns the address as a netip.Addr.
func (a Address) Addr() netip.Addr {
	var b [16]byte
	for i, w := range a {
		b[2*i] = byte(w >> 8)
		b[2*i+1] = byte(w)
	}
	return netip.AddrFrom16(b)
}

// GroupID returns the group identifier carried in the last word.
func (a Address) GroupID() uint16 {
	return a[7]
}

// String returns the canonical textual form.
func (a Address) String() string {
	return a.Addr().String()
}

// MulticastAddress returns the outbound address of a group.
func MulticastAddress(id uint16) Address {
	return Address{Prefix, 0, 0, 0, 0, 0, 0, id}
}

// GroupIDFromAddress extracts the group identifier from the low two bytes
// of addr.
func GroupIDFromAddress(addr netip.Addr) uint16 {
	return AddressFrom(addr).GroupID()
}

// ParseMulticastAddress parses the multicast address in a request body.
// Parsing starts at the first "FF" (any case); text before it is ignored,
// as is surrounding white space and NUL padding. The input is not modified.
func ParseMulticastAddress(text string) (Address, error) {
	i := indexPrefix(text)
	if i < 0 {
		return Address{}, fmt.Errorf("%w: %q has no multicast prefix", ErrMalformedAddress, text)
	}
	s := strings.TrimRight(text[i:], " \t\r\n\x00")

	ip, err := netip.ParseAddr(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrMalformedAddress, err)
	}
	if !ip.Is6() || ip.Is4In6() || !ip.IsMulticast() || ip.Zone() != "" {
		return Address{}, fmt.Errorf("%w: %s is not an IPv6 multicast address", ErrMalformedAddress, s)
	}
	return AddressFrom(ip), nil
}

func indexPrefix(s string) int {
	for i := 0; i+1 < len(s); i++ {
		if s[i]|0x20 == 'f' && s[i+1]|0x20 == 'f' {
			return i
		}
	}
	return -1
}
