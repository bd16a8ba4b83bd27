package rbl

import (
	"net/netip"
	"strconv"
)

const hexDigit = "0123456789abcdef"

// ReverseKey converts an address into the reversed lookup-key form used as a
// query prefix against reputation zones. IPv4 addresses become their four
// octets in reverse order ("192.168.1.1" -> "1.1.168.192"); IPv6 addresses
// become the 32 hex nibbles of the fully expanded address, reversed and
// dot-joined, following the standard reverse-DNS nibble convention.
// IPv4-mapped IPv6 addresses are reversed as IPv4.
func ReverseKey(addr netip.Addr) string {
	if addr.Is4() || addr.Is4In6() {
		return reverse4(addr.Unmap())
	}
	return reverse6(addr)
}

func reverse4(addr netip.Addr) string {
	o := addr.As4()
	return strconv.Itoa(int(o[3])) + "." + strconv.Itoa(int(o[2])) + "." +
		strconv.Itoa(int(o[1])) + "." + strconv.Itoa(int(o[0]))
}

func reverse6(addr netip.Addr) string {
	b := addr.As16()
	// 32 nibbles and 31 separators
	buf := make([]byte, 0, 63)
	for i := len(b) - 1; i >= 0; i-- {
		v := b[i]
		buf = append(buf, hexDigit[v&0xF], '.', hexDigit[v>>4])
		if i > 0 {
			buf = append(buf, '.')
		}
	}
	return string(buf)
}
