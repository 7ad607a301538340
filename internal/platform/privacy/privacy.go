// Package privacy masks personal data before it reaches logs.
package privacy

import (
	"net"
	"net/netip"
	"strings"
)

// MaskNino keeps the prefix letters and the suffix letter of a National
// Insurance number: "QQ123456C" -> "QQ******C".
func MaskNino(nino string) string {
	if nino == "" {
		return ""
	}
	if len(nino) < 4 {
		return strings.Repeat("*", len(nino))
	}
	return nino[:2] + strings.Repeat("*", len(nino)-3) + nino[len(nino)-1:]
}

// MaskEmail keeps the first character of the local part and the domain.
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return strings.Repeat("*", len(email))
	}
	return email[:1] + "***" + email[at:]
}

// AnonymizeIP truncates IPv4 addresses to their /24 and IPv6 addresses to
// their /48. A host:port pair is accepted.
// Returns "invalid" for unparseable input and "unknown" for an empty string.
func AnonymizeIP(addr string) string {
	if addr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return "invalid"
	}
	ip = ip.Unmap()
	bits := 48
	if ip.Is4() {
		bits = 24
	}
	prefix, err := ip.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}
