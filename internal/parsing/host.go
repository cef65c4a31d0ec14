package parsing

import (
	"strconv"
	"strings"

	"github.com/oesand/weburl/internal/plain"
	"golang.org/x/net/idna"
)

// CanonicalHost validates an url host and reduces it to its single
// canonical form: a lowercase dns name, a dotted decimal ipv4 literal
// or a compressed ipv6 literal without brackets.
func CanonicalHost(host string) (string, bool) {
	if strings.IndexByte(host, ':') >= 0 || strings.HasPrefix(host, "[") {
		return canonicalIpv6(host)
	}

	ascii, err := hostToAscii(decodeUnreserved(host))
	if err != nil || ascii == "" || ascii == "." {
		return "", false
	}
	ascii = strings.TrimSuffix(ascii, ".")

	// A decimal digit after the last dot commits the host to the
	// ipv4 grammar, "1.2.3.4.5" never falls back to a dns name.
	dot := strings.LastIndexByte(ascii, '.')
	if dot+1 < len(ascii) && isDigit(ascii[dot+1]) {
		return canonicalIpv4(ascii)
	}
	return canonicalDns(ascii)
}

// hostToAscii hands unicode to ascii conversion over to the idna
// tables. The lookup profile folds case and maps per uts 46, but its
// label checks are stricter than the host grammar here, so rejected
// hosts retry with the lenient converter and rely on the grammar
// checks that follow.
func hostToAscii(host string) (string, error) {
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return idna.ToASCII(host)
	}
	return ascii, nil
}

// decodeUnreserved resolves percent escapes whose decoded byte is an
// unreserved character, leaving every other escape untouched.
func decodeUnreserved(host string) string {
	pos := 0
	for ; pos+2 < len(host); pos++ {
		if host[pos] == '%' && unreservedEscape(host, pos) {
			break
		}
	}
	if pos+2 >= len(host) {
		return host
	}

	var buf strings.Builder
	buf.Grow(len(host))
	buf.WriteString(host[:pos])
	for ; pos < len(host); pos++ {
		if host[pos] == '%' && unreservedEscape(host, pos) {
			d1 := plain.DecodeHexDigit(host[pos+1])
			d2 := plain.DecodeHexDigit(host[pos+2])
			buf.WriteByte(byte(d1<<4 | d2))
			pos += 2
			continue
		}
		buf.WriteByte(host[pos])
	}
	return buf.String()
}

func unreservedEscape(host string, pos int) bool {
	if pos+2 >= len(host) {
		return false
	}
	d1 := plain.DecodeHexDigit(host[pos+1])
	d2 := plain.DecodeHexDigit(host[pos+2])
	return d1 >= 0 && d2 >= 0 && isUnreserved(byte(d1<<4|d2))
}

func canonicalDns(host string) (string, bool) {
	lastDot := -1
	for i := 0; i < len(host); i++ {
		switch c := host[i]; {
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || isDigit(c) || c == '-':
		case c == '.':
			if lastDot == i-1 {
				return "", false
			}
			lastDot = i
		default:
			return "", false
		}
	}
	if lastDot == len(host)-1 {
		// A single trailing dot was already stripped, another one
		// means the name had an empty label.
		return "", false
	}
	return plain.LowerCase(host), true
}

func canonicalIpv4(host string) (string, bool) {
	address, ok := parseIpv4Octets(host)
	if !ok {
		return "", false
	}
	var buf strings.Builder
	for i, octet := range address {
		if i > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(strconv.Itoa(int(octet)))
	}
	return buf.String(), true
}

// parseIpv4Octets reads exactly four dot separated decimal octets,
// each 0-255 without leading zeros.
func parseIpv4Octets(host string) ([4]byte, bool) {
	var address [4]byte
	octets := strings.Split(host, ".")
	if len(octets) != 4 {
		return address, false
	}
	for i, octet := range octets {
		if octet == "" || len(octet) > 3 ||
			len(octet) > 1 && octet[0] == '0' {
			return address, false
		}
		value := 0
		for j := 0; j < len(octet); j++ {
			if !isDigit(octet[j]) {
				return address, false
			}
			value = value*10 + int(octet[j]-'0')
		}
		if value > 255 {
			return address, false
		}
		address[i] = byte(value)
	}
	return address, true
}

func isUnreserved(c byte) bool {
	switch c {
	case '-', '.', '_', '~':
		return true
	}
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
