package parsing

import (
	"strconv"
	"strings"

	"github.com/oesand/weburl/internal/plain"
)

// canonicalIpv6 parses an ipv6 literal, optionally bracket wrapped and
// with a zone suffix, and reprints it per rfc 5952.
func canonicalIpv6(host string) (string, bool) {
	if strings.HasPrefix(host, "[") {
		if !strings.HasSuffix(host, "]") {
			return "", false
		}
		host = host[1 : len(host)-1]
	}

	// The zone id never round-trips, drop it with its delimiter.
	if percent := strings.IndexByte(host, '%'); percent >= 0 {
		host = host[:percent]
	}

	hasDot := false
	for i := 0; i < len(host); i++ {
		switch c := host[i]; {
		case c == '.':
			hasDot = true
		case c == ':':
			if hasDot {
				// Dots only belong to a trailing embedded ipv4 tail.
				return "", false
			}
		case plain.DecodeHexDigit(c) < 0:
			return "", false
		}
	}

	if hasDot {
		var ok bool
		host, ok = embeddedIpv4ToHex(host)
		if !ok {
			return "", false
		}
	}

	groups, ok := parseHexGroups(host)
	if !ok {
		return "", false
	}
	return compressIpv6(groups), true
}

// embeddedIpv4ToHex rewrites a trailing dotted quad into the two final
// hex groups of the address.
func embeddedIpv4ToHex(host string) (string, bool) {
	lastColon := strings.LastIndexByte(host, ':')
	quad, ok := parseIpv4Octets(host[lastColon+1:])
	if !ok {
		return "", false
	}
	return host[:lastColon+1] +
		strconv.FormatUint(uint64(quad[0])<<8|uint64(quad[1]), 16) + ":" +
		strconv.FormatUint(uint64(quad[2])<<8|uint64(quad[3]), 16), true
}

// parseHexGroups expands a group list into exactly eight 16 bit
// groups, resolving at most one '::' compression marker.
func parseHexGroups(host string) ([8]uint16, bool) {
	var groups [8]uint16

	switch len(host) {
	case 0, 1:
		return groups, false
	case 2:
		return groups, host == "::"
	}

	count := 0
	compressAt := -1

	pos := 0
	if host[0] == ':' {
		// A leading colon is only valid as the '::' marker,
		// and ':::' never is.
		if host[1] != ':' || host[2] == ':' {
			return groups, false
		}
		compressAt = 0
		pos = 2
	}

	for pos < len(host) {
		if count == 8 {
			return groups, false
		}
		if host[pos] == ':' {
			if compressAt >= 0 {
				return groups, false
			}
			compressAt = count
			pos++
			continue
		}

		value := 0
		start := pos
		for pos < len(host) && pos-start < 4 {
			digit := plain.DecodeHexDigit(host[pos])
			if digit < 0 {
				break
			}
			value = value<<4 | digit
			pos++
		}
		groups[count] = uint16(value)
		count++

		switch {
		case pos == len(host):
		case host[pos] != ':':
			// A fifth hex digit or stray byte after the group.
			return groups, false
		case pos == len(host)-1:
			// A single trailing colon closes nothing.
			return groups, false
		default:
			pos++
		}
	}

	switch {
	case compressAt < 0:
		if count != 8 {
			return groups, false
		}
	case count == 8:
		// '::' has to stand for at least one zero group.
		return groups, false
	default:
		for i := 1; i <= count-compressAt; i++ {
			groups[8-i] = groups[count-i]
			groups[count-i] = 0
		}
	}
	return groups, true
}

// compressIpv6 prints eight groups in lowercase hex without leading
// zeros, replacing the longest run of two or more zero groups with
// '::' and preferring the leftmost run on ties.
func compressIpv6(groups [8]uint16) string {
	var runs [8]int
	if groups[7] == 0 {
		runs[7] = 1
	}
	start, longest := 8, 0
	for i := 6; i >= 0; i-- {
		if groups[i] != 0 {
			continue
		}
		runs[i] = runs[i+1] + 1
		if runs[i] > 1 && runs[i] >= longest {
			longest = runs[i]
			start = i
		}
	}
	end := 8
	if start < 8 {
		end = start + runs[start]
	}

	var buf strings.Builder
	if start == 0 {
		buf.WriteByte(':')
	}
	for i := 0; i < 8; i++ {
		if i == start {
			buf.WriteByte(':')
			continue
		}
		if i > start && i < end {
			continue
		}
		buf.WriteString(strconv.FormatUint(uint64(groups[i]), 16))
		if i < 7 {
			buf.WriteByte(':')
		}
	}
	return buf.String()
}
