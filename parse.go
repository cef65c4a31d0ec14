package weburl

import (
	neturl "net/url"
	"strconv"
	"strings"

	"github.com/oesand/weburl/internal/parsing"
	"github.com/oesand/weburl/internal/plain"
)

// MustParseUrl is like [ParseUrl] but panics on malformed text.
func MustParseUrl(raw string) *Url {
	url, err := ParseUrl(raw)
	if err != nil {
		panic(err)
	}
	return url
}

// ParseUrl reads an absolute http or https url from its text form.
// The text is trimmed of edge whitespace and read forgivingly:
// backslashes count as slashes and malformed percent escapes pass
// through as literal text.
func ParseUrl(raw string) (*Url, error) {
	var builder Builder
	if err := builder.parse(nil, raw); err != nil {
		return nil, err
	}
	return builder.Build()
}

// ParseStdUrl converts a standard library url value, returning nil
// when u is nil, its scheme is not http or https, or its text does
// not read back as an url.
func ParseStdUrl(u *neturl.URL) *Url {
	if u == nil {
		return nil
	}
	parsed, err := ParseUrl(u.String())
	if err != nil {
		return nil
	}
	return parsed
}

// parse reads input into the builder, resolving it against base when
// one is given. Components the input does not mention inherit from
// base the way a browser treats links.
func (b *Builder) parse(base *Url, input string) error {
	pos := skipLeadingWhitespace(input, 0, len(input))
	limit := skipTrailingWhitespace(input, pos, len(input))

	schemeDelimiter := schemeDelimiterOffset(input, pos, limit)
	switch {
	case schemeDelimiter < 0:
		if base == nil {
			return NewOpError("scheme", "expected url scheme 'http' or 'https' but no colon was found")
		}
		b.scheme = base.scheme
	case strings.EqualFold(input[pos:schemeDelimiter], "https"):
		b.scheme = SchemeHttps
		pos = schemeDelimiter + 1
	case strings.EqualFold(input[pos:schemeDelimiter], "http"):
		b.scheme = SchemeHttp
		pos = schemeDelimiter + 1
	default:
		return NewOpError("scheme", "expected url scheme 'http' or 'https' but was '%s'", input[pos:schemeDelimiter])
	}

	slashes := countSlashes(input, pos, limit)
	if slashes >= 2 || base == nil || base.scheme != b.scheme {
		// Read an authority, the usual "//host" form or anything the
		// base cannot complete.
		pos += slashes
		var hasUsername, hasPassword bool
		for {
			componentDelimiter := delimiterOffset(input, pos, limit, `@/\?#`)
			if componentDelimiter < limit && input[componentDelimiter] == '@' {
				// The last '@' wins as the userinfo delimiter, the rest
				// re-encode into whichever component is still open.
				if !hasPassword {
					colon := delimiterOffset(input, pos, componentDelimiter, ":")
					username := plain.EscapeUrl(input[pos:colon], plain.EscapingUserPassword,
						plain.EscapeKeepEncoded|plain.EscapeAsciiOnly)
					if hasUsername {
						username = b.encodedUsername + "%40" + username
					}
					b.encodedUsername = username
					hasUsername = true
					if colon != componentDelimiter {
						hasPassword = true
						b.encodedPassword = plain.EscapeUrl(input[colon+1:componentDelimiter],
							plain.EscapingUserPassword, plain.EscapeKeepEncoded|plain.EscapeAsciiOnly)
					}
				} else {
					b.encodedPassword = b.encodedPassword + "%40" + plain.EscapeUrl(
						input[pos:componentDelimiter],
						plain.EscapingUserPassword, plain.EscapeKeepEncoded|plain.EscapeAsciiOnly)
				}
				pos = componentDelimiter + 1
				continue
			}

			portColon := portColonOffset(input, pos, componentDelimiter)
			host, ok := parsing.CanonicalHost(input[pos:portColon])
			if !ok {
				return NewOpError("host", "invalid url host: %q", input[pos:portColon])
			}
			b.host = host
			if portColon+1 < componentDelimiter {
				port, ok := parsePort(input, portColon+1, componentDelimiter)
				if !ok {
					return NewOpError("port", "invalid url port: %q", input[portColon+1:componentDelimiter])
				}
				b.port = port
			} else {
				b.port = 0
			}
			pos = componentDelimiter
			break
		}
	} else {
		// The input is a relative reference, keep the base authority
		// and resolve the path against it.
		b.encodedUsername = base.EncodedUsername()
		b.encodedPassword = base.EncodedPassword()
		b.host = base.host
		b.port = base.port
		b.encodedPathSegments = base.EncodedPathSegments()
		if pos == limit || input[pos] == '#' {
			if encodedQuery, ok := base.EncodedQuery(); ok {
				b.EncodedQuery(encodedQuery)
			}
		}
	}

	pathDelimiter := delimiterOffset(input, pos, limit, "?#")
	b.resolvePath(input, pos, pathDelimiter)
	pos = pathDelimiter

	if pos < limit && input[pos] == '?' {
		queryDelimiter := delimiterOffset(input, pos, limit, "#")
		b.encodedQueryParams = parseQueryParams(plain.EscapeUrl(input[pos+1:queryDelimiter],
			plain.EscapingQueryText,
			plain.EscapeKeepEncoded|plain.EscapePlusIsSpace|plain.EscapeAsciiOnly))
		pos = queryDelimiter
	}

	if pos < limit && input[pos] == '#' {
		encoded := plain.EscapeUrl(input[pos+1:limit], plain.EscapingFragment,
			plain.EscapeKeepEncoded)
		b.encodedFragment = &encoded
	}
	return nil
}

// schemeDelimiterOffset finds the ':' closing a scheme name, or -1
// when the text does not open with one.
func schemeDelimiterOffset(input string, pos, limit int) int {
	if limit-pos < 2 {
		return -1
	}
	if c := input[pos]; !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		return -1
	}
	for i := pos + 1; i < limit; i++ {
		switch c := input[i]; {
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
			c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.':
		case c == ':':
			return i
		default:
			return -1
		}
	}
	return -1
}

// delimiterOffset finds the first of the delimiter bytes, or limit
// when none occurs.
func delimiterOffset(input string, pos, limit int, delimiters string) int {
	if i := strings.IndexAny(input[pos:limit], delimiters); i >= 0 {
		return pos + i
	}
	return limit
}

// portColonOffset finds the colon opening a port, skipping over a
// bracketed ipv6 literal.
func portColonOffset(input string, pos, limit int) int {
	for i := pos; i < limit; i++ {
		switch input[i] {
		case '[':
			for i++; i < limit && input[i] != ']'; i++ {
			}
		case ':':
			return i
		}
	}
	return limit
}

// parsePort reads a port dropping non-digit noise, anything outside
// 1-65535 is invalid.
func parsePort(input string, pos, limit int) (uint16, bool) {
	var digits strings.Builder
	for i := pos; i < limit; i++ {
		if c := input[i]; c >= '0' && c <= '9' {
			digits.WriteByte(c)
		}
	}
	port, err := strconv.ParseUint(digits.String(), 10, 16)
	if err != nil || port == 0 {
		return 0, false
	}
	return uint16(port), true
}

func countSlashes(input string, pos, limit int) int {
	count := 0
	for pos+count < limit {
		if c := input[pos+count]; c != '/' && c != '\\' {
			break
		}
		count++
	}
	return count
}

func skipLeadingWhitespace(input string, pos, limit int) int {
	for pos < limit && isUrlWhitespace(input[pos]) {
		pos++
	}
	return pos
}

func skipTrailingWhitespace(input string, pos, limit int) int {
	for limit > pos && isUrlWhitespace(input[limit-1]) {
		limit--
	}
	return limit
}

// isUrlWhitespace matches the five ascii characters trimmed off url
// edges, the vertical tab stays significant.
func isUrlWhitespace(c byte) bool {
	switch c {
	case '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}
