package plain

import (
	"strings"
	"unicode/utf8"

	"github.com/oesand/weburl/internal/utils"
)

// Escaping selects the url component whose reserved characters
// EscapeUrl must percent-encode.
type Escaping uint8

const (
	// EscapingUserPassword covers the username and password userinfo parts.
	EscapingUserPassword Escaping = iota

	// EscapingPathSegment covers a single path segment.
	EscapingPathSegment

	// EscapingQueryComponent covers a decoded query name or value.
	EscapingQueryComponent

	// EscapingQueryReEncode covers a pre-encoded query name or value.
	EscapingQueryReEncode

	// EscapingQueryText covers a whole query string.
	EscapingQueryText

	// EscapingFragment covers the fragment, which allows everything.
	EscapingFragment

	// EscapingUriPathSegment, EscapingUriQueryComponent and
	// EscapingUriFragment cover the extra characters a strict
	// uri consumer cannot accept.
	EscapingUriPathSegment
	EscapingUriQueryComponent
	EscapingUriFragment
)

// EscapeFlags adjust how EscapeUrl treats the source text.
type EscapeFlags uint8

const (
	// EscapeKeepEncoded treats the source as already percent-encoded:
	// valid escapes pass through untouched and stray whitespace
	// control bytes are dropped.
	EscapeKeepEncoded EscapeFlags = 1 << iota

	// EscapeStrictPercent re-encodes every '%' that does not
	// introduce a valid escape sequence.
	EscapeStrictPercent

	// EscapePlusIsSpace gives '+' its query meaning: kept verbatim in
	// already encoded text, escaped to %2B otherwise.
	EscapePlusIsSpace

	// EscapeAsciiOnly escapes every byte above 0x7f.
	EscapeAsciiOnly
)

const upperHex = "0123456789ABCDEF"

// EscapeUrl percent-encodes the characters of source that cannot appear
// literally in the selected url component. Control bytes below 0x20 and
// the 0x7f byte are always escaped. Source text that needs no changes
// is returned as is, without allocation.
func EscapeUrl(source string, esc Escaping, flags EscapeFlags) string {
	keepEncoded := flags&EscapeKeepEncoded != 0
	strictPercent := flags&EscapeStrictPercent != 0
	plusIsSpace := flags&EscapePlusIsSpace != 0
	asciiOnly := flags&EscapeAsciiOnly != 0

	for i := 0; i < len(source); i++ {
		c := source[i]
		if c < 0x20 || c == 0x7f ||
			c >= 0x80 && asciiOnly ||
			requiresEscape(c, esc) ||
			c == '%' && (!keepEncoded || strictPercent && !percentEscaped(source, i)) ||
			c == '+' && plusIsSpace {
			var buf strings.Builder
			buf.Grow(len(source) + 8)
			buf.WriteString(source[:i])
			escapeUrlSlow(&buf, source[i:], esc, keepEncoded, strictPercent, plusIsSpace, asciiOnly)
			return buf.String()
		}
	}
	return source
}

func escapeUrlSlow(buf *strings.Builder, source string, esc Escaping,
	keepEncoded, strictPercent, plusIsSpace, asciiOnly bool) {
	for i := 0; i < len(source); i++ {
		c := source[i]
		if keepEncoded && (c == '\t' || c == '\n' || c == '\f' || c == '\r') {
			// Skip stray whitespace in already encoded text.
			continue
		}
		switch {
		case c == '+' && plusIsSpace:
			if keepEncoded {
				buf.WriteByte('+')
			} else {
				buf.WriteString("%2B")
			}
		case c < 0x20 || c == 0x7f ||
			c >= 0x80 && asciiOnly ||
			requiresEscape(c, esc) ||
			c == '%' && (!keepEncoded || strictPercent && !percentEscaped(source, i)):
			buf.WriteByte('%')
			buf.WriteByte(upperHex[c>>4])
			buf.WriteByte(upperHex[c&0xf])
		default:
			buf.WriteByte(c)
		}
	}
}

// UnEscapeUrl decodes the percent escapes of encoded, leaving malformed
// sequences as literal text. Under plusIsSpace a '+' decodes to a space.
// Escaped bytes that do not form valid utf8 decode to the replacement
// character. Text without escapes is returned as is, without allocation.
func UnEscapeUrl(encoded string, plusIsSpace bool) string {
	for i := 0; i < len(encoded); i++ {
		if c := encoded[i]; c == '%' || c == '+' && plusIsSpace {
			buf := make([]byte, 0, len(encoded))
			buf = append(buf, encoded[:i]...)

			for ; i < len(encoded); i++ {
				switch c = encoded[i]; {
				case c == '%' && percentEscaped(encoded, i):
					d1 := DecodeHexDigit(encoded[i+1])
					d2 := DecodeHexDigit(encoded[i+2])
					buf = append(buf, byte(d1<<4|d2))
					i += 2
				case c == '+' && plusIsSpace:
					buf = append(buf, ' ')
				default:
					buf = append(buf, c)
				}
			}

			if !utf8.Valid(buf) {
				return strings.ToValidUTF8(utils.BufferToString(buf), "�")
			}
			return utils.BufferToString(buf)
		}
	}
	return encoded
}

// DecodeHexDigit returns the value of a hex digit, or -1 if c is not one.
func DecodeHexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// percentEscaped reports whether a valid escape sequence starts at pos.
func percentEscaped(s string, pos int) bool {
	return pos+2 < len(s) && s[pos] == '%' &&
		DecodeHexDigit(s[pos+1]) >= 0 && DecodeHexDigit(s[pos+2]) >= 0
}

func requiresEscape(c byte, esc Escaping) bool {
	switch esc {
	case EscapingUserPassword:
		switch c {
		case ' ', '"', ':', ';', '<', '=', '>', '@', '[', ']', '^', '`', '{', '}', '|', '/', '\\', '?', '#':
			return true
		}
	case EscapingPathSegment:
		switch c {
		case ' ', '"', '<', '>', '^', '`', '{', '}', '|', '/', '\\', '?', '#':
			return true
		}
	case EscapingQueryComponent:
		switch c {
		case ' ', '!', '"', '#', '$', '\'', '&', '(', ')', ',', '/', ':', ';',
			'<', '=', '>', '?', '@', '[', ']', '\\', '^', '`', '{', '|', '}', '~':
			return true
		}
	case EscapingQueryReEncode:
		switch c {
		case ' ', '"', '#', '\'', '&', '<', '=', '>':
			return true
		}
	case EscapingQueryText:
		switch c {
		case ' ', '"', '<', '>', '\'', '#':
			return true
		}
	case EscapingUriPathSegment:
		switch c {
		case '[', ']':
			return true
		}
	case EscapingUriQueryComponent:
		switch c {
		case '\\', '^', '`', '{', '}', '|':
			return true
		}
	case EscapingUriFragment:
		switch c {
		case ' ', '"', '#', '<', '>', '\\', '^', '`', '{', '}', '|':
			return true
		}
	}
	return false
}
