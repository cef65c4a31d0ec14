package weburl

import (
	"slices"
	"strconv"
	"strings"

	"github.com/oesand/weburl/internal/parsing"
	"github.com/oesand/weburl/internal/plain"
)

// Builder is a mutable accumulator of url components. The zero value
// is ready to use, every component normalizes as it is assigned and
// [Builder.Build] assembles the immutable [Url] once scheme and host
// are present.
//
// Setters panic on arguments that cannot form a valid component.
// Builder is not safe for concurrent use.
type Builder struct {
	scheme              string
	encodedUsername     string
	encodedPassword     string
	host                string
	port                uint16
	encodedPathSegments []string
	encodedQueryParams  []queryParam
	encodedFragment     *string
}

// Scheme sets the url scheme, only "http" and "https" are accepted
// in any letter case.
func (b *Builder) Scheme(scheme string) *Builder {
	switch {
	case strings.EqualFold(scheme, SchemeHttp):
		b.scheme = SchemeHttp
	case strings.EqualFold(scheme, SchemeHttps):
		b.scheme = SchemeHttps
	default:
		panic("weburl: unexpected scheme: " + scheme)
	}
	return b
}

// Username sets the url username from decoded text.
func (b *Builder) Username(username string) *Builder {
	b.encodedUsername = plain.EscapeUrl(username, plain.EscapingUserPassword,
		plain.EscapeAsciiOnly)
	return b
}

// EncodedUsername sets the url username keeping existing escapes.
func (b *Builder) EncodedUsername(encodedUsername string) *Builder {
	b.encodedUsername = plain.EscapeUrl(encodedUsername, plain.EscapingUserPassword,
		plain.EscapeKeepEncoded|plain.EscapeAsciiOnly)
	return b
}

// Password sets the url password from decoded text.
func (b *Builder) Password(password string) *Builder {
	b.encodedPassword = plain.EscapeUrl(password, plain.EscapingUserPassword,
		plain.EscapeAsciiOnly)
	return b
}

// EncodedPassword sets the url password keeping existing escapes.
func (b *Builder) EncodedPassword(encodedPassword string) *Builder {
	b.encodedPassword = plain.EscapeUrl(encodedPassword, plain.EscapingUserPassword,
		plain.EscapeKeepEncoded|plain.EscapeAsciiOnly)
	return b
}

// Host sets the url host: a dns name, an ipv4 literal, an ipv6 literal
// with or without brackets, or an idn or percent encoded form of those.
// Text that does not canonicalize into a host panics.
func (b *Builder) Host(host string) *Builder {
	canonical, ok := parsing.CanonicalHost(host)
	if !ok {
		panic("weburl: unexpected host: " + host)
	}
	b.host = canonical
	return b
}

// Port sets an explicit url port between 1 and 65535.
func (b *Builder) Port(port int) *Builder {
	if port <= 0 || port > 65535 {
		panic("weburl: unexpected port: " + strconv.Itoa(port))
	}
	b.port = uint16(port)
	return b
}

// AddPathSegment appends one path segment from decoded text.
func (b *Builder) AddPathSegment(segment string) *Builder {
	b.push(segment, false, false)
	return b
}

// AddPathSegments appends several path segments at once, splitting the
// text on '/' and '\' separators.
func (b *Builder) AddPathSegments(segments string) *Builder {
	return b.addPathSegments(segments, false)
}

// AddEncodedPathSegment appends one path segment keeping existing
// escapes.
func (b *Builder) AddEncodedPathSegment(encodedSegment string) *Builder {
	b.push(encodedSegment, false, true)
	return b
}

// AddEncodedPathSegments appends several path segments at once keeping
// existing escapes, splitting the text on '/' and '\' separators.
func (b *Builder) AddEncodedPathSegments(encodedSegments string) *Builder {
	return b.addPathSegments(encodedSegments, true)
}

func (b *Builder) addPathSegments(segments string, alreadyEncoded bool) *Builder {
	offset := 0
	for {
		end := strings.IndexAny(segments[offset:], `/\`)
		if end < 0 {
			b.push(segments[offset:], false, alreadyEncoded)
			return b
		}
		b.push(segments[offset:offset+end], true, alreadyEncoded)
		offset += end + 1
	}
}

// SetPathSegment replaces the path segment at index with decoded text.
// Dot segments panic, out of range indexes panic like a slice access.
func (b *Builder) SetPathSegment(index int, segment string) *Builder {
	canonical := plain.EscapeUrl(segment, plain.EscapingPathSegment,
		plain.EscapeAsciiOnly)
	if isDotSegment(canonical) || isDotDotSegment(canonical) {
		panic("weburl: unexpected path segment: " + segment)
	}
	b.ensurePath()
	b.encodedPathSegments[index] = canonical
	return b
}

// SetEncodedPathSegment replaces the path segment at index keeping
// existing escapes. Dot segments panic, out of range indexes panic
// like a slice access.
func (b *Builder) SetEncodedPathSegment(index int, encodedSegment string) *Builder {
	canonical := plain.EscapeUrl(encodedSegment, plain.EscapingPathSegment,
		plain.EscapeKeepEncoded|plain.EscapeAsciiOnly)
	if isDotSegment(canonical) || isDotDotSegment(canonical) {
		panic("weburl: unexpected path segment: " + encodedSegment)
	}
	b.ensurePath()
	b.encodedPathSegments[index] = canonical
	return b
}

// RemovePathSegment removes the path segment at index. Removing the
// last one resets the path to "/".
func (b *Builder) RemovePathSegment(index int) *Builder {
	b.ensurePath()
	b.encodedPathSegments = slices.Delete(b.encodedPathSegments, index, index+1)
	if len(b.encodedPathSegments) == 0 {
		b.encodedPathSegments = append(b.encodedPathSegments, "")
	}
	return b
}

// EncodedPath replaces the whole path, the text must start with '/'.
func (b *Builder) EncodedPath(encodedPath string) *Builder {
	if !strings.HasPrefix(encodedPath, "/") {
		panic("weburl: unexpected encoded path: " + encodedPath)
	}
	b.resolvePath(encodedPath, 0, len(encodedPath))
	return b
}

// Query replaces the whole query from decoded text. Query("") keeps a
// bare '?', use [Builder.ClearQuery] to drop the query entirely.
func (b *Builder) Query(query string) *Builder {
	b.encodedQueryParams = parseQueryParams(plain.EscapeUrl(query, plain.EscapingQueryText,
		plain.EscapePlusIsSpace|plain.EscapeAsciiOnly))
	return b
}

// EncodedQuery replaces the whole query keeping existing escapes.
// Empty text removes the query.
func (b *Builder) EncodedQuery(encodedQuery string) *Builder {
	if encodedQuery == "" {
		b.encodedQueryParams = nil
		return b
	}
	b.encodedQueryParams = parseQueryParams(plain.EscapeUrl(encodedQuery, plain.EscapingQueryText,
		plain.EscapeKeepEncoded|plain.EscapePlusIsSpace|plain.EscapeAsciiOnly))
	return b
}

// ClearQuery removes the query entirely.
func (b *Builder) ClearQuery() *Builder {
	b.encodedQueryParams = nil
	return b
}

// AddQueryParameter appends a query parameter from decoded text. An
// empty value stores a valueless parameter, serialized without '='.
func (b *Builder) AddQueryParameter(name, value string) *Builder {
	return b.addQueryParameter(name, value, false)
}

// AddEncodedQueryParameter appends a query parameter keeping existing
// escapes. An empty value stores a valueless parameter.
func (b *Builder) AddEncodedQueryParameter(encodedName, encodedValue string) *Builder {
	return b.addQueryParameter(encodedName, encodedValue, true)
}

// SetQueryParameter removes every query parameter named name, then
// appends one with the given value.
func (b *Builder) SetQueryParameter(name, value string) *Builder {
	b.RemoveAllQueryParameters(name)
	return b.AddQueryParameter(name, value)
}

// SetEncodedQueryParameter removes every query parameter named
// encodedName, then appends one with the given value, keeping existing
// escapes.
func (b *Builder) SetEncodedQueryParameter(encodedName, encodedValue string) *Builder {
	b.RemoveAllEncodedQueryParameters(encodedName)
	return b.AddEncodedQueryParameter(encodedName, encodedValue)
}

// RemoveAllQueryParameters removes every query parameter named name.
// Removing the last pair drops the query entirely.
func (b *Builder) RemoveAllQueryParameters(name string) *Builder {
	if name == "" {
		panic("weburl: empty query parameter name")
	}
	return b.removeAllQueryParameters(canonicalQueryComponent(name, false))
}

// RemoveAllEncodedQueryParameters removes every query parameter named
// encodedName, comparing by canonical encoding. Removing the last pair
// drops the query entirely.
func (b *Builder) RemoveAllEncodedQueryParameters(encodedName string) *Builder {
	if encodedName == "" {
		panic("weburl: empty query parameter name")
	}
	return b.removeAllQueryParameters(canonicalQueryComponent(encodedName, true))
}

// Fragment sets the url fragment from decoded text.
func (b *Builder) Fragment(fragment string) *Builder {
	encoded := plain.EscapeUrl(fragment, plain.EscapingFragment, 0)
	b.encodedFragment = &encoded
	return b
}

// EncodedFragment sets the url fragment keeping existing escapes.
func (b *Builder) EncodedFragment(encodedFragment string) *Builder {
	encoded := plain.EscapeUrl(encodedFragment, plain.EscapingFragment,
		plain.EscapeKeepEncoded)
	b.encodedFragment = &encoded
	return b
}

// ClearFragment removes the fragment entirely.
func (b *Builder) ClearFragment() *Builder {
	b.encodedFragment = nil
	return b
}

// Build assembles the immutable [Url] of the current state.
// It returns [ErrSchemeRequired] or [ErrHostRequired] when those
// components were never set.
func (b *Builder) Build() (*Url, error) {
	if b.scheme == "" {
		return nil, ErrSchemeRequired
	}
	if b.host == "" {
		return nil, ErrHostRequired
	}
	var fragment *string
	if b.encodedFragment != nil {
		decoded := plain.UnEscapeUrl(*b.encodedFragment, false)
		fragment = &decoded
	}
	return &Url{
		scheme:       b.scheme,
		username:     plain.UnEscapeUrl(b.encodedUsername, false),
		password:     plain.UnEscapeUrl(b.encodedPassword, false),
		host:         b.host,
		port:         b.effectivePort(),
		pathSegments: decodePathSegments(b.encodedPathSegments),
		queryParams:  decodeQueryParams(b.encodedQueryParams),
		fragment:     fragment,
		url:          b.String(),
	}, nil
}

// MustBuild is like [Builder.Build] but panics on incomplete state.
func (b *Builder) MustBuild() *Url {
	url, err := b.Build()
	if err != nil {
		panic(err)
	}
	return url
}

// String serializes the current state, partial forms included: without
// a scheme there is no "://" prefix and an explicit port always prints.
func (b *Builder) String() string {
	var buf strings.Builder
	if b.scheme != "" {
		buf.WriteString(b.scheme)
		buf.WriteString("://")
	}
	if b.encodedUsername != "" || b.encodedPassword != "" {
		buf.WriteString(b.encodedUsername)
		if b.encodedPassword != "" {
			buf.WriteByte(':')
			buf.WriteString(b.encodedPassword)
		}
		buf.WriteByte('@')
	}
	if strings.IndexByte(b.host, ':') >= 0 {
		// An ipv6 literal needs brackets to keep the port readable.
		buf.WriteByte('[')
		buf.WriteString(b.host)
		buf.WriteByte(']')
	} else {
		buf.WriteString(b.host)
	}
	if b.port != 0 && b.port != DefaultPort(b.scheme) {
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(int(b.port)))
	}
	segments := b.encodedPathSegments
	if segments == nil {
		segments = []string{""}
	}
	for _, segment := range segments {
		buf.WriteByte('/')
		buf.WriteString(segment)
	}
	if b.encodedQueryParams != nil {
		buf.WriteByte('?')
		writeQueryParams(&buf, b.encodedQueryParams)
	}
	if b.encodedFragment != nil {
		buf.WriteByte('#')
		buf.WriteString(*b.encodedFragment)
	}
	return buf.String()
}

func (b *Builder) effectivePort() uint16 {
	if b.port != 0 {
		return b.port
	}
	return DefaultPort(b.scheme)
}

func (b *Builder) ensurePath() {
	if b.encodedPathSegments == nil {
		b.encodedPathSegments = []string{""}
	}
}

// resolvePath applies the path text of a link onto the current
// segments: an absolute path resets them, a relative one replaces the
// last segment and dot segments collapse as they arrive.
func (b *Builder) resolvePath(input string, pos, limit int) {
	if pos == limit {
		// An empty path keeps the base path.
		return
	}
	if c := input[pos]; c == '/' || c == '\\' {
		b.encodedPathSegments = append(b.encodedPathSegments[:0], "")
		pos++
	} else {
		b.ensurePath()
		b.encodedPathSegments[len(b.encodedPathSegments)-1] = ""
	}
	for i := pos; i < limit; {
		segmentEnd := delimiterOffset(input, i, limit, `/\`)
		hasTrailingSlash := segmentEnd < limit
		b.push(input[i:segmentEnd], hasTrailingSlash, true)
		i = segmentEnd
		if hasTrailingSlash {
			i++
		}
	}
}

// push canonicalizes one segment and appends it, overwriting a
// trailing empty segment so "a/" followed by "b" reads "a/b".
func (b *Builder) push(segment string, addTrailingSlash, alreadyEncoded bool) {
	flags := plain.EscapeAsciiOnly
	if alreadyEncoded {
		flags |= plain.EscapeKeepEncoded
	}
	canonical := plain.EscapeUrl(segment, plain.EscapingPathSegment, flags)
	if isDotSegment(canonical) {
		return
	}
	b.ensurePath()
	if isDotDotSegment(canonical) {
		b.pop()
		return
	}
	if last := len(b.encodedPathSegments) - 1; b.encodedPathSegments[last] == "" {
		b.encodedPathSegments[last] = canonical
	} else {
		b.encodedPathSegments = append(b.encodedPathSegments, canonical)
	}
	if addTrailingSlash {
		b.encodedPathSegments = append(b.encodedPathSegments, "")
	}
}

// pop removes the segment a dot-dot refers to: the one before a
// trailing empty segment, otherwise the last one.
func (b *Builder) pop() {
	last := len(b.encodedPathSegments) - 1
	removed := b.encodedPathSegments[last]
	b.encodedPathSegments = b.encodedPathSegments[:last]
	if removed == "" && len(b.encodedPathSegments) > 0 {
		b.encodedPathSegments[len(b.encodedPathSegments)-1] = ""
	} else {
		b.encodedPathSegments = append(b.encodedPathSegments, "")
	}
}

func (b *Builder) addQueryParameter(name, value string, alreadyEncoded bool) *Builder {
	if name == "" {
		panic("weburl: empty query parameter name")
	}
	param := queryParam{name: canonicalQueryComponent(name, alreadyEncoded)}
	if value != "" {
		encoded := canonicalQueryComponent(value, alreadyEncoded)
		param.value = &encoded
	}
	b.encodedQueryParams = append(b.encodedQueryParams, param)
	return b
}

func (b *Builder) removeAllQueryParameters(canonicalName string) *Builder {
	b.encodedQueryParams = slices.DeleteFunc(b.encodedQueryParams, func(param queryParam) bool {
		return param.name == canonicalName
	})
	if len(b.encodedQueryParams) == 0 {
		b.encodedQueryParams = nil
	}
	return b
}

func canonicalQueryComponent(component string, alreadyEncoded bool) string {
	if alreadyEncoded {
		return plain.EscapeUrl(component, plain.EscapingQueryReEncode,
			plain.EscapeKeepEncoded|plain.EscapePlusIsSpace|plain.EscapeAsciiOnly)
	}
	return plain.EscapeUrl(component, plain.EscapingQueryComponent,
		plain.EscapePlusIsSpace|plain.EscapeAsciiOnly)
}

func isDotSegment(segment string) bool {
	return segment == "." || strings.EqualFold(segment, "%2e")
}

func isDotDotSegment(segment string) bool {
	return segment == ".." ||
		strings.EqualFold(segment, "%2e.") ||
		strings.EqualFold(segment, ".%2e") ||
		strings.EqualFold(segment, "%2e%2e")
}

func decodePathSegments(encodedSegments []string) []string {
	if encodedSegments == nil {
		return []string{""}
	}
	decoded := make([]string, len(encodedSegments))
	for i, segment := range encodedSegments {
		decoded[i] = plain.UnEscapeUrl(segment, false)
	}
	return decoded
}
