package weburl

import (
	"slices"
	"strings"

	"github.com/oesand/weburl/internal/plain"
)

// Url is an immutable http or https address in canonical form: the
// host is lowercase or punycoded, escapes use uppercase hex and the
// path always opens with '/'. Values come from [ParseUrl] or
// [Builder.Build] and are safe to share between goroutines.
//
// Components decode once at construction, the Encoded accessor
// variants read back the exact canonical text instead.
type Url struct {
	scheme       string
	username     string
	password     string
	host         string
	port         uint16
	pathSegments []string
	queryParams  []queryParam
	fragment     *string
	url          string
}

// String returns the canonical url text.
func (url *Url) String() string {
	return url.url
}

// Equal reports whether both urls carry the same canonical text.
func (url *Url) Equal(other *Url) bool {
	return other != nil && url.url == other.url
}

// Scheme returns "http" or "https".
func (url *Url) Scheme() string {
	return url.scheme
}

// IsHttps reports whether the url scheme is "https".
func (url *Url) IsHttps() bool {
	return url.scheme == SchemeHttps
}

// Username returns the decoded username, empty when there is none.
func (url *Url) Username() string {
	return url.username
}

// EncodedUsername returns the username exactly as the canonical text
// carries it.
func (url *Url) EncodedUsername() string {
	if url.username == "" {
		return ""
	}
	start := len(url.scheme) + 3
	end := delimiterOffset(url.url, start, len(url.url), ":@")
	return url.url[start:end]
}

// Password returns the decoded password, empty when there is none.
func (url *Url) Password() string {
	return url.password
}

// EncodedPassword returns the password exactly as the canonical text
// carries it.
func (url *Url) EncodedPassword() string {
	if url.password == "" {
		return ""
	}
	start := delimiterOffset(url.url, len(url.scheme)+3, len(url.url), ":") + 1
	end := delimiterOffset(url.url, start, len(url.url), "@")
	return url.url[start:end]
}

// Host returns the canonical host: lowercase, punycoded for idn names
// and compressed without brackets for ipv6 literals.
func (url *Url) Host() string {
	return url.host
}

// Port returns the effective port, the scheme default when the text
// never named one.
func (url *Url) Port() uint16 {
	return url.port
}

// PathSize returns the number of path segments. The root path counts
// as one empty segment.
func (url *Url) PathSize() int {
	return len(url.pathSegments)
}

// PathSegments returns the decoded path segments. A trailing slash
// reads as a final empty segment.
func (url *Url) PathSegments() []string {
	return slices.Clone(url.pathSegments)
}

// EncodedPath returns the path exactly as the canonical text carries
// it.
func (url *Url) EncodedPath() string {
	pathStart := url.pathStart()
	pathEnd := delimiterOffset(url.url, pathStart, len(url.url), "?#")
	return url.url[pathStart:pathEnd]
}

// EncodedPathSegments returns the path segments exactly as the
// canonical text carries them.
func (url *Url) EncodedPathSegments() []string {
	pathStart := url.pathStart()
	pathEnd := delimiterOffset(url.url, pathStart, len(url.url), "?#")
	segments := make([]string, 0, strings.Count(url.url[pathStart:pathEnd], "/"))
	for i := pathStart; i < pathEnd; {
		i++
		segmentEnd := delimiterOffset(url.url, i, pathEnd, "/")
		segments = append(segments, url.url[i:segmentEnd])
		i = segmentEnd
	}
	return segments
}

func (url *Url) pathStart() int {
	return strings.IndexByte(url.url[len(url.scheme)+3:], '/') + len(url.scheme) + 3
}

// Query returns the decoded query joined back into one string, false
// when the url has none. Decoding may bring back '&' and '=' bytes
// that blur the pair structure, the encoded form stays unambiguous.
func (url *Url) Query() (string, bool) {
	if url.queryParams == nil {
		return "", false
	}
	var buf strings.Builder
	writeQueryParams(&buf, url.queryParams)
	return buf.String(), true
}

// EncodedQuery returns the query exactly as the canonical text carries
// it, false when the url has none.
func (url *Url) EncodedQuery() (string, bool) {
	if url.queryParams == nil {
		return "", false
	}
	queryStart := strings.IndexByte(url.url, '?') + 1
	queryEnd := delimiterOffset(url.url, queryStart, len(url.url), "#")
	return url.url[queryStart:queryEnd], true
}

// QuerySize returns the number of query parameters.
func (url *Url) QuerySize() int {
	return len(url.queryParams)
}

// QueryParameter returns the decoded value of the first parameter
// named name, false when it is missing or valueless.
func (url *Url) QueryParameter(name string) (string, bool) {
	for _, param := range url.queryParams {
		if param.name == name {
			if param.value == nil {
				return "", false
			}
			return *param.value, true
		}
	}
	return "", false
}

// QueryParameterNames returns the distinct decoded parameter names in
// first occurrence order.
func (url *Url) QueryParameterNames() []string {
	names := make([]string, 0, len(url.queryParams))
	for _, param := range url.queryParams {
		if !slices.Contains(names, param.name) {
			names = append(names, param.name)
		}
	}
	return names
}

// QueryParameterValues returns every decoded value of the parameters
// named name in order, valueless ones as empty strings.
func (url *Url) QueryParameterValues(name string) []string {
	values := make([]string, 0, len(url.queryParams))
	for _, param := range url.queryParams {
		if param.name != name {
			continue
		}
		if param.value == nil {
			values = append(values, "")
		} else {
			values = append(values, *param.value)
		}
	}
	return values
}

// QueryParameterName returns the decoded name of the parameter at
// index, out of range indexes panic like a slice access.
func (url *Url) QueryParameterName(index int) string {
	return url.queryParams[index].name
}

// QueryParameterValue returns the decoded value of the parameter at
// index, false when it is valueless. Out of range indexes panic like
// a slice access.
func (url *Url) QueryParameterValue(index int) (string, bool) {
	if param := url.queryParams[index]; param.value != nil {
		return *param.value, true
	}
	return "", false
}

// Fragment returns the decoded fragment, false when the url has none.
func (url *Url) Fragment() (string, bool) {
	if url.fragment == nil {
		return "", false
	}
	return *url.fragment, true
}

// EncodedFragment returns the fragment exactly as the canonical text
// carries it, false when the url has none.
func (url *Url) EncodedFragment() (string, bool) {
	if url.fragment == nil {
		return "", false
	}
	return url.url[strings.IndexByte(url.url, '#')+1:], true
}

// Redact returns "scheme://host/..." text safe for logs: userinfo,
// query and fragment are gone and the path reads "/...".
func (url *Url) Redact() string {
	return url.ResolveBuilder("/...").Username("").Password("").String()
}

// Resolve reads link the way a browser follows one on this page,
// returning nil when the text cannot complete into an url.
func (url *Url) Resolve(link string) *Url {
	builder := url.ResolveBuilder(link)
	if builder == nil {
		return nil
	}
	resolved, err := builder.Build()
	if err != nil {
		return nil
	}
	return resolved
}

// ResolveBuilder is like [Url.Resolve] but stops at the builder,
// leaving room for further edits. It returns nil when the link cannot
// complete into an url.
func (url *Url) ResolveBuilder(link string) *Builder {
	var builder Builder
	if err := builder.parse(url, link); err != nil {
		return nil
	}
	return &builder
}

// NewBuilder returns a builder holding every component of the url.
// A default port un-sets itself so a later scheme change re-defaults.
func (url *Url) NewBuilder() *Builder {
	builder := &Builder{
		scheme:              url.scheme,
		encodedUsername:     url.EncodedUsername(),
		encodedPassword:     url.EncodedPassword(),
		host:                url.host,
		port:                url.port,
		encodedPathSegments: url.EncodedPathSegments(),
	}
	if builder.port == DefaultPort(url.scheme) {
		builder.port = 0
	}
	if encodedQuery, ok := url.EncodedQuery(); ok {
		builder.encodedQueryParams = parseQueryParams(encodedQuery)
	}
	if encodedFragment, ok := url.EncodedFragment(); ok {
		builder.encodedFragment = &encodedFragment
	}
	return builder
}

// UriString re-encodes the canonical text for strict uri consumers:
// stray '%' signs, square brackets in paths and the other bytes a
// strict grammar refuses gain escapes. The result parses back with
// [ParseUrl], though not always to an equal url.
func (url *Url) UriString() string {
	builder := url.NewBuilder()
	for i, segment := range builder.encodedPathSegments {
		builder.encodedPathSegments[i] = plain.EscapeUrl(segment, plain.EscapingUriPathSegment,
			plain.EscapeKeepEncoded|plain.EscapeStrictPercent|plain.EscapeAsciiOnly)
	}
	for i, param := range builder.encodedQueryParams {
		builder.encodedQueryParams[i].name = plain.EscapeUrl(param.name, plain.EscapingUriQueryComponent,
			plain.EscapeKeepEncoded|plain.EscapeStrictPercent|plain.EscapePlusIsSpace|plain.EscapeAsciiOnly)
		if param.value != nil {
			value := plain.EscapeUrl(*param.value, plain.EscapingUriQueryComponent,
				plain.EscapeKeepEncoded|plain.EscapeStrictPercent|plain.EscapePlusIsSpace|plain.EscapeAsciiOnly)
			builder.encodedQueryParams[i].value = &value
		}
	}
	if builder.encodedFragment != nil {
		fragment := plain.EscapeUrl(*builder.encodedFragment, plain.EscapingUriFragment,
			plain.EscapeKeepEncoded|plain.EscapeStrictPercent)
		builder.encodedFragment = &fragment
	}
	return builder.String()
}
