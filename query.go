package weburl

import (
	"strings"

	"github.com/oesand/weburl/internal/plain"
)

// queryParam is a single name/value pair of an url query. A nil value
// reports a parameter written without '=', which is distinct from an
// empty one.
type queryParam struct {
	name  string
	value *string
}

// parseQueryParams cuts an encoded query into its ordered pairs. An
// empty query still carries one empty valueless pair, so the bare '?'
// form survives a round trip.
func parseQueryParams(encodedQuery string) []queryParam {
	params := make([]queryParam, 0, strings.Count(encodedQuery, "&")+1)
	pos := 0
	for {
		end := len(encodedQuery)
		if sep := strings.IndexByte(encodedQuery[pos:], '&'); sep >= 0 {
			end = pos + sep
		}
		if eq := strings.IndexByte(encodedQuery[pos:end], '='); eq >= 0 {
			value := encodedQuery[pos+eq+1 : end]
			params = append(params, queryParam{
				name:  encodedQuery[pos : pos+eq],
				value: &value,
			})
		} else {
			params = append(params, queryParam{name: encodedQuery[pos:end]})
		}
		if end == len(encodedQuery) {
			return params
		}
		pos = end + 1
	}
}

// writeQueryParams joins pairs back into query text, valueless pairs
// come out without '='.
func writeQueryParams(buf *strings.Builder, params []queryParam) {
	for i, param := range params {
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(param.name)
		if param.value != nil {
			buf.WriteByte('=')
			buf.WriteString(*param.value)
		}
	}
}

// decodeQueryParams resolves the escapes of every pair, '+' included.
func decodeQueryParams(params []queryParam) []queryParam {
	if params == nil {
		return nil
	}
	decoded := make([]queryParam, len(params))
	for i, param := range params {
		decoded[i].name = plain.UnEscapeUrl(param.name, true)
		if param.value != nil {
			value := plain.UnEscapeUrl(*param.value, true)
			decoded[i].value = &value
		}
	}
	return decoded
}
