package weburl

import (
	"strings"
	"testing"
)

func Test_ParseQueryParams(t *testing.T) {
	// Splitting and serializing are exact inverses for canonical text.
	roundTrips := []string{
		"",
		"a",
		"a=",
		"=v",
		"a=b",
		"a=b&c=d",
		"a=b=c",
		"&",
		"a&&b",
	}
	for _, raw := range roundTrips {
		t.Run("round trip "+raw, func(t *testing.T) {
			var buf strings.Builder
			writeQueryParams(&buf, parseQueryParams(raw))
			if got := buf.String(); got != raw {
				t.Errorf("writeQueryParams() = %q, want %q", got, raw)
			}
		})
	}

	t.Run("value split on first equals", func(t *testing.T) {
		params := parseQueryParams("a=b=c")
		if len(params) != 1 || params[0].name != "a" {
			t.Fatalf("parseQueryParams() = %+v, want one parameter named a", params)
		}
		if params[0].value == nil || *params[0].value != "b=c" {
			t.Errorf("value = %v, want b=c", params[0].value)
		}
	})

	t.Run("valueless keeps nil value", func(t *testing.T) {
		params := parseQueryParams("a")
		if len(params) != 1 || params[0].value != nil {
			t.Fatalf("parseQueryParams() = %+v, want one valueless parameter", params)
		}
	})

	t.Run("empty text one empty pair", func(t *testing.T) {
		params := parseQueryParams("")
		if len(params) != 1 || params[0].name != "" || params[0].value != nil {
			t.Fatalf("parseQueryParams() = %+v, want one empty valueless parameter", params)
		}
	})
}
