package weburl

// Url schemes accepted by [ParseUrl] and [Builder.Scheme].
const (
	SchemeHttp  = "http"
	SchemeHttps = "https"
)

// DefaultPort returns the well known port of an url scheme:
// 80 for http, 443 for https and 0 for anything else.
func DefaultPort(scheme string) uint16 {
	switch scheme {
	case SchemeHttp:
		return 80
	case SchemeHttps:
		return 443
	}
	return 0
}
