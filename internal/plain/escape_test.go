package plain

import (
	"testing"
)

func Test_EscapeUrl(t *testing.T) {
	tests := []struct {
		name   string
		source string
		esc    Escaping
		flags  EscapeFlags
		want   string
	}{
		// Unchanged text
		{"empty", "", EscapingPathSegment, EscapeAsciiOnly, ""},
		{"plain segment", "index.html", EscapingPathSegment, EscapeAsciiOnly, "index.html"},
		{"fragment allows everything", "a#b?c/d e", EscapingFragment, 0, "a#b?c/d e"},
		{"raw utf8 in fragment", "täg", EscapingFragment, 0, "täg"},

		// Component characters
		{"space in segment", "a b", EscapingPathSegment, EscapeAsciiOnly, "a%20b"},
		{"slash in segment", "a/b", EscapingPathSegment, EscapeAsciiOnly, "a%2Fb"},
		{"colon in userinfo", "user:name", EscapingUserPassword, EscapeAsciiOnly, "user%3Aname"},
		{"at in userinfo", "a@b", EscapingUserPassword, EscapeAsciiOnly, "a%40b"},
		{"query component separators", "a=b&c", EscapingQueryComponent, EscapePlusIsSpace | EscapeAsciiOnly, "a%3Db%26c"},
		{"query text keeps separators", "a=b&c", EscapingQueryText, EscapePlusIsSpace | EscapeAsciiOnly, "a=b&c"},
		{"uri segment brackets", "a[b]c", EscapingUriPathSegment, EscapeKeepEncoded | EscapeStrictPercent | EscapeAsciiOnly, "a%5Bb%5Dc"},
		{"uri fragment space", "a b", EscapingUriFragment, EscapeKeepEncoded | EscapeStrictPercent, "a%20b"},

		// Control and non-ascii bytes
		{"control byte", "a\x01b", EscapingFragment, 0, "a%01b"},
		{"delete byte", "a\x7fb", EscapingFragment, 0, "a%7Fb"},
		{"utf8 as bytes", "ü", EscapingPathSegment, EscapeAsciiOnly, "%C3%BC"},
		{"utf8 multi rune", "päß", EscapingQueryComponent, EscapePlusIsSpace | EscapeAsciiOnly, "p%C3%A4%C3%9F"},

		// Percent handling
		{"percent escaped by default", "100%", EscapingPathSegment, EscapeAsciiOnly, "100%25"},
		{"valid escape kept", "a%20b", EscapingPathSegment, EscapeKeepEncoded | EscapeAsciiOnly, "a%20b"},
		{"malformed escape kept without strict", "a%zzb", EscapingPathSegment, EscapeKeepEncoded | EscapeAsciiOnly, "a%zzb"},
		{"malformed escape fixed with strict", "a%zzb", EscapingUriPathSegment, EscapeKeepEncoded | EscapeStrictPercent | EscapeAsciiOnly, "a%25zzb"},
		{"truncated escape fixed with strict", "ab%2", EscapingUriPathSegment, EscapeKeepEncoded | EscapeStrictPercent | EscapeAsciiOnly, "ab%252"},

		// Plus handling
		{"plus escaped", "a+b", EscapingQueryComponent, EscapePlusIsSpace | EscapeAsciiOnly, "a%2Bb"},
		{"plus kept in encoded text", "a+b", EscapingQueryReEncode, EscapeKeepEncoded | EscapePlusIsSpace | EscapeAsciiOnly, "a+b"},
		{"plus untouched without flag", "a+b", EscapingPathSegment, EscapeAsciiOnly, "a+b"},

		// Whitespace in encoded text
		{"whitespace dropped when encoded", "a\n\tb\r", EscapingPathSegment, EscapeKeepEncoded | EscapeAsciiOnly, "ab"},
		{"whitespace escaped when decoded", "a\nb", EscapingPathSegment, EscapeAsciiOnly, "a%0Ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeUrl(tt.source, tt.esc, tt.flags); got != tt.want {
				t.Errorf("EscapeUrl() = %q, want %q", got, tt.want)
			}
		})
	}
}

func Test_UnEscapeUrl(t *testing.T) {
	tests := []struct {
		name        string
		encoded     string
		plusIsSpace bool
		want        string
	}{
		{"empty", "", false, ""},
		{"no escapes", "plain-text", false, "plain-text"},
		{"single escape", "a%20b", false, "a b"},
		{"escape at end", "ab%21", false, "ab!"},
		{"lowercase hex", "%2f%2F", false, "//"},
		{"escaped percent", "100%25", false, "100%"},
		{"utf8 bytes", "%C3%BC", false, "ü"},
		{"raw utf8 passthrough", "ü%20x", false, "ü x"},

		// Plus handling
		{"plus literal", "a+b", false, "a+b"},
		{"plus as space", "a+b", true, "a b"},
		{"mixed plus and escape", "a%20b+c", true, "a b c"},

		// Malformed sequences stay literal
		{"lone percent", "100%", false, "100%"},
		{"truncated escape", "%2", false, "%2"},
		{"bad hex digits", "%zz", false, "%zz"},
		{"partial then valid", "%x%41", false, "%xA"},

		// Escapes that break utf8 decode to the replacement rune
		{"invalid utf8 run", "%E2%98x", false, "�x"},
		{"lone continuation byte", "%80", false, "�"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnEscapeUrl(tt.encoded, tt.plusIsSpace); got != tt.want {
				t.Errorf("UnEscapeUrl() = %q, want %q", got, tt.want)
			}
		})
	}
}
