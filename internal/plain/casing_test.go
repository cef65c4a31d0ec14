package plain

import (
	"reflect"
	"testing"
)

func Test_LowerCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"already lower", "example.com", "example.com"},
		{"all upper", "EXAMPLE.COM", "example.com"},
		{"mixed case", "ExAmPlE.CoM", "example.com"},
		{"scheme", "HTTPS", "https"},
		{"digits and dashes", "A1-B2.c3", "a1-b2.c3"},
		{"non-alpha untouched", "127.0.0.1:80", "127.0.0.1:80"},
		{"utf8 untouched", "пример.org", "пример.org"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LowerCaseBytes([]byte(tt.input)); !reflect.DeepEqual(got, []byte(tt.want)) {
				t.Errorf("LowerCaseBytes() = %v, want %v", string(got), tt.want)
			}
		})
	}
}
