package weburl

import (
	"errors"
	"testing"
)

func TestOpError(t *testing.T) {
	err := NewOpError("parse", "invalid text '%s'", "abc")
	if got := err.Error(); got != "weburl/parse: invalid text 'abc'" {
		t.Errorf("Error() = %q, want weburl/parse: invalid text 'abc'", got)
	}
	if got := NewOpError("", "plain message").Error(); got != "weburl: plain message" {
		t.Errorf("Error() = %q, want weburl: plain message", got)
	}

	inner := errors.New("inner")
	wrapped := &OpError{Op: "op", Err: inner}
	if !errors.Is(wrapped, inner) {
		t.Error("errors.Is() = false, want unwrap to reach the inner error")
	}

	var oerr *OpError
	if !errors.As(ErrSchemeRequired, &oerr) {
		t.Fatal("errors.As() = false, want *OpError sentinel")
	}
	if !oerr.Match(ErrSchemeRequired) {
		t.Error("Match() = false, want true for the same sentinel")
	}
	if oerr.Match(ErrHostRequired) {
		t.Error("Match() = true, want false for a different sentinel")
	}
}
