package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCanonCommand(t *testing.T) {
	out, _, err := runCommand(t, "", "canon", "HTTP://EXAMPLE.com/a/../b", "https://host:443/")
	require.NoError(t, err)
	require.Equal(t, "http://example.com/b\nhttps://host/\n", out)
}

func TestCanonCommand_Strict(t *testing.T) {
	out, _, err := runCommand(t, "", "canon", "--strict", "http://host/a[b]")
	require.NoError(t, err)
	require.Equal(t, "http://host/a%5Bb%5D\n", out)
}

func TestCanonCommand_Json(t *testing.T) {
	out, _, err := runCommand(t, "", "canon", "--json", "https://u:p@host:8443/a?q=1#f")
	require.NoError(t, err)

	var dump struct {
		Url      string   `json:"url"`
		Scheme   string   `json:"scheme"`
		Username string   `json:"username"`
		Password string   `json:"password"`
		Host     string   `json:"host"`
		Port     uint16   `json:"port"`
		Path     []string `json:"path"`
		Query    *string  `json:"query"`
		Fragment *string  `json:"fragment"`
		Redacted string   `json:"redacted"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &dump))
	require.Equal(t, "https://u:p@host:8443/a?q=1#f", dump.Url)
	require.Equal(t, "https", dump.Scheme)
	require.Equal(t, "u", dump.Username)
	require.Equal(t, "p", dump.Password)
	require.Equal(t, "host", dump.Host)
	require.Equal(t, uint16(8443), dump.Port)
	require.Equal(t, []string{"a"}, dump.Path)
	require.NotNil(t, dump.Query)
	require.Equal(t, "q=1", *dump.Query)
	require.NotNil(t, dump.Fragment)
	require.Equal(t, "f", *dump.Fragment)
	require.Equal(t, "https://host:8443/...", dump.Redacted)
}

func TestCanonCommand_Stdin(t *testing.T) {
	out, _, err := runCommand(t, "http://host/x\n\n  http://host/y  \n", "canon")
	require.NoError(t, err)
	require.Equal(t, "http://host/x\nhttp://host/y\n", out)
}

func TestCanonCommand_Malformed(t *testing.T) {
	out, errOut, err := runCommand(t, "", "canon", "::", "http://host/")
	require.Error(t, err)
	require.Equal(t, "1 input(s) failed", err.Error())
	require.Contains(t, errOut, "weburl/scheme")
	require.Equal(t, "http://host/\n", out)
}

func TestCanonCommand_Verbose(t *testing.T) {
	_, errOut, err := runCommand(t, "", "canon", "-v", "http://host/")
	require.NoError(t, err)
	require.Contains(t, errOut, `"message":"parsed"`)
	require.Contains(t, errOut, "http://host/")
}

func TestResolveCommand(t *testing.T) {
	out, _, err := runCommand(t, "", "resolve", "http://host/a/b/c", "../d", "?q")
	require.NoError(t, err)
	require.Equal(t, "http://host/a/d\nhttp://host/a/b/c?q\n", out)
}

func TestResolveCommand_Stdin(t *testing.T) {
	out, _, err := runCommand(t, "d\n#f\n", "resolve", "http://host/a/b/c")
	require.NoError(t, err)
	require.Equal(t, "http://host/a/b/d\nhttp://host/a/b/c#f\n", out)
}

func TestResolveCommand_BadBase(t *testing.T) {
	_, _, err := runCommand(t, "", "resolve", "nope", "d")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no colon was found")
}

func TestResolveCommand_BadLink(t *testing.T) {
	_, errOut, err := runCommand(t, "", "resolve", "http://host/", "ftp://other/")
	require.Error(t, err)
	require.Contains(t, errOut, `cannot resolve link "ftp://other/"`)
}

func TestRedactCommand(t *testing.T) {
	out, _, err := runCommand(t, "", "redact", "https://u:p@host:8443/p/x?q=1#f")
	require.NoError(t, err)
	require.Equal(t, "https://host:8443/...\n", out)
}
