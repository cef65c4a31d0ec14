package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/oesand/weburl"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the weburl command tree: canon, resolve and
// redact over urls given as arguments or stdin lines.
func NewRootCommand() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:           "weburl",
		Short:         "Canonicalize, resolve and redact http urls",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log each handled url to stderr")
	cmd.AddCommand(newCanonCommand(&verbose))
	cmd.AddCommand(newResolveCommand(&verbose))
	cmd.AddCommand(newRedactCommand(&verbose))
	return cmd
}

func newCanonCommand(verbose *bool) *cobra.Command {
	var asJson bool
	var strict bool
	cmd := &cobra.Command{
		Use:   "canon [url...]",
		Short: "Print the canonical form of each url",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd, *verbose)
			return forEachInput(cmd, args, func(raw string) error {
				url, err := weburl.ParseUrl(raw)
				if err != nil {
					return err
				}
				logger.Debug().Str("url", url.String()).Msg("parsed")
				if asJson {
					return writeJsonDump(cmd.OutOrStdout(), url)
				}
				text := url.String()
				if strict {
					text = url.UriString()
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJson, "json", false, "Print a structured dump of each url")
	cmd.Flags().BoolVar(&strict, "strict", false, "Re-encode for strict uri consumers")
	return cmd
}

func newResolveCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <base> [link...]",
		Short: "Resolve each link against the base url",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := weburl.ParseUrl(args[0])
			if err != nil {
				return err
			}
			logger := newLogger(cmd, *verbose)
			return forEachInput(cmd, args[1:], func(raw string) error {
				resolved := base.Resolve(raw)
				if resolved == nil {
					return fmt.Errorf("cannot resolve link %q", raw)
				}
				logger.Debug().Str("link", raw).Str("url", resolved.String()).Msg("resolved")
				fmt.Fprintln(cmd.OutOrStdout(), resolved)
				return nil
			})
		},
	}
	return cmd
}

func newRedactCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redact [url...]",
		Short: "Print log-safe forms with userinfo, query and fragment stripped",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd, *verbose)
			return forEachInput(cmd, args, func(raw string) error {
				url, err := weburl.ParseUrl(raw)
				if err != nil {
					return err
				}
				redacted := url.Redact()
				logger.Debug().Str("url", redacted).Msg("redacted")
				fmt.Fprintln(cmd.OutOrStdout(), redacted)
				return nil
			})
		},
	}
	return cmd
}

func newLogger(cmd *cobra.Command, verbose bool) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()
}

// forEachInput feeds handle from the arguments, or from stdin lines when
// there are none. Failures print to stderr without stopping the walk and
// the summary error sets the exit code.
func forEachInput(cmd *cobra.Command, args []string, handle func(raw string) error) error {
	var failed int
	each := func(raw string) {
		if err := handle(raw); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			failed++
		}
	}
	if len(args) > 0 {
		for _, arg := range args {
			each(arg)
		}
	} else {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				each(line)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d input(s) failed", failed)
	}
	return nil
}

type urlDump struct {
	Url      string   `json:"url"`
	Uri      string   `json:"uri"`
	Scheme   string   `json:"scheme"`
	Username string   `json:"username,omitempty"`
	Password string   `json:"password,omitempty"`
	Host     string   `json:"host"`
	Port     uint16   `json:"port"`
	Path     []string `json:"path"`
	Query    *string  `json:"query,omitempty"`
	Fragment *string  `json:"fragment,omitempty"`
	Redacted string   `json:"redacted"`
}

func writeJsonDump(w io.Writer, url *weburl.Url) error {
	dump := urlDump{
		Url:      url.String(),
		Uri:      url.UriString(),
		Scheme:   url.Scheme(),
		Username: url.Username(),
		Password: url.Password(),
		Host:     url.Host(),
		Port:     url.Port(),
		Path:     url.PathSegments(),
		Redacted: url.Redact(),
	}
	if query, ok := url.EncodedQuery(); ok {
		dump.Query = &query
	}
	if fragment, ok := url.EncodedFragment(); ok {
		dump.Fragment = &fragment
	}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
