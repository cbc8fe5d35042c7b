package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wiremate/wiremate/pkg/logging"
	"github.com/wiremate/wiremate/pkg/stubs"
	"github.com/wiremate/wiremate/pkg/wiremock"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

// rootFlags holds the persistent connection flags shared by every command.
type rootFlags struct {
	host       string
	port       int
	protocol   string
	adminPath  string
	timeout    int
	configFile string
	verbose    bool
}

func newRootFlags() *rootFlags {
	return &rootFlags{}
}

func (f *rootFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.host, "host", "localhost", "WireMock server host")
	pf.IntVar(&f.port, "port", 8080, "WireMock server port")
	pf.StringVar(&f.protocol, "protocol", "", "http or https")
	pf.StringVar(&f.adminPath, "admin-path", "", "admin API root path")
	pf.IntVar(&f.timeout, "timeout", 0, "per-call timeout in seconds")
	pf.StringVar(&f.configFile, "config", "", "YAML config file")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
}

// config resolves the effective configuration: file, then environment,
// then explicitly set flags.
func (f *rootFlags) config(cmd *cobra.Command) (wiremock.Config, error) {
	var cfg wiremock.Config
	if f.configFile != "" {
		loaded, err := wiremock.LoadConfigFile(f.configFile)
		if err != nil {
			return wiremock.Config{}, err
		}
		cfg = loaded
	}
	wiremock.ApplyEnv(&cfg)

	set := cmd.Flags().Changed
	if cfg.Host == "" || set("host") {
		cfg.Host = f.host
	}
	if cfg.Port == 0 || set("port") {
		cfg.Port = f.port
	}
	if set("protocol") {
		cfg.Protocol = f.protocol
	}
	if set("admin-path") {
		cfg.AdminPath = f.adminPath
	}
	if set("timeout") {
		cfg.Timeout = f.timeout
	}
	if f.verbose {
		cfg.Logger = logging.NewWithLevel(logging.LevelDebug)
	}
	return cfg, nil
}

// connect builds a Module, which includes the startup health check.
func (f *rootFlags) connect(cmd *cobra.Command) (*wiremock.Module, error) {
	cfg, err := f.config(cmd)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	return wiremock.New(ctx, cfg)
}

func newHealthCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the WireMock server is reachable and healthy",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.connect(cmd)
			if err != nil {
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "OK: %s\n", m.Client().BaseURL())
			return nil
		},
	}
}

func newStubCmd(flags *rootFlags) *cobra.Command {
	stub := &cobra.Command{
		Use:   "stub",
		Short: "Manage stub mappings",
	}

	var (
		method   string
		url      string
		status   int
		body     string
		jsonBody string
		headers  []string
		id       string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a stub mapping and print its ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.connect(cmd)
			if err != nil {
				return err
			}

			opts := []wiremock.StubOption{wiremock.WithStatus(status)}
			if jsonBody != "" {
				var decoded any
				if err := json.Unmarshal([]byte(jsonBody), &decoded); err != nil {
					return fmt.Errorf("--json is not valid JSON: %w", err)
				}
				opts = append(opts, wiremock.WithJSONBody(decoded))
			} else if body != "" {
				opts = append(opts, wiremock.WithBody(body))
			}
			if len(headers) > 0 {
				hdrs := make(map[string]string, len(headers))
				for _, h := range headers {
					name, value, ok := strings.Cut(h, "=")
					if !ok {
						return fmt.Errorf("--header %q is not in name=value form", h)
					}
					hdrs[name] = value
				}
				opts = append(opts, wiremock.WithHeaders(hdrs))
			}
			switch id {
			case "":
			case "new":
				opts = append(opts, wiremock.WithStubID(stubs.NewID()))
			default:
				opts = append(opts, wiremock.WithStubID(id))
			}

			stubID, err := m.CreateStub(cmd.Context(), method, url, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), stubID)
			return nil
		},
	}
	add.Flags().StringVar(&method, "method", "GET", "HTTP method to match")
	add.Flags().StringVar(&url, "url", "/", "URL to match")
	add.Flags().IntVar(&status, "status", 200, "response status")
	add.Flags().StringVar(&body, "body", "", "verbatim response body")
	add.Flags().StringVar(&jsonBody, "json", "", "JSON response body")
	add.Flags().StringArrayVar(&headers, "header", nil, "response header (name=value, repeatable)")
	add.Flags().StringVar(&id, "id", "", "client-assigned mapping ID (use \"new\" for a random one)")

	stub.AddCommand(add)
	return stub
}

func newRequestsCmd(flags *rootFlags) *cobra.Command {
	requests := &cobra.Command{
		Use:   "requests",
		Short: "Inspect and clear the recorded-request journal",
	}

	var unmatched bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.connect(cmd)
			if err != nil {
				return err
			}
			var records []wiremock.RequestRecord
			if unmatched {
				records, err = m.GrabUnmatchedRequests(cmd.Context())
			} else {
				records, err = m.GrabAllRequests(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(records) == 0 {
				warnColor.Fprintln(cmd.OutOrStdout(), "no requests recorded")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", r.Method(), r.URL())
			}
			return nil
		},
	}
	list.Flags().BoolVar(&unmatched, "unmatched", false, "only requests that matched no stub")

	var method, url string
	count := &cobra.Command{
		Use:   "count",
		Short: "Count recorded requests matching a method and URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.connect(cmd)
			if err != nil {
				return err
			}
			pattern := stubs.RequestPattern(method, url, nil)
			n, err := m.GrabRequestCount(cmd.Context(), pattern)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
	count.Flags().StringVar(&method, "method", "GET", "HTTP method to match")
	count.Flags().StringVar(&url, "url", "/", "URL to match")

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Clear the request journal (stub mappings untouched)",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.connect(cmd)
			if err != nil {
				return err
			}
			if err := m.ClearRequests(cmd.Context()); err != nil {
				return err
			}
			okColor.Fprintln(cmd.OutOrStdout(), "request journal cleared")
			return nil
		},
	}

	requests.AddCommand(list, count, clear)
	return requests
}

func newResetCmd(flags *rootFlags) *cobra.Command {
	var all bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Reset stub mappings (with --all, also clear the journal)",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.connect(cmd)
			if err != nil {
				return err
			}
			if all {
				if err := m.ResetAll(cmd.Context()); err != nil {
					return err
				}
				okColor.Fprintln(cmd.OutOrStdout(), "full reset done")
				return nil
			}
			if err := m.Reset(cmd.Context()); err != nil {
				return err
			}
			okColor.Fprintln(cmd.OutOrStdout(), "mappings reset")
			return nil
		},
	}
	reset.Flags().BoolVar(&all, "all", false, "clear mappings and the request journal")
	return reset
}
