// wiremate CLI - drive a WireMock server's admin API from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wiremate",
		Short: "Drive and inspect a WireMock server through its admin API",
		Long: `wiremate talks to a running WireMock server's admin REST API:
create stub mappings, inspect the recorded-request journal and reset
server state.

Connection settings come from flags, WIREMOCK_* environment variables
or a YAML config file (--config), in increasing order of precedence
for flags.

Examples:
  wiremate health
  wiremate stub add --method GET --url /api/test --body "Hello World"
  wiremate requests count --method GET --url /api/test
  wiremate requests list --unmatched
  wiremate reset --all`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := newRootFlags()
	flags.register(root)

	root.AddCommand(
		newHealthCmd(flags),
		newStubCmd(flags),
		newRequestsCmd(flags),
		newResetCmd(flags),
	)
	return root
}
