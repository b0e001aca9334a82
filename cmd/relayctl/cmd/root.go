// Package cmd provides the CLI commands for relayctl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var relayURL string

var rootCmd = &cobra.Command{
	Use:   "relayctl",
	Short: "relayctl - send requests through a running relay",
	Long: `relayctl builds a relay payload from curl-style flags, posts it to a
running relay's /proxy endpoint and prints the relayed response.

Example:
  relayctl send https://httpbin.org/post -X POST -H "X-Test: 1" -d '{"a":1}'

The relay address defaults to $RELAY_URL, then http://localhost:3000.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&relayURL, "relay", defaultRelayURL(), "relay base URL")
}

func defaultRelayURL() string {
	if v := os.Getenv("RELAY_URL"); v != "" {
		return v
	}
	return "http://localhost:3000"
}
