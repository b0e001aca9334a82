package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/relay/internal/console"
)

var (
	sendMethod  string
	sendHeaders []string
	sendBody    string
	sendTimeout time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send URL",
	Short: "Relay one request and print the response",
	Long: `Relay one request through the relay and print the status, elapsed time,
headers and body of the response.

Headers are given as "Key: Value"; a later header with the same key
replaces an earlier one. The body is only sent for POST, PUT and PATCH.`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendMethod, "request", "X", "GET", "HTTP method")
	sendCmd.Flags().StringArrayVarP(&sendHeaders, "header", "H", nil, `header as "Key: Value" (repeatable)`)
	sendCmd.Flags().StringVarP(&sendBody, "data", "d", "", "request body (JSON or text)")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 60*time.Second, "time to wait for the relay")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	form := console.Form{
		URL:    args[0],
		Method: sendMethod,
		Body:   sendBody,
	}
	for _, h := range sendHeaders {
		form.Headers = append(form.Headers, console.ParseHeaderFlag(h))
	}

	payload, err := form.Payload()
	if err != nil {
		return err
	}

	reply, err := console.NewClient(relayURL, sendTimeout).Send(cmd.Context(), payload)
	if err != nil {
		return err
	}
	return console.Render(cmd.OutOrStdout(), reply)
}
