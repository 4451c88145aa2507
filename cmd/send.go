package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/stinkyfingers/smsbridge/handler"
	"github.com/stinkyfingers/smsbridge/sms"
)

func newSendCmd(opts []handler.Option) *cobra.Command {
	var req sms.Request
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Invoke the outbound send path once",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, h, err := setup(opts)
			if err != nil {
				return err
			}
			defer log.Sync()

			body, err := json.Marshal(req)
			if err != nil {
				return err
			}
			resp, err := h.Handle(cmd.Context(), events.APIGatewayProxyRequest{
				Headers: map[string]string{"content-type": "application/json"},
				Body:    string(body),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", resp.StatusCode, resp.Body)
			if resp.StatusCode != http.StatusOK {
				return errors.Errorf("send failed with status %d", resp.StatusCode)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.To, "to", "", "destination phone number")
	cmd.Flags().StringVar(&req.Message, "message", "", "message text")
	return cmd
}
