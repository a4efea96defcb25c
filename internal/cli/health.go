package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Status string `json:"status"`
			}
			if err := client.Do(http.MethodGet, "/api/v1/health", nil, &resp); err != nil {
				return err
			}

			return printResult(resp, func() {
				fmt.Printf("Server status: %s\n", resp.Status)
			})
		},
	}
}
