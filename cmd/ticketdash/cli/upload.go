package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lorrc/ticket-insights/internal/client"
)

var (
	uploadServer string
	uploadToken  string
)

var uploadCmd = &cobra.Command{
	Use:   "upload SPREADSHEET",
	Short: "Upload a spreadsheet to a dashboard server",
	Long: `Send an .xlsx/.xls export to a running dashboard server, which
regenerates and reloads its dataset. Files with another extension or over
10 MB are refused before anything is sent.

The token defaults to $TICKETDASH_TOKEN.

Examples:
  ticketdash upload 需求工单统计表.xlsx
  ticketdash upload export.xlsx --server https://dash.example.com --token eyJ...`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadServer, "server", "http://localhost:8080", "Dashboard server URL")
	uploadCmd.Flags().StringVar(&uploadToken, "token", "", "Bearer token with the uploader role")
}

func runUpload(cmd *cobra.Command, args []string) error {
	token := uploadToken
	if token == "" {
		token = os.Getenv("TICKETDASH_TOKEN")
	}

	var opts []client.Option
	if token != "" {
		opts = append(opts, client.WithToken(token))
	}

	result, err := client.NewUploader(uploadServer, opts...).Upload(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Message)
	return nil
}
