package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lorrc/ticket-insights/internal/auth"
)

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed upload token",
	Long: `Sign a token with the server's JWT_SECRET (read from the environment
or .env). Pass it to "ticketdash upload --token" or as a Bearer header.

Examples:
  ticketdash token --subject ops@example.com
  ticketdash token --subject ci --ttl 15m`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Who the token is issued to (required)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", auth.RoleUploader, "Role carried by the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", auth.DefaultTokenTTL, "Token lifetime")
}

func runToken(cmd *cobra.Command, args []string) error {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if tokenSubject == "" {
		return errors.New("--subject is required")
	}
	if tokenTTL <= 0 {
		return errors.New("--ttl must be positive")
	}

	token, err := auth.NewTokenManager(secret, tokenTTL).GenerateToken(tokenSubject, tokenRole)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
