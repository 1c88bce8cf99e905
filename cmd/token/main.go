package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pulse/internal/auth"
	"github.com/MrJamesThe3rd/pulse/internal/config"
)

var (
	flagSubject string
	flagTTL     time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "token",
	Short:        "Issue and check API bearer tokens",
	Long:         "Mint bearer tokens for the Pulse API, signed with AUTH_SECRET.",
	SilenceUsage: true,
	RunE:         runIssue,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Check a token and print its subject",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	rootCmd.Flags().StringVarP(&flagSubject, "sub", "s", "dashboard", "Token subject")
	rootCmd.Flags().DurationVar(&flagTTL, "ttl", 0, "Token lifetime (defaults to AUTH_TOKEN_TTL)")
	rootCmd.AddCommand(verifyCmd)
}

func authenticator() (*auth.Authenticator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	ttl := cfg.Auth.TokenTTL
	if flagTTL > 0 {
		ttl = flagTTL
	}

	return auth.New(cfg.Auth.Secret, ttl), nil
}

func runIssue(_ *cobra.Command, _ []string) error {
	a, err := authenticator()
	if err != nil {
		return err
	}

	token, err := a.Issue(flagSubject)
	if err != nil {
		return err
	}

	fmt.Println(token)

	return nil
}

func runVerify(_ *cobra.Command, args []string) error {
	a, err := authenticator()
	if err != nil {
		return err
	}

	subject, err := a.Verify(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("valid token for %q\n", subject)

	return nil
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
