package main

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/policy-atlas/pkg/server"
	"github.com/de-tools/policy-atlas/pkg/services/azure"
	"github.com/de-tools/policy-atlas/pkg/services/policy"
)

var profile string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the compliance report API server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&profile, "profile", "p", azure.DefaultProfile,
		"Azure config profile to serve reports for")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := azure.LoadConfig(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to load Azure config: %w", err)
	}

	explorer, err := policy.NewExplorer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create policy explorer: %w", err)
	}

	logger.Info().
		Str("profile", profile).
		Str("subscription", cfg.SubscriptionID).
		Msg("serving compliance reports")

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msg("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:         net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{Explorer: explorer},
	})

	return api.Start()
}
