package main

import (
	"fmt"
	"os"

	"github.com/SscSPs/vaultline/cmd/vaultline/commands"
	"github.com/spf13/cobra"
)

// @title Vaultline API
// @version 1.0
// @description End-of-day exchange rates for fiat, crypto, stocks and metals, quoted against USD.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and your vl_ API key.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a dashboard JWT.

// @securityDefinitions.apikey IngestSecret
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the ingestion secret.
func main() {
	var rootCmd = &cobra.Command{
		Use:   "vaultline",
		Short: "Vaultline exchange rate API",
		Long:  "Serves USD-anchored exchange rates with per-key daily quotas",
	}

	rootCmd.AddCommand(commands.NewServeCmd())
	rootCmd.AddCommand(commands.NewMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
