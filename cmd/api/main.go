package main

import (
	"os"

	"github.com/spf13/cobra"
)

// @title VidaLink Share API
// @version 1.0
// @description Tokens de acceso temporales para compartir historia clínica con médicos.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{
		Use:          "vidalink",
		Short:        "VidaLink share-token API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
