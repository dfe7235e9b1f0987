package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "yamdbctl",
	Short: "YaMDb maintenance: schema migrations and bulk data import",
	Long: `yamdbctl manages the YaMDb database.

Connection settings come from the same environment (and .env file) as the API.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
