// Package main provides a terminal driver for the resume console flows.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chatcli",
	Short: "Resume console in the terminal",
	Long:  "chatcli drives the same extraction, job search and chat flows as the web console against a resume service, printing results to the terminal.",
}

var apiBaseURL string

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", "", "Resume service base URL (overrides RESUME_API_BASE_URL)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
