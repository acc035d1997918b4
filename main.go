// Package main provides the Songify CLI application entry point.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/songifyapp/songify/internal/app"
	"github.com/songifyapp/songify/internal/cli"
	"github.com/songifyapp/songify/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "songify",
	Short: "Songify - music discovery and playback in the terminal",
	Long: `Songify streams track previews from a public music catalog. Search or browse
the charts, queue tracks, and keep a saved playlist that survives restarts.`,
	SilenceUsage: true,
	RunE:         runSongify,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("catalog-url", "", "catalog API base URL")
	flags.String("catalog-proxy", "", "proxy prefix prepended to catalog requests")
	flags.Duration("catalog-timeout", 0, "catalog request timeout")
	flags.String("state-db", "", "path to the local state database")
	flags.Float64("default-volume", 0, "initial volume when none is saved (0-1)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	flags.Bool("mock-audio", false, "use the silent in-memory audio output")

	viper.SetEnvPrefix("SONGIFY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func runSongify(cmd *cobra.Command, _ []string) error {
	cfg := config.FromViper(viper.GetViper())

	application, err := app.NewApplication(cfg, app.Options{
		UseMockAudio: viper.GetBool("mock-audio"),
	})
	if err != nil {
		return err
	}
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shell := cli.NewShell(application, os.Stdin, os.Stdout)
	if err := shell.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
