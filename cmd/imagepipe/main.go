// Command imagepipe is the operator tool for the image pipeline.
//
// Usage:
//
//	imagepipe template --format yaml     Render the CloudFormation template
//	imagepipe convert payload.json       Convert a JSON document to XML
//	imagepipe scan --table T --limit 20  Page through a table
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jacentio/imagepipe/internal/logging"
	"github.com/jacentio/imagepipe/store"
)

// app carries dependencies shared by subcommands.
type app struct {
	logger    *slog.Logger
	closer    io.Closer
	newClient func(ctx context.Context) (store.Client, error)
}

func defaultClient(ctx context.Context) (store.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func main() {
	if err := newRootCmd(&app{newClient: defaultClient}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var (
		logLevel string
		logFile  string
		envFile  string
	)

	rootCmd := &cobra.Command{
		Use:           "imagepipe",
		Short:         "Operate the image upload and recognition pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			if !cmd.Flags().Changed("log-level") {
				if v := os.Getenv("LOG_LEVEL"); v != "" {
					logLevel = v
				}
			}
			a.logger, a.closer = logging.New(logging.Options{
				Level:  logLevel,
				File:   logFile,
				Writer: cmd.ErrOrStderr(),
				Text:   logFile == "",
			})
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a rotating file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before running")

	rootCmd.AddCommand(
		newTemplateCmd(a),
		newConvertCmd(a),
		newScanCmd(a),
	)
	return rootCmd
}
