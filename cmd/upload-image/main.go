// Command upload-image is the Lambda behind the authenticated upload API.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jacentio/imagepipe/blob"
	"github.com/jacentio/imagepipe/fetch"
	"github.com/jacentio/imagepipe/handler/upload"
	"github.com/jacentio/imagepipe/internal/env"
	"github.com/jacentio/imagepipe/internal/logging"
)

func main() {
	cfg, err := env.Load[env.Upload]()
	if err != nil {
		slog.Error("load environment", "error", err)
		os.Exit(1)
	}
	logger, _ := logging.New(logging.Options{Level: cfg.LogLevel})
	slog.SetDefault(logger)

	awsCfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Error("load AWS config", "error", err)
		os.Exit(1)
	}

	fetcher := fetch.New(
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}),
		fetch.WithLogger(logger),
	)
	writer := blob.NewWriter(s3.NewFromConfig(awsCfg), logger)

	h := upload.NewHandler(fetcher, writer, cfg.BucketName, logger)
	lambda.Start(h.HandleRequest)
}
