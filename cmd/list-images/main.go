// Command list-images is the Lambda behind the list API.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/jacentio/imagepipe/handler/listing"
	"github.com/jacentio/imagepipe/internal/env"
	"github.com/jacentio/imagepipe/internal/logging"
	"github.com/jacentio/imagepipe/store"
)

func main() {
	cfg, err := env.Load[env.Listing]()
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

	s := store.New(dynamodb.NewFromConfig(awsCfg), store.DefaultConfig())
	h := listing.NewHandler(s, cfg.TableName, logger)
	lambda.Start(h.HandleRequest)
}
