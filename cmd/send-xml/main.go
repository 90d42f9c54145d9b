// Command send-xml is the Lambda consuming the rekognized queue.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/jacentio/imagepipe/handler/integration"
	"github.com/jacentio/imagepipe/internal/env"
	"github.com/jacentio/imagepipe/internal/logging"
	"github.com/jacentio/imagepipe/sender"
)

func main() {
	cfg, err := env.Load[env.Config]()
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

	s := sender.New(ssm.NewFromConfig(awsCfg),
		sender.WithParameter(cfg.EndpointParameter),
		sender.WithTimeout(cfg.SendTimeout),
		sender.WithLogger(logger),
	)

	h := integration.NewHandler(s, logger)
	lambda.Start(h.HandleSQS)
}
