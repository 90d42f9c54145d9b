// Command recognize-image is the Lambda consuming the upload queue.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/jacentio/imagepipe/handler/recognition"
	"github.com/jacentio/imagepipe/internal/env"
	"github.com/jacentio/imagepipe/internal/logging"
	"github.com/jacentio/imagepipe/notify"
	"github.com/jacentio/imagepipe/queue"
	"github.com/jacentio/imagepipe/store"
	"github.com/jacentio/imagepipe/vision"
)

func main() {
	cfg, err := env.Load[env.Recognition]()
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

	detector := vision.NewDetector(rekognition.NewFromConfig(awsCfg), vision.Options{
		MaxLabels:     cfg.MaxLabels,
		MinConfidence: aws.Float32(cfg.MinConfidence),
	})
	publisher := notify.NewPublisher(
		store.New(dynamodb.NewFromConfig(awsCfg), store.DefaultConfig()),
		sns.NewFromConfig(awsCfg),
		notify.Config{
			TableName: cfg.TableName,
			TopicARN:  cfg.TopicARN,
			Subject:   cfg.NotifySubject,
		},
		logger,
	)
	acker := queue.NewAcker(sqs.NewFromConfig(awsCfg), cfg.QueueURL)

	h := recognition.NewHandler(detector, publisher, acker, logger)
	lambda.Start(h.HandleSQS)
}
