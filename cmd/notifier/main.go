package main

import (
	"context"
	"os"

	adapterlogger "bakery-backoffice/internal/adapters/logger"
	"bakery-backoffice/internal/application"
	"bakery-backoffice/internal/config"
	"bakery-backoffice/internal/infrastructure/dynamodb"
	"bakery-backoffice/internal/infrastructure/fcm"
	platformlambda "bakery-backoffice/internal/platform/lambda"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-xray-sdk-go/xray"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		adapterlogger.New("bakery-notifier", adapterlogger.ParseLevel("")).Error(ctx, "configuration error", "error", err)
		os.Exit(1)
	}
	logger := adapterlogger.New("bakery-notifier", adapterlogger.ParseLevel(cfg.LogLevel))
	if err := cfg.ValidateNotifier(); err != nil {
		logger.Error(ctx, "configuration error", "error", err)
		os.Exit(1)
	}
	xray.Configure(xray.Config{LogLevel: "error"})

	ddbClient, err := dynamodb.NewClient(ctx, cfg.Region, cfg.TableName)
	if err != nil {
		logger.Error(ctx, "failed to initialize dynamodb client", "error", err)
		os.Exit(1)
	}
	sender, err := fcm.NewSender(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		logger.Error(ctx, "failed to initialize firebase messaging", "error", err)
		os.Exit(1)
	}

	notifier := application.NewOrderNotifier(
		dynamodb.NewDestinationRepository(ddbClient),
		sender,
		logger,
		application.NotifierConfig{Title: cfg.Notifier.Title, Link: cfg.Notifier.Link},
	)
	lambda.Start(platformlambda.NewOrderStreamHandler(notifier, logger, cfg.Notifier.Timeout))
}
