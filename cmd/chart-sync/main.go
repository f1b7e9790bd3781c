// Package main pushes charts stashed on local disk to the remote store.
// It runs one batch from a shell, or one batch per scheduled EventBridge
// invocation when deployed as a Lambda sharing the API's LOCAL_STORE_PATH
// mount.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"astroguia-backend/application/commands"
	"astroguia-backend/infrastructure/config"
	"astroguia-backend/infrastructure/di"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

var container *di.Container

// handler drains one batch per scheduled event
func handler(ctx context.Context, event events.CloudWatchEvent) (*commands.SyncResult, error) {
	container.Logger.Info("Scheduled chart sync",
		zap.String("event_id", event.ID),
		zap.String("source", event.Source),
	)
	return container.SyncWorker.RunOnce(ctx)
}

func main() {
	follow := flag.Bool("follow", false, "keep syncing on the configured interval until interrupted")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cleanup func()
	container, cleanup, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	if cfg.IsLambda {
		lambda.Start(handler)
		return
	}

	if *follow {
		container.SyncWorker.Start(ctx)
		<-ctx.Done()
		container.SyncWorker.Stop()
		return
	}

	result, err := container.SyncWorker.RunOnce(ctx)
	if err != nil {
		container.Logger.Error("Chart sync failed", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
	container.Logger.Info("Chart sync finished",
		zap.Int("synced", result.Synced),
		zap.Int("failed", result.Failed),
		zap.Int("gave_up", result.GaveUp),
	)
}
