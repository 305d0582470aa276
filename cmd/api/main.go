package main

import (
	"context"
	"log"

	"github.com/yashness/azure-swa-demo/cmd/api/app"
	"github.com/yashness/azure-swa-demo/cmd/api/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}

func run() error {
	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	a, err := app.New()
	if err != nil {
		return err
	}

	return a.Run(ctx)
}
