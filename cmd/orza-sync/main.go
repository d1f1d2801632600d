package main

import (
	"context"
	"fmt"
	"os"

	"gitlab.com/orza-agritech/web/orza-sync/internal/bootstrap"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/contextkeys"
)

func main() {
	ctx := context.Background()
	ctx = context.WithValue(ctx, contextkeys.RequestIDKey, "app-main")

	app, cleanup, err := bootstrap.InitializeApp(ctx)
	if err != nil {
		// Basic log if bootstrap fails, the configured logger is not
		// available yet.
		fmt.Printf("Failed to initialize sync engine: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := app.Run(ctx); err != nil {
		fmt.Printf("Sync engine run failed: %v\n", err)
		os.Exit(1)
	}
}
