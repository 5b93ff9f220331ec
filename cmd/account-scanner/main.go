package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/inbox-account-scanner/internal/core"
	"github.com/mikey/inbox-account-scanner/internal/di"
	"github.com/mikey/inbox-account-scanner/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	frontend ports.Frontend,
	cacheRepo core.CacheRepository,
) error {
	defer logger.Sync()

	// Start the frontend
	if err := frontend.Start(); err != nil {
		logger.Error("Failed to start frontend", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the frontend
	if err := frontend.Stop(); err != nil {
		logger.Error("Failed to stop frontend", zap.Error(err))
	}

	// Stop the cache if needed
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
