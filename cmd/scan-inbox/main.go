package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/inbox-account-scanner/internal/adapters/input"
	"github.com/mikey/inbox-account-scanner/internal/core"
	"github.com/mikey/inbox-account-scanner/internal/di"
	"github.com/mikey/inbox-account-scanner/internal/ports"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run scans one inbox export with all dependencies injected
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	frontend ports.Frontend,
	cacheRepo core.CacheRepository,
) error {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Read inbox export from file or stdin
	var src io.Reader
	format := flags.Format
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		src = file
		if format == "" {
			format = input.FormatForFilename(flags.InputFile)
		}
		logger.Info("Reading inbox export from file", zap.String("file", flags.InputFile), zap.String("format", format))
	} else {
		src = os.Stdin
		logger.Info("Reading inbox export from stdin", zap.String("format", format))
	}

	if err := frontend.Start(); err != nil {
		return err
	}
	defer func() {
		if err := frontend.Stop(); err != nil {
			logger.Error("Failed to stop frontend", zap.Error(err))
		}
		if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
			stopper.Stop()
		}
	}()

	_, err := frontend.Scan(ctx, format, src)
	return err
}
