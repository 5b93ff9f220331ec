package di

import (
	"io"
	"os"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/inbox-account-scanner/internal/config"
	"github.com/mikey/inbox-account-scanner/internal/core"
	"github.com/mikey/inbox-account-scanner/internal/factory"
	"github.com/mikey/inbox-account-scanner/internal/logging"
	"github.com/mikey/inbox-account-scanner/internal/ports"
	"github.com/mikey/inbox-account-scanner/internal/utils"
)

// AssemblerParams collects the optional supplemental detectors that extend
// the analysis result with extra sections
type AssemblerParams struct {
	dig.In

	Logger    *zap.Logger
	Detectors []core.SupplementalDetector `group:"detectors"`
}

// SupplementalDetectors publishes the configured supplemental detectors into
// the detectors group
type SupplementalDetectors struct {
	dig.Out

	Detectors []core.SupplementalDetector `group:"detectors,flatten"`
}

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register result output for CLI frontends
	if err := container.Provide(func() io.Writer { return os.Stdout }); err != nil {
		return nil, err
	}

	if err := provideCommon(container); err != nil {
		return nil, err
	}

	return container, nil
}

// provideCommon registers everything below configuration and logging that
// the service and the CLI share
func provideCommon(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewDetectorFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}

	// Register input formats
	if err := container.Provide(func(f *factory.TextProcessorFactory, tp *utils.TextProcessor) core.ExtractorSource {
		return f.CreateExtractorRegistry(tp)
	}); err != nil {
		return err
	}

	// Register detector and ignore list
	if err := container.Provide(func(f *factory.DetectorFactory) core.AccountDetector {
		return f.CreateAccountDetector()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.DetectorFactory) core.SenderFilter {
		return f.CreateIgnoreList()
	}); err != nil {
		return err
	}

	// Register supplemental detectors
	if err := container.Provide(func(f *factory.DetectorFactory) SupplementalDetectors {
		return SupplementalDetectors{Detectors: f.CreateSupplementalDetectors()}
	}); err != nil {
		return err
	}

	// Register result assembler
	if err := container.Provide(func(p AssemblerParams) *core.ResultAssembler {
		return core.NewResultAssembler(p.Logger, p.Detectors...)
	}); err != nil {
		return err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return err
	}

	// Register analysis service
	if err := container.Provide(core.NewAnalysisService); err != nil {
		return err
	}

	// Register frontend
	if err := container.Provide(func(f *factory.FrontendFactory) (ports.Frontend, error) {
		return f.CreateFrontend()
	}); err != nil {
		return err
	}

	return nil
}
