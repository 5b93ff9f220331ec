package factory

import (
	"fmt"
	"io"

	"github.com/mikey/inbox-account-scanner/internal/adapters/cli"
	"github.com/mikey/inbox-account-scanner/internal/adapters/web"
	"github.com/mikey/inbox-account-scanner/internal/config"
	"github.com/mikey/inbox-account-scanner/internal/core"
	"github.com/mikey/inbox-account-scanner/internal/ports"
	"go.uber.org/zap"
)

const (
	FrontendWeb = "web"
	FrontendCLI = "cli"
)

// FrontendFactory creates frontends based on configuration
type FrontendFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.AnalysisService
	out     io.Writer
}

// NewFrontendFactory creates a new frontend factory. out is where the CLI
// frontend prints results.
func NewFrontendFactory(cfg *config.Config, logger *zap.Logger, service *core.AnalysisService, out io.Writer) *FrontendFactory {
	return &FrontendFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
		out:     out,
	}
}

// CreateFrontend creates a frontend based on the server.frontend key
func (f *FrontendFactory) CreateFrontend() (ports.Frontend, error) {
	frontendType := f.cfg.GetString("server.frontend")

	switch frontendType {
	case FrontendWeb:
		sc, err := f.cfg.GetServer()
		if err != nil {
			return nil, err
		}
		return web.NewServer(f.service, f.logger, sc), nil
	case FrontendCLI:
		return cli.NewScanner(f.service, f.logger, f.out, f.cfg.GetBool("cli.json")), nil
	default:
		return nil, fmt.Errorf("unsupported frontend type: %s", frontendType)
	}
}
