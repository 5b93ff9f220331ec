package factory

import (
	"github.com/mikey/inbox-account-scanner/internal/config"
	"github.com/mikey/inbox-account-scanner/internal/core"
	"github.com/mikey/inbox-account-scanner/internal/detector"
	"github.com/mikey/inbox-account-scanner/internal/ignorelist"
	"go.uber.org/zap"
)

// DetectorFactory creates the account detector and sender ignore list
type DetectorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDetectorFactory creates a new detector factory
func NewDetectorFactory(cfg *config.Config, logger *zap.Logger) *DetectorFactory {
	return &DetectorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAccountDetector creates an account detector from the configured lists
func (f *DetectorFactory) CreateAccountDetector() *detector.AccountDetector {
	lists := f.cfg.GetDetector().Lists
	f.logger.Debug("Loaded detector lists",
		zap.Int("providers", len(lists.Providers)),
		zap.Int("keywords", len(lists.Keywords())),
		zap.Int("sender_patterns", len(lists.SenderPatterns)))
	return detector.NewAccountDetector(lists, f.logger)
}

// CreateIgnoreList creates the sender ignore list
func (f *DetectorFactory) CreateIgnoreList() *ignorelist.Checker {
	domains := f.cfg.GetDetector().IgnoredDomains
	if len(domains) > 0 {
		f.logger.Info("Loaded ignored domains", zap.Strings("domains", domains))
	}
	return ignorelist.NewChecker(domains, f.logger)
}

// CreateSupplementalDetectors creates the optional detectors that add extra
// sections to the analysis result
func (f *DetectorFactory) CreateSupplementalDetectors() []core.SupplementalDetector {
	if !f.cfg.GetDetector().SignalsEnabled {
		return nil
	}
	f.logger.Info("Enabled domain signal report")
	return []core.SupplementalDetector{detector.NewSignalDetector(f.logger)}
}
