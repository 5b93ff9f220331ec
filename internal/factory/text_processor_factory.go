package factory

import (
	"github.com/mikey/inbox-account-scanner/internal/adapters/input"
	"github.com/mikey/inbox-account-scanner/internal/utils"
	"go.uber.org/zap"
)

// TextProcessorFactory creates text processors and the extractors that use them
type TextProcessorFactory struct {
	logger *zap.Logger
}

// NewTextProcessorFactory creates a new TextProcessorFactory
func NewTextProcessorFactory(logger *zap.Logger) *TextProcessorFactory {
	return &TextProcessorFactory{
		logger: logger,
	}
}

// CreateTextProcessor creates a new TextProcessor
func (f *TextProcessorFactory) CreateTextProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(f.logger)
}

// CreateExtractorRegistry creates the registry of every supported input format
func (f *TextProcessorFactory) CreateExtractorRegistry(tp *utils.TextProcessor) *input.Registry {
	registry := input.DefaultRegistry(tp)
	f.logger.Debug("Registered input formats", zap.Strings("formats", registry.Formats()))
	return registry
}
