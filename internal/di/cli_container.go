package di

import (
	"flag"
	"io"
	"os"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/inbox-account-scanner/internal/config"
	"github.com/mikey/inbox-account-scanner/internal/factory"
	"github.com/mikey/inbox-account-scanner/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Input flags
	InputFile string
	Format    string

	// Output flags
	JSON bool

	// Detection flags
	Ignore  string
	Signals bool

	// Logging and config flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	return ParseFlagSet(flag.CommandLine, os.Args[1:])
}

// ParseFlagSet registers the CLI flags on fs and parses args
func ParseFlagSet(fs *flag.FlagSet, args []string) *CLIFlags {
	flags := &CLIFlags{}

	// Input flags
	fs.StringVar(&flags.InputFile, "file", "", "Inbox export to scan (use stdin if not specified)")
	fs.StringVar(&flags.Format, "format", "", "Input format (csv, mbox); defaults to the file extension, else csv")

	// Output flags
	fs.BoolVar(&flags.JSON, "json", false, "Print the result as JSON")

	// Detection flags
	fs.StringVar(&flags.Ignore, "ignore", "", "Comma-separated list of sender domains to ignore")
	fs.BoolVar(&flags.Signals, "signals", false, "Add the per-domain signal report to the output")

	// Logging and config flags
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (detector lists and cache)")

	_ = fs.Parse(args)
	return flags
}

// IgnoredDomains splits the -ignore flag into trimmed, non-empty domains
func (f *CLIFlags) IgnoredDomains() []string {
	var domains []string
	for _, d := range strings.Split(f.Ignore, ",") {
		if d = strings.TrimSpace(d); d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags, out io.Writer) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register result output
	if err := container.Provide(func() io.Writer { return out }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		return createConfigFromFlags(flags, logger)
	}); err != nil {
		return nil, err
	}

	if err := provideCommon(container); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags loads the optional config file and overlays the
// command line flags onto it
func createConfigFromFlags(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	if flags.ConfigFile != "" {
		var err error
		cfg, err = config.NewFromFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = config.NewFromViper(config.NewEmptyViper())
	}

	v := cfg.GetViper()

	// Set some cli specific settings
	v.Set("server.frontend", factory.FrontendCLI)
	v.Set("cli.json", flags.JSON)

	if flags.Signals {
		v.Set("detector.signals_enabled", true)
	}

	if domains := flags.IgnoredDomains(); len(domains) > 0 {
		v.Set("detector.ignored_domains", domains)
	}

	return cfg, nil
}
