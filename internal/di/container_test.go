package di

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"github.com/mikey/inbox-account-scanner/internal/adapters/cli"
	"github.com/mikey/inbox-account-scanner/internal/adapters/web"
	"github.com/mikey/inbox-account-scanner/internal/core"
	"github.com/mikey/inbox-account-scanner/internal/ports"
)

// tagDetector adds a "senders" section listing every From value
type tagDetector struct{}

func (tagDetector) Name() string { return "senders" }

func (tagDetector) Detect(rows []core.Row) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Get("From"))
	}
	return out
}

func TestBuildContainer(t *testing.T) {
	container, err := BuildContainer()
	require.NoError(t, err)

	err = container.Invoke(func(fe ports.Frontend, repo core.CacheRepository, service *core.AnalysisService) {
		assert.IsType(t, &web.Server{}, fe)
		assert.Nil(t, repo)
		assert.NotNil(t, service)
	})
	require.NoError(t, err)
}

func TestParseFlagSet(t *testing.T) {
	flags := ParseFlagSet(flag.NewFlagSet("scan-inbox", flag.ContinueOnError), []string{
		"-file", "inbox.mbox", "-json", "-ignore", " corp.example, ,Other.org ",
	})

	assert.Equal(t, "inbox.mbox", flags.InputFile)
	assert.Empty(t, flags.Format)
	assert.True(t, flags.JSON)
	assert.False(t, flags.Verbose)
	assert.Equal(t, []string{"corp.example", "Other.org"}, flags.IgnoredDomains())
}

func TestBuildCLIContainer(t *testing.T) {
	var out bytes.Buffer
	container, err := BuildCLIContainer(&CLIFlags{Ignore: "friends.org"}, &out)
	require.NoError(t, err)

	err = container.Invoke(func(fe ports.Frontend) error {
		require.IsType(t, &cli.Scanner{}, fe)
		_, err := fe.Scan(context.Background(), "csv", strings.NewReader(
			"From,Subject\nbilling@paypal.com,hi\nalice@friends.org,hi\n"))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "billing@paypal.com <paypal.com>\npaypal <paypal.com>\n", out.String())
}

func TestBuildCLIContainer_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detector:\n  providers: [acme]\n"), 0o600))

	var out bytes.Buffer
	container, err := BuildCLIContainer(&CLIFlags{ConfigFile: path, JSON: true}, &out)
	require.NoError(t, err)

	err = container.Invoke(func(fe ports.Frontend) error {
		_, err := fe.Scan(context.Background(), "csv", strings.NewReader("From,Subject\nbilling@acme.com,hi\n"))
		return err
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"accounts":["acme <acme.com>","billing@acme.com <acme.com>"]}`, out.String())
}

func TestBuildCLIContainer_Signals(t *testing.T) {
	flags := ParseFlagSet(flag.NewFlagSet("scan-inbox", flag.ContinueOnError), []string{"-signals"})
	require.True(t, flags.Signals)

	var out bytes.Buffer
	container, err := BuildCLIContainer(flags, &out)
	require.NoError(t, err)

	err = container.Invoke(func(fe ports.Frontend) error {
		_, err := fe.Scan(context.Background(), "csv", strings.NewReader(
			"Date,From,Subject\n2024-01-03,billing@paypal.com,Your receipt\n2024-01-04,hi@gymfit.io,Class schedule\n"))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "billing@paypal.com <paypal.com>\n"+
		"hi@gymfit.io <gymfit.io>\n"+
		"paypal <paypal.com>\n"+
		"\n[domain_signals]\n"+
		"PayPal <paypal.com> score=4 messages=1 signals=billing_finance first_seen=2024-01-03 last_seen=2024-01-03 subjects=\"Your receipt\"\n"+
		"gymfit.io <gymfit.io> score=0 messages=1 signals=none first_seen=2024-01-04 last_seen=2024-01-04 subjects=\"Class schedule\"\n",
		out.String())
}

func TestSupplementalDetectorGroup(t *testing.T) {
	var out bytes.Buffer
	container, err := BuildCLIContainer(&CLIFlags{}, &out)
	require.NoError(t, err)
	require.NoError(t, container.Provide(func() core.SupplementalDetector { return tagDetector{} }, dig.Group("detectors")))

	err = container.Invoke(func(service *core.AnalysisService) {
		result := service.AnalyzeRows([]core.Row{{"From": "x@y.z"}})
		assert.Equal(t, []string{"x@y.z"}, result.Sections["senders"])
	})
	require.NoError(t, err)
}

func TestBuildCLIContainer_MissingConfigFile(t *testing.T) {
	container, err := BuildCLIContainer(&CLIFlags{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")}, &bytes.Buffer{})
	require.NoError(t, err)

	err = container.Invoke(func(fe ports.Frontend) {})
	assert.Error(t, err)
}
