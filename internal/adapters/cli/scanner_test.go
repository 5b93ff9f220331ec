package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/inbox-account-scanner/internal/adapters/input"
	"github.com/mikey/inbox-account-scanner/internal/core"
	"github.com/mikey/inbox-account-scanner/internal/detector"
	"github.com/mikey/inbox-account-scanner/internal/ignorelist"
	"github.com/mikey/inbox-account-scanner/internal/utils"
)

func newTestScanner(out *bytes.Buffer, asJSON bool, ignored ...string) *Scanner {
	logger := zap.NewNop()
	service := core.NewAnalysisService(
		input.DefaultRegistry(utils.NewTextProcessor(logger)),
		detector.NewAccountDetector(detector.DefaultLists(), logger),
		core.NewResultAssembler(logger),
		ignorelist.NewChecker(ignored, logger),
		nil,
		logger,
		false,
		0,
	)
	return NewScanner(service, logger, out, asJSON)
}

const inbox = "From,Subject\nbilling@paypal.com,Your receipt\nfriend@example.org,Lunch\n"

func TestScan_Text(t *testing.T) {
	var out bytes.Buffer
	s := newTestScanner(&out, false)

	result, err := s.Scan(context.Background(), "csv", strings.NewReader(inbox))
	require.NoError(t, err)
	assert.Len(t, result.Accounts, 3)
	assert.Equal(t,
		"billing@paypal.com <paypal.com>\nfriend@example.org <example.org>\npaypal <paypal.com>\n",
		out.String())
}

func TestScan_JSON(t *testing.T) {
	var out bytes.Buffer
	s := newTestScanner(&out, true)

	_, err := s.Scan(context.Background(), "csv", strings.NewReader(inbox))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"accounts":["billing@paypal.com <paypal.com>","friend@example.org <example.org>","paypal <paypal.com>"]}`,
		out.String())
}

func TestScan_IgnoredDomain(t *testing.T) {
	var out bytes.Buffer
	s := newTestScanner(&out, false, "example.org")

	result, err := s.Scan(context.Background(), "csv", strings.NewReader(inbox))
	require.NoError(t, err)
	assert.NotContains(t, result.Accounts, "friend@example.org <example.org>")
	assert.NotContains(t, out.String(), "example.org")
}

func TestScan_ParseError(t *testing.T) {
	var out bytes.Buffer
	s := newTestScanner(&out, false)

	_, err := s.Scan(context.Background(), "csv", strings.NewReader("   "))
	assert.ErrorIs(t, err, core.ErrParse)
	assert.Empty(t, out.String())
}

func TestPrint_Sections(t *testing.T) {
	var out bytes.Buffer
	s := NewScanner(nil, zap.NewNop(), &out, false)

	err := s.Print(&core.AnalysisResult{
		Accounts: []string{"a <b.c>"},
		Sections: map[string][]string{"zeta": {"z"}, "alpha": {"x", "y"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a <b.c>\n\n[alpha]\nx\ny\n\n[zeta]\nz\n", out.String())
}

func TestStartStop(t *testing.T) {
	s := NewScanner(nil, zap.NewNop(), &bytes.Buffer{}, false)
	assert.NoError(t, s.Start())
	assert.NoError(t, s.Stop())
}
