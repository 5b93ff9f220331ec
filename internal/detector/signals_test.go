package detector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/inbox-account-scanner/internal/core"
)

func TestScoreSubject(t *testing.T) {
	tests := []struct {
		subject string
		signals []Signal
		score   int
	}{
		{"Please verify your email", []Signal{SignalAuthSecurity}, 5},
		{"Password reset requested", []Signal{SignalAuthSecurity}, 5},
		{"Your one-time passcode", nil, 0},
		{"Your one-time pass code", []Signal{SignalAuthSecurity}, 5},
		{"Your OTP is 1234", []Signal{SignalAuthSecurity}, 5},
		{"New sign-in from Chrome", []Signal{SignalAuthSecurity}, 5},
		{"Two-factor authentication enabled", []Signal{SignalAuthSecurity}, 5},
		{"Your receipt from Example Store", []Signal{SignalBillingFinance}, 4},
		{"Order confirmed: #123", []Signal{SignalBillingFinance}, 4},
		{"Your bill is ready", []Signal{SignalBillingFinance}, 4},
		{"Billed monthly", nil, 0},
		{"Your membership renewal", []Signal{SignalSubscription}, 3},
		{"Subscription cancelled", []Signal{SignalSubscription}, 3},
		{"Your trial ends soon", []Signal{SignalSubscription}, 3},
		{"You earned 500 points", []Signal{SignalLoyaltyRewards}, 2},
		{"Gold tier unlocked", []Signal{SignalLoyaltyRewards}, 2},
		{"Your SSL certificate expires", []Signal{SignalHostingCloud}, 2},
		{"Your receipt from Acme Hosting", []Signal{SignalBillingFinance, SignalHostingCloud}, 6},
		{"Welcome! Confirm your subscription payment for cloud storage and earn miles",
			[]Signal{SignalAuthSecurity, SignalBillingFinance, SignalSubscription, SignalLoyaltyRewards, SignalHostingCloud}, 16},
		{"Dinner on Friday?", nil, 0},
		{"", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			signals, score := scoreSubject(tt.subject)
			assert.Equal(t, tt.signals, signals)
			assert.Equal(t, tt.score, score)
		})
	}
}

func TestBaseDomain(t *testing.T) {
	tests := map[string]string{
		"paypal.com":              "paypal.com",
		"mailer.netflix.com":      "netflix.com",
		"Alerts.Chase.COM.":       "chase.com",
		"mail.example.co.uk":      "example.co.uk",
		"news.shop.com.au":        "shop.com.au",
		"notification.intuit.com": "intuit.com",
		"localhost":               "localhost",
		"":                        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, BaseDomain(in), in)
	}
}

func TestExtractDomains(t *testing.T) {
	assert.Equal(t, []string{"b.org", "example.com"},
		extractDomains(`"A" <x@Example.com>, y@b.org, z@example.com`))
	assert.Empty(t, extractDomains("undisclosed-recipients:;"))
}

func TestAggregate_OrderAndFields(t *testing.T) {
	rows := []core.Row{
		{"Date": "2024-01-05", "From": "Netflix <info@mailer.netflix.com>", "Subject": "Your membership renewal"},
		{"Date": "2024-01-03", "From": "PayPal <billing@paypal.com>", "Subject": "Your receipt"},
		{"Date": "2024-01-09", "From": "friend@friends.org", "Subject": "Dinner?"},
		{"Date": "Mon, 05 Feb 2024 10:00:00 +0000", "From": "receipt@stripe.com", "Subject": "Receipt for Acme Hosting"},
		{"Date": "2024-02-03", "From": "PayPal <service@intl.paypal.com>", "Subject": "Your receipt"},
		{"Date": "2024-02-03", "From": "PayPal <service@intl.paypal.com>", "Subject": "Your receipt"},
		{"from": "", "to": "me@localhost", "subject": "Local mail"},
		{"From": "no address here", "Subject": "Your invoice"},
	}

	got := NewSignalDetector(zap.NewNop()).Aggregate(rows)
	require.Len(t, got, 4)

	// the duplicate row scores twice but counts as one message
	paypal := got[0]
	assert.Equal(t, "paypal.com", paypal.BaseDomain)
	assert.Equal(t, "PayPal", paypal.Brand)
	assert.Equal(t, 12, paypal.TotalScore)
	assert.Equal(t, 2, paypal.Messages)
	assert.Equal(t, []Signal{SignalBillingFinance}, paypal.Signals)
	assert.Equal(t, []string{"Your receipt"}, paypal.ExampleSubjects)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), paypal.FirstSeen)
	assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), paypal.LastSeen)

	stripe := got[1]
	assert.Equal(t, "stripe.com", stripe.BaseDomain)
	assert.Equal(t, "stripe.com", stripe.Brand)
	assert.Equal(t, 6, stripe.TotalScore)
	assert.Equal(t, []Signal{SignalBillingFinance, SignalHostingCloud}, stripe.Signals)
	assert.True(t, stripe.FirstSeen.Equal(time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC)))

	assert.Equal(t, "netflix.com", got[2].BaseDomain)
	assert.Equal(t, "Netflix", got[2].Brand)
	assert.Equal(t, 3, got[2].TotalScore)

	assert.Equal(t, "friends.org", got[3].BaseDomain)
	assert.Equal(t, 0, got[3].TotalScore)
	assert.Empty(t, got[3].Signals)
}

func TestAggregate_TiesKeepMessageCountThenFirstAppearance(t *testing.T) {
	rows := []core.Row{
		{"From": "a@first.io", "Subject": "Your invoice"},
		{"From": "a@second.io", "Subject": "Your invoice"},
		{"From": "a@third.io", "Subject": "invoice 1"},
		{"From": "a@third.io", "Subject": "hello"},
	}

	got := NewSignalDetector(zap.NewNop()).Aggregate(rows)
	require.Len(t, got, 3)
	assert.Equal(t, "third.io", got[0].BaseDomain)
	assert.Equal(t, "first.io", got[1].BaseDomain)
	assert.Equal(t, "second.io", got[2].BaseDomain)
}

func TestAggregate_FallsBackToRecipients(t *testing.T) {
	rows := []core.Row{{"From": "Mailer Daemon", "To": "me@corp.example.com", "Subject": "Security alert"}}

	got := NewSignalDetector(zap.NewNop()).Aggregate(rows)
	require.Len(t, got, 1)
	assert.Equal(t, "example.com", got[0].BaseDomain)
	assert.Equal(t, 5, got[0].TotalScore)
	assert.True(t, got[0].FirstSeen.IsZero())
}

func TestAggregate_LimitsExampleSubjects(t *testing.T) {
	var rows []core.Row
	for _, subj := range []string{"a", "b", "a", "c", "d", "e", "f"} {
		rows = append(rows, core.Row{"From": "x@shop.com", "Subject": subj})
	}

	got := NewSignalDetector(zap.NewNop()).Aggregate(rows)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got[0].ExampleSubjects)
	assert.Equal(t, 6, got[0].Messages)
}

func TestSignalDetector_Detect(t *testing.T) {
	d := NewSignalDetector(zap.NewNop())
	assert.Equal(t, SignalsSection, d.Name())
	assert.True(t, d.Ranked())

	lines := d.Detect([]core.Row{
		{"Date": "2024-01-03", "From": "billing@paypal.com", "Subject": "Your receipt"},
		{"From": "hi@gymfit.io", "Subject": "Class schedule"},
	})
	assert.Equal(t, []string{
		`PayPal <paypal.com> score=4 messages=1 signals=billing_finance first_seen=2024-01-03 last_seen=2024-01-03 subjects="Your receipt"`,
		`gymfit.io <gymfit.io> score=0 messages=1 signals=none first_seen=- last_seen=- subjects="Class schedule"`,
	}, lines)
}
