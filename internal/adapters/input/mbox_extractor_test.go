package input

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/inbox-account-scanner/internal/core"
	"github.com/mikey/inbox-account-scanner/internal/utils"
)

func newMbox() *MboxExtractor {
	return NewMboxExtractor(utils.NewTextProcessor(zap.NewNop()))
}

const sampleMbox = `From billing@paypal.com Mon Jan  1 00:00:00 2024
From: PayPal <billing@paypal.com>
To: me@example.com
Subject: Your receipt
Date: Mon, 1 Jan 2024 00:00:00 +0000

Thanks for your payment.
>From the team

From news@shop.example Tue Jan  2 00:00:00 2024
From: =?UTF-8?Q?Caf=C3=A9_Shop?= <news@shop.example>
Subject: =?UTF-8?B?V2Vla2x5IGRlYWxz?=

Deals inside.
`

func TestMboxExtractor_Extract(t *testing.T) {
	rows, err := newMbox().Extract(strings.NewReader(sampleMbox))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "PayPal <billing@paypal.com>", rows[0]["From"])
	assert.Equal(t, "Your receipt", rows[0]["Subject"])
	assert.Equal(t, "me@example.com", rows[0]["To"])
	assert.NotEmpty(t, rows[0]["Date"])

	assert.Equal(t, "Café Shop <news@shop.example>", rows[1]["From"])
	assert.Equal(t, "Weekly deals", rows[1]["Subject"])
	_, ok := rows[1]["To"]
	assert.False(t, ok)
}

func TestMboxExtractor_SingleMessage(t *testing.T) {
	eml := "From: Stripe <receipt@stripe.com>\r\nSubject: Your receipt\r\n\r\nBody\r\n"

	rows, err := newMbox().Extract(strings.NewReader(eml))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Stripe <receipt@stripe.com>", rows[0]["From"])
}

func TestMboxExtractor_NoMessages(t *testing.T) {
	for _, in := range []string{"", "not a mail message at all"} {
		_, err := newMbox().Extract(strings.NewReader(in))
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrParse)
	}
}

func TestSplitMbox(t *testing.T) {
	blocks := splitMbox("From a\nSubject: one\n\nbody\nFrom b\nSubject: two\n\n")
	require.Len(t, blocks, 2)
	assert.True(t, strings.HasPrefix(blocks[0], "Subject: one"))
	assert.True(t, strings.HasPrefix(blocks[1], "Subject: two"))
}
