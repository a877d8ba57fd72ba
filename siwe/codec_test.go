package siwe

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/rangda/core"
)

const testAddress = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func fullMessage() string {
	return strings.Join([]string{
		"example.com wants you to sign in with your Ethereum account:",
		testAddress,
		"",
		"I accept the Terms of Service.",
		"",
		"URI: https://example.com/login",
		"Version: 1",
		"Chain ID: 1",
		"Nonce: 32891756",
		"Issued At: 2026-08-30T16:25:24Z",
		"Expiration Time: 2026-08-30T16:35:24Z",
		"Not Before: 2026-08-30T16:20:24Z",
		"Request ID: req-123",
		"Resources:",
		"- ipfs://bafybeiemxf5abjwjbikoz4mc3a3dla6ual3jsgpdr4cjr3oz3evfyavhwq",
		"- name:alice.eth",
	}, "\n")
}

func TestParseFullMessage(t *testing.T) {
	msg, err := Parse(fullMessage())
	require.NoError(t, err)

	assert.Equal(t, "example.com", msg.Domain)
	assert.Equal(t, testAddress, msg.Address.Hex())
	assert.Equal(t, "I accept the Terms of Service.", msg.Statement)
	assert.Equal(t, "https://example.com/login", msg.URI)
	assert.Equal(t, "1", msg.Version)
	assert.Equal(t, uint64(1), msg.ChainID)
	assert.Equal(t, "32891756", msg.Nonce)
	assert.Equal(t, time.Date(2026, 8, 30, 16, 25, 24, 0, time.UTC), msg.IssuedAt.UTC())
	require.NotNil(t, msg.ExpirationTime)
	require.NotNil(t, msg.NotBefore)
	assert.Equal(t, "req-123", msg.RequestID)
	assert.Len(t, msg.Resources, 2)

	claim, ok := msg.NameClaim()
	assert.True(t, ok)
	assert.Equal(t, "alice.eth", claim)
}

func TestParseMinimalMessage(t *testing.T) {
	text := strings.Join([]string{
		"example.com wants you to sign in with your Ethereum account:",
		testAddress,
		"",
		"URI: https://example.com",
		"Version: 1",
		"Chain ID: 1",
		"Nonce: abcd1234",
		"Issued At: 2026-08-30T16:25:24Z",
	}, "\n")

	msg, err := Parse(text)
	require.NoError(t, err)
	assert.Empty(t, msg.Statement)
	assert.Empty(t, msg.Resources)

	_, ok := msg.NameClaim()
	assert.False(t, ok)
}

func TestParseNormalizesAddressCasing(t *testing.T) {
	text := strings.Replace(fullMessage(), testAddress, strings.ToLower(testAddress), 1)

	msg, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, testAddress, msg.Address.Hex())
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"bad header":      "please sign in\n" + testAddress,
		"bad address":     "example.com wants you to sign in with your Ethereum account:\n0x1234\n\nURI: x",
		"bad chain id":    strings.Replace(fullMessage(), "Chain ID: 1", "Chain ID: one", 1),
		"bad issued at":   strings.Replace(fullMessage(), "Issued At: 2026-08-30T16:25:24Z", "Issued At: yesterday", 1),
		"bad resource":    strings.Replace(fullMessage(), "- ipfs", "* ipfs", 1),
		"unexpected line": strings.Replace(fullMessage(), "Version: 1", "Flavor: mint", 1),
		"missing nonce":   strings.Replace(fullMessage(), "Nonce: 32891756\n", "", 1),
	}

	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(text)
			assert.ErrorIs(t, err, core.ErrMalformedMessage)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for name, text := range map[string]string{
		"full": fullMessage(),
		"minimal": strings.Join([]string{
			"example.com wants you to sign in with your Ethereum account:",
			testAddress,
			"",
			"URI: https://example.com",
			"Version: 1",
			"Chain ID: 137",
			"Nonce: abcd1234",
			"Issued At: 2026-08-30T16:25:24Z",
		}, "\n"),
	} {
		t.Run(name, func(t *testing.T) {
			msg, err := Parse(text)
			require.NoError(t, err)
			assert.Equal(t, text, Serialize(msg))
		})
	}
}
