package eth

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey)

	message := []byte("example.com wants you to sign in")
	sig, err := crypto.Sign(PersonalHash(message), key)
	require.NoError(t, err)

	got, err := RecoverAddress(message, sig)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Legacy 27/28 v values must recover identically
	legacy := make([]byte, len(sig))
	copy(legacy, sig)
	legacy[64] += 27

	got, err = RecoverAddress(message, legacy)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRecoverAddressBothRecoveryIDs(t *testing.T) {
	// Sign with fresh keys until both recovery ids have been exercised
	seen := map[byte]bool{}
	message := []byte("recovery id coverage")

	for i := 0; i < 128 && (!seen[0] || !seen[1]); i++ {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)

		sig, err := crypto.Sign(PersonalHash(message), key)
		require.NoError(t, err)
		seen[sig[64]] = true

		got, err := RecoverAddress(message, sig)
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), got)
	}

	assert.True(t, seen[0], "recovery id 0 never produced")
	assert.True(t, seen[1], "recovery id 1 never produced")
}

func TestRecoverAddressRejectsBadInput(t *testing.T) {
	message := []byte("hello")

	_, err := RecoverAddress(message, make([]byte, 64))
	assert.ErrorIs(t, err, ErrRecoveryFailed)

	sig := make([]byte, 65)
	sig[64] = 4 // recovery id out of range
	_, err = RecoverAddress(message, sig)
	assert.ErrorIs(t, err, ErrRecoveryFailed)
}

func TestVerifyPersonalSignature(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	message := []byte("sign me")
	sig, err := crypto.Sign(PersonalHash(message), key)
	require.NoError(t, err)

	assert.NoError(t, VerifyPersonalSignature(message, sig, addr))

	other := common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	assert.ErrorIs(t, VerifyPersonalSignature(message, sig, other), ErrAddressMismatch)

	// Tampered message recovers some other address
	assert.Error(t, VerifyPersonalSignature([]byte("sign mE"), sig, addr))
}

func TestChecksumAddress(t *testing.T) {
	// Reference vectors from the checksum encoding proposal
	vectors := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}

	for _, want := range vectors {
		got, err := ChecksumAddress(strings.ToLower(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)

		// Idempotent regardless of input casing
		again, err := ChecksumAddress(got)
		require.NoError(t, err)
		assert.Equal(t, want, again)
	}
}

func TestChecksumAddressRejectsMalformed(t *testing.T) {
	_, err := ChecksumAddress("0x1234")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = ChecksumAddress("0xzz6916095ca1df60bb79ce92ce3ea74c37c5d359")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestNormalizeAddress(t *testing.T) {
	addr := common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	assert.Equal(t, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", NormalizeAddress(addr))
}
