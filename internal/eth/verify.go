// Package eth implements personal-message signature recovery and EIP-55
// checksum address encoding on top of go-ethereum's secp256k1 primitives.
package eth

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// personalPrefix is the EIP-191 prefix prepended before hashing. The hash
// function is legacy Keccak-256, not the padded NIST SHA3 variant; the two
// produce different digests and only Keccak yields correct addresses.
const personalPrefix = "\x19Ethereum Signed Message:\n"

const signatureLength = 65

// PersonalHash returns the Keccak-256 digest of the message wrapped with the
// personal-sign prefix and the decimal byte length of the message.
func PersonalHash(message []byte) []byte {
	prefixed := append([]byte(personalPrefix+strconv.Itoa(len(message))), message...)
	return crypto.Keccak256(prefixed)
}

// RecoverAddress recovers the address that produced signature over the
// personal-sign hash of message. The signature is the 65-byte r || s || v
// layout; v may be 0/1 or the legacy 27/28.
func RecoverAddress(message, signature []byte) (common.Address, error) {
	if len(signature) != signatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d: %w",
			signatureLength, len(signature), ErrRecoveryFailed)
	}

	// Normalize v to a recovery id; anything outside {0,1,2,3} is rejected
	sig := make([]byte, signatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 3 {
		return common.Address{}, fmt.Errorf("recovery id %d out of range: %w", sig[64], ErrRecoveryFailed)
	}

	digest := PersonalHash(message)

	pubKey, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("public key recovery: %w", ErrRecoveryFailed)
	}

	// Address is the last 20 bytes of Keccak over the uncompressed key with
	// its format byte dropped
	pubBytes := crypto.FromECDSAPub(pubKey)
	hashed := crypto.Keccak256(pubBytes[1:])

	var addr common.Address
	copy(addr[:], hashed[12:])
	return addr, nil
}

// VerifyPersonalSignature recovers the signer of message and compares it to
// the claimed address, case-insensitively.
func VerifyPersonalSignature(message, signature []byte, claimed common.Address) error {
	recovered, err := RecoverAddress(message, signature)
	if err != nil {
		return err
	}
	if !bytes.Equal(recovered[:], claimed[:]) {
		return ErrAddressMismatch
	}
	return nil
}

// ChecksumAddress applies EIP-55 casing to a hex address: each hex digit is
// uppercased when the corresponding nibble of the Keccak hash of the
// lowercase ASCII address is >= 8. The result is deterministic and
// idempotent.
func ChecksumAddress(address string) (string, error) {
	hexPart := strings.TrimPrefix(strings.ToLower(address), "0x")
	if len(hexPart) != common.AddressLength*2 {
		return "", fmt.Errorf("address must be %d hex characters: %w", common.AddressLength*2, ErrInvalidAddress)
	}
	hash := crypto.Keccak256([]byte(hexPart))

	out := make([]byte, len(hexPart))
	for i := 0; i < len(hexPart); i++ {
		c := hexPart[i]
		switch {
		case c >= '0' && c <= '9':
			out[i] = c
		case c >= 'a' && c <= 'f':
			nibble := hash[i/2]
			if i%2 == 0 {
				nibble >>= 4
			}
			if nibble&0x0f >= 8 {
				c -= 'a' - 'A'
			}
			out[i] = c
		default:
			return "", fmt.Errorf("invalid hex character %q: %w", c, ErrInvalidAddress)
		}
	}

	return "0x" + string(out), nil
}

// NormalizeAddress returns the canonical lowercase hex form used as the
// identity lookup key
func NormalizeAddress(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}
