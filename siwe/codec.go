// Package siwe parses and serializes the plain-text sign-in message format
// signed by wallets.
package siwe

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/internal/eth"
)

const (
	headerSuffix   = " wants you to sign in with your Ethereum account:"
	uriPrefix      = "URI: "
	versionPrefix  = "Version: "
	chainIDPrefix  = "Chain ID: "
	noncePrefix    = "Nonce: "
	issuedAtPrefix = "Issued At: "
	expiryPrefix   = "Expiration Time: "
	nbfPrefix      = "Not Before: "
	reqIDPrefix    = "Request ID: "
	resourcesLine  = "Resources:"
	resourceMarker = "- "
)

// Parse decodes the textual sign-in message into a structured record. The
// statement block and the resources block may both be absent. The address
// token is checksum-normalized so downstream comparisons are consistent.
func Parse(text string) (*core.Message, error) {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("message too short: %w", core.ErrMalformedMessage)
	}

	domain, ok := strings.CutSuffix(lines[0], headerSuffix)
	if !ok || domain == "" {
		return nil, fmt.Errorf("bad header line: %w", core.ErrMalformedMessage)
	}

	checksummed, err := eth.ChecksumAddress(lines[1])
	if err != nil {
		return nil, fmt.Errorf("bad address line: %w", core.ErrMalformedMessage)
	}

	msg := &core.Message{
		Domain:  domain,
		Address: common.HexToAddress(checksummed),
	}

	// An optional statement sits between two blank lines before the field block
	i := 2
	if i < len(lines) && lines[i] != "" {
		return nil, fmt.Errorf("missing separator after address: %w", core.ErrMalformedMessage)
	}
	i++
	if i < len(lines) && !strings.HasPrefix(lines[i], uriPrefix) {
		var stmt []string
		for ; i < len(lines) && lines[i] != ""; i++ {
			stmt = append(stmt, lines[i])
		}
		msg.Statement = strings.Join(stmt, "\n")
		i++ // blank line terminating the statement
	}

	inResources := false
	for ; i < len(lines); i++ {
		line := lines[i]
		if inResources {
			rest, ok := strings.CutPrefix(line, resourceMarker)
			if !ok {
				return nil, fmt.Errorf("bad resource line %q: %w", line, core.ErrMalformedMessage)
			}
			msg.Resources = append(msg.Resources, rest)
			continue
		}

		switch {
		case strings.HasPrefix(line, uriPrefix):
			msg.URI = line[len(uriPrefix):]
		case strings.HasPrefix(line, versionPrefix):
			msg.Version = line[len(versionPrefix):]
		case strings.HasPrefix(line, chainIDPrefix):
			id, err := strconv.ParseUint(line[len(chainIDPrefix):], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad chain id: %w", core.ErrMalformedMessage)
			}
			msg.ChainID = id
		case strings.HasPrefix(line, noncePrefix):
			msg.Nonce = line[len(noncePrefix):]
		case strings.HasPrefix(line, issuedAtPrefix):
			ts, err := time.Parse(time.RFC3339, line[len(issuedAtPrefix):])
			if err != nil {
				return nil, fmt.Errorf("bad issued-at: %w", core.ErrMalformedMessage)
			}
			msg.IssuedAt = ts
		case strings.HasPrefix(line, expiryPrefix):
			ts, err := time.Parse(time.RFC3339, line[len(expiryPrefix):])
			if err != nil {
				return nil, fmt.Errorf("bad expiration time: %w", core.ErrMalformedMessage)
			}
			msg.ExpirationTime = &ts
		case strings.HasPrefix(line, nbfPrefix):
			ts, err := time.Parse(time.RFC3339, line[len(nbfPrefix):])
			if err != nil {
				return nil, fmt.Errorf("bad not-before: %w", core.ErrMalformedMessage)
			}
			msg.NotBefore = &ts
		case strings.HasPrefix(line, reqIDPrefix):
			msg.RequestID = line[len(reqIDPrefix):]
		case line == resourcesLine:
			inResources = true
		default:
			return nil, fmt.Errorf("unexpected line %q: %w", line, core.ErrMalformedMessage)
		}
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return msg, nil
}

// Serialize renders the message in the canonical text layout. Serializing a
// parsed message reproduces the original bytes.
func Serialize(msg *core.Message) string {
	var b strings.Builder

	b.WriteString(msg.Domain + headerSuffix + "\n")
	b.WriteString(msg.Address.Hex() + "\n") // Hex applies checksum casing
	b.WriteString("\n")
	if msg.Statement != "" {
		b.WriteString(msg.Statement + "\n\n")
	}
	b.WriteString(uriPrefix + msg.URI + "\n")
	b.WriteString(versionPrefix + msg.Version + "\n")
	b.WriteString(chainIDPrefix + strconv.FormatUint(msg.ChainID, 10) + "\n")
	b.WriteString(noncePrefix + msg.Nonce + "\n")
	b.WriteString(issuedAtPrefix + msg.IssuedAt.Format(time.RFC3339))
	if msg.ExpirationTime != nil {
		b.WriteString("\n" + expiryPrefix + msg.ExpirationTime.Format(time.RFC3339))
	}
	if msg.NotBefore != nil {
		b.WriteString("\n" + nbfPrefix + msg.NotBefore.Format(time.RFC3339))
	}
	if msg.RequestID != "" {
		b.WriteString("\n" + reqIDPrefix + msg.RequestID)
	}
	if len(msg.Resources) > 0 {
		b.WriteString("\n" + resourcesLine)
		for _, r := range msg.Resources {
			b.WriteString("\n" + resourceMarker + r)
		}
	}

	return b.String()
}
