package tokenizer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/rangda/core"
)

func newIssuer(t *testing.T) *JWTIssuer {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return NewJWTIssuer(key, time.Hour).(*JWTIssuer)
}

func testIdentity() *core.Identity {
	return &core.Identity{
		ID:          "id-1",
		Address:     "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		DisplayName: "0x5aae...beaed",
	}
}

func TestSessionRoundTrip(t *testing.T) {
	j := newIssuer(t)
	identity := testIdentity()

	token, err := j.Finalize(identity)
	require.NoError(t, err)

	session, err := j.ValidateSession(token)
	require.NoError(t, err)
	assert.Equal(t, identity.Address, session.Address)
	assert.Equal(t, identity.DisplayName, session.DisplayName)
	assert.NotEmpty(t, session.ID)
	assert.True(t, session.Expiry.After(time.Now()))
}

func TestStepTokenAudienceIsolation(t *testing.T) {
	j := newIssuer(t)
	identity := testIdentity()

	stepToken, err := j.IssueStep(identity, core.StatusNeedsEmail)
	require.NoError(t, err)

	// A step token is not a session token
	_, err = j.ValidateSession(stepToken)
	assert.ErrorIs(t, err, core.ErrInvalidToken)

	// Nor does it authorize a different step
	_, err = j.ValidateStep(stepToken, core.StatusNeedsUsername)
	assert.ErrorIs(t, err, core.ErrInvalidToken)

	session, err := j.ValidateStep(stepToken, core.StatusNeedsEmail)
	require.NoError(t, err)
	assert.Equal(t, identity.Address, session.Address)
}

func TestValidateRejectsForeignToken(t *testing.T) {
	a := newIssuer(t)
	b := newIssuer(t)

	token, err := a.Finalize(testIdentity())
	require.NoError(t, err)

	_, err = b.ValidateSession(token)
	assert.ErrorIs(t, err, core.ErrInvalidToken)

	_, err = a.ValidateSession("not-a-token")
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}
