package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestSignerRoundTrip(t *testing.T) {
	t.Parallel()

	signer, err := NewSigner(testSecret, "rollcall", time.Hour)
	require.NoError(t, err)

	raw, err := signer.Sign(Claims{
		Subject: "user-1",
		Email:   "alice@example.com",
		Role:    "employee",
		Scopes:  []string{"attendance:write", "profile:read"},
	})
	require.NoError(t, err)

	claims, err := signer.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "employee", claims.Role)
	require.Equal(t, []string{"attendance:write", "profile:read"}, claims.Scopes)
}

func TestSignerRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewSigner([]byte("short"), "rollcall", time.Hour)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	signer, err := NewSigner(testSecret, "rollcall", time.Nanosecond)
	require.NoError(t, err)

	raw, err := signer.Sign(Claims{Subject: "user-1"})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = signer.Verify(raw)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyRejectsForeignIssuerAndSecret(t *testing.T) {
	t.Parallel()

	signer, err := NewSigner(testSecret, "rollcall", time.Hour)
	require.NoError(t, err)

	other, err := NewSigner([]byte("ffffffffffffffffffffffffffffffff"), "rollcall", time.Hour)
	require.NoError(t, err)

	raw, err := other.Sign(Claims{Subject: "user-1"})
	require.NoError(t, err)
	_, err = signer.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer, err := NewSigner(testSecret, "someone-else", time.Hour)
	require.NoError(t, err)
	raw, err = wrongIssuer.Sign(Claims{Subject: "user-1"})
	require.NoError(t, err)
	_, err = signer.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}
