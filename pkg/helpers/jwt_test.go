package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJWTManager_IssueAndVerify(t *testing.T) {
	m := NewJWTManager("super-secret", 2*time.Hour)

	tok, exp, err := m.Issue("user-123", "a@b.io")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), exp, 5*time.Second)

	uid, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", uid)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@b.io", claims.Email)
	assert.NotNil(t, claims.IssuedAt)
}

func TestJWTManager_Expiry(t *testing.T) {
	issuedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewJWTManager("k", 2*time.Hour).WithClock(fixedClock(issuedAt))

	tok, exp, err := m.Issue("u1", "u1@x.io")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(2*time.Hour), exp)

	_, err = m.WithClock(fixedClock(issuedAt.Add(2*time.Hour - time.Second))).Verify(tok)
	assert.NoError(t, err)

	_, err = m.WithClock(fixedClock(issuedAt.Add(2*time.Hour + time.Second))).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	tok, _, err := NewJWTManager("right", time.Hour).Issue("u2", "")
	require.NoError(t, err)

	_, err = NewJWTManager("wrong", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Tampered(t *testing.T) {
	m := NewJWTManager("k", time.Hour)
	tok, _, err := m.Issue("u3", "")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	other, _, err := m.Issue("someone-else", "")
	require.NoError(t, err)
	forged := parts[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]

	_, err = m.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Malformed(t *testing.T) {
	m := NewJWTManager("k", time.Hour)
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestJWTManager_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		UserID: "u4",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTManager("k", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RequiresExpiry(t *testing.T) {
	claims := &Claims{UserID: "u5"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewJWTManager("k", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
