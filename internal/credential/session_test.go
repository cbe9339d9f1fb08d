package credential

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp *time.Time) string {
	t.Helper()
	claims := Claims{TokenType: "access", UserID: 42}
	if exp != nil {
		claims.ExpiresAt = jwtlib.NewNumericDate(*exp)
	}
	s, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return s
}

func TestParseClaims(t *testing.T) {
	exp := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	claims, err := ParseClaims(signedToken(t, &exp))
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
	assert.EqualValues(t, 42, claims.UserID)
	assert.True(t, exp.Equal(claims.ExpiresAt.Time))
}

func TestParseClaims_Garbage(t *testing.T) {
	_, err := ParseClaims("not-a-jwt")
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	got, ok := TokenExpiry(signedToken(t, &exp))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = TokenExpiry(signedToken(t, nil))
	assert.False(t, ok)
}

func TestLoggedIn(t *testing.T) {
	now := time.Date(2024, time.April, 20, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert.False(t, LoggedIn("", now))
	assert.True(t, LoggedIn(signedToken(t, &future), now))
	assert.False(t, LoggedIn(signedToken(t, &past), now))
	assert.True(t, LoggedIn(signedToken(t, nil), now))
	assert.True(t, LoggedIn("opaque-token", now))
}
