package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, 30*time.Minute, 7*24*time.Hour)

	pair, err := m.Issue(42)
	require.NoError(t, err)
	assert.Equal(t, BearerType, pair.TokenType)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	id, err := m.Parse(pair.AccessToken, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	id, err = m.Parse(pair.RefreshToken, TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestTokenParseErrors(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewTokenManager(testSecret, 30*time.Minute, 7*24*time.Hour).WithClock(fixedClock(issued))

	pair, err := m.Issue(7)
	require.NoError(t, err)

	otherKey := NewTokenManager("ffffffffffffffffffffffffffffffff", time.Minute, time.Minute).WithClock(fixedClock(issued))
	foreign, err := otherKey.Issue(7)
	require.NoError(t, err)

	sign := func(claims jwt.Claims, method jwt.SigningMethod) string {
		s, errSign := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
		require.NoError(t, errSign)

		return s
	}

	exp := jwt.NewNumericDate(issued.Add(time.Hour))

	tests := []struct {
		name  string
		token string
		want  TokenType
		clock time.Time
		err   error
	}{
		{"empty", "", TokenAccess, issued, ErrTokenMissing},
		{"garbage", "not.a.token", TokenAccess, issued, ErrTokenMalformed},
		{"foreign key", foreign.AccessToken, TokenAccess, issued, ErrTokenMalformed},
		{"expired", pair.AccessToken, TokenAccess, issued.Add(31 * time.Minute), ErrTokenExpired},
		{"refresh as access", pair.RefreshToken, TokenAccess, issued, ErrTokenType},
		{"access as refresh", pair.AccessToken, TokenRefresh, issued, ErrTokenType},
		{
			"missing subject",
			sign(Claims{Type: TokenAccess, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}, jwt.SigningMethodHS256),
			TokenAccess, issued, ErrTokenSubject,
		},
		{
			"non numeric subject",
			sign(Claims{Type: TokenAccess, RegisteredClaims: jwt.RegisteredClaims{Subject: "bob", ExpiresAt: exp}}, jwt.SigningMethodHS256),
			TokenAccess, issued, ErrTokenSubject,
		},
		{
			"missing expiry",
			sign(Claims{Type: TokenAccess, RegisteredClaims: jwt.RegisteredClaims{Subject: "7"}}, jwt.SigningMethodHS256),
			TokenAccess, issued, ErrTokenMalformed,
		},
		{
			"other hmac algorithm",
			sign(Claims{Type: TokenAccess, RegisteredClaims: jwt.RegisteredClaims{Subject: "7", ExpiresAt: exp}}, jwt.SigningMethodHS512),
			TokenAccess, issued, ErrTokenMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.WithClock(fixedClock(tt.clock)).Parse(tt.token, tt.want)
			require.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}
