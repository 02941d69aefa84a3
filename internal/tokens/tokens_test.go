package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func TestSign_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	token, err := Sign("alice", "admin", testSecret, 30*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ClaimsFromToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 2*time.Second)
}

func TestSign_FreshJTIPerCall(t *testing.T) {
	t.Parallel()

	t1, err := Sign("alice", "user", testSecret, time.Minute)
	require.NoError(t, err)
	t2, err := Sign("alice", "user", testSecret, time.Minute)
	require.NoError(t, err)

	c1, err := ClaimsFromToken(t1, testSecret)
	require.NoError(t, err)
	c2, err := ClaimsFromToken(t2, testSecret)
	require.NoError(t, err)

	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestClaimsFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := Sign("alice", "user", testSecret, time.Minute)
	require.NoError(t, err)

	claims, err := ClaimsFromToken(token, []byte("other-secret"))
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestClaimsFromToken_Expired(t *testing.T) {
	t.Parallel()

	token, err := Sign("alice", "user", testSecret, -time.Minute)
	require.NoError(t, err)

	claims, err := ClaimsFromToken(token, testSecret)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestClaimsFromToken_Malformed(t *testing.T) {
	t.Parallel()

	claims, err := ClaimsFromToken("not-a-jwt", testSecret)
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestClaimsFromToken_RejectsUnexpectedAlg(t *testing.T) {
	t.Parallel()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			ID:        NewJTI(),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	claims, err := ClaimsFromToken(token, testSecret)
	require.Error(t, err)
	assert.Nil(t, claims)
}
