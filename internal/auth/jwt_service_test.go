package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartify/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "a@x.com",
		Role:     model.RoleUser,
	}
}

func TestJWTService_IssueAndParse(t *testing.T) {
	svc := NewJWTService("access-secret", "refresh-secret", time.Minute, time.Hour)
	user := testUser()

	pair, err := svc.IssuePair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEmpty(t, pair.AccessTokenID)

	access, err := svc.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), access.UserID)
	assert.Equal(t, "user", access.Role)
	assert.Equal(t, "a@x.com", access.Email)
	assert.Equal(t, "alice", access.Username)
	assert.Equal(t, pair.AccessTokenID, access.ID)

	refresh, err := svc.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), refresh.UserID)
}

func TestJWTService_SecretsAreNotInterchangeable(t *testing.T) {
	svc := NewJWTService("access-secret", "refresh-secret", time.Minute, time.Hour)
	pair, err := svc.IssuePair(testUser())
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(pair.RefreshToken)
	assert.Error(t, err)

	_, err = svc.ParseRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("access-secret", "refresh-secret", time.Minute, time.Hour)
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }
	pair, err := svc.IssuePair(testUser())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = svc.ParseRefreshToken(pair.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_PairsAreUnique(t *testing.T) {
	svc := NewJWTService("access-secret", "refresh-secret", time.Minute, time.Hour)
	user := testUser()

	first, err := svc.IssuePair(user)
	require.NoError(t, err)
	second, err := svc.IssuePair(user)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, HashToken(first.RefreshToken), HashToken(second.RefreshToken))
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewJWTService("access-secret", "refresh-secret", time.Minute, time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, &AccessClaims{UserID: uuid.NewString()})
	signed, err := token.SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(signed)
	assert.Error(t, err)
}

func TestHashToken(t *testing.T) {
	assert.Len(t, HashToken("abc"), 64)
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
}
