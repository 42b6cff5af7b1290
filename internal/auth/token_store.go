package auth

import (
	"context"
	"time"

	"cartify/internal/cache"
)

const accessTokenKeyPrefix = "denylist:access_token:"

// TokenStoreInterface defines the interface for the access token deny list.
type TokenStoreInterface interface {
	DenyAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenDenied(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore keeps revoked access token ids in Redis until they expire.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// DenyAccessToken adds an access token id to the deny list until it expires.
func (s *TokenStore) DenyAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, accessTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsAccessTokenDenied checks if an access token was revoked. Redis outages
// read as "not denied".
func (s *TokenStore) IsAccessTokenDenied(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	data, err := s.cache.Get(ctx, accessTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil
	}
	return data != nil, nil
}
