package services

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru"

	"github.com/recipebox/recipebox/database/models"
	"github.com/recipebox/recipebox/database/repositories"
)

// ErrInvalidToken is returned for unknown, revoked, or deactivated-user
// tokens.
var ErrInvalidToken = errors.New("invalid authentication token")

const defaultTokenCacheSize = 1024

// TokenService issues login tokens and resolves them back to users, with an
// LRU cache in front of the token table so the hot path skips the database.
type TokenService struct {
	tokens repositories.TokenRepository
	users  repositories.UserRepository
	cache  *lru.Cache
}

func NewTokenService(tokens repositories.TokenRepository, users repositories.UserRepository, cacheSize int) *TokenService {
	if cacheSize <= 0 {
		cacheSize = defaultTokenCacheSize
	}
	cache, _ := lru.New(cacheSize)
	return &TokenService{
		tokens: tokens,
		users:  users,
		cache:  cache,
	}
}

// Login authenticates the credentials and issues a fresh token.
func (s *TokenService) Login(ctx context.Context, email, password string) (*models.AuthToken, *models.User, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	token, err := s.tokens.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	s.cache.Add(token.Key, user)
	return token, user, nil
}

// Resolve maps a token key to its user. The cached entry carries identity
// only; handlers needing fresh profile fields reload by id.
func (s *TokenService) Resolve(ctx context.Context, key string) (*models.User, error) {
	if key == "" {
		return nil, ErrInvalidToken
	}

	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.User), nil
	}

	token, err := s.tokens.GetByKey(ctx, key)
	if err != nil {
		var nfe *repositories.NotFoundError
		if errors.As(err, &nfe) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if token.User == nil || !token.User.IsActive {
		return nil, ErrInvalidToken
	}

	s.cache.Add(key, token.User)
	return token.User, nil
}

// Revoke invalidates a token everywhere.
func (s *TokenService) Revoke(ctx context.Context, key string) error {
	s.cache.Remove(key)
	return s.tokens.Delete(ctx, key)
}
