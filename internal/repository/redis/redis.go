package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"myCourseCompass/domain"

	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("token not found or expired")

type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func sessionKey(userID string) string {
	return fmt.Sprintf("token:user:%s", userID)
}

func lookupKey(token string) string {
	return fmt.Sprintf("token:lookup:%s", token)
}

// StoreToken keeps one active session per user plus a token -> user lookup.
// A previous session of the same user is revoked.
func (r *TokenRepository) StoreToken(ctx context.Context, userID, token string, session domain.TokenSession, ttl time.Duration) error {
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}

	previous, err := r.GetTokenData(ctx, userID)
	if err != nil && !errors.Is(err, ErrTokenNotFound) {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previous != nil && previous.Token != token {
			pipe.Del(ctx, lookupKey(previous.Token))
		}
		pipe.Set(ctx, sessionKey(userID), jsonData, ttl)
		pipe.Set(ctx, lookupKey(token), userID, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store token in Redis: %w", err)
	}

	return nil
}

// GetTokenData retrieve token data by user ID
func (r *TokenRepository) GetTokenData(ctx context.Context, userID string) (*domain.TokenSession, error) {
	val, err := r.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token from Redis: %w", err)
	}

	var session domain.TokenSession
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token data: %w", err)
	}

	return &session, nil
}

// ValidateToken checks if a token exists and is valid
func (r *TokenRepository) ValidateToken(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, lookupKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to validate token: %w", err)
	}

	return userID, nil
}

// DeleteToken revokes a token. The user's session entry goes too when it
// still points at this token.
func (r *TokenRepository) DeleteToken(ctx context.Context, userID, token string) error {
	session, err := r.GetTokenData(ctx, userID)
	if err != nil && !errors.Is(err, ErrTokenNotFound) {
		return err
	}

	keys := []string{lookupKey(token)}
	if session != nil && session.Token == token {
		keys = append(keys, sessionKey(userID))
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	return nil
}

// RefreshTokenTTL extends the token expiration time
func (r *TokenRepository) RefreshTokenTTL(ctx context.Context, userID string, newTTL time.Duration) error {
	session, err := r.GetTokenData(ctx, userID)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Expire(ctx, sessionKey(userID), newTTL)
		pipe.Expire(ctx, lookupKey(session.Token), newTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to refresh token TTL: %w", err)
	}

	return nil
}
