package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"sonora/blueprint"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator checks a username and password pair. It issues nothing; the caller decides where
// to go next.
type Authenticator interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// Registrar creates accounts. Only some authenticators support it.
type Registrar interface {
	Register(ctx context.Context, username, email, password string) error
}

// StaticAuthenticator accepts the one configured credential pair. With no pair configured it
// accepts nothing.
type StaticAuthenticator struct {
	Username string
	Password string
}

func (s *StaticAuthenticator) Verify(_ context.Context, username, password string) (bool, error) {
	if s.Username == "" || s.Password == "" {
		return false, nil
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.Password)) == 1
	return userOK && passOK, nil
}

const userKeyPrefix = "sonora:user:"

// RedisAuthenticator keeps bcrypt hashed credentials in redis, one hash per user
type RedisAuthenticator struct {
	Redis  *redis.Client
	Logger *zap.Logger
}

func NewRedisAuthenticator(client *redis.Client, logger *zap.Logger) *RedisAuthenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisAuthenticator{Redis: client, Logger: logger}
}

func userKey(username string) string {
	return userKeyPrefix + strings.ToLower(strings.TrimSpace(username))
}

func (r *RedisAuthenticator) Verify(ctx context.Context, username, password string) (bool, error) {
	hash, err := r.Redis.HGet(ctx, userKey(username), "password").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.Logger.Error("[services][auth][Verify] error - could not read user from redis", zap.Error(err))
		return false, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return false, nil
	}
	return true, nil
}

// Register stores a new user. A taken username is EUSEREXISTS.
func (r *RedisAuthenticator) Register(ctx context.Context, username, email, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return fmt.Errorf("username and password are required: %w", blueprint.EINVALIDCREDENTIALS)
	}
	hashedPass, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		r.Logger.Error("[services][auth][Register] error - could not hash password", zap.Error(err))
		return err
	}

	key := userKey(username)
	created, err := r.Redis.HSetNX(ctx, key, "password", string(hashedPass)).Result()
	if err != nil {
		r.Logger.Error("[services][auth][Register] error - could not save user to redis", zap.Error(err))
		return err
	}
	if !created {
		return blueprint.EUSEREXISTS
	}
	if err := r.Redis.HSet(ctx, key, "email", email, "username", username).Err(); err != nil {
		r.Logger.Error("[services][auth][Register] error - could not save user profile to redis", zap.Error(err))
		// the username is claimed, drop it so a retry can register it whole
		if dErr := r.Redis.Del(context.WithoutCancel(ctx), key).Err(); dErr != nil {
			r.Logger.Error("[services][auth][Register] error - could not drop the partial user", zap.String("key", key), zap.Error(dErr))
		}
		return err
	}
	return nil
}
