// Package redis implements the user directory on Redis.
//
// Each user is a hash at "user:<id>" with name, email, created_at and
// updated_at fields (timestamps in RFC 3339).
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/directory"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "user:"

// NewClient parses a redis:// URL and verifies the server is reachable.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// UserDirectory implements directory.UserDirectory with Redis hashes.
type UserDirectory struct {
	client goredis.UniversalClient
	logger *slog.Logger
}

// NewUserDirectory creates a Redis-backed directory.
func NewUserDirectory(client goredis.UniversalClient, logger *slog.Logger) *UserDirectory {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserDirectory{
		client: client,
		logger: logger.With(slog.String("component", "redis_user_directory")),
	}
}

var _ directory.UserDirectory = (*UserDirectory)(nil)

func userKey(id string) string {
	return keyPrefix + id
}

// Resolve implements directory.UserDirectory.
func (d *UserDirectory) Resolve(ctx context.Context, id string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	fields, err := d.client.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		log.Error("failed to resolve user",
			slog.String("user_id", id),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("redis lookup for user %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, directory.ErrUserNotFound
	}

	user := &domain.User{
		ID:    id,
		Name:  fields["name"],
		Email: fields["email"],
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339, fields["created_at"])
	user.UpdatedAt, _ = time.Parse(time.RFC3339, fields["updated_at"])
	return user, nil
}

// Seed writes users into Redis, replacing existing records with the same IDs.
func (d *UserDirectory) Seed(ctx context.Context, users []domain.User) error {
	log := logger.FromContextOrDefault(ctx, d.logger)

	_, err := d.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, u := range users {
			if err := u.Validate(); err != nil {
				return err
			}
			key := userKey(u.ID)
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key,
				"name", u.Name,
				"email", u.Email,
				"created_at", u.CreatedAt.UTC().Format(time.RFC3339),
				"updated_at", u.UpdatedAt.UTC().Format(time.RFC3339),
			)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	log.Info("user directory seeded", slog.Int("count", len(users)))
	return nil
}
