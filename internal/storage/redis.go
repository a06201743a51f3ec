package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	userKeyPrefix = "marathon:user:"
	usersSetKey   = "marathon:users"
)

// RedisStore keeps user records in Redis: one JSON value per order plus a
// set of all order ids. This mirrors the hosted KV layout the production
// deployment uses.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func userKey(orderID string) string {
	return userKeyPrefix + orderID
}

func (s *RedisStore) SaveUser(ctx context.Context, user *User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, userKey(user.OrderID), data, 0).Err(); err != nil {
		return err
	}
	return s.client.SAdd(ctx, usersSetKey, user.OrderID).Err()
}

func (s *RedisStore) GetUser(ctx context.Context, orderID string) (*User, error) {
	data, err := s.client.Get(ctx, userKey(orderID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *RedisStore) UpdateStatus(ctx context.Context, orderID string, status Status) (*User, error) {
	user, err := s.GetUser(ctx, orderID)
	if err != nil {
		return nil, err
	}

	user.Status = status
	if status == StatusPaid {
		user.PaidAt = NowISO()
	}

	if err := s.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *RedisStore) ListUsers(ctx context.Context) ([]User, error) {
	orderIDs, err := s.client.SMembers(ctx, usersSetKey).Result()
	if err != nil {
		return nil, err
	}

	users := make([]User, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		user, err := s.GetUser(ctx, orderID)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt > users[j].CreatedAt
	})
	return users, nil
}

func (s *RedisStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *RedisStore) GetUserByTelegram(ctx context.Context, handle string) (*User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	normalized := NormalizeHandle(handle)
	for i := range users {
		if users[i].Telegram != "" && NormalizeHandle(users[i].Telegram) == normalized {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}
