package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// OTPEntry is the pending code for one phone. Only the hash is stored.
type OTPEntry struct {
	Hash      string    `json:"hash"`
	ExpiresAt time.Time `json:"expiresAt"`
	Attempts  int       `json:"attempts"`
}

// OTPStore holds at most one live entry per phone.
type OTPStore interface {
	// Put overwrites any entry for phone. keep bounds how long the entry stays readable.
	Put(ctx context.Context, phone string, entry OTPEntry, keep time.Duration) error
	// Take atomically reads and deletes the entry. A missing entry is (nil, nil).
	Take(ctx context.Context, phone string) (*OTPEntry, error)
	// Restore puts the entry back only if no newer entry was written meanwhile.
	Restore(ctx context.Context, phone string, entry OTPEntry, keep time.Duration) (bool, error)
}

type RedisOTPStore struct {
	redis *redis.Client
}

func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{redis: client}
}

func otpKey(phone string) string {
	return fmt.Sprintf("otp:%s", phone)
}

func (s *RedisOTPStore) Put(ctx context.Context, phone string, entry OTPEntry, keep time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, otpKey(phone), data, keep).Err()
}

func (s *RedisOTPStore) Take(ctx context.Context, phone string) (*OTPEntry, error) {
	data, err := s.redis.GetDel(ctx, otpKey(phone)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry OTPEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("corrupt otp entry: %w", err)
	}
	return &entry, nil
}

func (s *RedisOTPStore) Restore(ctx context.Context, phone string, entry OTPEntry, keep time.Duration) (bool, error) {
	if keep <= 0 {
		return false, nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return false, err
	}
	return s.redis.SetNX(ctx, otpKey(phone), data, keep).Result()
}
