package database

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/rideghana/backend/internal/config"
)

// InitRedis connects to Redis. The OTP store lives there, so unlike a cache a failed
// ping is fatal to the caller.
func InitRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	log.Println("Redis connection established")
	return rdb, nil
}
