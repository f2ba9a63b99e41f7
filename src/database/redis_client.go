package database

import (
	"context"
	"log"

	"Backend-Claim3000/src/config"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client
var RedisCtx = context.Background()

// InitRedis connects to Redis when REDIS_URI is configured. Redis is
// optional: without it the address-lookup cache and the delivery retry
// queue are disabled, everything else keeps working.
func InitRedis() {
	if config.RedisURI == "" {
		log.Println("⚠️ REDIS_URI not set. Lookup cache and retry queue disabled.")
		return
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     config.RedisURI,
		Password: "",
		DB:       0,
	})
	if _, err := RedisClient.Ping(RedisCtx).Result(); err != nil {
		log.Println("⚠️ Failed to connect Redis:", err)
		RedisClient = nil
		return
	}
	log.Println("✅ Redis connected successfully")
}
