package redis

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

// InitRedis connects the shared client. The client stays nil when Redis is
// unreachable and callers treat caching as a no-op.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	// Test connection
	if _, err := client.Ping(Ctx).Result(); err != nil {
		log.Printf("Redis unavailable, caching disabled: %v", err)
		return
	}
	Client = client
	fmt.Println("✅ Connected to Redis")
}
