package data

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	statePrefix = "oauthstate:"
	stateTTL    = 5 * time.Minute
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// SetOAuthState stores an outbound OAuth state nonce. It expires rather
// than being reusable forever.
func SetOAuthState(ctx context.Context, rdb *redis.Client, state string) error {
	return rdb.Set(ctx, statePrefix+state, "1", stateTTL).Err()
}

// TakeOAuthState consumes a state nonce. A nonce can be taken exactly
// once; a second take (or an expired nonce) returns an error.
func TakeOAuthState(ctx context.Context, rdb *redis.Client, state string) error {
	return rdb.GetDel(ctx, statePrefix+state).Err()
}
