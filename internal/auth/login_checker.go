package auth

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/trainlog/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

func (c *LoginChecker) IsLogged(ctx context.Context, token string) (_ int, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.is_logged")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cmd := c.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}

	userID, createdAt, err := decodeSession(cmd.Val())
	if err != nil {
		return 0, false, err
	}

	if time.Since(createdAt) > c.ttl {
		return 0, false, nil
	}

	return userID, true, nil
}
