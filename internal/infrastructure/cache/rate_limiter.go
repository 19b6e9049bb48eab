package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter はRedisベースのスライディングウィンドウ方式レート制限を提供します
type RateLimiter struct {
	client *RedisClient
}

// NewRateLimiter は新しいRateLimiterを作成します
func NewRateLimiter(client *RedisClient) *RateLimiter {
	return &RateLimiter{client: client}
}

// RateLimitResult はレート制限チェックの結果を表します
type RateLimitResult struct {
	Allowed    bool          // リクエストが許可されたか
	Remaining  int64         // 残りリクエスト数
	RetryAfter time.Duration // 次に試行可能になるまでの時間
}

// スライディングウィンドウ方式のレート制限スクリプト。
// 古いエントリの削除、カウント、追加をアトミックに実行します。
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)
if count < limit then
    redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
    redis.call('PEXPIRE', key, window)
    return {1, limit - count - 1}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local retry_after = 0
if #oldest > 0 then
    retry_after = tonumber(oldest[2]) + window - now
end
return {0, 0, retry_after}
`)

// Allow は指定されたスコープと識別子に対するリクエストを許可するか判定します
func (r *RateLimiter) Allow(ctx context.Context, scope, identifier string, limit int64, window time.Duration) (*RateLimitResult, error) {
	key := RateLimitKey(scope, identifier)
	now := time.Now().UnixMilli()

	res, err := rateLimitScript.Run(ctx, r.client.Client(), []string{key},
		now, window.Milliseconds(), limit).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run rate limit script: %w", err)
	}

	allowed := res[0].(int64) == 1
	result := &RateLimitResult{
		Allowed:   allowed,
		Remaining: res[1].(int64),
	}

	if !allowed && len(res) > 2 {
		if ms, ok := res[2].(int64); ok && ms > 0 {
			result.RetryAfter = time.Duration(ms) * time.Millisecond
		}
	}

	return result, nil
}
