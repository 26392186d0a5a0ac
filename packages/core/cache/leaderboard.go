package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "league:leaderboard:rating"

// Entry is one player's cached rating.
type Entry struct {
	PlayerID uint    `json:"player_id"`
	Rating   float64 `json:"rating"`
}

// Leaderboard is a read-side copy of active player ratings. The database stays
// authoritative; the cache only serves fast top-N reads.
type Leaderboard interface {
	SetRatings(ctx context.Context, ratings map[uint]float64) error
	Remove(ctx context.Context, playerID uint) error
	Replace(ctx context.Context, ratings map[uint]float64) error
	Top(ctx context.Context, limit int64) ([]Entry, error)
}

type RedisLeaderboard struct {
	client *Client
}

func NewRedisLeaderboard(client *Client) *RedisLeaderboard {
	return &RedisLeaderboard{client: client}
}

func member(playerID uint) string {
	return strconv.FormatUint(uint64(playerID), 10)
}

func (l *RedisLeaderboard) SetRatings(ctx context.Context, ratings map[uint]float64) error {
	if len(ratings) == 0 {
		return nil
	}
	members := make([]redis.Z, 0, len(ratings))
	for id, rating := range ratings {
		members = append(members, redis.Z{Score: rating, Member: member(id)})
	}
	if err := l.client.ZAdd(ctx, leaderboardKey, members...).Err(); err != nil {
		return fmt.Errorf("failed to update cached ratings: %w", err)
	}
	return nil
}

func (l *RedisLeaderboard) Remove(ctx context.Context, playerID uint) error {
	if err := l.client.ZRem(ctx, leaderboardKey, member(playerID)).Err(); err != nil {
		return fmt.Errorf("failed to remove player from cached leaderboard: %w", err)
	}
	return nil
}

// Replace swaps the whole cached leaderboard in one MULTI block.
func (l *RedisLeaderboard) Replace(ctx context.Context, ratings map[uint]float64) error {
	pipe := l.client.TxPipeline()
	pipe.Del(ctx, leaderboardKey)
	if len(ratings) > 0 {
		members := make([]redis.Z, 0, len(ratings))
		for id, rating := range ratings {
			members = append(members, redis.Z{Score: rating, Member: member(id)})
		}
		pipe.ZAdd(ctx, leaderboardKey, members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to rebuild cached leaderboard: %w", err)
	}
	return nil
}

func (l *RedisLeaderboard) Top(ctx context.Context, limit int64) ([]Entry, error) {
	zs, err := l.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cached leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(zs))
	for _, z := range zs {
		raw, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{PlayerID: uint(id), Rating: z.Score})
	}
	return entries, nil
}

// NoopLeaderboard is used when no Redis is configured.
type NoopLeaderboard struct{}

func (NoopLeaderboard) SetRatings(context.Context, map[uint]float64) error { return nil }
func (NoopLeaderboard) Remove(context.Context, uint) error                 { return nil }
func (NoopLeaderboard) Replace(context.Context, map[uint]float64) error    { return nil }
func (NoopLeaderboard) Top(context.Context, int64) ([]Entry, error)        { return nil, nil }
