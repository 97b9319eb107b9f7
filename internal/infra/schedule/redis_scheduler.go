// Package schedule parks delayed triggers on a Redis sorted set so a
// process restart does not silently drop a pending timer. The delay grants
// no extra consistency: expiry goes back through the orchestrator's
// serialized check-then-mutate path, which re-evaluates the predicate.
package schedule

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clearpathlegal/growth-engine/internal/entity"
)

const scheduledKey = "triggers:scheduled"

// Firer is the orchestrator's delay-expiry entry point.
type Firer interface {
	FireDue(ctx context.Context, leadID string, t entity.TriggerType) (*entity.TriggerEvent, error)
}

type RedisScheduler struct {
	rdb          *redis.Client
	tickInterval time.Duration
}

func NewRedisScheduler(rdb *redis.Client) *RedisScheduler {
	return &RedisScheduler{
		rdb:          rdb,
		tickInterval: 15 * time.Second,
	}
}

// Schedule parks one delayed trigger keyed by lead and type. ZADD NX keeps
// the first scheduled due time when the same trigger is scheduled again
// while still pending.
func (s *RedisScheduler) Schedule(ctx context.Context, leadID string, t entity.TriggerType, dueAt time.Time) error {
	member := fmt.Sprintf("%s|%s", leadID, t)
	err := s.rdb.ZAddNX(ctx, scheduledKey, redis.Z{
		Score:  float64(dueAt.Unix()),
		Member: member,
	}).Err()
	if err != nil {
		return fmt.Errorf("scheduling trigger %s: %w", member, err)
	}
	return nil
}

// Start polls for due triggers until ctx is cancelled. Run it in its own
// goroutine.
func (s *RedisScheduler) Start(ctx context.Context, firer Firer) {
	log.Printf("🕒 trigger scheduler started (tick %s)", s.tickInterval)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	s.fireDue(ctx, firer)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ trigger scheduler stopped")
			return
		case <-ticker.C:
			s.fireDue(ctx, firer)
		}
	}
}

func (s *RedisScheduler) fireDue(ctx context.Context, firer Firer) {
	now := s.rdb.Time(ctx).Val()
	if now.IsZero() {
		now = time.Now()
	}

	entries, err := s.rdb.ZRangeByScoreWithScores(ctx, scheduledKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", now.Unix()),
	}).Result()
	if err != nil {
		log.Printf("❌ scheduler: listing due triggers: %v", err)
		return
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}

		member, ok := entry.Member.(string)
		if !ok {
			continue
		}

		// ZREM is the claim: only the remover runs the fire path.
		removed, err := s.rdb.ZRem(ctx, scheduledKey, member).Result()
		if err != nil || removed == 0 {
			continue
		}

		leadID, triggerType, ok := splitMember(member)
		if !ok {
			log.Printf("⚠️ scheduler: dropping malformed entry %q", member)
			continue
		}

		event, err := firer.FireDue(ctx, leadID, triggerType)
		if err != nil {
			// Transient failure: put the timer back so the next tick retries
			// instead of silently losing it.
			log.Printf("❌ scheduler: firing %s, requeueing: %v", member, err)
			if readdErr := s.rdb.ZAddNX(ctx, scheduledKey, redis.Z{Score: entry.Score, Member: member}).Err(); readdErr != nil {
				log.Printf("❌ scheduler: requeueing %s: %v", member, readdErr)
			}
			continue
		}
		if event != nil {
			log.Printf("✅ scheduler: fired %s for lead %s", event.Type, event.LeadID)
		}
	}
}

func splitMember(member string) (leadID string, t entity.TriggerType, ok bool) {
	idx := strings.LastIndex(member, "|")
	if idx <= 0 || idx == len(member)-1 {
		return "", "", false
	}
	t, ok = entity.ParseTriggerType(member[idx+1:])
	return member[:idx], t, ok
}
