package redis

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-quiz-service/internal/domain"
)

const (
	pointsKey    = "leaderboard:points"
	rowKeyPrefix = "leaderboard:row:"
)

// RowSource loads leaderboard rows from the backing store on cache miss.
type RowSource interface {
	LoadRows(ctx context.Context) ([]domain.LeaderboardRow, error)
}

// Leaderboard caches the ranked board in Redis: a sorted set keyed by points
// plus a hash of display fields per user. Misses fall back to the source
// behind a singleflight so concurrent readers trigger one backfill.
type Leaderboard struct {
	client *redis.Client
	source RowSource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewLeaderboard(client *redis.Client, source RowSource, ttl time.Duration) *Leaderboard {
	return &Leaderboard{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// List returns the board ordered by points descending. The snapshot is
// eventually consistent with recent finishes.
func (l *Leaderboard) List(ctx context.Context) ([]domain.LeaderboardRow, error) {
	rows, err := l.readCached(ctx)
	if err == nil && len(rows) > 0 {
		return rows, nil
	}

	result, err, _ := l.sf.Do("backfill", func() (interface{}, error) {
		// Re-check in case another goroutine already backfilled.
		rows, err := l.readCached(ctx)
		if err == nil && len(rows) > 0 {
			return rows, nil
		}

		loaded, err := l.source.LoadRows(ctx)
		if err != nil {
			return nil, err
		}
		l.fillCache(ctx, loaded)
		return sortByPoints(loaded), nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.LeaderboardRow), nil
}

// Search filters the ordered board by username prefix.
func (l *Leaderboard) Search(ctx context.Context, prefix string) ([]domain.LeaderboardRow, error) {
	rows, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return rows, nil
	}
	filtered := make([]domain.LeaderboardRow, 0, len(rows))
	for _, row := range rows {
		if strings.HasPrefix(row.Username, prefix) {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

// Upsert keeps the cache warm after a finished session.
func (l *Leaderboard) Upsert(ctx context.Context, row domain.LeaderboardRow) error {
	pipe := l.client.Pipeline()
	pipe.ZAdd(ctx, pointsKey, redis.Z{Score: float64(row.Points), Member: row.UserID})
	pipe.HSet(ctx, rowKey(row.UserID),
		"username", row.Username,
		"rank", string(row.Rank),
		"picture", row.PictureRef,
	)
	_, err := pipe.Exec(ctx)
	return err
}

// Remove drops a deleted account from the cached board.
func (l *Leaderboard) Remove(ctx context.Context, userID string) error {
	pipe := l.client.Pipeline()
	pipe.ZRem(ctx, pointsKey, userID)
	pipe.Del(ctx, rowKey(userID))
	_, err := pipe.Exec(ctx)
	return err
}

func (l *Leaderboard) readCached(ctx context.Context) ([]domain.LeaderboardRow, error) {
	members, err := l.client.ZRevRangeWithScores(ctx, pointsKey, 0, -1).Result()
	if err != nil || len(members) == 0 {
		return nil, err
	}

	rows := make([]domain.LeaderboardRow, 0, len(members))
	for _, member := range members {
		userID, _ := member.Member.(string)
		fields, err := l.client.HGetAll(ctx, rowKey(userID)).Result()
		if err != nil {
			return nil, err
		}
		rows = append(rows, domain.LeaderboardRow{
			UserID:     userID,
			Username:   fields["username"],
			Rank:       domain.Rank(fields["rank"]),
			PictureRef: fields["picture"],
			Points:     int(member.Score),
		})
	}
	return rows, nil
}

func (l *Leaderboard) fillCache(ctx context.Context, rows []domain.LeaderboardRow) {
	if len(rows) == 0 {
		return
	}
	pipe := l.client.Pipeline()
	for _, row := range rows {
		pipe.ZAdd(ctx, pointsKey, redis.Z{Score: float64(row.Points), Member: row.UserID})
		pipe.HSet(ctx, rowKey(row.UserID),
			"username", row.Username,
			"rank", string(row.Rank),
			"picture", row.PictureRef,
		)
	}
	if ttl := l.ttlWithJitter(); ttl > 0 {
		pipe.Expire(ctx, pointsKey, ttl)
		for _, row := range rows {
			pipe.Expire(ctx, rowKey(row.UserID), ttl)
		}
	}
	_, _ = pipe.Exec(ctx)
}

func (l *Leaderboard) ttlWithJitter() time.Duration {
	if l.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(l.ttl) / 10
	return l.ttl + time.Duration(l.rnd.Int63n(jitterMax+1))
}

func rowKey(userID string) string {
	return rowKeyPrefix + userID
}

func sortByPoints(rows []domain.LeaderboardRow) []domain.LeaderboardRow {
	out := make([]domain.LeaderboardRow, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Username < out[j].Username
	})
	return out
}
