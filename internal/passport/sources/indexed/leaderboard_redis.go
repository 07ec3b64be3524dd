// Package indexed serves read sources from off-chain mirrors of the ledger:
// a Redis copy of the leaderboard and a PostgreSQL copy of the verification
// archive. Mirrors are filled by Sync and read through the same interfaces
// as the contract adapters.
package indexed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"passport/internal/passport/format"
	"passport/internal/passport/models"
	"passport/internal/passport/sources"
	id "passport/pkg/domain"
)

const (
	redisGlobalKey        = "lb:global"
	redisCategoryPrefix   = "lb:cat:"
	redisEntryPrefix      = "lb:entry:"
	redisStatsPrefix      = "lb:stats:"
	redisGlobalEntryScope = "global"
)

// RedisLeaderboard reads rankings from sorted sets scored by the ledger's
// rank, so ascending order is board order and ties keep the ledger's
// tie-break. Each board is replaced whole on every sync.
type RedisLeaderboard struct {
	client *redis.Client
}

// NewRedisLeaderboard wraps a configured Redis client.
func NewRedisLeaderboard(client *redis.Client) *RedisLeaderboard {
	if client == nil {
		panic("indexed: redis client is required")
	}
	return &RedisLeaderboard{client: client}
}

// storedEntry is the JSON row kept next to each sorted set member.
type storedEntry struct {
	Owner             string `json:"owner"`
	TotalScore        int64  `json:"total_score"`
	HoldingScore      int64  `json:"holding_score"`
	PlatformScore     int64  `json:"platform_score"`
	ReferralScore     int64  `json:"referral_score"`
	VerificationCount int64  `json:"verification_count"`
	Category          string `json:"category"`
	LastUpdated       int64  `json:"last_updated"`
	Rank              uint64 `json:"rank"`
	PreviousRank      uint64 `json:"previous_rank"`
}

type storedStats struct {
	Participants int64 `json:"participants"`
	TotalScore   int64 `json:"total_score"`
	TopScore     int64 `json:"top_score"`
	LastUpdated  int64 `json:"last_updated"`
}

func boardKey(category string) string {
	if category == "" {
		return redisGlobalKey
	}
	return redisCategoryPrefix + format.NormalizeCategory(category)
}

func entryKey(category string, passportID id.PassportID) string {
	scope := redisGlobalEntryScope
	if category != "" {
		scope = "cat:" + format.NormalizeCategory(category)
	}
	return fmt.Sprintf("%s%s:%s", redisEntryPrefix, scope, passportID.String())
}

func statsKey(category string) string {
	return redisStatsPrefix + format.NormalizeCategory(category)
}

func (l *RedisLeaderboard) GetTopEntries(ctx context.Context, count int) ([]models.LeaderboardEntry, error) {
	return l.top(ctx, sources.OpGetTopEntries, "", count)
}

func (l *RedisLeaderboard) GetTopEntriesByCategory(ctx context.Context, category string, count int) ([]models.LeaderboardEntry, error) {
	return l.top(ctx, sources.OpGetTopEntriesByCategory, category, count)
}

func (l *RedisLeaderboard) top(ctx context.Context, op, category string, count int) ([]models.LeaderboardEntry, error) {
	if count <= 0 {
		return []models.LeaderboardEntry{}, nil
	}
	members, err := l.client.ZRangeWithScores(ctx, boardKey(category), 0, int64(count-1)).Result()
	if err != nil {
		return nil, classify(op, err)
	}
	entries := make([]models.LeaderboardEntry, 0, len(members))
	for _, member := range members {
		raw, _ := member.Member.(string)
		passportID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, sources.NewSourceError(sources.ErrorBadData, sources.KindLeaderboard, op, "member "+raw+" is not a passport id", err)
		}
		entry, err := l.load(ctx, op, category, id.PassportID(passportID))
		if err != nil {
			return nil, err
		}
		entry.Rank = models.Rank(member.Score)
		entries = append(entries, entry)
	}
	return entries, nil
}

func (l *RedisLeaderboard) GetPassportEntry(ctx context.Context, passportID id.PassportID) (models.LeaderboardEntry, error) {
	return l.entry(ctx, sources.OpGetPassportEntry, "", passportID)
}

func (l *RedisLeaderboard) GetPassportCategoryEntry(ctx context.Context, passportID id.PassportID, category string) (models.LeaderboardEntry, error) {
	return l.entry(ctx, sources.OpGetPassportCatEntry, category, passportID)
}

func (l *RedisLeaderboard) entry(ctx context.Context, op, category string, passportID id.PassportID) (models.LeaderboardEntry, error) {
	entry, err := l.load(ctx, op, category, passportID)
	if err != nil {
		return models.LeaderboardEntry{}, err
	}
	rank, err := l.rank(ctx, op, category, passportID)
	if err != nil {
		return models.LeaderboardEntry{}, err
	}
	entry.Rank = rank
	return entry, nil
}

// load reads the stored row; a missing row yields an unranked entry.
func (l *RedisLeaderboard) load(ctx context.Context, op, category string, passportID id.PassportID) (models.LeaderboardEntry, error) {
	entry := models.LeaderboardEntry{PassportID: passportID, Category: category}
	data, err := l.client.Get(ctx, entryKey(category, passportID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entry, nil
		}
		return models.LeaderboardEntry{}, classify(op, err)
	}
	var stored storedEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		return models.LeaderboardEntry{}, sources.NewSourceError(sources.ErrorBadData, sources.KindLeaderboard, op, "decode entry", err)
	}
	entry.Owner = common.HexToAddress(stored.Owner)
	entry.TotalScore = stored.TotalScore
	entry.HoldingScore = stored.HoldingScore
	entry.PlatformScore = stored.PlatformScore
	entry.ReferralScore = stored.ReferralScore
	entry.VerificationCount = stored.VerificationCount
	entry.Category = stored.Category
	entry.LastUpdated = format.UnixSeconds(stored.LastUpdated)
	entry.Rank = models.Rank(stored.Rank)
	entry.PreviousRank = models.Rank(stored.PreviousRank)
	return entry, nil
}

// rank is the ledger rank stored as the member's score; a passport missing
// from the board is unranked.
func (l *RedisLeaderboard) rank(ctx context.Context, op, category string, passportID id.PassportID) (models.Rank, error) {
	score, err := l.client.ZScore(ctx, boardKey(category), passportID.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.NotRanked, nil
		}
		return models.NotRanked, classify(op, err)
	}
	return models.Rank(score), nil
}

func (l *RedisLeaderboard) score(ctx context.Context, op, category string, passportID id.PassportID) (int64, error) {
	entry, err := l.load(ctx, op, category, passportID)
	if err != nil {
		return 0, err
	}
	return entry.TotalScore, nil
}

func (l *RedisLeaderboard) GetPassportRank(ctx context.Context, passportID id.PassportID) (models.Rank, error) {
	return l.rank(ctx, sources.OpGetPassportRank, "", passportID)
}

func (l *RedisLeaderboard) GetPassportCategoryRank(ctx context.Context, passportID id.PassportID, category string) (models.Rank, error) {
	return l.rank(ctx, sources.OpGetPassportCatRank, category, passportID)
}

func (l *RedisLeaderboard) GetPassportScore(ctx context.Context, passportID id.PassportID) (int64, error) {
	return l.score(ctx, sources.OpGetPassportScore, "", passportID)
}

func (l *RedisLeaderboard) GetPassportCategoryScore(ctx context.Context, passportID id.PassportID, category string) (int64, error) {
	return l.score(ctx, sources.OpGetPassportCatScore, category, passportID)
}

func (l *RedisLeaderboard) IsRanked(ctx context.Context, passportID id.PassportID) (bool, error) {
	rank, err := l.rank(ctx, sources.OpIsRanked, "", passportID)
	return rank.IsRanked(), err
}

func (l *RedisLeaderboard) IsRankedInCategory(ctx context.Context, passportID id.PassportID, category string) (bool, error) {
	rank, err := l.rank(ctx, sources.OpIsRankedInCategory, category, passportID)
	return rank.IsRanked(), err
}

func (l *RedisLeaderboard) GetCategoryStats(ctx context.Context, category string) (models.CategoryStats, error) {
	stats := models.CategoryStats{Category: category}
	data, err := l.client.Get(ctx, statsKey(category)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return stats, nil
		}
		return models.CategoryStats{}, classify(sources.OpGetCategoryStats, err)
	}
	var stored storedStats
	if err := json.Unmarshal(data, &stored); err != nil {
		return models.CategoryStats{}, sources.NewSourceError(sources.ErrorBadData, sources.KindLeaderboard, sources.OpGetCategoryStats, "decode stats", err)
	}
	stats.Participants = stored.Participants
	stats.TotalScore = stored.TotalScore
	stats.TopScore = stored.TopScore
	stats.LastUpdated = format.UnixSeconds(stored.LastUpdated)
	return stats, nil
}

// ReplaceBoard makes entries the whole content of the global board, or of
// its category board when category is non-empty. Passports missing from
// entries lose their rank and stored row. Entries without a ledger rank take
// their position in entries.
func (l *RedisLeaderboard) ReplaceBoard(ctx context.Context, category string, entries []models.LeaderboardEntry) error {
	key := boardKey(category)
	previous, err := l.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("read mirrored board: %w", err)
	}

	members := make([]redis.Z, 0, len(entries))
	payloads := make(map[string][]byte, len(entries))
	for i, entry := range entries {
		rank := entry.Rank
		if !rank.IsRanked() {
			rank = models.Rank(i + 1)
		}
		payload, err := json.Marshal(storedEntry{
			Owner:             entry.Owner.Hex(),
			TotalScore:        entry.TotalScore,
			HoldingScore:      entry.HoldingScore,
			PlatformScore:     entry.PlatformScore,
			ReferralScore:     entry.ReferralScore,
			VerificationCount: entry.VerificationCount,
			Category:          entry.Category,
			LastUpdated:       unixOrZero(entry.LastUpdated),
			Rank:              uint64(rank),
			PreviousRank:      uint64(entry.PreviousRank),
		})
		if err != nil {
			return fmt.Errorf("encode leaderboard entry: %w", err)
		}
		member := entry.PassportID.String()
		members = append(members, redis.Z{Score: float64(rank), Member: member})
		payloads[entryKey(category, entry.PassportID)] = payload
	}

	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		for _, member := range previous {
			passportID, err := strconv.ParseUint(member, 10, 64)
			if err != nil {
				continue
			}
			if stale := entryKey(category, id.PassportID(passportID)); payloads[stale] == nil {
				pipe.Del(ctx, stale)
			}
		}
		if len(members) > 0 {
			pipe.ZAdd(ctx, key, members...)
		}
		for k, payload := range payloads {
			pipe.Set(ctx, k, payload, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save leaderboard board: %w", err)
	}
	return nil
}

// PutCategoryStats replaces the stored stats for a category.
func (l *RedisLeaderboard) PutCategoryStats(ctx context.Context, stats models.CategoryStats) error {
	payload, err := json.Marshal(storedStats{
		Participants: stats.Participants,
		TotalScore:   stats.TotalScore,
		TopScore:     stats.TopScore,
		LastUpdated:  unixOrZero(stats.LastUpdated),
	})
	if err != nil {
		return fmt.Errorf("encode category stats: %w", err)
	}
	if err := l.client.Set(ctx, statsKey(stats.Category), payload, 0).Err(); err != nil {
		return fmt.Errorf("save category stats: %w", err)
	}
	return nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return sources.Classify(sources.KindLeaderboard, op, err)
	}
	return sources.NewSourceError(sources.ErrorSourceOutage, sources.KindLeaderboard, op, "redis failure", err)
}
