package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"passport/internal/passport/format"
	"passport/internal/passport/models"
	"passport/internal/passport/sources"
	id "passport/pkg/domain"
)

// Leaderboard reads global and per-category rankings.
type Leaderboard struct {
	c *contract
}

func NewLeaderboard(address common.Address, caller bind.ContractCaller) *Leaderboard {
	return &Leaderboard{c: newContract(sources.KindLeaderboard, address, leaderboardABI, caller)}
}

// entryTuple mirrors the contract's entry struct, field for field.
type entryTuple struct {
	PassportId        *big.Int
	Owner             common.Address
	TotalScore        *big.Int
	HoldingScore      *big.Int
	PlatformScore     *big.Int
	ReferralScore     *big.Int
	VerificationCount *big.Int
	Category          string
	LastUpdated       *big.Int
	Rank              *big.Int
	PreviousRank      *big.Int
}

func (t entryTuple) entry() models.LeaderboardEntry {
	return models.LeaderboardEntry{
		PassportID:        id.PassportID(format.Uint64(t.PassportId)),
		Owner:             t.Owner,
		TotalScore:        format.Int64(t.TotalScore),
		HoldingScore:      format.Int64(t.HoldingScore),
		PlatformScore:     format.Int64(t.PlatformScore),
		ReferralScore:     format.Int64(t.ReferralScore),
		VerificationCount: format.Int64(t.VerificationCount),
		Category:          t.Category,
		LastUpdated:       format.UnixTime(t.LastUpdated),
		Rank:              models.Rank(format.Uint64(t.Rank)),
		PreviousRank:      models.Rank(format.Uint64(t.PreviousRank)),
	}
}

func (l *Leaderboard) GetTopEntries(ctx context.Context, count int) ([]models.LeaderboardEntry, error) {
	return l.entries(ctx, sources.OpGetTopEntries, bigCount(count))
}

func (l *Leaderboard) GetTopEntriesByCategory(ctx context.Context, category string, count int) ([]models.LeaderboardEntry, error) {
	return l.entries(ctx, sources.OpGetTopEntriesByCategory, category, bigCount(count))
}

func (l *Leaderboard) entries(ctx context.Context, op string, args ...any) ([]models.LeaderboardEntry, error) {
	d, err := l.c.call(ctx, op, args...)
	if err != nil {
		return nil, err
	}
	tuples := convert[[]entryTuple](d, 0)
	if err := d.Err(); err != nil {
		return nil, err
	}
	entries := make([]models.LeaderboardEntry, 0, len(tuples))
	for _, t := range tuples {
		entries = append(entries, t.entry())
	}
	return entries, nil
}

func (l *Leaderboard) GetPassportEntry(ctx context.Context, passportID id.PassportID) (models.LeaderboardEntry, error) {
	return l.entry(ctx, sources.OpGetPassportEntry, bigID(passportID))
}

func (l *Leaderboard) GetPassportCategoryEntry(ctx context.Context, passportID id.PassportID, category string) (models.LeaderboardEntry, error) {
	return l.entry(ctx, sources.OpGetPassportCatEntry, bigID(passportID), category)
}

func (l *Leaderboard) entry(ctx context.Context, op string, args ...any) (models.LeaderboardEntry, error) {
	d, err := l.c.call(ctx, op, args...)
	if err != nil {
		return models.LeaderboardEntry{}, err
	}
	t := convert[entryTuple](d, 0)
	if err := d.Err(); err != nil {
		return models.LeaderboardEntry{}, err
	}
	return t.entry(), nil
}

func (l *Leaderboard) GetPassportRank(ctx context.Context, passportID id.PassportID) (models.Rank, error) {
	raw, err := l.number(ctx, sources.OpGetPassportRank, bigID(passportID))
	return models.Rank(format.Uint64(raw)), err
}

func (l *Leaderboard) GetPassportCategoryRank(ctx context.Context, passportID id.PassportID, category string) (models.Rank, error) {
	raw, err := l.number(ctx, sources.OpGetPassportCatRank, bigID(passportID), category)
	return models.Rank(format.Uint64(raw)), err
}

func (l *Leaderboard) GetPassportScore(ctx context.Context, passportID id.PassportID) (int64, error) {
	raw, err := l.number(ctx, sources.OpGetPassportScore, bigID(passportID))
	return format.Int64(raw), err
}

func (l *Leaderboard) GetPassportCategoryScore(ctx context.Context, passportID id.PassportID, category string) (int64, error) {
	raw, err := l.number(ctx, sources.OpGetPassportCatScore, bigID(passportID), category)
	return format.Int64(raw), err
}

// number returns nil on failure; format treats nil as zero.
func (l *Leaderboard) number(ctx context.Context, op string, args ...any) (*big.Int, error) {
	d, err := l.c.call(ctx, op, args...)
	if err != nil {
		return nil, err
	}
	raw := value[*big.Int](d, 0)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return raw, nil
}

func (l *Leaderboard) IsRanked(ctx context.Context, passportID id.PassportID) (bool, error) {
	return l.flag(ctx, sources.OpIsRanked, bigID(passportID))
}

func (l *Leaderboard) IsRankedInCategory(ctx context.Context, passportID id.PassportID, category string) (bool, error) {
	return l.flag(ctx, sources.OpIsRankedInCategory, bigID(passportID), category)
}

func (l *Leaderboard) flag(ctx context.Context, op string, args ...any) (bool, error) {
	d, err := l.c.call(ctx, op, args...)
	if err != nil {
		return false, err
	}
	ranked := value[bool](d, 0)
	return ranked, d.Err()
}

func (l *Leaderboard) GetCategoryStats(ctx context.Context, category string) (models.CategoryStats, error) {
	d, err := l.c.call(ctx, sources.OpGetCategoryStats, category)
	if err != nil {
		return models.CategoryStats{}, err
	}
	stats := models.CategoryStats{
		Category:     category,
		Participants: format.Int64(value[*big.Int](d, 0)),
		TotalScore:   format.Int64(value[*big.Int](d, 1)),
		TopScore:     format.Int64(value[*big.Int](d, 2)),
		LastUpdated:  format.UnixTime(value[*big.Int](d, 3)),
	}
	return stats, d.Err()
}
