// Package memory implements every data source in process.
//
// A single Ledger satisfies all five source interfaces. Values read back are
// copies, so callers can never mutate seeded state. Failures can be injected
// per operation, or per operation and argument, to exercise degradation paths.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"passport/internal/passport/format"
	"passport/internal/passport/models"
	"passport/internal/passport/sources"
	id "passport/pkg/domain"
)

type platformKey struct {
	passport id.PassportID
	platform string
}

type categoryKey struct {
	passport id.PassportID
	category string
}

type storedPassport struct {
	record        sources.PassportRecord
	platforms     []string
	verifications map[string]models.Verification
}

// Ledger is an in-memory stand-in for the five ledger-backed sources.
type Ledger struct {
	mu sync.RWMutex

	passports  map[id.PassportID]*storedPassport
	owners     map[common.Address]id.PassportID
	categories []string

	platformConfigs map[string]models.PlatformConfig
	platformOrder   []string

	history map[platformKey][]models.HistoryEntry

	breakdowns     map[id.PassportID]models.PointBreakdown
	platformPoints map[platformKey]int64
	referrals      map[id.PassportID]models.ReferralInfo
	referralCodes  map[string]id.PassportID
	pointConfig    models.PointConfig

	entries         map[id.PassportID]models.LeaderboardEntry
	categoryEntries map[categoryKey]models.LeaderboardEntry
	categoryStats   map[string]models.CategoryStats

	failures map[string]error
	calls    map[string]int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		passports:       make(map[id.PassportID]*storedPassport),
		owners:          make(map[common.Address]id.PassportID),
		platformConfigs: make(map[string]models.PlatformConfig),
		history:         make(map[platformKey][]models.HistoryEntry),
		breakdowns:      make(map[id.PassportID]models.PointBreakdown),
		platformPoints:  make(map[platformKey]int64),
		referrals:       make(map[id.PassportID]models.ReferralInfo),
		referralCodes:   make(map[string]id.PassportID),
		entries:         make(map[id.PassportID]models.LeaderboardEntry),
		categoryEntries: make(map[categoryKey]models.LeaderboardEntry),
		categoryStats:   make(map[string]models.CategoryStats),
		failures:        make(map[string]error),
		calls:           make(map[string]int),
	}
}

// FailOn makes op fail with err. When args are given the failure only applies
// to calls whose string arguments match, e.g. FailOn(OpGetVerification, err, "github").
// Passing a nil err clears the injection.
func (l *Ledger) FailOn(op string, err error, args ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := failureKey(op, args...)
	if err == nil {
		delete(l.failures, key)
		return
	}
	l.failures[key] = err
}

// Calls returns how many times op has been invoked.
func (l *Ledger) Calls(op string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.calls[op]
}

// ResetCalls zeroes every call counter.
func (l *Ledger) ResetCalls() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.calls)
}

func failureKey(op string, args ...string) string {
	if len(args) == 0 {
		return op
	}
	return op + ":" + strings.Join(args, ":")
}

// begin records the call and returns any injected failure. Callers must not hold mu.
func (l *Ledger) begin(kind sources.SourceKind, op string, args ...string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[op]++
	if err, ok := l.failures[failureKey(op, args...)]; ok {
		return sources.Classify(kind, op, err)
	}
	if err, ok := l.failures[op]; ok {
		return sources.Classify(kind, op, err)
	}
	return nil
}

// AddPassport seeds a passport. The platforms slice order is kept as the
// registry order; verifications missing from the map are not registered.
func (l *Ledger) AddPassport(p models.Passport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	stored := &storedPassport{
		record: sources.PassportRecord{
			ID:                p.ID,
			Owner:             p.Owner,
			CreatedAt:         p.CreatedAt,
			VerificationCount: p.VerificationCount,
			Category:          p.Category,
			TotalPoints:       p.TotalPoints,
			ReferralCode:      p.ReferralCode,
			TotalReferrals:    p.TotalReferrals,
		},
		verifications: make(map[string]models.Verification, len(p.Verifications)),
	}
	for _, platform := range p.Platforms {
		v, ok := p.Verifications[platform]
		if !ok {
			continue
		}
		stored.platforms = append(stored.platforms, platform)
		stored.verifications[platform] = v
	}
	l.passports[p.ID] = stored
	l.owners[p.Owner] = p.ID
	if p.ReferralCode != "" {
		l.referralCodes[p.ReferralCode] = p.ID
	}
}

func (l *Ledger) SetCategories(categories ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.categories = slices.Clone(categories)
}

func (l *Ledger) AddPlatform(cfg models.PlatformConfig) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.platformConfigs[cfg.Platform]; !exists {
		l.platformOrder = append(l.platformOrder, cfg.Platform)
	}
	l.platformConfigs[cfg.Platform] = cfg
}

// AddHistory appends archive entries, oldest first.
func (l *Ledger) AddHistory(passportID id.PassportID, platform string, entries ...models.HistoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := platformKey{passportID, platform}
	l.history[key] = append(l.history[key], entries...)
}

func (l *Ledger) SetPointBreakdown(passportID id.PassportID, b models.PointBreakdown) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.breakdowns[passportID] = b
}

func (l *Ledger) SetPlatformPoints(passportID id.PassportID, platform string, points int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.platformPoints[platformKey{passportID, platform}] = points
}

func (l *Ledger) SetReferral(passportID id.PassportID, info models.ReferralInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.referrals[passportID] = info
	if info.ReferralCode != "" {
		l.referralCodes[info.ReferralCode] = passportID
	}
}

func (l *Ledger) SetPointConfig(cfg models.PointConfig) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pointConfig = cfg
}

// SetEntry seeds the global board. A zero Rank leaves the passport unranked.
func (l *Ledger) SetEntry(entry models.LeaderboardEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[entry.PassportID] = entry
}

// SetCategoryEntry seeds entry.Category's board.
func (l *Ledger) SetCategoryEntry(entry models.LeaderboardEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.categoryEntries[categoryKey{entry.PassportID, format.NormalizeCategory(entry.Category)}] = entry
}

// SetCategoryStats overrides the stats otherwise derived from category entries.
func (l *Ledger) SetCategoryStats(stats models.CategoryStats) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.categoryStats[format.NormalizeCategory(stats.Category)] = stats
}

// IdentityRegistry

func (l *Ledger) PassportIDByOwner(_ context.Context, owner common.Address) (id.PassportID, error) {
	if err := l.begin(sources.KindRegistry, sources.OpGetPassportByOwner, owner.Hex()); err != nil {
		return 0, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	passportID, ok := l.owners[owner]
	if !ok {
		return 0, sources.NotFound(sources.KindRegistry, sources.OpGetPassportByOwner, "no passport for owner")
	}
	return passportID, nil
}

func (l *Ledger) GetPassport(_ context.Context, passportID id.PassportID) (sources.PassportRecord, error) {
	if err := l.begin(sources.KindRegistry, sources.OpGetPassport, passportID.String()); err != nil {
		return sources.PassportRecord{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.passports[passportID]
	if !ok {
		return sources.PassportRecord{}, sources.NotFound(sources.KindRegistry, sources.OpGetPassport, "passport does not exist")
	}
	return p.record, nil
}

func (l *Ledger) GetVerifiedPlatforms(_ context.Context, passportID id.PassportID) ([]string, error) {
	if err := l.begin(sources.KindRegistry, sources.OpGetVerifiedPlatforms, passportID.String()); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	// An unminted id reads as an empty list, as it does on the ledger.
	p, ok := l.passports[passportID]
	if !ok {
		return []string{}, nil
	}
	return slices.Clone(p.platforms), nil
}

func (l *Ledger) GetVerification(_ context.Context, passportID id.PassportID, platform string) (models.Verification, error) {
	if err := l.begin(sources.KindRegistry, sources.OpGetVerification, platform); err != nil {
		return models.Verification{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.passports[passportID]
	if !ok {
		return models.Verification{}, sources.NotFound(sources.KindRegistry, sources.OpGetVerification, "passport does not exist")
	}
	v, ok := p.verifications[platform]
	if !ok {
		return models.Verification{}, sources.NotFound(sources.KindRegistry, sources.OpGetVerification, "verification not found")
	}
	return v, nil
}

func (l *Ledger) IsIdentifierVerified(_ context.Context, platform, identifier string) (bool, id.PassportID, error) {
	if err := l.begin(sources.KindRegistry, sources.OpIsIdentifierVerified, platform, identifier); err != nil {
		return false, 0, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for passportID, p := range l.passports {
		if v, ok := p.verifications[platform]; ok && v.Active && v.Identifier == identifier {
			return true, passportID, nil
		}
	}
	return false, 0, nil
}

func (l *Ledger) GetSupportedCategories(_ context.Context) ([]string, error) {
	if err := l.begin(sources.KindRegistry, sources.OpGetSupportedCategories); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.categories), nil
}

// PlatformRegistry

func (l *Ledger) GetPlatformConfig(_ context.Context, platform string) (models.PlatformConfig, error) {
	if err := l.begin(sources.KindPlatforms, sources.OpGetPlatformConfig, platform); err != nil {
		return models.PlatformConfig{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	cfg, ok := l.platformConfigs[platform]
	if !ok {
		return models.PlatformConfig{Platform: platform}, nil
	}
	cfg.RequiredPlatforms = slices.Clone(cfg.RequiredPlatforms)
	return cfg, nil
}

func (l *Ledger) GetSupportedPlatforms(_ context.Context) ([]string, error) {
	if err := l.begin(sources.KindPlatforms, sources.OpGetSupportedPlatforms); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	supported := make([]string, 0, len(l.platformOrder))
	for _, platform := range l.platformOrder {
		if l.platformConfigs[platform].Supported {
			supported = append(supported, platform)
		}
	}
	return supported, nil
}

func (l *Ledger) ValidatePlatformDependencies(_ context.Context, platform string, verified []string) (models.DependencyCheck, error) {
	if err := l.begin(sources.KindPlatforms, sources.OpValidateDependencies, platform); err != nil {
		return models.DependencyCheck{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	check := models.DependencyCheck{Platform: platform, Valid: true}
	for _, required := range l.platformConfigs[platform].RequiredPlatforms {
		if !slices.Contains(verified, required) {
			check.Missing = append(check.Missing, required)
		}
	}
	check.Valid = len(check.Missing) == 0
	return check, nil
}

// Archive

func (l *Ledger) GetVerificationHistory(_ context.Context, passportID id.PassportID, platform string) ([]models.HistoryEntry, error) {
	if err := l.begin(sources.KindArchive, sources.OpGetVerificationHistory, platform); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.history[platformKey{passportID, platform}]), nil
}

func (l *Ledger) GetPlatformHistory(_ context.Context, passportID id.PassportID, platform string) (models.PlatformHistory, error) {
	if err := l.begin(sources.KindArchive, sources.OpGetPlatformHistory, platform); err != nil {
		return models.PlatformHistory{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	summary := models.PlatformHistory{Platform: platform}
	for _, entry := range l.history[platformKey{passportID, platform}] {
		summary.TotalVerifications++
		if entry.WasRevoked {
			summary.TotalRevocations++
		}
		verifiedAt := entry.VerifiedAt
		if summary.FirstVerifiedAt == nil || verifiedAt.Before(*summary.FirstVerifiedAt) {
			summary.FirstVerifiedAt = &verifiedAt
		}
		if summary.LastVerifiedAt == nil || verifiedAt.After(*summary.LastVerifiedAt) {
			summary.LastVerifiedAt = &verifiedAt
		}
	}
	return summary, nil
}

// Rewards

func (l *Ledger) GetPoints(_ context.Context, passportID id.PassportID) (int64, error) {
	if err := l.begin(sources.KindRewards, sources.OpGetPoints, passportID.String()); err != nil {
		return 0, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.breakdowns[passportID].Total, nil
}

func (l *Ledger) GetPointBreakdown(_ context.Context, passportID id.PassportID) (models.PointBreakdown, error) {
	if err := l.begin(sources.KindRewards, sources.OpGetPointBreakdown, passportID.String()); err != nil {
		return models.PointBreakdown{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.breakdowns[passportID], nil
}

func (l *Ledger) GetPlatformPoints(_ context.Context, passportID id.PassportID, platform string) (int64, error) {
	if err := l.begin(sources.KindRewards, sources.OpGetPlatformPoints, platform); err != nil {
		return 0, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.platformPoints[platformKey{passportID, platform}], nil
}

func (l *Ledger) GetReferralInfo(_ context.Context, passportID id.PassportID) (models.ReferralInfo, error) {
	if err := l.begin(sources.KindRewards, sources.OpGetReferralInfo, passportID.String()); err != nil {
		return models.ReferralInfo{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	info := l.referrals[passportID]
	info.Source = models.PointsFromRewards
	return info, nil
}

func (l *Ledger) ValidateReferralCode(_ context.Context, code string) (models.ReferralValidation, error) {
	if err := l.begin(sources.KindRewards, sources.OpValidateReferralCode, code); err != nil {
		return models.ReferralValidation{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	owner, ok := l.referralCodes[code]
	return models.ReferralValidation{Code: code, Valid: ok, Owner: owner}, nil
}

func (l *Ledger) GetPointConfig(_ context.Context) (models.PointConfig, error) {
	if err := l.begin(sources.KindRewards, sources.OpGetPointConfig); err != nil {
		return models.PointConfig{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pointConfig, nil
}

// Leaderboard

func (l *Ledger) GetTopEntries(_ context.Context, count int) ([]models.LeaderboardEntry, error) {
	if err := l.begin(sources.KindLeaderboard, sources.OpGetTopEntries); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	all := make([]models.LeaderboardEntry, 0, len(l.entries))
	for _, e := range l.entries {
		all = append(all, e)
	}
	return topRanked(all, count), nil
}

func (l *Ledger) GetTopEntriesByCategory(_ context.Context, category string, count int) ([]models.LeaderboardEntry, error) {
	if err := l.begin(sources.KindLeaderboard, sources.OpGetTopEntriesByCategory, category); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return topRanked(l.categoryBoard(category), count), nil
}

func (l *Ledger) GetPassportEntry(_ context.Context, passportID id.PassportID) (models.LeaderboardEntry, error) {
	if err := l.begin(sources.KindLeaderboard, sources.OpGetPassportEntry, passportID.String()); err != nil {
		return models.LeaderboardEntry{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if e, ok := l.entries[passportID]; ok {
		return e, nil
	}
	return models.LeaderboardEntry{PassportID: passportID}, nil
}

func (l *Ledger) GetPassportCategoryEntry(_ context.Context, passportID id.PassportID, category string) (models.LeaderboardEntry, error) {
	if err := l.begin(sources.KindLeaderboard, sources.OpGetPassportCatEntry, category); err != nil {
		return models.LeaderboardEntry{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if e, ok := l.categoryEntries[categoryKey{passportID, format.NormalizeCategory(category)}]; ok {
		return e, nil
	}
	return models.LeaderboardEntry{PassportID: passportID, Category: category}, nil
}

func (l *Ledger) GetPassportRank(_ context.Context, passportID id.PassportID) (models.Rank, error) {
	if err := l.begin(sources.KindLeaderboard, sources.OpGetPassportRank, passportID.String()); err != nil {
		return models.NotRanked, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries[passportID].Rank, nil
}

func (l *Ledger) GetPassportCategoryRank(_ context.Context, passportID id.PassportID, category string) (models.Rank, error) {
	if err := l.begin(sources.KindLeaderboard, sources.OpGetPassportCatRank, category); err != nil {
		return models.NotRanked, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.categoryEntries[categoryKey{passportID, format.NormalizeCategory(category)}].Rank, nil
}

func (l *Ledger) GetPassportScore(_ context.Context, passportID id.PassportID) (int64, error) {
	if err := l.begin(sources.KindLeaderboard, sources.OpGetPassportScore, passportID.String()); err != nil {
		return 0, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries[passportID].TotalScore, nil
}

func (l *Ledger) GetPassportCategoryScore(_ context.Context, passportID id.PassportID, category string) (int64, error) {
	if err := l.begin(sources.KindLeaderboard, sources.OpGetPassportCatScore, category); err != nil {
		return 0, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.categoryEntries[categoryKey{passportID, format.NormalizeCategory(category)}].TotalScore, nil
}

func (l *Ledger) IsRanked(_ context.Context, passportID id.PassportID) (bool, error) {
	if err := l.begin(sources.KindLeaderboard, sources.OpIsRanked, passportID.String()); err != nil {
		return false, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries[passportID].Rank.IsRanked(), nil
}

func (l *Ledger) IsRankedInCategory(_ context.Context, passportID id.PassportID, category string) (bool, error) {
	if err := l.begin(sources.KindLeaderboard, sources.OpIsRankedInCategory, category); err != nil {
		return false, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.categoryEntries[categoryKey{passportID, format.NormalizeCategory(category)}].Rank.IsRanked(), nil
}

func (l *Ledger) GetCategoryStats(_ context.Context, category string) (models.CategoryStats, error) {
	if err := l.begin(sources.KindLeaderboard, sources.OpGetCategoryStats, category); err != nil {
		return models.CategoryStats{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if stats, ok := l.categoryStats[format.NormalizeCategory(category)]; ok {
		return stats, nil
	}

	stats := models.CategoryStats{Category: category}
	for _, e := range l.categoryBoard(category) {
		stats.Participants++
		stats.TotalScore += e.TotalScore
		stats.TopScore = max(stats.TopScore, e.TotalScore)
		if e.LastUpdated.After(stats.LastUpdated) {
			stats.LastUpdated = e.LastUpdated
		}
	}
	return stats, nil
}

// categoryBoard requires mu held.
func (l *Ledger) categoryBoard(category string) []models.LeaderboardEntry {
	normalized := format.NormalizeCategory(category)
	var board []models.LeaderboardEntry
	for key, e := range l.categoryEntries {
		if key.category == normalized {
			board = append(board, e)
		}
	}
	return board
}

func topRanked(entries []models.LeaderboardEntry, count int) []models.LeaderboardEntry {
	ranked := make([]models.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if e.Rank.IsRanked() {
			ranked = append(ranked, e)
		}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Rank < ranked[j].Rank })
	if count >= 0 && len(ranked) > count {
		ranked = ranked[:count]
	}
	return ranked
}

var (
	_ sources.IdentityRegistry = (*Ledger)(nil)
	_ sources.PlatformRegistry = (*Ledger)(nil)
	_ sources.Archive          = (*Ledger)(nil)
	_ sources.Rewards          = (*Ledger)(nil)
	_ sources.Leaderboard      = (*Ledger)(nil)
)
