package models

import (
	"time"

	id "passport/pkg/domain"
)

// Grade is the letter band of a verification-strength score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// StrengthBreakdown lists the named components that add up to a strength score
// before the total cap is applied.
type StrengthBreakdown struct {
	Platforms int `json:"platforms"`
	Age       int `json:"age"`
	Diversity int `json:"diversity"`
	Points    int `json:"points"`
}

// Sum returns the uncapped component total.
func (b StrengthBreakdown) Sum() int {
	return b.Platforms + b.Age + b.Diversity + b.Points
}

// VerificationStrength is the explainable score derived from a passport.
type VerificationStrength struct {
	PassportID          id.PassportID     `json:"passport_id"`
	Score               int               `json:"score"`
	Grade               Grade             `json:"grade"`
	Breakdown           StrengthBreakdown `json:"breakdown"`
	ActivePlatformCount int               `json:"active_platform_count"`
	AccountAgeDays      int               `json:"account_age_days"`
	EvaluatedAt         time.Time         `json:"evaluated_at"`
}

// Profile merges a passport with its optional facets. Facets are nil when
// their source is unbound or failed; Referral may be reconstructed from the
// passport itself (see ReferralInfo.Source).
type Profile struct {
	Passport    *Passport            `json:"passport"`
	Points      *PointBreakdown      `json:"points"`
	TotalPoints Points               `json:"total_points"`
	Referral    *ReferralInfo        `json:"referral"`
	Leaderboard *LeaderboardSnapshot `json:"leaderboard"`
	Strength    VerificationStrength `json:"strength"`
}

// PlatformProof is one active platform's proof hash.
type PlatformProof struct {
	Platform  string    `json:"platform"`
	ProofHash ProofHash `json:"proof_hash"`
}

// ProofHashes lists the proof hashes of a passport's active verifications in
// registry order.
type ProofHashes struct {
	PassportID id.PassportID   `json:"passport_id"`
	Proofs     []PlatformProof `json:"proofs"`
}

// ByPlatform returns the proofs keyed by platform.
func (p *ProofHashes) ByPlatform() map[string]ProofHash {
	out := make(map[string]ProofHash, len(p.Proofs))
	for _, proof := range p.Proofs {
		out[proof.Platform] = proof.ProofHash
	}
	return out
}

// ScanMatch is a passport found by a category scan.
type ScanMatch struct {
	PassportID id.PassportID `json:"passport_id"`
	Owner      string        `json:"owner"`
	Category   string        `json:"category"`
	Platforms  []string      `json:"platforms"`
}

// ScanResult is best-effort: a scan may stop at its probe budget before
// finding Limit matches even when more exist further along.
type ScanResult struct {
	Category        string        `json:"category"`
	Limit           int           `json:"limit"`
	StartID         id.PassportID `json:"start_id"`
	NextID          id.PassportID `json:"next_id"`
	Probes          int           `json:"probes"`
	BudgetExhausted bool          `json:"budget_exhausted"`
	Matches         []ScanMatch   `json:"matches"`
}
