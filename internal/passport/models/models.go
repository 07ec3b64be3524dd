// Package models holds the read-only snapshots assembled from the data sources.
// Every value here is built fresh per call and never mutated afterwards.
package models

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	id "passport/pkg/domain"
)

// ProofHash is the fixed-length opaque attestation stored with a verification.
type ProofHash [32]byte

func (h ProofHash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h ProofHash) IsZero() bool { return h == ProofHash{} }

func (h ProofHash) MarshalJSON() ([]byte, error) { return json.Marshal(h.Hex()) }

// UnmarshalJSON accepts the 0x-prefixed hex form written by MarshalJSON.
func (h *ProofHash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("proof hash: %w", err)
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return fmt.Errorf("proof hash: %w", err)
	}
	if len(raw) != len(h) {
		return fmt.Errorf("proof hash: want %d bytes, got %d", len(h), len(raw))
	}
	copy(h[:], raw)
	return nil
}

// Verification is a platform-specific proof attached to a passport.
// Revoked verifications stay on record with Active=false.
type Verification struct {
	Identifier    string    `json:"identifier"`
	VerifiedAt    time.Time `json:"verified_at"`
	ProofHash     ProofHash `json:"proof_hash"`
	Active        bool      `json:"active"`
	PointsAwarded *bool     `json:"points_awarded,omitempty"` // nil when the registry schema predates the field
}

// Passport is the aggregate identity a handle resolves to.
// Platforms and the keys of Verifications are always the same set; Platforms
// carries the registry's ordering.
type Passport struct {
	ID                id.PassportID           `json:"id"`
	Owner             common.Address          `json:"owner"`
	CreatedAt         time.Time               `json:"created_at"`
	VerificationCount int64                   `json:"verification_count"`
	Category          string                  `json:"category"`
	TotalPoints       int64                   `json:"total_points"`
	ReferralCode      string                  `json:"referral_code"`
	TotalReferrals    int64                   `json:"total_referrals"`
	Platforms         []string                `json:"platforms"`
	Verifications     map[string]Verification `json:"verifications"`
}

// Verification returns the verification recorded for platform.
func (p *Passport) Verification(platform string) (Verification, bool) {
	v, ok := p.Verifications[platform]
	return v, ok
}

// ActivePlatforms returns the platforms whose verification is active, in registry order.
func (p *Passport) ActivePlatforms() []string {
	active := make([]string, 0, len(p.Platforms))
	for _, platform := range p.Platforms {
		if v, ok := p.Verifications[platform]; ok && v.Active {
			active = append(active, platform)
		}
	}
	return active
}

// PlatformVerification pairs a platform name with its verification.
type PlatformVerification struct {
	Platform string `json:"platform"`
	Verification
}

// PunishmentPolicy describes the penalty a platform applies on revocation.
type PunishmentPolicy struct {
	Enabled    bool  `json:"enabled"`
	PeriodDays int64 `json:"period_days"`
}

// PlatformConfig is the platform registry's view of one platform.
type PlatformConfig struct {
	Platform          string           `json:"platform"`
	Supported         bool             `json:"supported"`
	PlatformType      string           `json:"platform_type"`
	RequiredPlatforms []string         `json:"required_platforms"`
	PointReward       int64            `json:"point_reward"`
	Punishment        PunishmentPolicy `json:"punishment"`
}

// DependencyCheck is the result of validating a platform's prerequisites.
type DependencyCheck struct {
	Platform string   `json:"platform"`
	Valid    bool     `json:"valid"`
	Missing  []string `json:"missing"`
}

// PointBreakdown is reported as-is by the rewards source. Total is computed
// upstream and is not reconciled against the components.
type PointBreakdown struct {
	Holding  int64 `json:"holding"`
	Platform int64 `json:"platform"`
	Referral int64 `json:"referral"`
	Total    int64 `json:"total"`
}

// PointsSource tells callers whether a value came from the rewards source or
// was reconstructed from the base passport.
type PointsSource string

const (
	PointsFromRewards  PointsSource = "rewards"
	PointsFromPassport PointsSource = "passport"
)

// Points is a passport's point total together with its provenance.
type Points struct {
	Total  int64        `json:"total"`
	Source PointsSource `json:"source"`
}

// ReferralInfo describes a passport's referral standing. ReferredBy is the
// zero address when nobody referred the owner.
type ReferralInfo struct {
	ReferralCode     string         `json:"referral_code"`
	ReferredBy       common.Address `json:"referred_by"`
	TotalReferrals   int64          `json:"total_referrals"`
	ReferralEarnings int64          `json:"referral_earnings"`
	Source           PointsSource   `json:"source"`
}

// HasReferrer reports whether ReferredBy names an account.
func (r ReferralInfo) HasReferrer() bool {
	return r.ReferredBy != (common.Address{})
}

// ReferralValidation is the rewards source's verdict on a referral code.
type ReferralValidation struct {
	Code  string        `json:"code"`
	Valid bool          `json:"valid"`
	Owner id.PassportID `json:"owner_passport_id,omitempty"`
}

// PointConfig holds the rewards source's point parameters.
type PointConfig struct {
	ReferrerReward    int64 `json:"referrer_reward"`
	RefereeReward     int64 `json:"referee_reward"`
	HoldingReward     int64 `json:"holding_reward"`
	HoldingPeriodDays int64 `json:"holding_period_days"`
}

// HistoryEntry is one archived verification event. RevokedAt is nil when the
// verification was never revoked.
type HistoryEntry struct {
	Identifier   string     `json:"identifier"`
	VerifiedAt   time.Time  `json:"verified_at"`
	RevokedAt    *time.Time `json:"revoked_at"`
	ProofHash    ProofHash  `json:"proof_hash"`
	WasRevoked   bool       `json:"was_revoked"`
	RevokeReason string     `json:"revoke_reason,omitempty"`
}

// PlatformHistory aggregates the archive's counters for one platform.
type PlatformHistory struct {
	Platform           string     `json:"platform"`
	TotalVerifications int64      `json:"total_verifications"`
	TotalRevocations   int64      `json:"total_revocations"`
	FirstVerifiedAt    *time.Time `json:"first_verified_at"`
	LastVerifiedAt     *time.Time `json:"last_verified_at"`
}

// IdentifierMatch answers whether a platform identifier is claimed by a passport.
type IdentifierMatch struct {
	Platform   string        `json:"platform"`
	Identifier string        `json:"identifier"`
	Verified   bool          `json:"verified"`
	PassportID id.PassportID `json:"passport_id,omitempty"`
}
