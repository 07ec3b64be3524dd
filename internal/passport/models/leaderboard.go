package models

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	id "passport/pkg/domain"
)

// Rank is a leaderboard position. The leaderboard reports 0 for passports
// that are not ranked, so 0 must never be read as first place.
type Rank uint64

const NotRanked Rank = 0

func (r Rank) IsRanked() bool { return r != NotRanked }

func (r Rank) String() string {
	if !r.IsRanked() {
		return "unranked"
	}
	return strconv.FormatUint(uint64(r), 10)
}

// MarshalJSON renders an unranked position as null.
func (r Rank) MarshalJSON() ([]byte, error) {
	if !r.IsRanked() {
		return []byte("null"), nil
	}
	return json.Marshal(uint64(r))
}

// LeaderboardEntry is a passport's row on the global or a category board.
type LeaderboardEntry struct {
	PassportID        id.PassportID  `json:"passport_id"`
	Owner             common.Address `json:"owner"`
	TotalScore        int64          `json:"total_score"`
	HoldingScore      int64          `json:"holding_score"`
	PlatformScore     int64          `json:"platform_score"`
	ReferralScore     int64          `json:"referral_score"`
	VerificationCount int64          `json:"verification_count"`
	Category          string         `json:"category"`
	LastUpdated       time.Time      `json:"last_updated"`
	Rank              Rank           `json:"rank"`
	PreviousRank      Rank           `json:"previous_rank"`
}

// CategoryStats aggregates a category board.
type CategoryStats struct {
	Category     string    `json:"category"`
	Participants int64     `json:"participants"`
	TotalScore   int64     `json:"total_score"`
	TopScore     int64     `json:"top_score"`
	LastUpdated  time.Time `json:"last_updated"`
}

// LeaderboardSnapshot is a passport's standing across the global board and its
// category board. Each facet is nil (or false/empty) when its source call
// could not be served.
type LeaderboardSnapshot struct {
	PassportID    id.PassportID     `json:"passport_id"`
	Category      string            `json:"category"`
	Global        *LeaderboardEntry `json:"global"`
	CategoryEntry *LeaderboardEntry `json:"category_entry"`
	Ranked        bool              `json:"ranked"`
	Categories    []string          `json:"categories"`
}
