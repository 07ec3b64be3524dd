package contract

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// RegistryABI is the read surface of the passport registry contract.
const RegistryABI = `[
{"type":"function","name":"getPassportByOwner","stateMutability":"view",
 "inputs":[{"name":"owner","type":"address"}],
 "outputs":[{"name":"passportId","type":"uint256"}]},
{"type":"function","name":"getPassport","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"}],
 "outputs":[{"name":"owner","type":"address"},{"name":"createdAt","type":"uint256"},{"name":"verificationCount","type":"uint256"},{"name":"category","type":"string"},{"name":"totalPoints","type":"uint256"},{"name":"referralCode","type":"string"},{"name":"totalReferrals","type":"uint256"}]},
{"type":"function","name":"getVerifiedPlatforms","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"}],
 "outputs":[{"name":"platforms","type":"string[]"}]},
{"type":"function","name":"getVerification","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"},{"name":"platform","type":"string"}],
 "outputs":[{"name":"identifier","type":"string"},{"name":"verifiedAt","type":"uint256"},{"name":"proofHash","type":"bytes32"},{"name":"isActive","type":"bool"},{"name":"pointsAwarded","type":"bool"}]},
{"type":"function","name":"isIdentifierVerified","stateMutability":"view",
 "inputs":[{"name":"platform","type":"string"},{"name":"identifier","type":"string"}],
 "outputs":[{"name":"verified","type":"bool"},{"name":"passportId","type":"uint256"}]},
{"type":"function","name":"getSupportedCategories","stateMutability":"view",
 "inputs":[],
 "outputs":[{"name":"categories","type":"string[]"}]}
]`

// PlatformsABI is the read surface of the platform configuration contract.
const PlatformsABI = `[
{"type":"function","name":"getPlatformConfig","stateMutability":"view",
 "inputs":[{"name":"platform","type":"string"}],
 "outputs":[{"name":"isSupported","type":"bool"},{"name":"platformType","type":"string"},{"name":"requiredPlatforms","type":"string[]"},{"name":"pointReward","type":"uint256"},{"name":"punishmentEnabled","type":"bool"},{"name":"punishmentPeriodDays","type":"uint256"}]},
{"type":"function","name":"getSupportedPlatforms","stateMutability":"view",
 "inputs":[],
 "outputs":[{"name":"platforms","type":"string[]"}]},
{"type":"function","name":"validatePlatformDependencies","stateMutability":"view",
 "inputs":[{"name":"platform","type":"string"},{"name":"verifiedPlatforms","type":"string[]"}],
 "outputs":[{"name":"valid","type":"bool"},{"name":"missing","type":"string[]"}]}
]`

// ArchiveABI is the read surface of the verification archive contract.
const ArchiveABI = `[
{"type":"function","name":"getVerificationHistory","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"},{"name":"platform","type":"string"}],
 "outputs":[{"name":"history","type":"tuple[]","components":[{"name":"identifier","type":"string"},{"name":"verifiedAt","type":"uint256"},{"name":"revokedAt","type":"uint256"},{"name":"proofHash","type":"bytes32"},{"name":"wasRevoked","type":"bool"},{"name":"revokeReason","type":"string"}]}]},
{"type":"function","name":"getPlatformHistory","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"},{"name":"platform","type":"string"}],
 "outputs":[{"name":"totalVerifications","type":"uint256"},{"name":"totalRevocations","type":"uint256"},{"name":"firstVerifiedAt","type":"uint256"},{"name":"lastVerifiedAt","type":"uint256"}]}
]`

// RewardsABI is the read surface of the points and referral contract.
const RewardsABI = `[
{"type":"function","name":"getPoints","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"}],
 "outputs":[{"name":"points","type":"uint256"}]},
{"type":"function","name":"getPointBreakdown","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"}],
 "outputs":[{"name":"holdingPoints","type":"uint256"},{"name":"platformPoints","type":"uint256"},{"name":"referralPoints","type":"uint256"},{"name":"totalPoints","type":"uint256"}]},
{"type":"function","name":"getPlatformPoints","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"},{"name":"platform","type":"string"}],
 "outputs":[{"name":"points","type":"uint256"}]},
{"type":"function","name":"getReferralInfo","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"}],
 "outputs":[{"name":"referralCode","type":"string"},{"name":"referredBy","type":"address"},{"name":"totalReferrals","type":"uint256"},{"name":"referralEarnings","type":"uint256"}]},
{"type":"function","name":"validateReferralCode","stateMutability":"view",
 "inputs":[{"name":"code","type":"string"}],
 "outputs":[{"name":"valid","type":"bool"},{"name":"ownerPassportId","type":"uint256"}]},
{"type":"function","name":"getPointConfig","stateMutability":"view",
 "inputs":[],
 "outputs":[{"name":"referrerPoints","type":"uint256"},{"name":"refereePoints","type":"uint256"},{"name":"holdingPointsPerPeriod","type":"uint256"},{"name":"holdingPeriodDays","type":"uint256"}]}
]`

const entryComponents = `[{"name":"passportId","type":"uint256"},{"name":"owner","type":"address"},{"name":"totalScore","type":"uint256"},{"name":"holdingScore","type":"uint256"},{"name":"platformScore","type":"uint256"},{"name":"referralScore","type":"uint256"},{"name":"verificationCount","type":"uint256"},{"name":"category","type":"string"},{"name":"lastUpdated","type":"uint256"},{"name":"rank","type":"uint256"},{"name":"previousRank","type":"uint256"}]`

// LeaderboardABI is the read surface of the ranking contract.
const LeaderboardABI = `[
{"type":"function","name":"getTopEntries","stateMutability":"view",
 "inputs":[{"name":"count","type":"uint256"}],
 "outputs":[{"name":"entries","type":"tuple[]","components":` + entryComponents + `}]},
{"type":"function","name":"getTopEntriesByCategory","stateMutability":"view",
 "inputs":[{"name":"category","type":"string"},{"name":"count","type":"uint256"}],
 "outputs":[{"name":"entries","type":"tuple[]","components":` + entryComponents + `}]},
{"type":"function","name":"getPassportEntry","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"}],
 "outputs":[{"name":"entry","type":"tuple","components":` + entryComponents + `}]},
{"type":"function","name":"getPassportCategoryEntry","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"},{"name":"category","type":"string"}],
 "outputs":[{"name":"entry","type":"tuple","components":` + entryComponents + `}]},
{"type":"function","name":"getPassportRank","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"}],
 "outputs":[{"name":"rank","type":"uint256"}]},
{"type":"function","name":"getPassportCategoryRank","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"},{"name":"category","type":"string"}],
 "outputs":[{"name":"rank","type":"uint256"}]},
{"type":"function","name":"getPassportScore","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"}],
 "outputs":[{"name":"score","type":"uint256"}]},
{"type":"function","name":"getPassportCategoryScore","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"},{"name":"category","type":"string"}],
 "outputs":[{"name":"score","type":"uint256"}]},
{"type":"function","name":"isRanked","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"}],
 "outputs":[{"name":"ranked","type":"bool"}]},
{"type":"function","name":"isRankedInCategory","stateMutability":"view",
 "inputs":[{"name":"passportId","type":"uint256"},{"name":"category","type":"string"}],
 "outputs":[{"name":"ranked","type":"bool"}]},
{"type":"function","name":"getCategoryStats","stateMutability":"view",
 "inputs":[{"name":"category","type":"string"}],
 "outputs":[{"name":"totalParticipants","type":"uint256"},{"name":"totalScore","type":"uint256"},{"name":"topScore","type":"uint256"},{"name":"lastUpdated","type":"uint256"}]}
]`

var (
	registryABI    = mustParse(RegistryABI)
	platformsABI   = mustParse(PlatformsABI)
	archiveABI     = mustParse(ArchiveABI)
	rewardsABI     = mustParse(RewardsABI)
	leaderboardABI = mustParse(LeaderboardABI)
)

func mustParse(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("contract: invalid ABI: " + err.Error())
	}
	return parsed
}
