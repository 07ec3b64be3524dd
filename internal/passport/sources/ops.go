package sources

// Operation names, shared by every adapter so metrics, spans, and failure
// injection agree on one vocabulary. They match the remote method names.
const (
	OpGetPassportByOwner      = "getPassportByOwner"
	OpGetPassport             = "getPassport"
	OpGetVerifiedPlatforms    = "getVerifiedPlatforms"
	OpGetVerification         = "getVerification"
	OpIsIdentifierVerified    = "isIdentifierVerified"
	OpGetSupportedCategories  = "getSupportedCategories"
	OpGetPlatformConfig       = "getPlatformConfig"
	OpGetSupportedPlatforms   = "getSupportedPlatforms"
	OpValidateDependencies    = "validatePlatformDependencies"
	OpGetVerificationHistory  = "getVerificationHistory"
	OpGetPlatformHistory      = "getPlatformHistory"
	OpGetPoints               = "getPoints"
	OpGetPointBreakdown       = "getPointBreakdown"
	OpGetPlatformPoints       = "getPlatformPoints"
	OpGetReferralInfo         = "getReferralInfo"
	OpValidateReferralCode    = "validateReferralCode"
	OpGetPointConfig          = "getPointConfig"
	OpGetTopEntries           = "getTopEntries"
	OpGetTopEntriesByCategory = "getTopEntriesByCategory"
	OpGetPassportEntry        = "getPassportEntry"
	OpGetPassportCatEntry     = "getPassportCategoryEntry"
	OpGetPassportRank         = "getPassportRank"
	OpGetPassportCatRank      = "getPassportCategoryRank"
	OpGetPassportScore        = "getPassportScore"
	OpGetPassportCatScore     = "getPassportCategoryScore"
	OpIsRanked                = "isRanked"
	OpIsRankedInCategory      = "isRankedInCategory"
	OpGetCategoryStats        = "getCategoryStats"
)
