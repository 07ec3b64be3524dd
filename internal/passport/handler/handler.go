package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"passport/internal/passport/models"
	"passport/internal/passport/service"
	"passport/internal/passport/sources"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/httputil"
	"passport/pkg/platform/middleware/request"
)

// Service defines the passport read operations served over HTTP.
type Service interface {
	GetPassport(ctx context.Context, handle string) (*models.Passport, error)
	HasPassport(ctx context.Context, handle string) (bool, error)
	GetUserVerifications(ctx context.Context, handle string) ([]models.PlatformVerification, error)
	GetVerification(ctx context.Context, handle, platform string) (*models.Verification, error)
	GetVerificationHistory(ctx context.Context, handle, platform string) ([]models.HistoryEntry, error)
	GetPlatformHistory(ctx context.Context, handle, platform string) (*models.PlatformHistory, error)
	ValidatePlatformDependencies(ctx context.Context, handle, platform string) (*models.DependencyCheck, error)
	GetProfile(ctx context.Context, handle string) (*models.Profile, error)
	GetLeaderboardSnapshot(ctx context.Context, handle string) (*models.LeaderboardSnapshot, error)
	GetProofHashes(ctx context.Context, handle string) (*models.ProofHashes, error)
	GetVerificationStrength(ctx context.Context, handle string) (*models.VerificationStrength, error)
	GetBasicVerificationStrength(ctx context.Context, handle string) (*models.VerificationStrength, error)
	GetPoints(ctx context.Context, handle string) (*models.Points, error)
	GetPointBreakdown(ctx context.Context, handle string) (*models.PointBreakdown, error)
	GetReferralInfo(ctx context.Context, handle string) (*models.ReferralInfo, error)
	GetPassportEntry(ctx context.Context, handle, category string) (*models.LeaderboardEntry, error)
	ScanByCategory(ctx context.Context, category string, limit int, startID id.PassportID) (models.ScanResult, error)
	GetSupportedCategories(ctx context.Context) ([]string, error)
	GetCategoryStats(ctx context.Context, category string) (*models.CategoryStats, error)
	GetSupportedPlatforms(ctx context.Context) ([]string, error)
	GetPlatformConfig(ctx context.Context, platform string) (*models.PlatformConfig, error)
	GetTopEntries(ctx context.Context, category string, count int) ([]models.LeaderboardEntry, error)
	IsIdentifierVerified(ctx context.Context, platform, identifier string) (*models.IdentifierMatch, error)
	ValidateReferralCode(ctx context.Context, code string) (*models.ReferralValidation, error)
	GetPointConfig(ctx context.Context) (*models.PointConfig, error)
	Health() service.Health
}

var (
	errNoPassport = dErrors.New(dErrors.CodeNoIdentity, "no passport for handle")
	errNotServed  = dErrors.New(dErrors.CodeNotFound, "not available from the bound sources")
)

// Handler handles passport endpoints.
type Handler struct {
	logger    *slog.Logger
	passports Service
}

// New creates a new passport Handler.
func New(passports Service, logger *slog.Logger) *Handler {
	if passports == nil {
		panic("handler: passport service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		passports: passports,
	}
}

// Register registers the passport routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/passports/{handle}", func(r chi.Router) {
		r.Get("/", h.handleGetPassport)
		r.Get("/exists", h.handleHasPassport)
		r.Get("/verifications", h.handleGetVerifications)
		r.Get("/verifications/{platform}", h.handleGetVerification)
		r.Get("/verifications/{platform}/history", h.handleGetVerificationHistory)
		r.Get("/verifications/{platform}/summary", h.handleGetPlatformHistory)
		r.Get("/verifications/{platform}/dependencies", h.handleValidateDependencies)
		r.Get("/profile", h.handleGetProfile)
		r.Get("/leaderboard", h.handleGetLeaderboard)
		r.Get("/leaderboard/entry", h.handleGetPassportEntry)
		r.Get("/proofs", h.handleGetProofHashes)
		r.Get("/strength", h.handleGetStrength)
		r.Get("/points", h.handleGetPoints)
		r.Get("/points/breakdown", h.handleGetPointBreakdown)
		r.Get("/referral", h.handleGetReferral)
	})

	r.Get("/scan", h.handleScan)
	r.Get("/categories", h.handleGetCategories)
	r.Get("/categories/{category}/stats", h.handleGetCategoryStats)
	r.Get("/platforms", h.handleGetPlatforms)
	r.Get("/platforms/{platform}", h.handleGetPlatformConfig)
	r.Get("/leaderboard/top", h.handleGetTopEntries)
	r.Get("/identifiers/{platform}/{identifier}", h.handleIsIdentifierVerified)
	r.Get("/referrals/{code}", h.handleValidateReferralCode)
	r.Get("/points/config", h.handleGetPointConfig)
	r.Get("/session", h.handleGetSession)
}

func (h *Handler) handleGetPassport(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.handleParam(w, r)
	if !ok {
		return
	}
	p, err := h.passports.GetPassport(r.Context(), handle)
	reply(h, w, r, "get passport", p, err, errNoPassport)
}

type existsResponse struct {
	HasPassport bool `json:"has_passport"`
}

func (h *Handler) handleHasPassport(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.handleParam(w, r)
	if !ok {
		return
	}
	has, err := h.passports.HasPassport(r.Context(), handle)
	if err != nil {
		h.writeError(w, r, "check passport", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, existsResponse{HasPassport: has})
}

func (h *Handler) handleGetVerifications(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.handleParam(w, r)
	if !ok {
		return
	}
	list, err := h.passports.GetUserVerifications(r.Context(), handle)
	if err != nil {
		h.writeError(w, r, "list verifications", err)
		return
	}
	if list == nil {
		list = []models.PlatformVerification{}
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetVerification(w http.ResponseWriter, r *http.Request) {
	handle, platform, ok := h.handleAndPlatform(w, r)
	if !ok {
		return
	}
	v, err := h.passports.GetVerification(r.Context(), handle, platform)
	reply(h, w, r, "get verification", v, err, errNotServed)
}

func (h *Handler) handleGetVerificationHistory(w http.ResponseWriter, r *http.Request) {
	handle, platform, ok := h.handleAndPlatform(w, r)
	if !ok {
		return
	}
	history, err := h.passports.GetVerificationHistory(r.Context(), handle, platform)
	if err != nil {
		h.writeError(w, r, "get verification history", err)
		return
	}
	if history == nil {
		httputil.WriteError(w, errNotServed)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, history)
}

func (h *Handler) handleGetPlatformHistory(w http.ResponseWriter, r *http.Request) {
	handle, platform, ok := h.handleAndPlatform(w, r)
	if !ok {
		return
	}
	summary, err := h.passports.GetPlatformHistory(r.Context(), handle, platform)
	reply(h, w, r, "get platform history", summary, err, errNotServed)
}

func (h *Handler) handleValidateDependencies(w http.ResponseWriter, r *http.Request) {
	handle, platform, ok := h.handleAndPlatform(w, r)
	if !ok {
		return
	}
	check, err := h.passports.ValidatePlatformDependencies(r.Context(), handle, platform)
	reply(h, w, r, "validate platform dependencies", check, err, errNotServed)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.handleParam(w, r)
	if !ok {
		return
	}
	profile, err := h.passports.GetProfile(r.Context(), handle)
	reply(h, w, r, "get profile", profile, err, errNoPassport)
}

func (h *Handler) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.handleParam(w, r)
	if !ok {
		return
	}
	snapshot, err := h.passports.GetLeaderboardSnapshot(r.Context(), handle)
	reply(h, w, r, "get leaderboard snapshot", snapshot, err, errNoPassport)
}

func (h *Handler) handleGetPassportEntry(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.handleParam(w, r)
	if !ok {
		return
	}
	category, err := optionalCategory(r)
	if err != nil {
		h.writeError(w, r, "get leaderboard entry", err)
		return
	}
	entry, err := h.passports.GetPassportEntry(r.Context(), handle, category)
	reply(h, w, r, "get leaderboard entry", entry, err, errNotServed)
}

func (h *Handler) handleGetProofHashes(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.handleParam(w, r)
	if !ok {
		return
	}
	proofs, err := h.passports.GetProofHashes(r.Context(), handle)
	reply(h, w, r, "get proof hashes", proofs, err, errNotServed)
}

func (h *Handler) handleGetStrength(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.handleParam(w, r)
	if !ok {
		return
	}
	variant, err := strengthVariant(r)
	if err != nil {
		h.writeError(w, r, "get verification strength", err)
		return
	}
	var vs *models.VerificationStrength
	if variant == variantBasic {
		vs, err = h.passports.GetBasicVerificationStrength(r.Context(), handle)
	} else {
		vs, err = h.passports.GetVerificationStrength(r.Context(), handle)
	}
	reply(h, w, r, "get verification strength", vs, err, errNoPassport)
}

func (h *Handler) handleGetPoints(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.handleParam(w, r)
	if !ok {
		return
	}
	points, err := h.passports.GetPoints(r.Context(), handle)
	reply(h, w, r, "get points", points, err, errNoPassport)
}

func (h *Handler) handleGetPointBreakdown(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.handleParam(w, r)
	if !ok {
		return
	}
	breakdown, err := h.passports.GetPointBreakdown(r.Context(), handle)
	reply(h, w, r, "get point breakdown", breakdown, err, errNotServed)
}

func (h *Handler) handleGetReferral(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.handleParam(w, r)
	if !ok {
		return
	}
	info, err := h.passports.GetReferralInfo(r.Context(), handle)
	reply(h, w, r, "get referral info", info, err, errNoPassport)
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	req, err := parseScanRequest(r)
	if err != nil {
		h.writeError(w, r, "scan category", err)
		return
	}
	result, err := h.passports.ScanByCategory(r.Context(), req.Category, req.Limit, req.Start)
	if err != nil {
		h.writeError(w, r, "scan category", err)
		return
	}
	if result.Matches == nil {
		result.Matches = []models.ScanMatch{}
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.passports.GetSupportedCategories(r.Context())
	writeList(h, w, r, "list categories", categories, err)
}

func (h *Handler) handleGetCategoryStats(w http.ResponseWriter, r *http.Request) {
	category, err := pathValue(r, "category", maxCategoryLength)
	if err != nil {
		h.writeError(w, r, "get category stats", err)
		return
	}
	stats, err := h.passports.GetCategoryStats(r.Context(), category)
	reply(h, w, r, "get category stats", stats, err, errNotServed)
}

func (h *Handler) handleGetPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.passports.GetSupportedPlatforms(r.Context())
	if err != nil {
		h.writeError(w, r, "list platforms", err)
		return
	}
	if platforms == nil {
		httputil.WriteError(w, errNotServed)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, platforms)
}

func (h *Handler) handleGetPlatformConfig(w http.ResponseWriter, r *http.Request) {
	platform, err := pathValue(r, "platform", maxPlatformLength)
	if err != nil {
		h.writeError(w, r, "get platform config", err)
		return
	}
	cfg, err := h.passports.GetPlatformConfig(r.Context(), platform)
	reply(h, w, r, "get platform config", cfg, err, errNotServed)
}

func (h *Handler) handleGetTopEntries(w http.ResponseWriter, r *http.Request) {
	req, err := parseTopRequest(r)
	if err != nil {
		h.writeError(w, r, "get top entries", err)
		return
	}
	entries, err := h.passports.GetTopEntries(r.Context(), req.Category, req.Count)
	if err != nil {
		h.writeError(w, r, "get top entries", err)
		return
	}
	if entries == nil {
		httputil.WriteError(w, errNotServed)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleIsIdentifierVerified(w http.ResponseWriter, r *http.Request) {
	platform, err := pathValue(r, "platform", maxPlatformLength)
	if err != nil {
		h.writeError(w, r, "check identifier", err)
		return
	}
	identifier, err := pathValue(r, "identifier", maxIdentifierLength)
	if err != nil {
		h.writeError(w, r, "check identifier", err)
		return
	}
	match, err := h.passports.IsIdentifierVerified(r.Context(), platform, identifier)
	reply(h, w, r, "check identifier", match, err, errNotServed)
}

func (h *Handler) handleValidateReferralCode(w http.ResponseWriter, r *http.Request) {
	code, err := pathValue(r, "code", maxReferralCodeLength)
	if err != nil {
		h.writeError(w, r, "validate referral code", err)
		return
	}
	validation, err := h.passports.ValidateReferralCode(r.Context(), code)
	reply(h, w, r, "validate referral code", validation, err, errNotServed)
}

func (h *Handler) handleGetPointConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.passports.GetPointConfig(r.Context())
	reply(h, w, r, "get point config", cfg, err, errNotServed)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.passports.Health())
}

// reply writes v, or absent when the service returned nothing.
func reply[T any](h *Handler, w http.ResponseWriter, r *http.Request, op string, v *T, err error, absent error) {
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	if v == nil {
		httputil.WriteError(w, absent)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func writeList(h *Handler, w http.ResponseWriter, r *http.Request, op string, list []string, err error) {
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	if list == nil {
		list = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// writeError logs and writes err. Registry failures arrive as *SourceError
// and are translated here; domain errors pass through.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	var se *sources.SourceError
	if errors.As(err, &se) {
		h.logger.ErrorContext(ctx, "identity registry call failed",
			"request_id", request.ID(ctx),
			"op", op,
			"source", se.Source.String(),
			"category", string(se.Category),
			"error", err,
		)
		code := dErrors.CodeUpstreamFailure
		if se.Category == sources.ErrorTimeout {
			code = dErrors.CodeTimeout
		}
		httputil.WriteError(w, dErrors.Wrap(err, code, se.Message))
		return
	}

	var de *dErrors.Error
	if errors.As(err, &de) && de.Code != dErrors.CodeInternal {
		h.logger.WarnContext(ctx, "request rejected",
			"request_id", request.ID(ctx),
			"op", op,
			"code", string(de.Code),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.ErrorContext(ctx, "request failed",
		"request_id", request.ID(ctx),
		"op", op,
		"error", err,
	)
	httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "internal error"))
}
