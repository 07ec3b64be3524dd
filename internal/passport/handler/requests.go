package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/validation"
)

const (
	maxHandleLength       = validation.MaxHandleLength
	maxPlatformLength     = validation.MaxPlatformLength
	maxCategoryLength     = validation.MaxCategoryLength
	maxIdentifierLength   = validation.MaxIdentifierLength
	maxReferralCodeLength = validation.MaxReferralCodeLength

	defaultScanLimit = 10
	defaultTopCount  = 10

	variantFull  = "full"
	variantBasic = "basic"
)

// ScanRequest is the query of GET /scan.
type ScanRequest struct {
	Category string        `query:"category" validate:"notblank,max=64"`
	Limit    int           `query:"limit"`
	Start    id.PassportID `query:"start"`
}

// TopRequest is the query of GET /leaderboard/top.
type TopRequest struct {
	Category string `query:"category" validate:"max=64"`
	Count    int    `query:"count"`
}

// handleParam reads {handle}. Handle syntax is checked by the service.
func (h *Handler) handleParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	handle, err := pathValue(r, "handle", maxHandleLength)
	if err != nil {
		h.writeError(w, r, "read handle", err)
		return "", false
	}
	return handle, true
}

func (h *Handler) handleAndPlatform(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	handle, ok := h.handleParam(w, r)
	if !ok {
		return "", "", false
	}
	platform, err := pathValue(r, "platform", maxPlatformLength)
	if err != nil {
		h.writeError(w, r, "read platform", err)
		return "", "", false
	}
	return handle, platform, true
}

func pathValue(r *http.Request, name string, max int) (string, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, name+" is required")
	}
	if err := validation.CheckStringLength(name, value, max); err != nil {
		return "", err
	}
	return value, nil
}

func optionalCategory(r *http.Request) (string, error) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if err := validation.CheckStringLength("category", category, maxCategoryLength); err != nil {
		return "", err
	}
	return category, nil
}

func strengthVariant(r *http.Request) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("variant"))); v {
	case "", variantFull:
		return variantFull, nil
	case variantBasic:
		return variantBasic, nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "variant must be one of [full basic]")
	}
}

func parseScanRequest(r *http.Request) (ScanRequest, error) {
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"), "limit", defaultScanLimit)
	if err != nil {
		return ScanRequest{}, err
	}
	req := ScanRequest{
		Category: strings.TrimSpace(q.Get("category")),
		Limit:    limit,
		Start:    1,
	}
	if raw := strings.TrimSpace(q.Get("start")); raw != "" {
		start, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return ScanRequest{}, dErrors.New(dErrors.CodeBadRequest, "start must be a passport identifier")
		}
		req.Start = id.PassportID(start)
	}
	if err := validation.Validate(req); err != nil {
		return ScanRequest{}, err
	}
	if err := validation.CheckRange("limit", req.Limit, 1, validation.MaxScanLimit); err != nil {
		return ScanRequest{}, err
	}
	return req, nil
}

func parseTopRequest(r *http.Request) (TopRequest, error) {
	q := r.URL.Query()
	count, err := intParam(q.Get("count"), "count", defaultTopCount)
	if err != nil {
		return TopRequest{}, err
	}
	req := TopRequest{
		Category: strings.TrimSpace(q.Get("category")),
		Count:    count,
	}
	if err := validation.Validate(req); err != nil {
		return TopRequest{}, err
	}
	if err := validation.CheckRange("count", req.Count, 1, validation.MaxTopCount); err != nil {
		return TopRequest{}, err
	}
	return req, nil
}

func intParam(raw, name string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, name+" must be an integer")
	}
	return n, nil
}
