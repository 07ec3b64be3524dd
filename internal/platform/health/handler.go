// Package health serves liveness, readiness and status probes. Readiness
// needs a bound passport session; mirror checks only degrade it.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"passport/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// CheckFunc returns nil if the dependency is healthy.
type CheckFunc func(ctx context.Context) error

type SessionReporter interface {
	Connected() bool
}

type check struct {
	name     string
	run      CheckFunc
	optional bool
}

type Handler struct {
	startTime    time.Time
	environment  string
	checkTimeout time.Duration

	mu     sync.RWMutex
	checks []check
}

func New(environment string) *Handler {
	return &Handler{
		startTime:    time.Now(),
		environment:  environment,
		checkTimeout: 2 * time.Second,
	}
}

// RegisterCheck adds a check that must pass for the service to be ready.
func (h *Handler) RegisterCheck(name string, fn CheckFunc) {
	h.add(check{name: name, run: fn})
}

// RegisterOptional adds a check whose failure reports "degraded" but keeps
// the service ready, the way an unavailable optional source only blanks facets.
func (h *Handler) RegisterOptional(name string, fn CheckFunc) {
	h.add(check{name: name, run: fn, optional: true})
}

func (h *Handler) add(c check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, c)
}

// RegisterSession makes readiness depend on a bound session.
func (h *Handler) RegisterSession(s SessionReporter) {
	h.RegisterCheck("session", func(context.Context) error {
		if !s.Connected() {
			return errNotConnected
		}
		return nil
	})
}

type healthError string

func (e healthError) Error() string { return string(e) }

const errNotConnected = healthError("no session bound")

func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

type LivenessResponse struct {
	Status string `json:"status"`
}

func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

// ReadinessResponse status is ready, degraded or not_ready.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleReadiness runs the checks concurrently under one timeout.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	checks := append([]check(nil), h.checks...)
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(r.Context(), h.checkTimeout)
	defer cancel()

	failures := make([]error, len(checks))
	var g errgroup.Group
	for i, c := range checks {
		g.Go(func() error {
			failures[i] = c.run(ctx)
			return nil
		})
	}
	_ = g.Wait()

	response := ReadinessResponse{Status: "ready", Checks: make(map[string]string, len(checks))}
	for i, c := range checks {
		err := failures[i]
		switch {
		case err == nil:
			response.Checks[c.name] = "up"
			continue
		case c.optional:
			response.Checks[c.name] = "degraded: " + err.Error()
			if response.Status == "ready" {
				response.Status = "degraded"
			}
		default:
			response.Checks[c.name] = "down: " + err.Error()
			response.Status = "not_ready"
		}
	}

	status := http.StatusOK
	if response.Status == "not_ready" {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, response)
}

type StatusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}
