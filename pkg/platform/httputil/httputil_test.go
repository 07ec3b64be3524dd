package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "passport/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "invalid handle",
			err:    dErrors.New(dErrors.CodeInvalidHandle, "handle must be an id or address"),
			status: http.StatusBadRequest,
			body:   `{"error":"invalid_handle","error_description":"handle must be an id or address"}`,
		},
		{
			name:   "no identity",
			err:    dErrors.New(dErrors.CodeNoIdentity, "no passport"),
			status: http.StatusNotFound,
			body:   `{"error":"no_identity","error_description":"no passport"}`,
		},
		{
			name:   "not connected",
			err:    dErrors.New(dErrors.CodeNotConnected, "connect first"),
			status: http.StatusServiceUnavailable,
			body:   `{"error":"not_connected","error_description":"connect first"}`,
		},
		{
			name:   "wrapped upstream failure keeps its code",
			err:    dErrors.Wrap(dErrors.New(dErrors.CodeUpstreamFailure, "registry down"), dErrors.CodeInternal, "get passport"),
			status: http.StatusBadGateway,
			body:   `{"error":"upstream_failure","error_description":"get passport"}`,
		},
		{
			name:   "rate limited",
			err:    fmt.Errorf("admit: %w", dErrors.New(dErrors.CodeRateLimited, "slow down")),
			status: http.StatusTooManyRequests,
			body:   `{"error":"rate_limit_exceeded","error_description":"slow down"}`,
		},
		{
			name:   "plain error hides detail",
			err:    errors.New("secret detail"),
			status: http.StatusInternalServerError,
			body:   `{"error":"internal_error"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}
