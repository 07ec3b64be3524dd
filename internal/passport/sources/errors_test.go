package sources

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passport/internal/sentinel"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{name: "deadline", err: context.DeadlineExceeded, want: ErrorTimeout},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", sentinel.ErrNotFound), want: ErrorNotFound},
		{name: "unavailable", err: sentinel.ErrUnavailable, want: ErrorSourceOutage},
		{name: "invalid input", err: sentinel.ErrInvalidInput, want: ErrorBadData},
		{name: "wrong contract", err: sentinel.ErrMismatch, want: ErrorContractMismatch},
		{name: "anything else", err: errors.New("boom"), want: ErrorInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(KindRewards, "getPoints", tt.err)
			var se *SourceError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.want, se.Category)
			assert.Equal(t, KindRewards, se.Source)
			assert.Equal(t, "getPoints", se.Op)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassifyKeepsExistingCategory(t *testing.T) {
	original := NewSourceError(ErrorContractMismatch, KindArchive, "getPlatformHistory", "no code", nil)
	err := Classify(KindRewards, "other", fmt.Errorf("wrapped: %w", original))
	assert.Same(t, original, err)
	assert.Nil(t, Classify(KindRewards, "op", nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound(KindRegistry, "getPassport", "no passport")))
	assert.False(t, IsNotFound(errors.New("not found")), "raw text is never inspected")
	assert.False(t, IsNotFound(nil))
	assert.Equal(t, ErrorInternal, CategoryOf(errors.New("x")))
}

func TestSourceErrorMessage(t *testing.T) {
	err := NewSourceError(ErrorTimeout, KindLeaderboard, "isRanked", "call abandoned", context.DeadlineExceeded)
	assert.Equal(t, "source leaderboard.isRanked [timeout]: call abandoned: context deadline exceeded", err.Error())
}
