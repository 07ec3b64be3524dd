package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"passport/internal/passport/session"
	"passport/internal/passport/sources"
)

func TestRecordBindings(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.RecordBindings([]session.Binding{
		{Kind: sources.KindRegistry, Bound: true},
		{Kind: sources.KindRewards, Bound: false, Reason: "not configured"},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceBound.WithLabelValues("registry")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SourceBound.WithLabelValues("rewards")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsBound))
}

func TestObserveMirror(t *testing.T) {
	m := New(prometheus.NewRegistry())
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	m.ObserveMirror("leaderboard", 12, nil, start, start.Add(time.Second))
	m.ObserveMirror("leaderboard", 0, errors.New("redis down"), start, start.Add(time.Second))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MirrorRuns.WithLabelValues("leaderboard", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MirrorRuns.WithLabelValues("leaderboard", "error")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.MirrorEntries.WithLabelValues("leaderboard")), "failed run keeps the last count")
	assert.Equal(t, float64(start.Add(time.Second).Unix()), testutil.ToFloat64(m.MirrorLastSuccess.WithLabelValues("leaderboard")))
}
