package health

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_AllHealthy(t *testing.T) {
	r := NewRegistry()
	r.Register("postgres", func(ctx context.Context) error { return nil })
	r.Register("redis", func(ctx context.Context) error { return nil })

	rep := r.Run(context.Background(), time.Second)
	assert.True(t, rep.Healthy())
	assert.Equal(t, StatusUp, rep.Checks["postgres"].Status)
	assert.Equal(t, StatusUp, rep.Checks["redis"].Status)
	assert.Empty(t, rep.Down())
	assert.False(t, rep.Timestamp.IsZero())
}

func TestRun_OneDown(t *testing.T) {
	r := NewRegistry()
	r.Register("postgres", func(ctx context.Context) error { return nil })
	r.Register("kafka", func(ctx context.Context) error { return fmt.Errorf("connection refused") })

	rep := r.Run(context.Background(), time.Second)
	assert.False(t, rep.Healthy())
	assert.Equal(t, StatusDown, rep.Status)
	assert.Equal(t, "connection refused", rep.Checks["kafka"].Error)
	assert.Equal(t, []string{"kafka"}, rep.Down())
}

func TestRun_FailureDoesNotCancelOtherChecks(t *testing.T) {
	r := NewRegistry()
	r.Register("kafka", func(ctx context.Context) error { return fmt.Errorf("connection refused") })
	r.Register("postgres", func(ctx context.Context) error {
		select {
		case <-time.After(30 * time.Millisecond):
			return ctx.Err()
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	rep := r.Run(context.Background(), time.Second)
	require.Len(t, rep.Checks, 2)
	assert.Equal(t, StatusUp, rep.Checks["postgres"].Status)
	assert.Equal(t, []string{"kafka"}, rep.Down())
}

func TestRun_NoCheckers(t *testing.T) {
	rep := NewRegistry().Run(context.Background(), time.Second)
	assert.True(t, rep.Healthy())
	assert.Empty(t, rep.Checks)
}

func TestRun_TimeoutBoundsEachCheck(t *testing.T) {
	r := NewRegistry()
	r.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	start := time.Now()
	rep := r.Run(context.Background(), 20*time.Millisecond)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, StatusDown, rep.Checks["slow"].Status)
	assert.Contains(t, rep.Checks["slow"].Error, "deadline exceeded")
}

func TestRegister_Replaces(t *testing.T) {
	r := NewRegistry()
	r.Register("db", func(ctx context.Context) error { return fmt.Errorf("old") })
	r.Register("db", func(ctx context.Context) error { return nil })

	rep := r.Run(context.Background(), time.Second)
	assert.True(t, rep.Healthy())
}

func TestReport_WriteJSON(t *testing.T) {
	rep := Report{
		Status:    StatusDown,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Checks:    map[string]CheckResult{"redis": {Status: StatusDown, Error: "refused"}},
	}

	var buf bytes.Buffer
	require.NoError(t, rep.WriteJSON(&buf))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rep, decoded)
}
