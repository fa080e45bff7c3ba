package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dislogroup/salesflow/internal/utils"
)

type scriptedProvider struct {
	calls   int
	answers []string
	errs    []error
}

func (p *scriptedProvider) Complete(_ context.Context, _ string) (string, error) {
	i := p.calls
	p.calls++
	if i >= len(p.errs) {
		i = len(p.errs) - 1
	}
	return p.answers[i], p.errs[i]
}

func (p *scriptedProvider) Close() error { return nil }

func unavailable() error {
	return utils.E(utils.CodeUnavailable, "test", "overloaded", nil)
}

func TestRetryExhaustsOnPersistentOverload(t *testing.T) {
	p := &scriptedProvider{
		answers: []string{"", "", ""},
		errs:    []error{unavailable(), unavailable(), unavailable()},
	}
	r := NewRetry(p, 3, time.Millisecond)

	start := time.Now()
	_, err := r.Complete(context.Background(), "q")

	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
	assert.Equal(t, 3, p.calls)
	// waits 1×base then 2×base before attempts 2 and 3
	assert.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond)
}

func TestRetrySucceedsOnSecondAttempt(t *testing.T) {
	p := &scriptedProvider{
		answers: []string{"", "deuxieme"},
		errs:    []error{unavailable(), nil},
	}
	r := NewRetry(p, 3, time.Millisecond)

	out, err := r.Complete(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, "deuxieme", out)
	assert.Equal(t, 2, p.calls)
}

func TestRetryDoesNotRetryFatalFailures(t *testing.T) {
	p := &scriptedProvider{
		answers: []string{""},
		errs:    []error{utils.E(utils.CodeBadGateway, "test", "boom", nil)},
	}
	r := NewRetry(p, 3, time.Millisecond)

	_, err := r.Complete(context.Background(), "q")

	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeBadGateway))
	assert.Equal(t, 1, p.calls)
}

func TestRetrySleepIsCancellable(t *testing.T) {
	p := &scriptedProvider{
		answers: []string{""},
		errs:    []error{unavailable()},
	}
	r := NewRetry(p, 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := r.Complete(ctx, "q")
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, utils.IsCode(err, utils.CodeCanceled))
	case <-time.After(2 * time.Second):
		t.Fatal("retry sleep did not abort on cancellation")
	}
	assert.Equal(t, 1, p.calls)
}
