package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/adler0/ragent/internal/config"
	"github.com/adler0/ragent/internal/log"
)

func TestProvideRateLimiter(t *testing.T) {
	t.Parallel()

	t.Run("zero disables throttling", func(t *testing.T) {
		t.Parallel()
		l := provideRateLimiter(&config.Config{RequestsPerMinute: 0})
		assert.Equal(t, rate.Inf, l.Limit())
	})

	t.Run("sixty per minute is one per second", func(t *testing.T) {
		t.Parallel()
		l := provideRateLimiter(&config.Config{RequestsPerMinute: 60})
		assert.InDelta(t, 1.0, float64(l.Limit()), 0.001)
		assert.Equal(t, 60, l.Burst())
	})
}

func TestCloseWithoutResources(t *testing.T) {
	t.Parallel()

	a := &App{Logger: log.NewNop()}
	assert.NoError(t, a.Close())
}

func TestSetupRejectsNilConfig(t *testing.T) {
	t.Parallel()

	_, err := Setup(t.Context(), nil, log.NewNop())
	assert.ErrorIs(t, err, config.ErrConfigNil)
}
