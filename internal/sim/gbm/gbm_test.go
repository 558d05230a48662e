package gbm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelmarkets/matchengine/internal/sim/gbm"
)

func TestNextIsDeterministicForSameSeed(t *testing.T) {
	p1 := gbm.New(100, 0.05, 0.20, 1.7e-8, 42)
	p2 := gbm.New(100, 0.05, 0.20, 1.7e-8, 42)

	for i := 0; i < 50; i++ {
		assert.Equal(t, p1.Next(), p2.Next())
	}
}

func TestNeverGoesNonPositive(t *testing.T) {
	// A large negative drift and volatility over many steps should still
	// floor at gbm.MinPrice rather than go to zero or negative.
	p := gbm.New(1, -5, 5, 1, 1)
	for i := 0; i < 1000; i++ {
		price := p.Next()
		assert.GreaterOrEqual(t, price, gbm.MinPrice)
	}
}

func TestResetReturnsToInitialPrice(t *testing.T) {
	p := gbm.New(150, 0.05, 0.2, 1.7e-8, 1)
	p.Next()
	p.Next()
	assert.NotEqual(t, 150.0, p.Price())

	p.Reset()
	assert.Equal(t, 150.0, p.Price())
}
