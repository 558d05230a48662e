// Package gbm implements the discretized geometric Brownian motion price
// process that drives each market-maker agent's fair-value quote.
package gbm

import (
	"math"

	"github.com/kestrelmarkets/matchengine/internal/rng"
)

// MinPrice is the floor applied after every step to keep the process
// strictly positive.
const MinPrice = 0.01

// Process is a single discretized GBM path: S <- S*exp((mu - sigma^2/2)*dt +
// sigma*sqrt(dt)*Z), Z ~ N(0,1).
type Process struct {
	initial float64
	mu      float64
	sigma   float64
	dt      float64

	price float64
	src   *rng.Source
}

// New builds a process starting at s0 with annualized drift mu, annualized
// volatility sigma, and step dt (in years), seeded with seed. Each Process
// owns its own rng.Source; nothing here is process-wide state.
func New(s0, mu, sigma, dt float64, seed int64) *Process {
	return &Process{
		initial: s0,
		mu:      mu,
		sigma:   sigma,
		dt:      dt,
		price:   s0,
		src:     rng.New(seed),
	}
}

// Next advances the process by one step and returns the new price.
func (p *Process) Next() float64 {
	z := p.src.Normal()
	drift := (p.mu - p.sigma*p.sigma/2) * p.dt
	diffusion := p.sigma * math.Sqrt(p.dt) * z
	p.price *= math.Exp(drift + diffusion)
	if p.price < MinPrice {
		p.price = MinPrice
	}
	return p.price
}

// Price returns the current price without advancing the process.
func (p *Process) Price() float64 {
	return p.price
}

// Reset returns the process to its initial price. The RNG stream is not
// rewound; only the price state resets.
func (p *Process) Reset() {
	p.price = p.initial
}
