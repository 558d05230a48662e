// Package maker implements the simulated market-maker agents that supply
// liquidity: each ticks its own GBM process to a fair price and quotes a
// symmetric N-level ladder around it.
package maker

import (
	"github.com/kestrelmarkets/matchengine/internal/common"
	"github.com/kestrelmarkets/matchengine/internal/sim/gbm"
)

// Owner is the synthetic session identifier stamped on every order a
// market-maker agent submits.
const Owner = "market-maker"

// Submitter is the subset of the matching engine an agent needs. Agents
// depend on this interface rather than *engine.Engine directly so the
// crossing/fill behavior can be exercised with a fake in unit tests.
type Submitter interface {
	Submit(symbol string, side common.Side, typ common.OrderType, price float64, qty uint64, owner string) (*common.Order, common.MatchResult, error)
	Cancel(symbol string, orderID uint64) (bool, error)
}

// Config parameterizes one agent.
type Config struct {
	Symbol         string
	S0, Mu, Sigma  float64
	Dt             float64
	Seed           int64
	SpreadBps      float64
	LevelSpacingBps float64 // defaults to 5 if zero
	OrderSize      uint64
	Levels         int
}

// Agent quotes a symmetric two-sided ladder for one symbol, reconciling
// its outstanding quotes every tick.
type Agent struct {
	symbol          string
	process         *gbm.Process
	spreadBps       float64
	levelSpacingBps float64
	orderSize       uint64
	levels          int

	bidIDs []uint64
	askIDs []uint64
}

const defaultLevelSpacingBps = 5

// New constructs an agent from cfg. Each agent owns its own GBM process
// and therefore its own RNG stream — no process-wide shared generator.
func New(cfg Config) *Agent {
	spacing := cfg.LevelSpacingBps
	if spacing == 0 {
		spacing = defaultLevelSpacingBps
	}
	return &Agent{
		symbol:          cfg.Symbol,
		process:         gbm.New(cfg.S0, cfg.Mu, cfg.Sigma, cfg.Dt, cfg.Seed),
		spreadBps:       cfg.SpreadBps,
		levelSpacingBps: spacing,
		orderSize:       cfg.OrderSize,
		levels:          cfg.Levels,
		bidIDs:          make([]uint64, cfg.Levels),
		askIDs:          make([]uint64, cfg.Levels),
	}
}

// Symbol returns the symbol this agent quotes.
func (a *Agent) Symbol() string { return a.symbol }

// FairValue returns the agent's current GBM price without advancing it.
func (a *Agent) FairValue() float64 { return a.process.Price() }

// isOutstanding reports whether an order the agent previously placed is
// still eligible to be resting (nonzero sentinel id).
func isOutstanding(id uint64) bool { return id != 0 }

// Tick advances the agent's GBM process once, cancels every currently
// outstanding quote, and re-quotes a fresh N-level ladder.
func (a *Agent) Tick(engine Submitter) {
	fair := a.process.Next()

	for i, id := range a.bidIDs {
		if isOutstanding(id) {
			engine.Cancel(a.symbol, id)
		}
		a.bidIDs[i] = 0
	}
	for i, id := range a.askIDs {
		if isOutstanding(id) {
			engine.Cancel(a.symbol, id)
		}
		a.askIDs[i] = 0
	}

	halfSpread := fair * (a.spreadBps / 10000) / 2
	step := fair * (a.levelSpacingBps / 10000)

	for k := 0; k < a.levels; k++ {
		buyPrice := fair - halfSpread - float64(k)*step
		sellPrice := fair + halfSpread + float64(k)*step

		if buyOrder, _, err := engine.Submit(a.symbol, common.Buy, common.LimitOrder, buyPrice, a.orderSize, Owner); err == nil {
			if resting(buyOrder) {
				a.bidIDs[k] = buyOrder.ID
			}
		}
		if sellOrder, _, err := engine.Submit(a.symbol, common.Sell, common.LimitOrder, sellPrice, a.orderSize, Owner); err == nil {
			if resting(sellOrder) {
				a.askIDs[k] = sellOrder.ID
			}
		}
	}
}

// resting reports whether order ended up (partially) resting in the book
// rather than being fully consumed on arrival.
func resting(order *common.Order) bool {
	return order.Status == common.StatusNew || order.Status == common.StatusPartiallyFilled
}

// Pool owns a growable set of agents and ticks them sequentially — no
// internal parallelism.
type Pool struct {
	agents []*Agent
}

// NewPool builds an (initially empty) pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add registers an agent with the pool.
func (p *Pool) Add(a *Agent) {
	p.agents = append(p.agents, a)
}

// TickAll ticks every agent in turn against engine.
func (p *Pool) TickAll(engine Submitter) {
	for _, a := range p.agents {
		a.Tick(engine)
	}
}

// Agents returns the pool's agents, in registration order.
func (p *Pool) Agents() []*Agent {
	return p.agents
}
