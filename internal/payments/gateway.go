package payments

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/medmarket-io/medmarket-backend/pkg/config"
	"github.com/medmarket-io/medmarket-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	outcomeApproved = "approved"
	outcomeDeclined = "declined"
)

// ChargeRequest carries the amount to authorize.
type ChargeRequest struct {
	Amount decimal.Decimal
}

// ChargeResult is the gateway decision for one charge attempt.
type ChargeResult struct {
	Approved  bool
	Reference string
}

// Gateway authorizes payments.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// SimulatedGateway approves a configurable fraction of charges after a fixed
// processing delay. No money moves anywhere.
type SimulatedGateway struct {
	successRate float64
	latency     time.Duration
	draw        func() float64
	metrics     *metrics.PaymentMetrics
}

// Option tweaks the simulated gateway.
type Option func(*SimulatedGateway)

// WithDraw replaces the random draw used to decide charge outcomes.
func WithDraw(draw func() float64) Option {
	return func(g *SimulatedGateway) {
		if draw != nil {
			g.draw = draw
		}
	}
}

// WithLatency overrides the configured processing delay.
func WithLatency(latency time.Duration) Option {
	return func(g *SimulatedGateway) {
		g.latency = latency
	}
}

// NewSimulatedGateway builds the gateway from config.
func NewSimulatedGateway(cfg config.PaymentsConfig, m *metrics.PaymentMetrics, opts ...Option) (*SimulatedGateway, error) {
	if cfg.SuccessRate < 0 || cfg.SuccessRate > 1 {
		return nil, fmt.Errorf("payment success rate must be within [0, 1], got %f", cfg.SuccessRate)
	}

	gateway := &SimulatedGateway{
		successRate: cfg.SuccessRate,
		latency:     cfg.Latency,
		draw:        rand.Float64,
		metrics:     m,
	}
	for _, opt := range opts {
		opt(gateway)
	}
	return gateway, nil
}

// Charge waits out the processing delay and then approves or declines based on
// a single draw. Approval happens with probability successRate.
func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("charge amount must be non-negative")
	}

	start := time.Now()

	if g.latency > 0 {
		timer := time.NewTimer(g.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	approved := g.draw() >= 1-g.successRate
	outcome := outcomeDeclined
	if approved {
		outcome = outcomeApproved
	}
	g.metrics.ObserveAttempt(outcome, time.Since(start))

	result := &ChargeResult{Approved: approved}
	if approved {
		result.Reference = uuid.NewString()
	}
	return result, nil
}
