package payments

import (
	"context"
	"testing"
	"time"

	"github.com/medmarket-io/medmarket-backend/pkg/config"
	"github.com/medmarket-io/medmarket-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGateway(t *testing.T, draw func() float64) *SimulatedGateway {
	t.Helper()
	gateway, err := NewSimulatedGateway(
		config.PaymentsConfig{SuccessRate: 0.9, Latency: 0},
		metrics.NewPaymentMetrics(prometheus.NewRegistry()),
		WithDraw(draw),
	)
	require.NoError(t, err)
	return gateway
}

func TestChargeApprovesAboveThreshold(t *testing.T) {
	gateway := testGateway(t, func() float64 { return 0.5 })

	result, err := gateway.Charge(context.Background(), ChargeRequest{Amount: decimal.NewFromFloat(159.98)})
	require.NoError(t, err)
	assert.True(t, result.Approved)
	assert.NotEmpty(t, result.Reference)
}

func TestChargeDeclinesBelowThreshold(t *testing.T) {
	gateway := testGateway(t, func() float64 { return 0.05 })

	result, err := gateway.Charge(context.Background(), ChargeRequest{Amount: decimal.NewFromFloat(10)})
	require.NoError(t, err)
	assert.False(t, result.Approved)
	assert.Empty(t, result.Reference)
}

func TestChargeBoundaryDraw(t *testing.T) {
	// draw exactly at 1-successRate counts as approved
	gateway := testGateway(t, func() float64 { return 0.1 })

	result, err := gateway.Charge(context.Background(), ChargeRequest{Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.True(t, result.Approved)
}

func TestChargeHonorsContextDuringLatency(t *testing.T) {
	gateway, err := NewSimulatedGateway(
		config.PaymentsConfig{SuccessRate: 0.9, Latency: time.Minute},
		metrics.NewPaymentMetrics(prometheus.NewRegistry()),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = gateway.Charge(ctx, ChargeRequest{Amount: decimal.NewFromInt(5)})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestChargeRejectsNegativeAmount(t *testing.T) {
	gateway := testGateway(t, func() float64 { return 0.5 })

	_, err := gateway.Charge(context.Background(), ChargeRequest{Amount: decimal.NewFromInt(-1)})
	require.Error(t, err)
}

func TestNewSimulatedGatewayValidatesRate(t *testing.T) {
	_, err := NewSimulatedGateway(config.PaymentsConfig{SuccessRate: 1.5}, nil)
	require.Error(t, err)
}
