package amm

import (
	"math/big"
	"sync"
	"time"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels for operation counters.
const (
	resultExecuted       = "executed"
	resultRejected       = "rejected"
	resultTransferFailed = "transfer_failed"
)

// Metrics instruments pool activity for Prometheus scraping. A nil *Metrics
// is valid pool configuration; call sites guard before recording.
type Metrics struct {
	SwapsTotal       *prometheus.CounterVec
	SwapVolume       *prometheus.CounterVec
	SwapDuration     prometheus.Histogram
	DepositsTotal    *prometheus.CounterVec
	WithdrawalsTotal *prometheus.CounterVec
	PoolReserve      *prometheus.GaugeVec
	PoolShares       prometheus.Gauge
}

// NewMetrics registers the pool metric set on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SwapsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ModuleName,
			Subsystem: "pool",
			Name:      "swaps_total",
			Help:      "Swap attempts by input denom and result",
		}, []string{"denom_in", "result"}),
		SwapVolume: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ModuleName,
			Subsystem: "pool",
			Name:      "swap_volume",
			Help:      "Cumulative swapped amounts by denom",
		}, []string{"denom"}),
		SwapDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ModuleName,
			Subsystem: "pool",
			Name:      "swap_duration_seconds",
			Help:      "Swap execution latency including bank legs",
			Buckets:   prometheus.DefBuckets,
		}),
		DepositsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ModuleName,
			Subsystem: "pool",
			Name:      "deposits_total",
			Help:      "Liquidity deposits by result",
		}, []string{"result"}),
		WithdrawalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ModuleName,
			Subsystem: "pool",
			Name:      "withdrawals_total",
			Help:      "Liquidity withdrawals by result",
		}, []string{"result"}),
		PoolReserve: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ModuleName,
			Subsystem: "pool",
			Name:      "reserve",
			Help:      "Current reserve by denom",
		}, []string{"denom"}),
		PoolShares: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ModuleName,
			Subsystem: "pool",
			Name:      "shares_total",
			Help:      "Liquidity shares outstanding",
		}),
	}
}

var (
	globalMetrics     *Metrics
	globalMetricsOnce sync.Once
)

// GlobalMetrics returns the process-wide metric set registered on the default
// Prometheus registry. Repeated calls return the same instance.
func GlobalMetrics() *Metrics {
	globalMetricsOnce.Do(func() {
		globalMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return globalMetrics
}

// RecordSwap records one executed swap.
func (m *Metrics) RecordSwap(denomIn, denomOut string, amountIn, amountOut math.Int, elapsed time.Duration) {
	m.SwapsTotal.WithLabelValues(denomIn, resultExecuted).Inc()
	m.SwapVolume.WithLabelValues(denomIn).Add(intToFloat(amountIn))
	m.SwapVolume.WithLabelValues(denomOut).Add(intToFloat(amountOut))
	m.SwapDuration.Observe(elapsed.Seconds())
}

// RecordSwapFailure counts a swap attempt that did not execute.
func (m *Metrics) RecordSwapFailure(denomIn, result string) {
	m.SwapsTotal.WithLabelValues(denomIn, result).Inc()
}

// RecordDeposit counts a liquidity deposit attempt by result.
func (m *Metrics) RecordDeposit(result string) {
	m.DepositsTotal.WithLabelValues(result).Inc()
}

// RecordWithdrawal counts a liquidity withdrawal attempt by result.
func (m *Metrics) RecordWithdrawal(result string) {
	m.WithdrawalsTotal.WithLabelValues(result).Inc()
}

// SetPoolState updates the reserve and share gauges.
func (m *Metrics) SetPoolState(denomA, denomB string, reserveA, reserveB, totalShares math.Int) {
	m.PoolReserve.WithLabelValues(denomA).Set(intToFloat(reserveA))
	m.PoolReserve.WithLabelValues(denomB).Set(intToFloat(reserveB))
	m.PoolShares.Set(intToFloat(totalShares))
}

// intToFloat renders a math.Int for a gauge. Shares exceed int64, so this
// goes through big.Float; precision degrades gracefully for huge values.
func intToFloat(v math.Int) float64 {
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}
