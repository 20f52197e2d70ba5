// Package swaplog appends executed pool operations to JSON Lines files so a
// trade history survives the process.
package swaplog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cosmossdk.io/math"

	"github.com/pttransamdriver/amm-master/amm"
)

// Recorder writes one JSON object per line for every committed pool
// operation. It plugs into a pool as its hook set.
type Recorder struct {
	logFile  *os.File
	mu       sync.Mutex
	enabled  bool
	logDir   string
	maxSize  int64 // rotate once the current file reaches this size
	maxFiles int   // number of rotated files to keep
}

var _ amm.PoolHooks = (*Recorder)(nil)

// Event is the on-disk record. Amounts are decimal strings so readers do not
// need big integer support to parse the file.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	Sequence  uint64    `json:"sequence,omitempty"`
	Party     string    `json:"party"`
	DenomIn   string    `json:"denom_in,omitempty"`
	AmountIn  string    `json:"amount_in,omitempty"`
	DenomOut  string    `json:"denom_out,omitempty"`
	AmountOut string    `json:"amount_out,omitempty"`
	AmountA   string    `json:"amount_a,omitempty"`
	AmountB   string    `json:"amount_b,omitempty"`
	Shares    string    `json:"shares,omitempty"`
	ReserveA  string    `json:"reserve_a,omitempty"`
	ReserveB  string    `json:"reserve_b,omitempty"`
}

// NewRecorder creates a recorder writing under logDir. A disabled recorder
// accepts events and drops them.
func NewRecorder(logDir string, enabled bool) (*Recorder, error) {
	if !enabled {
		return &Recorder{enabled: false}, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create swap log directory: %w", err)
	}

	r := &Recorder{
		enabled:  true,
		logDir:   logDir,
		maxSize:  100 * 1024 * 1024, // 100 MB
		maxFiles: 10,
	}

	if err := r.rotateLogFile(); err != nil {
		return nil, err
	}

	return r, nil
}

// Log appends one event, rotating the file first if it is full.
func (r *Recorder) Log(event Event) error {
	if !r.enabled {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if r.logFile != nil {
		info, err := r.logFile.Stat()
		if err == nil && info.Size() >= r.maxSize {
			r.rotateLogFile()
		}
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal swap log event: %w", err)
	}

	if _, err := r.logFile.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write swap log: %w", err)
	}

	return nil
}

// AfterSwap records an executed swap.
func (r *Recorder) AfterSwap(ctx context.Context, record amm.SwapRecord) error {
	return r.Log(Event{
		Timestamp: record.Timestamp,
		EventType: amm.EventTypeSwap,
		Sequence:  record.Sequence,
		Party:     record.Trader,
		DenomIn:   record.DenomIn,
		AmountIn:  record.AmountIn.String(),
		DenomOut:  record.DenomOut,
		AmountOut: record.AmountOut.String(),
		ReserveA:  record.ReserveA.String(),
		ReserveB:  record.ReserveB.String(),
	})
}

// AfterLiquidityChanged records a deposit or a withdrawal.
func (r *Recorder) AfterLiquidityChanged(ctx context.Context, provider string, amountA, amountB, shares math.Int, added bool) error {
	eventType := amm.EventTypeAddLiquidity
	if !added {
		eventType = amm.EventTypeRemoveLiquidity
	}
	return r.Log(Event{
		EventType: eventType,
		Party:     provider,
		AmountA:   amountA.String(),
		AmountB:   amountB.String(),
		Shares:    shares.String(),
	})
}

// AfterPoolSeeded records a deposit that initialized the pool.
func (r *Recorder) AfterPoolSeeded(ctx context.Context, provider string, amountA, amountB, shares math.Int) error {
	return r.Log(Event{
		EventType: amm.EventTypePoolSeeded,
		Party:     provider,
		AmountA:   amountA.String(),
		AmountB:   amountB.String(),
		Shares:    shares.String(),
	})
}

// rotateLogFile closes the current file and opens a fresh timestamped one.
func (r *Recorder) rotateLogFile() error {
	if r.logFile != nil {
		r.logFile.Close()
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(r.logDir, fmt.Sprintf("swaps_%s.log", timestamp))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open swap log file: %w", err)
	}

	r.logFile = file

	go r.cleanupOldLogs()

	return nil
}

// cleanupOldLogs removes rotated files beyond maxFiles. File names sort by
// their embedded timestamp.
func (r *Recorder) cleanupOldLogs() {
	files, err := filepath.Glob(filepath.Join(r.logDir, "swaps_*.log"))
	if err != nil {
		return
	}

	if len(files) > r.maxFiles {
		for i := 0; i < len(files)-r.maxFiles; i++ {
			os.Remove(files[i])
		}
	}
}

// Close closes the current log file.
func (r *Recorder) Close() error {
	if !r.enabled || r.logFile == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.logFile.Close()
}
