package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/pttransamdriver/amm-master/amm"
	"github.com/pttransamdriver/amm-master/api"
	"github.com/pttransamdriver/amm-master/bank"
	"github.com/pttransamdriver/amm-master/config"
	"github.com/pttransamdriver/amm-master/pkg/logger"
	"github.com/pttransamdriver/amm-master/swaplog"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pool HTTP API",
		RunE:  runServe,
	}

	cmd.Flags().String("denom-a", "tokena", "denomination of pool asset A")
	cmd.Flags().String("denom-b", "tokenb", "denomination of pool asset B")
	cmd.Flags().String("pool-account", amm.DefaultPoolAccount, "bank account holding the reserves")
	cmd.Flags().String("ratio-tolerance-divisor", amm.DefaultRatioToleranceDivisor.String(), "deposit ratio tolerance divisor")
	cmd.Flags().String("seed-shares", amm.DefaultSeedShares.String(), "shares minted to the first provider")
	cmd.Flags().String("listen-addr", ":8080", "API listen address")
	cmd.Flags().Int("rate-limit", 20, "requests per second per client IP")
	cmd.Flags().StringSlice("cors-origins", []string{"*"}, "allowed CORS origins (comma-separated)")
	cmd.Flags().Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", 10*time.Second, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", 60*time.Second, "HTTP idle timeout")
	cmd.Flags().Bool("metrics-enabled", true, "expose Prometheus metrics")
	cmd.Flags().String("metrics-addr", ":9090", "Prometheus listen address")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().String("log-format", "json", "log format (json, console)")
	cmd.Flags().Bool("swaplog-enabled", false, "record pool events to JSONL files")
	cmd.Flags().String("swaplog-dir", "./data/swaplog", "directory for pool event logs")
	cmd.Flags().StringSlice("dev-mint", nil, "accounts to fund at startup as name=amount (both denoms, development only)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	keeper := bank.NewKeeper(log)

	mints, _ := cmd.Flags().GetStringSlice("dev-mint")
	if err := applyDevMints(ctx, keeper, cfg, mints); err != nil {
		return err
	}

	var hooks []amm.PoolHooks
	if cfg.SwapLogEnabled {
		recorder, err := swaplog.NewRecorder(cfg.SwapLogDir, true)
		if err != nil {
			return fmt.Errorf("open swap log: %w", err)
		}
		defer recorder.Close()
		hooks = append(hooks, recorder)
	}

	poolCfg := amm.PoolConfig{
		DenomA:  cfg.DenomA,
		DenomB:  cfg.DenomB,
		Account: cfg.PoolAccount,
		Bank:    keeper,
		Logger:  log,
		Params:  cfg.PoolParams(),
	}
	if len(hooks) > 0 {
		poolCfg.Hooks = amm.NewMultiPoolHooks(hooks...)
	}
	if cfg.MetricsEnabled {
		poolCfg.Metrics = amm.GlobalMetrics()
		startMetricsServer(cfg.MetricsAddr, log)
	}

	pool, err := amm.NewPool(poolCfg)
	if err != nil {
		return err
	}

	log.Info("starting pool daemon",
		"version", version,
		"denom_a", cfg.DenomA,
		"denom_b", cfg.DenomB,
		"pool_account", cfg.PoolAccount,
		"listen_addr", cfg.ListenAddr,
		"metrics_enabled", cfg.MetricsEnabled,
		"swaplog_enabled", cfg.SwapLogEnabled)

	return api.NewServer(pool, cfg, log).Start(ctx)
}

// applyDevMints funds the listed accounts with both pool assets. Entries are
// name=amount; the bank starts empty, so a development run needs this to have
// anything to trade with.
func applyDevMints(ctx context.Context, keeper *bank.Keeper, cfg config.Config, mints []string) error {
	for _, entry := range mints {
		name, raw, found := strings.Cut(entry, "=")
		if !found || name == "" {
			return fmt.Errorf("invalid dev-mint entry %q, want name=amount", entry)
		}
		amount, ok := math.NewIntFromString(raw)
		if !ok {
			return fmt.Errorf("invalid dev-mint amount %q for %s", raw, name)
		}
		for _, denom := range []string{cfg.DenomA, cfg.DenomB} {
			if err := keeper.MintCoins(ctx, name, denom, amount); err != nil {
				return fmt.Errorf("dev-mint %s to %s: %w", denom, name, err)
			}
		}
	}
	return nil
}
