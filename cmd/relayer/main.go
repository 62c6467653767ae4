// Copyright 2025 Certen Protocol
//
// cmd/relayer is the native-relayer binary: it wires together config
// loading, the snapshot store, the settlement-chain action listener, the
// proof-cycle driver, and a health/metrics HTTP server, following the
// teacher's top-level main.go wiring idiom — flag-based config path,
// construct each component and log its stage, serve HTTP in a goroutine,
// block on an OS signal, shut down gracefully.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/certen/untron-stf/pkg/relayer"
	"github.com/certen/untron-stf/pkg/relayerconfig"
	"github.com/certen/untron-stf/pkg/snapshot"
	"github.com/certen/untron-stf/pkg/untronstate"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var (
		configPath = flag.String("config", "config/relayer.yaml", "Path to the relayer YAML config file")
		showHelp   = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *showHelp {
		flag.Usage()
		return
	}

	cfg, err := relayerconfig.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config from %s: %v", *configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	log.Printf("loaded config for environment %q (settlement chain %d, contract %s)",
		cfg.Environment, cfg.SettlementChain.ChainID, cfg.SettlementChain.ContractAddress)

	store, err := snapshot.Open(cfg.Snapshot.Name, cfg.Snapshot.Dir)
	if err != nil {
		log.Fatalf("opening snapshot store: %v", err)
	}
	defer store.Close()

	driver, err := relayer.NewDriver(store, log.Default())
	if err != nil {
		log.Fatalf("constructing driver: %v", err)
	}
	latestBlockID, actionChain := driver.State()
	log.Printf("driver ready at latest_block_id=%x action_chain=%x", latestBlockID, actionChain)

	backend, err := ethclient.Dial(cfg.SettlementChain.RPCURL)
	if err != nil {
		log.Fatalf("dialing settlement chain RPC %s: %v", cfg.SettlementChain.RPCURL, err)
	}
	listener := relayer.NewActionListener(backend, common.HexToAddress(cfg.SettlementChain.ContractAddress))
	blocks := relayer.StubBlockPoller{}

	health := relayer.NewHealthStatus()
	metrics, metricsHandler := relayer.NewMetrics()

	mux := http.NewServeMux()
	mux.Handle("/health", health)
	if cfg.Monitoring.Enabled {
		mux.Handle(cfg.Monitoring.Path, metricsHandler)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Monitoring.Port),
		Handler: mux,
	}

	ctx, cancel := context.WithCancel(context.Background())

	go runCycleLoop(ctx, cfg, driver, listener, blocks, health, metrics)

	go func() {
		log.Printf("relayer monitoring endpoints listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("monitoring server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("shutting down relayer...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("monitoring server shutdown error: %v", err)
	}
	log.Printf("relayer stopped")
}

// runCycleLoop polls the settlement chain for newly opened actions on a
// fixed interval and hands them, together with whatever blocks are
// available, to the driver for a proof cycle. The block poller is a stub
// (see pkg/relayer.StubBlockPoller), so every cycle here will fail until a
// concrete source-chain transport is wired in; the loop still exercises the
// listener, the driver's locking and persistence path, and the health and
// metrics reporting around a cycle's outcome.
func runCycleLoop(ctx context.Context, cfg *relayerconfig.Config, driver *relayer.Driver, listener *relayer.ActionListener, blocks relayer.BlockPoller, health *relayer.HealthStatus, metrics *relayer.Metrics) {
	ticker := time.NewTicker(cfg.SettlementChain.PollInterval.Duration())
	defer ticker.Stop()

	latestBlockID, _ := driver.State()
	fromBlockNumber := uint64(0)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := listener.Poll(ctx, fromBlockNumber, fromBlockNumber)
			if err != nil {
				log.Printf("polling settlement chain for actions: %v", err)
				health.RecordCycleError(err)
				metrics.RecordCycle(0, err)
				continue
			}
			log.Printf("observed %d pending action(s) from the settlement chain", len(pending))

			actions := make([]untronstate.Action, 0, len(pending))
			for _, p := range pending {
				actions = append(actions, p.Action)
			}

			rawBlocks, err := blocks.Poll(ctx, fromBlockNumber)
			if err != nil {
				log.Printf("polling source chain for blocks: %v", err)
				health.RecordCycleError(err)
				metrics.RecordCycle(0, err)
				continue
			}

			result, err := driver.RunCycle(actions, rawBlocks)
			if err != nil {
				log.Printf("proof cycle failed: %v", err)
				health.RecordCycleError(err)
				metrics.RecordCycle(0, err)
				continue
			}

			log.Printf("[cycle %s] closed %d orders", result.CycleID, len(result.ClosedOrders))
			health.RecordCycleSuccess()
			metrics.RecordCycle(len(result.ClosedOrders), nil)
			newBlockID, _ := driver.State()
			if newBlockID != latestBlockID {
				latestBlockID = newBlockID
			}
		}
	}
}

