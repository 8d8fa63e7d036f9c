// Command herbsim runs the herbworks production simulation with its HTTP API.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/herbworks/internal/api"
	"github.com/talgya/herbworks/internal/catalog"
	"github.com/talgya/herbworks/internal/engine"
	"github.com/talgya/herbworks/internal/persistence"
	"github.com/talgya/herbworks/internal/world"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: envLevel("HERBSIM_LOG_LEVEL", slog.LevelInfo),
	}))
	slog.SetDefault(logger)

	slog.Info("Herbworks production simulation")

	cfg := world.DefaultGenConfig()
	cfg.Seed = envInt64("HERBSIM_SEED", cfg.Seed)
	cfg.Width = envInt("HERBSIM_WIDTH", cfg.Width)
	cfg.Height = envInt("HERBSIM_HEIGHT", cfg.Height)
	dbPath := envString("HERBSIM_DB", "data/herbworks.db")
	apiPort := envInt("HERBSIM_PORT", 8080)
	tickMS := envInt("HERBSIM_TICK_MS", 100)

	// ── Catalog ───────────────────────────────────────────────────────
	cat := catalog.Default()

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── World Map (always regenerated, deterministic from seed) ───────
	slog.Info("generating world map...", "seed", cfg.Seed, "width", cfg.Width, "height", cfg.Height)
	start := time.Now()
	worldMap := world.Generate(cfg, cat)

	for id, c := range worldMap.BiomeCounts() {
		slog.Info("biome", "type", world.BiomeName(cat, id), "tiles", humanize.Comma(int64(c)))
	}
	for id, c := range worldMap.ResourceCounts() {
		slog.Info("resource", "type", id, "nodes", humanize.Comma(int64(c)))
	}
	slog.Info("world ready",
		"tiles", humanize.Comma(int64(worldMap.Width*worldMap.Height)),
		"nodes", humanize.Comma(int64(worldMap.NodeCount())),
		"took", time.Since(start).Round(time.Millisecond),
	)

	runID, err := db.StartRun(cfg.Seed, worldMap.Width, worldMap.Height)
	if err != nil {
		slog.Error("failed to register run", "error", err)
		os.Exit(1)
	}
	if err := db.SaveMeta("last_run", runID); err != nil {
		slog.Error("save meta failed", "error", err)
	}

	// ── Simulation ────────────────────────────────────────────────────
	sim := engine.NewSimulation(worldMap, cat)

	eng := engine.NewEngine(sim)
	eng.Interval = time.Duration(tickMS) * time.Millisecond

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := os.Getenv("HERBSIM_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("HERBSIM_ADMIN_KEY not set; admin POST endpoints will be disabled")
	}

	apiServer := &api.Server{
		Sim:      sim,
		Eng:      eng,
		DB:       db,
		RunID:    runID,
		Port:     apiPort,
		AdminKey: adminKey,
	}
	apiServer.Start()

	// Record, log and stream a report every ReportEvery steps.
	eng.OnReport = func(tick uint64) {
		st := sim.Snapshot()
		sim.Report(tick)
		if err := db.RecordStats(runID, st); err != nil {
			slog.Error("record stats failed", "error", err)
		}
		apiServer.PublishStats(st)
	}

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nHerbworks is growing: %s herb nodes on a %dx%d map (run %s).\n",
		humanize.Comma(int64(worldMap.NodeCount())), worldMap.Width, worldMap.Height, runID)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	// Final ledger row on shutdown.
	final := sim.Snapshot()
	if err := db.RecordStats(runID, final); err != nil {
		slog.Error("final stats failed", "error", err)
	}
	if err := db.SaveMeta("last_tick", strconv.FormatUint(final.Tick, 10)); err != nil {
		slog.Error("save meta failed", "error", err)
	}

	fmt.Println("Simulation stopped. " + api.Summary(final))
}
