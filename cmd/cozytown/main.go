// Command cozytown runs the town simulation and its read-only HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/talgya/cozy-town/internal/api"
	"github.com/talgya/cozy-town/internal/clock"
	"github.com/talgya/cozy-town/internal/engine"
	"github.com/talgya/cozy-town/internal/feed"
	"github.com/talgya/cozy-town/internal/persistence"
	"github.com/talgya/cozy-town/internal/relations"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(envOrDefault("COZYTOWN_LOG_LEVEL", "info")),
	}))
	slog.SetDefault(logger)

	cfg := engine.DefaultConfig()
	cfg.Seed = int64(envIntOrDefault("COZYTOWN_SEED", int(cfg.Seed)))
	cfg.Population = envIntOrDefault("COZYTOWN_POPULATION", cfg.Population)
	dbPath := envOrDefault("COZYTOWN_DB", "data/cozytown.db")
	redisAddr := os.Getenv("COZYTOWN_REDIS_ADDR")
	apiPort := envIntOrDefault("COZYTOWN_PORT", 8080)
	speed := envFloatOrDefault("COZYTOWN_SPEED", 1)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Simulation ────────────────────────────────────────────────────
	sim, err := engine.NewSimulation(cfg)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	sim.Populate()

	eng := engine.NewEngine()
	eng.Speed = speed
	sim.Attach(eng)

	// ── Journal (set COZYTOWN_DB=off to run without one) ──────────────
	var journal *persistence.Journal
	if dbPath != "off" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			slog.Error("failed to create data directory", "error", err)
			os.Exit(1)
		}
		journal, err = persistence.Open(dbPath)
		if err != nil {
			slog.Error("failed to open journal", "error", err)
			os.Exit(1)
		}
		defer journal.Close()
		slog.Info("journal opened", "path", dbPath, "session", journal.Session())

		sim.OnMilestone(func(m relations.Milestone) {
			if err := journal.RecordMilestone(m); err != nil {
				slog.Warn("milestone not journaled", "stage", m.Stage, "error", err)
			}
		})
		tickDay := eng.OnDay
		eng.OnDay = func(tick uint64) {
			tickDay(tick)
			saveJournal(journal, sim, cfg.Relations, tick)
		}
	}

	session := uuid.NewString()
	if journal != nil {
		session = journal.Session()
	}

	// ── Redis feed (optional) ─────────────────────────────────────────
	var sink *feed.RedisSink
	waitFeed := func() {}
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable, feed disabled", "addr", redisAddr, "error", err)
		} else {
			sink = feed.NewRedisSink(client, session, feed.Config{})
			sim.OnMilestone(func(m relations.Milestone) { sink.Enqueue(m) })
			waitFeed = sink.Start(ctx)
			slog.Info("milestone feed enabled", "addr", redisAddr, "channel", sink.Channel())
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Sim:     sim,
		Eng:     eng,
		Journal: journal,
		Feed:    sink,
		Port:    apiPort,
	}
	apiServer.Start(ctx)

	st := sim.Status()
	fmt.Printf("\nCozy Town is awake: %d souls, session %s.\n", st.Stats.Alive, session)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run(ctx)
	waitFeed()

	if journal != nil {
		slog.Info("final save...")
		saveJournal(journal, sim, cfg.Relations, sim.CurrentTick())
	}
	fmt.Println("Simulation stopped.")
}

// saveJournal snapshots relationships, appends new highlights and records
// the tick reached.
func saveJournal(j *persistence.Journal, sim *engine.Simulation, rc relations.Config, tick uint64) {
	if err := j.SnapshotRelations(tick, sim.Relationships()); err != nil {
		slog.Error("relationship snapshot failed", "error", err)
	}
	added, err := j.RecordHighlights(sim.Highlights(rc.HighlightCapacity))
	if err != nil {
		slog.Error("highlight save failed", "error", err)
	} else if added > 0 {
		slog.Debug("highlights journaled", "added", added)
	}
	if err := j.SaveTick(tick); err != nil {
		slog.Error("tick save failed", "error", err)
	}
	slog.Debug("journal saved", "sim_time", clock.SimTime(tick))
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envFloatOrDefault(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
