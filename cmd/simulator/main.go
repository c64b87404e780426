// Package main provides the encounter simulator binary: it loads content,
// builds a party, and runs one battle against the named enemy, printing the
// narration as it resolves.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jcalloway/riftwood/internal/config"
	"github.com/jcalloway/riftwood/internal/game/content"
	"github.com/jcalloway/riftwood/internal/game/dice"
	"github.com/jcalloway/riftwood/internal/observability"
	"github.com/jcalloway/riftwood/internal/sim"
	"github.com/jcalloway/riftwood/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	party := flag.String("party", "warden", "comma-separated class ids for the party")
	enemyID := flag.String("enemy", "", "enemy template id to fight")
	flag.Parse()

	if *enemyID == "" {
		log.Fatal("missing required -enemy flag")
	}

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	registry, err := content.LoadRegistry(
		cfg.Content.SkillsDir,
		cfg.Content.ItemsDir,
		cfg.Content.EnemiesDir,
		cfg.Content.ClassesDir,
	)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}

	var src dice.Source
	switch cfg.Sim.RNGMode {
	case "seeded":
		src = dice.NewSeededSource(cfg.Sim.Seed)
		logger.Info("using seeded dice source", zap.Int64("seed", cfg.Sim.Seed))
	default:
		src = dice.NewCryptoSource()
	}

	var store sim.SnapshotStore
	if cfg.Sim.Snapshots {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		store = postgres.NewSnapshotRepository(pool)
	}

	runner := sim.NewRunner(
		registry,
		logger,
		src,
		sim.NewPacer(cfg.Sim.AIThinkDelay),
		store,
		cfg.Sim.MaxTurns,
	)

	classIDs := strings.Split(*party, ",")
	result, err := runner.Run(ctx, classIDs, *enemyID)
	if err != nil {
		logger.Fatal("running encounter", zap.Error(err))
	}

	for _, line := range result.Narration {
		fmt.Fprintln(os.Stdout, line)
	}

	victor := string(result.Victor)
	if victor == "" {
		victor = "none"
	}
	fmt.Fprintf(os.Stdout, "\nencounter %s: victor=%s turns=%d level-ups=%d [%s]\n",
		result.EncounterID, victor, result.Turns, len(result.LevelUps), time.Since(start))
	for _, lu := range result.LevelUps {
		fmt.Fprintf(os.Stdout, "%s reached level %d", lu.Name, lu.ToLevel)
		if len(lu.SkillsLearned) > 0 {
			fmt.Fprintf(os.Stdout, " (learned %s)", strings.Join(lu.SkillsLearned, ", "))
		}
		fmt.Fprintln(os.Stdout)
	}
}
