// Package main rebuilds article valuation from movement history.
// Run during maintenance windows; it takes the same row locks as the
// ledger, so concurrent entry/consumption traffic only slows it down.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"transtock/internal/config"
	"transtock/internal/core/id"
	"transtock/internal/domain/ledger"
	"transtock/internal/infrastructure/storage/postgres"
	"transtock/internal/infrastructure/storage/postgres/article_repo"
	"transtock/internal/infrastructure/storage/postgres/ledger_repo"
	"transtock/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/example.yaml", "path to config file")
	articleIDStr := flag.String("article", "", "recompute a single article by id (default: all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Postgres.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	articleRepo := article_repo.NewArticleRepo(txManager)
	movementRepo := ledger_repo.NewMovementRepo(txManager)
	recomputer := ledger.NewRecomputer(movementRepo, articleRepo, txManager)

	if *articleIDStr != "" {
		articleID, err := id.Parse(*articleIDStr)
		if err != nil {
			log.Fatalw("invalid article id", "error", err)
		}

		valuation, err := recomputer.RecomputeArticle(ctx, articleID)
		if err != nil {
			log.Fatalw("recompute failed", "article_id", articleID, "error", err)
		}

		fmt.Printf("article %s: stock=%s cost=%s value=%s\n",
			articleID, valuation.Balance, valuation.Cost, valuation.Value)
		return
	}

	result, err := recomputer.RecomputeAll(ctx)
	if err != nil {
		log.Fatalw("recompute failed", "error", err)
	}

	fmt.Printf("recomputed=%d failed=%d\n", result.Recomputed, result.Failed)
	if result.Failed > 0 {
		os.Exit(1)
	}
}
