// Package main seeds demo data for development.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"transtock/internal/config"
	"transtock/internal/core/agency"
	"transtock/internal/core/types"
	"transtock/internal/domain/articles"
	"transtock/internal/domain/ledger"
	"transtock/internal/infrastructure/numerator"
	"transtock/internal/infrastructure/storage/postgres"
	"transtock/internal/infrastructure/storage/postgres/article_repo"
	"transtock/internal/infrastructure/storage/postgres/ledger_repo"
	"transtock/pkg/logger"
)

type seedArticle struct {
	code string
	name string
	unit string
}

type seedEntry struct {
	articleCode string
	quantity    string
	unitPrice   string
	ag          agency.Code
	reference   string
}

var demoArticles = []seedArticle{
	{"PAL-EUR", "Euro pallet 1200x800", "pcs"},
	{"STRAP-PP", "Polypropylene strapping 12mm", "m"},
	{"FILM-STR", "Stretch film 500mm", "roll"},
	{"LABEL-A5", "Shipping label A5", "pcs"},
	{"FUEL-D", "Diesel fuel", "l"},
}

var demoEntries = []seedEntry{
	{"PAL-EUR", "200", "8.50", agency.Ghana, "PO-2025-0114"},
	{"PAL-EUR", "100", "9.20", agency.Ghana, "PO-2025-0131"},
	{"STRAP-PP", "5000", "0.12", agency.CoteDIvoire, "PO-2025-0092"},
	{"FILM-STR", "80", "14.75", agency.CoteDIvoire, "PO-2025-0092"},
	{"LABEL-A5", "10000", "0.03", agency.BurkinaFaso, "PO-2025-0067"},
	{"FUEL-D", "1200", "1.45", agency.Ghana, "PO-2025-0140"},
}

func main() {
	configPath := flag.String("config", "config/example.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
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
	numGen := numerator.New(txManager)

	articleService := articles.NewService(articleRepo, txManager)
	ledgerService := ledger.NewService(movementRepo, articleRepo, numGen, txManager, nil)

	byCode := make(map[string]*articles.Article)
	for _, s := range demoArticles {
		art := &articles.Article{
			Code:      s.code,
			Name:      s.name,
			Unit:      s.unit,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		if err := articleService.Create(ctx, art); err != nil {
			log.Fatalw("seed article failed", "code", s.code, "error", err)
		}
		byCode[s.code] = art
		fmt.Printf("article %-10s %s\n", art.Code, art.ID)
	}

	for _, e := range demoEntries {
		art := byCode[e.articleCode]
		movement, err := ledgerService.RecordEntry(ctx, ledger.EntryInput{
			ArticleID: art.ID,
			Quantity:  types.MustDecimal(e.quantity),
			UnitPrice: types.MustDecimal(e.unitPrice),
			Agency:    e.ag,
			Reference: e.reference,
		})
		if err != nil {
			log.Fatalw("seed entry failed", "article", e.articleCode, "error", err)
		}
		fmt.Printf("entry %-18s %s x %s @ %s\n",
			movement.Number, e.articleCode, e.quantity, e.unitPrice)
	}

	fmt.Println("seed complete")
}
