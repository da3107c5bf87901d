// File: cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"adobe-subscription-store/internal/config"
	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/domain/ports/repository"
	pg "adobe-subscription-store/internal/infra/db/postgres"
	"adobe-subscription-store/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	logger := zerolog.Nop()
	productRepo := pg.NewProductRepo(pool)
	catalogUC := usecase.NewCatalogUseCase(productRepo, &logger)

	// If the catalog already has rows, do nothing.
	existing, err := catalogUC.Products(ctx)
	if err != nil {
		log.Fatalf("list products: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d products already present. No changes.\n", len(existing))
		for _, p := range existing {
			fmt.Printf("  - %s (%s, price=%d, list=%d)\n", p.ID, p.Description(), p.PriceCents, p.OriginalPriceCents)
		}
		return
	}

	seed := []struct {
		ID       string
		Name     string
		Months   int
		Price    int64
		Original int64
		Act      model.ActivationType
	}{
		{"1m", "Creative Cloud 1 Month", 1, 1299, 5499, model.ActivationPreActivated},
		{"3m", "Creative Cloud 3 Months", 3, 2999, 16497, model.ActivationPreActivated},
		{"6m", "Creative Cloud 6 Months", 6, 5499, 32994, model.ActivationSelf},
		{"12m", "Creative Cloud 12 Months", 12, 9999, 65988, model.ActivationSelf},
	}

	// All-or-nothing: a partially seeded catalog would resolve some plans
	// and not others.
	txm := pg.NewTxManager(pool)
	err = txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		for _, s := range seed {
			p, err := model.NewProduct(s.ID, s.Name, s.Months, s.Price, s.Original,
				model.ProductTypeSubscription, model.ProductLineCreativeCloud, s.Act)
			if err != nil {
				return fmt.Errorf("build product %s: %w", s.ID, err)
			}
			if err := productRepo.Save(ctx, tx, p); err != nil {
				return fmt.Errorf("save product %s: %w", s.ID, err)
			}
			fmt.Printf("seeded %s (%s)\n", p.ID, p.Description())
		}
		return nil
	})
	if err != nil {
		log.Fatalf("seed catalog: %v", err)
	}
	fmt.Println("done.")
}
