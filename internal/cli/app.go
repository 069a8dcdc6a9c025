package cli

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/register"
)

// loadCatalog builds the catalog from the configured source. The Postgres
// pool only lives for the duration of the load.
func loadCatalog(ctx context.Context, cfg config.Config, logger *zap.Logger) (*catalog.Catalog, error) {
	var src catalog.Source

	switch cfg.CatalogSource {
	case config.CatalogBuiltin:
		src = catalog.StaticSource{}
	case config.CatalogFile:
		src = catalog.FileSource{Path: cfg.CatalogFile}
	case config.CatalogPostgres:
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
				return nil, fmt.Errorf("db migrate: %w", err)
			}
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		defer pool.Close()
		src = catalog.NewPostgresSource(pool)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}

	cat, err := catalog.Build(ctx, src)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded",
		zap.String("source", cfg.CatalogSource),
		zap.Int("products", cat.Len()),
	)
	return cat, nil
}

type transitionPublisher interface {
	register.Publisher
	io.Closer
}

func newPublisher(cfg config.Config, logger *zap.Logger) (transitionPublisher, func(), error) {
	if cfg.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL not set, transition publishing disabled")
		return events.NopPublisher{}, func() {}, nil
	}

	conn, err := events.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, nil, err
	}
	pub, err := events.NewPublisher(conn, events.PublisherOptions{})
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("create publisher: %w", err)
	}

	cleanup := func() {
		_ = pub.Close()
		_ = conn.Close()
	}
	return pub, cleanup, nil
}
