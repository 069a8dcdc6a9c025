package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DBPool matches the subset of *pgxpool.Pool used to read products.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresSource struct {
	pool DBPool
}

func NewPostgresSource(pool DBPool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

const listProductsSQL = `SELECT id, name, price FROM products ORDER BY position, id`

func (s *PostgresSource) Load(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}
