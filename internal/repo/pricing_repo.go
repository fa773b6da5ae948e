package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Shelfwise/internal/domain"
)

// PricingRepo — репозиторий таблицы pricing.
type PricingRepo struct {
	pool *pgxpool.Pool
}

// NewPricingRepo создаёт новый PricingRepo.
func NewPricingRepo(pool *pgxpool.Pool) *PricingRepo {
	return &PricingRepo{pool: pool}
}

// Get возвращает запись pricing по ключу.
// Возвращает ErrNotFound, если записи нет.
func (r *PricingRepo) Get(ctx context.Context, key domain.ItemKey) (*domain.PricingRecord, error) {
	query := `
		SELECT product_id, store_id, price, competitor_price, customer_reviews,
		       storage_cost, elasticity_index
		FROM pricing
		WHERE product_id = $1 AND store_id = $2
	`
	var rec domain.PricingRecord
	var reviews *string

	err := r.pool.QueryRow(ctx, query, key.ProductID, key.StoreID).Scan(
		&rec.Key.ProductID,
		&rec.Key.StoreID,
		&rec.Price,
		&rec.CompetitorPrice,
		&reviews,
		&rec.StorageCost,
		&rec.ElasticityIndex,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan pricing: %w", err)
	}

	if reviews != nil {
		rec.CustomerReviews = *reviews
	}
	return &rec, nil
}
