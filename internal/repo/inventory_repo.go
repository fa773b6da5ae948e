package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Shelfwise/internal/domain"
)

// InventoryRepo — репозиторий таблицы inventory.
type InventoryRepo struct {
	pool *pgxpool.Pool
}

// NewInventoryRepo создаёт новый InventoryRepo.
func NewInventoryRepo(pool *pgxpool.Pool) *InventoryRepo {
	return &InventoryRepo{pool: pool}
}

// Get возвращает запись inventory по ключу.
// Возвращает ErrNotFound, если записи нет.
func (r *InventoryRepo) Get(ctx context.Context, key domain.ItemKey) (*domain.InventoryRecord, error) {
	query := `
		SELECT product_id, store_id, stock_level, reorder_point, expiry_date,
		       warehouse_capacity, supplier_lead_time_days, updated_at
		FROM inventory
		WHERE product_id = $1 AND store_id = $2
	`
	var rec domain.InventoryRecord
	var expiry *string

	err := r.pool.QueryRow(ctx, query, key.ProductID, key.StoreID).Scan(
		&rec.Key.ProductID,
		&rec.Key.StoreID,
		&rec.StockLevel,
		&rec.ReorderPoint,
		&expiry,
		&rec.WarehouseCapacity,
		&rec.SupplierLeadTimeDays,
		&rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan inventory: %w", err)
	}

	if expiry != nil {
		rec.ExpiryDate = *expiry
	}
	return &rec, nil
}

// LeadTimeDays возвращает срок поставки для сущности.
// Отсутствие записи или NULL в колонке — это срок 0, а не ошибка.
func (r *InventoryRepo) LeadTimeDays(ctx context.Context, key domain.ItemKey) (int, error) {
	query := `
		SELECT supplier_lead_time_days
		FROM inventory
		WHERE product_id = $1 AND store_id = $2
	`
	var leadTime *int
	err := r.pool.QueryRow(ctx, query, key.ProductID, key.StoreID).Scan(&leadTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get lead time: %w", err)
	}
	if leadTime == nil {
		return 0, nil
	}
	return *leadTime, nil
}

// Discover возвращает до limit пар (товар, магазин), присутствующих
// одновременно в inventory и в истории продаж за последние historyDays дней.
func (r *InventoryRepo) Discover(ctx context.Context, limit, historyDays int) ([]domain.ItemKey, error) {
	query := `
		SELECT DISTINCT i.product_id, i.store_id
		FROM inventory i
		INNER JOIN sales_history s
		        ON i.product_id = s.product_id AND i.store_id = s.store_id
		WHERE s.sale_date >= CURRENT_DATE - $1::int
		ORDER BY i.product_id, i.store_id
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, historyDays, limit)
	if err != nil {
		return nil, fmt.Errorf("discover items: %w", err)
	}
	defer rows.Close()

	var keys []domain.ItemKey
	for rows.Next() {
		var key domain.ItemKey
		if err := rows.Scan(&key.ProductID, &key.StoreID); err != nil {
			return nil, fmt.Errorf("scan item key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
