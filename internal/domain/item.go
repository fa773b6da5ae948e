package domain

import "fmt"

// ItemKey — ключ сущности конвейера: пара (товар, магазин).
//
// Все таблицы (inventory, pricing, история продаж, прогнозы, заказы)
// адресуются этим ключом. Ключ уникален в пределах каждой таблицы.
type ItemKey struct {
	// ProductID — идентификатор товара.
	ProductID int64 `json:"product_id"`

	// StoreID — идентификатор магазина.
	StoreID int64 `json:"store_id"`
}

// String возвращает компактное представление вида "P:4277/S:1".
// Используется в логах и в итоговом отчёте.
func (k ItemKey) String() string {
	return fmt.Sprintf("P:%d/S:%d", k.ProductID, k.StoreID)
}
