package domain

import "time"

// InventoryRecord — строка таблицы inventory: источник истины для
// классификации состояния запасов.
//
// Числовые поля объявлены указателями: NULL в БД означает, что значение
// неизвестно. Классификатор обязан переживать отсутствие любого из них.
type InventoryRecord struct {
	// Key — пара (товар, магазин).
	Key ItemKey `json:"key"`

	// StockLevel — текущий остаток. Nil, если данных нет.
	StockLevel *float64 `json:"stock_level,omitempty"`

	// ReorderPoint — точка перезаказа (ROP). Nil, если данных нет.
	ReorderPoint *float64 `json:"reorder_point,omitempty"`

	// ExpiryDate — срок годности в сыром виде ("2006-01-02" либо мусор).
	// Хранится текстом: невалидная дата — штатная ситуация, а не ошибка.
	ExpiryDate string `json:"expiry_date,omitempty"`

	// WarehouseCapacity — вместимость склада. Nil, если данных нет.
	WarehouseCapacity *float64 `json:"warehouse_capacity,omitempty"`

	// SupplierLeadTimeDays — срок поставки в днях. Nil, если данных нет.
	SupplierLeadTimeDays *int `json:"supplier_lead_time_days,omitempty"`

	// UpdatedAt — время последнего обновления строки.
	UpdatedAt time.Time `json:"updated_at"`
}

// PricingRecord — строка таблицы pricing: входные данные ценового движка.
type PricingRecord struct {
	// Key — пара (товар, магазин).
	Key ItemKey `json:"key"`

	// Price — текущая цена. Nil либо <=0 — движок пропускает сущность.
	Price *float64 `json:"price,omitempty"`

	// CompetitorPrice — цена конкурента из последней выгрузки.
	// Советник может вернуть более свежую; выгрузка — запасной вариант.
	CompetitorPrice *float64 `json:"competitor_price,omitempty"`

	// CustomerReviews — сырой текст отзывов для анализа тональности.
	CustomerReviews string `json:"customer_reviews,omitempty"`

	// StorageCost — стоимость хранения единицы.
	StorageCost *float64 `json:"storage_cost,omitempty"`

	// ElasticityIndex — индекс эластичности спроса.
	ElasticityIndex *float64 `json:"elasticity_index,omitempty"`
}

// SalesPoint — одна точка истории продаж.
type SalesPoint struct {
	// Date — день продажи.
	Date time.Time `json:"date"`

	// Quantity — количество проданных единиц за день.
	Quantity float64 `json:"quantity"`
}
