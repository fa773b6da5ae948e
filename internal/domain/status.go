package domain

// Flag — флаг состояния запасов. Закрытое перечисление:
// классификатор не выставляет значений вне этого списка.
type Flag string

const (
	// FlagNoData — запись inventory отсутствует целиком.
	FlagNoData Flag = "NO_DATA"

	// FlagStockLevelUnknown — остаток или ROP не являются числом.
	// Проверки запаса при этом не выполняются.
	FlagStockLevelUnknown Flag = "STOCK_LEVEL_UNKNOWN"

	// FlagExpired — срок годности истёк. Снимает FlagOK.
	FlagExpired Flag = "EXPIRED"

	// FlagLowStock — остаток на точке перезаказа или ниже.
	FlagLowStock Flag = "LOW_STOCK"

	// FlagNearExpiry — срок годности внутри порогового окна.
	FlagNearExpiry Flag = "NEAR_EXPIRY"

	// FlagExcessStock — остаток выше ROP × множитель избытка.
	// Может быть выставлен одновременно с FlagLowStock.
	FlagExcessStock Flag = "EXCESS_STOCK"

	// FlagInvalidExpiryDate — срок годности задан, но не парсится.
	// Классификация при этом не считается ошибочной.
	FlagInvalidExpiryDate Flag = "INVALID_EXPIRY_DATE"

	// FlagOK — запас в норме относительно ROP.
	FlagOK Flag = "OK"
)

// statusPriority — фиксированный порядок разрешения первичного статуса,
// от самого срочного к наименее срочному. Порядок менять нельзя:
// на него завязаны downstream-стадии и отчёт.
var statusPriority = []Flag{
	FlagNoData,
	FlagStockLevelUnknown,
	FlagExpired,
	FlagLowStock,
	FlagNearExpiry,
	FlagExcessStock,
	FlagOK,
}

// InventoryStatus — результат классификации одной сущности.
//
// Производное и транзиентное значение: не персистится, пересчитывается
// каждый запуск конвейера. Несёт числовой снимок исходной записи,
// чтобы downstream-стадии не перечитывали inventory.
type InventoryStatus struct {
	// Key — пара (товар, магазин).
	Key ItemKey `json:"key"`

	// Primary — первичный статус, разрешённый по statusPriority.
	Primary Flag `json:"primary"`

	// Flags — полный набор выставленных флагов, отсортированный.
	Flags []Flag `json:"flags"`

	// StockLevel — снимок остатка. Nil, если неизвестен.
	StockLevel *float64 `json:"stock_level,omitempty"`

	// ReorderPoint — снимок ROP. Nil, если неизвестен.
	ReorderPoint *float64 `json:"reorder_point,omitempty"`

	// WarehouseCapacity — снимок вместимости склада.
	WarehouseCapacity *float64 `json:"warehouse_capacity,omitempty"`

	// Details — диагностические пояснения по каждой проверке.
	Details map[string]string `json:"details,omitempty"`
}

// Has проверяет наличие флага.
func (s *InventoryStatus) Has(f Flag) bool {
	for _, got := range s.Flags {
		if got == f {
			return true
		}
	}
	return false
}

// ResolvePrimary возвращает первичный статус для набора флагов:
// первый флаг из statusPriority, присутствующий в наборе.
// Для пустого набора возвращает FlagStockLevelUnknown.
func ResolvePrimary(flags []Flag) Flag {
	set := make(map[Flag]bool, len(flags))
	for _, f := range flags {
		set[f] = true
	}
	for _, f := range statusPriority {
		if set[f] {
			return f
		}
	}
	return FlagStockLevelUnknown
}
