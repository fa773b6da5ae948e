package classify

import (
	"fmt"
	"sort"
	"time"

	"github.com/shaiso/Shelfwise/internal/domain"
)

// Значения по умолчанию.
const (
	// DefaultExpiryThresholdDays — окно предупреждения о сроке годности.
	DefaultExpiryThresholdDays = 30

	// DefaultExcessMultiplier — множитель избытка относительно ROP.
	DefaultExcessMultiplier = 2.0
)

// expiryLayout — единственный принимаемый формат срока годности.
const expiryLayout = "2006-01-02"

// Options — параметры классификации.
type Options struct {
	// ExpiryThresholdDays — за сколько дней до истечения срока
	// выставлять NEAR_EXPIRY (default: 30).
	ExpiryThresholdDays int

	// ExcessMultiplier — во сколько раз остаток должен превышать ROP
	// для EXCESS_STOCK (default: 2.0).
	ExcessMultiplier float64

	// Now — точка отсчёта для проверок срока годности.
	// Zero value — time.Now(). Тесты задают явно.
	Now time.Time
}

func (o Options) withDefaults() Options {
	if o.ExpiryThresholdDays <= 0 {
		o.ExpiryThresholdDays = DefaultExpiryThresholdDays
	}
	if o.ExcessMultiplier <= 0 {
		o.ExcessMultiplier = DefaultExcessMultiplier
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// Check классифицирует запись inventory.
//
// rec == nil означает отсутствие записи целиком: статус NO_DATA.
// Результат несёт числовой снимок записи для downstream-стадий.
func Check(key domain.ItemKey, rec *domain.InventoryRecord, opts Options) *domain.InventoryStatus {
	opts = opts.withDefaults()

	if rec == nil {
		return &domain.InventoryStatus{
			Key:     key,
			Primary: domain.FlagNoData,
			Flags:   []domain.Flag{domain.FlagNoData},
			Details: map[string]string{"record": "inventory record missing"},
		}
	}

	flags := make(map[domain.Flag]bool)
	details := make(map[string]string)

	checkStock(rec, opts, flags, details)
	checkExpiry(rec, opts, flags, details)

	status := &domain.InventoryStatus{
		Key:               key,
		Primary:           domain.ResolvePrimary(flagList(flags)),
		Flags:             flagList(flags),
		StockLevel:        rec.StockLevel,
		ReorderPoint:      rec.ReorderPoint,
		WarehouseCapacity: rec.WarehouseCapacity,
		Details:           details,
	}
	return status
}

// checkStock выполняет проверки остатка относительно ROP.
// Неизвестный остаток или ROP выключает проверки целиком.
func checkStock(rec *domain.InventoryRecord, opts Options, flags map[domain.Flag]bool, details map[string]string) {
	if rec.StockLevel == nil || rec.ReorderPoint == nil {
		flags[domain.FlagStockLevelUnknown] = true
		details["stock_check"] = "stock level or reorder point missing"
		return
	}

	stock := *rec.StockLevel
	rop := *rec.ReorderPoint

	isLow := stock <= rop
	isExcess := rop > 0 && stock > rop*opts.ExcessMultiplier

	if isLow {
		flags[domain.FlagLowStock] = true
		details["stock_check"] = fmt.Sprintf("stock (%.0f) at or below reorder point (%.0f)", stock, rop)
	}
	if isExcess {
		flags[domain.FlagExcessStock] = true
		details["excess_check"] = fmt.Sprintf("stock (%.0f) above reorder point (%.0f) x %.1f", stock, rop, opts.ExcessMultiplier)
	}
	if !isLow {
		// Не ниже ROP — функционально в норме, даже при избытке.
		flags[domain.FlagOK] = true
		if !isExcess {
			details["stock_check"] = fmt.Sprintf("stock (%.0f) normal relative to reorder point (%.0f)", stock, rop)
		}
	}
}

// checkExpiry выполняет проверки срока годности.
// Отсутствие даты — норма; невалидная дата — флаг, а не ошибка.
func checkExpiry(rec *domain.InventoryRecord, opts Options, flags map[domain.Flag]bool, details map[string]string) {
	raw := rec.ExpiryDate
	if raw == "" || raw == "Unknown" {
		details["expiry_check"] = "no expiry date information"
		return
	}

	expiry, err := time.Parse(expiryLayout, raw)
	if err != nil {
		flags[domain.FlagInvalidExpiryDate] = true
		details["expiry_check"] = fmt.Sprintf("invalid expiry date format: %s", raw)
		return
	}

	threshold := opts.Now.AddDate(0, 0, opts.ExpiryThresholdDays)
	switch {
	case !expiry.After(opts.Now):
		flags[domain.FlagExpired] = true
		delete(flags, domain.FlagOK) // EXPIRED снимает OK
		details["expiry_check"] = fmt.Sprintf("item expired on %s", raw)
	case !expiry.After(threshold):
		flags[domain.FlagNearExpiry] = true
		details["expiry_check"] = fmt.Sprintf("item expiring soon (%s)", raw)
	default:
		details["expiry_check"] = fmt.Sprintf("expiry date (%s) is ok", raw)
	}
}

// flagList возвращает отсортированный список флагов для детерминизма.
func flagList(flags map[domain.Flag]bool) []domain.Flag {
	list := make([]domain.Flag, 0, len(flags))
	for f := range flags {
		list = append(list, f)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}
