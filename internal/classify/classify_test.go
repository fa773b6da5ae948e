package classify

import (
	"testing"
	"time"

	"github.com/shaiso/Shelfwise/internal/domain"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fptr(v float64) *float64 { return &v }

func record(stock, rop *float64, expiry string) *domain.InventoryRecord {
	return &domain.InventoryRecord{
		Key:          domain.ItemKey{ProductID: 1, StoreID: 1},
		StockLevel:   stock,
		ReorderPoint: rop,
		ExpiryDate:   expiry,
	}
}

func check(rec *domain.InventoryRecord) *domain.InventoryStatus {
	return Check(domain.ItemKey{ProductID: 1, StoreID: 1}, rec, Options{Now: testNow})
}

func TestCheck_NoData(t *testing.T) {
	status := check(nil)

	if status.Primary != domain.FlagNoData {
		t.Errorf("expected NO_DATA, got %s", status.Primary)
	}
	if len(status.Flags) != 1 || status.Flags[0] != domain.FlagNoData {
		t.Errorf("unexpected flags: %v", status.Flags)
	}
}

func TestCheck_StockLevels(t *testing.T) {
	tests := []struct {
		name       string
		stock, rop float64
		low, ok    bool
		excess     bool
	}{
		{"below reorder point", 10, 50, true, false, false},
		{"exactly at reorder point", 50, 50, true, false, false},
		{"just above reorder point", 51, 50, false, true, false},
		{"excess stock", 101, 50, false, true, true},
		{"exactly at excess boundary", 100, 50, false, true, false},
		{"zero reorder point never excess", 1000, 0, false, true, false},
		{"zero stock zero rop is low", 0, 0, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := check(record(fptr(tt.stock), fptr(tt.rop), ""))

			if got := status.Has(domain.FlagLowStock); got != tt.low {
				t.Errorf("LOW_STOCK = %v, want %v", got, tt.low)
			}
			if got := status.Has(domain.FlagExcessStock); got != tt.excess {
				t.Errorf("EXCESS_STOCK = %v, want %v", got, tt.excess)
			}
			if got := status.Has(domain.FlagOK); got != tt.ok {
				t.Errorf("OK = %v, want %v", got, tt.ok)
			}
		})
	}
}

func TestCheck_UnknownStock(t *testing.T) {
	// Остаток неизвестен — проверки запаса выключаются целиком.
	status := check(record(nil, fptr(50), ""))

	if status.Primary != domain.FlagStockLevelUnknown {
		t.Errorf("expected STOCK_LEVEL_UNKNOWN, got %s", status.Primary)
	}
	if status.Has(domain.FlagLowStock) || status.Has(domain.FlagOK) {
		t.Errorf("stock checks should be skipped, flags: %v", status.Flags)
	}

	// То же для неизвестного ROP.
	status = check(record(fptr(10), nil, ""))
	if status.Primary != domain.FlagStockLevelUnknown {
		t.Errorf("expected STOCK_LEVEL_UNKNOWN for nil ROP, got %s", status.Primary)
	}
}

func TestCheck_ExpiredRemovesOK(t *testing.T) {
	// Нормальный запас, но срок истёк вчера: OK снимается, primary EXPIRED.
	yesterday := testNow.AddDate(0, 0, -1).Format("2006-01-02")
	status := check(record(fptr(80), fptr(50), yesterday))

	if !status.Has(domain.FlagExpired) {
		t.Fatal("expected EXPIRED flag")
	}
	if status.Has(domain.FlagOK) {
		t.Error("EXPIRED must remove OK")
	}
	if status.Primary != domain.FlagExpired {
		t.Errorf("expected primary EXPIRED, got %s", status.Primary)
	}
}

func TestCheck_NearExpiry(t *testing.T) {
	soon := testNow.AddDate(0, 0, 10).Format("2006-01-02")
	status := check(record(fptr(80), fptr(50), soon))

	if !status.Has(domain.FlagNearExpiry) {
		t.Errorf("expected NEAR_EXPIRY, flags: %v", status.Flags)
	}
	if !status.Has(domain.FlagOK) {
		t.Error("NEAR_EXPIRY should not remove OK")
	}
	if status.Primary != domain.FlagNearExpiry {
		t.Errorf("expected primary NEAR_EXPIRY, got %s", status.Primary)
	}

	// За пределами окна — флага нет.
	far := testNow.AddDate(0, 0, 45).Format("2006-01-02")
	status = check(record(fptr(80), fptr(50), far))
	if status.Has(domain.FlagNearExpiry) {
		t.Error("expiry outside threshold must not flag NEAR_EXPIRY")
	}
}

func TestCheck_InvalidExpiryDate(t *testing.T) {
	status := check(record(fptr(10), fptr(50), "next tuesday"))

	if !status.Has(domain.FlagInvalidExpiryDate) {
		t.Errorf("expected INVALID_EXPIRY_DATE, flags: %v", status.Flags)
	}
	// Проверки запаса при этом не страдают.
	if !status.Has(domain.FlagLowStock) {
		t.Error("stock checks must survive a bad expiry date")
	}
	if status.Primary != domain.FlagLowStock {
		t.Errorf("expected primary LOW_STOCK, got %s", status.Primary)
	}
}

func TestCheck_MissingExpiryIsNotAFlag(t *testing.T) {
	for _, raw := range []string{"", "Unknown"} {
		status := check(record(fptr(80), fptr(50), raw))
		if status.Has(domain.FlagInvalidExpiryDate) || status.Has(domain.FlagNearExpiry) || status.Has(domain.FlagExpired) {
			t.Errorf("missing expiry %q must not raise expiry flags: %v", raw, status.Flags)
		}
	}
}

func TestCheck_SnapshotCarried(t *testing.T) {
	status := check(record(fptr(10), fptr(50), ""))

	if status.StockLevel == nil || *status.StockLevel != 10 {
		t.Error("status must carry the stock snapshot")
	}
	if status.ReorderPoint == nil || *status.ReorderPoint != 50 {
		t.Error("status must carry the reorder point snapshot")
	}
}

func TestResolvePrimary_Priority(t *testing.T) {
	tests := []struct {
		flags []domain.Flag
		want  domain.Flag
	}{
		{[]domain.Flag{domain.FlagOK}, domain.FlagOK},
		{[]domain.Flag{domain.FlagOK, domain.FlagExcessStock}, domain.FlagExcessStock},
		{[]domain.Flag{domain.FlagNearExpiry, domain.FlagExcessStock}, domain.FlagNearExpiry},
		{[]domain.Flag{domain.FlagLowStock, domain.FlagNearExpiry}, domain.FlagLowStock},
		{[]domain.Flag{domain.FlagExpired, domain.FlagLowStock}, domain.FlagExpired},
		{[]domain.Flag{domain.FlagStockLevelUnknown, domain.FlagExpired}, domain.FlagStockLevelUnknown},
		{[]domain.Flag{domain.FlagNoData, domain.FlagStockLevelUnknown}, domain.FlagNoData},
		{[]domain.Flag{domain.FlagInvalidExpiryDate, domain.FlagOK}, domain.FlagOK},
	}

	for _, tt := range tests {
		if got := domain.ResolvePrimary(tt.flags); got != tt.want {
			t.Errorf("ResolvePrimary(%v) = %s, want %s", tt.flags, got, tt.want)
		}
	}
}
