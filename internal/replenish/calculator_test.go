package replenish

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shaiso/Shelfwise/internal/domain"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeForecasts struct {
	perDay float64
	err    error

	gotFrom time.Time
	gotTo   time.Time
	calls   int
}

func (f *fakeForecasts) SumRange(_ context.Context, _ domain.ItemKey, from, to time.Time) (float64, error) {
	f.calls++
	f.gotFrom = from
	f.gotTo = to
	if f.err != nil {
		return 0, f.err
	}
	days := int(to.Sub(from).Hours()/24) + 1
	return f.perDay * float64(days), nil
}

type fakeLeadTimes struct {
	days int
	err  error
}

func (f *fakeLeadTimes) LeadTimeDays(context.Context, domain.ItemKey) (int, error) {
	return f.days, f.err
}

func lowStockStatus(stock, rop float64) *domain.InventoryStatus {
	return &domain.InventoryStatus{
		Key:          domain.ItemKey{ProductID: 9286, StoreID: 16},
		Primary:      domain.FlagLowStock,
		Flags:        []domain.Flag{domain.FlagLowStock},
		StockLevel:   &stock,
		ReorderPoint: &rop,
	}
}

func newTestCalculator(f *fakeForecasts, l *fakeLeadTimes) *Calculator {
	c := NewCalculator(f, l, slog.New(slog.NewTextHandler(testWriter{}, nil)))
	c.Now = testNow
	return c
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestProposeLeadTimeAware(t *testing.T) {
	forecasts := &fakeForecasts{perDay: 5}
	calc := newTestCalculator(forecasts, &fakeLeadTimes{days: 11})

	p, err := calc.Propose(context.Background(), lowStockStatus(50, 127))
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p == nil {
		t.Fatal("expected proposal, got nil")
	}
	// Спрос за 11 дней по 5 в день = 55, цель 127+55 = 182, заказ 182-50.
	if p.QuantityOrdered != 132 {
		t.Errorf("QuantityOrdered = %d, want 132", p.QuantityOrdered)
	}
	if p.LeadTimeDays != 11 {
		t.Errorf("LeadTimeDays = %d, want 11", p.LeadTimeDays)
	}
	if p.Status != domain.ProposalStatusProposed {
		t.Errorf("Status = %q, want %q", p.Status, domain.ProposalStatusProposed)
	}

	wantFrom := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, 6, 26, 0, 0, 0, 0, time.UTC)
	if !forecasts.gotFrom.Equal(wantFrom) || !forecasts.gotTo.Equal(wantTo) {
		t.Errorf("demand window = [%s, %s], want [%s, %s]",
			forecasts.gotFrom, forecasts.gotTo, wantFrom, wantTo)
	}
}

func TestProposeZeroLeadTimeTopsUpToReorderPoint(t *testing.T) {
	forecasts := &fakeForecasts{perDay: 5}
	calc := newTestCalculator(forecasts, &fakeLeadTimes{days: 0})

	p, err := calc.Propose(context.Background(), lowStockStatus(40, 60))
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p == nil {
		t.Fatal("expected proposal, got nil")
	}
	if p.QuantityOrdered != 20 {
		t.Errorf("QuantityOrdered = %d, want 20", p.QuantityOrdered)
	}
	if p.LeadTimeDays != 0 {
		t.Errorf("LeadTimeDays = %d, want 0", p.LeadTimeDays)
	}
	if forecasts.calls != 0 {
		t.Errorf("forecast queried %d times without lead time, want 0", forecasts.calls)
	}
}

func TestProposeSkipsWithoutLowStock(t *testing.T) {
	stock, rop := 500.0, 100.0
	status := &domain.InventoryStatus{
		Key:          domain.ItemKey{ProductID: 1, StoreID: 1},
		Primary:      domain.FlagOK,
		Flags:        []domain.Flag{domain.FlagOK},
		StockLevel:   &stock,
		ReorderPoint: &rop,
	}
	calc := newTestCalculator(&fakeForecasts{}, &fakeLeadTimes{days: 5})

	p, err := calc.Propose(context.Background(), status)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p != nil {
		t.Errorf("expected no proposal, got %+v", p)
	}
}

func TestProposeSkipsUnknownNumbers(t *testing.T) {
	rop := 60.0
	status := &domain.InventoryStatus{
		Key:          domain.ItemKey{ProductID: 2, StoreID: 1},
		Primary:      domain.FlagLowStock,
		Flags:        []domain.Flag{domain.FlagLowStock},
		StockLevel:   nil,
		ReorderPoint: &rop,
	}
	calc := newTestCalculator(&fakeForecasts{}, &fakeLeadTimes{days: 5})

	p, err := calc.Propose(context.Background(), status)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p != nil {
		t.Errorf("expected no proposal, got %+v", p)
	}
}

func TestProposeLeadTimeErrorFallsBack(t *testing.T) {
	calc := newTestCalculator(&fakeForecasts{perDay: 5}, &fakeLeadTimes{err: errors.New("db down")})

	p, err := calc.Propose(context.Background(), lowStockStatus(40, 60))
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p == nil {
		t.Fatal("expected proposal, got nil")
	}
	if p.QuantityOrdered != 20 {
		t.Errorf("QuantityOrdered = %d, want 20", p.QuantityOrdered)
	}
}

func TestProposeForecastErrorDegradesToZeroDemand(t *testing.T) {
	calc := newTestCalculator(&fakeForecasts{err: errors.New("no forecast")}, &fakeLeadTimes{days: 7})

	p, err := calc.Propose(context.Background(), lowStockStatus(40, 60))
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p == nil {
		t.Fatal("expected proposal, got nil")
	}
	if p.QuantityOrdered != 20 {
		t.Errorf("QuantityOrdered = %d, want 20", p.QuantityOrdered)
	}
}

func TestProposeZeroQuantityYieldsNoProposal(t *testing.T) {
	calc := newTestCalculator(&fakeForecasts{perDay: 0}, &fakeLeadTimes{days: 0})

	// Запас уже на уровне ROP: добирать нечего.
	p, err := calc.Propose(context.Background(), lowStockStatus(60, 60))
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p != nil {
		t.Errorf("expected no proposal, got %+v", p)
	}
}
