package pricing

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/shaiso/Shelfwise/internal/domain"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeAdvisor struct {
	answer string
	err    error
	calls  int
}

func (f *fakeAdvisor) Complete(context.Context, string, float64) (string, error) {
	f.calls++
	return f.answer, f.err
}

type fakeCompetitors struct {
	price *float64
	err   error
	calls int
}

func (f *fakeCompetitors) Lookup(context.Context, string) (*float64, error) {
	f.calls++
	return f.price, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func ptr(v float64) *float64 { return &v }

func statusWith(flags ...domain.Flag) *domain.InventoryStatus {
	if len(flags) == 0 {
		flags = []domain.Flag{domain.FlagOK}
	}
	return &domain.InventoryStatus{
		Key:     domain.ItemKey{ProductID: 9286, StoreID: 16},
		Primary: domain.ResolvePrimary(flags),
		Flags:   flags,
	}
}

func newTestEngine(advisor Completer, competitors CompetitorSource) *Engine {
	e := NewEngine(advisor, competitors, discardLogger())
	e.Now = testNow
	return e
}

func TestProposeSkipsMissingPrice(t *testing.T) {
	e := newTestEngine(nil, nil)
	for name, rec := range map[string]*domain.PricingRecord{
		"nil record": nil,
		"nil price":  {Price: nil},
		"zero price": {Price: ptr(0)},
	} {
		p, err := e.Propose(context.Background(), statusWith(domain.FlagNearExpiry), rec)
		if err != nil {
			t.Fatalf("%s: Propose: %v", name, err)
		}
		if p != nil {
			t.Errorf("%s: expected nil proposal, got %+v", name, p)
		}
	}
}

func TestProposeNearExpiryDiscount(t *testing.T) {
	e := newTestEngine(nil, nil)
	p, err := e.Propose(context.Background(), statusWith(domain.FlagNearExpiry), &domain.PricingRecord{Price: ptr(200)})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p == nil {
		t.Fatal("expected proposal, got nil")
	}
	if p.RecommendedPrice != 170.00 {
		t.Errorf("RecommendedPrice = %v, want 170.00", p.RecommendedPrice)
	}
	if !reflect.DeepEqual(p.Reasons, []string{"Near Expiry"}) {
		t.Errorf("Reasons = %v, want [Near Expiry]", p.Reasons)
	}
	if !p.IsDiscount() {
		t.Error("expected proposal to be a discount")
	}
}

func TestProposeTakeMaxNotAdditive(t *testing.T) {
	e := newTestEngine(nil, nil)
	p, err := e.Propose(context.Background(),
		statusWith(domain.FlagNearExpiry, domain.FlagExcessStock),
		&domain.PricingRecord{Price: ptr(100)})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p == nil {
		t.Fatal("expected proposal, got nil")
	}
	// 0.15 поглощает 0.10, а не складывается с ним.
	if p.RecommendedPrice != 85.00 {
		t.Errorf("RecommendedPrice = %v, want 85.00", p.RecommendedPrice)
	}
	if !reflect.DeepEqual(p.Reasons, []string{"Near Expiry", "Excess Stock"}) {
		t.Errorf("Reasons = %v", p.Reasons)
	}
}

func TestProposeCompetitorUndercut(t *testing.T) {
	e := newTestEngine(nil, nil)
	p, err := e.Propose(context.Background(), statusWith(),
		&domain.PricingRecord{Price: ptr(100), CompetitorPrice: ptr(70)})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p == nil {
		t.Fatal("expected proposal, got nil")
	}
	if p.RecommendedPrice != 95.00 {
		t.Errorf("RecommendedPrice = %v, want 95.00", p.RecommendedPrice)
	}
	if !reflect.DeepEqual(p.Reasons, []string{"CompPrice:70.00"}) {
		t.Errorf("Reasons = %v, want [CompPrice:70.00]", p.Reasons)
	}
}

func TestProposePriceIncrease(t *testing.T) {
	e := newTestEngine(nil, nil)
	p, err := e.Propose(context.Background(), statusWith(),
		&domain.PricingRecord{Price: ptr(100), CompetitorPrice: ptr(120)})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p == nil {
		t.Fatal("expected proposal, got nil")
	}
	if p.RecommendedPrice != 105.00 {
		t.Errorf("RecommendedPrice = %v, want 105.00", p.RecommendedPrice)
	}
	if !reflect.DeepEqual(p.Reasons, []string{"CompPrice:120.00", "PriceIncrease"}) {
		t.Errorf("Reasons = %v", p.Reasons)
	}
	if p.IsDiscount() {
		t.Error("increase must not be a discount")
	}
}

func TestProposeIncreaseBlockedByExistingDiscount(t *testing.T) {
	e := newTestEngine(nil, nil)
	p, err := e.Propose(context.Background(), statusWith(domain.FlagExcessStock),
		&domain.PricingRecord{Price: ptr(100), CompetitorPrice: ptr(120)})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p == nil {
		t.Fatal("expected proposal, got nil")
	}
	// Скидка уже ненулевая: ветка повышения не рассматривается.
	if p.RecommendedPrice != 90.00 {
		t.Errorf("RecommendedPrice = %v, want 90.00", p.RecommendedPrice)
	}
	if !reflect.DeepEqual(p.Reasons, []string{"Excess Stock"}) {
		t.Errorf("Reasons = %v, want [Excess Stock]", p.Reasons)
	}
}

func TestProposeNegativeSentimentAmplifiesDiscount(t *testing.T) {
	advisor := &fakeAdvisor{answer: "NEGATIVE"}
	e := newTestEngine(advisor, nil)
	p, err := e.Propose(context.Background(), statusWith(domain.FlagExcessStock),
		&domain.PricingRecord{
			Price:           ptr(100),
			CustomerReviews: "Слишком дорого за такое качество, не советую.",
		})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p == nil {
		t.Fatal("expected proposal, got nil")
	}
	// 0.10 × 1.2 = 0.12.
	if p.RecommendedPrice != 88.00 {
		t.Errorf("RecommendedPrice = %v, want 88.00", p.RecommendedPrice)
	}
	if !reflect.DeepEqual(p.Reasons, []string{"Excess Stock", "ReviewSentiment:NEGATIVE"}) {
		t.Errorf("Reasons = %v", p.Reasons)
	}
}

func TestProposeNegativeSentimentBlocksIncrease(t *testing.T) {
	advisor := &fakeAdvisor{answer: "negative\n"}
	e := newTestEngine(advisor, nil)
	p, err := e.Propose(context.Background(), statusWith(),
		&domain.PricingRecord{
			Price:           ptr(100),
			CompetitorPrice: ptr(120),
			CustomerReviews: "Цена неадекватная, у соседей дешевле.",
		})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p != nil {
		t.Errorf("expected no proposal, got %+v", p)
	}
}

func TestProposeOffVocabularySentimentIsNeutral(t *testing.T) {
	advisor := &fakeAdvisor{answer: "I think the customers are mostly happy"}
	e := newTestEngine(advisor, nil)
	p, err := e.Propose(context.Background(), statusWith(domain.FlagExcessStock),
		&domain.PricingRecord{
			Price:           ptr(100),
			CustomerReviews: "Отличный товар, цена полностью оправдана.",
		})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p == nil {
		t.Fatal("expected proposal, got nil")
	}
	if p.RecommendedPrice != 90.00 {
		t.Errorf("RecommendedPrice = %v, want 90.00", p.RecommendedPrice)
	}
}

func TestProposeShortReviewsSkipOracle(t *testing.T) {
	advisor := &fakeAdvisor{answer: "NEGATIVE"}
	e := newTestEngine(advisor, nil)
	_, err := e.Propose(context.Background(), statusWith(domain.FlagExcessStock),
		&domain.PricingRecord{Price: ptr(100), CustomerReviews: "ок"})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if advisor.calls != 0 {
		t.Errorf("oracle called %d times on short reviews, want 0", advisor.calls)
	}
}

func TestProposeOracleFailureDegradesToNeutral(t *testing.T) {
	advisor := &fakeAdvisor{err: errors.New("connection refused")}
	e := newTestEngine(advisor, nil)
	p, err := e.Propose(context.Background(), statusWith(domain.FlagNearExpiry),
		&domain.PricingRecord{
			Price:           ptr(100),
			CustomerReviews: "Очень длинный отзыв про цену и качество товара.",
		})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p == nil {
		t.Fatal("expected proposal, got nil")
	}
	if p.RecommendedPrice != 85.00 {
		t.Errorf("RecommendedPrice = %v, want 85.00", p.RecommendedPrice)
	}
}

func TestProposeCompetitorLookupFallback(t *testing.T) {
	competitors := &fakeCompetitors{price: ptr(70)}
	e := newTestEngine(nil, competitors)
	p, err := e.Propose(context.Background(), statusWith(),
		&domain.PricingRecord{Price: ptr(100)})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p == nil {
		t.Fatal("expected proposal, got nil")
	}
	if p.RecommendedPrice != 95.00 {
		t.Errorf("RecommendedPrice = %v, want 95.00", p.RecommendedPrice)
	}
	if competitors.calls != 1 {
		t.Errorf("Lookup called %d times, want 1", competitors.calls)
	}
}

func TestProposeCompetitorLookupErrorIgnored(t *testing.T) {
	competitors := &fakeCompetitors{err: errors.New("http 500")}
	e := newTestEngine(nil, competitors)
	p, err := e.Propose(context.Background(), statusWith(),
		&domain.PricingRecord{Price: ptr(100)})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p != nil {
		t.Errorf("expected no proposal, got %+v", p)
	}
}

func TestProposeUnchangedPriceYieldsNoProposal(t *testing.T) {
	e := newTestEngine(nil, nil)
	p, err := e.Propose(context.Background(), statusWith(),
		&domain.PricingRecord{Price: ptr(100), CompetitorPrice: ptr(100)})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p != nil {
		t.Errorf("expected no proposal, got %+v", p)
	}
}
