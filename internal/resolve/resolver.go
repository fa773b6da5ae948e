package resolve

import (
	"log/slog"

	"github.com/shaiso/Shelfwise/internal/domain"
)

// Conflict — обнаруженное пересечение: сущность одновременно требует
// пополнения и получила скидку.
type Conflict struct {
	Key              domain.ItemKey
	QuantityOrdered  int
	CurrentPrice     float64
	RecommendedPrice float64
}

// Resolver — детектор конфликтов между пополнением и ценообразованием.
type Resolver struct {
	Logger *slog.Logger
}

// NewResolver создаёт новый Resolver.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{Logger: logger}
}

// Resolve находит сущности, попавшие и в набор пополнения, и в набор
// скидок. Предложения не модифицируются, возвращается журнал
// конфликтов в порядке набора пополнения.
func (r *Resolver) Resolve(replenishments []*domain.ReplenishmentProposal, pricings []*domain.PricingProposal) []Conflict {
	discounts := make(map[domain.ItemKey]*domain.PricingProposal, len(pricings))
	for _, p := range pricings {
		if p.IsDiscount() {
			discounts[p.Key] = p
		}
	}

	var conflicts []Conflict
	for _, rep := range replenishments {
		p, ok := discounts[rep.Key]
		if !ok {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Key:              rep.Key,
			QuantityOrdered:  rep.QuantityOrdered,
			CurrentPrice:     p.CurrentPrice,
			RecommendedPrice: p.RecommendedPrice,
		})
		r.Logger.Warn("replenishment overlaps with discount",
			"item", rep.Key.String(),
			"order_qty", rep.QuantityOrdered,
			"current_price", p.CurrentPrice,
			"recommended_price", p.RecommendedPrice,
		)
	}
	return conflicts
}
