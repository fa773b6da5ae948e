package domain

import "time"

// ProposalStatus — статус предложения стадии конвейера.
//
// Предложения транзиентны: живут внутри одного запуска. Заказ,
// созданный по предложению пополнения, сразу получает OrderStatusPlaced —
// строка со статусом "Proposed" в БД не появляется.
type ProposalStatus string

const (
	// ProposalStatusProposed — предложение сформировано стадией.
	ProposalStatusProposed ProposalStatus = "Proposed"

	// ProposalStatusCommitted — предложение превращено в заказ.
	ProposalStatusCommitted ProposalStatus = "Committed"

	// ProposalStatusRejected — предложение отклонено (резолвером
	// конфликтов либо при ошибке фиксации).
	ProposalStatusRejected ProposalStatus = "Rejected"
)

// ReplenishmentProposal — предложение заказа на пополнение.
//
// Создаётся только когда классификация несёт LOW_STOCK
// и рассчитанное количество строго положительно.
type ReplenishmentProposal struct {
	// Key — пара (товар, магазин).
	Key ItemKey `json:"key"`

	// QuantityOrdered — количество к заказу, > 0.
	QuantityOrdered int `json:"quantity_ordered"`

	// LeadTimeDays — срок поставки; нужен стадии фиксации
	// для расчёта ожидаемой даты доставки.
	LeadTimeDays int `json:"lead_time_days"`

	// Status — статус жизненного цикла, изначально Proposed.
	Status ProposalStatus `json:"status"`
}

// PricingProposal — предложение изменения цены.
//
// Создаётся только когда рекомендованная цена отличается от текущей.
// В этой части системы не персистится — уходит в отчёт.
type PricingProposal struct {
	// Key — пара (товар, магазин).
	Key ItemKey `json:"key"`

	// CurrentPrice — текущая цена.
	CurrentPrice float64 `json:"current_price"`

	// RecommendedPrice — рекомендованная цена.
	RecommendedPrice float64 `json:"recommended_price"`

	// Reasons — упорядоченный след сработавших правил,
	// например ["Near Expiry", "ReviewSentiment:NEGATIVE"].
	Reasons []string `json:"reasons"`

	// Status — статус жизненного цикла, изначально Proposed.
	Status ProposalStatus `json:"status"`

	// GeneratedAt — время формирования предложения.
	GeneratedAt time.Time `json:"generated_at"`
}

// IsDiscount возвращает true, если предложение снижает цену.
// Резолвер конфликтов ищет пересечение скидок с пополнением.
func (p *PricingProposal) IsDiscount() bool {
	return p.RecommendedPrice < p.CurrentPrice
}
