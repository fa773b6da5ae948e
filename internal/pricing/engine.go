package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shaiso/Shelfwise/internal/domain"
	"github.com/shaiso/Shelfwise/internal/telemetry"
)

// Sentiment — метка сентимента отзывов о цене и ценности товара.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
)

const (
	nearExpiryDiscount  = 0.15
	excessStockDiscount = 0.10
	competitorDiscount  = 0.05
	increaseFactor      = 1.05
	negativeMultiplier  = 1.2

	// Порог, ниже которого текст отзывов не несёт сигнала.
	minReviewLength = 10

	// Расхождение цен, после которого реагируем на конкурента.
	competitorGapFactor = 1.1
)

// Completer — текстовый оракул для классификации сентимента.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}

// CompetitorSource — внешний справочник цен конкурента. Используется,
// когда цена конкурента не сохранена в ценовой записи.
type CompetitorSource interface {
	Lookup(ctx context.Context, identifier string) (*float64, error)
}

// Engine — движок ценовых рекомендаций.
type Engine struct {
	Advisor     Completer
	Competitors CompetitorSource
	Logger      *slog.Logger

	// Now — штамп времени для предложений. Zero value — time.Now().
	Now time.Time
}

// NewEngine создаёт новый Engine. Advisor и competitors могут быть nil:
// тогда соответствующие проверки не выполняются.
func NewEngine(advisor Completer, competitors CompetitorSource, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{Advisor: advisor, Competitors: competitors, Logger: logger}
}

// Propose строит ценовое предложение для сущности. Возвращает nil без
// ошибки, когда текущая цена отсутствует или итоговая цена совпадает
// с текущей.
func (e *Engine) Propose(ctx context.Context, status *domain.InventoryStatus, rec *domain.PricingRecord) (*domain.PricingProposal, error) {
	if rec == nil || rec.Price == nil || *rec.Price <= 0 {
		return nil, nil
	}
	current := *rec.Price

	discount := 0.0
	var reasons []string

	if status.Has(domain.FlagNearExpiry) {
		discount = math.Max(discount, nearExpiryDiscount)
		reasons = append(reasons, "Near Expiry")
	}
	if status.Has(domain.FlagExcessStock) {
		discount = math.Max(discount, excessStockDiscount)
		reasons = append(reasons, "Excess Stock")
	}

	sentiment := e.classifySentiment(ctx, status.Key, rec.CustomerReviews)
	if sentiment == SentimentNegative {
		reasons = append(reasons, "ReviewSentiment:"+string(sentiment))
	}

	increase := false
	if comp := e.competitorPrice(ctx, status.Key, rec); comp != nil && *comp > 0 {
		switch {
		case current > competitorGapFactor*(*comp):
			discount = math.Max(discount, competitorDiscount)
			reasons = append(reasons, fmt.Sprintf("CompPrice:%.2f", *comp))
		case *comp > competitorGapFactor*current && discount == 0 && sentiment != SentimentNegative:
			increase = true
			reasons = append(reasons, fmt.Sprintf("CompPrice:%.2f", *comp), "PriceIncrease")
		}
	}

	final := current
	switch {
	case increase:
		final = current * increaseFactor
	case discount > 0:
		if sentiment == SentimentNegative {
			discount *= negativeMultiplier
		}
		if discount > 1 {
			discount = 1
		}
		final = current * (1 - discount)
	}

	final = round2(final)
	if final == current {
		return nil, nil
	}

	now := e.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &domain.PricingProposal{
		Key:              status.Key,
		CurrentPrice:     current,
		RecommendedPrice: final,
		Reasons:          reasons,
		Status:           domain.ProposalStatusProposed,
		GeneratedAt:      now,
	}, nil
}

// classifySentiment спрашивает оракул о сентименте отзывов. Любой
// ответ вне трёх меток, ошибка оракула или короткий текст дают NEUTRAL.
func (e *Engine) classifySentiment(ctx context.Context, key domain.ItemKey, reviews string) Sentiment {
	reviews = strings.TrimSpace(reviews)
	if e.Advisor == nil || len(reviews) <= minReviewLength {
		return SentimentNeutral
	}

	prompt := fmt.Sprintf(
		"Классифицируй сентимент покупательских отзывов строго про цену и ценность товара. "+
			"Ответь ровно одним словом: POSITIVE, NEGATIVE или NEUTRAL.\n\nОтзывы:\n%s",
		reviews,
	)
	answer, err := e.Advisor.Complete(ctx, prompt, 0)
	if err != nil {
		telemetry.OracleFailures.WithLabelValues("sentiment").Inc()
		e.Logger.Warn("sentiment oracle failed, assuming neutral",
			"item", key.String(), "error", err)
		return SentimentNeutral
	}

	switch Sentiment(strings.ToUpper(strings.TrimSpace(answer))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// competitorPrice возвращает цену конкурента из записи либо из
// внешнего справочника. Ошибка справочника не фатальна.
func (e *Engine) competitorPrice(ctx context.Context, key domain.ItemKey, rec *domain.PricingRecord) *float64 {
	if rec.CompetitorPrice != nil {
		return rec.CompetitorPrice
	}
	if e.Competitors == nil {
		return nil
	}
	price, err := e.Competitors.Lookup(ctx, strconv.FormatInt(key.ProductID, 10))
	if err != nil {
		telemetry.OracleFailures.WithLabelValues("competitor_price").Inc()
		e.Logger.Warn("competitor price lookup failed",
			"item", key.String(), "error", err)
		return nil
	}
	return price
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
