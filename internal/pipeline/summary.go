package pipeline

import (
	"fmt"
	"time"

	"github.com/shaiso/Shelfwise/internal/domain"
)

// maxExamples — сколько примеров предложений попадает в отчёт.
const maxExamples = 3

// StageLine — строка отчёта по одной стадии.
type StageLine struct {
	Stage   Stage   `json:"stage"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
	Count   int     `json:"count"`
	Error   string  `json:"error,omitempty"`
}

// Summary — человекочитаемый итог прогона.
type Summary struct {
	RunID     string           `json:"run_id"`
	Status    domain.RunStatus `json:"status"`
	StartedAt time.Time        `json:"started_at"`

	Entities int `json:"entities"`

	// Stages — построчный итог в фиксированном порядке стадий.
	Stages []StageLine `json:"stages"`

	// FlagCounts — количество сущностей по каждому флагу.
	FlagCounts map[string]int `json:"flag_counts,omitempty"`

	Replenishments int `json:"replenishments"`
	Pricings       int `json:"pricings"`
	Conflicts      int `json:"conflicts"`
	OrdersPlaced   int `json:"orders_placed"`

	// Examples — первые предложения и заказы для беглого просмотра.
	ExampleReplenishments []string `json:"example_replenishments,omitempty"`
	ExamplePricings       []string `json:"example_pricings,omitempty"`
	ExampleOrders         []string `json:"example_orders,omitempty"`

	// EntityErrors — ошибки уровня сущности с привязкой.
	EntityErrors []string `json:"entity_errors,omitempty"`

	// FatalError — первая фатальная ошибка, если прогон остановлен.
	FatalError string `json:"fatal_error,omitempty"`
}

// Summarize сводит агрегатное состояние в итоговый отчёт.
func Summarize(state *State) *Summary {
	s := &Summary{
		RunID:          state.RunID.String(),
		Status:         state.RunStatus(),
		StartedAt:      state.StartedAt,
		Entities:       len(state.Items),
		Replenishments: len(state.Replenishments),
		Pricings:       len(state.Pricings),
		Conflicts:      len(state.Conflicts),
		OrdersPlaced:   len(state.Orders),
	}

	for _, stage := range stageOrder {
		r := state.StageResult(stage)
		line := StageLine{Stage: stage, Outcome: r.Outcome, Reason: r.Reason, Count: r.Count}
		if r.Err != nil {
			line.Error = r.Err.Error()
		}
		s.Stages = append(s.Stages, line)
	}

	if counts := state.FlagCounts(); len(counts) > 0 {
		s.FlagCounts = make(map[string]int, len(counts))
		for f, n := range counts {
			s.FlagCounts[string(f)] = n
		}
	}

	for _, p := range state.Replenishments {
		if len(s.ExampleReplenishments) == maxExamples {
			break
		}
		s.ExampleReplenishments = append(s.ExampleReplenishments,
			fmt.Sprintf("%s: order %d units, lead time %dd", p.Key.String(), p.QuantityOrdered, p.LeadTimeDays))
	}
	for _, p := range state.Pricings {
		if len(s.ExamplePricings) == maxExamples {
			break
		}
		s.ExamplePricings = append(s.ExamplePricings,
			fmt.Sprintf("%s: %.2f -> %.2f (%v)", p.Key.String(), p.CurrentPrice, p.RecommendedPrice, p.Reasons))
	}
	for _, o := range state.Orders {
		if len(s.ExampleOrders) == maxExamples {
			break
		}
		s.ExampleOrders = append(s.ExampleOrders,
			fmt.Sprintf("%s: %d units by %s", o.Key.String(), o.QuantityOrdered, o.ExpectedDeliveryDate.Format("2006-01-02")))
	}

	for _, e := range state.Errors {
		s.EntityErrors = append(s.EntityErrors,
			fmt.Sprintf("%s [%s]: %v", e.Key.String(), e.Stage, e.Err))
	}
	if state.Fatal != nil {
		s.FatalError = state.Fatal.Error()
	}
	return s
}

// Map возвращает отчёт в форме, пригодной для JSON-колонки
// pipeline_runs.summary.
func (s *Summary) Map() map[string]any {
	m := map[string]any{
		"run_id":          s.RunID,
		"status":          string(s.Status),
		"entities":        s.Entities,
		"replenishments":  s.Replenishments,
		"pricings":        s.Pricings,
		"conflicts":       s.Conflicts,
		"orders_placed":   s.OrdersPlaced,
	}
	stages := make(map[string]any, len(s.Stages))
	for _, line := range s.Stages {
		stages[string(line.Stage)] = map[string]any{
			"outcome": string(line.Outcome),
			"count":   line.Count,
		}
	}
	m["stages"] = stages
	if len(s.FlagCounts) > 0 {
		m["flag_counts"] = s.FlagCounts
	}
	if len(s.EntityErrors) > 0 {
		m["entity_errors"] = s.EntityErrors
	}
	if s.FatalError != "" {
		m["fatal_error"] = s.FatalError
	}
	return m
}
