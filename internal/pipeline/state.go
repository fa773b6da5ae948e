package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Shelfwise/internal/domain"
	"github.com/shaiso/Shelfwise/internal/resolve"
)

// Stage — имя стадии конвейера.
type Stage string

const (
	StageDiscover  Stage = "discover"
	StageForecast  Stage = "forecast"
	StageClassify  Stage = "classify"
	StageReplenish Stage = "replenish"
	StagePrice     Stage = "price"
	StageResolve   Stage = "resolve"
	StageCommit    Stage = "commit"
)

// stageOrder — фиксированный порядок стадий.
var stageOrder = []Stage{
	StageDiscover,
	StageForecast,
	StageClassify,
	StageReplenish,
	StagePrice,
	StageResolve,
	StageCommit,
}

// Outcome — исход стадии.
type Outcome string

const (
	// OutcomeNotRun — стадия не запускалась (прогон остановлен раньше).
	OutcomeNotRun Outcome = "NOT_RUN"

	// OutcomeSkipped — стадия пропущена (с указанием причины).
	OutcomeSkipped Outcome = "SKIPPED"

	// OutcomeOK — стадия прошла, Count — количество результатов.
	OutcomeOK Outcome = "OK"

	// OutcomeFailed — стадия остановила прогон фатальной ошибкой.
	OutcomeFailed Outcome = "FAILED"
)

// StageResult — результат одной стадии в агрегатном состоянии.
type StageResult struct {
	Outcome Outcome `json:"outcome"`

	// Reason — причина для SKIPPED.
	Reason string `json:"reason,omitempty"`

	// Count — количество результатов стадии для OK.
	Count int `json:"count,omitempty"`

	// Err — ошибка для FAILED.
	Err error `json:"-"`
}

func stageOK(count int) StageResult {
	return StageResult{Outcome: OutcomeOK, Count: count}
}

func stageSkipped(reason string) StageResult {
	return StageResult{Outcome: OutcomeSkipped, Reason: reason}
}

func stageFailed(err error) StageResult {
	return StageResult{Outcome: OutcomeFailed, Err: err}
}

// EntityError — несмертельная ошибка с привязкой к сущности и стадии.
type EntityError struct {
	Key   domain.ItemKey
	Stage Stage
	Err   error
}

// State — агрегатное состояние одного прогона.
//
// Создаётся в начале Run и прошивается через все стадии. Каждая стадия
// читает результаты предыдущих и дописывает свои; чужие результаты не
// модифицируются (исключение — резолвер конфликтов, которому это
// разрешено, но текущая политика ничего не переписывает).
type State struct {
	// RunID — идентификатор прогона.
	RunID uuid.UUID

	// StartedAt — время начала прогона.
	StartedAt time.Time

	// Items — рабочий список сущностей в порядке обработки.
	Items []domain.ItemKey

	// Statuses — классификация по сущностям.
	Statuses map[domain.ItemKey]*domain.InventoryStatus

	// Forecasts — сгенерированные прогнозы по сущностям.
	Forecasts map[domain.ItemKey]*domain.Forecast

	// Replenishments — предложения пополнения в порядке Items.
	Replenishments []*domain.ReplenishmentProposal

	// Pricings — ценовые предложения в порядке Items.
	Pricings []*domain.PricingProposal

	// Conflicts — журнал резолвера конфликтов.
	Conflicts []resolve.Conflict

	// Orders — размещённые заказы.
	Orders []*domain.Order

	// Errors — накопленные ошибки уровня сущности.
	Errors []EntityError

	// Fatal — первая фатальная ошибка, остановившая прогон.
	Fatal error

	stages map[Stage]StageResult
}

// NewState создаёт пустое состояние прогона.
func NewState() *State {
	return &State{
		RunID:     uuid.New(),
		StartedAt: time.Now(),
		Statuses:  make(map[domain.ItemKey]*domain.InventoryStatus),
		Forecasts: make(map[domain.ItemKey]*domain.Forecast),
		stages:    make(map[Stage]StageResult),
	}
}

// StageResult возвращает результат стадии. Для незапускавшихся стадий
// возвращается OutcomeNotRun.
func (s *State) StageResult(stage Stage) StageResult {
	if r, ok := s.stages[stage]; ok {
		return r
	}
	return StageResult{Outcome: OutcomeNotRun}
}

func (s *State) setStage(stage Stage, r StageResult) {
	s.stages[stage] = r
}

// halt фиксирует фатальную ошибку и помечает стадию как упавшую.
func (s *State) halt(stage Stage, err error) {
	s.setStage(stage, stageFailed(err))
	if s.Fatal == nil {
		s.Fatal = err
	}
}

// addError накапливает ошибку уровня сущности.
func (s *State) addError(key domain.ItemKey, stage Stage, err error) {
	s.Errors = append(s.Errors, EntityError{Key: key, Stage: stage, Err: err})
}

// RunStatus сводит состояние к финальному статусу прогона.
func (s *State) RunStatus() domain.RunStatus {
	switch {
	case s.Fatal != nil:
		return domain.RunStatusHalted
	case len(s.Errors) > 0:
		return domain.RunStatusPartial
	default:
		return domain.RunStatusSucceeded
	}
}

// FlagCounts возвращает количество сущностей по каждому флагу.
func (s *State) FlagCounts() map[domain.Flag]int {
	counts := make(map[domain.Flag]int)
	for _, status := range s.Statuses {
		for _, f := range status.Flags {
			counts[f]++
		}
	}
	return counts
}
