package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus — статус запуска конвейера.
//
// Жизненный цикл:
//
//	RUNNING → SUCCEEDED
//	        ↘ PARTIAL  (были несмертельные ошибки по сущностям)
//	        ↘ HALTED   (сработало одно из двух фатальных условий)
//	        ↘ FAILED   (запуск не завершил цикл стадий)
type RunStatus string

const (
	// RunStatusRunning — конвейер выполняется.
	RunStatusRunning RunStatus = "RUNNING"

	// RunStatusSucceeded — все стадии прошли без ошибок.
	RunStatusSucceeded RunStatus = "SUCCEEDED"

	// RunStatusPartial — запуск завершён, но часть сущностей упала.
	RunStatusPartial RunStatus = "PARTIAL"

	// RunStatusHalted — запуск остановлен фатальным условием:
	// хранилище недоступно либо после discovery не осталось сущностей.
	RunStatusHalted RunStatus = "HALTED"

	// RunStatusFailed — запуск не завершился штатно.
	RunStatusFailed RunStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s RunStatus) IsTerminal() bool {
	return s != RunStatusRunning
}

// PipelineRun — персистентная запись об одном запуске конвейера.
//
// Создаётся в начале запуска, обновляется при завершении.
// Summary хранит итоговый отчёт в JSON для CLI-инспекции.
type PipelineRun struct {
	// ID — уникальный идентификатор запуска.
	ID uuid.UUID `json:"id"`

	// Status — текущий статус запуска.
	Status RunStatus `json:"status"`

	// StartedAt — время начала.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt — время завершения. Nil, пока запуск идёт.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error — первая фатальная ошибка, если была.
	Error string `json:"error,omitempty"`

	// Summary — итоговый отчёт запуска в произвольной JSON-форме.
	Summary map[string]any `json:"summary,omitempty"`
}

// Duration возвращает продолжительность запуска.
// Возвращает 0, если запуск ещё не завершён.
func (r *PipelineRun) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// MarkFinished переводит запуск в финальный статус.
func (r *PipelineRun) MarkFinished(status RunStatus, errMsg string) {
	now := time.Now()
	r.Status = status
	r.FinishedAt = &now
	r.Error = errMsg
}
