package scheduler

import (
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// defaultCronExpr — ежедневный запуск в 02:00.
const defaultCronExpr = "0 2 * * *"

// cronParser — парсер cron-выражений.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CronExpr возвращает расписание из переменной окружения SCHED_CRON.
// По умолчанию — ежедневный ночной прогон.
func CronExpr() string {
	if v := os.Getenv("SCHED_CRON"); v != "" {
		return v
	}
	return defaultCronExpr
}

// ValidateCronExpr проверяет валидность cron-выражения.
func ValidateCronExpr(cronExpr string) error {
	_, err := cronParser.Parse(cronExpr)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}
	return nil
}

// CalculateNext вычисляет следующее время запуска по cron-выражению.
func CalculateNext(cronExpr string, from time.Time) (time.Time, error) {
	schedule, err := cronParser.Parse(cronExpr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cron expression %q: %w", cronExpr, err)
	}
	return schedule.Next(from).UTC(), nil
}
