// Shelfwise scheduler — периодический запуск конвейера по cron.
//
// Переменные окружения:
//
//	SCHED_CRON  cron-выражение запуска (default: "0 2 * * *")
//	SCHED_PORT  порт для /healthz и /metrics (default: 8081)
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Shelfwise/internal/cli"
	"github.com/shaiso/Shelfwise/internal/scheduler"
	"github.com/shaiso/Shelfwise/internal/telemetry"
)

const schedLockKey int64 = 922337

func main() {
	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := telemetry.SetupLogger()

	// DB pool + repositories + pipeline
	app, err := cli.NewApp(ctx, logger)
	if err != nil {
		log.Fatalf("[scheduler] db connect: %v", err)
	}
	defer app.Close()
	logger.Info("db connected")

	p := app.BuildPipeline(cli.PipelineOptions{})

	sched, err := scheduler.New(scheduler.Config{
		Runner: p,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("[scheduler] bad schedule: %v", err)
	}
	logger.Info("schedule loaded",
		"cron", sched.CronExprUsed(),
		"next_due", sched.NextDue(),
	)

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// scheduler loop
	go func() {
		tk := time.NewTicker(1 * time.Second)
		defer tk.Stop()

		var hasLock bool
		defer func() {
			if hasLock {
				_, _ = app.Pool.Exec(context.Background(), "select pg_advisory_unlock($1)", schedLockKey)
			}
		}()

		for {
			select {
			case t := <-tk.C:
				// пытаемся стать лидером (или подтвердить лидерство)
				var ok bool
				if !hasLock {
					if err := app.Pool.QueryRow(ctx, "select pg_try_advisory_lock($1)", schedLockKey).Scan(&ok); err != nil {
						logger.Warn("lock error", "error", err)
						continue
					}
					hasLock = ok
				}

				if !hasLock {
					// не лидер — пропускаем тик
					continue
				}

				// лидер выполняет логику тика
				if err := sched.Tick(ctx, t); err != nil {
					logger.Error("scheduler tick failed", "error", err)
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// serve
	port := ":8081"
	if v := os.Getenv("SCHED_PORT"); v != "" {
		port = ":" + v
	}
	logger.Info("listening", "addr", port)
	if err := http.ListenAndServe(port, mux); err != nil {
		logger.Error("http server error", "error", err)
		cancel()
	}
}
