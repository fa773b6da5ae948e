// Shelfwise CLI — инструмент командной строки для запуска конвейера
// принятия решений и инспекции его результатов.
//
// Использование:
//
//	shelfwise [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	run       Запуск и инспекция прогонов конвейера
//	orders    Просмотр размещённых заказов
//	forecast  Просмотр сохранённых прогнозов
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Shelfwise/internal/cli"
	"github.com/shaiso/Shelfwise/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "shelfwise",
		Short:         "Shelfwise CLI — retail inventory decision pipeline",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	// Логи уходят в stderr, чтобы не мешать табличному и JSON выводу.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: telemetry.LogLevel(),
	}))

	appFn := func(ctx context.Context) (*cli.App, error) { return cli.NewApp(ctx, logger) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewRunCmd(appFn, outputFn),
		cli.NewOrdersCmd(appFn, outputFn),
		cli.NewForecastCmd(appFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
