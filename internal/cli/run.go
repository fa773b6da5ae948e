package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shaiso/Shelfwise/internal/domain"
	"github.com/shaiso/Shelfwise/internal/pipeline"
)

// NewRunCmd создаёт группу команд для управления прогонами конвейера.
func NewRunCmd(appFn AppFn, outputFn OutputFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Manage pipeline runs",
	}

	cmd.AddCommand(
		newRunStartCmd(appFn, outputFn),
		newRunListCmd(appFn, outputFn),
		newRunShowCmd(appFn, outputFn),
	)

	return cmd
}

func newRunStartCmd(appFn AppFn, outputFn OutputFn) *cobra.Command {
	var limit int
	var forecastDays int
	var items []string
	var noAdvisor bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the full decision pipeline",
		Long: `Run the batch decision pipeline: forecast, classify, replenish,
price, resolve conflicts and commit orders.

Entities come from the discovery query unless --item is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			app, err := appFn(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			keys, err := parseItems(items)
			if err != nil {
				return err
			}

			p := app.BuildPipeline(PipelineOptions{
				DiscoveryLimit: limit,
				ForecastDays:   forecastDays,
				NoAdvisor:      noAdvisor,
			})

			state := p.Run(cmd.Context(), keys)
			summary := pipeline.Summarize(state)

			printSummary(out, summary)

			if state.Fatal != nil {
				return fmt.Errorf("run halted: %w", state.Fatal)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entities from discovery")
	cmd.Flags().IntVar(&forecastDays, "forecast-days", 0, "Forecast horizon in days")
	cmd.Flags().StringSliceVar(&items, "item", nil, "Entity as PRODUCT_ID:STORE_ID (repeatable, skips discovery)")
	cmd.Flags().BoolVar(&noAdvisor, "no-advisor", false, "Disable advisory oracles (deterministic run)")

	return cmd
}

func newRunListCmd(appFn AppFn, outputFn OutputFn) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			app, err := appFn(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			runs, err := app.Runs.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			headers := []string{"ID", "STATUS", "STARTED", "DURATION", "ERROR"}
			rows := make([][]string, len(runs))
			for i, r := range runs {
				rows[i] = []string{
					r.ID.String(),
					string(r.Status),
					r.StartedAt.Format("2006-01-02 15:04:05"),
					r.Duration().Truncate(timePrecision).String(),
					r.Error,
				}
			}

			out.Print(headers, rows, runs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newRunShowCmd(appFn AppFn, outputFn OutputFn) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a past run with its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid run ID %q: %w", args[0], err)
			}

			app, err := appFn(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			run, err := app.Runs.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "STATUS", "STARTED", "DURATION", "ERROR"},
				[][]string{{
					run.ID.String(),
					string(run.Status),
					run.StartedAt.Format("2006-01-02 15:04:05"),
					run.Duration().Truncate(timePrecision).String(),
					run.Error,
				}},
				run,
			)

			if len(run.Summary) > 0 && !out.jsonMode {
				out.Success("")
				out.JSON(run.Summary)
			}
			return nil
		},
	}
}

// parseItems разбирает значения флага --item вида "PRODUCT_ID:STORE_ID".
func parseItems(items []string) ([]domain.ItemKey, error) {
	keys := make([]domain.ItemKey, 0, len(items))
	for _, item := range items {
		parts := strings.SplitN(item, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid item %q, expected PRODUCT_ID:STORE_ID", item)
		}
		productID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid product ID in %q: %w", item, err)
		}
		storeID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid store ID in %q: %w", item, err)
		}
		keys = append(keys, domain.ItemKey{ProductID: productID, StoreID: storeID})
	}
	return keys, nil
}

// printSummary выводит итог прогона: таблицу стадий и счётчики.
func printSummary(out *Output, s *pipeline.Summary) {
	if out.jsonMode {
		out.JSON(s)
		return
	}

	headers := []string{"STAGE", "OUTCOME", "COUNT", "DETAIL"}
	rows := make([][]string, len(s.Stages))
	for i, line := range s.Stages {
		detail := line.Reason
		if line.Error != "" {
			detail = line.Error
		}
		rows[i] = []string{string(line.Stage), string(line.Outcome), strconv.Itoa(line.Count), detail}
	}
	out.Table(headers, rows)

	out.Success("")
	out.Success(fmt.Sprintf("Run %s: %s", s.RunID, s.Status))
	out.Success(fmt.Sprintf("Entities: %d, replenishments: %d, pricings: %d, conflicts: %d, orders placed: %d",
		s.Entities, s.Replenishments, s.Pricings, s.Conflicts, s.OrdersPlaced))

	for _, line := range s.ExampleReplenishments {
		out.Success("  replenish " + line)
	}
	for _, line := range s.ExamplePricings {
		out.Success("  price     " + line)
	}
	for _, line := range s.EntityErrors {
		out.Error(line)
	}
}
