package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Shelfwise/internal/domain"
)

// NewForecastCmd создаёт группу команд для просмотра прогнозов.
func NewForecastCmd(appFn AppFn, outputFn OutputFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Inspect stored forecasts",
	}

	cmd.AddCommand(newForecastShowCmd(appFn, outputFn))

	return cmd
}

func newForecastShowCmd(appFn AppFn, outputFn OutputFn) *cobra.Command {
	return &cobra.Command{
		Use:   "show PRODUCT_ID STORE_ID",
		Short: "Show the stored forecast for an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			productID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product ID %q: %w", args[0], err)
			}
			storeID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid store ID %q: %w", args[1], err)
			}

			app, err := appFn(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			key := domain.ItemKey{ProductID: productID, StoreID: storeID}
			points, model, err := app.Forecasts.List(cmd.Context(), key)
			if err != nil {
				return err
			}

			headers := []string{"DATE", "QUANTITY", "MODEL"}
			rows := make([][]string, len(points))
			for i, p := range points {
				rows[i] = []string{
					p.TargetDate.Format("2006-01-02"),
					strconv.Itoa(p.Quantity),
					model,
				}
			}

			out.Print(headers, rows, map[string]any{
				"key":    key,
				"model":  model,
				"points": points,
			})
			return nil
		},
	}
}
