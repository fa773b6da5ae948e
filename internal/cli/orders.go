package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewOrdersCmd создаёт группу команд для просмотра заказов.
func NewOrdersCmd(appFn AppFn, outputFn OutputFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect placed orders",
	}

	cmd.AddCommand(newOrdersListCmd(appFn, outputFn))

	return cmd
}

func newOrdersListCmd(appFn AppFn, outputFn OutputFn) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			app, err := appFn(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			orders, err := app.Orders.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			headers := []string{"ID", "PRODUCT", "STORE", "QTY", "ORDERED", "EXPECTED", "STATUS"}
			rows := make([][]string, len(orders))
			for i, o := range orders {
				rows[i] = []string{
					o.ID.String(),
					strconv.FormatInt(o.Key.ProductID, 10),
					strconv.FormatInt(o.Key.StoreID, 10),
					strconv.Itoa(o.QuantityOrdered),
					o.OrderDate.Format("2006-01-02"),
					o.ExpectedDeliveryDate.Format("2006-01-02"),
					string(o.Status),
				}
			}

			out.Print(headers, rows, orders)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}
