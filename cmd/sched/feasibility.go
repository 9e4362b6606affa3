package main

import (
	"fmt"
	"io"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/plant"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/schedule"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/scheduler"
	"github.com/spf13/cobra"
)

func newFeasibilityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feasibility",
		Short: "Delivery date feasibility",
	}

	cmd.AddCommand(newFeasibilityCheckCmd())
	return cmd
}

func newFeasibilityCheckCmd() *cobra.Command {
	var (
		configPath string
		orderID    string
		order      models.PurchaseOrder
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a delivery date can be met",
		Long: `Checks a stored order (--order) or a hypothetical one (--product,
--quantity, --delivery) against free machine capacity. When the date cannot
be met, the earliest feasible date is suggested.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeasibilityCheck(cmd, configPath, orderID, order, asJSON)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&orderID, "order", "", "stored order ID")
	cmd.Flags().StringVar(&order.ProductID, "product", "", "product ID")
	cmd.Flags().IntVar(&order.Quantity, "quantity", 0, "quantity")
	cmd.Flags().StringVar(&order.PODate, "po-date", "", "PO date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&order.DeliveryDate, "delivery", "", "requested delivery date YYYY-MM-DD")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("order", "product")
	cmd.MarkFlagsOneRequired("order", "product")
	return cmd
}

func runFeasibilityCheck(cmd *cobra.Command, configPath, orderID string, order models.PurchaseOrder, asJSON bool) error {
	e, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	defer e.close()

	if orderID != "" {
		o, err := plant.GetOrder(e.db, orderID)
		if err != nil {
			return err
		}
		order = *o
	}
	if order.PODate == "" {
		order.PODate = time.Now().In(e.cfg.Location()).Format(models.DateLayout)
	}

	res, err := schedule.CheckOrder(e.db, order, feasibilityOpts(e))
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	printFeasibility(cmd.OutOrStdout(), res)
	return nil
}

func feasibilityOpts(e *env) scheduler.FeasibilityOpts {
	return scheduler.FeasibilityOpts{
		MaxSearchDays:          e.cfg.Scheduler.MaxSearchDays,
		HighUtilizationPercent: e.cfg.Scheduler.HighUtilizationPercent,
		Location:               e.cfg.Location(),
		Logger:                 e.log,
	}
}

func printFeasibility(out io.Writer, res *scheduler.FeasibilityResult) {
	verdict := "NOT FEASIBLE"
	if res.Feasible {
		verdict = "FEASIBLE"
	}
	fmt.Fprintf(out, "%s: %s\n", verdict, res.Message)
	fmt.Fprintf(out, "  production:   %.0f min\n", res.ProductionMinutes)
	fmt.Fprintf(out, "  available:    %.0f min over %d working day(s)\n", res.AvailableMinutes, res.WorkingDays)
	fmt.Fprintf(out, "  utilization:  %.2f%%\n", res.UtilizationPercentage)
	fmt.Fprintf(out, "  confidence:   %.2f%%\n", res.Confidence)
	if res.SuggestedDate != "" {
		fmt.Fprintf(out, "  suggested:    %s\n", res.SuggestedDate)
	}
	for _, alt := range res.Alternatives {
		fmt.Fprintf(out, "  - %s\n", alt)
	}
}
