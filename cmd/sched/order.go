package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/plant"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/schedule"
	"github.com/spf13/cobra"
)

func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Purchase order commands",
	}

	cmd.AddCommand(newOrderCreateCmd())
	cmd.AddCommand(newOrderListCmd())
	cmd.AddCommand(newOrderCancelCmd())
	cmd.AddCommand(newOrderSummaryCmd())
	return cmd
}

func newOrderCreateCmd() *cobra.Command {
	var (
		configPath string
		opts       plant.CreateOrderOpts
		priority   string
		check      bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a purchase order",
		Long:  "Creates a pending purchase order with an auto-generated ID unless --id is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Priority = models.Priority(priority)
			return runOrderCreate(cmd, configPath, opts, check)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&opts.ID, "id", "", "order ID (generated when empty)")
	cmd.Flags().StringVar(&opts.ProductID, "product", "", "product ID (required)")
	cmd.Flags().StringVar(&opts.Customer, "customer", "", "customer name")
	cmd.Flags().IntVar(&opts.Quantity, "quantity", 0, "quantity to produce (required)")
	cmd.Flags().StringVar(&opts.PODate, "po-date", "", "PO date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&opts.DeliveryDate, "delivery", "", "delivery date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&priority, "priority", "medium", "priority (low, medium, high, urgent)")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "free-form notes")
	cmd.Flags().BoolVar(&check, "check", false, "run a feasibility check after creating")
	cmd.MarkFlagRequired("product")
	cmd.MarkFlagRequired("quantity")
	cmd.MarkFlagRequired("delivery")
	return cmd
}

func runOrderCreate(cmd *cobra.Command, configPath string, opts plant.CreateOrderOpts, check bool) error {
	e, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	defer e.close()

	opts.Now = time.Now().In(e.cfg.Location())
	o, err := plant.CreateOrder(e.db, opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created order %s: %d x %s, delivery %s (%s)\n", o.ID, o.Quantity, o.ProductID, o.DeliveryDate, o.Priority)
	if !check {
		return nil
	}

	res, err := schedule.CheckOrder(e.db, *o, feasibilityOpts(e))
	if err != nil {
		return err
	}
	printFeasibility(out, res)
	return nil
}

func newOrderListCmd() *cobra.Command {
	var (
		configPath string
		status     string
		priority   string
		productID  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List purchase orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderList(cmd, configPath, plant.OrderFilters{
				Status:    models.OrderStatus(status),
				Priority:  models.Priority(priority),
				ProductID: productID,
			})
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&status, "status", "", "filter by stored status")
	cmd.Flags().StringVar(&priority, "priority", "", "filter by priority")
	cmd.Flags().StringVar(&productID, "product", "", "filter by product ID")
	return cmd
}

func runOrderList(cmd *cobra.Command, configPath string, filters plant.OrderFilters) error {
	e, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	defer e.close()

	views, err := schedule.CurrentOrders(e.db, filters, e.cfg.Location(), time.Now())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(views) == 0 {
		fmt.Fprintln(out, "No orders found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRODUCT\tQTY\tPRIORITY\tDELIVERY\tSTATUS\tLIVE\tITEMS")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%d\n",
			v.ID, v.ProductID, v.Quantity, v.Priority, v.DeliveryDate, v.Status, v.DerivedStatus, v.Items)
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d order(s)\n", len(views))
	return nil
}

func newOrderCancelCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel a purchase order",
		Long:  "Cancels the order. Cancelled orders are left out of the next regeneration.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderCancel(cmd, configPath, args[0])
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runOrderCancel(cmd *cobra.Command, configPath, id string) error {
	e, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	defer e.close()

	if err := plant.UpdateOrderStatus(e.db, id, models.OrderCancelled); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cancelled order %s\n", id)
	return nil
}

func newOrderSummaryCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count orders by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderSummary(cmd, configPath)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runOrderSummary(cmd *cobra.Command, configPath string) error {
	e, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	defer e.close()

	counts, err := plant.OrderSummary(e.db)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tCOUNT")
	total := 0
	for _, c := range counts {
		fmt.Fprintf(w, "%s\t%d\n", c.Status, c.Count)
		total += c.Count
	}
	fmt.Fprintf(w, "total\t%d\n", total)
	w.Flush()
	return nil
}
