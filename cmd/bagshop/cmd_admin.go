package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ramesh9813/bagshop-client-sub000/internal/admin"
	"github.com/ramesh9813/bagshop-client-sub000/internal/client"
	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
	"github.com/ramesh9813/bagshop-client-sub000/internal/format"
	"github.com/ramesh9813/bagshop-client-sub000/internal/session"
)

var errNotAdmin = errors.New("this command needs an admin account")

var (
	salesRange string
	orderSort  string

	productInput client.ProductInput
)

// adminCmd groups the dashboard commands; every subcommand needs an admin login
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Shop administration",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return requireAdmin()
	},
}

var adminSalesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Chart sales over a time range",
	Long: `Chart order totals over a time range.

Ranges: today (by hour), week and month (by day), year (by month), lifetime (by year).
Cancelled orders are left out.`,
	RunE: runAdminSales,
}

var adminOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List all orders",
	Long: `List all orders.

--sort takes a column such as createdAt, totalAmount, status or user.name.
Sorting by the same column again flips the direction; the choice is remembered.`,
	RunE: runAdminOrders,
}

var adminStatusCmd = &cobra.Command{
	Use:   "status <order-id> <status>",
	Short: "Change an order's status",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdminStatus,
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered users",
	RunE:  runAdminUsers,
}

var adminInquiriesCmd = &cobra.Command{
	Use:   "inquiries",
	Short: "List customer inquiries",
	RunE:  runAdminInquiries,
}

var adminInquiryStatusCmd = &cobra.Command{
	Use:   "resolve <inquiry-id> [status]",
	Short: "Change an inquiry's status (default resolved)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runAdminInquiryStatus,
}

var adminLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent activity logs",
	RunE:  runAdminLogs,
}

var adminAnalyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show server analytics",
	RunE:  runAdminAnalytics,
}

var adminProductCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage catalog products",
}

var adminProductCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a product",
	RunE:  runAdminProductCreate,
}

var adminProductUpdateCmd = &cobra.Command{
	Use:   "update <product-id>",
	Short: "Replace a product's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminProductUpdate,
}

var adminProductDeleteCmd = &cobra.Command{
	Use:   "delete <product-id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminProductDelete,
}

func init() {
	adminSalesCmd.Flags().StringVar(&salesRange, "range", "week", "today, week, month, year or lifetime")
	adminOrdersCmd.Flags().StringVar(&orderSort, "sort", "", "Sort column (repeat to flip direction)")

	for _, c := range []*cobra.Command{adminProductCreateCmd, adminProductUpdateCmd} {
		c.Flags().StringVar(&productInput.Name, "name", "", "Product name")
		c.Flags().StringVar(&productInput.Description, "description", "", "Description")
		c.Flags().StringVar(&productInput.Category, "category", "", "Category")
		c.Flags().Float64Var(&productInput.Price, "price", 0, "Unit price")
		c.Flags().IntVar(&productInput.Stock, "stock", 0, "Units in stock")
		c.Flags().StringVar(&productInput.Image, "image", "", "Image URL")
		_ = c.MarkFlagRequired("name")
		_ = c.MarkFlagRequired("price")
	}

	adminProductCmd.AddCommand(adminProductCreateCmd, adminProductUpdateCmd, adminProductDeleteCmd)
	adminInquiriesCmd.AddCommand(adminInquiryStatusCmd)
	adminCmd.AddCommand(adminSalesCmd, adminOrdersCmd, adminStatusCmd, adminUsersCmd,
		adminInquiriesCmd, adminLogsCmd, adminAnalyticsCmd, adminProductCmd)
}

func requireAdmin() error {
	u, err := a.session.RequireUser()
	if err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			return errNotAdmin
		}
		return err
	}
	if !u.IsAdmin() {
		return errNotAdmin
	}
	return nil
}

func runAdminSales(cmd *cobra.Command, args []string) error {
	report, err := admin.NewDashboard(a.client, nil).Sales(cmd.Context(), salesRange)
	if err != nil {
		return err
	}
	printSales(cmd.OutOrStdout(), report.Range, report.Points, report.Summary)
	return nil
}

func runAdminOrders(cmd *cobra.Command, args []string) error {
	st := a.session.OrderSort()
	orders, err := admin.NewDashboard(a.client, nil).Orders(cmd.Context(), st, orderSort)
	if err != nil {
		return err
	}
	if orderSort != "" {
		if err := a.saveOrderSort(cmd.Context()); err != nil {
			a.log.Warn("sort state not saved", zap.Error(err))
		}
	}

	out := cmd.OutOrStdout()
	if st.Key != "" {
		fmt.Fprintln(out, mutedStyle.Render("sorted by "+st.Key+" "+st.Direction.String()))
	}
	printOrders(out, orders, true)
	return nil
}

func runAdminStatus(cmd *cobra.Command, args []string) error {
	status := domain.OrderStatus(args[1])
	if !status.IsValid() {
		return fmt.Errorf("unknown order status %q", args[1])
	}
	o, err := a.client.UpdateOrderStatus(cmd.Context(), args[0], status)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Order "+o.ID+" is now "+string(o.Status)))
	return nil
}

func runAdminUsers(cmd *cobra.Command, args []string) error {
	users, err := a.client.AdminUsers(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		verified := "no"
		if u.IsVerified {
			verified = "yes"
		}
		rows = append(rows, []string{u.ID, u.Name, u.Email, u.Role, verified})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Email", "Role", "Verified"}, rows))
	return nil
}

func runAdminInquiries(cmd *cobra.Command, args []string) error {
	inquiries, err := a.client.Inquiries(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(inquiries))
	for _, q := range inquiries {
		rows = append(rows, []string{q.ID, humanize.Time(q.CreatedAt), q.Name, q.Subject, q.Status})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Received", "From", "Subject", "Status"}, rows))
	return nil
}

func runAdminInquiryStatus(cmd *cobra.Command, args []string) error {
	status := "resolved"
	if len(args) == 2 {
		status = args[1]
	}
	q, err := a.client.UpdateInquiryStatus(cmd.Context(), args[0], status)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Inquiry "+q.ID+" is now "+q.Status))
	return nil
}

func runAdminLogs(cmd *cobra.Command, args []string) error {
	logs, err := a.client.Logs(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		who := "-"
		if l.User != nil {
			who = l.User.Email
		}
		rows = append(rows, []string{humanize.Time(l.CreatedAt), l.Level, l.Action, who, format.TruncateName(l.Message, format.DefaultNameLength)})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"When", "Level", "Action", "User", "Message"}, rows))
	return nil
}

func runAdminAnalytics(cmd *cobra.Command, args []string) error {
	figures, err := a.client.Analytics(cmd.Context())
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(figures)
	if err != nil {
		return fmt.Errorf("failed to format analytics: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runAdminProductCreate(cmd *cobra.Command, args []string) error {
	p, err := a.client.CreateProduct(cmd.Context(), productInput)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Created "+p.ID+": "+p.Name))
	return nil
}

func runAdminProductUpdate(cmd *cobra.Command, args []string) error {
	p, err := a.client.UpdateProduct(cmd.Context(), args[0], productInput)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Updated "+p.ID+": "+p.Name))
	return nil
}

func runAdminProductDelete(cmd *cobra.Command, args []string) error {
	if err := a.client.DeleteProduct(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Deleted "+args[0]))
	return nil
}
