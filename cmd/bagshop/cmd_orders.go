package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramesh9813/bagshop-client-sub000/internal/checkout"
	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
	"github.com/ramesh9813/bagshop-client-sub000/internal/format"
)

var (
	checkoutMethod string
	shipping       domain.ShippingAddress
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for everything in the cart",
	Long: `Place an order for the cart.

With --method cod the cart is emptied once the order is placed. With --method online
the payment page URL is printed; finish the payment there, then run
'bagshop payment verify' with the query string the payment page redirected to.`,
	RunE: runCheckout,
}

var paymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Online payment helpers",
}

var paymentVerifyCmd = &cobra.Command{
	Use:   "verify <callback-url-or-query>",
	Short: "Confirm an online payment",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaymentVerify,
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders",
	RunE:  runOrders,
}

var ordersShowCmd = &cobra.Command{
	Use:   "show <order-id>",
	Short: "Show one order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersShow,
}

var ordersCancelCmd = &cobra.Command{
	Use:   "cancel <order-id>",
	Short: "Cancel a pending order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersCancel,
}

func init() {
	checkoutCmd.Flags().StringVar(&checkoutMethod, "method", string(domain.PaymentCOD), "Payment method: cod or online")
	checkoutCmd.Flags().StringVar(&shipping.FullName, "name", "", "Recipient full name")
	checkoutCmd.Flags().StringVar(&shipping.Phone, "phone", "", "Contact phone")
	checkoutCmd.Flags().StringVar(&shipping.Address, "address", "", "Street address")
	checkoutCmd.Flags().StringVar(&shipping.City, "city", "", "City")
	checkoutCmd.Flags().StringVar(&shipping.Postcode, "postcode", "", "Postcode")

	paymentCmd.AddCommand(paymentVerifyCmd)
	ordersCmd.AddCommand(ordersShowCmd, ordersCancelCmd)
}

func runCheckout(cmd *cobra.Command, args []string) error {
	if shipping.FullName == "" {
		if u := a.session.User(); u != nil {
			shipping.FullName = u.Name
		}
	}

	svc := checkout.NewService(a.client, a.log)
	res, err := svc.PlaceOrder(cmd.Context(), a.cart(), shipping, domain.PaymentMethod(strings.ToLower(checkoutMethod)))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, successStyle.Render("Order placed: "+res.Order.ID))
	fmt.Fprintf(out, "total %s\n", format.Price(res.Order.TotalAmount))
	if res.PaymentURL != "" {
		fmt.Fprintln(out, "Complete your payment at:")
		fmt.Fprintln(out, res.PaymentURL)
	}
	return nil
}

func runPaymentVerify(cmd *cobra.Command, args []string) error {
	query, err := callbackQuery(args[0])
	if err != nil {
		return err
	}
	svc := checkout.NewService(a.client, a.log)
	res, err := svc.VerifyPayment(cmd.Context(), a.cart(), query)
	if err != nil {
		return err
	}
	msg := res.Message
	if msg == "" {
		msg = "Payment confirmed."
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(msg))
	return nil
}

// callbackQuery accepts either the full redirect URL or just its query string.
func callbackQuery(raw string) (url.Values, error) {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	q, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid payment callback: %w", err)
	}
	if len(q) == 0 {
		return nil, fmt.Errorf("invalid payment callback: no parameters")
	}
	return q, nil
}

func runOrders(cmd *cobra.Command, args []string) error {
	if _, err := a.session.RequireUser(); err != nil {
		return err
	}
	orders, err := a.client.MyOrders(cmd.Context())
	if err != nil {
		return err
	}
	printOrders(cmd.OutOrStdout(), orders, false)
	return nil
}

func runOrdersShow(cmd *cobra.Command, args []string) error {
	if _, err := a.session.RequireUser(); err != nil {
		return err
	}
	o, err := a.client.GetOrder(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printOrder(cmd, o)
	return nil
}

func runOrdersCancel(cmd *cobra.Command, args []string) error {
	if _, err := a.session.RequireUser(); err != nil {
		return err
	}
	o, err := a.client.CancelOrder(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Order "+o.ID+" is now "+string(o.Status)))
	return nil
}

func printOrder(cmd *cobra.Command, o *domain.Order) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s\n", titleStyle.Render("Order "+o.ID), mutedStyle.Render(o.CreatedAt.Local().Format("2006-01-02 15:04")))
	fmt.Fprintf(out, "status %s, payment %s", o.Status, o.PaymentMethod)
	if o.PaymentStatus != "" {
		fmt.Fprintf(out, " (%s)", o.PaymentStatus)
	}
	fmt.Fprintln(out)

	rows := make([][]string, 0, len(o.Items))
	for _, it := range o.Items {
		rows = append(rows, []string{
			format.TruncateName(it.Name, tableNameLength),
			fmt.Sprint(it.Quantity),
			format.Price(it.Price),
			format.Price(it.Subtotal),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Item", "Qty", "Unit", "Subtotal"}, rows))
	fmt.Fprintf(out, "total %s\n", titleStyle.Render(format.Price(o.TotalAmount)))
	s := o.ShippingAddress
	fmt.Fprintf(out, "ship to %s, %s, %s %s (%s)\n", s.FullName, s.Address, s.City, s.Postcode, s.Phone)
}
