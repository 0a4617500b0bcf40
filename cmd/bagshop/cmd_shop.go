package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramesh9813/bagshop-client-sub000/internal/client"
	"github.com/ramesh9813/bagshop-client-sub000/internal/format"
)

var (
	productsCategory string
	productsPage     int
)

var productsCmd = &cobra.Command{
	Use:   "products [keyword]",
	Short: "Browse the catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProducts,
}

var productsShowCmd = &cobra.Command{
	Use:   "show <product-id>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsShow,
}

// cartCmd shows the cart; subcommands change it
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and change your cart",
	Long: `Show your cart.

As a guest the cart is kept on this machine. After login it is your account cart.`,
	RunE: runCartShow,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id> [quantity]",
	Short: "Add a product to the cart",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCartAdd,
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <product-id> <quantity>",
	Short: "Set the quantity of a cart line",
	Args:  cobra.ExactArgs(2),
	RunE:  runCartUpdate,
}

var cartRemoveCmd = &cobra.Command{
	Use:     "remove <product-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a product from the cart",
	Args:    cobra.ExactArgs(1),
	RunE:    runCartRemove,
}

func init() {
	productsCmd.Flags().StringVar(&productsCategory, "category", "", "Filter by category")
	productsCmd.Flags().IntVar(&productsPage, "page", 1, "Result page")
	productsCmd.AddCommand(productsShowCmd)

	cartCmd.AddCommand(cartAddCmd, cartUpdateCmd, cartRemoveCmd)
}

func runProducts(cmd *cobra.Command, args []string) error {
	q := client.ProductQuery{Category: productsCategory, Page: productsPage}
	if len(args) == 1 {
		q.Keyword = args[0]
	}
	products, err := a.client.ListProducts(cmd.Context(), q)
	if err != nil {
		return err
	}
	printProducts(cmd.OutOrStdout(), products)
	return nil
}

func runProductsShow(cmd *cobra.Command, args []string) error {
	p, err := a.client.GetProduct(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(p.Name))
	fmt.Fprintf(out, "%s  %s\n", format.Price(p.Price), mutedStyle.Render(p.Category))
	if p.Stock > 0 {
		fmt.Fprintf(out, "%d in stock\n", p.Stock)
	} else {
		fmt.Fprintln(out, errorStyle.Render("sold out"))
	}
	if line, ok := a.cart().Snapshot().Line(p.ID); ok {
		fmt.Fprintf(out, "%d in your cart\n", line.Quantity)
	}
	if p.Description != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, p.Description)
	}
	return nil
}

func runCartShow(cmd *cobra.Command, args []string) error {
	svc := a.cart()
	printCart(cmd.OutOrStdout(), svc.Snapshot(), svc.Identity())
	return nil
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	qty := 1
	if len(args) == 2 {
		n, err := parseQuantity(args[1])
		if err != nil {
			return err
		}
		qty = n
	}

	product, err := a.client.GetProduct(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	snap, err := a.cart().AddItem(cmd.Context(), *product, qty)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Added %d × %s to cart", qty, format.TruncateName(product.Name, format.DefaultNameLength))))
	fmt.Fprintf(out, "%d items, %s\n", snap.Count(), format.Price(snap.Subtotal()))
	return nil
}

// runCartUpdate passes quantities below 1 through; the cart ignores them.
func runCartUpdate(cmd *cobra.Command, args []string) error {
	qty, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil {
		return fmt.Errorf("invalid quantity %q: must be a whole number", args[1])
	}
	svc := a.cart()
	snap, err := svc.UpdateQuantity(cmd.Context(), args[0], qty)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if qty < 1 {
		fmt.Fprintln(out, mutedStyle.Render("Quantity below 1 leaves the cart unchanged; use `bagshop cart remove` to drop the item."))
	}
	printCart(out, snap, svc.Identity())
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	svc := a.cart()
	snap, err := svc.RemoveItem(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printCart(cmd.OutOrStdout(), snap, svc.Identity())
	return nil
}

func parseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid quantity %q: must be a positive whole number", s)
	}
	return n, nil
}
