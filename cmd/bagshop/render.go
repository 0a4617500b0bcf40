package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
	"github.com/ramesh9813/bagshop-client-sub000/internal/format"
	"github.com/ramesh9813/bagshop-client-sub000/internal/sales"
)

var (
	accent      = lipgloss.Color("#8BC34A")
	muted       = lipgloss.Color("240")
	destructive = lipgloss.Color("#e53935")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(accent)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(destructive)
	barStyle     = lipgloss.NewStyle().Foreground(accent)
)

const (
	tableNameLength = 40
	maxBarWidth     = 40
)

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(muted)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

func printProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No products found."))
		return
	}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		stock := fmt.Sprint(p.Stock)
		if p.Stock == 0 {
			stock = "sold out"
		}
		rows = append(rows, []string{p.ID, format.TruncateName(p.Name, tableNameLength), format.Price(p.Price), stock})
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "Name", "Price", "Stock"}, rows))
}

func printCart(w io.Writer, snap domain.CartSnapshot, id domain.Identity) {
	owner := "guest cart"
	if id.IsAuthenticated() {
		owner = "account cart"
	}
	if snap.IsEmpty() {
		fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Your cart is empty"), mutedStyle.Render("("+owner+")"))
		return
	}
	rows := make([][]string, 0, len(snap.Items))
	for _, line := range snap.Items {
		rows = append(rows, []string{
			line.Product.ID,
			format.TruncateName(line.Product.Name, tableNameLength),
			fmt.Sprint(line.Quantity),
			format.Price(line.Product.Price),
			format.Price(line.Product.Price * float64(line.Quantity)),
		})
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "Name", "Qty", "Unit", "Subtotal"}, rows))
	fmt.Fprintf(w, "%s %s  %s\n",
		titleStyle.Render(fmt.Sprintf("%d items,", snap.Count())),
		titleStyle.Render(format.Price(snap.Subtotal())),
		mutedStyle.Render("("+owner+")"))
}

func printOrders(w io.Writer, orders []domain.Order, withCustomer bool) {
	if len(orders) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No orders yet."))
		return
	}
	headers := []string{"ID", "Date", "Items", "Total", "Status", "Payment"}
	if withCustomer {
		headers = append(headers[:2:2], append([]string{"Customer"}, headers[2:]...)...)
	}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		units := 0
		for _, it := range o.Items {
			units += it.Quantity
		}
		row := []string{o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04")}
		if withCustomer {
			row = append(row, o.User.Name)
		}
		row = append(row, fmt.Sprint(units), format.Price(o.TotalAmount), string(o.Status), string(o.PaymentMethod))
		rows = append(rows, row)
	}
	fmt.Fprintln(w, renderTable(headers, rows))
}

// printSales draws one bar per bucket scaled to the largest total.
func printSales(w io.Writer, r sales.Range, points []sales.Point, summary sales.Summary) {
	fmt.Fprintln(w, titleStyle.Render("Sales: "+string(r)))
	var peak float64
	width := 0
	for _, p := range points {
		if p.Total > peak {
			peak = p.Total
		}
		if len(p.Label) > width {
			width = len(p.Label)
		}
	}
	for _, p := range points {
		n := 0
		if peak > 0 {
			n = int(p.Total / peak * maxBarWidth)
		}
		fmt.Fprintf(w, "%-*s %s %s\n", width, p.Label, barStyle.Render(strings.Repeat("█", n)), mutedStyle.Render(format.Price(p.Total)))
	}
	fmt.Fprintf(w, "%d orders, revenue %s\n", summary.Orders, format.Price(summary.Revenue))
}
