package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/larder/internal/domain"
)

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: "expires", Input: s, Reason: "want YYYY-MM-DD"}
	}
	return t, nil
}

func newPantryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pantry",
		Short: "Manage the products that recipe readiness is measured against",
	}
	cmd.AddCommand(newPantryAddCmd(a), newPantryListCmd(a), newPantryRemoveCmd(a))
	return cmd
}

func newPantryAddCmd(a *app) *cobra.Command {
	var (
		expires  string
		category string
		quantity int
		price    float64
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return &domain.ValidationError{Field: "name", Input: args[0], Reason: "must not be blank"}
			}
			if quantity < 0 || price < 0 {
				return &domain.ValidationError{Field: "quantity", Input: fmt.Sprint(quantity), Reason: "quantity and price must not be negative"}
			}
			exp, err := parseDate(expires)
			if err != nil {
				return err
			}
			p := domain.Product{Name: name, ExpiresOn: exp, Category: category, Quantity: quantity, Price: price}
			if err := a.pantry.InsertProduct(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added %s (expires %s)\n", name, exp.Format(domain.DateLayout))
			return nil
		},
	}
	week := time.Now().AddDate(0, 0, 7).Format(domain.DateLayout)
	cmd.Flags().StringVarP(&expires, "expires", "e", week, "expiration date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&category, "category", "c", "", "product category")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "how many")
	cmd.Flags().Float64VarP(&price, "price", "p", 0, "unit price")
	return cmd
}

func newPantryListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products, soonest expiring first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.pantry.ListProducts(cmd.Context())
			if err != nil {
				return err
			}
			if len(products) == 0 {
				fmt.Fprintln(a.out, "The pantry is empty.")
				return nil
			}
			now := time.Now()
			t := newTable("Name", "Expires", "Category", "Qty", "Price", "")
			for _, p := range products {
				status := ""
				if p.Expired(now) {
					status = "expired"
				}
				t.Row(p.Name, p.ExpiresOn.Format(domain.DateLayout), p.Category,
					fmt.Sprint(p.Quantity), domain.FormatNumber(p.Price), status)
			}
			fmt.Fprintln(a.out, t.Render())
			return nil
		},
	}
}

func newPantryRemoveCmd(a *app) *cobra.Command {
	var expires string
	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := parseDate(expires)
			if err != nil {
				return err
			}
			if err := a.pantry.DeleteProduct(cmd.Context(), strings.TrimSpace(args[0]), exp); err != nil {
				return fmt.Errorf("removing %s: %w", args[0], err)
			}
			fmt.Fprintf(a.out, "Removed %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&expires, "expires", "e", "", "expiration date of the product to remove, YYYY-MM-DD")
	cmd.MarkFlagRequired("expires")
	return cmd
}
