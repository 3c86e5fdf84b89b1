package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/favorites"
)

func newFavCmd(global *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage favorite products",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print favorite products",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withFavorites(cmd, global, func(svc *app.Services, products []catalog.Product) error {
					printProducts(cmd.OutOrStdout(), svc.Favorites.FavoriteProducts(products), svc.Favorites)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add <id>",
			Short: "Add a product to favorites",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withProduct(cmd, global, args[0], func(svc *app.Services, p catalog.Product) {
					if !svc.Favorites.Add(p.ID, p.Name) {
						fmt.Fprintf(cmd.OutOrStdout(), "%s is already a favorite.\n", p.Name)
					}
				})
			},
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove a product from favorites",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withProduct(cmd, global, args[0], func(svc *app.Services, p catalog.Product) {
					if !svc.Favorites.Remove(p.ID, p.Name) {
						fmt.Fprintf(cmd.OutOrStdout(), "%s is not a favorite.\n", p.Name)
					}
				})
			},
		},
		&cobra.Command{
			Use:   "toggle <id>",
			Short: "Add or remove a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withProduct(cmd, global, args[0], func(svc *app.Services, p catalog.Product) {
					svc.Favorites.Toggle(favorites.Item{ID: p.ID, Name: p.Name})
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every favorite",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withFavorites(cmd, global, func(svc *app.Services, _ []catalog.Product) error {
					svc.Favorites.ClearAll()
					return nil
				})
			},
		},
	)
	return cmd
}

// withFavorites boots services, loads the catalog and runs fn.
func withFavorites(cmd *cobra.Command, global *globalFlags, fn func(*app.Services, []catalog.Product) error) error {
	svc, err := bootstrap(global.options(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	products, err := svc.Catalog.FetchProducts(cmd.Context(), catalog.FetchOptions{})
	if err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}
	return fn(svc, products)
}

// withProduct resolves id against the catalog before running fn.
func withProduct(cmd *cobra.Command, global *globalFlags, id string, fn func(*app.Services, catalog.Product)) error {
	return withFavorites(cmd, global, func(svc *app.Services, products []catalog.Product) error {
		p, ok := catalog.Find(products, id)
		if !ok {
			return fmt.Errorf("unknown product id %q", id)
		}
		fn(svc, p)
		return nil
	})
}
