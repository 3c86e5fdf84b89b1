package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/favorites"
	"github.com/five82/shelf/internal/state"
)

const emptyListText = "No result found."

type listFlags struct {
	filter    string
	category  string
	sort      string
	favorites bool
	fail      bool
}

func newListCmd(global *globalFlags) *cobra.Command {
	flags := &listFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the catalog",
		Long: `Fetches the catalog and prints it as a table.

Examples:
  shelf list --filter vue
  shelf list --category games --sort desc
  shelf list --favorites`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, global, flags)
		},
	}
	cmd.Flags().StringVar(&flags.filter, "filter", "", "case-insensitive name filter")
	cmd.Flags().StringVar(&flags.category, "category", catalog.CategoryAll, "category: "+strings.Join(catalog.Categories(), ", "))
	cmd.Flags().StringVar(&flags.sort, "sort", "none", "price sort: none, asc, desc")
	cmd.Flags().BoolVar(&flags.favorites, "favorites", false, "only favorites")
	cmd.Flags().BoolVar(&flags.fail, "fail", false, "make the fetch fail")
	return cmd
}

func runList(cmd *cobra.Command, global *globalFlags, flags *listFlags) error {
	category, err := catalog.ParseCategory(flags.category)
	if err != nil {
		return err
	}
	order, err := catalog.ParseSortOrder(flags.sort)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := global.options()
	opts.ForceFail = flags.fail
	svc, err := bootstrap(opts, out)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	snap := svc.NewQuery(cmd.Context(), true).Execute(cmd.Context())
	if snap.Phase == state.PhaseError {
		svc.Logger.Debug("list aborted", zap.String("error", snap.Err))
		return errors.New(snap.Err)
	}

	view := catalog.View{
		Text:          flags.filter,
		Category:      category,
		Order:         order,
		FavoritesOnly: flags.favorites,
		IsFavorite:    svc.Favorites.IsFavorite,
	}
	printProducts(out, view.Apply(snap.Products), svc.Favorites)
	return nil
}

// printProducts renders products as a table, or the empty-state line.
func printProducts(out io.Writer, products []catalog.Product, favs *favorites.Store) {
	if len(products) == 0 {
		fmt.Fprintln(out, emptyListText)
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "ID", "NAME", "CATEGORY", "PRICE", "STOCK").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if col == 4 {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
	for _, p := range products {
		star := " "
		if favs != nil && favs.IsFavorite(p.ID) {
			star = "★"
		}
		stock := "In stock"
		if !p.InStock {
			stock = "Out of stock"
		}
		t.Row(star, p.ID, p.Name, string(p.Category), fmt.Sprintf("$%.2f", p.Price), stock)
	}
	fmt.Fprintln(out, t.Render())
}
