package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"megastore/internal/catalog"
	"megastore/internal/cms"
	"megastore/internal/config"
	"megastore/internal/domain"
	"megastore/internal/retry"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Fetch the catalog once and print a filtered listing",
		Example: `  megastore catalog --category smartphones --sort price_asc
  megastore catalog --search phone --brand Acme --format yaml`,
		Args: cobra.NoArgs,
		RunE: runCatalog,
	}
	f := cmd.Flags()
	f.String("search", "", "free-text search; overrides --category")
	f.String("category", catalog.CategoryAll, "category id")
	f.String("brand", catalog.BrandAll, "brand facet")
	f.String("sort", string(catalog.SortDefault), "default, price_asc, price_desc or rating")
	f.String("format", "table", "table or yaml")
	return cmd
}

// stateFromFlags applies the same transitions the storefront does when a
// visitor picks a category, searches, then narrows by brand and sort.
func stateFromFlags(cmd *cobra.Command) (catalog.FilterState, error) {
	f := cmd.Flags()
	search, _ := f.GetString("search")
	category, _ := f.GetString("category")
	brand, _ := f.GetString("brand")
	rawSort, _ := f.GetString("sort")

	if _, ok := catalog.LookupCategory(category); !ok {
		return catalog.FilterState{}, fmt.Errorf("unknown category %q", category)
	}
	sort, ok := catalog.ParseSortOption(rawSort)
	if !ok {
		return catalog.FilterState{}, fmt.Errorf("unknown sort %q", rawSort)
	}

	st := catalog.DefaultState().WithCategory(category)
	if search != "" {
		st = st.WithSearch(search)
	}
	return st.WithBrand(brand).WithSort(sort), nil
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	st, err := stateFromFlags(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "yaml" {
		return fmt.Errorf("unknown format %q", format)
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	client := cms.New(cfg.APIBaseURL, cfg.CMSTimeout)
	products, err := retry.DoWithResult(cmd.Context(), retry.Config{
		MaxAttempts: cfg.CatalogAttempts,
		Backoff:     retry.ExponentialBackoff(250 * time.Millisecond),
	}, func() ([]domain.Product, error) {
		return client.ListProducts(cmd.Context())
	})
	if err != nil {
		return err
	}

	res := catalog.Filter(products, st)
	out := cmd.OutOrStdout()
	if format == "yaml" {
		return writeYAML(out, res, catalog.Brands(products))
	}
	return writeTable(out, res)
}

func price(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func writeTable(w io.Writer, res catalog.Result) error {
	if _, err := fmt.Fprintf(w, "%s (%d)\n", res.Title, len(res.Products)); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBRAND\tCATEGORY\tPRICE\tOLD\tRATING")
	for _, p := range res.Products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%g\n",
			p.DocumentID, p.Name, p.Brand, p.Category, price(p.Price), price(p.OldPrice), p.Rating)
	}
	return tw.Flush()
}

type exportProduct struct {
	DocumentID string   `yaml:"documentId"`
	Name       string   `yaml:"name"`
	Brand      string   `yaml:"brand,omitempty"`
	Category   string   `yaml:"category"`
	Price      *float64 `yaml:"price,omitempty"`
	OldPrice   *float64 `yaml:"oldPrice,omitempty"`
	Rating     float64  `yaml:"rating"`
	IsPromo    bool     `yaml:"isPromo,omitempty"`
	Image      string   `yaml:"image,omitempty"`
}

type exportDoc struct {
	Title    string          `yaml:"title"`
	Brands   []string        `yaml:"brands"`
	Products []exportProduct `yaml:"products"`
}

func writeYAML(w io.Writer, res catalog.Result, brands []string) error {
	doc := exportDoc{Title: res.Title, Brands: brands, Products: make([]exportProduct, 0, len(res.Products))}
	for _, p := range res.Products {
		doc.Products = append(doc.Products, exportProduct{
			DocumentID: p.DocumentID,
			Name:       p.Name,
			Brand:      p.Brand,
			Category:   p.Category,
			Price:      p.Price,
			OldPrice:   p.OldPrice,
			Rating:     p.Rating,
			IsPromo:    p.IsPromo,
			Image:      p.Image,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
