package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "megastore",
		Short: "MegaStore storefront",
		Long: `MegaStore serves the storefront on top of a headless CMS: catalog browsing,
search, a persistent cart and checkout.

Configuration comes from flags, environment variables (PORT, DB_DSN,
API_BASE_URL, ...), an optional .env file and an optional config file.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "config file (yaml, json or toml); also MEGASTORE_CONFIG")
	root.PersistentFlags().String("api-base-url", "", "CMS base URL")
	root.PersistentFlags().Duration("cms-timeout", 0, "timeout for a single CMS request")
	root.PersistentFlags().Int("catalog-attempts", 0, "attempts for loading the catalog")

	root.AddCommand(newServeCmd(), newCatalogCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
