package main

import (
	"github.com/spf13/cobra"

	"github.com/cropprospector/backend/internal/catalog"
)

type rootOptions struct {
	catalogPath string
}

// loadCatalog returns the override catalog when --catalog is set
func (o *rootOptions) loadCatalog() (*catalog.Catalog, error) {
	if o.catalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(o.catalogPath)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "cropctl",
		Short: "Rank crops for a region, soil and water supply",
		Long: `cropctl ranks candidate crops by expected profit per acre.

It uses the same catalog and rules as the HTTP service, without a server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "path to an override catalog YAML file")

	root.AddCommand(newRecommendCmd(opts))
	root.AddCommand(newCatalogCmd(opts))
	return root
}
