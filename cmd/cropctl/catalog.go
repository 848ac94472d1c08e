package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCatalogCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the crop catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "soils",
		Short: "List soil types and their crops",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := root.loadCatalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, soil := range cat.SoilTypes() {
				crops, _ := cat.Crops(soil.Value)
				fmt.Fprintf(out, "%-10s %s (%d crops)\n", soil.Value, soil.Label, len(crops))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "regions",
		Short: "List regions with their climate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := root.loadCatalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, region := range cat.Regions() {
				c := cat.ClimateOrDefault(region)
				fmt.Fprintf(out, "%-16s %s, %s, %s\n", region, c.Weather, c.Temperature, c.Season)
			}
			return nil
		},
	})

	return cmd
}
