package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cropprospector/backend/internal/domain"
	"github.com/cropprospector/backend/internal/service"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	riskStyles  = map[domain.Risk]lipgloss.Style{
		domain.RiskLow:    cellStyle.Foreground(lipgloss.Color("#22C55E")),
		domain.RiskMedium: cellStyle.Foreground(lipgloss.Color("#EAB308")),
		domain.RiskHigh:   cellStyle.Foreground(lipgloss.Color("#EF4444")),
	}
)

const riskColumn = 3

func newRecommendCmd(root *rootOptions) *cobra.Command {
	var (
		in     domain.FarmerInput
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank crops for one farm",
		Example: `  cropctl recommend --location Punjab --soil alluvial --water high
  cropctl recommend --location Kerala --soil black --water low --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if missing := in.Missing(); len(missing) > 0 {
				return fmt.Errorf("%w: missing %v", service.ErrInvalidInput, missing)
			}

			cat, err := root.loadCatalog()
			if err != nil {
				return err
			}

			result := service.NewRecommender(cat).Recommend(in)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return renderResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&in.Location, "location", "", "region or state name")
	cmd.Flags().StringVar(&in.SoilType, "soil", "", "soil type (alluvial, black, red, sandy, laterite)")
	cmd.Flags().StringVar(&in.WaterAvailability, "water", "", "water availability (high, medium, low)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func renderResult(w io.Writer, res domain.RecommendationResult) error {
	title := fmt.Sprintf("%s  %s, %s, %s season", res.Location, res.Weather, res.Temperature, res.Season)

	rows := make([][]string, 0, len(res.Crops))
	for _, c := range res.Crops {
		rows = append(rows, []string{
			c.Emoji + " " + c.Name,
			"₹" + strconv.Itoa(c.ProfitPerAcre),
			string(c.WaterNeeded),
			string(c.Risk),
			c.BestSowingTime,
			c.GrowthDuration,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Crop", "Profit/acre", "Water", "Risk", "Sowing", "Duration").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == riskColumn && row >= 0 && row < len(res.Crops) {
				if s, ok := riskStyles[res.Crops[row].Risk]; ok {
					return s
				}
			}
			return cellStyle
		})

	_, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render(title), t.Render())
	return err
}
