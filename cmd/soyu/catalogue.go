package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/talgya/soyu/internal/staff"
)

func catalogueCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "catalogue",
		Aliases: []string{"catalog"},
		Short:   "List every hireable archetype",
		RunE: func(cmd *cobra.Command, args []string) error {
			printCatalogue(cmd.OutOrStdout())
			return nil
		},
	}
}

func printCatalogue(out io.Writer) {
	table := tablewriter.NewTable(out,
		tablewriter.WithHeader([]string{"Archetype", "Kind", "Cost", "Limit", "Prod. Drop", "Introduces", "Scaled", "Unlocks"}),
	)
	for _, a := range staff.Catalogue() {
		limit := "∞"
		if a.Limit != staff.Unlimited {
			limit = fmt.Sprintf("%d", a.Limit)
		}
		var unlocks []string
		for _, id := range a.Unlocks {
			unlocks = append(unlocks, string(id))
		}
		table.Append([]string{
			a.Label,
			a.Kind.String(),
			fmt.Sprintf("$%.0f", a.Cost),
			limit,
			fmt.Sprintf("%.0f%%", a.ProductivityDrop*100),
			formatEffects(a.Effects.Introduces(), "+"),
			formatEffects(a.Effects.Scaled(), a.Effects.Direction().String()+" "),
			strings.Join(unlocks, ", "),
		})
	}
	table.Render()
}

func formatEffects(effects []staff.Effect, prefix string) string {
	parts := make([]string, 0, len(effects))
	for _, e := range effects {
		parts = append(parts, fmt.Sprintf("%s%g %s", prefix, e.Amount, e.Metric.Label()))
	}
	return strings.Join(parts, ", ")
}
