package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playforge/dinomine/internal/catalog"
)

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the generator and skin catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.Default()

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"units": cat.Units(),
					"skins": cat.Skins(),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Generator units:")
			for _, u := range cat.Units() {
				fmt.Fprintf(out, "  %-14s cost=%-8.0f income=%g/min  %s\n",
					u.ID, u.Cost, u.IncomePerMinute, u.Name)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Skins:")
			for _, s := range cat.Skins() {
				fmt.Fprintf(out, "  %-14s cost=%-8.0f multiplier=%gx  %s\n",
					s.ID, s.Cost, s.Multiplier, s.Name)
			}
			return nil
		},
	}
}
