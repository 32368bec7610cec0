package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AraragiEro/kahuna-bot/internal/adapters/dataset"
	"github.com/AraragiEro/kahuna-bot/internal/adapters/persistence"
	"github.com/AraragiEro/kahuna-bot/internal/infrastructure/database"
)

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Load static data and character snapshots from a YAML file",
		Long: `Load items, blueprints, structures, characters, containers, assets,
blueprint copies, running jobs, prices and cost indexes from a YAML dataset.

Assets and blueprints replace the contents of every location the file
mentions. Jobs replace the running jobs of every installer it mentions.
A running daemon loads the catalog at startup; restart it after importing
new items or blueprints.

Example:
  kahuna import seed.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open dataset: %w", err)
			}
			defer f.Close()

			data, err := dataset.Load(f)
			if err != nil {
				return err
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)

			repos := persistence.NewRepositories(db, nil)
			summary, err := data.Import(cmd.Context(), dataset.Store{
				Catalog:    repos.Catalog,
				Structures: repos.Structures,
				Characters: repos.Characters,
				Inventory:  repos.Inventory,
				Jobs:       repos.Jobs,
				Market:     repos.Market,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), summary)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Imported %s\n\n", args[0])
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Items\t%d\n", summary.Items)
			fmt.Fprintf(w, "Blueprints\t%d\n", summary.Blueprints)
			fmt.Fprintf(w, "Structures\t%d\n", summary.Structures)
			fmt.Fprintf(w, "Characters\t%d\n", summary.Characters)
			fmt.Fprintf(w, "Containers\t%d\n", summary.Containers)
			fmt.Fprintf(w, "Assets\t%d\n", summary.Assets)
			fmt.Fprintf(w, "Blueprint assets\t%d\n", summary.BlueprintAssets)
			fmt.Fprintf(w, "Jobs\t%d\n", summary.Jobs)
			fmt.Fprintf(w, "Prices\t%d\n", summary.Prices)
			fmt.Fprintf(w, "Cost indexes\t%d\n", summary.CostIndexes)
			return w.Flush()
		},
	}

	return cmd
}
