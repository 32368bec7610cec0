package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/commands"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/queries"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// NewStructureCommand creates the structure command with subcommands
func NewStructureCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "structure",
		Short: "Manage industry structures",
		Long: `Manage the structures work can be allocated to and their rig levels.

Rig levels: 0 none, 1 T1, 2 T2.`,
	}

	cmd.AddCommand(newStructureAddCommand())
	cmd.AddCommand(newStructureRigsCommand())
	cmd.AddCommand(newStructureListCommand())

	return cmd
}

func newStructureAddCommand() *cobra.Command {
	var typeID, systemID int64
	var materialRig, timeRig int

	cmd := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Add or replace a structure",
		Long: `Add or replace a structure.

Example:
  kahuna structure add 1035000000001 "Athanor A" --type 35835 --system 30000142 --me-rig 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid structure id %q", args[0])
			}
			resp, err := send(cmd.Context(), &commands.SaveStructureCommand{
				ID:            id,
				Name:          args[1],
				TypeID:        typeID,
				SolarSystemID: systemID,
				MaterialRig:   materialRig,
				TimeRig:       timeRig,
			}, false)
			if err != nil {
				return err
			}
			return printStructures(cmd, []*industry.Structure{resp.(*commands.StructureResponse).Structure}, "✓ Structure saved")
		},
	}

	cmd.Flags().Int64Var(&typeID, "type", 0, "Structure type id (required)")
	cmd.Flags().Int64Var(&systemID, "system", 0, "Solar system id")
	cmd.Flags().IntVar(&materialRig, "me-rig", 0, "Material rig level")
	cmd.Flags().IntVar(&timeRig, "te-rig", 0, "Time rig level")
	cmd.MarkFlagRequired("type")

	return cmd
}

func newStructureRigsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rigs <id> <me-rig> <te-rig>",
		Short: "Set the rig levels of a structure",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid structure id %q", args[0])
			}
			materialRig, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid material rig level %q", args[1])
			}
			timeRig, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid time rig level %q", args[2])
			}
			resp, err := send(cmd.Context(), &commands.SetStructureRigsCommand{
				StructureID: id,
				MaterialRig: materialRig,
				TimeRig:     timeRig,
			}, false)
			if err != nil {
				return err
			}
			return printStructures(cmd, []*industry.Structure{resp.(*commands.StructureResponse).Structure}, "✓ Rigs updated")
		},
	}
}

func newStructureListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List structures",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send(cmd.Context(), &queries.ListStructuresQuery{}, false)
			if err != nil {
				return err
			}
			structures := resp.(*queries.ListStructuresResponse).Structures
			if len(structures) == 0 && !jsonOutput {
				fmt.Fprintln(cmd.OutOrStdout(), "No structures found")
				return nil
			}
			return printStructures(cmd, structures, "")
		},
	}
}

func printStructures(cmd *cobra.Command, structures []*industry.Structure, headline string) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, structures)
	}
	if headline != "" {
		fmt.Fprintln(out, headline)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSYSTEM\tME RIG\tTE RIG\tMATERIAL\tTIME")
	for _, s := range structures {
		bonus := s.Bonus()
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%.4f\t%.4f\n",
			s.ID, s.Name, s.TypeID, s.SolarSystemID, s.MaterialRig, s.TimeRig,
			bonus.MaterialEff*s.RigMaterialEff(), bonus.TimeEff*s.RigTimeEff())
	}
	return w.Flush()
}
