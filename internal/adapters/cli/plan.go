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

// NewPlanCommand creates the plan command with subcommands
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage production plans",
		Long: `Manage production plans: ordered lists of products and quantities
resolved against a blueprint, structure and production block matcher.

Line numbers are 1-based, as shown by 'kahuna plan show'.`,
	}

	cmd.AddCommand(newPlanCreateCommand())
	cmd.AddCommand(newPlanDeleteCommand())
	cmd.AddCommand(newPlanListCommand())
	cmd.AddCommand(newPlanShowCommand())
	cmd.AddCommand(newPlanAddCommand())
	cmd.AddCommand(newPlanDeleteLinesCommand())
	cmd.AddCommand(newPlanMoveCommand())
	cmd.AddCommand(newPlanCycleCommand())
	cmd.AddCommand(newPlanVisibilityCommand("hide", true))
	cmd.AddCommand(newPlanVisibilityCommand("unhide", false))

	return cmd
}

func newPlanCreateCommand() *cobra.Command {
	var bpMatcher, stMatcher, pbMatcher string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a plan",
		Long: `Create an empty plan bound to three matchers.

Example:
  kahuna plan create main --bp bp-default --st st-default --pb pb-default`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send(cmd.Context(), &commands.CreatePlanCommand{
				Name:                   args[0],
				BlueprintMatcher:       bpMatcher,
				StructureMatcher:       stMatcher,
				ProductionBlockMatcher: pbMatcher,
			}, true)
			if err != nil {
				return err
			}
			plan := resp.(*commands.CreatePlanResponse).Plan
			return printPlan(cmd, plan, fmt.Sprintf("✓ Plan %s created", plan.Name))
		},
	}

	cmd.Flags().StringVar(&bpMatcher, "bp", "", "Blueprint matcher name (required)")
	cmd.Flags().StringVar(&stMatcher, "st", "", "Structure matcher name (required)")
	cmd.Flags().StringVar(&pbMatcher, "pb", "", "Production block matcher name (required)")
	cmd.MarkFlagRequired("bp")
	cmd.MarkFlagRequired("st")
	cmd.MarkFlagRequired("pb")

	return cmd
}

func newPlanDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := send(cmd.Context(), &commands.DeletePlanCommand{Name: args[0]}, true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Plan %s deleted\n", args[0])
			return nil
		},
	}
}

func newPlanListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send(cmd.Context(), &queries.ListPlansQuery{}, true)
			if err != nil {
				return err
			}
			plans := resp.(*queries.ListPlansResponse).Plans
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), plans)
			}
			if len(plans) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No plans found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLINES\tBP\tST\tPB\tUPDATED")
			for _, p := range plans {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
					p.Name, len(p.Lines), p.BlueprintMatcher, p.StructureMatcher,
					p.ProductionBlockMatcher, p.UpdatedAt.Format("2006-01-02 15:04"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d plans\n", len(plans))
			return nil
		},
	}
}

func newPlanShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [plan]",
		Short: "Show a plan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := resolvePlanName(args)
			if err != nil {
				return err
			}
			resp, err := send(cmd.Context(), &queries.GetPlanQuery{PlanName: name}, true)
			if err != nil {
				return err
			}
			return printPlan(cmd, resp.(*queries.GetPlanResponse).Plan, "")
		},
	}
}

func newPlanAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <plan> <product> <quantity>",
		Short: "Append a product line",
		Long: `Append a line to a plan. The product must have a blueprint.

Example:
  kahuna plan add main "Widget" 100`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[2])
			}
			resp, err := send(cmd.Context(), &commands.AddPlanLineCommand{
				PlanName: args[0],
				Product:  args[1],
				Quantity: qty,
			}, true)
			if err != nil {
				return err
			}
			return printPlan(cmd, resp.(*commands.PlanResponse).Plan, "✓ Line added")
		},
	}
}

func newPlanDeleteLinesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "del-lines <plan> <line>...",
		Short: "Remove lines by number",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			indexes, err := parseIndexes(args[1:])
			if err != nil {
				return err
			}
			resp, err := send(cmd.Context(), &commands.DeletePlanLinesCommand{
				PlanName: args[0],
				Indexes:  indexes,
			}, true)
			if err != nil {
				return err
			}
			return printPlan(cmd, resp.(*commands.PlanResponse).Plan, "✓ Lines removed")
		},
	}
}

func newPlanMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <plan> <from> <to>",
		Short: "Move a line to another position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			positions, err := parseIndexes(args[1:])
			if err != nil {
				return err
			}
			resp, err := send(cmd.Context(), &commands.ChangePlanLineIndexCommand{
				PlanName: args[0],
				From:     positions[0],
				To:       positions[1],
			}, true)
			if err != nil {
				return err
			}
			return printPlan(cmd, resp.(*commands.PlanResponse).Plan, "✓ Line moved")
		},
	}
}

func newPlanCycleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cycle <plan> <manu|reac> <hours>",
		Short: "Set the job length for an activity",
		Long: `Set how many hours one job of the given activity should last.
Work is split into jobs no longer than this.

Example:
  kahuna plan cycle main manu 24`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid hours %q", args[2])
			}
			resp, err := send(cmd.Context(), &commands.SetPlanCycleTimeCommand{
				PlanName: args[0],
				Activity: args[1],
				Hours:    hours,
			}, true)
			if err != nil {
				return err
			}
			return printPlan(cmd, resp.(*commands.PlanResponse).Plan, "✓ Cycle time updated")
		},
	}
}

// newPlanVisibilityCommand excludes a container from, or restores it to,
// the stock a plan may consume
func newPlanVisibilityCommand(use string, hidden bool) *cobra.Command {
	short := "Stop using a container's stock for a plan"
	if !hidden {
		short = "Use a hidden container's stock for a plan again"
	}

	return &cobra.Command{
		Use:   use + " <plan> <location-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			locationID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid location id %q", args[1])
			}
			resp, err := send(cmd.Context(), &commands.SetContainerVisibilityCommand{
				PlanName:   args[0],
				LocationID: locationID,
				Hidden:     hidden,
			}, true)
			if err != nil {
				return err
			}
			return printPlan(cmd, resp.(*commands.PlanResponse).Plan, fmt.Sprintf("✓ Container %d updated", locationID))
		},
	}
}

func printPlan(cmd *cobra.Command, plan *industry.Plan, headline string) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, plan)
	}
	if headline != "" {
		fmt.Fprintln(out, headline)
	}
	fmt.Fprintf(out, "Plan %s\n", plan.Name)
	fmt.Fprint(out, plan.Describe())
	if len(plan.ExcludedContainers) > 0 {
		fmt.Fprintf(out, "hidden containers: %v\n", plan.ExcludedContainers)
	}
	return nil
}
