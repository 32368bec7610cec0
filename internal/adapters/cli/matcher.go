package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/commands"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/queries"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// NewMatcherCommand creates the matcher command with subcommands
func NewMatcherCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matcher",
		Short: "Manage blueprint, structure and production block matchers",
		Long: `Matchers map items to a value by blueprint name, market group, group,
meta or category, tried in that order.

Kinds:
  bp          default ME/TE for units without a physical blueprint
  structure   the structure an item is built in
  prod_block  items that are bought instead of built`,
	}

	cmd.AddCommand(newMatcherCreateCommand())
	cmd.AddCommand(newMatcherDeleteCommand())
	cmd.AddCommand(newMatcherListCommand())
	cmd.AddCommand(newMatcherSetCommand())
	cmd.AddCommand(newMatcherUnsetCommand())
	cmd.AddCommand(newMatcherImportCommand())

	return cmd
}

func newMatcherCreateCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty matcher",
		Long: `Create an empty matcher, or keep an existing one of the same kind.

Example:
  kahuna matcher create st-default --kind structure`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send(cmd.Context(), &commands.SaveMatcherCommand{Name: args[0], Kind: kind}, true)
			if err != nil {
				return err
			}
			return printMatcher(cmd.OutOrStdout(), resp.(*commands.MatcherResponse).Matcher, "✓ Matcher saved")
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Matcher kind: bp, structure or prod_block (required)")
	cmd.MarkFlagRequired("kind")

	return cmd
}

func newMatcherDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a matcher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := send(cmd.Context(), &commands.DeleteMatcherCommand{Name: args[0]}, true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Matcher %s deleted\n", args[0])
			return nil
		},
	}
}

func newMatcherListCommand() *cobra.Command {
	var rules bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your matchers",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send(cmd.Context(), &queries.ListMatchersQuery{}, true)
			if err != nil {
				return err
			}
			matchers := resp.(*queries.ListMatchersResponse).Matchers
			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, resp)
			}
			if len(matchers) == 0 {
				fmt.Fprintln(out, "No matchers found")
				return nil
			}

			if rules {
				for _, m := range matchers {
					if err := printMatcher(out, m, ""); err != nil {
						return err
					}
					fmt.Fprintln(out)
				}
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tRULES")
			for _, m := range matchers {
				fmt.Fprintf(w, "%s\t%s\t%d\n", m.MatcherName(), m.Kind(), ruleCount(m))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&rules, "rules", false, "Print every rule")

	return cmd
}

func newMatcherSetCommand() *cobra.Command {
	var me, te, level int
	var structureID int64

	cmd := &cobra.Command{
		Use:   "set <matcher> <key> <target>",
		Short: "Add or replace a rule",
		Long: `Add or replace a rule. Keys: bp, market_group, group, meta, category.

The value flag depends on the matcher kind:
  bp          --me and --te research levels (0-100)
  structure   --structure id
  prod_block  --level (any value blocks the item)

Examples:
  kahuna matcher set bp-default category Ship --me 10 --te 20
  kahuna matcher set st-default group "Composite" --structure 1035000000001
  kahuna matcher set pb-default market_group "Minerals"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send(cmd.Context(), &commands.SetMatcherRuleCommand{
				Matcher:       args[0],
				Key:           args[1],
				Target:        args[2],
				MaterialLevel: me,
				TimeLevel:     te,
				StructureID:   structureID,
				Level:         level,
			}, true)
			if err != nil {
				return err
			}
			return printMatcher(cmd.OutOrStdout(), resp.(*commands.MatcherResponse).Matcher, "✓ Rule set")
		},
	}

	cmd.Flags().IntVar(&me, "me", 0, "Material efficiency level (bp matchers)")
	cmd.Flags().IntVar(&te, "te", 0, "Time efficiency level (bp matchers)")
	cmd.Flags().Int64Var(&structureID, "structure", 0, "Structure id (structure matchers)")
	cmd.Flags().IntVar(&level, "level", 1, "Block level (prod_block matchers)")

	return cmd
}

func newMatcherUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <matcher> <key> <target>",
		Short: "Remove a rule",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send(cmd.Context(), &commands.UnsetMatcherRuleCommand{
				Matcher: args[0],
				Key:     args[1],
				Target:  args[2],
			}, true)
			if err != nil {
				return err
			}
			return printMatcher(cmd.OutOrStdout(), resp.(*commands.MatcherResponse).Matcher, "✓ Rule removed")
		},
	}
}

func newMatcherImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create or replace a matcher from a YAML document",
		Long: `Create or replace a matcher from a YAML document of the form:

  name: bp-default
  kind: bp
  rules:
    category:
      Ship: {mater_eff: 0.9, time_eff: 0.8}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read matcher file: %w", err)
			}
			resp, err := send(cmd.Context(), &commands.ImportMatcherCommand{Document: doc}, true)
			if err != nil {
				return err
			}
			return printMatcher(cmd.OutOrStdout(), resp.(*commands.MatcherResponse).Matcher, "✓ Matcher imported")
		},
	}
}

func ruleCount(m industry.Matcher) int {
	switch v := m.(type) {
	case *industry.BlueprintMatcher:
		return v.Rules.Len()
	case *industry.StructureMatcher:
		return v.Rules.Len()
	case *industry.ProductionBlockMatcher:
		return v.Rules.Len()
	}
	return 0
}

// ruleValue renders the value of one rule for display
func ruleValue(m industry.Matcher, key industry.RuleKey, name string) string {
	switch v := m.(type) {
	case *industry.BlueprintMatcher:
		eff, _ := v.Rules.Get(key, name)
		return fmt.Sprintf("ME %.2f / TE %.2f", eff.MaterialEff, eff.TimeEff)
	case *industry.StructureMatcher:
		id, _ := v.Rules.Get(key, name)
		return fmt.Sprintf("structure %d", id)
	case *industry.ProductionBlockMatcher:
		lvl, _ := v.Rules.Get(key, name)
		return fmt.Sprintf("blocked (%d)", lvl)
	}
	return ""
}

func ruleNames(m industry.Matcher, key industry.RuleKey) []string {
	switch v := m.(type) {
	case *industry.BlueprintMatcher:
		return v.Rules.Names(key)
	case *industry.StructureMatcher:
		return v.Rules.Names(key)
	case *industry.ProductionBlockMatcher:
		return v.Rules.Names(key)
	}
	return nil
}

func printMatcher(out io.Writer, m industry.Matcher, headline string) error {
	if jsonOutput {
		return printJSON(out, industry.MatcherJSON{Matcher: m})
	}
	if headline != "" {
		fmt.Fprintln(out, headline)
	}
	fmt.Fprintf(out, "Matcher %s (%s)\n", m.MatcherName(), m.Kind())
	if ruleCount(m) == 0 {
		fmt.Fprintln(out, "  (no rules)")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, key := range industry.RuleKeys {
		for _, name := range ruleNames(m, key) {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", key, name, ruleValue(m, key, name))
		}
	}
	return w.Flush()
}
