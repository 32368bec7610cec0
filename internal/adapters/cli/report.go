package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/queries"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
)

// Report sections selectable with --section
const (
	sectionMaterials = "materials"
	sectionWork      = "work"
	sectionWorkflow  = "workflow"
	sectionLogistics = "logistics"
	sectionCost      = "cost"
)

var reportSections = []string{sectionMaterials, sectionWork, sectionWorkflow, sectionLogistics, sectionCost}

// NewReportCommand creates the report command
func NewReportCommand() *cobra.Command {
	var refresh bool
	var sections []string

	cmd := &cobra.Command{
		Use:   "report [plan]",
		Short: "Resolve a plan and print its report",
		Long: `Resolve a plan against current stock, blueprints and running jobs.

Sections:
  materials  raw materials to buy, grouped by category
  work       manufacturing and reaction work by layer
  workflow   jobs to start now
  logistics  what each structure needs, holds and must receive
  cost       material and job installation cost

Reports are cached until the plan or its matchers change; use --refresh to
resolve again after stock changes.

Examples:
  kahuna report main
  kahuna report main --section materials --section workflow
  kahuna report --refresh`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, cached, err := fetchReport(cmd, args, refresh)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, report)
			}

			selected := sections
			if len(selected) == 0 {
				selected = reportSections
			}
			fmt.Fprintf(out, "Plan %s", report.PlanName)
			if cached {
				fmt.Fprint(out, " (cached)")
			}
			fmt.Fprintln(out)

			for _, section := range selected {
				fmt.Fprintln(out)
				var err error
				switch section {
				case sectionMaterials:
					err = printMaterials(out, report)
				case sectionWork:
					err = printWork(out, report)
				case sectionWorkflow:
					err = printWorkflow(out, report)
				case sectionLogistics:
					err = printLogistics(out, report)
				case sectionCost:
					err = printCostSummary(out, report.Cost)
				default:
					err = fmt.Errorf("unknown section %q, expected one of %v", section, reportSections)
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Resolve again instead of using the cached report")
	cmd.Flags().StringSliceVar(&sections, "section", nil, "Sections to print (default all)")

	return cmd
}

// NewTreeCommand creates the tree command
func NewTreeCommand() *cobra.Command {
	var refresh, colors bool
	var depth int

	cmd := &cobra.Command{
		Use:   "tree [plan]",
		Short: "Print the bill of materials of a plan as a tree",
		Long: `Print the bill of materials of a plan as a tree.

Each node shows whether stock covers it, how it is acquired (BUY, M for
manufacturing, R for reaction), the demanded quantity and the runs still
to start out of the runs needed.

Example:
  kahuna tree main --depth 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, _, err := fetchReport(cmd, args, refresh)
			if err != nil {
				return err
			}
			formatter := NewTreeFormatter(colors, depth)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatTreeSummary(report))
			fmt.Fprint(out, formatter.FormatTree(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Resolve again instead of using the cached report")
	cmd.Flags().BoolVar(&colors, "color", false, "Color the acquisition kind")
	cmd.Flags().IntVar(&depth, "depth", 0, "Maximum depth to print (0 prints everything)")

	return cmd
}

// NewCostCommand creates the cost command
func NewCostCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cost <plan> <Name=Qty>...",
		Short: "Price products under a plan's matchers",
		Long: `Resolve each product on its own with the plan's matchers, ignoring
stock, and print its material, installation and unit cost.

Example:
  kahuna cost main "Widget=10" "Gadget=5"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			products := make([]queries.CostProduct, 0, len(args)-1)
			for _, arg := range args[1:] {
				name, qty, err := parseProductQuantity(arg)
				if err != nil {
					return err
				}
				products = append(products, queries.CostProduct{Name: name, Quantity: qty})
			}

			resp, err := send(cmd.Context(), &queries.GetPlanCostQuery{PlanName: args[0], Products: products}, true)
			if err != nil {
				return err
			}
			rows := resp.(*queries.GetPlanCostResponse).Rows
			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, rows)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "PRODUCT\tQTY\tMATERIAL\tEIV\tTOTAL\tUNIT\t")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
					r.Name, formatQuantity(r.Quantity), formatISK(r.MaterialCost),
					formatISK(r.EIVCost), formatISK(r.TotalCost), formatISK(r.UnitCost))
			}
			return w.Flush()
		},
	}

	return cmd
}

// NewDetailCommand creates the detail command
func NewDetailCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detail <plan> <product>",
		Short: "Break the cost of one unit down by material and category",
		Long: `Resolve a single unit of a product with the plan's matchers and
print what its materials and installation cost.

Example:
  kahuna detail main "Widget"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send(cmd.Context(), &queries.GetCostDetailQuery{PlanName: args[0], Product: args[1]}, true)
			if err != nil {
				return err
			}
			result := resp.(*queries.GetCostDetailResponse)
			detail := result.Detail
			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, result)
			}

			fmt.Fprintf(out, "%s x%d\n\n", result.Product, result.Quantity)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tCOST\tSHARE")
			for _, c := range detail.Categories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.Category, formatISK(c.Cost), formatPercent(c.Share))
			}
			fmt.Fprintf(w, "eiv\t%s\t%s\n", formatISK(detail.EIV), formatPercent(detail.EIVShare))
			fmt.Fprintf(w, "total\t%s\t\n", formatISK(detail.Total))
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MATERIAL\tCATEGORY\tQTY\tCOST\tSHARE")
			for _, m := range detail.Materials {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					m.Name, m.Category, formatQuantity(m.Quantity), formatISK(m.Cost), formatPercent(m.Share))
			}
			return w.Flush()
		},
	}

	return cmd
}

func fetchReport(cmd *cobra.Command, args []string, refresh bool) (*services.ResolvedReport, bool, error) {
	name, err := resolvePlanName(args)
	if err != nil {
		return nil, false, err
	}
	resp, err := send(cmd.Context(), &queries.GetPlanReportQuery{PlanName: name, Refresh: refresh}, true)
	if err != nil {
		return nil, false, err
	}
	r := resp.(*queries.GetPlanReportResponse)
	return r.Report, r.Cached, nil
}

func printMaterials(out io.Writer, report *services.ResolvedReport) error {
	fmt.Fprintln(out, "== Materials ==")
	if len(report.Materials) == 0 {
		fmt.Fprintln(out, "(nothing to buy)")
		return nil
	}
	for _, section := range report.Materials {
		fmt.Fprintf(out, "-- %s --\n", section.Category)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tMISSING\tREDUNDANT\tTOTAL\tSTOCK\tBUYOUT\tSPREAD")
		for _, r := range section.Rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Name, formatQuantity(r.Missing), formatQuantity(r.Redundant), formatQuantity(r.Total),
				formatQuantity(r.Stock), formatISK(r.BuyoutCost), formatISK(r.SpreadCost))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func printWork(out io.Writer, report *services.ResolvedReport) error {
	fmt.Fprintln(out, "== Work ==")
	if len(report.Work) == 0 {
		fmt.Fprintln(out, "(nothing to build)")
		return nil
	}
	for _, layer := range report.Work {
		fmt.Fprintf(out, "-- layer %d --\n", layer.Layer)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tNAME\tMISSING\tTOTAL\tSTOCK\tRUNNING\tRUNS\tBPS\tSTATUS")
		for _, r := range layer.Rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d/%d\t%d %s\t%s\n",
				r.Kind, r.Name, formatQuantity(r.Missing), formatQuantity(r.Total), formatQuantity(r.Stock),
				formatQuantity(r.Running), r.ActualRuns, r.TotalRuns, r.BlueprintCount, r.BlueprintRuns, r.Status)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func printWorkflow(out io.Writer, report *services.ResolvedReport) error {
	fmt.Fprintln(out, "== Workflow ==")
	groups := []struct {
		title string
		rows  []services.WorkflowRow
	}{
		{"manufacturing", report.Workflow.Manufacturing},
		{"reaction", report.Workflow.Reaction},
	}
	for _, g := range groups {
		fmt.Fprintf(out, "-- %s --\n", g.title)
		if len(g.rows) == 0 {
			fmt.Fprintln(out, "(none ready)")
			continue
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tRUNS\tJOBS")
		for _, r := range g.rows {
			fmt.Fprintf(w, "%s\t%d\t%d\n", r.Name, r.Runs, r.Count)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func printLogistics(out io.Writer, report *services.ResolvedReport) error {
	fmt.Fprintln(out, "== Logistics ==")
	groups := []struct {
		title string
		rows  []services.StructureQuantity
	}{
		{"need", report.Logistics.Need},
		{"supply", report.Logistics.Supply},
	}
	for _, g := range groups {
		fmt.Fprintf(out, "-- %s --\n", g.title)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STRUCTURE\tITEM\tQTY")
		for _, r := range g.rows {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.StructureName, r.Name, formatQuantity(r.Quantity))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "-- transport --")
	if len(report.Logistics.Transport) == 0 {
		fmt.Fprintln(out, "(nothing to move)")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FROM\tTO\tITEM\tQTY")
	for _, r := range report.Logistics.Transport {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.From, r.To, r.Name, formatQuantity(r.Quantity))
	}
	return w.Flush()
}

func printCostSummary(out io.Writer, cost services.CostSummary) error {
	fmt.Fprintln(out, "== Cost ==")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "material\t%s\t\n", formatISK(cost.Material))
	fmt.Fprintf(w, "eiv\t%s\t\n", formatISK(cost.EIV))
	fmt.Fprintf(w, "total\t%s\t\n", formatISK(cost.Total))
	return w.Flush()
}
