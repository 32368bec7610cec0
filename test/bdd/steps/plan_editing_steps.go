package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
	"github.com/cucumber/godog"
)

type planEditingContext struct {
	plan    *industry.Plan
	clock   *shared.MockClock
	editErr error
}

func (ctx *planEditingContext) reset() {
	ctx.plan = nil
	ctx.clock = shared.NewMockClock(defaultTestTime)
	ctx.editErr = nil
}

// ============================================================================
// Setup Steps
// ============================================================================

func (ctx *planEditingContext) aPlanWithLines(name string, table *godog.Table) error {
	plan, err := industry.NewPlan("user-1", name, "bp", "st", "pb", ctx.clock)
	if err != nil {
		return err
	}
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header
		}
		quantity, err := strconv.ParseInt(getCellValueFromTable(table, row, "quantity"), 10, 64)
		if err != nil {
			return err
		}
		if err := plan.AddLine(getCellValueFromTable(table, row, "product"), 0, quantity); err != nil {
			return err
		}
	}
	ctx.plan = plan
	return nil
}

// ============================================================================
// Action Steps
// ============================================================================

func (ctx *planEditingContext) iDeletePlanLines(list string) error {
	var indexes []int
	for _, part := range strings.Split(list, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return err
		}
		indexes = append(indexes, idx)
	}
	ctx.editErr = ctx.plan.DeleteLines(indexes)
	return nil
}

func (ctx *planEditingContext) iMovePlanLineToPosition(from, to int) error {
	ctx.editErr = ctx.plan.ChangeLineIndex(from, to)
	return nil
}

func (ctx *planEditingContext) iAddToThePlan(quantity int64, product string) error {
	ctx.editErr = ctx.plan.AddLine(product, 0, quantity)
	return nil
}

func (ctx *planEditingContext) iSetTheCycleToHours(code string, hours int) error {
	activity, err := activityFromCode(code)
	if err != nil {
		return err
	}
	ctx.editErr = ctx.plan.SetCycleHours(activity, hours)
	return nil
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (ctx *planEditingContext) thePlanLinesShouldBe(table *godog.Table) error {
	if ctx.editErr != nil {
		return fmt.Errorf("unexpected edit error: %w", ctx.editErr)
	}
	expected := len(table.Rows) - 1
	if len(ctx.plan.Lines) != expected {
		return fmt.Errorf("expected %d lines, got %d: %v", expected, len(ctx.plan.Lines), ctx.plan.Lines)
	}
	for i, row := range table.Rows[1:] {
		line := ctx.plan.Lines[i]
		product := getCellValueFromTable(table, row, "product")
		quantity := getCellValueFromTable(table, row, "quantity")
		if line.Product != product || strconv.FormatInt(line.Quantity, 10) != quantity {
			return fmt.Errorf("line %d: expected %s x%s, got %s x%d", i+1, product, quantity, line.Product, line.Quantity)
		}
	}
	return nil
}

func (ctx *planEditingContext) theEditShouldFailWith(fragment string) error {
	if ctx.editErr == nil {
		return fmt.Errorf("expected edit to fail with %q, but it succeeded", fragment)
	}
	if !strings.Contains(ctx.editErr.Error(), fragment) {
		return fmt.Errorf("expected error containing %q, got %q", fragment, ctx.editErr.Error())
	}
	return nil
}

func (ctx *planEditingContext) thePlanShouldHaveLines(count int) error {
	if len(ctx.plan.Lines) != count {
		return fmt.Errorf("expected %d lines, got %d", count, len(ctx.plan.Lines))
	}
	return nil
}

func (ctx *planEditingContext) theCycleShouldBeSeconds(code string, seconds int64) error {
	if ctx.editErr != nil {
		return fmt.Errorf("unexpected edit error: %w", ctx.editErr)
	}
	activity, err := activityFromCode(code)
	if err != nil {
		return err
	}
	if got := ctx.plan.CycleSeconds(activity); got != seconds {
		return fmt.Errorf("expected %s cycle of %d seconds, got %d", code, seconds, got)
	}
	return nil
}

func activityFromCode(code string) (industry.ActivityKind, error) {
	switch code {
	case industry.TagManufacturing:
		return industry.ActivityManufacturing, nil
	case industry.TagReaction:
		return industry.ActivityReaction, nil
	}
	return 0, fmt.Errorf("unknown activity %q", code)
}

// InitializePlanEditingScenario registers the plan editing steps
func InitializePlanEditingScenario(sc *godog.ScenarioContext) {
	ctx := &planEditingContext{}

	sc.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^a plan "([^"]*)" with lines:$`, ctx.aPlanWithLines)
	sc.Step(`^I delete plan lines "([^"]*)"$`, ctx.iDeletePlanLines)
	sc.Step(`^I move plan line (\d+) to position (\d+)$`, ctx.iMovePlanLineToPosition)
	sc.Step(`^I add (-?\d+) "([^"]*)" to the plan$`, ctx.iAddToThePlan)
	sc.Step(`^I set the "([^"]*)" cycle to (-?\d+) hours$`, ctx.iSetTheCycleToHours)
	sc.Step(`^the plan lines should be:$`, ctx.thePlanLinesShouldBe)
	sc.Step(`^the edit should fail with "([^"]*)"$`, ctx.theEditShouldFailWith)
	sc.Step(`^the plan should have (\d+) lines?$`, ctx.thePlanShouldHaveLines)
	sc.Step(`^the "([^"]*)" cycle should be (\d+) seconds$`, ctx.theCycleShouldBeSeconds)
}
