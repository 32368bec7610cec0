package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/commands"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

func TestSaveMatcher(t *testing.T) {
	// Arrange
	f := newFixture()
	handler := commands.NewSaveMatcherHandler(f.Matchers)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.SaveMatcherCommand{UserID: f.UserID, Name: "caps-st", Kind: "structure"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, industry.MatcherKindStructure, resp.(*commands.MatcherResponse).Matcher.Kind())

	_, err = handler.Handle(context.Background(), &commands.SaveMatcherCommand{UserID: f.UserID, Name: "caps-st", Kind: "bp"})
	var input *shared.UserInputError
	assert.True(t, errors.As(err, &input), "names are unique per user")

	_, err = handler.Handle(context.Background(), &commands.SaveMatcherCommand{UserID: f.UserID, Name: "x", Kind: "market"})
	var kind *industry.ErrInvalidMatcherKind
	assert.True(t, errors.As(err, &kind))
}

func TestSetMatcherRule_BlueprintStoresMultipliers(t *testing.T) {
	// Arrange
	f := newFixture()
	plan := f.NewPlan("caps")
	cache := services.NewReportCache(0, nil)
	cache.Put(plan.Key(), &services.ResolvedReport{})
	handler := commands.NewSetMatcherRuleHandler(f.Matchers, f.Structures, cache)

	// Act
	_, err := handler.Handle(context.Background(), &commands.SetMatcherRuleCommand{
		UserID: f.UserID, Matcher: "bp-default", Key: "category", Target: "Module", MaterialLevel: 10, TimeLevel: 20,
	})

	// Assert
	require.NoError(t, err)
	eff, ok := f.BlueprintMatcher.Rules.Get(industry.RuleKeyCategory, "Module")
	require.True(t, ok)
	assert.Equal(t, industry.BlueprintEfficiency{MaterialEff: 0.9, TimeEff: 0.8}, eff)
	assert.False(t, cachedReport(cache, plan.Key()))
}

func TestSetMatcherRule_StructureMustExist(t *testing.T) {
	// Arrange
	f := newFixture()
	handler := commands.NewSetMatcherRuleHandler(f.Matchers, f.Structures, services.NewReportCache(0, nil))
	cmd := &commands.SetMatcherRuleCommand{UserID: f.UserID, Matcher: "st-default", Key: "group", Target: "Widgets", StructureID: 4242}

	// Act
	_, err := handler.Handle(context.Background(), cmd)

	// Assert
	var notFound *industry.ErrStructureNotFound
	require.True(t, errors.As(err, &notFound))
	assert.Zero(t, f.StructureMatcher.Rules.Len())

	cmd.StructureID = athanor
	_, err = handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	id, ok := f.StructureMatcher.Rules.Get(industry.RuleKeyGroup, "Widgets")
	require.True(t, ok)
	assert.Equal(t, athanor, id)
}

func TestSetMatcherRule_ProductionBlockAndUnset(t *testing.T) {
	// Arrange
	f := newFixture()
	cache := services.NewReportCache(0, nil)
	set := commands.NewSetMatcherRuleHandler(f.Matchers, f.Structures, cache)
	unset := commands.NewUnsetMatcherRuleHandler(f.Matchers, cache)

	// Act
	_, err := set.Handle(context.Background(), &commands.SetMatcherRuleCommand{UserID: f.UserID, Matcher: "pb-default", Key: "bp", Target: "Widget Blueprint", Level: 1})
	require.NoError(t, err)
	blocked := f.ProductionBlockMatcher.Blocked(industry.ItemInfo{TypeID: widget, Name: "Widget"}, "Widget Blueprint")
	_, err = unset.Handle(context.Background(), &commands.UnsetMatcherRuleCommand{UserID: f.UserID, Matcher: "pb-default", Key: "bp", Target: "Widget Blueprint"})

	// Assert
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Zero(t, f.ProductionBlockMatcher.Rules.Len())

	_, err = unset.Handle(context.Background(), &commands.UnsetMatcherRuleCommand{UserID: f.UserID, Matcher: "pb-default", Key: "bp", Target: "Widget Blueprint"})
	var input *shared.UserInputError
	assert.True(t, errors.As(err, &input))

	_, err = set.Handle(context.Background(), &commands.SetMatcherRuleCommand{UserID: f.UserID, Matcher: "pb-default", Key: "color", Target: "x"})
	var key *industry.ErrInvalidRuleKey
	assert.True(t, errors.As(err, &key))
}

func TestSetMatcherRule_RejectsOutOfRangeEfficiency(t *testing.T) {
	f := newFixture()
	handler := commands.NewSetMatcherRuleHandler(f.Matchers, f.Structures, services.NewReportCache(0, nil))

	_, err := handler.Handle(context.Background(), &commands.SetMatcherRuleCommand{
		UserID: f.UserID, Matcher: "bp-default", Key: "meta", Target: "Tech II", MaterialLevel: 120,
	})

	var validation *shared.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestImportMatcher(t *testing.T) {
	// Arrange
	f := newFixture()
	handler := commands.NewImportMatcherHandler(f.Matchers, f.Structures, services.NewReportCache(0, nil))
	doc := []byte(`
name: t2
kind: bp
rules:
  category:
    Module: {mater_eff: 0.98, time_eff: 0.96}
  bp:
    Widget Blueprint: {mater_eff: 0.9, time_eff: 0.8}
`)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.ImportMatcherCommand{UserID: f.UserID, Document: doc})

	// Assert
	require.NoError(t, err)
	matcher, ok := resp.(*commands.MatcherResponse).Matcher.(*industry.BlueprintMatcher)
	require.True(t, ok)
	assert.Equal(t, "t2", matcher.Name)
	assert.Equal(t, 2, matcher.Rules.Len())
	eff := matcher.DefaultEfficiency(industry.ItemInfo{TypeID: widget, Name: "Widget", CategoryName: "Module"}, "Widget Blueprint")
	assert.Equal(t, industry.BlueprintEfficiency{MaterialEff: 0.9, TimeEff: 0.8}, eff)

	stored, err := f.Matchers.FindByName(context.Background(), f.UserID, "t2")
	require.NoError(t, err)
	assert.Same(t, matcher, stored)
}

func TestImportMatcher_StructureRulesMustReferenceKnownStructures(t *testing.T) {
	f := newFixture()
	handler := commands.NewImportMatcherHandler(f.Matchers, f.Structures, services.NewReportCache(0, nil))

	_, err := handler.Handle(context.Background(), &commands.ImportMatcherCommand{UserID: f.UserID, Document: []byte(`
name: st
kind: structure
rules:
  category:
    Module: 1001
    Ship: 77
`)})

	var notFound *industry.ErrStructureNotFound
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, int64(77), notFound.ID)
}

func TestImportMatcher_MalformedDocument(t *testing.T) {
	f := newFixture()
	handler := commands.NewImportMatcherHandler(f.Matchers, f.Structures, services.NewReportCache(0, nil))

	_, err := handler.Handle(context.Background(), &commands.ImportMatcherCommand{UserID: f.UserID, Document: []byte("name: [")})
	var input *shared.UserInputError
	assert.True(t, errors.As(err, &input))

	_, err = handler.Handle(context.Background(), &commands.ImportMatcherCommand{UserID: f.UserID, Document: []byte(`
name: pb
kind: prod_block
rules:
  bp:
    Widget Blueprint: high
`)})
	assert.True(t, errors.As(err, &input))
}

func TestDeleteMatcher_RefusesMatcherInUse(t *testing.T) {
	// Arrange
	f := newFixture()
	f.NewPlan("caps")
	handler := commands.NewDeleteMatcherHandler(f.Matchers, f.Plans)

	// Act
	_, err := handler.Handle(context.Background(), &commands.DeleteMatcherCommand{UserID: f.UserID, Name: "bp-default"})

	// Assert
	var input *shared.UserInputError
	require.True(t, errors.As(err, &input))

	_, err = commands.NewSaveMatcherHandler(f.Matchers).Handle(context.Background(), &commands.SaveMatcherCommand{UserID: f.UserID, Name: "spare", Kind: "bp"})
	require.NoError(t, err)
	_, err = handler.Handle(context.Background(), &commands.DeleteMatcherCommand{UserID: f.UserID, Name: "spare"})
	require.NoError(t, err)
	_, err = f.Matchers.FindByName(context.Background(), f.UserID, "spare")
	var notFound *industry.ErrMatcherNotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestStructureCommands(t *testing.T) {
	// Arrange
	f := newFixture()
	cache := services.NewReportCache(0, nil)
	cache.Put("user-9/other", &services.ResolvedReport{})
	save := commands.NewSaveStructureHandler(f.Structures, cache)
	rigs := commands.NewSetStructureRigsHandler(f.Structures, cache)

	// Act
	_, err := save.Handle(context.Background(), &commands.SaveStructureCommand{
		ID: 1002, Name: "Raitaru R", TypeID: int64(industry.StructureRaitaru), SolarSystemID: 30000142,
	})
	require.NoError(t, err)
	resp, err := rigs.Handle(context.Background(), &commands.SetStructureRigsCommand{StructureID: 1002, MaterialRig: 2, TimeRig: 1})

	// Assert
	require.NoError(t, err)
	structure := resp.(*commands.StructureResponse).Structure
	assert.Equal(t, 2, structure.MaterialRig)
	assert.Equal(t, 1, structure.TimeRig)
	assert.False(t, cachedReport(cache, "user-9/other"), "structures are shared, every report is dropped")

	_, err = rigs.Handle(context.Background(), &commands.SetStructureRigsCommand{StructureID: 1002, MaterialRig: 3})
	var rig *industry.ErrInvalidRigLevel
	require.True(t, errors.As(err, &rig))
	stored, _ := f.Structures.FindByID(context.Background(), 1002)
	assert.Equal(t, 2, stored.MaterialRig, "a rejected change is not saved")

	_, err = rigs.Handle(context.Background(), &commands.SetStructureRigsCommand{StructureID: 5})
	var notFound *industry.ErrStructureNotFound
	assert.True(t, errors.As(err, &notFound))
}
