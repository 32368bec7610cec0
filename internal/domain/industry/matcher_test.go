package industry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

var widgetItem = industry.ItemInfo{
	TypeID:       1000,
	Name:         "Widget",
	GroupName:    "Widgets",
	CategoryName: "Module",
	MetaName:     "Tech I",
	MarketGroups: []string{"Small Widgets", "Widgets", "Ship Equipment"},
}

func TestRuleTable_MatchOrder(t *testing.T) {
	tests := []struct {
		name    string
		rules   map[industry.RuleKey]string
		wantKey industry.RuleKey
		want    int
	}{
		{name: "blueprint beats everything", rules: map[industry.RuleKey]string{industry.RuleKeyBlueprint: "Widget Blueprint", industry.RuleKeyCategory: "Module"}, wantKey: industry.RuleKeyBlueprint},
		{name: "nearest market group", rules: map[industry.RuleKey]string{industry.RuleKeyMarketGroup: "Widgets", industry.RuleKeyGroup: "Widgets"}, wantKey: industry.RuleKeyMarketGroup},
		{name: "group before meta", rules: map[industry.RuleKey]string{industry.RuleKeyGroup: "Widgets", industry.RuleKeyMeta: "Tech I"}, wantKey: industry.RuleKeyGroup},
		{name: "meta before category", rules: map[industry.RuleKey]string{industry.RuleKeyMeta: "Tech I", industry.RuleKeyCategory: "Module"}, wantKey: industry.RuleKeyMeta},
		{name: "category last", rules: map[industry.RuleKey]string{industry.RuleKeyCategory: "Module"}, wantKey: industry.RuleKeyCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			table := industry.NewRuleTable[industry.RuleKey]()
			for key, name := range tt.rules {
				require.NoError(t, table.Set(key, name, key))
			}

			// Act
			value, key, ok := table.Match(widgetItem, "Widget Blueprint")

			// Assert
			require.True(t, ok)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantKey, value)
		})
	}
}

func TestRuleTable_MarketGroupsNearestFirst(t *testing.T) {
	// Arrange
	table := industry.NewRuleTable[string]()
	require.NoError(t, table.Set(industry.RuleKeyMarketGroup, "Ship Equipment", "far"))
	require.NoError(t, table.Set(industry.RuleKeyMarketGroup, "Widgets", "near"))

	// Act
	value, _, ok := table.Match(widgetItem, "")

	// Assert
	require.True(t, ok)
	assert.Equal(t, "near", value)
}

func TestRuleTable_SetUnset(t *testing.T) {
	// Arrange
	var table industry.RuleTable[int]

	// Act
	err := table.Set(industry.RuleKeyGroup, "Widgets", 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, []string{"Widgets"}, table.Names(industry.RuleKeyGroup))
	assert.True(t, table.Unset(industry.RuleKeyGroup, "Widgets"))
	assert.False(t, table.Unset(industry.RuleKeyGroup, "Widgets"))

	var keyErr *industry.ErrInvalidRuleKey
	assert.True(t, errors.As(table.Set("price", "x", 1), &keyErr))
}

func TestParseRuleKeyAndKind(t *testing.T) {
	key, err := industry.ParseRuleKey("market_group")
	require.NoError(t, err)
	assert.Equal(t, industry.RuleKeyMarketGroup, key)

	_, err = industry.ParseRuleKey("price")
	assert.Error(t, err)

	kind, err := industry.ParseMatcherKind("prod_block")
	require.NoError(t, err)
	assert.Equal(t, industry.MatcherKindProductionBlock, kind)

	_, err = industry.ParseMatcherKind("market")
	assert.Error(t, err)
}

func TestEfficiencyFromLevels(t *testing.T) {
	// Act
	eff, err := industry.EfficiencyFromLevels(10, 20)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, industry.BlueprintEfficiency{MaterialEff: 0.9, TimeEff: 0.8}, eff)

	_, err = industry.EfficiencyFromLevels(101, 0)
	assert.Error(t, err)
	_, err = industry.EfficiencyFromLevels(0, -1)
	assert.Error(t, err)
}

func TestMatchers_DefaultBehaviour(t *testing.T) {
	// Arrange
	bp := industry.NewBlueprintMatcher("bp", "user-1")
	st := industry.NewStructureMatcher("st", "user-1")
	pb := industry.NewProductionBlockMatcher("pb", "user-1")

	// Act & Assert
	assert.Equal(t, industry.NoBonus, bp.DefaultEfficiency(widgetItem, "Widget Blueprint"))
	_, ok := st.Allocate(widgetItem, "Widget Blueprint")
	assert.False(t, ok)
	assert.False(t, pb.Blocked(widgetItem, "Widget Blueprint"))

	require.NoError(t, st.Rules.Set(industry.RuleKeyCategory, "Module", 1001))
	require.NoError(t, st.Rules.Set(industry.RuleKeyGroup, "Widgets", 1001))
	require.NoError(t, st.Rules.Set(industry.RuleKeyMeta, "Tech II", 900))
	require.NoError(t, pb.Rules.Set(industry.RuleKeyBlueprint, "Widget Blueprint", 0))

	id, ok := st.Allocate(widgetItem, "Widget Blueprint")
	assert.True(t, ok)
	assert.Equal(t, int64(1001), id)
	assert.Equal(t, []int64{900, 1001}, st.StructureIDs())
	assert.True(t, pb.Blocked(widgetItem, "Widget Blueprint"))
}

func TestNewMatcher(t *testing.T) {
	m, err := industry.NewMatcher(industry.MatcherKindStructure, "st", "user-1")
	require.NoError(t, err)
	assert.IsType(t, &industry.StructureMatcher{}, m)
	assert.Equal(t, industry.MatcherKindStructure, m.Kind())

	_, err = industry.NewMatcher("price", "x", "user-1")
	assert.Error(t, err)
}
