package dataset_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/adapters/dataset"
	"github.com/AraragiEro/kahuna-bot/internal/adapters/persistence"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/test/helpers"
)

const seed = `
items:
  - {type_id: 34, name: Tritanium, group: Mineral, category: Material, market_groups: [Minerals]}
  - {type_id: 1000, name: Widget, group: Widgets, category: Module}
blueprints:
  - type_id: 2000
    name: Widget Blueprint
    product_type_id: 1000
    time: 3600
    max_runs: 24
    materials:
      - {type_id: 34, quantity: 10}
structures:
  - {id: 1035, name: Athanor A, type_id: 35835, system_id: 30000142, material_rig: 2}
characters:
  - {user_id: user-1, character_id: 9001, name: Pilot}
containers:
  - {location_id: 5001, structure_id: 1035, user_id: user-1, tag: manu, name: Hangar}
  - {location_id: 5002, structure_id: 1035, user_id: user-1, tag: bp}
assets:
  - {location_id: 5001, type_id: 34, quantity: 500}
blueprint_assets:
  - {item_id: 700, type_id: 2000, location_id: 5002, runs: -1, quantity: -1, me: 10, te: 20}
jobs:
  - {job_id: 1, installer_id: 9001, blueprint_item_id: 700, product_type_id: 1000, runs: 5, output_location_id: 5001}
prices:
  - {type_id: 34, max_buy: 4.5, min_sell: 5, adjusted: 4}
cost_indexes:
  - {system_id: 30000142, manufacturing: 0.05, reaction: 0.02}
`

func TestImport_WritesEverySection(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repos := persistence.NewRepositories(db, nil)
	ctx := context.Background()
	d, err := dataset.Load(strings.NewReader(seed))
	require.NoError(t, err)

	// Act
	summary, err := d.Import(ctx, dataset.Store{
		Catalog:    repos.Catalog,
		Structures: repos.Structures,
		Characters: repos.Characters,
		Inventory:  repos.Inventory,
		Jobs:       repos.Jobs,
		Market:     repos.Market,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Items)
	assert.Equal(t, 2, summary.Containers)

	catalog, err := repos.Catalog.LoadCatalog(ctx)
	require.NoError(t, err)
	spec, ok := catalog.Blueprint(1000)
	require.True(t, ok)
	assert.Equal(t, industry.ActivityManufacturing, spec.Activity)
	assert.Equal(t, int64(1), spec.ProductQuantity)

	structure, err := repos.Structures.FindByID(ctx, 1035)
	require.NoError(t, err)
	assert.Equal(t, 2, structure.MaterialRig)

	ids, err := repos.Characters.FindCharacterIDs(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []int64{9001}, ids)

	assets, err := repos.Inventory.FindAssets(ctx, []int64{5001})
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, int64(500), assets[0].Quantity)

	blueprints, err := repos.Inventory.FindBlueprintAssets(ctx, []int64{5002})
	require.NoError(t, err)
	require.Len(t, blueprints, 1)
	assert.True(t, blueprints[0].IsOriginal())

	jobs, err := repos.Jobs.FindRunningJobs(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	prices, err := repos.Market.FindPrices(ctx, []industry.TypeID{34})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, prices[34].MinSell, 1e-9)
}

func TestImport_ReplacesLocationContents(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repos := persistence.NewRepositories(db, nil)
	ctx := context.Background()
	store := dataset.Store{Inventory: repos.Inventory}
	first, err := dataset.Load(strings.NewReader("assets:\n  - {location_id: 1, type_id: 34, quantity: 10}\n  - {location_id: 1, type_id: 35, quantity: 20}\n"))
	require.NoError(t, err)
	_, err = first.Import(ctx, store)
	require.NoError(t, err)

	// Act
	second, err := dataset.Load(strings.NewReader("assets:\n  - {location_id: 1, type_id: 34, quantity: 3}\n"))
	require.NoError(t, err)
	_, err = second.Import(ctx, store)

	// Assert
	require.NoError(t, err)
	assets, err := repos.Inventory.FindAssets(ctx, []int64{1})
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, int64(3), assets[0].Quantity)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	// Act
	_, err := dataset.Load(strings.NewReader("itemz: []\n"))

	// Assert
	require.Error(t, err)
	assert.True(t, services.IsUserFacing(err))
}

func TestImport_RejectsBadContainerTag(t *testing.T) {
	// Arrange
	d, err := dataset.Load(strings.NewReader("containers:\n  - {location_id: 1, structure_id: 2, user_id: u, tag: hangar}\n"))
	require.NoError(t, err)

	// Act
	_, err = d.Import(context.Background(), dataset.Store{})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "containers[0].tag")
}

func TestLoad_EmptyDocument(t *testing.T) {
	// Act
	d, err := dataset.Load(strings.NewReader(""))

	// Assert
	require.NoError(t, err)
	assert.Empty(t, d.Items)
}
