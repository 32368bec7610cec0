// Package dataset seeds reference data, facilities and inventory from a YAML
// document. It stands in for the game API synchronisation, which is not part
// of this module.
package dataset

import (
	"context"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// Dataset is the YAML layout of a seed file. Every section is optional.
type Dataset struct {
	Items           []Item           `yaml:"items"`
	Blueprints      []Blueprint      `yaml:"blueprints"`
	Structures      []Structure      `yaml:"structures"`
	Characters      []Character      `yaml:"characters"`
	Containers      []Container      `yaml:"containers"`
	Assets          []Asset          `yaml:"assets"`
	BlueprintAssets []BlueprintAsset `yaml:"blueprint_assets"`
	Jobs            []Job            `yaml:"jobs"`
	Prices          []Price          `yaml:"prices"`
	CostIndexes     []CostIndex      `yaml:"cost_indexes"`
}

type Item struct {
	TypeID       int64    `yaml:"type_id"`
	Name         string   `yaml:"name"`
	Group        string   `yaml:"group"`
	Category     string   `yaml:"category"`
	Meta         string   `yaml:"meta"`
	MarketGroups []string `yaml:"market_groups"`
}

type Material struct {
	TypeID   int64 `yaml:"type_id"`
	Quantity int64 `yaml:"quantity"`
}

type Blueprint struct {
	TypeID          int64      `yaml:"type_id"`
	Name            string     `yaml:"name"`
	ProductTypeID   int64      `yaml:"product_type_id"`
	Activity        string     `yaml:"activity"`
	ProductQuantity int64      `yaml:"product_quantity"`
	Time            int64      `yaml:"time"`
	MaxRuns         int64      `yaml:"max_runs"`
	Materials       []Material `yaml:"materials"`
}

type Structure struct {
	ID          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	TypeID      int64  `yaml:"type_id"`
	SystemID    int64  `yaml:"system_id"`
	MaterialRig int    `yaml:"material_rig"`
	TimeRig     int    `yaml:"time_rig"`
}

type Character struct {
	UserID      string `yaml:"user_id"`
	CharacterID int64  `yaml:"character_id"`
	Name        string `yaml:"name"`
	Alias       bool   `yaml:"alias"`
}

type Container struct {
	LocationID  int64  `yaml:"location_id"`
	StructureID int64  `yaml:"structure_id"`
	UserID      string `yaml:"user_id"`
	Tag         string `yaml:"tag"`
	Name        string `yaml:"name"`
}

type Asset struct {
	LocationID int64 `yaml:"location_id"`
	TypeID     int64 `yaml:"type_id"`
	Quantity   int64 `yaml:"quantity"`
}

// BlueprintAsset follows the game convention: runs -1 marks an original
type BlueprintAsset struct {
	ItemID     int64 `yaml:"item_id"`
	TypeID     int64 `yaml:"type_id"`
	LocationID int64 `yaml:"location_id"`
	Runs       int64 `yaml:"runs"`
	Quantity   int64 `yaml:"quantity"`
	ME         int   `yaml:"me"`
	TE         int   `yaml:"te"`
}

type Job struct {
	JobID            int64 `yaml:"job_id"`
	InstallerID      int64 `yaml:"installer_id"`
	BlueprintItemID  int64 `yaml:"blueprint_item_id"`
	ProductTypeID    int64 `yaml:"product_type_id"`
	Runs             int64 `yaml:"runs"`
	OutputLocationID int64 `yaml:"output_location_id"`
}

type Price struct {
	TypeID   int64   `yaml:"type_id"`
	MaxBuy   float64 `yaml:"max_buy"`
	MinSell  float64 `yaml:"min_sell"`
	Adjusted float64 `yaml:"adjusted"`
}

type CostIndex struct {
	SystemID      int64   `yaml:"system_id"`
	Manufacturing float64 `yaml:"manufacturing"`
	Reaction      float64 `yaml:"reaction"`
}

// Load decodes a dataset
func Load(r io.Reader) (*Dataset, error) {
	var d Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if err == io.EOF {
			return &d, nil
		}
		return nil, shared.NewUserInputError("invalid dataset: %v", err)
	}
	return &d, nil
}

// CatalogWriter stores reference data
type CatalogWriter interface {
	SaveItems(ctx context.Context, items []industry.ItemInfo) error
	SaveBlueprints(ctx context.Context, blueprints []industry.BlueprintSpec) error
}

// StructureWriter stores facilities
type StructureWriter interface {
	Save(ctx context.Context, structure *industry.Structure) error
}

// CharacterWriter stores characters and aliases
type CharacterWriter interface {
	SaveCharacter(ctx context.Context, userID string, characterID int64, name string, alias bool) error
}

// InventoryWriter stores containers and their contents
type InventoryWriter interface {
	SaveContainer(ctx context.Context, container industry.Container) error
	ReplaceAssets(ctx context.Context, locationIDs []int64, assets []industry.Asset) error
	ReplaceBlueprintAssets(ctx context.Context, locationIDs []int64, blueprints []industry.BlueprintAsset) error
}

// JobWriter stores running jobs
type JobWriter interface {
	ReplaceJobs(ctx context.Context, installerIDs []int64, jobs []industry.RunningJob) error
}

// MarketWriter stores prices and cost indexes
type MarketWriter interface {
	SavePrices(ctx context.Context, prices []industry.MarketPrice) error
	SaveCostIndexes(ctx context.Context, indexes []industry.CostIndex) error
}

// Store is every destination a dataset writes to
type Store struct {
	Catalog    CatalogWriter
	Structures StructureWriter
	Characters CharacterWriter
	Inventory  InventoryWriter
	Jobs       JobWriter
	Market     MarketWriter
}

// Summary counts what an import wrote
type Summary struct {
	Items           int
	Blueprints      int
	Structures      int
	Characters      int
	Containers      int
	Assets          int
	BlueprintAssets int
	Jobs            int
	Prices          int
	CostIndexes     int
}

// Import writes every section of d. Assets and blueprints replace the
// previous contents of the locations they name; jobs replace the previous
// jobs of their installers.
func (d *Dataset) Import(ctx context.Context, store Store) (*Summary, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	if len(d.Items) > 0 {
		if err := store.Catalog.SaveItems(ctx, d.items()); err != nil {
			return nil, err
		}
	}
	if len(d.Blueprints) > 0 {
		blueprints, err := d.blueprints()
		if err != nil {
			return nil, err
		}
		if err := store.Catalog.SaveBlueprints(ctx, blueprints); err != nil {
			return nil, err
		}
	}

	for _, s := range d.Structures {
		structure, err := industry.NewStructure(s.ID, s.Name, industry.TypeID(s.TypeID), s.SystemID, s.MaterialRig, s.TimeRig)
		if err != nil {
			return nil, err
		}
		if err := store.Structures.Save(ctx, structure); err != nil {
			return nil, err
		}
	}

	for _, c := range d.Characters {
		if err := store.Characters.SaveCharacter(ctx, c.UserID, c.CharacterID, c.Name, c.Alias); err != nil {
			return nil, err
		}
	}

	for _, c := range d.Containers {
		container := industry.Container{
			LocationID:  c.LocationID,
			StructureID: c.StructureID,
			UserID:      c.UserID,
			Tag:         c.Tag,
			Name:        c.Name,
		}
		if err := store.Inventory.SaveContainer(ctx, container); err != nil {
			return nil, err
		}
	}

	if len(d.Assets) > 0 {
		assets := make([]industry.Asset, 0, len(d.Assets))
		locations := map[int64]struct{}{}
		for _, a := range d.Assets {
			assets = append(assets, industry.Asset{TypeID: industry.TypeID(a.TypeID), LocationID: a.LocationID, Quantity: a.Quantity})
			locations[a.LocationID] = struct{}{}
		}
		if err := store.Inventory.ReplaceAssets(ctx, sortedKeys(locations), assets); err != nil {
			return nil, err
		}
	}

	if len(d.BlueprintAssets) > 0 {
		blueprints := make([]industry.BlueprintAsset, 0, len(d.BlueprintAssets))
		locations := map[int64]struct{}{}
		for _, b := range d.BlueprintAssets {
			blueprints = append(blueprints, industry.BlueprintAsset{
				ItemID:             b.ItemID,
				BlueprintTypeID:    industry.TypeID(b.TypeID),
				LocationID:         b.LocationID,
				Runs:               b.Runs,
				Quantity:           b.Quantity,
				MaterialEfficiency: b.ME,
				TimeEfficiency:     b.TE,
			})
			locations[b.LocationID] = struct{}{}
		}
		if err := store.Inventory.ReplaceBlueprintAssets(ctx, sortedKeys(locations), blueprints); err != nil {
			return nil, err
		}
	}

	if len(d.Jobs) > 0 {
		jobs := make([]industry.RunningJob, 0, len(d.Jobs))
		installers := map[int64]struct{}{}
		for _, j := range d.Jobs {
			jobs = append(jobs, industry.RunningJob{
				JobID:            j.JobID,
				InstallerID:      j.InstallerID,
				BlueprintItemID:  j.BlueprintItemID,
				ProductTypeID:    industry.TypeID(j.ProductTypeID),
				Runs:             j.Runs,
				OutputLocationID: j.OutputLocationID,
			})
			installers[j.InstallerID] = struct{}{}
		}
		if err := store.Jobs.ReplaceJobs(ctx, sortedKeys(installers), jobs); err != nil {
			return nil, err
		}
	}

	if len(d.Prices) > 0 {
		prices := make([]industry.MarketPrice, 0, len(d.Prices))
		for _, p := range d.Prices {
			prices = append(prices, industry.MarketPrice{
				TypeID:        industry.TypeID(p.TypeID),
				MaxBuy:        p.MaxBuy,
				MinSell:       p.MinSell,
				AdjustedPrice: p.Adjusted,
			})
		}
		if err := store.Market.SavePrices(ctx, prices); err != nil {
			return nil, err
		}
	}

	if len(d.CostIndexes) > 0 {
		indexes := make([]industry.CostIndex, 0, len(d.CostIndexes))
		for _, c := range d.CostIndexes {
			indexes = append(indexes, industry.CostIndex{SolarSystemID: c.SystemID, Manufacturing: c.Manufacturing, Reaction: c.Reaction})
		}
		if err := store.Market.SaveCostIndexes(ctx, indexes); err != nil {
			return nil, err
		}
	}

	return &Summary{
		Items:           len(d.Items),
		Blueprints:      len(d.Blueprints),
		Structures:      len(d.Structures),
		Characters:      len(d.Characters),
		Containers:      len(d.Containers),
		Assets:          len(d.Assets),
		BlueprintAssets: len(d.BlueprintAssets),
		Jobs:            len(d.Jobs),
		Prices:          len(d.Prices),
		CostIndexes:     len(d.CostIndexes),
	}, nil
}

func (d *Dataset) validate() error {
	for i, item := range d.Items {
		if item.TypeID <= 0 || item.Name == "" {
			return shared.NewValidationError(fmt.Sprintf("items[%d]", i), "type_id and name are required")
		}
	}
	for i, bp := range d.Blueprints {
		if bp.TypeID <= 0 || bp.ProductTypeID <= 0 {
			return shared.NewValidationError(fmt.Sprintf("blueprints[%d]", i), "type_id and product_type_id are required")
		}
	}
	for i, c := range d.Containers {
		switch c.Tag {
		case industry.TagManufacturing, industry.TagReaction, industry.TagBlueprint:
		default:
			return shared.NewValidationError(fmt.Sprintf("containers[%d].tag", i), "must be manu, reac or bp")
		}
		if c.UserID == "" {
			return shared.NewValidationError(fmt.Sprintf("containers[%d].user_id", i), "required")
		}
	}
	for i, c := range d.Characters {
		if c.UserID == "" || c.CharacterID <= 0 {
			return shared.NewValidationError(fmt.Sprintf("characters[%d]", i), "user_id and character_id are required")
		}
	}
	return nil
}

func (d *Dataset) items() []industry.ItemInfo {
	items := make([]industry.ItemInfo, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, industry.ItemInfo{
			TypeID:       industry.TypeID(item.TypeID),
			Name:         item.Name,
			GroupName:    item.Group,
			CategoryName: item.Category,
			MetaName:     item.Meta,
			MarketGroups: item.MarketGroups,
		})
	}
	return items
}

func (d *Dataset) blueprints() ([]industry.BlueprintSpec, error) {
	specs := make([]industry.BlueprintSpec, 0, len(d.Blueprints))
	for i, bp := range d.Blueprints {
		activity, err := parseActivity(bp.Activity)
		if err != nil {
			return nil, shared.NewValidationError(fmt.Sprintf("blueprints[%d].activity", i), err.Error())
		}
		materials := make([]industry.Material, 0, len(bp.Materials))
		for _, m := range bp.Materials {
			materials = append(materials, industry.Material{TypeID: industry.TypeID(m.TypeID), Quantity: m.Quantity})
		}
		specs = append(specs, industry.BlueprintSpec{
			BlueprintTypeID:    industry.TypeID(bp.TypeID),
			BlueprintName:      bp.Name,
			ProductTypeID:      industry.TypeID(bp.ProductTypeID),
			Activity:           activity,
			Materials:          materials,
			ProductQuantity:    bp.ProductQuantity,
			ProductionTime:     bp.Time,
			MaxProductionLimit: bp.MaxRuns,
		})
	}
	return specs, nil
}

func parseActivity(s string) (industry.ActivityKind, error) {
	switch s {
	case "", "manufacturing", "manu":
		return industry.ActivityManufacturing, nil
	case "reaction", "reac":
		return industry.ActivityReaction, nil
	}
	return 0, fmt.Errorf("unknown activity %q", s)
}

func sortedKeys(set map[int64]struct{}) []int64 {
	keys := make([]int64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
