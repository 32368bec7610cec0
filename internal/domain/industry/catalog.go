package industry

import "sort"

// ExcludedBlueprintTypeID is a test record in the reference data whose
// product line would otherwise shadow the real blueprint of its product.
const ExcludedBlueprintTypeID TypeID = 45732

const (
	factionMetaName    = "Faction"
	shipCategoryName   = "Ship"
	defaultProductQty  = 1
	factionShipMaxRuns = 1
)

// Catalog is the read-only blueprint and item lookup. It is built once from
// reference data and shared by every resolution; all lookups are map reads.
type Catalog struct {
	items      map[TypeID]ItemInfo
	itemByName map[string]TypeID
	byProduct  map[TypeID]*BlueprintSpec
	byName     map[string]*BlueprintSpec
	productQty map[TypeID]int64
}

// NewCatalog indexes items and blueprints. When several blueprints produce
// the same product the lowest blueprint type id wins, with
// ExcludedBlueprintTypeID only used when nothing else produces the item.
func NewCatalog(items []ItemInfo, blueprints []BlueprintSpec) *Catalog {
	c := &Catalog{
		items:      make(map[TypeID]ItemInfo, len(items)),
		itemByName: make(map[string]TypeID, len(items)),
		byProduct:  make(map[TypeID]*BlueprintSpec, len(blueprints)),
		byName:     make(map[string]*BlueprintSpec, len(blueprints)),
		productQty: make(map[TypeID]int64, len(blueprints)),
	}

	for _, item := range items {
		c.items[item.TypeID] = item
		c.itemByName[item.Name] = item.TypeID
	}

	sorted := make([]BlueprintSpec, len(blueprints))
	copy(sorted, blueprints)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BlueprintTypeID < sorted[j].BlueprintTypeID
	})

	for i := range sorted {
		spec := sorted[i]
		if !spec.Activity.IsSupported() {
			continue
		}
		spec.Materials = sortedMaterials(spec.Materials)
		stored := &spec

		if existing, ok := c.byProduct[spec.ProductTypeID]; !ok || existing.BlueprintTypeID == ExcludedBlueprintTypeID {
			c.byProduct[spec.ProductTypeID] = stored
		}
		if spec.BlueprintName != "" {
			c.byName[spec.BlueprintName] = stored
		}
		if spec.BlueprintTypeID != ExcludedBlueprintTypeID {
			if _, ok := c.productQty[spec.ProductTypeID]; !ok && spec.ProductQuantity > 0 {
				c.productQty[spec.ProductTypeID] = spec.ProductQuantity
			}
		}
	}

	return c
}

func sortedMaterials(materials []Material) []Material {
	out := make([]Material, len(materials))
	copy(out, materials)
	sort.Slice(out, func(i, j int) bool { return out[i].TypeID < out[j].TypeID })
	return out
}

// Blueprint returns the blueprint producing product
func (c *Catalog) Blueprint(product TypeID) (*BlueprintSpec, bool) {
	spec, ok := c.byProduct[product]
	return spec, ok
}

// BlueprintByName finds a blueprint by its own name, e.g. "Rifter Blueprint"
func (c *Catalog) BlueprintByName(name string) (*BlueprintSpec, bool) {
	spec, ok := c.byName[name]
	return spec, ok
}

// HasBlueprint reports whether product can be built
func (c *Catalog) HasBlueprint(product TypeID) bool {
	_, ok := c.byProduct[product]
	return ok
}

// MaterialsFor returns the per-run materials of product's blueprint
func (c *Catalog) MaterialsFor(product TypeID) ([]Material, bool) {
	spec, ok := c.byProduct[product]
	if !ok {
		return nil, false
	}
	return spec.Materials, true
}

// ProductQuantity is the output of one run, 1 when unknown
func (c *Catalog) ProductQuantity(product TypeID) int64 {
	if qty, ok := c.productQty[product]; ok {
		return qty
	}
	return defaultProductQty
}

// ProductionTime is the duration of one run in seconds, 0 when unknown
func (c *Catalog) ProductionTime(product TypeID) int64 {
	if spec, ok := c.byProduct[product]; ok {
		return spec.ProductionTime
	}
	return 0
}

// Activity returns the activity that builds product
func (c *Catalog) Activity(product TypeID) (ActivityKind, bool) {
	spec, ok := c.byProduct[product]
	if !ok {
		return 0, false
	}
	return spec.Activity, true
}

// MaxParallelRuns is the maximum run count of one job for product.
// Faction ships are limited to a single run.
func (c *Catalog) MaxParallelRuns(product TypeID) int64 {
	if item, ok := c.items[product]; ok && item.MetaName == factionMetaName && item.CategoryName == shipCategoryName {
		return factionShipMaxRuns
	}
	if spec, ok := c.byProduct[product]; ok {
		return spec.MaxProductionLimit
	}
	return 0
}

// Item returns the classification data of typeID
func (c *Catalog) Item(typeID TypeID) (ItemInfo, bool) {
	item, ok := c.items[typeID]
	return item, ok
}

// ItemByName resolves an exact item name
func (c *Catalog) ItemByName(name string) (ItemInfo, bool) {
	id, ok := c.itemByName[name]
	if !ok {
		return ItemInfo{}, false
	}
	return c.items[id], true
}

// Name returns the item name or the numeric id when unknown
func (c *Catalog) Name(typeID TypeID) string {
	if item, ok := c.items[typeID]; ok {
		return item.Name
	}
	return typeID.String()
}

// BlueprintName returns the name of the blueprint that builds product
func (c *Catalog) BlueprintName(product TypeID) string {
	if spec, ok := c.byProduct[product]; ok {
		return spec.BlueprintName
	}
	return ""
}

// Size returns the number of indexed items and blueprints
func (c *Catalog) Size() (items, blueprints int) {
	return len(c.items), len(c.byProduct)
}
