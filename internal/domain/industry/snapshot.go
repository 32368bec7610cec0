package industry

import "sort"

// Container tags
const (
	TagManufacturing = "manu"
	TagReaction      = "reac"
	TagBlueprint     = "bp"
)

// Container is a storage location registered by a user
type Container struct {
	LocationID  int64
	StructureID int64
	UserID      string
	Tag         string
	Name        string
}

// IsProduction reports whether the container holds production stock
func (c Container) IsProduction() bool {
	return c.Tag == TagManufacturing || c.Tag == TagReaction
}

// Asset is a stack of items in a location
type Asset struct {
	TypeID     TypeID
	LocationID int64
	Quantity   int64
}

// BlueprintAsset is an owned blueprint. Runs < 0 marks an original,
// Runs > 0 a copy with that many runs left.
type BlueprintAsset struct {
	ItemID             int64
	BlueprintTypeID    TypeID
	LocationID         int64
	Runs               int64
	Quantity           int64
	MaterialEfficiency int
	TimeEfficiency     int
}

func (b BlueprintAsset) IsOriginal() bool { return b.Runs < 0 }
func (b BlueprintAsset) IsCopy() bool     { return b.Runs > 0 }

// OriginalCount is how many originals the record stands for. Stacked
// originals carry a positive quantity, a singleton carries a negative one.
func (b BlueprintAsset) OriginalCount() int64 {
	if b.Quantity < 0 {
		return 1
	}
	return b.Quantity
}

// RunningJob is an industry job in progress
type RunningJob struct {
	JobID            int64
	InstallerID      int64
	BlueprintItemID  int64
	ProductTypeID    TypeID
	Runs             int64
	OutputLocationID int64
}

// SnapshotInput is the raw data an InventorySnapshot is built from
type SnapshotInput struct {
	UserID       string
	Containers   []Container
	Excluded     []int64
	CharacterIDs []int64
	Assets       []Asset
	Jobs         []RunningJob
	Blueprints   []BlueprintAsset
	Structures   []*Structure
}

// InventorySnapshot is the immutable per-resolution view of stock, running
// jobs and owned blueprints
type InventorySnapshot struct {
	UserID string

	activeLocations    map[int64]struct{}
	blueprintLocations map[int64]struct{}
	locationStructure  map[int64]int64
	onHand             map[TypeID]int64
	assets             []Asset
	inFlightRuns       map[TypeID]int64
	lockedBlueprints   map[int64]struct{}
	blueprints         []BlueprintAsset
	structures         map[int64]*Structure
}

// NewInventorySnapshot filters the raw input down to the plan's scope:
// stock in production containers that are not excluded, jobs started by the
// owner's characters that deliver into that scope, and blueprints stored in
// blueprint containers. Blueprints used by any running job are locked.
func NewInventorySnapshot(in SnapshotInput) (*InventorySnapshot, error) {
	s := &InventorySnapshot{
		UserID:             in.UserID,
		activeLocations:    map[int64]struct{}{},
		blueprintLocations: map[int64]struct{}{},
		locationStructure:  map[int64]int64{},
		onHand:             map[TypeID]int64{},
		inFlightRuns:       map[TypeID]int64{},
		lockedBlueprints:   map[int64]struct{}{},
		structures:         map[int64]*Structure{},
	}

	excluded := make(map[int64]struct{}, len(in.Excluded))
	for _, id := range in.Excluded {
		excluded[id] = struct{}{}
	}

	for _, c := range in.Containers {
		s.locationStructure[c.LocationID] = c.StructureID
		if c.Tag == TagBlueprint {
			s.blueprintLocations[c.LocationID] = struct{}{}
		}
		if _, hidden := excluded[c.LocationID]; c.IsProduction() && !hidden {
			s.activeLocations[c.LocationID] = struct{}{}
		}
	}
	if len(s.activeLocations) == 0 {
		return nil, &ErrNoProductionContainers{UserID: in.UserID}
	}

	for _, a := range in.Assets {
		if _, ok := s.activeLocations[a.LocationID]; !ok {
			continue
		}
		s.onHand[a.TypeID] += a.Quantity
		s.assets = append(s.assets, a)
	}

	owners := make(map[int64]struct{}, len(in.CharacterIDs))
	for _, id := range in.CharacterIDs {
		owners[id] = struct{}{}
	}
	for _, job := range in.Jobs {
		s.lockedBlueprints[job.BlueprintItemID] = struct{}{}
		if _, ok := owners[job.InstallerID]; !ok {
			continue
		}
		if _, ok := s.activeLocations[job.OutputLocationID]; !ok {
			continue
		}
		s.inFlightRuns[job.ProductTypeID] += job.Runs
	}

	for _, bp := range in.Blueprints {
		if _, ok := s.blueprintLocations[bp.LocationID]; ok {
			s.blueprints = append(s.blueprints, bp)
		}
	}
	sort.SliceStable(s.blueprints, func(i, j int) bool { return s.blueprints[i].ItemID < s.blueprints[j].ItemID })

	for _, st := range in.Structures {
		s.structures[st.ID] = st
	}

	return s, nil
}

// OnHand is the stock of typeID in scope
func (s *InventorySnapshot) OnHand(typeID TypeID) int64 {
	return s.onHand[typeID]
}

// OnHandCopy returns a mutable copy of the stock map
func (s *InventorySnapshot) OnHandCopy() map[TypeID]int64 {
	out := make(map[TypeID]int64, len(s.onHand))
	for k, v := range s.onHand {
		out[k] = v
	}
	return out
}

// InFlightRuns is the number of runs of product currently being produced
func (s *InventorySnapshot) InFlightRuns(product TypeID) int64 {
	return s.inFlightRuns[product]
}

// IsLocked reports whether a running job uses the blueprint item
func (s *InventorySnapshot) IsLocked(itemID int64) bool {
	_, ok := s.lockedBlueprints[itemID]
	return ok
}

// IsActive reports whether the location is part of the plan's stock scope
func (s *InventorySnapshot) IsActive(locationID int64) bool {
	_, ok := s.activeLocations[locationID]
	return ok
}

// Assets lists stock rows in scope
func (s *InventorySnapshot) Assets() []Asset {
	return s.assets
}

// StructureOf returns the structure a location belongs to
func (s *InventorySnapshot) StructureOf(locationID int64) (int64, bool) {
	id, ok := s.locationStructure[locationID]
	return id, ok
}

// Structure returns a structure referenced by the owner's containers
func (s *InventorySnapshot) Structure(id int64) (*Structure, bool) {
	st, ok := s.structures[id]
	return st, ok
}

// AvailableBlueprints returns unlocked blueprints of blueprintType stored in
// blueprint containers of structureID
func (s *InventorySnapshot) AvailableBlueprints(blueprintType TypeID, structureID int64) []BlueprintAsset {
	var out []BlueprintAsset
	for _, bp := range s.blueprints {
		if bp.BlueprintTypeID != blueprintType || s.IsLocked(bp.ItemID) {
			continue
		}
		if st, ok := s.locationStructure[bp.LocationID]; !ok || st != structureID {
			continue
		}
		out = append(out, bp)
	}
	return out
}
