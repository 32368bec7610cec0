package industry

import "fmt"

// TypeID identifies an item type in the static reference data
type TypeID int64

// RootTypeID marks the synthetic root of a BOM graph. No real item uses 0.
const RootTypeID TypeID = 0

func (t TypeID) String() string {
	if t == RootTypeID {
		return "root"
	}
	return fmt.Sprintf("%d", int64(t))
}

// ActivityKind is the industry activity a blueprint runs
type ActivityKind int

const (
	ActivityManufacturing ActivityKind = 1
	ActivityReaction      ActivityKind = 11
)

func (a ActivityKind) String() string {
	switch a {
	case ActivityManufacturing:
		return "manufacturing"
	case ActivityReaction:
		return "reaction"
	default:
		return fmt.Sprintf("activity(%d)", int(a))
	}
}

// Code is the one-letter activity marker used in work reports
func (a ActivityKind) Code() string {
	if a == ActivityReaction {
		return "R"
	}
	return "M"
}

// IsSupported reports whether the planner can schedule the activity
func (a ActivityKind) IsSupported() bool {
	return a == ActivityManufacturing || a == ActivityReaction
}

// Material is one input line of a blueprint run
type Material struct {
	TypeID   TypeID
	Quantity int64
}

// BlueprintSpec describes how one product is made. Immutable once loaded.
type BlueprintSpec struct {
	BlueprintTypeID    TypeID
	BlueprintName      string
	ProductTypeID      TypeID
	Activity           ActivityKind
	Materials          []Material
	ProductQuantity    int64
	ProductionTime     int64
	MaxProductionLimit int64
}

// ItemInfo is the classification data of an item type
type ItemInfo struct {
	TypeID       TypeID
	Name         string
	GroupName    string
	CategoryName string
	MetaName     string
	// MarketGroups lists the item's market group and all its ancestors by name
	MarketGroups []string
}

// InMarketGroup reports whether name appears in the item's market group chain
func (i ItemInfo) InMarketGroup(name string) bool {
	for _, group := range i.MarketGroups {
		if group == name {
			return true
		}
	}
	return false
}
