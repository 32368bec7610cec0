package industry

import "fmt"

// Well-known Upwell structure type ids
const (
	StructureRaitaru TypeID = 35825
	StructureAzbel   TypeID = 35826
	StructureSotiyo  TypeID = 35827
	StructureAthanor TypeID = 35835
	StructureTatara  TypeID = 35836
)

// MaxRigLevel is the highest supported rig tier (T2)
const MaxRigLevel = 2

// Structure is an industry facility
type Structure struct {
	ID            int64
	Name          string
	TypeID        TypeID
	SolarSystemID int64
	OwnerID       int64
	MaterialRig   int
	TimeRig       int
}

// NewStructure validates rig levels
func NewStructure(id int64, name string, typeID TypeID, solarSystemID int64, materialRig, timeRig int) (*Structure, error) {
	s := &Structure{ID: id, Name: name, TypeID: typeID, SolarSystemID: solarSystemID}
	if err := s.SetRigs(materialRig, timeRig); err != nil {
		return nil, err
	}
	return s, nil
}

// SetRigs changes the rig levels, each must be 0, 1 or 2
func (s *Structure) SetRigs(materialRig, timeRig int) error {
	if materialRig < 0 || materialRig > MaxRigLevel {
		return &ErrInvalidRigLevel{Kind: "material", Level: materialRig}
	}
	if timeRig < 0 || timeRig > MaxRigLevel {
		return &ErrInvalidRigLevel{Kind: "time", Level: timeRig}
	}
	s.MaterialRig = materialRig
	s.TimeRig = timeRig
	return nil
}

// Bonus returns the structure's hull bonuses
func (s *Structure) Bonus() StructureBonus {
	if bonus, ok := structureBonuses[s.TypeID]; ok {
		return bonus
	}
	return StructureBonus{MaterialEff: 1, TimeEff: 1}
}

// RigMaterialEff is the material multiplier of the installed rig
func (s *Structure) RigMaterialEff() float64 {
	return rigMaterialEff[clampRig(s.MaterialRig)]
}

// RigTimeEff is the time multiplier of the installed rig
func (s *Structure) RigTimeEff() float64 {
	return rigTimeEff[clampRig(s.TimeRig)]
}

func (s *Structure) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("structure %d", s.ID)
}

func clampRig(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxRigLevel {
		return MaxRigLevel
	}
	return level
}
