package services

import (
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// MaterialCategory groups raw materials in the report
type MaterialCategory string

const (
	CategoryMinerals          MaterialCategory = "minerals"
	CategoryPlanetary         MaterialCategory = "planetary"
	CategoryFuelBlocks        MaterialCategory = "fuel_blocks"
	CategoryMoonMaterials     MaterialCategory = "moon_materials"
	CategoryGas               MaterialCategory = "gas"
	CategoryMisc              MaterialCategory = "misc"
	CategoryReactionMaterials MaterialCategory = "reaction_materials"
)

// MaterialCategories is the display order of material sections
var MaterialCategories = []MaterialCategory{
	CategoryMinerals,
	CategoryPlanetary,
	CategoryFuelBlocks,
	CategoryMoonMaterials,
	CategoryGas,
	CategoryMisc,
	CategoryReactionMaterials,
}

// ResolvedReport is the outcome of resolving a plan. It contains no
// timestamps or run ids so that resolving the same inputs twice yields
// equal reports.
type ResolvedReport struct {
	UserID    string                `json:"user_id"`
	PlanName  string                `json:"plan_name"`
	Lines     []industry.DemandLine `json:"lines"`
	Materials []MaterialSection     `json:"materials"`
	Work      []WorkLayer           `json:"work"`
	Workflow  Workflow              `json:"workflow"`
	Logistics Logistics             `json:"logistics"`
	Cost      CostSummary           `json:"cost"`
	Nodes     []*ResolvedNode       `json:"nodes"`
	Edges     []AllocationEdge      `json:"edges"`
}

// MaterialSection is one category of raw materials
type MaterialSection struct {
	Category MaterialCategory `json:"category"`
	Rows     []MaterialRow    `json:"rows"`
}

// MaterialRow is one raw material line
type MaterialRow struct {
	TypeID     industry.TypeID `json:"type_id"`
	Name       string          `json:"name"`
	Missing    int64           `json:"missing"`
	Redundant  int64           `json:"redundant"`
	Total      int64           `json:"total"`
	Stock      int64           `json:"stock"`
	MaxBuy     float64         `json:"max_buy"`
	MinSell    float64         `json:"min_sell"`
	BuyoutCost float64         `json:"buyout_cost"`
	SpreadCost float64         `json:"spread_cost"`
	Detail     string          `json:"detail"`
}

// WorkLayer is one production layer, highest first
type WorkLayer struct {
	Layer int       `json:"layer"`
	Rows  []WorkRow `json:"rows"`
}

// WorkRow is one built item line
type WorkRow struct {
	Kind           string          `json:"kind"`
	TypeID         industry.TypeID `json:"type_id"`
	Name           string          `json:"name"`
	Stock          int64           `json:"stock"`
	Missing        int64           `json:"missing"`
	Total          int64           `json:"total"`
	Running        int64           `json:"running"`
	ActualRuns     int64           `json:"actual_runs"`
	TotalRuns      int64           `json:"total_runs"`
	BlueprintCount int             `json:"blueprint_count"`
	BlueprintRuns  string          `json:"blueprint_runs"`
	Status         string          `json:"status"`
}

// WorkflowRow is one run-count bucket of ready-to-start jobs. Name is only
// set on the first row of each item.
type WorkflowRow struct {
	TypeID industry.TypeID `json:"type_id"`
	Name   string          `json:"name"`
	Runs   int64           `json:"runs"`
	Count  int             `json:"count"`
}

// Workflow lists jobs that can be started now, by activity
type Workflow struct {
	Manufacturing []WorkflowRow `json:"manufacturing"`
	Reaction      []WorkflowRow `json:"reaction"`
}

// StructureQuantity is an amount of one item at one structure
type StructureQuantity struct {
	StructureID   int64           `json:"structure_id"`
	StructureName string          `json:"structure_name"`
	TypeID        industry.TypeID `json:"type_id"`
	Name          string          `json:"name"`
	Quantity      int64           `json:"quantity"`
}

// TransportRow moves stock from one structure to another
type TransportRow struct {
	FromID   int64           `json:"from_id"`
	From     string          `json:"from"`
	ToID     int64           `json:"to_id"`
	To       string          `json:"to"`
	TypeID   industry.TypeID `json:"type_id"`
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
}

// Logistics is the material movement needed to start the available jobs
type Logistics struct {
	Need      []StructureQuantity `json:"need"`
	Supply    []StructureQuantity `json:"supply"`
	Transport []TransportRow      `json:"transport"`
}

// CostSummary totals the plan cost
type CostSummary struct {
	Material float64 `json:"material"`
	EIV      float64 `json:"eiv"`
	Total    float64 `json:"total"`
}
