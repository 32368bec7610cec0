package commands

import (
	"context"
	"fmt"

	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// SaveStructureCommand registers or replaces a facility
type SaveStructureCommand struct {
	ID            int64
	Name          string
	TypeID        int64
	SolarSystemID int64
	MaterialRig   int
	TimeRig       int
}

// StructureResponse carries a structure after a change
type StructureResponse struct {
	Structure *industry.Structure
}

// SaveStructureHandler handles the SaveStructure command
type SaveStructureHandler struct {
	structures industry.StructureRepository
	reports    ReportInvalidator
}

// NewSaveStructureHandler creates a new SaveStructureHandler
func NewSaveStructureHandler(structures industry.StructureRepository, reports ReportInvalidator) *SaveStructureHandler {
	return &SaveStructureHandler{structures: structures, reports: reports}
}

// Handle executes the SaveStructure command
func (h *SaveStructureHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SaveStructureCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SaveStructureCommand")
	}
	if cmd.ID <= 0 {
		return nil, shared.NewValidationError("id", "must be positive")
	}

	structure, err := industry.NewStructure(cmd.ID, cmd.Name, industry.TypeID(cmd.TypeID), cmd.SolarSystemID, cmd.MaterialRig, cmd.TimeRig)
	if err != nil {
		return nil, err
	}
	if err := h.structures.Save(ctx, structure); err != nil {
		return nil, fmt.Errorf("failed to save structure: %w", err)
	}
	h.reports.Clear()
	return &StructureResponse{Structure: structure}, nil
}

// SetStructureRigsCommand changes the rig levels of a known facility
type SetStructureRigsCommand struct {
	StructureID int64
	MaterialRig int
	TimeRig     int
}

// SetStructureRigsHandler handles the SetStructureRigs command
type SetStructureRigsHandler struct {
	structures industry.StructureRepository
	reports    ReportInvalidator
}

// NewSetStructureRigsHandler creates a new SetStructureRigsHandler
func NewSetStructureRigsHandler(structures industry.StructureRepository, reports ReportInvalidator) *SetStructureRigsHandler {
	return &SetStructureRigsHandler{structures: structures, reports: reports}
}

// Handle executes the SetStructureRigs command
func (h *SetStructureRigsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SetStructureRigsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SetStructureRigsCommand")
	}

	structure, err := h.structures.FindByID(ctx, cmd.StructureID)
	if err != nil {
		return nil, err
	}
	if err := structure.SetRigs(cmd.MaterialRig, cmd.TimeRig); err != nil {
		return nil, err
	}
	if err := h.structures.Save(ctx, structure); err != nil {
		return nil, fmt.Errorf("failed to save structure: %w", err)
	}

	// structures are shared between users, every cached report may be stale
	h.reports.Clear()
	return &StructureResponse{Structure: structure}, nil
}
