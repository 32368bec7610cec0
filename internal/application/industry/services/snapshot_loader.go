package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// SnapshotLoader reads everything a resolution needs from inventory, jobs
// and facility records in one pass before the walk starts
type SnapshotLoader struct {
	inventory  industry.InventoryRepository
	jobs       industry.JobRepository
	characters industry.CharacterRepository
	structures industry.StructureRepository
}

// NewSnapshotLoader creates a loader
func NewSnapshotLoader(
	inventory industry.InventoryRepository,
	jobs industry.JobRepository,
	characters industry.CharacterRepository,
	structures industry.StructureRepository,
) *SnapshotLoader {
	return &SnapshotLoader{
		inventory:  inventory,
		jobs:       jobs,
		characters: characters,
		structures: structures,
	}
}

// Load builds the snapshot for plan. extraStructureIDs are facilities the
// plan's structure matcher may allocate in addition to those holding the
// owner's containers.
func (l *SnapshotLoader) Load(ctx context.Context, plan *industry.Plan, extraStructureIDs []int64) (*industry.InventorySnapshot, error) {
	var (
		containers   []industry.Container
		characterIDs []int64
		jobs         []industry.RunningJob
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		containers, err = l.inventory.FindContainers(gctx, plan.UserID)
		if err != nil {
			return fmt.Errorf("failed to load containers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		characterIDs, err = l.characters.FindCharacterIDs(gctx, plan.UserID)
		if err != nil {
			return fmt.Errorf("failed to load characters: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		jobs, err = l.jobs.FindRunningJobs(gctx)
		if err != nil {
			return fmt.Errorf("failed to load running jobs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	locationIDs := make([]int64, 0, len(containers))
	structureSet := make(map[int64]struct{}, len(containers)+len(extraStructureIDs))
	for _, c := range containers {
		locationIDs = append(locationIDs, c.LocationID)
		structureSet[c.StructureID] = struct{}{}
	}
	for _, id := range extraStructureIDs {
		structureSet[id] = struct{}{}
	}
	structureIDs := make([]int64, 0, len(structureSet))
	for id := range structureSet {
		structureIDs = append(structureIDs, id)
	}
	sort.Slice(structureIDs, func(i, j int) bool { return structureIDs[i] < structureIDs[j] })

	var (
		assets     []industry.Asset
		blueprints []industry.BlueprintAsset
		structures []*industry.Structure
	)

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assets, err = l.inventory.FindAssets(gctx, locationIDs)
		if err != nil {
			return fmt.Errorf("failed to load assets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		blueprints, err = l.inventory.FindBlueprintAssets(gctx, locationIDs)
		if err != nil {
			return fmt.Errorf("failed to load blueprints: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		structures, err = l.structures.FindByIDs(gctx, structureIDs)
		if err != nil {
			return fmt.Errorf("failed to load structures: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return industry.NewInventorySnapshot(industry.SnapshotInput{
		UserID:       plan.UserID,
		Containers:   containers,
		Excluded:     plan.ExcludedContainers,
		CharacterIDs: characterIDs,
		Assets:       assets,
		Jobs:         jobs,
		Blueprints:   blueprints,
		Structures:   structures,
	})
}
