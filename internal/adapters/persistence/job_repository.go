package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// GormJobRepository stores running industry jobs
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GORM job repository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

var _ industry.JobRepository = (*GormJobRepository)(nil)

// FindRunningJobs retrieves every running job
func (r *GormJobRepository) FindRunningJobs(ctx context.Context) ([]industry.RunningJob, error) {
	var models []IndustryJobModel
	result := r.db.WithContext(ctx).Order("job_id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find running jobs: %w", result.Error)
	}

	jobs := make([]industry.RunningJob, 0, len(models))
	for _, m := range models {
		jobs = append(jobs, industry.RunningJob{
			JobID:            m.JobID,
			InstallerID:      m.InstallerID,
			BlueprintItemID:  m.BlueprintItemID,
			ProductTypeID:    industry.TypeID(m.ProductTypeID),
			Runs:             m.Runs,
			OutputLocationID: m.OutputLocationID,
		})
	}
	return jobs, nil
}

// ReplaceJobs swaps the running jobs of installerIDs, finished jobs drop out
func (r *GormJobRepository) ReplaceJobs(ctx context.Context, installerIDs []int64, jobs []industry.RunningJob) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(installerIDs) > 0 {
			if err := tx.Where("installer_id IN ?", installerIDs).Delete(&IndustryJobModel{}).Error; err != nil {
				return fmt.Errorf("failed to clear jobs: %w", err)
			}
		}
		if len(jobs) == 0 {
			return nil
		}
		models := make([]IndustryJobModel, 0, len(jobs))
		for _, j := range jobs {
			models = append(models, IndustryJobModel{
				JobID:            j.JobID,
				InstallerID:      j.InstallerID,
				BlueprintItemID:  j.BlueprintItemID,
				ProductTypeID:    int64(j.ProductTypeID),
				Runs:             j.Runs,
				OutputLocationID: j.OutputLocationID,
			})
		}
		if err := tx.Create(&models).Error; err != nil {
			return fmt.Errorf("failed to save jobs: %w", err)
		}
		return nil
	})
}
