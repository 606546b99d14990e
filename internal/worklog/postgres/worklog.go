package postgres

import (
	"strings"

	"gorm.io/gorm"

	"github.com/ryz3006/alignzo/internal/authz"
	worklogDatamodel "github.com/ryz3006/alignzo/internal/core/datamodel/worklog"
	"github.com/ryz3006/alignzo/internal/worklog"
)

// WorkLogRepository implements the worklog.Repository interface using GORM
type WorkLogRepository struct {
	db *gorm.DB
}

func NewWorkLogRepository(db *gorm.DB) worklog.Repository {
	return &WorkLogRepository{db: db}
}

// Create saves a new work log
func (r *WorkLogRepository) Create(w *worklog.WorkLog) error {
	dm := worklog.ToDataModel(w)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	w.ID = dm.ID
	return nil
}

// GetByID retrieves a work log by its ID
func (r *WorkLogRepository) GetByID(id int64) (*worklog.WorkLog, error) {
	var dm worklogDatamodel.WorkLog
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, worklog.ErrWorkLogNotFound
		}
		return nil, err
	}
	return worklog.FromDataModel(&dm), nil
}

// List applies the scope predicate first, then the business filters, so
// filters narrow the scoped set and never widen it.
func (r *WorkLogRepository) List(pred authz.Predicate, params worklog.ListParams) ([]*worklog.WorkLog, int64, error) {
	base := pred.Apply(r.db.Model(&worklogDatamodel.WorkLog{}))

	if params.ProjectID > 0 {
		base = base.Where("project_id = ?", params.ProjectID)
	}
	if !params.From.IsZero() {
		base = base.Where("log_date >= ?", params.From)
	}
	if !params.To.IsZero() {
		base = base.Where("log_date <= ?", params.To)
	}
	if params.Search != "" {
		base = base.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}

	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*worklogDatamodel.WorkLog
	err := base.
		Order("log_date DESC, id DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return worklog.FromDataModelSlice(rows), total, nil
}

// Update saves the modified fields of a work log
func (r *WorkLogRepository) Update(w *worklog.WorkLog) error {
	return r.db.Model(&worklogDatamodel.WorkLog{}).
		Where("id = ?", w.ID).
		Updates(map[string]interface{}{
			"description": w.Description,
			"minutes":     w.Minutes,
			"log_date":    w.LogDate,
		}).Error
}

// Delete removes a work log
func (r *WorkLogRepository) Delete(id int64) error {
	return r.db.Delete(&worklogDatamodel.WorkLog{}, id).Error
}

// ProjectInScope reports whether the project is visible under the given
// project scope predicate.
func (r *WorkLogRepository) ProjectInScope(pred authz.Predicate, projectID int64) (bool, error) {
	var count int64
	err := pred.Apply(r.db.Table("projects")).
		Where("id = ? AND is_active = ?", projectID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
