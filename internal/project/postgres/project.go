package postgres

import (
	"strings"

	"gorm.io/gorm"

	"github.com/ryz3006/alignzo/internal/authz"
	"github.com/ryz3006/alignzo/internal/project"
)

// ProjectRepository implements the project.Repository interface using GORM
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.Repository {
	return &ProjectRepository{db: db}
}

// List returns active projects inside the scope predicate
func (r *ProjectRepository) List(pred authz.Predicate, params project.ListParams) ([]*project.Project, error) {
	base := pred.Apply(r.db.Model(&project.Project{})).
		Where("is_active = ?", true)

	if params.Search != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}
	if params.Status != "" {
		base = base.Where("status = ?", params.Status)
	}

	var projects []*project.Project
	err := base.Order("name ASC").Find(&projects).Error
	return projects, err
}

// GetByID returns one in-scope project with its active roster. Rows the
// predicate excludes read as not found.
func (r *ProjectRepository) GetByID(pred authz.Predicate, id int64) (*project.ProjectDetail, error) {
	var p project.Project
	err := pred.Apply(r.db.Model(&project.Project{})).
		Where("id = ? AND is_active = ?", id, true).
		First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, project.ErrProjectNotFound
		}
		return nil, err
	}

	var members []project.Member
	err = r.db.Table("project_members pm").
		Select("pm.user_id, u.name, u.email, pm.role, pm.created_at AS joined_at").
		Joins("JOIN users u ON u.id = pm.user_id AND u.is_active = ?", true).
		Where("pm.project_id = ? AND pm.is_active = ?", id, true).
		Order("u.name ASC").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}

	return &project.ProjectDetail{Project: p, Members: members}, nil
}
