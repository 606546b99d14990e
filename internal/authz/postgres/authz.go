package postgres

import (
	"database/sql"
	"errors"

	"github.com/ryz3006/alignzo/internal/authz"
	"gorm.io/gorm"
)

// Repository implements authz.Repository with GORM. Queries only ever see
// rows whose active flags are set on every hop of the join.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) authz.Repository {
	return &Repository{db: db}
}

func (r *Repository) ActiveRoleNames(userID int64) ([]string, error) {
	var names []string
	err := r.db.
		Table("user_roles ur").
		Select("r.name").
		Joins("JOIN roles r ON r.id = ur.role_id AND r.is_active = ?", true).
		Where("ur.user_id = ? AND ur.is_active = ?", userID, true).
		Order("ur.granted_at ASC").
		Scan(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *Repository) HasDirectPermission(userID int64, resource, action string) (bool, error) {
	var count int64
	err := r.db.
		Table("user_permissions up").
		Joins("JOIN permissions p ON p.id = up.permission_id").
		Where("up.user_id = ? AND up.is_active = ? AND p.resource = ? AND p.action = ?",
			userID, true, resource, action).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) HasRolePermission(userID int64, resource, action string) (bool, error) {
	var count int64
	err := r.db.
		Table("user_roles ur").
		Joins("JOIN roles r ON r.id = ur.role_id AND r.is_active = ?", true).
		Joins("JOIN role_permissions rp ON rp.role_id = r.id").
		Joins("JOIN permissions p ON p.id = rp.permission_id").
		Where("ur.user_id = ? AND ur.is_active = ? AND p.resource = ? AND p.action = ?",
			userID, true, resource, action).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) DirectPermissionKeys(userID int64) ([]string, error) {
	var keys []string
	err := r.db.
		Table("user_permissions up").
		Select("p.resource || '.' || p.action").
		Joins("JOIN permissions p ON p.id = up.permission_id").
		Where("up.user_id = ? AND up.is_active = ?", userID, true).
		Scan(&keys).Error
	return keys, err
}

func (r *Repository) RolePermissionKeys(userID int64) ([]string, error) {
	var keys []string
	err := r.db.
		Table("user_roles ur").
		Select("p.resource || '.' || p.action").
		Joins("JOIN roles r ON r.id = ur.role_id AND r.is_active = ?", true).
		Joins("JOIN role_permissions rp ON rp.role_id = r.id").
		Joins("JOIN permissions p ON p.id = rp.permission_id").
		Where("ur.user_id = ? AND ur.is_active = ?", userID, true).
		Scan(&keys).Error
	return keys, err
}

func (r *Repository) CatalogKeys() ([]string, error) {
	var keys []string
	err := r.db.
		Table("permissions").
		Select("resource || '.' || action").
		Scan(&keys).Error
	return keys, err
}

func (r *Repository) CatalogKeysForResource(resource string) ([]string, error) {
	var keys []string
	err := r.db.
		Table("permissions").
		Select("resource || '.' || action").
		Where("resource = ?", resource).
		Scan(&keys).Error
	return keys, err
}

func (r *Repository) AccessLevels(userID int64) ([]string, error) {
	var levels []string
	err := r.db.
		Table("user_access_levels").
		Select("level").
		Where("user_id = ?", userID).
		Scan(&levels).Error
	return levels, err
}

func (r *Repository) OrganizationID(userID int64) (*int64, error) {
	var orgID sql.NullInt64
	err := r.db.
		Table("users").
		Select("organization_id").
		Where("id = ?", userID).
		Row().Scan(&orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !orgID.Valid {
		return nil, nil
	}
	return &orgID.Int64, nil
}

func (r *Repository) TeamIDs(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.
		Table("team_members tm").
		Select("tm.team_id").
		Joins("JOIN teams t ON t.id = tm.team_id AND t.is_active = ?", true).
		Where("tm.user_id = ? AND tm.is_active = ?", userID, true).
		Scan(&ids).Error
	return ids, err
}

func (r *Repository) ProjectIDs(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.
		Table("project_members pm").
		Select("pm.project_id").
		Joins("JOIN projects p ON p.id = pm.project_id AND p.is_active = ?", true).
		Where("pm.user_id = ? AND pm.is_active = ?", userID, true).
		Scan(&ids).Error
	return ids, err
}

func (r *Repository) TeamMemberIDs(teamIDs []int64) ([]int64, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := r.db.
		Table("team_members").
		Distinct("user_id").
		Where("team_id IN ? AND is_active = ?", teamIDs, true).
		Scan(&ids).Error
	return ids, err
}

func (r *Repository) ProjectMemberIDs(projectIDs []int64) ([]int64, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := r.db.
		Table("project_members").
		Distinct("user_id").
		Where("project_id IN ? AND is_active = ?", projectIDs, true).
		Scan(&ids).Error
	return ids, err
}

func (r *Repository) SharesActiveTeam(userID, otherID int64) (bool, error) {
	var count int64
	err := r.db.
		Table("team_members a").
		Joins("JOIN team_members b ON b.team_id = a.team_id AND b.is_active = ?", true).
		Joins("JOIN teams t ON t.id = a.team_id AND t.is_active = ?", true).
		Where("a.user_id = ? AND a.is_active = ? AND b.user_id = ?", userID, true, otherID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) SharesActiveProject(userID, otherID int64) (bool, error) {
	var count int64
	err := r.db.
		Table("project_members a").
		Joins("JOIN project_members b ON b.project_id = a.project_id AND b.is_active = ?", true).
		Joins("JOIN projects p ON p.id = a.project_id AND p.is_active = ?", true).
		Where("a.user_id = ? AND a.is_active = ? AND b.user_id = ?", userID, true, otherID).
		Count(&count).Error
	return count > 0, err
}
