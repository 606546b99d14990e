package postgres

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ryz3006/alignzo/internal/authz"
	rbacDatamodel "github.com/ryz3006/alignzo/internal/core/datamodel/rbac"
	"github.com/ryz3006/alignzo/internal/role"
)

// RoleRepository implements the role.Repository interface using GORM
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.Repository {
	return &RoleRepository{db: db}
}

func toView(r *rbacDatamodel.Role) *role.Role {
	return &role.Role{
		ID:          r.ID,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		IsSystem:    r.IsSystem,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ListRoles returns every role ordered by name
func (r *RoleRepository) ListRoles() ([]*role.Role, error) {
	var rows []*rbacDatamodel.Role
	if err := r.db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*role.Role, len(rows))
	for i, row := range rows {
		out[i] = toView(row)
	}
	return out, nil
}

// GetRole returns one role with its permission keys
func (r *RoleRepository) GetRole(id int64) (*role.RoleDetail, error) {
	var row rbacDatamodel.Role
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, role.ErrRoleNotFound
		}
		return nil, err
	}

	var keys []string
	err = r.db.Table("role_permissions rp").
		Select("p.resource || '.' || p.action").
		Joins("JOIN permissions p ON p.id = rp.permission_id").
		Where("rp.role_id = ?", id).
		Order("p.resource, p.action").
		Scan(&keys).Error
	if err != nil {
		return nil, err
	}

	return &role.RoleDetail{Role: *toView(&row), Permissions: keys}, nil
}

// CreateRole inserts the role and attaches the named catalog permissions
// in one transaction
func (r *RoleRepository) CreateRole(v *role.Role, permissionKeys []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		row := rbacDatamodel.Role{
			Name:        v.Name,
			DisplayName: v.DisplayName,
			IsSystem:    v.IsSystem,
			IsActive:    v.IsActive,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		v.ID = row.ID
		v.CreatedAt = row.CreatedAt
		v.UpdatedAt = row.UpdatedAt

		return attachPermissions(tx, row.ID, permissionKeys)
	})
}

// UpdateRole saves role fields and, when a key set is given, replaces
// the attached permissions
func (r *RoleRepository) UpdateRole(v *role.Role, permissionKeys *[]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&rbacDatamodel.Role{}).
			Where("id = ?", v.ID).
			Updates(map[string]interface{}{
				"display_name": v.DisplayName,
				"is_active":    v.IsActive,
				"updated_at":   time.Now(),
			}).Error
		if err != nil {
			return err
		}

		if permissionKeys == nil {
			return nil
		}

		if err := tx.Where("role_id = ?", v.ID).Delete(&rbacDatamodel.RolePermission{}).Error; err != nil {
			return err
		}
		return attachPermissions(tx, v.ID, *permissionKeys)
	})
}

// DeleteRole removes the role, its permission attachments, and its grants
func (r *RoleRepository) DeleteRole(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&rbacDatamodel.RolePermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&rbacDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&rbacDatamodel.Role{}, id).Error
	})
}

// ListPermissions returns the whole catalog ordered by key
func (r *RoleRepository) ListPermissions() ([]*role.Permission, error) {
	var rows []*rbacDatamodel.Permission
	if err := r.db.Order("resource, action").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*role.Permission, len(rows))
	for i, p := range rows {
		out[i] = &role.Permission{
			ID:          p.ID,
			Resource:    p.Resource,
			Action:      p.Action,
			Key:         authz.PermissionKey(p.Resource, p.Action),
			DisplayName: p.DisplayName,
			Description: p.Description,
			IsSystem:    p.IsSystem,
		}
	}
	return out, nil
}

// MissingPermissionKeys returns the keys with no catalog entry
func (r *RoleRepository) MissingPermissionKeys(keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	var known []string
	err := r.db.Table("permissions").
		Select("resource || '.' || action").
		Where("resource || '.' || action IN ?", keys).
		Scan(&known).Error
	if err != nil {
		return nil, err
	}

	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[k] = true
	}

	var missing []string
	for _, k := range keys {
		if !knownSet[k] {
			missing = append(missing, k)
		}
	}
	return missing, nil
}

// ListUserRoles returns a user's active grants, oldest first
func (r *RoleRepository) ListUserRoles(userID int64) ([]*role.Grant, error) {
	var grants []*role.Grant
	err := r.db.Table("user_roles ur").
		Select("ur.role_id, r.name AS role_name, ur.granted_by, ur.granted_at").
		Joins("JOIN roles r ON r.id = ur.role_id AND r.is_active = ?", true).
		Where("ur.user_id = ? AND ur.is_active = ?", userID, true).
		Order("ur.granted_at ASC").
		Scan(&grants).Error
	return grants, err
}

// AssignRole grants the role, reactivating a previously revoked grant
func (r *RoleRepository) AssignRole(userID, roleID int64, grantedBy int64) error {
	row := rbacDatamodel.UserRole{
		UserID:    userID,
		RoleID:    roleID,
		IsActive:  true,
		GrantedBy: &grantedBy,
		GrantedAt: time.Now(),
	}

	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "role_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_active":  true,
			"granted_by": grantedBy,
			"granted_at": time.Now(),
		}),
	}).Create(&row).Error
}

// RevokeRole deactivates the grant; the row stays for audit
func (r *RoleRepository) RevokeRole(userID, roleID int64) error {
	return r.db.Model(&rbacDatamodel.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Update("is_active", false).Error
}

// UserExists reports whether an active user exists
func (r *RoleRepository) UserExists(userID int64) (bool, error) {
	var count int64
	err := r.db.Table("users").
		Where("id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReplaceAccessLevels swaps the user's stored level set in one
// transaction. INDIVIDUAL is implicit and never stored.
func (r *RoleRepository) ReplaceAccessLevels(userID int64, levels []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&rbacDatamodel.UserAccessLevel{}).Error; err != nil {
			return err
		}

		for _, level := range levels {
			if level == authz.LevelIndividual {
				continue
			}
			row := rbacDatamodel.UserAccessLevel{UserID: userID, Level: level}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func attachPermissions(tx *gorm.DB, roleID int64, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	var permIDs []int64
	err := tx.Table("permissions").
		Select("id").
		Where("resource || '.' || action IN ?", keys).
		Scan(&permIDs).Error
	if err != nil {
		return err
	}

	for _, pid := range permIDs {
		row := rbacDatamodel.RolePermission{RoleID: roleID, PermissionID: pid}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
