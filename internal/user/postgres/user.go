package postgres

import (
	"strings"

	"gorm.io/gorm"

	"github.com/ryz3006/alignzo/internal/authz"
	"github.com/ryz3006/alignzo/internal/user"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

// List applies the scope predicate first, then the business filters, so
// search can never widen visibility.
func (r *UserRepository) List(pred authz.Predicate, params user.SearchParams) ([]*user.User, int64, error) {
	base := pred.Apply(r.db.Model(&user.User{})).Where("is_active = ?", true)

	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		base = base.Where(
			r.db.Session(&gorm.Session{NewDB: true}).
				Where("LOWER(name) LIKE ?", term).
				Or("LOWER(email) LIKE ?", term),
		)
	}

	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*user.User
	err := base.
		Order("name ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// GetByID retrieves an active user by ID
func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
