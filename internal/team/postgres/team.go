package postgres

import (
	"strings"

	"gorm.io/gorm"

	"github.com/ryz3006/alignzo/internal/authz"
	"github.com/ryz3006/alignzo/internal/team"
)

// TeamRepository implements the team.Repository interface using GORM
type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) team.Repository {
	return &TeamRepository{db: db}
}

// List returns active teams inside the scope predicate
func (r *TeamRepository) List(pred authz.Predicate, search string) ([]*team.Team, error) {
	base := pred.Apply(r.db.Model(&team.Team{})).
		Where("is_active = ?", true)

	if search != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var teams []*team.Team
	err := base.Order("name ASC").Find(&teams).Error
	return teams, err
}

// GetByID returns one in-scope team with its active roster. Rows the
// predicate excludes read as not found.
func (r *TeamRepository) GetByID(pred authz.Predicate, id int64) (*team.TeamDetail, error) {
	var t team.Team
	err := pred.Apply(r.db.Model(&team.Team{})).
		Where("id = ? AND is_active = ?", id, true).
		First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, team.ErrTeamNotFound
		}
		return nil, err
	}

	var members []team.Member
	err = r.db.Table("team_members tm").
		Select("tm.user_id, u.name, u.email, tm.role, tm.created_at AS joined_at").
		Joins("JOIN users u ON u.id = tm.user_id AND u.is_active = ?", true).
		Where("tm.team_id = ? AND tm.is_active = ?", id, true).
		Order("u.name ASC").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}

	return &team.TeamDetail{Team: t, Members: members}, nil
}
