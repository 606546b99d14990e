package authz

// Access levels a user can hold. INDIVIDUAL is implicit and never needs to
// be stored; ORGANIZATION is accepted as a legacy synonym of FULL_ACCESS.
const (
	LevelIndividual   = "INDIVIDUAL"
	LevelTeam         = "TEAM"
	LevelProject      = "PROJECT"
	LevelFullAccess   = "FULL_ACCESS"
	LevelOrganization = "ORGANIZATION"
)

// Roles whose mere possession grants every permission and full scope.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
)

// Resources and actions of the permission catalog.
const (
	ResourceUsers       = "users"
	ResourceTeams       = "teams"
	ResourceProjects    = "projects"
	ResourceWorkLogs    = "work_logs"
	ResourceRoles       = "roles"
	ResourcePermissions = "permissions"

	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionManage = "manage"
)

// ResourceType selects the relation path a scope predicate takes to reach
// organization, team and project.
type ResourceType string

const (
	ResourceTypeUser    ResourceType = "user"
	ResourceTypeTeam    ResourceType = "team"
	ResourceTypeProject ResourceType = "project"
	ResourceTypeWorkLog ResourceType = "work-log"
)

// Scope is a user's resolved visibility at decision time. Individual is
// always true: every user may see themselves. Privileged marks the
// admin-role bypass so downstream code never needs to know role names.
type Scope struct {
	FullAccess bool `json:"full_access"`
	Project    bool `json:"project"`
	Team       bool `json:"team"`
	Individual bool `json:"individual"`
	Privileged bool `json:"-"`
}

// FullScope is the scope privileged roles resolve to.
func FullScope() Scope {
	return Scope{FullAccess: true, Project: true, Team: true, Individual: true, Privileged: true}
}

// ScopeFromLevels derives a scope from a stored access-level set.
// PROJECT subsumes TEAM: a project-scoped viewer must also see teammates.
func ScopeFromLevels(levels []string) Scope {
	s := Scope{Individual: true}
	for _, level := range levels {
		switch level {
		case LevelFullAccess, LevelOrganization:
			s.FullAccess = true
		case LevelProject:
			s.Project = true
		case LevelTeam:
			s.Team = true
		}
	}
	if s.Project {
		s.Team = true
	}
	return s
}

// IsPrivilegedRole reports whether the role name bypasses the catalog.
func IsPrivilegedRole(name string) bool {
	return name == RoleSuperAdmin || name == RoleAdmin
}

// PermissionKey renders the canonical "resource.action" form used by
// permission enumerations.
func PermissionKey(resource, action string) string {
	return resource + "." + action
}
