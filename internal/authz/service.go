package authz

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Repository answers the membership, role and catalog reads a decision
// needs. Every method reads live state; failures must surface as errors so
// the service never interprets them as an access decision.
type Repository interface {
	ActiveRoleNames(userID int64) ([]string, error)
	HasDirectPermission(userID int64, resource, action string) (bool, error)
	HasRolePermission(userID int64, resource, action string) (bool, error)
	DirectPermissionKeys(userID int64) ([]string, error)
	RolePermissionKeys(userID int64) ([]string, error)
	CatalogKeys() ([]string, error)
	CatalogKeysForResource(resource string) ([]string, error)
	AccessLevels(userID int64) ([]string, error)
	OrganizationID(userID int64) (*int64, error)
	TeamIDs(userID int64) ([]int64, error)
	ProjectIDs(userID int64) ([]int64, error)
	TeamMemberIDs(teamIDs []int64) ([]int64, error)
	ProjectMemberIDs(projectIDs []int64) ([]int64, error)
	SharesActiveTeam(userID, otherID int64) (bool, error)
	SharesActiveProject(userID, otherID int64) (bool, error)
}

// Service is the authorization engine: permission checks, scope resolution,
// scope predicates and record-level accessibility. It is stateless; every
// call derives a fresh answer from the repository.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// isPrivileged reports whether any of the user's active role assignments
// names an active privileged role.
func (s *Service) isPrivileged(userID int64) (bool, error) {
	roles, err := s.repo.ActiveRoleNames(userID)
	if err != nil {
		return false, fmt.Errorf("active roles lookup: %w", err)
	}
	for _, name := range roles {
		if IsPrivilegedRole(name) {
			return true, nil
		}
	}
	return false, nil
}

// HasPermission reports whether the user may perform action on resource.
// Privileged roles bypass the catalog; otherwise a direct grant or any
// assigned role suffices (the two paths are ORed, permissions are additive).
func (s *Service) HasPermission(userID int64, resource, action string) (bool, error) {
	privileged, err := s.isPrivileged(userID)
	if err != nil {
		return false, err
	}
	if privileged {
		return true, nil
	}

	ok, err := s.repo.HasDirectPermission(userID, resource, action)
	if err != nil {
		return false, fmt.Errorf("direct permission lookup: %w", err)
	}
	if ok {
		return true, nil
	}

	ok, err = s.repo.HasRolePermission(userID, resource, action)
	if err != nil {
		return false, fmt.Errorf("role permission lookup: %w", err)
	}
	return ok, nil
}

// ListPermissions enumerates the user's effective permissions as
// "resource.action" keys. Privileged users enumerate the whole catalog.
func (s *Service) ListPermissions(userID int64) ([]string, error) {
	privileged, err := s.isPrivileged(userID)
	if err != nil {
		return nil, err
	}
	if privileged {
		keys, err := s.repo.CatalogKeys()
		if err != nil {
			return nil, fmt.Errorf("catalog enumeration: %w", err)
		}
		return dedupe(keys), nil
	}

	direct, err := s.repo.DirectPermissionKeys(userID)
	if err != nil {
		return nil, fmt.Errorf("direct permission enumeration: %w", err)
	}
	viaRoles, err := s.repo.RolePermissionKeys(userID)
	if err != nil {
		return nil, fmt.Errorf("role permission enumeration: %w", err)
	}
	return dedupe(append(direct, viaRoles...)), nil
}

// ListPermissionsForResource is ListPermissions narrowed to one resource.
func (s *Service) ListPermissionsForResource(userID int64, resource string) ([]string, error) {
	privileged, err := s.isPrivileged(userID)
	if err != nil {
		return nil, err
	}
	if privileged {
		keys, err := s.repo.CatalogKeysForResource(resource)
		if err != nil {
			return nil, fmt.Errorf("catalog enumeration: %w", err)
		}
		return dedupe(keys), nil
	}

	all, err := s.ListPermissions(userID)
	if err != nil {
		return nil, err
	}
	prefix := resource + "."
	var keys []string
	for _, key := range all {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// ResolveScope derives the user's effective visibility. Privileged roles
// short-circuit to full scope; otherwise the stored access-level set is
// folded into the FULL_ACCESS > PROJECT > TEAM > INDIVIDUAL hierarchy.
func (s *Service) ResolveScope(userID int64) (Scope, error) {
	privileged, err := s.isPrivileged(userID)
	if err != nil {
		return Scope{}, err
	}
	if privileged {
		return FullScope(), nil
	}

	levels, err := s.repo.AccessLevels(userID)
	if err != nil {
		return Scope{}, fmt.Errorf("access levels lookup: %w", err)
	}
	return ScopeFromLevels(levels), nil
}

// BuildScopeFilter emits the row filter the user's scope allows over the
// given resource type. The paths are mutually exclusive in priority order:
// full access restricts to the caller's organization, otherwise the
// individual/team/project clauses are ORed together.
func (s *Service) BuildScopeFilter(userID int64, resource ResourceType) (Predicate, error) {
	scope, err := s.ResolveScope(userID)
	if err != nil {
		return Predicate{}, err
	}

	if scope.FullAccess {
		return s.organizationFilter(userID, resource)
	}
	return s.membershipFilter(userID, resource, scope)
}

// organizationFilter restricts a full-access caller to their organization,
// resolved through the resource's own relation path. A caller without an
// organization falls back to self-only visibility for users and to nothing
// for every other collection.
func (s *Service) organizationFilter(userID int64, resource ResourceType) (Predicate, error) {
	orgID, err := s.repo.OrganizationID(userID)
	if err != nil {
		return Predicate{}, fmt.Errorf("organization lookup: %w", err)
	}

	p := MatchNone(resource)
	if orgID == nil {
		if resource == ResourceTypeUser {
			return p.Or("id = ?", userID), nil
		}
		return p, nil
	}

	switch resource {
	case ResourceTypeUser, ResourceTypeTeam, ResourceTypeProject:
		return p.Or("organization_id = ?", *orgID), nil
	case ResourceTypeWorkLog:
		// work logs reach the organization through their project
		return p.Or("project_id IN (SELECT id FROM projects WHERE organization_id = ?)", *orgID), nil
	default:
		return p, nil
	}
}

// membershipFilter ORs the clauses each held level contributes for the
// resource. The implicit individual level reaches only the user record
// itself; every other collection needs an explicit level, so a caller with
// none gets a predicate matching zero rows.
func (s *Service) membershipFilter(userID int64, resource ResourceType, scope Scope) (Predicate, error) {
	p := MatchNone(resource)

	if resource == ResourceTypeUser {
		p = p.Or("id = ?", userID)
	}

	if scope.Team {
		teamIDs, err := s.repo.TeamIDs(userID)
		if err != nil {
			return Predicate{}, fmt.Errorf("team membership lookup: %w", err)
		}
		if len(teamIDs) > 0 {
			switch resource {
			case ResourceTypeTeam:
				p = p.Or("id IN ?", teamIDs)
			case ResourceTypeUser, ResourceTypeWorkLog:
				memberIDs, err := s.repo.TeamMemberIDs(teamIDs)
				if err != nil {
					return Predicate{}, fmt.Errorf("teammate lookup: %w", err)
				}
				if len(memberIDs) > 0 {
					if resource == ResourceTypeUser {
						p = p.Or("id IN ?", memberIDs)
					} else {
						p = p.Or("user_id IN ?", memberIDs)
					}
				}
			}
		}
	}

	if scope.Project {
		projectIDs, err := s.repo.ProjectIDs(userID)
		if err != nil {
			return Predicate{}, fmt.Errorf("project membership lookup: %w", err)
		}
		if len(projectIDs) > 0 {
			switch resource {
			case ResourceTypeProject:
				p = p.Or("id IN ?", projectIDs)
			case ResourceTypeUser, ResourceTypeWorkLog:
				memberIDs, err := s.repo.ProjectMemberIDs(projectIDs)
				if err != nil {
					return Predicate{}, fmt.Errorf("project member lookup: %w", err)
				}
				if len(memberIDs) > 0 {
					if resource == ResourceTypeUser {
						p = p.Or("id IN ?", memberIDs)
					} else {
						p = p.Or("user_id IN ?", memberIDs)
					}
				}
			}
		}
	}

	return p, nil
}

// CanAccessUser decides whether requester may act on the record owned by
// target. The permission gate comes first: without the users permission the
// answer is no regardless of scope. Full access stays inside the
// requester's organization.
func (s *Service) CanAccessUser(requesterID, targetUserID int64, action string) (bool, error) {
	allowed, err := s.HasPermission(requesterID, ResourceUsers, action)
	if err != nil {
		return false, err
	}
	if !allowed {
		s.logger.Warn("user access denied: missing permission",
			"requester_id", requesterID,
			"target_user_id", targetUserID,
			"action", action)
		return false, nil
	}

	scope, err := s.ResolveScope(requesterID)
	if err != nil {
		return false, err
	}

	if requesterID == targetUserID {
		return true, nil
	}

	if scope.FullAccess {
		ok, err := s.sameOrganization(requesterID, targetUserID)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	if scope.Team {
		shares, err := s.repo.SharesActiveTeam(requesterID, targetUserID)
		if err != nil {
			return false, fmt.Errorf("shared team lookup: %w", err)
		}
		if shares {
			return true, nil
		}
	}

	if scope.Project {
		shares, err := s.repo.SharesActiveProject(requesterID, targetUserID)
		if err != nil {
			return false, fmt.Errorf("shared project lookup: %w", err)
		}
		if shares {
			return true, nil
		}
	}

	s.logger.Warn("user access denied: out of scope",
		"requester_id", requesterID,
		"target_user_id", targetUserID,
		"action", action)
	return false, nil
}

func (s *Service) sameOrganization(requesterID, targetUserID int64) (bool, error) {
	requesterOrg, err := s.repo.OrganizationID(requesterID)
	if err != nil {
		return false, fmt.Errorf("organization lookup: %w", err)
	}
	if requesterOrg == nil {
		return false, nil
	}
	targetOrg, err := s.repo.OrganizationID(targetUserID)
	if err != nil {
		return false, fmt.Errorf("organization lookup: %w", err)
	}
	return targetOrg != nil && *targetOrg == *requesterOrg, nil
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
