package service

import (
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// AccessPolicy is the pure authorization decision engine. Every decision is
// deterministic over the actor and record snapshots it is given; the policy
// performs no I/O and holds no state.
//
// Visibility semantics:
//
//	PRIVATE     owner or ADMIN
//	DEPARTMENT  owner, ADMIN, any MANAGER, or a USER in the owner's department
//	PUBLIC      everyone
//
// MANAGER sees DEPARTMENT files across departments on both single-record
// reads and listings. The two paths share one rule on purpose: an actor must
// never be able to list a file it cannot then fetch.
type AccessPolicy struct{}

// NewAccessPolicy creates the access policy.
func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// CanRead reports whether the actor may read or download the record.
// The record's Owner must be populated.
func (p *AccessPolicy) CanRead(actor *models.User, rec *models.FileRecord) bool {
	if rec.Visibility == models.VisibilityPublic {
		return true
	}
	if actor.ID == rec.OwnerID || actor.Role == models.RoleAdmin {
		return true
	}
	if rec.Visibility == models.VisibilityDepartment {
		if actor.Role == models.RoleManager {
			return true
		}
		return actor.SameDepartment(rec.Owner)
	}
	return false
}

// CanDelete reports whether the actor may delete the record. USER may delete
// only its own files; MANAGER may delete any file owned within its own
// department, regardless of visibility; ADMIN may delete anything.
func (p *AccessPolicy) CanDelete(actor *models.User, rec *models.FileRecord) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		return actor.SameDepartment(rec.Owner)
	default:
		return actor.ID == rec.OwnerID
	}
}

// CanUpload reports whether the actor's role may assign the given visibility
// on upload.
func (p *AccessPolicy) CanUpload(actor *models.User, visibility models.Visibility) bool {
	return actor.Role.AllowsVisibility(visibility)
}

// ListScope translates the actor's role into a listing filter. The optional
// department filter is honored for MANAGER and ADMIN and ignored for USER.
func (p *AccessPolicy) ListScope(actor *models.User, departmentFilter *int64) repositories.ListScope {
	switch actor.Role {
	case models.RoleAdmin:
		return repositories.ListScope{
			All:                true,
			FilterDepartmentID: departmentFilter,
		}
	case models.RoleManager:
		return repositories.ListScope{
			ViewerID:           actor.ID,
			AllDepartments:     true,
			FilterDepartmentID: departmentFilter,
		}
	default:
		return repositories.ListScope{
			ViewerID:     actor.ID,
			DepartmentID: actor.DepartmentID,
		}
	}
}
