package domain

import "sort"

// Role is the access level granted by a permission.
// Values follow the Drive v3 permission role field.
type Role string

const (
	RoleOwner         Role = "owner"
	RoleOrganizer     Role = "organizer"
	RoleFileOrganizer Role = "fileOrganizer"
	RoleWriter        Role = "writer"
	RoleCommenter     Role = "commenter"
	RoleReader        Role = "reader"
)

// PrincipalType identifies who a permission is granted to.
// Values follow the Drive v3 permission type field. "anyone" covers
// link-sharing grants and is treated as an ordinary variant.
type PrincipalType string

const (
	PrincipalUser   PrincipalType = "user"
	PrincipalGroup  PrincipalType = "group"
	PrincipalDomain PrincipalType = "domain"
	PrincipalAnyone PrincipalType = "anyone"
)

// Permission represents one access grant on an item.
type Permission struct {
	// Type identifies the principal class.
	Type PrincipalType

	// Role is the granted access level.
	Role Role

	// DisplayName is the principal's display name, may be empty.
	DisplayName string

	// Email is the principal's address, empty for domain/anyone grants.
	Email string

	// Domain is the Workspace domain for domain grants.
	Domain string

	// AllowsDiscovery reports whether the item is discoverable through
	// search for this grant (link-sharing visibility).
	AllowsDiscovery bool
}

// placeholder shown in report rows where no value is available.
const notAvailable = "n/a"

// Label returns the principal name annotated with its type, matching the
// report conventions: groups and domains are marked, anyone grants render
// as public access, and missing names fall back to "n/a".
func (p Permission) Label() string {
	switch p.Type {
	case PrincipalAnyone:
		return "Anyone (public)"
	case PrincipalGroup:
		return p.displayName() + " (Group)"
	case PrincipalDomain:
		if p.Domain != "" {
			return p.Domain + " (Domain)"
		}
		return p.displayName() + " (Domain)"
	default:
		return p.displayName()
	}
}

// EmailOrPlaceholder returns the grant's email address, or "n/a" when the
// principal has none (domain and anyone grants).
func (p Permission) EmailOrPlaceholder() string {
	if p.Email == "" {
		return notAvailable
	}
	return p.Email
}

func (p Permission) displayName() string {
	if p.DisplayName == "" {
		if p.Email != "" {
			return p.Email
		}
		return notAvailable
	}
	return p.DisplayName
}

// SortPermissions orders grants for rendering: by label, then email, then
// role. The order is total over the report-visible fields, so rendered
// output is reproducible for identical input.
func SortPermissions(perms []Permission) {
	sort.SliceStable(perms, func(i, j int) bool {
		a, b := perms[i], perms[j]
		if la, lb := a.Label(), b.Label(); la != lb {
			return la < lb
		}
		if a.Email != b.Email {
			return a.Email < b.Email
		}
		return a.Role < b.Role
	})
}
