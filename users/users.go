package users

import (
	"slices"
	"strings"
)

// User is the signed-in account as reported by the backend's auth/me
// endpoint. Permissions are codes of the form "<resource>/<action>", for
// example "domain/index".
type User struct {
	ID           string   `json:"id,omitempty"`
	Email        string   `json:"email,omitempty"`
	Username     string   `json:"username,omitempty"`
	FirstName    string   `json:"first_name,omitempty"`
	LastName     string   `json:"last_name,omitempty"`
	IsSuperAdmin bool     `json:"is_super_admin,omitempty"`
	Permissions  []string `json:"permissions,omitempty"`
}

// DisplayName prefers the full name, then the username, then the email
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// HasPermission reports whether the user holds permission. Super admins
// hold every permission; a nil user holds none.
func (u *User) HasPermission(permission string) bool {
	if u == nil {
		return false
	}
	if u.IsSuperAdmin {
		return true
	}
	return slices.Contains(u.Permissions, permission)
}

// HasAnyPermission reports whether the user holds at least one of permissions
func (u *User) HasAnyPermission(permissions ...string) bool {
	if u != nil && u.IsSuperAdmin {
		return true
	}
	for _, p := range permissions {
		if u.HasPermission(p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the user holds every one of permissions
func (u *User) HasAllPermissions(permissions ...string) bool {
	if u == nil {
		return false
	}
	if u.IsSuperAdmin {
		return true
	}
	for _, p := range permissions {
		if !u.HasPermission(p) {
			return false
		}
	}
	return true
}

// IndexPermission is the permission needed to list or view a resource
func IndexPermission(resource string) string {
	return resource + "/index"
}
