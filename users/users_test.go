package users_test

import (
	"testing"

	"github.com/jrsteele09/tenant-console/users"
	"github.com/stretchr/testify/require"
)

func TestPermissions(t *testing.T) {
	editor := &users.User{Permissions: []string{"domain/index", "domain/edit"}}
	admin := &users.User{IsSuperAdmin: true}
	var nobody *users.User

	t.Run("single", func(t *testing.T) {
		require.True(t, editor.HasPermission("domain/index"))
		require.False(t, editor.HasPermission("user/index"))
		require.True(t, admin.HasPermission("user/index"))
		require.False(t, nobody.HasPermission("domain/index"))
	})

	t.Run("any", func(t *testing.T) {
		require.True(t, editor.HasAnyPermission("user/index", "domain/edit"))
		require.False(t, editor.HasAnyPermission("user/index", "role/index"))
		require.False(t, editor.HasAnyPermission())
		require.True(t, admin.HasAnyPermission())
		require.False(t, nobody.HasAnyPermission("domain/index"))
	})

	t.Run("all", func(t *testing.T) {
		require.True(t, editor.HasAllPermissions("domain/index", "domain/edit"))
		require.False(t, editor.HasAllPermissions("domain/index", "user/index"))
		require.True(t, admin.HasAllPermissions("anything/at-all"))
		require.False(t, nobody.HasAllPermissions())
	})
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Ada Lovelace", (&users.User{FirstName: "Ada", LastName: "Lovelace", Username: "ada"}).DisplayName())
	require.Equal(t, "ada", (&users.User{Username: "ada", Email: "ada@example.com"}).DisplayName())
	require.Equal(t, "ada@example.com", (&users.User{Email: "ada@example.com"}).DisplayName())
	require.Equal(t, "domain/index", users.IndexPermission("domain"))
}
