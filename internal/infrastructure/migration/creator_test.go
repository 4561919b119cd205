package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"create orders table", "create_orders_table"},
		{"Create-Orders-Table", "create_orders_table"},
		{"CREATE_ORDERS_TABLE", "create_orders_table"},
		{"create__orders__table", "create_orders_table"},
		{"Add Reviews 123", "add_reviews_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	tmpDir := t.TempDir()

	mf, err := CreateMigration(tmpDir, "create orders table", "Orders with items and status history")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// Version prefix is YYYYMMDDHHMMSS
	assert.Len(t, mf.Version, 14)
	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "create orders table")
	assert.Contains(t, string(upContent), "Orders with items and status history")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "rollback")
	assert.Contains(t, string(downContent), "undoes:")
}

func TestCreateMigrationCreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "test", "test migration")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	t.Run("pairs are listed once by base name", func(t *testing.T) {
		tmpDir := t.TempDir()
		files := []string{
			"000001_create_users.up.sql",
			"000001_create_users.down.sql",
			"000002_create_products.up.sql",
			"000002_create_products.down.sql",
		}
		for _, f := range files {
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("-- test"), 0644))
		}

		migrations, err := ListMigrations(tmpDir)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"000001_create_users", "000002_create_products"}, migrations)
	})

	t.Run("non-migration files and directories are skipped", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "000001_init.up.sql"), []byte("-- test"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "README.md"), []byte("docs"), 0644))
		require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "archive.up.sql"), 0755))

		migrations, err := ListMigrations(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init"}, migrations)
	})

	t.Run("empty and missing directories yield no results", func(t *testing.T) {
		migrations, err := ListMigrations(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, migrations)

		migrations, err = ListMigrations(filepath.Join(t.TempDir(), "does-not-exist"))
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})
}
