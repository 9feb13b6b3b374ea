package project

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/projecthub/internal/infrastructure/config"
	"github.com/nerrad567/projecthub/internal/infrastructure/database"
	_ "github.com/nerrad567/projecthub/migrations"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "project-test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	require.NoError(t, db.Migrate(ctx))
	return db.DB
}

func TestSQLiteRepository_CRUD(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	p := &Project{Name: "  Apollo  ", Description: "moon"}
	require.NoError(t, repo.Create(ctx, p))
	assert.Positive(t, p.ID)
	assert.Equal(t, "Apollo", p.Name, "name should be trimmed")
	assert.False(t, p.CreatedAt.IsZero())

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, "moon", got.Description)
	assert.True(t, got.CreatedAt.Equal(p.CreatedAt))

	updated, err := repo.Update(ctx, p.ID, Update{Name: "Artemis", Description: ""})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "Artemis", updated.Name)
	assert.Empty(t, updated.Description)
	assert.True(t, updated.CreatedAt.Equal(p.CreatedAt), "created_at must not change on update")

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestSQLiteRepository_List(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty, "empty list should be non-nil for JSON encoding")
	assert.Empty(t, empty)

	for _, name := range []string{"one", "two", "three"} {
		require.NoError(t, repo.Create(ctx, &Project{Name: name}))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "one", all[0].Name)
	assert.Equal(t, "three", all[2].Name)
}

func TestSQLiteRepository_NotFound(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	_, err := repo.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	_, err = repo.Update(ctx, 99, Update{Name: "x"})
	assert.ErrorIs(t, err, ErrProjectNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, 99), ErrProjectNotFound)
}

func TestSQLiteRepository_InvalidInput(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	err := repo.Create(ctx, &Project{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidProject)

	p := &Project{Name: "valid"}
	require.NoError(t, repo.Create(ctx, p))

	_, err = repo.Update(ctx, p.ID, Update{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidProject)

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "valid", got.Name, "failed update must not change the row")
}

func TestUpdate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		update  Update
		wantErr bool
		field   string
	}{
		{"valid", Update{Name: "Apollo", Description: "moon"}, false, ""},
		{"empty description", Update{Name: "Apollo"}, false, ""},
		{"missing name", Update{Description: "moon"}, true, "name"},
		{"name at limit", Update{Name: strings.Repeat("n", maxNameLength)}, false, ""},
		{"name too long", Update{Name: strings.Repeat("n", maxNameLength+1)}, true, "name"},
		{"multibyte name at limit", Update{Name: strings.Repeat("é", maxNameLength)}, false, ""},
		{"description too long", Update{Name: "x", Description: strings.Repeat("d", maxDescriptionLength+1)}, true, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrInvalidProject)
			var fieldErrs validation.Errors
			require.True(t, errors.As(err, &fieldErrs), "expected validation.Errors, got %T", err)
			assert.Contains(t, fieldErrs, tt.field)
		})
	}
}

func TestUpdate_Apply(t *testing.T) {
	p := &Project{ID: 7, Name: "old", Description: "old"}
	Update{Name: "new", Description: "desc"}.Apply(p)

	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "new", p.Name)
	assert.Equal(t, "desc", p.Description)
}
