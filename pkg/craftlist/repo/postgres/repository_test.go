package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftlist/craft-list/pkg/craftlist"
	"github.com/craftlist/craft-list/pkg/craftlist/repo/postgres"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL, applies
// the schema and returns a repository. Tests are skipped when no database
// is available.
func setupTestDB(t *testing.T) (*postgres.Repository, *pgxpool.Pool) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, pool.Ping(ctx), "Failed to ping test database")

	schema, err := os.ReadFile("../../../../migrations/0001_init.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err, "Failed to apply schema")

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(),
			`TRUNCATE users, tickets, servers, votes, blog_categories, blog_posts, custom_pages, banners, site_settings`)
		pool.Close()
	})

	return postgres.NewWithPool(pool), pool
}

// A server row written by the external submission flow may carry only the
// required columns; the schema defaults must keep it scannable.
func TestListServersWithMinimalRow(t *testing.T) {
	repo, pool := setupTestDB(t)
	ctx := context.Background()

	id := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO servers (id, name, address) VALUES ($1, $2, $3)`,
		id, "Skyblock Realms", "play.skyblock.example.com")
	require.NoError(t, err)

	servers, err := repo.ListServers(ctx)
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, id, servers[0].ID)
	assert.Empty(t, servers[0].Description)
	assert.Empty(t, servers[0].Version)
	assert.Empty(t, servers[0].Website)
	assert.Nil(t, servers[0].OwnerID)
}

func TestCategorySlugConflictMapping(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	category := &craftlist.Category{
		ID:        uuid.New(),
		Name:      "Guides",
		Slug:      "guides",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateCategory(ctx, category))

	dup := &craftlist.Category{
		ID:        uuid.New(),
		Name:      "Guides Again",
		Slug:      "guides",
		CreatedAt: time.Now().UTC(),
	}
	err := repo.CreateCategory(ctx, dup)
	assert.ErrorIs(t, err, craftlist.ErrDuplicateSlug)
}

func TestPostForeignKeyMapping(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC()
	err := repo.CreatePost(ctx, &craftlist.Post{
		ID:         uuid.New(),
		Title:      "Orphan",
		Slug:       "orphan",
		Content:    "content",
		CategoryID: uuid.New(),
		UserID:     uuid.New(),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	assert.ErrorIs(t, err, craftlist.ErrCategoryNotFound)
}
