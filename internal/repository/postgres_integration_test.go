//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/eco-education/internal/database"
	"github.com/iliyamo/eco-education/internal/model"
)

// setupPostgres starts a PostgreSQL container and returns a Store on it.
func setupPostgres(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("eco"),
		postgres.WithUsername("eco"),
		postgres.WithPassword("eco"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.Equal(t, database.Postgres, db.Dialect)
	require.NoError(t, db.EnsureSchema(ctx))
	require.NoError(t, db.EnsureSchema(ctx))
	return NewStore(db, bcrypt.MinCost)
}

func TestPostgres_Store(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, NewUser{Username: "alicia", Password: "pw", Name: "Alicia", Email: "alicia@example.com"})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, NewUser{Username: "alicia", Password: "pw", Name: "A", Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrConflict)

	settings := model.AccessibilitySettings{TextSize: 1.5, Contrast: 1, ScreenReader: true}
	got, err := s.UpdateUserAccessibilitySettings(ctx, u.ID, settings)
	require.NoError(t, err)
	assert.Equal(t, settings, got.AccessibilitySettings)

	p, err := s.CreatePost(ctx, model.Post{UserID: u.ID, Title: "t", Content: "c", Category: "General", Tags: model.Tags{"a"}})
	require.NoError(t, err)
	liked, err := s.LikePost(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, liked.LikeCount)
	assert.Equal(t, model.Tags{"a"}, liked.Tags)
	_, err = s.LikePost(ctx, p.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.CreateResource(ctx, model.Resource{Title: "100% Solar", Description: "d", Type: model.ResourceGuide, Category: "Energy", URL: "https://example.com"})
	require.NoError(t, err)
	_, err = s.CreateResource(ctx, model.Resource{Title: "Wind basics", Description: "d", Type: model.ResourceVideo, Category: "Energy", URL: "https://example.com"})
	require.NoError(t, err)

	res, err := s.SearchResources(ctx, "0%", "en")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "100% Solar", res[0].Title)

	res, err = s.SearchResources(ctx, "Wind", "en")
	require.NoError(t, err)
	assert.Len(t, res, 1)

	res, err = s.SearchResources(ctx, "WIND", "en")
	require.NoError(t, err)
	assert.Empty(t, res)

	a, err := s.CreateArticle(ctx, model.Article{Title: "t", Content: "c", Excerpt: "e", Category: "Pollution"})
	require.NoError(t, err)
	list, err := s.ListArticles(ctx, ArticleFilter{Category: "Pollution"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, model.Tags{}, list[0].Tags)
}
