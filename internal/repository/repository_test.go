package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"site_cms/internal/domain/models"
	"site_cms/internal/repository"
	"site_cms/internal/storage"
	"site_cms/internal/storage/postgresql"
)

var testCtx = context.Background()

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	pgContainer, err := testcontainers.GenericContainer(testCtx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(testCtx) })

	host, err := pgContainer.Host(testCtx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(testCtx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	applied, err := postgresql.Migrate(testCtx, dsn, "../../migrations")
	require.NoError(t, err)
	require.NotEmpty(t, applied)

	again, err := postgresql.Migrate(testCtx, dsn, "../../migrations")
	require.NoError(t, err)
	require.Empty(t, again)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	rolledBack, err := postgresql.RollbackMigrations(testCtx, sqlDB, "../../migrations")
	require.NoError(t, err)
	require.Equal(t, []string{"00001_init.sql"}, rolledBack)
	reapplied, err := postgresql.ApplyMigrations(testCtx, sqlDB, "../../migrations")
	require.NoError(t, err)
	require.Equal(t, []string{"00001_init.sql"}, reapplied)
	require.NoError(t, sqlDB.Close())

	pool, err := postgresql.New(testCtx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func seedUser(t *testing.T, repo *repository.Repository, role models.Role) models.User {
	t.Helper()

	u, err := repo.User.SaveUser(testCtx, models.User{
		FullName: gofakeit.Name(),
		Username: gofakeit.Username() + gofakeit.DigitN(6),
		Email:    gofakeit.Email(),
		Password: []byte("hash"),
		Role:     role,
		IsActive: true,
	})
	require.NoError(t, err)
	return u
}

func TestRepositories(t *testing.T) {
	pool := setupTestDB(t)
	repo := repository.NewRepositoryWithPool(pool)

	t.Run("sections stay dense after delete", func(t *testing.T) {
		page, err := repo.Page.CreatePage(testCtx, models.Page{Title: "Home", Slug: "home"})
		require.NoError(t, err)

		var ids []uuid.UUID
		for i := 1; i <= 4; i++ {
			s, err := repo.Section.CreateSection(testCtx, models.Section{
				PageID:   page.ID,
				Type:     "hero",
				Content:  models.Document{"title": fmt.Sprintf("S%d", i)},
				Order:    i,
				IsActive: true,
			})
			require.NoError(t, err)
			ids = append(ids, s.ID)
		}

		_, err = repo.Section.DeleteSection(testCtx, ids[1])
		require.NoError(t, err)

		sections, err := repo.Section.SectionsByPage(testCtx, page.ID)
		require.NoError(t, err)
		require.Len(t, sections, 3)
		for i, s := range sections {
			assert.Equal(t, i+1, s.Order)
		}
		assert.Equal(t, []uuid.UUID{ids[0], ids[2], ids[3]}, []uuid.UUID{sections[0].ID, sections[1].ID, sections[2].ID})

		_, err = repo.Section.DeleteSection(testCtx, ids[1])
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("section content round trip", func(t *testing.T) {
		page, err := repo.Page.CreatePage(testCtx, models.Page{Title: "About", Slug: "about"})
		require.NoError(t, err)

		doc, err := parseDoc(`{"title":"X","n":12.50,"items":[{"icon":"a","on":true}],"nested":{"bg":""}}`)
		require.NoError(t, err)

		s, err := repo.Section.CreateSection(testCtx, models.Section{PageID: page.ID, Type: "about", Content: doc, Order: 1, IsActive: true})
		require.NoError(t, err)

		got, err := repo.Section.SectionByID(testCtx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, doc["title"], got.Content["title"])
		assert.Equal(t, doc["items"], got.Content["items"])
		assert.Equal(t, doc["nested"], got.Content["nested"])
	})

	t.Run("reorder sections", func(t *testing.T) {
		page, err := repo.Page.CreatePage(testCtx, models.Page{Title: "Services", Slug: "services"})
		require.NoError(t, err)

		var ids []uuid.UUID
		for i := 1; i <= 3; i++ {
			s, err := repo.Section.CreateSection(testCtx, models.Section{PageID: page.ID, Type: "generic", Order: i, IsActive: true})
			require.NoError(t, err)
			ids = append(ids, s.ID)
		}

		err = repo.Section.ReorderSections(testCtx, page.ID, []uuid.UUID{ids[0], ids[1]})
		assert.ErrorIs(t, err, models.ErrOrderMismatch)

		require.NoError(t, repo.Section.ReorderSections(testCtx, page.ID, []uuid.UUID{ids[2], ids[0], ids[1]}))

		sections, err := repo.Section.SectionsByPage(testCtx, page.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{ids[2], ids[0], ids[1]}, []uuid.UUID{sections[0].ID, sections[1].ID, sections[2].ID})
	})

	t.Run("page slug conflict and cascade", func(t *testing.T) {
		_, err := repo.Page.CreatePage(testCtx, models.Page{Title: "Dup", Slug: "home"})
		assert.ErrorIs(t, err, storage.ErrConflict)

		page, err := repo.Page.DeletePage(testCtx, "services")
		require.NoError(t, err)

		count, err := repo.Section.CountSections(testCtx, page.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("posts filter", func(t *testing.T) {
		author := seedUser(t, repo, models.RoleAdmin)
		news, err := repo.Category.CreateCategory(testCtx, models.Category{Name: "News", Slug: "news"})
		require.NoError(t, err)
		events, err := repo.Category.CreateCategory(testCtx, models.Category{Name: "Events", Slug: "events"})
		require.NoError(t, err)

		now := time.Now().UTC()
		for i, cat := range []models.Category{news, news, events} {
			post := models.Post{
				Title:      fmt.Sprintf("Post %d", i),
				Slug:       fmt.Sprintf("post-%d", i),
				Content:    "<p>x</p>",
				CategoryID: cat.ID,
				AuthorID:   author.ID,
				IsFeatured: i == 0,
			}
			post.SetStatus(models.PostStatusPublished, now)
			_, err := repo.Post.CreatePost(testCtx, post)
			require.NoError(t, err)
		}

		posts, err := repo.Post.ListPosts(testCtx, models.PostFilter{CategoryID: &news.ID})
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "news", posts[0].Category.Slug)
		assert.Equal(t, author.FullName, posts[0].Author.FullName)
		assert.NotNil(t, posts[0].PublishedAt)

		featured := true
		posts, err = repo.Post.ListPosts(testCtx, models.PostFilter{IsFeatured: &featured})
		require.NoError(t, err)
		require.Len(t, posts, 1)

		posts, err = repo.Post.ListPosts(testCtx, models.PostFilter{Slugs: []string{"post-0", "post-2"}})
		require.NoError(t, err)
		assert.Len(t, posts, 2)

		p, err := repo.Post.PostBySlug(testCtx, "post-1")
		require.NoError(t, err)
		p.SetStatus(models.PostStatusDraft, now)
		p, err = repo.Post.UpdatePost(testCtx, p)
		require.NoError(t, err)
		assert.Nil(t, p.PublishedAt)

		_, err = repo.Category.DeleteCategory(testCtx, events.ID)
		assert.ErrorIs(t, err, storage.ErrInUse)
	})

	t.Run("category slug prefix", func(t *testing.T) {
		for _, slug := range []string{"press", "press-1", "press-release", "pressure"} {
			_, err := repo.Category.CreateCategory(testCtx, models.Category{Name: slug, Slug: slug})
			require.NoError(t, err)
		}

		slugs, err := repo.Category.SlugsWithPrefix(testCtx, "press")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"press", "press-1", "press-release"}, slugs)

		c, err := repo.Category.CategoryByName(testCtx, "PRESS")
		require.NoError(t, err)
		assert.Equal(t, "press", c.Slug)
	})

	t.Run("menu items", func(t *testing.T) {
		menu, err := repo.Menu.CreateMenu(testCtx, "navbar")
		require.NoError(t, err)

		home, err := repo.Menu.CreateMenuItem(testCtx, models.MenuItem{MenuID: menu.ID, Name: "Home", URL: "/"})
		require.NoError(t, err)
		about, err := repo.Menu.CreateMenuItem(testCtx, models.MenuItem{MenuID: menu.ID, Name: "About", URL: "/about"})
		require.NoError(t, err)
		team, err := repo.Menu.CreateMenuItem(testCtx, models.MenuItem{MenuID: menu.ID, Name: "Team", URL: "/team", ParentID: &about.ID})
		require.NoError(t, err)

		assert.Equal(t, 1, home.SortOrder)
		assert.Equal(t, 2, about.SortOrder)
		assert.Equal(t, 1, team.SortOrder)

		has, err := repo.Menu.HasChildren(testCtx, about.ID)
		require.NoError(t, err)
		assert.True(t, has)

		require.NoError(t, repo.Menu.ReorderMenuItems(testCtx, menu.ID, nil, []uuid.UUID{about.ID, home.ID}))

		items, err := repo.Menu.MenuItems(testCtx, menu.ID)
		require.NoError(t, err)
		tree := models.BuildMenuTree(items)
		require.Len(t, tree, 2)
		assert.Equal(t, "About", tree[0].Name)
		require.Len(t, tree[0].Children, 1)

		_, err = repo.Menu.DeleteMenuItem(testCtx, about.ID)
		require.NoError(t, err)
		_, err = repo.Menu.MenuItemByID(testCtx, team.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("settings upsert", func(t *testing.T) {
		_, err := repo.Settings.FirstSettings(testCtx)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		first, err := repo.Settings.UpsertSettings(testCtx, models.SiteSettings{SiteName: "Acme"})
		require.NoError(t, err)

		second, err := repo.Settings.UpsertSettings(testCtx, models.SiteSettings{SiteName: "Acme Corp"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Acme Corp", second.SiteName)
	})

	t.Run("users and activities", func(t *testing.T) {
		u := seedUser(t, repo, models.RoleUser)

		_, err := repo.User.SaveUser(testCtx, models.User{FullName: "x", Username: "other", Email: u.Email, Password: []byte("h"), Role: models.RoleUser})
		assert.ErrorIs(t, err, storage.ErrConflict)

		found, err := repo.User.UserByIdentifier(testCtx, u.Username)
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)

		require.NoError(t, repo.Activity.SaveActivity(testCtx, models.Activity{
			Type: "page", Action: models.ActionCreated, Title: "Home", UserID: u.ID,
			Metadata: models.Document{"slug": "home"},
		}))
		require.NoError(t, repo.Activity.SaveActivity(testCtx, models.Activity{
			Type: "menu", Action: models.ActionDeleted, Title: "navbar", UserID: u.ID,
		}))

		activities, err := repo.Activity.RecentActivities(testCtx, 10)
		require.NoError(t, err)
		require.Len(t, activities, 2)

		assert.ErrorIs(t, repo.User.DeleteUser(testCtx, uuid.New()), storage.ErrNotFound)
	})
}

func parseDoc(raw string) (models.Document, error) {
	var doc models.Document
	err := doc.UnmarshalJSON([]byte(raw))
	return doc, err
}
