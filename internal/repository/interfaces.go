package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"site_cms/internal/domain/models"
)

type PageRepository interface {
	CreatePage(ctx context.Context, page models.Page) (models.Page, error)
	ListPages(ctx context.Context) ([]models.Page, error)
	PageBySlug(ctx context.Context, slug string) (models.Page, error)
	PageByID(ctx context.Context, id uuid.UUID) (models.Page, error)
	DeletePage(ctx context.Context, slug string) (models.Page, error)
}

type SectionRepository interface {
	CreateSection(ctx context.Context, section models.Section) (models.Section, error)
	SectionByID(ctx context.Context, id uuid.UUID) (models.Section, error)
	SectionsByPage(ctx context.Context, pageID uuid.UUID) ([]models.Section, error)
	CountSections(ctx context.Context, pageID uuid.UUID) (int, error)
	UpdateSection(ctx context.Context, id uuid.UUID, patch models.SectionPatch) (models.Section, error)
	// DeleteSection removes the section and renumbers its siblings to 1..N
	// within one transaction.
	DeleteSection(ctx context.Context, id uuid.UUID) (models.Section, error)
	// ReorderSections assigns order = index+1 following ids. ids must be a
	// permutation of the page's sections.
	ReorderSections(ctx context.Context, pageID uuid.UUID, ids []uuid.UUID) error
}

type PostRepository interface {
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	PostBySlug(ctx context.Context, slug string) (models.Post, error)
	ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	UpdatePost(ctx context.Context, post models.Post) (models.Post, error)
	DeletePost(ctx context.Context, slug string) (models.Post, error)
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category models.Category) (models.Category, error)
	CategoryByID(ctx context.Context, id uuid.UUID) (models.Category, error)
	CategoryByName(ctx context.Context, name string) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	// SlugsWithPrefix returns base and every slug of the form base-*.
	SlugsWithPrefix(ctx context.Context, base string) ([]string, error)
	UpdateCategory(ctx context.Context, category models.Category) (models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) (models.Category, error)
}

type MenuRepository interface {
	CreateMenu(ctx context.Context, name string) (models.Menu, error)
	ListMenus(ctx context.Context) ([]models.Menu, error)
	MenuByID(ctx context.Context, id uuid.UUID) (models.Menu, error)
	MenuByName(ctx context.Context, name string) (models.Menu, error)
	DeleteMenu(ctx context.Context, id uuid.UUID) (models.Menu, error)

	// CreateMenuItem appends the item after its last sibling.
	CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	MenuItemByID(ctx context.Context, id uuid.UUID) (models.MenuItem, error)
	MenuItems(ctx context.Context, menuID uuid.UUID) ([]models.MenuItem, error)
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) (models.MenuItem, error)
	ReorderMenuItems(ctx context.Context, menuID uuid.UUID, parentID *uuid.UUID, ids []uuid.UUID) error
}

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	// UserByIdentifier looks a user up by email or username.
	UserByIdentifier(ctx context.Context, identifier string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type SettingsRepository interface {
	FirstSettings(ctx context.Context) (models.SiteSettings, error)
	// UpsertSettings updates the first settings row, inserting one when the
	// table is empty.
	UpsertSettings(ctx context.Context, settings models.SiteSettings) (models.SiteSettings, error)
}

type ActivityRepository interface {
	SaveActivity(ctx context.Context, activity models.Activity) error
	RecentActivities(ctx context.Context, limit int) ([]models.Activity, error)
}

type RateLimitRepository interface {
	// Hit counts one request against key in a fixed window and returns the
	// count so far.
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}
