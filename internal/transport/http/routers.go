package http

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"site_cms/internal/content"
	"site_cms/internal/domain/models"
	categorysvc "site_cms/internal/services/category_service"
	menusvc "site_cms/internal/services/menu_service"
	pagesvc "site_cms/internal/services/page_service"
	postsvc "site_cms/internal/services/post_service"
	usersvc "site_cms/internal/services/user_service"

	_ "site_cms/docs"
)

type PageService interface {
	CreatePage(ctx context.Context, title, slug string) (models.Page, error)
	ListPages(ctx context.Context) ([]models.Page, error)
	GetPage(ctx context.Context, slug string, activeOnly bool) (models.Page, error)
	DeletePage(ctx context.Context, slug string) (models.Page, error)
	ReorderSections(ctx context.Context, slug string, ids []uuid.UUID) (models.Page, error)

	CreateSection(ctx context.Context, in pagesvc.SectionInput) (models.Section, error)
	UpdateSection(ctx context.Context, id uuid.UUID, patch models.SectionPatch) (models.Section, error)
	DeleteSection(ctx context.Context, id uuid.UUID) (models.Section, error)
	SectionForm(ctx context.Context, id uuid.UUID) (content.Form, error)
	NewArrayItem(ctx context.Context, id uuid.UUID, path string, hint content.Hint) (any, error)
	ParseContent(sectionType, raw string) (pagesvc.ParsedContent, error)
}

type PostService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, in postsvc.PostInput, thumbnail *models.Upload) (models.Post, error)
	GetPost(ctx context.Context, slug string) (models.Post, error)
	ListPosts(ctx context.Context, q postsvc.ListQuery) ([]models.Post, error)
	Feed(ctx context.Context, categoryNames []string, limit int) ([]models.Post, error)
	UpdatePost(ctx context.Context, slug string, patch postsvc.PostPatch, thumbnail *models.Upload) (models.Post, error)
	DeletePost(ctx context.Context, slug string) (models.Post, error)
}

type CategoryService interface {
	CreateCategory(ctx context.Context, in categorysvc.CategoryInput) (models.Category, error)
	ListCategories(ctx context.Context, tree bool) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, patch categorysvc.CategoryPatch) (models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) (models.Category, error)
}

type MenuService interface {
	CreateMenu(ctx context.Context, name string) (models.Menu, error)
	ListMenus(ctx context.Context) ([]models.Menu, error)
	DeleteMenu(ctx context.Context, id uuid.UUID) (models.Menu, error)
	Tree(ctx context.Context, menuID uuid.UUID) ([]models.MenuItem, error)
	TreeByName(ctx context.Context, name string) ([]models.MenuItem, error)
	CreateItem(ctx context.Context, in menusvc.MenuItemInput) (models.MenuItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, patch models.MenuItemPatch) (models.MenuItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) (models.MenuItem, error)
	ReorderItems(ctx context.Context, menuID uuid.UUID, parentID *uuid.UUID, ids []uuid.UUID) error
}

type UserService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, in usersvc.UserInput) (models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, patch usersvc.UserPatch) (models.User, error)
	DeleteUser(ctx context.Context, actorID, id uuid.UUID) (models.User, error)
}

type SettingsService interface {
	Settings(ctx context.Context) (models.SiteSettings, error)
	UpdateSettings(ctx context.Context, settings models.SiteSettings) (models.SiteSettings, error)
}

type MediaService interface {
	UploadImage(ctx context.Context, upload models.Upload) (models.Image, error)
	ListImages(ctx context.Context) ([]models.Image, error)
	DeleteImage(ctx context.Context, name string) error
}

type ContactService interface {
	Submit(ctx context.Context, clientIP string, msg models.ContactMessage) error
}

type AuthService interface {
	Login(ctx context.Context, identifier, password string) (models.LoginResult, error)
	Me(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type ActivityService interface {
	Recent(ctx context.Context, limit int) ([]models.Activity, error)
}

type Services struct {
	Pages      PageService
	Posts      PostService
	Categories CategoryService
	Menus      MenuService
	Users      UserService
	Settings   SettingsService
	Media      MediaService
	Contact    ContactService
	Auth       AuthService
	Activities ActivityService
}

type Routers struct {
	log *slog.Logger
	Services
	// sessionMaxAge is the cookie lifetime in seconds.
	sessionMaxAge int
}

func NewRouter(log *slog.Logger, services Services, sessionMaxAge int) *Routers {
	return &Routers{
		log:           log,
		Services:      services,
		sessionMaxAge: sessionMaxAge,
	}
}
