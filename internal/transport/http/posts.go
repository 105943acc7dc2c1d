package http

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"site_cms/internal/domain/models"
	"site_cms/internal/middleware"
	postsvc "site_cms/internal/services/post_service"
	"site_cms/internal/transport/http/dto"
)

// ListPosts godoc
// @Summary List posts
// @Description Filters combine. An unknown category name yields an empty list.
// @Tags posts
// @Produce json
// @Param slug query []string false "Slugs" collectionFormat(multi)
// @Param postType query string false "Post type"
// @Param category query string false "Category name"
// @Param categoryId query string false "Category id" format(uuid)
// @Param status query string false "draft, published or archived"
// @Param isFeatured query bool false "Featured flag"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Post
// @Failure 400 {object} response.ErrorResponse
// @Router /api/posts [get]
func (r *Routers) ListPosts(c echo.Context) error {
	const op = "http.routers.ListPosts"

	log := r.log.With(slog.String("op", op))

	q, err := listQuery(c)
	if err != nil {
		return fail(c, log, err)
	}

	posts, err := r.Posts.ListPosts(c.Request().Context(), q)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, posts)
}

// Feed godoc
// @Summary Latest published posts of several categories
// @Tags posts
// @Produce json
// @Param category query []string true "Category names" collectionFormat(multi)
// @Param limit query int false "Maximum posts returned"
// @Success 200 {array} models.Post
// @Router /api/posts/feed [get]
func (r *Routers) Feed(c echo.Context) error {
	const op = "http.routers.Feed"

	log := r.log.With(slog.String("op", op))

	params := c.QueryParams()
	names := append(params["category"], params["category[]"]...)

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fail(c, log, models.NewValidationError("limit", "limit must be a non-negative integer"))
		}
		limit = n
	}

	posts, err := r.Posts.Feed(c.Request().Context(), names, limit)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.Post
// @Failure 404 {object} response.ErrorResponse
// @Router /api/posts/{slug} [get]
func (r *Routers) GetPost(c echo.Context) error {
	const op = "http.routers.GetPost"

	post, err := r.Posts.GetPost(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, post)
}

// CreatePost godoc
// @Summary Create a post
// @Description Accepts JSON or a multipart form. A thumbnail file is stored as an image.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Param request body dto.PostFields true "Post"
// @Param thumbnail formData file false "Thumbnail image"
// @Success 201 {object} models.Post
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Slug taken"
// @Security ApiKeyAuth
// @Router /api/posts [post]
func (r *Routers) CreatePost(c echo.Context) error {
	const op = "http.routers.CreatePost"

	log := r.log.With(slog.String("op", op))

	fields, thumbnail, closeFn, err := postForm(c)
	if err != nil {
		return fail(c, log, err)
	}
	defer closeFn()

	in, err := postInput(fields)
	if err != nil {
		return fail(c, log, err)
	}

	actor, _ := middleware.ActorFrom(c)

	post, err := r.Posts.CreatePost(c.Request().Context(), actor.UserID, in, thumbnail)
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, post.ID, post.Title)
	return c.JSON(http.StatusCreated, post)
}

// UpdatePost godoc
// @Summary Update a post
// @Description Only the provided fields change. Publishing sets publishedAt, leaving published clears it.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Param slug path string true "Post slug"
// @Param request body dto.PostFields true "Fields to change"
// @Param thumbnail formData file false "Thumbnail image"
// @Success 200 {object} models.Post
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/posts/{slug} [put]
func (r *Routers) UpdatePost(c echo.Context) error {
	const op = "http.routers.UpdatePost"

	log := r.log.With(slog.String("op", op))

	fields, thumbnail, closeFn, err := postForm(c)
	if err != nil {
		return fail(c, log, err)
	}
	defer closeFn()

	patch, err := postPatch(fields)
	if err != nil {
		return fail(c, log, err)
	}

	post, err := r.Posts.UpdatePost(c.Request().Context(), c.Param("slug"), patch, thumbnail)
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, post.ID, post.Title)
	return c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.Post
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/posts/{slug} [delete]
func (r *Routers) DeletePost(c echo.Context) error {
	const op = "http.routers.DeletePost"

	post, err := r.Posts.DeletePost(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return fail(c, r.log.With(slog.String("op", op)), err)
	}

	middleware.AuditSubject(c, post.ID, post.Title)
	return c.JSON(http.StatusOK, post)
}

func listQuery(c echo.Context) (postsvc.ListQuery, error) {
	params := c.QueryParams()

	q := postsvc.ListQuery{
		PostFilter: models.PostFilter{
			Slugs:    append(params["slug"], params["slug[]"]...),
			PostType: c.QueryParam("postType"),
			Status:   models.PostStatus(c.QueryParam("status")),
		},
		CategoryName: c.QueryParam("category"),
	}

	if v := c.QueryParam("categoryId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return q, models.NewValidationError("categoryId", "categoryId must be a UUID")
		}
		q.CategoryID = &id
	}
	if v := c.QueryParam("isFeatured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return q, models.NewValidationError("isFeatured", "isFeatured must be true or false")
		}
		q.IsFeatured = &b
	}
	for name, dst := range map[string]*int{"limit": &q.Limit, "offset": &q.Offset} {
		v := c.QueryParam(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return q, models.NewValidationError(name, name+" must be a non-negative integer")
		}
		*dst = n
	}

	return q, nil
}

// postForm reads post fields from a multipart form or a JSON body. The
// returned func closes the thumbnail file, if any.
func postForm(c echo.Context) (dto.PostFields, *models.Upload, func(), error) {
	var fields dto.PostFields
	noop := func() {}

	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if err := bind(c, &fields); err != nil {
			return fields, nil, noop, err
		}
		return fields, nil, noop, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fields, nil, noop, errBadRequest
	}

	value := func(key string) *string {
		v, ok := form.Value[key]
		if !ok || len(v) == 0 {
			return nil
		}
		return &v[0]
	}

	fields = dto.PostFields{
		Title:           value("title"),
		Slug:            value("slug"),
		Excerpt:         value("excerpt"),
		Content:         value("content"),
		Status:          value("status"),
		PostType:        value("postType"),
		Thumbnail:       value("thumbnail"),
		MetaTitle:       value("metaTitle"),
		MetaDescription: value("metaDescription"),
		MetaKeyword:     value("metaKeyword"),
		CategoryID:      value("categoryId"),
	}
	if v := value("isFeatured"); v != nil {
		b, err := strconv.ParseBool(*v)
		if err != nil {
			return fields, nil, noop, models.NewValidationError("isFeatured", "isFeatured must be true or false")
		}
		fields.IsFeatured = &b
	}

	files := form.File["thumbnail"]
	if len(files) == 0 {
		return fields, nil, noop, nil
	}

	upload, file, err := openUpload(files[0])
	if err != nil {
		return fields, nil, noop, errBadRequest
	}

	return fields, &upload, func() { _ = file.Close() }, nil
}

func openUpload(fh *multipart.FileHeader) (models.Upload, multipart.File, error) {
	file, err := fh.Open()
	if err != nil {
		return models.Upload{}, nil, err
	}

	return models.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        file,
	}, file, nil
}

func postInput(f dto.PostFields) (postsvc.PostInput, error) {
	in := postsvc.PostInput{
		Title:           deref(f.Title),
		Slug:            deref(f.Slug),
		Excerpt:         deref(f.Excerpt),
		Content:         deref(f.Content),
		Status:          models.PostStatus(deref(f.Status)),
		PostType:        deref(f.PostType),
		Thumbnail:       deref(f.Thumbnail),
		MetaTitle:       deref(f.MetaTitle),
		MetaDescription: deref(f.MetaDescription),
		MetaKeyword:     deref(f.MetaKeyword),
	}
	if f.IsFeatured != nil {
		in.IsFeatured = *f.IsFeatured
	}
	if f.CategoryID != nil && *f.CategoryID != "" {
		id, err := uuid.Parse(*f.CategoryID)
		if err != nil {
			return in, models.NewValidationError("categoryId", "categoryId must be a UUID")
		}
		in.CategoryID = id
	}

	return in, nil
}

func postPatch(f dto.PostFields) (postsvc.PostPatch, error) {
	patch := postsvc.PostPatch{
		Title:           f.Title,
		Slug:            f.Slug,
		Excerpt:         f.Excerpt,
		Content:         f.Content,
		PostType:        f.PostType,
		IsFeatured:      f.IsFeatured,
		Thumbnail:       f.Thumbnail,
		MetaTitle:       f.MetaTitle,
		MetaDescription: f.MetaDescription,
		MetaKeyword:     f.MetaKeyword,
	}
	if f.Status != nil {
		status := models.PostStatus(*f.Status)
		patch.Status = &status
	}
	if f.CategoryID != nil {
		id, err := uuid.Parse(*f.CategoryID)
		if err != nil {
			return patch, models.NewValidationError("categoryId", "categoryId must be a UUID")
		}
		patch.CategoryID = &id
	}

	return patch, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
