package httpapp

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"site_cms/internal/domain/models"
	"site_cms/internal/repository"
	"site_cms/internal/storage"
)

// memPages keeps pages and their sections in memory.
type memPages struct {
	mu       sync.Mutex
	pages    map[string]models.Page
	sections map[uuid.UUID]models.Section
}

func newMemPages() *memPages {
	return &memPages{
		pages:    map[string]models.Page{},
		sections: map[uuid.UUID]models.Section{},
	}
}

func (m *memPages) CreatePage(_ context.Context, page models.Page) (models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pages[page.Slug]; ok {
		return models.Page{}, storage.ErrConflict
	}
	page.ID = uuid.New()
	page.CreatedAt = time.Now()
	m.pages[page.Slug] = page
	return page, nil
}

func (m *memPages) ListPages(context.Context) ([]models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Page, 0, len(m.pages))
	for _, p := range m.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (m *memPages) PageBySlug(_ context.Context, slug string) (models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pages[slug]
	if !ok {
		return models.Page{}, storage.ErrNotFound
	}
	return p, nil
}

func (m *memPages) PageByID(_ context.Context, id uuid.UUID) (models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.pages {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Page{}, storage.ErrNotFound
}

func (m *memPages) DeletePage(_ context.Context, slug string) (models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pages[slug]
	if !ok {
		return models.Page{}, storage.ErrNotFound
	}
	delete(m.pages, slug)
	for id, s := range m.sections {
		if s.PageID == p.ID {
			delete(m.sections, id)
		}
	}
	return p, nil
}

// sectionStore adapts memPages to repository.SectionRepository.
type sectionStore struct{ *memPages }

func (s sectionStore) CreateSection(_ context.Context, section models.Section) (models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	section.ID = uuid.New()
	section.CreatedAt = time.Now()
	section.UpdatedAt = section.CreatedAt
	s.sections[section.ID] = section
	return section, nil
}

func (s sectionStore) SectionByID(_ context.Context, id uuid.UUID) (models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.sections[id]
	if !ok {
		return models.Section{}, storage.ErrNotFound
	}
	return sec, nil
}

func (s sectionStore) SectionsByPage(_ context.Context, pageID uuid.UUID) ([]models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.byPage(pageID), nil
}

func (s sectionStore) byPage(pageID uuid.UUID) []models.Section {
	out := []models.Section{}
	for _, sec := range s.sections {
		if sec.PageID == pageID {
			out = append(out, sec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (s sectionStore) CountSections(_ context.Context, pageID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.byPage(pageID)), nil
}

func (s sectionStore) UpdateSection(_ context.Context, id uuid.UUID, patch models.SectionPatch) (models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.sections[id]
	if !ok {
		return models.Section{}, storage.ErrNotFound
	}
	if patch.Type != nil {
		sec.Type = *patch.Type
	}
	if patch.Content != nil {
		sec.Content = patch.Content
	}
	if patch.Order != nil {
		sec.Order = *patch.Order
	}
	if patch.IsActive != nil {
		sec.IsActive = *patch.IsActive
	}
	sec.UpdatedAt = time.Now()
	s.sections[id] = sec
	return sec, nil
}

func (s sectionStore) DeleteSection(_ context.Context, id uuid.UUID) (models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.sections[id]
	if !ok {
		return models.Section{}, storage.ErrNotFound
	}
	delete(s.sections, id)

	var siblings []models.Ordered
	for _, other := range s.byPage(sec.PageID) {
		siblings = append(siblings, models.Ordered{ID: other.ID, Order: other.Order})
	}
	for _, changed := range models.Resequence(siblings) {
		moved := s.sections[changed.ID]
		moved.Order = changed.Order
		s.sections[changed.ID] = moved
	}
	return sec, nil
}

func (s sectionStore) ReorderSections(_ context.Context, pageID uuid.UUID, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current []uuid.UUID
	for _, sec := range s.byPage(pageID) {
		current = append(current, sec.ID)
	}
	if err := models.CheckPermutation(current, ids); err != nil {
		return err
	}
	for i, id := range ids {
		sec := s.sections[id]
		sec.Order = i + 1
		s.sections[id] = sec
	}
	return nil
}

// categoriesByName resolves names only; the listing tests need nothing else.
type categoriesByName struct {
	repository.CategoryRepository
	byName map[string]models.Category
}

func (c categoriesByName) CategoryByName(_ context.Context, name string) (models.Category, error) {
	cat, ok := c.byName[name]
	if !ok {
		return models.Category{}, storage.ErrNotFound
	}
	return cat, nil
}

func (c categoriesByName) CategoryByID(_ context.Context, id uuid.UUID) (models.Category, error) {
	for _, cat := range c.byName {
		if cat.ID == id {
			return cat, nil
		}
	}
	return models.Category{}, storage.ErrNotFound
}

// memPosts records created posts.
type memPosts struct {
	repository.PostRepository
	mu    sync.Mutex
	posts []models.Post
}

func (m *memPosts) CreatePost(_ context.Context, post models.Post) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post.ID = uuid.New()
	m.posts = append(m.posts, post)
	return post, nil
}

func (m *memPosts) ListPosts(_ context.Context, filter models.PostFilter) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Post{}
	for _, p := range m.posts {
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memPosts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts)
}

type memRecorder struct {
	mu         sync.Mutex
	activities []models.Activity
}

func (r *memRecorder) Record(_ context.Context, a models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities = append(r.activities, a)
	return nil
}

func (r *memRecorder) all() []models.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Activity, len(r.activities))
	copy(out, r.activities)
	return out
}
