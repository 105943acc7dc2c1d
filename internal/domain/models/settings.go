package models

import (
	"time"

	"github.com/google/uuid"
)

// SiteSettings is stored as a single row, created on the first write.
type SiteSettings struct {
	ID          uuid.UUID `db:"id" json:"id"`
	SiteName    string    `db:"site_name" json:"siteName"`
	SiteURL     string    `db:"site_url" json:"siteUrl"`
	LogoURL     string    `db:"logo_url" json:"logoUrl"`
	ThemeColor  string    `db:"theme_color" json:"themeColor"`
	Description string    `db:"description" json:"description"`
	SEOKeywords string    `db:"seo_keywords" json:"seoKeywords"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
