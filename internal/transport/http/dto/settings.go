package dto

type SettingsRequest struct {
	SiteName    string `json:"siteName" validate:"max=200"`
	SiteURL     string `json:"siteUrl" validate:"omitempty,url"`
	LogoURL     string `json:"logoUrl"`
	ThemeColor  string `json:"themeColor" validate:"omitempty,max=32"`
	Description string `json:"description"`
	SEOKeywords string `json:"seoKeywords"`
}
