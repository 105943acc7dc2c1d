package dto

// PostFields carries post form fields from either a JSON body or a
// multipart form. Nil means the field was not sent.
type PostFields struct {
	Title           *string `json:"title"`
	Slug            *string `json:"slug"`
	Excerpt         *string `json:"excerpt"`
	Content         *string `json:"content"`
	Status          *string `json:"status"`
	PostType        *string `json:"postType"`
	IsFeatured      *bool   `json:"isFeatured"`
	Thumbnail       *string `json:"thumbnail"`
	MetaTitle       *string `json:"metaTitle"`
	MetaDescription *string `json:"metaDescription"`
	MetaKeyword     *string `json:"metaKeyword"`
	CategoryID      *string `json:"categoryId"`
}
