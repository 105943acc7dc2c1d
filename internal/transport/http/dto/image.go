package dto

// ImageResponse is what rich text editors expect back from an upload.
type ImageResponse struct {
	Link string `json:"link"`
	URL  string `json:"url"`
	Name string `json:"name"`
}
