package models

// Video is a YouTube search result.
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	URL         string `json:"url"`
}

// Book is a Google Books search result.
type Book struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description"`
	Thumbnail     string   `json:"thumbnail"`
	PreviewLink   string   `json:"previewLink"`
	InfoLink      string   `json:"infoLink"`
	PublishedDate string   `json:"publishedDate"`
	Publisher     string   `json:"publisher"`
	PageCount     int      `json:"pageCount"`
	Categories    []string `json:"categories"`
	AverageRating float64  `json:"averageRating"`
	RatingsCount  int      `json:"ratingsCount"`
}

// SearchResponse wraps search results from either provider.
type SearchResponse[T any] struct {
	Query   string `json:"query"`
	Count   int    `json:"count"`
	Results []T    `json:"results"`
	Cached  bool   `json:"cached"`
}
