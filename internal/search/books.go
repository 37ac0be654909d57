package search

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"studysync-api/internal/models"
)

// BooksClient queries the Google Books volumes endpoint. The API key is
// optional; without one the public quota applies.
type BooksClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewBooksClient(apiKey, baseURL string) *BooksClient {
	return &BooksClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(),
	}
}

type volumesResponse struct {
	Items []struct {
		ID         string `json:"id"`
		VolumeInfo struct {
			Title         string   `json:"title"`
			Authors       []string `json:"authors"`
			Description   string   `json:"description"`
			Publisher     string   `json:"publisher"`
			PublishedDate string   `json:"publishedDate"`
			PageCount     int      `json:"pageCount"`
			Categories    []string `json:"categories"`
			AverageRating float64  `json:"averageRating"`
			RatingsCount  int      `json:"ratingsCount"`
			PreviewLink   string   `json:"previewLink"`
			InfoLink      string   `json:"infoLink"`
			ImageLinks    struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// SearchBooks returns up to maxResults books matching query.
func (c *BooksClient) SearchBooks(ctx context.Context, query string, maxResults int) ([]models.Book, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("printType", "books")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	slog.Debug("searching Google Books", "query", query, "keyed", c.apiKey != "")
	var result volumesResponse
	if err := getJSON(ctx, c.http, c.baseURL+"/volumes?"+params.Encode(), &result); err != nil {
		return nil, err
	}

	books := make([]models.Book, 0, len(result.Items))
	for _, item := range result.Items {
		v := item.VolumeInfo
		books = append(books, models.Book{
			ID:            item.ID,
			Title:         v.Title,
			Authors:       orDefault(v.Authors, []string{"Unknown Author"}),
			Description:   orDefault(v.Description, "No description available"),
			Thumbnail:     v.ImageLinks.Thumbnail,
			PreviewLink:   v.PreviewLink,
			InfoLink:      v.InfoLink,
			PublishedDate: orDefault(v.PublishedDate, "Unknown"),
			Publisher:     orDefault(v.Publisher, "Unknown Publisher"),
			PageCount:     v.PageCount,
			Categories:    orDefault(v.Categories, []string{}),
			AverageRating: v.AverageRating,
			RatingsCount:  v.RatingsCount,
		})
	}
	return books, nil
}

func orDefault[T string | []string](v, fallback T) T {
	if len(v) == 0 {
		return fallback
	}
	return v
}
