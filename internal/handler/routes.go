package handler

import "github.com/gofiber/fiber/v3"

// PublicPrefixes, and the paths below them, are reachable without a bearer
// token.
var PublicPrefixes = []string{"/health", "/swagger", "/api/v1/auth", "/api/v1/health"}

type Handlers struct {
	Auth            *AuthHandler
	Bookmarks       *BookmarkHandler
	Activity        *ActivityHandler
	Recommendations *RecommendationHandler
	Search          *SearchHandler
}

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(app fiber.Router, h Handlers) {
	app.Get("/health", Health)

	api := app.Group("/api/v1")
	api.Get("/health", Health)

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)

	users := api.Group("/users/:id")
	users.Get("/", h.Auth.GetUser)

	users.Get("/bookmarks", h.Bookmarks.ListBookmarks)
	users.Post("/bookmarks", h.Bookmarks.CreateBookmark)
	users.Get("/bookmarks/:bookmarkId", h.Bookmarks.GetBookmark)
	users.Patch("/bookmarks/:bookmarkId", h.Bookmarks.UpdateBookmark)
	users.Delete("/bookmarks/:bookmarkId", h.Bookmarks.DeleteBookmark)

	users.Get("/activity", h.Activity.ListActivity)
	users.Post("/activity", h.Activity.RecordActivity)
	users.Delete("/activity", h.Activity.ClearActivity)

	users.Get("/recommendations", h.Recommendations.GetRecommendations)
	users.Get("/recommendations/snapshots", h.Recommendations.GetSnapshots)

	api.Post("/recommendations/preview", h.Recommendations.Preview)
	api.Get("/catalog", h.Recommendations.Catalog)

	api.Get("/search/videos", h.Search.SearchVideos)
	api.Get("/search/books", h.Search.SearchBooks)
}
